package secrets

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// SecretsManagerAPI is the subset of the Secrets Manager client used here.
type SecretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// AWSStore reads secrets from AWS Secrets Manager.
type AWSStore struct {
	client SecretsManagerAPI
}

// Compile-time check that AWSStore satisfies the Store interface.
var _ Store = (*AWSStore)(nil)

// NewAWSStore loads the default AWS configuration, optionally pinned to
// region, and returns a Secrets Manager backed Store. It performs no network
// calls.
func NewAWSStore(ctx context.Context, region string) (Store, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("secrets: load aws config: %w", err)
	}
	return NewAWSStoreFromClient(secretsmanager.NewFromConfig(cfg)), nil
}

// NewAWSStoreFromClient wraps an existing Secrets Manager client.
func NewAWSStoreFromClient(client SecretsManagerAPI) *AWSStore {
	return &AWSStore{client: client}
}

// GetSecretString returns the SecretString of the named secret. Binary-only
// and empty secrets yield ErrSecretNotFound.
func (s *AWSStore) GetSecretString(ctx context.Context, name string) (string, error) {
	out, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(name),
	})
	if err != nil {
		return "", fmt.Errorf("secrets: get %s: %w", name, err)
	}
	if v := aws.ToString(out.SecretString); v != "" {
		return v, nil
	}
	return "", ErrSecretNotFound
}
