package secrets

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSecretsManager struct {
	out      *secretsmanager.GetSecretValueOutput
	err      error
	secretID string
}

func (f *fakeSecretsManager) GetSecretValue(_ context.Context, in *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.secretID = aws.ToString(in.SecretId)
	return f.out, f.err
}

func TestAWSStore_GetSecretString(t *testing.T) {
	fake := &fakeSecretsManager{out: &secretsmanager.GetSecretValueOutput{SecretString: aws.String(`{"key":"v"}`)}}
	s := NewAWSStoreFromClient(fake)

	got, err := s.GetSecretString(context.Background(), "prod/openai")

	require.NoError(t, err)
	assert.Equal(t, `{"key":"v"}`, got)
	assert.Equal(t, "prod/openai", fake.secretID)
}

func TestAWSStore_EmptySecretString(t *testing.T) {
	s := NewAWSStoreFromClient(&fakeSecretsManager{out: &secretsmanager.GetSecretValueOutput{SecretBinary: []byte{1, 2}}})

	_, err := s.GetSecretString(context.Background(), "bin")
	assert.ErrorIs(t, err, ErrSecretNotFound)
}

func TestAWSStore_ClientError(t *testing.T) {
	boom := errors.New("ResourceNotFoundException")
	s := NewAWSStoreFromClient(&fakeSecretsManager{err: boom})

	_, err := s.GetSecretString(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "secrets: get missing")
}
