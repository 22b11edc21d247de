// Copyright 2026 The Promptproxy Authors
// SPDX-License-Identifier: MIT

// Package stack inspects and tears down the CloudFormation stack the proxy
// is deployed with.
package stack

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/smithy-go"

	"github.com/davetashner/promptproxy/internal/config"
)

var (
	// ErrStackNotFound is returned when the stack does not exist before a
	// command starts.
	ErrStackNotFound = errors.New("stack does not exist")

	// ErrTimeout is returned when a deletion is still in progress after the
	// last poll.
	ErrTimeout = errors.New("timed out waiting for stack deletion")
)

// CloudFormationAPI is the subset of the CloudFormation client used here.
type CloudFormationAPI interface {
	DescribeStacks(ctx context.Context, in *cloudformation.DescribeStacksInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeStacksOutput, error)
	ListStackResources(ctx context.Context, in *cloudformation.ListStackResourcesInput, optFns ...func(*cloudformation.Options)) (*cloudformation.ListStackResourcesOutput, error)
	DeleteStack(ctx context.Context, in *cloudformation.DeleteStackInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DeleteStackOutput, error)
}

// NewAWSClient builds a CloudFormation client from the default credential
// chain. An empty region keeps the SDK default.
func NewAWSClient(ctx context.Context, region string) (CloudFormationAPI, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("stack: load aws config: %w", err)
	}
	return cloudformation.NewFromConfig(cfg), nil
}

// Manager runs status and delete operations against one named stack.
type Manager struct {
	api      CloudFormationAPI
	name     string
	attempts int
	interval time.Duration
}

// Option configures a Manager.
type Option func(*Manager)

// WithPollAttempts sets how many times Delete checks the stack.
func WithPollAttempts(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.attempts = n
		}
	}
}

// WithPollInterval sets the wait between checks.
func WithPollInterval(d time.Duration) Option {
	return func(m *Manager) {
		if d >= 0 {
			m.interval = d
		}
	}
}

// New creates a Manager for the named stack.
func New(api CloudFormationAPI, name string, opts ...Option) *Manager {
	m := &Manager{
		api:      api,
		name:     name,
		attempts: config.DefaultPollAttempts,
		interval: config.DefaultPollInterval,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Name returns the stack name.
func (m *Manager) Name() string {
	return m.name
}

// describe returns the stack's status and ID. An empty status with a nil
// error means the stack list came back empty.
func (m *Manager) describe(ctx context.Context) (status, id string, err error) {
	out, err := m.api.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{
		StackName: aws.String(m.name),
	})
	if err != nil {
		return "", "", err
	}
	if len(out.Stacks) == 0 {
		return "", "", nil
	}
	s := out.Stacks[0]
	return string(s.StackStatus), aws.ToString(s.StackId), nil
}

// IsNotExist reports whether err is CloudFormation's "does not exist"
// validation error.
func IsNotExist(err error) bool {
	if err == nil {
		return false
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return strings.Contains(apiErr.ErrorMessage(), "does not exist")
	}
	return strings.Contains(err.Error(), "does not exist")
}

func (m *Manager) wait(ctx context.Context) error {
	if m.interval <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(m.interval)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func describeErr(name string, err error) error {
	if IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrStackNotFound, name)
	}
	return fmt.Errorf("describing stack %s: %w", name, err)
}
