package main

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/promptproxy/internal/stack"
)

// scriptedCloudFormation answers DescribeStacks from a list of statuses. An
// empty status means the stack is gone.
type scriptedCloudFormation struct {
	statuses  []string
	n         int
	resources []types.StackResourceSummary
	deleted   bool
}

func (s *scriptedCloudFormation) DescribeStacks(_ context.Context, in *cloudformation.DescribeStacksInput, _ ...func(*cloudformation.Options)) (*cloudformation.DescribeStacksOutput, error) {
	i := min(s.n, len(s.statuses)-1)
	s.n++
	if s.statuses[i] == "" {
		return nil, &smithy.GenericAPIError{Code: "ValidationError", Message: "Stack with id " + aws.ToString(in.StackName) + " does not exist"}
	}
	return &cloudformation.DescribeStacksOutput{Stacks: []types.Stack{{
		StackName:   in.StackName,
		StackId:     aws.String("arn:stack/" + aws.ToString(in.StackName)),
		StackStatus: types.StackStatus(s.statuses[i]),
	}}}, nil
}

func (s *scriptedCloudFormation) ListStackResources(context.Context, *cloudformation.ListStackResourcesInput, ...func(*cloudformation.Options)) (*cloudformation.ListStackResourcesOutput, error) {
	return &cloudformation.ListStackResourcesOutput{StackResourceSummaries: s.resources}, nil
}

func (s *scriptedCloudFormation) DeleteStack(context.Context, *cloudformation.DeleteStackInput, ...func(*cloudformation.Options)) (*cloudformation.DeleteStackOutput, error) {
	s.deleted = true
	return &cloudformation.DeleteStackOutput{}, nil
}

// withCloudFormation swaps the CloudFormation client factory and records the
// region it was asked for.
func withCloudFormation(t *testing.T, api stack.CloudFormationAPI, err error) *string {
	t.Helper()
	var region string
	orig := newCloudFormation
	newCloudFormation = func(_ context.Context, r string) (stack.CloudFormationAPI, error) {
		region = r
		return api, err
	}
	t.Cleanup(func() { newCloudFormation = orig })
	return &region
}

func TestStackStatus_Healthy(t *testing.T) {
	isolateEnv(t)
	region := withCloudFormation(t, &scriptedCloudFormation{statuses: []string{"CREATE_COMPLETE"}}, nil)

	cmd, out, _ := newTestCmd()
	cmd.SetArgs([]string{"stack", "status"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "Stack Status: CREATE_COMPLETE")
	assert.Contains(t, out.String(), "Stack ID: arn:stack/langchain-lambda")
	assert.NotContains(t, out.String(), "Stack resources")
	assert.Equal(t, "ca-west-1", *region)
}

func TestStackStatus_FailedListsResources(t *testing.T) {
	isolateEnv(t)
	withCloudFormation(t, &scriptedCloudFormation{
		statuses: []string{"DELETE_FAILED"},
		resources: []types.StackResourceSummary{{
			LogicalResourceId: aws.String("ProxyFunction"),
			ResourceType:      aws.String("AWS::Lambda::Function"),
			ResourceStatus:    types.ResourceStatusDeleteFailed,
		}},
	}, nil)

	cmd, out, _ := newTestCmd()
	cmd.SetArgs([]string{"stack", "status", "--name", "other-stack", "--region", "us-east-1"})
	require.NoError(t, cmd.Execute())

	text := out.String()
	assert.Contains(t, text, "Stack is in DELETE_FAILED state.")
	assert.Contains(t, text, "Stack resources (1 total):")
	assert.Contains(t, text, "ProxyFunction")
	assert.Contains(t, text, "AWS::Lambda::Function")
	assert.Contains(t, text, "arn:stack/other-stack")
}

func TestStackStatus_NotFound(t *testing.T) {
	isolateEnv(t)
	withCloudFormation(t, &scriptedCloudFormation{statuses: []string{""}}, nil)

	cmd, _, _ := newTestCmd()
	cmd.SetArgs([]string{"stack", "status"})
	err := cmd.Execute()
	assert.Equal(t, ExitError, exitCode(t, err))
	assert.Contains(t, err.Error(), "does not exist")
}

func TestStackStatus_ClientError(t *testing.T) {
	isolateEnv(t)
	withCloudFormation(t, nil, errors.New("no credentials"))

	cmd, _, _ := newTestCmd()
	cmd.SetArgs([]string{"stack", "status"})
	err := cmd.Execute()
	assert.Equal(t, ExitError, exitCode(t, err))
	assert.Contains(t, err.Error(), "no credentials")
}

func TestStackDelete_Success(t *testing.T) {
	isolateEnv(t)
	api := &scriptedCloudFormation{statuses: []string{"ROLLBACK_COMPLETE", "DELETE_IN_PROGRESS", "DELETE_COMPLETE"}}
	withCloudFormation(t, api, nil)

	cmd, out, _ := newTestCmd()
	cmd.SetArgs([]string{"stack", "delete", "--interval", "1ms"})
	require.NoError(t, cmd.Execute())

	text := out.String()
	assert.True(t, api.deleted)
	assert.Contains(t, text, "Current stack status: ROLLBACK_COMPLETE")
	assert.Contains(t, text, "[1] Status: DELETE_IN_PROGRESS")
	assert.Contains(t, text, "[2] Status: DELETE_COMPLETE")
	assert.Contains(t, text, "Stack deleted successfully")
}

func TestStackDelete_GoneIsSuccess(t *testing.T) {
	isolateEnv(t)
	withCloudFormation(t, &scriptedCloudFormation{statuses: []string{"CREATE_COMPLETE", ""}}, nil)

	cmd, out, _ := newTestCmd()
	cmd.SetArgs([]string{"stack", "delete", "--interval", "1ms"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Stack deleted successfully")
}

func TestStackDelete_Timeout(t *testing.T) {
	isolateEnv(t)
	api := &scriptedCloudFormation{statuses: []string{"CREATE_COMPLETE", "DELETE_IN_PROGRESS"}}
	withCloudFormation(t, api, nil)

	cmd, _, _ := newTestCmd()
	cmd.SetArgs([]string{"stack", "delete", "--attempts", "3", "--interval", "1ms"})
	err := cmd.Execute()
	assert.Equal(t, ExitTimeout, exitCode(t, err))
	assert.Equal(t, 4, api.n)
}

func TestStackDelete_NotFound(t *testing.T) {
	isolateEnv(t)
	api := &scriptedCloudFormation{statuses: []string{""}}
	withCloudFormation(t, api, nil)

	cmd, _, _ := newTestCmd()
	cmd.SetArgs([]string{"stack", "delete"})
	err := cmd.Execute()
	assert.Equal(t, ExitError, exitCode(t, err))
	assert.False(t, api.deleted)
}
