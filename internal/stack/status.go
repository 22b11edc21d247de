package stack

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
)

// Resource is one row of a stack's resource listing.
type Resource struct {
	LogicalID string
	Type      string
	Status    string
}

// Report describes a stack's current state.
type Report struct {
	Name   string
	ID     string
	Status string

	// Resources is filled only for failed stacks.
	Resources []Resource

	// ResourcesErr records why the resource listing could not be fetched.
	// It does not fail the report.
	ResourcesErr error
}

// Failed reports whether the stack is stuck in a failed delete or rollback.
func (r *Report) Failed() bool {
	return IsFailed(r.Status)
}

// IsFailed reports whether status is a DELETE_FAILED or ROLLBACK_FAILED
// variant.
func IsFailed(status string) bool {
	return strings.Contains(status, "DELETE_FAILED") || strings.Contains(status, "ROLLBACK_FAILED")
}

// Status describes the stack. Failed stacks also get their resources listed.
func (m *Manager) Status(ctx context.Context) (*Report, error) {
	status, id, err := m.describe(ctx)
	if err != nil {
		return nil, describeErr(m.name, err)
	}
	if status == "" {
		return nil, fmt.Errorf("%w: %s", ErrStackNotFound, m.name)
	}

	r := &Report{Name: m.name, ID: id, Status: status}
	if r.Failed() {
		r.Resources, r.ResourcesErr = m.resources(ctx)
	}
	return r, nil
}

func (m *Manager) resources(ctx context.Context) ([]Resource, error) {
	var out []Resource
	p := cloudformation.NewListStackResourcesPaginator(m.api, &cloudformation.ListStackResourcesInput{
		StackName: aws.String(m.name),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return out, fmt.Errorf("listing resources of %s: %w", m.name, err)
		}
		for _, s := range page.StackResourceSummaries {
			out = append(out, Resource{
				LogicalID: aws.ToString(s.LogicalResourceId),
				Type:      aws.ToString(s.ResourceType),
				Status:    string(s.ResourceStatus),
			})
		}
	}
	return out, nil
}
