package stack

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
)

// StatusFunc observes stack statuses while Delete runs. Attempt 0 is the
// status before the delete request; attempts 1..N are polls.
type StatusFunc func(attempt int, status string)

// Delete requests deletion and polls until the stack is gone, the attempt
// budget runs out (ErrTimeout) or an error occurs. A stack reported as
// DELETE_COMPLETE, missing from the listing, or rejected as nonexistent
// counts as deleted.
func (m *Manager) Delete(ctx context.Context, observe StatusFunc) error {
	if observe == nil {
		observe = func(int, string) {}
	}

	status, _, err := m.describe(ctx)
	if err != nil {
		return describeErr(m.name, err)
	}
	if status == "" {
		return fmt.Errorf("%w: %s", ErrStackNotFound, m.name)
	}
	observe(0, status)

	if _, err := m.api.DeleteStack(ctx, &cloudformation.DeleteStackInput{
		StackName: aws.String(m.name),
	}); err != nil {
		return fmt.Errorf("deleting stack %s: %w", m.name, err)
	}
	slog.Debug("delete requested", "stack", m.name, "attempts", m.attempts, "interval", m.interval)

	for i := 1; i <= m.attempts; i++ {
		status, _, err := m.describe(ctx)
		if err != nil {
			if IsNotExist(err) {
				return nil
			}
			return fmt.Errorf("describing stack %s: %w", m.name, err)
		}
		if status == "" {
			return nil
		}
		observe(i, status)
		if strings.Contains(status, "DELETE_COMPLETE") {
			return nil
		}
		if i < m.attempts {
			if err := m.wait(ctx); err != nil {
				return err
			}
		}
	}
	return fmt.Errorf("%w: %s after %d checks", ErrTimeout, m.name, m.attempts)
}
