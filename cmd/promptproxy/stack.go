package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/davetashner/promptproxy/internal/config"
	"github.com/davetashner/promptproxy/internal/stack"
)

// Stack command flags.
var (
	stackName     string
	stackRegion   string
	stackAttempts int
	stackInterval time.Duration
)

// newCloudFormation builds the CloudFormation client. Tests replace it.
var newCloudFormation = stack.NewAWSClient

// stackCmd is the parent command for stack subcommands.
var stackCmd = &cobra.Command{
	Use:   "stack",
	Short: "Inspect and delete the deployment stack",
	Long: `Inspect and delete the CloudFormation stack the proxy is deployed with.

The stack name and region default to the config file values
(langchain-lambda in ca-west-1 when unset).`,
}

// stackStatusCmd reports the stack's status.
var stackStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the stack status",
	Long: `Show the stack status and ID. Stacks stuck in DELETE_FAILED or
ROLLBACK_FAILED also get their resources listed.`,
	Args: cobra.NoArgs,
	RunE: runStackStatus,
}

// stackDeleteCmd deletes the stack and waits for completion.
var stackDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the stack and wait for completion",
	Long: `Request stack deletion and poll until the stack is gone.

Exit codes:
  0  stack deleted
  1  error
  2  deletion still in progress after the last poll`,
	Args: cobra.NoArgs,
	RunE: runStackDelete,
}

func init() {
	stackCmd.PersistentFlags().StringVar(&stackName, "name", "", "stack name")
	stackCmd.PersistentFlags().StringVar(&stackRegion, "region", "", "AWS region")
	stackDeleteCmd.Flags().IntVar(&stackAttempts, "attempts", 0, "number of status checks before giving up")
	stackDeleteCmd.Flags().DurationVar(&stackInterval, "interval", 0, "wait between status checks")

	stackCmd.AddCommand(stackStatusCmd)
	stackCmd.AddCommand(stackDeleteCmd)
}

func newStackManager(ctx context.Context, cfg config.Config) (*stack.Manager, error) {
	name := firstNonEmpty(stackName, cfg.Stack.Name)
	region := firstNonEmpty(stackRegion, cfg.Stack.Region)

	api, err := newCloudFormation(ctx, region)
	if err != nil {
		return nil, exitError(ExitError, "promptproxy: %v", err)
	}

	opts := []stack.Option{
		stack.WithPollAttempts(cfg.Stack.PollAttempts),
		stack.WithPollInterval(cfg.Stack.PollInterval),
	}
	if stackAttempts > 0 {
		opts = append(opts, stack.WithPollAttempts(stackAttempts))
	}
	if stackInterval > 0 {
		opts = append(opts, stack.WithPollInterval(stackInterval))
	}
	return stack.New(api, name, opts...), nil
}

func runStackStatus(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	m, err := newStackManager(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	r, err := m.Status(cmd.Context())
	if err != nil {
		return exitError(ExitError, "Error: %v", err)
	}

	w := cmd.OutOrStdout()
	bold := color.New(color.Bold)
	_, _ = fmt.Fprintf(w, "%s %s\n", bold.Sprint("Stack Status:"), statusColor(r.Status).Sprint(r.Status))
	_, _ = fmt.Fprintf(w, "%s %s\n", bold.Sprint("Stack ID:"), r.ID)

	if r.Failed() {
		printFailedStack(w, r)
	}
	return nil
}

func printFailedStack(w io.Writer, r *stack.Report) {
	yellow := color.New(color.FgYellow)
	_, _ = fmt.Fprintf(w, "\nStack is in %s state.\n", r.Status)
	_, _ = yellow.Fprintln(w, "This usually means the stack has resources that couldn't be deleted.")
	_, _ = yellow.Fprintln(w, "Manual cleanup via the AWS Console may be required.")

	if r.ResourcesErr != nil {
		_, _ = fmt.Fprintf(w, "Could not list resources: %v\n", r.ResourcesErr)
		return
	}

	_, _ = fmt.Fprintf(w, "\nStack resources (%d total):\n", len(r.Resources))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, res := range r.Resources {
		_, _ = fmt.Fprintf(tw, "  - %s\t%s\t%s\n", res.LogicalID, res.Type, statusColor(res.Status).Sprint(res.Status))
	}
	_ = tw.Flush()
}

func runStackDelete(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	m, err := newStackManager(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	green := color.New(color.FgGreen)

	err = m.Delete(cmd.Context(), func(attempt int, status string) {
		if attempt == 0 {
			_, _ = fmt.Fprintf(w, "Current stack status: %s\n", statusColor(status).Sprint(status))
			_, _ = fmt.Fprintln(w, "Attempting to delete stack...")
			_, _ = fmt.Fprintln(w, "Waiting for deletion...")
			return
		}
		_, _ = fmt.Fprintf(w, "  [%d] Status: %s\n", attempt, statusColor(status).Sprint(status))
	})
	switch {
	case err == nil:
		_, _ = green.Fprintln(w, "Stack deleted successfully")
		return nil
	case errors.Is(err, stack.ErrTimeout):
		return exitError(ExitTimeout, "Timeout waiting for stack deletion: %s", m.Name())
	default:
		return exitError(ExitError, "Error: %v", err)
	}
}

func statusColor(status string) *color.Color {
	switch {
	case stack.IsFailed(status), strings.HasSuffix(status, "_FAILED"):
		return color.New(color.FgRed)
	case strings.HasSuffix(status, "_COMPLETE"):
		return color.New(color.FgGreen)
	default:
		return color.New(color.FgYellow)
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
