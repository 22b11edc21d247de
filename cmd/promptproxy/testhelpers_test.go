package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/promptproxy/internal/config"
	"github.com/davetashner/promptproxy/internal/handler"
)

// newTestCmd redirects the shared root command's output.
func newTestCmd() (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	return rootCmd, stdout, stderr
}

// isolateEnv points configuration lookups at an empty temp directory and
// clears the variables that feed config.
func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, k := range []string{
		config.PathEnvVar, config.EnvModel, config.EnvOpenAIBaseURL, config.EnvSecretName,
		config.EnvAnthropicSecretName, config.EnvRegion, config.EnvLogLevel,
	} {
		t.Setenv(k, "")
	}
	resetFlags()
	t.Cleanup(resetFlags)
}

func resetFlags() {
	verbose = false
	quiet = false
	noColor = false
	configPath = ""
	serveAddr = ""
	completeMaxTokens = 0
	completeJSON = false
	stackName = ""
	stackRegion = ""
	stackAttempts = 0
	stackInterval = 0
	reset := func(f *pflag.Flag) {
		f.Changed = false
		_ = f.Value.Set(f.DefValue)
	}
	for _, c := range []*cobra.Command{completeCmd, stackStatusCmd, stackDeleteCmd, serveCmd} {
		c.Flags().VisitAll(reset)
	}
	rootCmd.PersistentFlags().VisitAll(reset)
	stackCmd.PersistentFlags().VisitAll(reset)
}

// withCompleter swaps the completion backend for the duration of a test.
func withCompleter(t *testing.T, c handler.Completer) {
	t.Helper()
	orig := newCompleter
	newCompleter = func(config.Config) handler.Completer { return c }
	t.Cleanup(func() { newCompleter = orig })
}

// exitCode extracts the exit code carried by err.
func exitCode(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		return ExitOK
	}
	var ece *exitCodeError
	require.True(t, errors.As(err, &ece), "expected exitCodeError, got %T: %v", err, err)
	return ece.ExitCode()
}

type stubCompleter struct {
	result string
	err    error
	prompt string
	max    int
}

func (s *stubCompleter) Complete(_ context.Context, prompt string, maxTokens int) (string, error) {
	s.prompt = prompt
	s.max = maxTokens
	return s.result, s.err
}
