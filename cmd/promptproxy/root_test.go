package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootHelp(t *testing.T) {
	isolateEnv(t)
	cmd, out, _ := newTestCmd()
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())

	help := out.String()
	assert.Contains(t, help, "hosted language model")
	for _, sub := range []string{"serve", "complete", "stack", "config", "version"} {
		assert.Contains(t, help, sub)
	}
}

func TestGlobalFlags(t *testing.T) {
	for _, name := range []string{"verbose", "quiet", "no-color", "config"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), "flag --%s", name)
	}
	v := rootCmd.PersistentFlags().ShorthandLookup("v")
	require.NotNil(t, v)
	assert.Equal(t, "verbose", v.Name)
	q := rootCmd.PersistentFlags().ShorthandLookup("q")
	require.NotNil(t, q)
	assert.Equal(t, "quiet", q.Name)
}

func TestVersion(t *testing.T) {
	isolateEnv(t)
	cmd, out, _ := newTestCmd()
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "promptproxy dev", strings.TrimSpace(out.String()))
}

func TestExitError(t *testing.T) {
	assert.Equal(t, "promptproxy: timed out", exitError(ExitTimeout, "").Error())
	assert.Equal(t, "promptproxy: error", exitError(ExitError, "").Error())
	e := exitError(ExitError, "bad %s", "thing")
	assert.Equal(t, "bad thing", e.Error())
	assert.Equal(t, ExitError, e.ExitCode())
}

func TestConfigShow(t *testing.T) {
	isolateEnv(t)
	t.Setenv("OPENAI_MODEL", "anthropic:claude-haiku-4-5")

	cmd, out, _ := newTestCmd()
	cmd.SetArgs([]string{"config", "show"})
	require.NoError(t, cmd.Execute())

	yaml := out.String()
	assert.Contains(t, yaml, "model: anthropic:claude-haiku-4-5")
	assert.Contains(t, yaml, "max_tokens_limit: 1024")
	assert.Contains(t, yaml, "name: langchain-lambda")
	assert.Contains(t, yaml, "poll_interval: 1s")
}

func TestConfigShow_InvalidConfig(t *testing.T) {
	isolateEnv(t)
	t.Setenv("PROMPTPROXY_LOG_LEVEL", "chatty")

	cmd, _, _ := newTestCmd()
	cmd.SetArgs([]string{"config", "show"})
	err := cmd.Execute()
	assert.Equal(t, ExitError, exitCode(t, err))
	assert.Contains(t, err.Error(), "log_level")
}

func TestConfigPath(t *testing.T) {
	isolateEnv(t)
	cmd, out, _ := newTestCmd()
	cmd.SetArgs([]string{"config", "path", "--config", "/tmp/custom.yaml"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "/tmp/custom.yaml", strings.TrimSpace(out.String()))
}
