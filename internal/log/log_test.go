package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_Levels(t *testing.T) {
	tests := []struct {
		name           string
		verbose, quiet bool
		lowest         slog.Level
	}{
		{"default", false, false, slog.LevelInfo},
		{"verbose", true, false, slog.LevelDebug},
		{"quiet", false, true, slog.LevelWarn},
		{"quiet wins over verbose", true, true, slog.LevelWarn},
	}
	ctx := context.Background()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Setup(tt.verbose, tt.quiet)
			h := slog.Default().Handler()
			for _, lvl := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
				assert.Equal(t, lvl >= tt.lowest, h.Enabled(ctx, lvl), "level %s", lvl)
			}
		})
	}
}

func TestSetupJSON_WritesJSONLines(t *testing.T) {
	var buf bytes.Buffer
	SetupJSON(&buf, slog.LevelInfo)
	t.Cleanup(func() { Setup(false, false) })

	slog.Info("completion served", "cache", "HIT")
	slog.Debug("dropped")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "completion served", line["msg"])
	assert.Equal(t, "HIT", line["cache"])
	assert.NotContains(t, buf.String(), "dropped")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}
