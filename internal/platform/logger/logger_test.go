package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/phrazzld/lingo-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
	}
	for name, want := range cases {
		got, err := ParseLevel(name)
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestSetupWritesJSON(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	var out bytes.Buffer
	l, err := setup(config.ServerConfig{LogLevel: "warn", Environment: "production"}, &out)
	require.NoError(t, err)
	require.NotNil(t, l)

	l.Info("hidden")
	l.Warn("shown", "unit_id", "abc")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), `"unit_id":"abc"`)
	assert.Same(t, l, slog.Default())
}

func TestSetupDevelopmentUsesText(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	var out bytes.Buffer
	l, err := setup(config.ServerConfig{LogLevel: "info", Environment: "development"}, &out)
	require.NoError(t, err)

	l.Info("hello", "k", "v")
	assert.True(t, strings.Contains(out.String(), "k=v"))
}

func TestContextLogger(t *testing.T) {
	t.Parallel()

	captured, buf := NewCaptureLogger()
	fallback := Discard()

	assert.Same(t, fallback, FromContextOrDefault(context.Background(), fallback))

	ctx := WithLogger(context.Background(), captured)
	FromContextOrDefault(ctx, fallback).Info("from context", "task_id", "t1")

	entries, err := buf.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "t1", entries[0]["task_id"])
	assert.NotNil(t, FromContext(context.Background()))
}
