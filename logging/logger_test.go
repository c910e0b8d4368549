package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}

func TestNew_WritesRotatedFile(t *testing.T) {
	dir := t.TempDir()

	l, rotator, err := New(Config{Level: "info", Dir: dir})
	require.NoError(t, err)
	require.NotNil(t, rotator)
	defer func() { _ = rotator.Close() }()

	l.Info("quota checked", "user_id", "uid-1")
	l.Debug("dropped below level")

	data, err := os.ReadFile(filepath.Join(dir, "chatbot.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"quota checked"`)
	assert.Contains(t, string(data), `"user_id":"uid-1"`)
	assert.NotContains(t, string(data), "dropped below level")
}

func TestInitialize_SetsDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() {
		slog.SetDefault(prev)
		_ = Close()
	})

	require.NoError(t, Initialize(Config{Level: "debug", Dir: t.TempDir(), Dev: true}))
	assert.Same(t, Get(), slog.Default())
}
