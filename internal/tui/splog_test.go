package tui

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for name, want := range map[string]slog.Level{
		"critical": LevelCritical,
		"error":    slog.LevelError,
		"warn":     slog.LevelWarn,
		"WARNING":  slog.LevelWarn,
		"info":     slog.LevelInfo,
		"debug":    slog.LevelDebug,
	} {
		t.Run(name, func(t *testing.T) {
			got, err := ParseLevel(name)
			require.NoError(t, err)
			require.Equal(t, want, got)
		})
	}

	_, err := ParseLevel("loud")
	require.Error(t, err)
}

func TestSplog(t *testing.T) {
	t.Run("console respects the level", func(t *testing.T) {
		t.Setenv("DEBUG", "")
		var out bytes.Buffer
		splog, err := NewSplogWithConfig(&out, "")
		require.NoError(t, err)

		splog.Debug("hidden")
		splog.Info("Rebasing %s on top of %s", "feature-a", "main")
		splog.SetLevel(slog.LevelWarn)
		splog.Info("also hidden")
		splog.Warn("Broken stack: %s", "a -> b")
		splog.SetLevel(LevelCritical)
		splog.Error("hidden too")

		require.Equal(t, "Rebasing feature-a on top of main\n⚠️  Broken stack: a -> b\n", out.String())
	})

	t.Run("file receives debug output", func(t *testing.T) {
		var out bytes.Buffer
		path := filepath.Join(t.TempDir(), "logs", "stacky.log")
		splog, err := NewSplogWithConfig(&out, path)
		require.NoError(t, err)

		splog.SetLevel(slog.LevelError)
		splog.Debug("anchor moved")
		require.NoError(t, splog.Close())

		require.Empty(t, out.String())
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		require.Contains(t, string(data), "anchor moved")
	})
}

func TestGetLogFilePath(t *testing.T) {
	t.Setenv("STACKY_LOG_FILE", "/tmp/custom.log")
	require.Equal(t, "/tmp/custom.log", GetLogFilePath())
}
