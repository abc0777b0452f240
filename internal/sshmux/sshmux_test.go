package sshmux

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type discard struct{}

func (discard) Info(string, ...interface{})  {}
func (discard) Debug(string, ...interface{}) {}

// fakeSSH writes a shell script standing in for ssh that records its arguments.
func fakeSSH(t *testing.T, body string) (string, string) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	dir := t.TempDir()
	logPath := filepath.Join(dir, "calls")
	script := filepath.Join(dir, "ssh")
	content := "#!/bin/sh\necho \"$@\" >> " + logPath + "\n" + body + "\n"
	require.NoError(t, os.WriteFile(script, []byte(content), 0700))
	return script, logPath
}

func TestCommand(t *testing.T) {
	m := New("git@github.com", discard{})
	require.Equal(t, "ssh -o ControlMaster=auto -o ControlPersist=120 -o ControlPath=~/.ssh/stacky-%C", m.Command())
	require.Equal(t, "git@github.com", m.Host())
}

func TestStartStop(t *testing.T) {
	t.Run("starts the master and stops it", func(t *testing.T) {
		t.Setenv("GIT_SSH_COMMAND", "")
		script, logPath := fakeSSH(t, "sleep 0.2; exit 0")
		m := New("git@example.com", discard{})
		m.SSH = script
		m.Poll = 50 * time.Millisecond

		require.NoError(t, m.Start(context.Background()))
		require.Equal(t, m.Command(), os.Getenv("GIT_SSH_COMMAND"))
		m.Stop(context.Background())

		calls, err := os.ReadFile(logPath)
		require.NoError(t, err)
		opts := "-o ControlMaster=auto -o ControlPersist=120 -o ControlPath=~/.ssh/stacky-%C"
		require.Equal(t, opts+" -MNf git@example.com\n"+opts+" -O exit git@example.com\n", string(calls))
	})

	t.Run("does not wait for the daemonized master", func(t *testing.T) {
		t.Setenv("GIT_SSH_COMMAND", "")
		script, _ := fakeSSH(t, "(sleep 5) & exit 0")
		m := New("git@example.com", discard{})
		m.SSH = script
		m.Poll = 10 * time.Millisecond

		start := time.Now()
		require.NoError(t, m.Start(context.Background()))
		require.Less(t, time.Since(start), 2*time.Second)
	})

	t.Run("reports the ssh error", func(t *testing.T) {
		t.Setenv("GIT_SSH_COMMAND", "")
		script, _ := fakeSSH(t, "echo 'Permission denied (publickey).' >&2; exit 255")
		m := New("git@example.com", discard{})
		m.SSH = script

		err := m.Start(context.Background())
		require.EqualError(t, err, "failed to start ssh muxed connection, error was: Permission denied (publickey).")
	})

	t.Run("stop without start does nothing", func(t *testing.T) {
		m := New("git@example.com", discard{})
		m.SSH = filepath.Join(t.TempDir(), "missing")
		m.Stop(context.Background())
	})
}
