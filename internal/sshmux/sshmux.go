// Package sshmux shares one SSH connection between the git commands of a
// batch by running an ssh ControlMaster in the background.
package sshmux

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// MaxLifetime is the ControlPersist value in seconds: how long the master
// stays up after its last client disconnects.
const MaxLifetime = 120

// PollInterval is how often Start checks whether the daemonizing ssh has exited.
const PollInterval = time.Second

// Logger receives progress messages.
type Logger interface {
	Info(format string, args ...interface{})
	Debug(format string, args ...interface{})
}

// Mux manages the control master for one host.
type Mux struct {
	host string
	log  Logger

	// SSH is the ssh binary.
	SSH string
	// Poll overrides PollInterval.
	Poll time.Duration

	started bool
}

// New returns a Mux for host, as in "git@github.com".
func New(host string, log Logger) *Mux {
	return &Mux{host: host, log: log, SSH: "ssh", Poll: PollInterval}
}

// Host returns the ssh host the master connects to.
func (m *Mux) Host() string {
	return m.host
}

// Options returns the ssh options that make clients reuse the master.
func Options() []string {
	return []string{
		"-o", "ControlMaster=auto",
		"-o", fmt.Sprintf("ControlPersist=%d", MaxLifetime),
		"-o", "ControlPath=~/.ssh/stacky-%C",
	}
}

// Command returns the GIT_SSH_COMMAND value that routes git through the master.
func (m *Mux) Command() string {
	return strings.Join(append([]string{m.SSH}, Options()...), " ")
}

// Start points git at the master and starts it with `ssh -MNf`. It returns
// once the daemonizing ssh process has exited, checking every Poll.
func (m *Mux) Start(ctx context.Context) error {
	m.log.Info("Creating a muxed ssh connection")
	if err := os.Setenv("GIT_SSH_COMMAND", m.Command()); err != nil {
		return err
	}

	args := append(Options(), "-MNf", m.host)
	cmd := exec.CommandContext(ctx, m.SSH, args...)
	// A file rather than a pipe: the daemonized master may keep stderr open,
	// and Wait would block on the pipe until it exits.
	stderr, err := os.CreateTemp("", "stacky-ssh-*")
	if err != nil {
		return err
	}
	defer func() {
		_ = stderr.Close()
		_ = os.Remove(stderr.Name())
	}()
	cmd.Stderr = stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ssh muxed connection: %w", err)
	}
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	ticker := time.NewTicker(m.Poll)
	defer ticker.Stop()
	for {
		select {
		case err := <-done:
			if err != nil {
				out, _ := os.ReadFile(stderr.Name())
				msg := strings.TrimSpace(string(out))
				if msg == "" {
					msg = err.Error()
				}
				return fmt.Errorf("failed to start ssh muxed connection, error was: %s", msg)
			}
			m.started = true
			return nil
		case <-ticker.C:
			m.log.Debug("Waiting for the ssh master to %s", m.host)
		}
	}
}

// Stop asks the master to exit. Failures are ignored: the master may already
// be gone, and it expires on its own after MaxLifetime.
func (m *Mux) Stop(ctx context.Context) {
	if !m.started {
		return
	}
	args := append(Options(), "-O", "exit", m.host)
	cmd := exec.CommandContext(ctx, m.SSH, args...)
	if err := cmd.Run(); err != nil {
		m.log.Debug("ssh -O exit failed: %v", err)
	}
	m.started = false
}
