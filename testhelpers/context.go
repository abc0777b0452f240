package testhelpers

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"stacky.dev/stacky/internal/config"
	"stacky.dev/stacky/internal/engine"
	stackyerrors "stacky.dev/stacky/internal/errors"
	"stacky.dev/stacky/internal/runtime"
	"stacky.dev/stacky/internal/tui"
)

// StubPrompter answers prompts from canned values and records the questions.
type StubPrompter struct {
	// Answer is returned by Confirm.
	Answer bool
	// Text, when set, replaces the default of PromptText.
	Text string
	// Choice is returned by ChooseBranch; empty aborts.
	Choice string
	// MenuErr, when set, is returned by ChooseBranch.
	MenuErr error

	Confirms []string
	Prompts  []string
	Menus    [][]string
}

var _ runtime.Prompter = (*StubPrompter)(nil)

func (p *StubPrompter) Confirm(message string) (bool, error) {
	p.Confirms = append(p.Confirms, message)
	return p.Answer, nil
}

func (p *StubPrompter) PromptText(message, defaultValue string) (string, error) {
	p.Prompts = append(p.Prompts, defaultValue)
	if p.Text != "" {
		return p.Text, nil
	}
	return defaultValue, nil
}

func (p *StubPrompter) ChooseBranch(forest engine.Forest, current string) (string, error) {
	lines, _, _ := tui.MenuEntries(forest, current)
	p.Menus = append(p.Menus, lines)
	if p.MenuErr != nil {
		return "", p.MenuErr
	}
	if p.Choice == "" {
		return "", stackyerrors.NewUserAbortedError("")
	}
	return p.Choice, nil
}

// TestContext is a runtime.Context over in-memory fakes with captured output.
type TestContext struct {
	*runtime.Context
	Fake   *FakeGit
	GH     *FakeGitHub
	UI     *StubPrompter
	Output *bytes.Buffer
}

// NewTestContext loads the stacks of fake into a runtime.Context whose
// record store lives in a temp dir.
func NewTestContext(t *testing.T, fake *FakeGit, cfg *config.Config) *TestContext {
	t.Helper()
	out := &bytes.Buffer{}
	splog, err := tui.NewSplogWithConfig(out, "")
	require.NoError(t, err)
	ctx, err := runtime.NewContext(context.Background(), fake, cfg, config.NewSyncStateFile(t.TempDir()), splog, runtime.Options{})
	require.NoError(t, err)

	gh := NewFakeGitHub()
	ui := &StubPrompter{Answer: true}
	ctx.GitHubClient = gh
	ctx.UI = ui
	return &TestContext{Context: ctx, Fake: fake, GH: gh, UI: ui, Output: out}
}

// Reload rereads the fake's metadata, as a new invocation would.
func (c *TestContext) Reload(t *testing.T) {
	t.Helper()
	require.NoError(t, c.Context.Reload())
}
