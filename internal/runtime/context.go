package runtime

import (
	"context"
	"fmt"

	"stacky.dev/stacky/internal/config"
	"stacky.dev/stacky/internal/engine"
	stackyerrors "stacky.dev/stacky/internal/errors"
	"stacky.dev/stacky/internal/git"
	"stacky.dev/stacky/internal/github"
	"stacky.dev/stacky/internal/sshmux"
	"stacky.dev/stacky/internal/tui"
)

// DefaultRemote is the remote branches are pushed to unless --remote-name says otherwise.
const DefaultRemote = "origin"

// Prompter asks the user questions.
type Prompter interface {
	Confirm(message string) (bool, error)
	PromptText(message, defaultValue string) (string, error)
	ChooseBranch(forest engine.Forest, current string) (string, error)
}

// Context provides access to the repository state and output for commands
type Context struct {
	Context context.Context

	Git        engine.GitRunner
	Builder    *engine.Builder
	Repo       *engine.Repository
	StateStore engine.StateStore
	Config     *config.Config
	Splog      *tui.Splog
	UI         Prompter

	// Current is the checked out branch, "" when HEAD is detached.
	Current    string
	RemoteName string
	Colorize   bool

	// GitHubClient is created on first use by NewGitHubClient.
	GitHubClient    github.Client
	NewGitHubClient func(ctx context.Context) (github.Client, error)

	// SSH is set when share_ssh_session is enabled and the remote uses ssh.
	SSH *sshmux.Mux
}

// Options are the global command line settings.
type Options struct {
	RemoteName string
	Colorize   bool
}

// NewContext loads every stack reachable through runner. Broken chains are
// reported as warnings.
func NewContext(ctx context.Context, runner engine.GitRunner, cfg *config.Config, store engine.StateStore, splog *tui.Splog, opts Options) (*Context, error) {
	remote := opts.RemoteName
	if remote == "" {
		remote = DefaultRemote
	}
	if cfg == nil {
		cfg = &config.Config{}
	}
	builder, err := engine.NewBuilder(runner, engine.BuilderOptions{Remote: remote, ExtraBottoms: cfg.Bottoms})
	if err != nil {
		return nil, err
	}
	c := &Context{
		Context:    ctx,
		Git:        runner,
		Builder:    builder,
		StateStore: store,
		Config:     cfg,
		Splog:      splog,
		UI:         tui.Terminal{},
		RemoteName: remote,
		Colorize:   opts.Colorize,
	}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// New opens the repository containing dir and builds a Context for it.
func New(ctx context.Context, dir string, splog *tui.Splog, opts Options) (*Context, error) {
	runner, err := git.NewRunner(ctx, dir)
	if err != nil {
		return nil, err
	}
	pushDefault, err := runner.GetConfig("remote.pushDefault")
	if err != nil {
		return nil, err
	}
	if pushDefault != "" {
		return nil, stackyerrors.NewConfigurationError("", "`git config remote.pushDefault` may not be set")
	}
	cfg, err := config.Load(config.DefaultPaths(runner.RepoRoot())...)
	if err != nil {
		return nil, err
	}
	c, err := NewContext(ctx, runner, cfg, config.NewSyncStateFile(runner.GitDir()), splog, opts)
	if err != nil {
		return nil, err
	}
	c.NewGitHubClient = func(ctx context.Context) (github.Client, error) {
		return github.NewClientForRemote(ctx, runner, runner.Command(), c.RemoteName)
	}
	if cfg.ShareSSHSession {
		url, err := runner.GetConfig(fmt.Sprintf("remote.%s.pushurl", c.RemoteName))
		if err != nil {
			return nil, err
		}
		if url == "" {
			if url, err = runner.RemoteURL(c.RemoteName); err != nil {
				return nil, err
			}
		}
		if host := git.SSHHost(url); host != "" {
			c.SSH = sshmux.New(host, splog)
		}
	}
	return c, nil
}

// Reload rebuilds the branch graph from the persisted metadata.
func (c *Context) Reload() error {
	result, err := c.Builder.LoadAll()
	if err != nil {
		return err
	}
	for _, warning := range result.Broken {
		c.Splog.Warn("%s", warning.Error())
	}
	c.Repo = result.Repo
	c.Current = ""
	if current, err := c.Git.GetCurrentBranch(); err == nil {
		c.Current = current
	}
	return nil
}

// CurrentBranch returns the node of the checked out branch, or nil.
func (c *Context) CurrentBranch() *engine.Branch {
	return c.Repo.Get(c.Current)
}

// RequireCurrent makes sure the checked out branch is in a stack. With
// change_to_main it switches to the only local default bottom instead of failing.
func (c *Context) RequireCurrent() (*engine.Branch, error) {
	if b := c.CurrentBranch(); b != nil {
		return b, nil
	}
	if c.Config.ChangeToMain {
		bottom, err := c.Builder.RealBottom()
		if err != nil {
			return nil, err
		}
		if bottom != "" && c.Repo.Has(bottom) {
			if err := c.Checkout(bottom); err != nil {
				return nil, err
			}
			return c.CurrentBranch(), nil
		}
	}
	return nil, stackyerrors.NewConfigurationError(c.Current, "Current branch is not in a stack")
}

// Checkout switches to branch and records it as current.
func (c *Context) Checkout(branch string) error {
	c.Splog.Info("Checking out branch %s", branch)
	if err := c.Git.CheckoutBranch(c.Context, branch); err != nil {
		return err
	}
	c.Current = branch
	return nil
}

// GitHub returns the review service client, creating it on first use.
func (c *Context) GitHub() (github.Client, error) {
	if c.GitHubClient != nil {
		return c.GitHubClient, nil
	}
	if c.NewGitHubClient == nil {
		return nil, fmt.Errorf("no GitHub client configured")
	}
	client, err := c.NewGitHubClient(c.Context)
	if err != nil {
		return nil, err
	}
	c.GitHubClient = client
	return client, nil
}

// Confirm asks "Proceed?" unless force or skip_confirm is set. A "no" is a
// UserAbortedError.
func (c *Context) Confirm(force bool) error {
	if force || c.Config.SkipConfirm {
		return nil
	}
	ok, err := c.UI.Confirm("Proceed?")
	if err != nil {
		return err
	}
	if !ok {
		return stackyerrors.NewUserAbortedError("Not confirmed")
	}
	return nil
}

// WithSSH runs fn with the shared ssh connection up, when one is configured.
func (c *Context) WithSSH(fn func() error) error {
	if c.SSH == nil {
		return fn()
	}
	if err := c.SSH.Start(c.Context); err != nil {
		return err
	}
	defer c.SSH.Stop(c.Context)
	return fn()
}

// PrintForest writes forest to the console.
func (c *Context) PrintForest(forest engine.Forest) {
	c.Splog.Page(tui.RenderForest(forest, c.Current, c.Colorize))
}

// LoadPRInfo fetches pull request info for every branch of forest.
func (c *Context) LoadPRInfo(forest engine.Forest) error {
	client, err := c.GitHub()
	if err != nil {
		return err
	}
	for b := range forest.DepthFirst() {
		if err := b.LoadPRInfo(c.Context, client); err != nil {
			return err
		}
	}
	return nil
}
