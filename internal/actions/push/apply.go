package push

import (
	"fmt"
	"strings"

	"stacky.dev/stacky/internal/engine"
	"stacky.dev/stacky/internal/github"
	"stacky.dev/stacky/internal/runtime"
)

// Options contains options for the push command
type Options struct {
	// Force skips the confirmation prompt.
	Force bool
	// NoPR pushes branches without touching pull requests.
	NoPR bool
}

// Action pushes every out-of-date branch of forest and, unless NoPR is set,
// creates or retargets its pull request.
func Action(ctx *runtime.Context, forest engine.Forest, opts Options) error {
	return ctx.WithSSH(func() error {
		return run(ctx, forest, opts)
	})
}

func run(ctx *runtime.Context, forest engine.Forest, opts Options) error {
	withPR := !opts.NoPR
	if withPR {
		if err := ctx.LoadPRInfo(forest); err != nil {
			return err
		}
	}
	ctx.PrintForest(forest)

	actions, err := Plan(forest, withPR, ctx.Splog)
	if err != nil {
		return err
	}
	if len(actions) == 0 {
		return nil
	}
	if err := ctx.Confirm(opts.Force); err != nil {
		return err
	}

	prefix := ""
	if withPR {
		if prefix, err = github.ForkHeadPrefix(ctx.Git, ctx.RemoteName); err != nil {
			return err
		}
	}

	for _, action := range actions {
		b := action.Branch
		if action.Push {
			ctx.Splog.Info("Pushing %s", b.Name)
			if err := ctx.Git.PushBranch(ctx.Context, b.Remote, b.Name, b.RemoteBranch, true); err != nil {
				return fmt.Errorf("failed to push %s: %w", b.Name, err)
			}
			b.RemoteCommit = b.Commit
		}
		switch action.PR {
		case PRFixBase:
			ctx.Splog.Info("Fixing PR base for %s", b.Name)
			if err := fixBase(ctx, b); err != nil {
				return err
			}
		case PRCreate:
			ctx.Splog.Info("Creating PR for %s", b.Name)
			headPrefix := prefix
			if !b.Parent().IsRoot() {
				headPrefix = ""
			}
			if err := create(ctx, b, headPrefix); err != nil {
				return err
			}
		}
	}
	return nil
}

func fixBase(ctx *runtime.Context, b *engine.Branch) error {
	client, err := ctx.GitHub()
	if err != nil {
		return err
	}
	if err := client.EditPullRequestBase(ctx.Context, b.OpenPR.Number, b.ParentName); err != nil {
		return fmt.Errorf("failed to change base of PR #%d: %w", b.OpenPR.Number, err)
	}
	b.OpenPR.BaseRefName = b.ParentName
	return nil
}

func create(ctx *runtime.Context, b *engine.Branch, headPrefix string) error {
	client, err := ctx.GitHub()
	if err != nil {
		return err
	}
	org := ctx.Config.ReviewerOrg
	if org == "" {
		org, _ = client.GetOwnerRepo()
	}
	meta, err := PrepareMetadata(ctx.Git, b, org)
	if err != nil {
		return err
	}
	title, err := ctx.UI.PromptText("Title", meta.Title)
	if err != nil {
		return err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = b.Name
	}

	pr, err := client.CreatePullRequest(ctx.Context, github.CreatePROptions{
		Title:     title,
		Body:      meta.Body,
		Head:      headPrefix + b.Name,
		Base:      b.ParentName,
		Reviewers: meta.Reviewers,
	})
	if err != nil {
		return fmt.Errorf("failed to create PR for %s: %w", b.Name, err)
	}
	b.OpenPR = pr
	ctx.Splog.Info("Created PR #%d: %s", pr.Number, pr.URL)
	return nil
}
