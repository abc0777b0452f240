package actions

import (
	"fmt"
	"slices"
	"strings"

	"stacky.dev/stacky/internal/engine"
	stackyerrors "stacky.dev/stacky/internal/errors"
	"stacky.dev/stacky/internal/github"
	"stacky.dev/stacky/internal/runtime"
)

// ImportOptions contains options for the import command
type ImportOptions struct {
	Force bool
}

type importLink struct {
	branch       string
	parent       string
	parentCommit string
}

// ImportAction rebuilds the stack metadata of name and its ancestors from the
// bases of their open pull requests, down to a stack bottom.
func ImportAction(ctx *runtime.Context, name string, opts ImportOptions) error {
	client, err := ctx.GitHub()
	if err != nil {
		return err
	}

	var links []importLink
	seen := map[string]bool{}
	for branch := name; !ctx.Builder.IsBottom(branch); {
		if seen[branch] {
			chain := make([]string, 0, len(links)+1)
			for _, l := range links {
				chain = append(chain, l.branch)
			}
			return stackyerrors.NewCyclicMetadataError(append(chain, branch))
		}
		seen[branch] = true

		ctx.Splog.Info("Getting PR information for %s", branch)
		link, err := importBranch(ctx, client, branch)
		if err != nil {
			return err
		}
		links = append(links, link)
		branch = link.parent
	}
	if len(links) == 0 {
		return nil
	}

	slices.Reverse(links)
	for _, l := range links {
		ctx.Splog.Info("- Will set parent of %s to %s at commit %s", l.branch, l.parent, l.parentCommit)
	}
	if err := ctx.Confirm(opts.Force); err != nil {
		return err
	}

	meta := engine.NewMetadataStore(ctx.Git)
	for _, l := range links {
		if err := meta.SetParent(ctx.Context, l.branch, l.parent, true); err != nil {
			return err
		}
		if err := meta.SetParentCommit(ctx.Context, l.branch, l.parentCommit, ""); err != nil {
			return err
		}
	}
	return ctx.Reload()
}

func importBranch(ctx *runtime.Context, client github.Client, branch string) (importLink, error) {
	prs, err := client.ListPullRequests(ctx.Context, branch, github.ListOptions{WithCommits: true})
	if err != nil {
		return importLink{}, err
	}
	node := engine.NewBranch(branch, "", "")
	if err := node.SetPRInfo(prs); err != nil {
		return importLink{}, err
	}
	pr := node.OpenPR
	if pr == nil {
		return importLink{}, stackyerrors.NewConfigurationError(branch, "Branch has no open PR")
	}
	if pr.HeadRefName != branch {
		return importLink{}, stackyerrors.NewConfigurationError(branch,
			fmt.Sprintf("Branch is misconfigured: PR #%d head is %s", pr.Number, pr.HeadRefName))
	}
	if len(pr.Commits) == 0 {
		return importLink{}, stackyerrors.NewConfigurationError(branch, fmt.Sprintf("PR #%d has no commits", pr.Number))
	}
	parentCommit, err := ctx.Git.GetParentCommitSHA(pr.Commits[0].OID)
	if err != nil {
		return importLink{}, err
	}
	ctx.Splog.Info("Branch %s: PR #%d, parent is %s at commit %s", branch, pr.Number, pr.BaseRefName, parentCommit)
	return importLink{branch: branch, parent: pr.BaseRefName, parentCommit: parentCommit}, nil
}

// AdoptAction stacks name on top of the current branch, which must be a
// stack bottom. The anchor is their merge base.
func AdoptAction(ctx *runtime.Context, name string) error {
	if name == ctx.Current {
		return stackyerrors.NewConfigurationError(name, "A branch cannot adopt itself")
	}
	if !ctx.Builder.IsBottom(ctx.Current) {
		bottom := ""
		if ctx.Config.ChangeToMain {
			var err error
			if bottom, err = ctx.Builder.RealBottom(); err != nil {
				return err
			}
		}
		if bottom == "" {
			return stackyerrors.NewConfigurationError(ctx.Current,
				fmt.Sprintf("The current branch must be a valid stack bottom: %s", strings.Join(ctx.Builder.BottomNames(), ", ")))
		}
		if err := ctx.Checkout(bottom); err != nil {
			return err
		}
	}

	meta := engine.NewMetadataStore(ctx.Git)
	if ctx.Builder.IsBottom(name) {
		if slices.Contains(engine.FrozenBottoms, name) {
			return stackyerrors.NewConfigurationError(name,
				fmt.Sprintf("Cannot adopt frozen stack bottoms %s", strings.Join(engine.FrozenBottoms, ", ")))
		}
		if err := meta.UnmarkBottom(ctx.Context, name); err != nil {
			return err
		}
	}

	parentCommit, err := ctx.Git.GetMergeBase(ctx.Current, name)
	if err != nil {
		return err
	}
	if err := meta.SetParent(ctx.Context, name, ctx.Current, true); err != nil {
		return err
	}
	if err := meta.SetParentCommit(ctx.Context, name, parentCommit, ""); err != nil {
		return err
	}
	ctx.Splog.Info("Adopted %s onto %s", name, ctx.Current)
	if ctx.Config.ChangeToAdopted {
		return ctx.Checkout(name)
	}
	return nil
}
