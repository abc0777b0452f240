package actions

import (
	"fmt"
	"maps"
	"slices"

	"stacky.dev/stacky/internal/engine"
	"stacky.dev/stacky/internal/github"
	"stacky.dev/stacky/internal/runtime"
)

// UpdateOptions contains options for the update command
type UpdateOptions struct {
	Force bool
}

// UpdateAction fetches the remote, moves every bottom to its remote tip and
// deletes the branches whose pull request was merged.
func UpdateAction(ctx *runtime.Context, opts UpdateOptions) error {
	err := ctx.WithSSH(func() error {
		if err := updateBottoms(ctx); err != nil {
			return err
		}

		ctx.Splog.Info("Checking if any PRs have been merged and can be deleted")
		forest := engine.BottomLevel(ctx.Repo)
		if err := ctx.LoadPRInfo(forest); err != nil {
			return err
		}
		deletes := mergedBranches(ctx, forest)
		if len(deletes) > 0 {
			if err := ctx.Confirm(opts.Force); err != nil {
				return err
			}
		}
		return deleteBranches(ctx, deletes)
	})
	if err != nil {
		return err
	}
	return cleanupUnusedRefs(ctx)
}

func updateBottoms(ctx *runtime.Context) error {
	ctx.Splog.Info("Fetching from %s", ctx.RemoteName)
	if err := ctx.Git.Fetch(ctx.Context, ctx.RemoteName); err != nil {
		return err
	}
	for _, b := range ctx.Repo.Bottoms() {
		remoteCommit, err := ctx.Git.GetRemoteRevision(ctx.RemoteName, b.RemoteBranch)
		if err != nil {
			return err
		}
		if remoteCommit == "" {
			ctx.Splog.Debug("Bottom %s has no remote branch, leaving it alone", b.Name)
			continue
		}
		if err := ctx.Git.UpdateBranchRef(ctx.Context, b.Name, remoteCommit); err != nil {
			return fmt.Errorf("failed to update %s: %w", b.Name, err)
		}
		if b.Name == ctx.Current {
			if err := ctx.Git.HardReset(ctx.Context, "HEAD"); err != nil {
				return err
			}
		}
		if err := ctx.Builder.Refresh(b); err != nil {
			return err
		}
	}
	return nil
}

// mergedBranches returns the non-bottom branches of forest that have no open
// pull request but a merged one.
func mergedBranches(ctx *runtime.Context, forest engine.Forest) []*engine.Branch {
	var deletes []*engine.Branch
	for b := range forest.DepthFirst() {
		if b.IsRoot() || b.OpenPR != nil {
			continue
		}
		merged := mergedPR(b)
		if merged == nil {
			continue
		}
		ctx.Splog.Info("- Will delete branch %s, PR #%d merged into %s", b.Name, merged.Number, b.ParentName)
		for _, c := range b.ChildNames() {
			ctx.Splog.Info("- Will reparent branch %s onto %s", c, b.ParentName)
		}
		deletes = append(deletes, b)
	}
	return deletes
}

// mergedPR returns the lowest numbered merged pull request of b.
func mergedPR(b *engine.Branch) *github.PullRequestInfo {
	var found *github.PullRequestInfo
	for _, pr := range b.AllPRs {
		if pr.IsMerged() && (found == nil || pr.Number < found.Number) {
			found = &pr
		}
	}
	return found
}

func deleteBranches(ctx *runtime.Context, deletes []*engine.Branch) error {
	meta := engine.NewMetadataStore(ctx.Git)
	for _, b := range deletes {
		parent := b.ParentName
		for _, c := range b.ChildNames() {
			ctx.Splog.Info("Reparenting %s onto %s", c, parent)
			if err := meta.SetParent(ctx.Context, c, parent, false); err != nil {
				return err
			}
			if err := ctx.Repo.Reparent(c, parent); err != nil {
				return err
			}
		}
		ctx.Splog.Info("Deleting %s", b.Name)
		if b.Name == ctx.Current {
			bottom := ctx.Repo.Bottoms()[0].Name
			ctx.Splog.Info("About to delete current branch, switching to %s", bottom)
			if err := ctx.Checkout(bottom); err != nil {
				return err
			}
		}
		if err := ctx.Git.DeleteBranch(ctx.Context, b.Name); err != nil {
			return fmt.Errorf("failed to delete %s: %w", b.Name, err)
		}
		ctx.Repo.Remove(b.Name)
	}
	return nil
}

// cleanupUnusedRefs drops anchors and bottom markers left behind by branches
// that no longer exist.
func cleanupUnusedRefs(ctx *runtime.Context) error {
	ctx.Splog.Info("Cleaning up unused refs")
	branches, err := ctx.Git.GetAllBranchNames()
	if err != nil {
		return err
	}
	local := make(map[string]bool, len(branches))
	for _, name := range branches {
		local[name] = true
	}

	for _, prefix := range []string{engine.BottomRefPrefix, engine.ParentRefPrefix} {
		refs, err := ctx.Git.ListRefs(prefix)
		if err != nil {
			return err
		}
		for _, name := range slices.Sorted(maps.Keys(refs)) {
			sha := refs[name]
			if ctx.Repo.Has(name) || local[name] {
				continue
			}
			ctx.Splog.Info("Deleting ref %s %s", sha, prefix+name)
			if err := ctx.Git.DeleteRef(ctx.Context, prefix+name); err != nil {
				return err
			}
		}
	}
	return nil
}
