package engine

import (
	"context"

	"stacky.dev/stacky/internal/git"
)

// GitRunner defines the interface for git operations used by the engine.
// This allows the engine to be used with both real git and mock implementations.
type GitRunner interface {
	// Branch Management
	GetCurrentBranch() (string, error)
	GetAllBranchNames() ([]string, error)
	CheckoutBranch(ctx context.Context, branchName string) error
	CreateTrackingBranch(ctx context.Context, branchName, parentName string) error
	DeleteBranch(ctx context.Context, branchName string) error
	UpdateBranchRef(ctx context.Context, branchName, revision string) error

	// Config
	GetConfig(key string) (string, error)
	SetConfig(ctx context.Context, key, value string) error

	// Commit and Revision Information
	GetRevision(branchName string) (string, error)
	GetRemoteRevision(remote, branchName string) (string, error)
	GetParentCommitSHA(commitSHA string) (string, error)
	GetCommitRangeSHAs(base, head string) ([]string, error)
	GetCommitMessage(commitSHA string) (git.CommitMessage, error)
	GetMergeBase(rev1, rev2 string) (string, error)
	IsAncestor(ancestor, descendant string) (bool, error)

	// Git Operations
	Rebase(ctx context.Context, branchName, onto, from string) (git.RebaseResult, error)
	IsRebaseInProgress(ctx context.Context) bool
	PushBranch(ctx context.Context, remote, branchName, remoteBranch string, force bool) error
	Fetch(ctx context.Context, remote string) error
	HardReset(ctx context.Context, revision string) error
	Commit(ctx context.Context, opts git.CommitOptions) error

	// Low-level Ref Management
	GetRef(name string) (string, error)
	UpdateRef(ctx context.Context, name, newValue, oldValue string) error
	DeleteRef(ctx context.Context, name string) error
	ListRefs(prefix string) (map[string]string, error)
}
