package engine

import (
	"context"
	"sort"

	stackyerrors "stacky.dev/stacky/internal/errors"
	"stacky.dev/stacky/internal/github"
)

// Branch is one local branch participating in a stack.
// Parent and children are stored as names and resolved through the owning Repository.
type Branch struct {
	Name string
	// ParentName is empty for bottom branches.
	ParentName string
	// ParentCommit is the parent's tip as of the last successful sync of this branch.
	ParentCommit string
	Commit       string
	Remote       string
	RemoteBranch string
	// RemoteCommit is empty when the branch has never been pushed.
	RemoteCommit string

	children map[string]struct{}
	repo     *Repository

	prLoaded bool
	// AllPRs maps pull request ID to its info, for every request whose head is this branch.
	AllPRs map[string]github.PullRequestInfo
	// OpenPR is the single open pull request for this branch, if any.
	OpenPR *github.PullRequestInfo
}

// NewBranch creates a detached branch node; it becomes usable once added to a Repository.
func NewBranch(name, parentName, parentCommit string) *Branch {
	return &Branch{
		Name:         name,
		ParentName:   parentName,
		ParentCommit: parentCommit,
		children:     make(map[string]struct{}),
	}
}

// IsRoot reports whether the branch is a stack bottom.
func (b *Branch) IsRoot() bool {
	return b.ParentName == ""
}

// Parent returns the parent node, or nil for stack bottoms.
func (b *Branch) Parent() *Branch {
	if b.IsRoot() || b.repo == nil {
		return nil
	}
	return b.repo.Get(b.ParentName)
}

// Children returns the direct children sorted by name.
func (b *Branch) Children() []*Branch {
	if b.repo == nil {
		return nil
	}
	names := b.ChildNames()
	out := make([]*Branch, 0, len(names))
	for _, name := range names {
		if c := b.repo.Get(name); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// ChildNames returns the names of the direct children, sorted.
func (b *Branch) ChildNames() []string {
	names := make([]string, 0, len(b.children))
	for name := range b.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsSyncedWithParent reports whether the branch sits on its parent's current tip.
func (b *Branch) IsSyncedWithParent() bool {
	parent := b.Parent()
	if parent == nil {
		return b.IsRoot()
	}
	return b.ParentCommit == parent.Commit
}

// IsSyncedWithRemote reports whether the local tip matches the remote-tracking tip.
func (b *Branch) IsSyncedWithRemote() bool {
	return b.Commit == b.RemoteCommit
}

// PullRequestLister is the part of the review service needed to load per-branch PR info.
type PullRequestLister interface {
	ListPullRequests(ctx context.Context, head string, opts github.ListOptions) ([]github.PullRequestInfo, error)
}

// LoadPRInfo fetches pull requests for this branch once and caches them.
// More than one open pull request for the same head is an error.
func (b *Branch) LoadPRInfo(ctx context.Context, client PullRequestLister) error {
	if b.prLoaded {
		return nil
	}
	prs, err := client.ListPullRequests(ctx, b.Name, github.ListOptions{IncludeClosed: true})
	if err != nil {
		return err
	}
	all, open, err := indexPullRequests(b.Name, prs)
	if err != nil {
		return err
	}
	b.AllPRs = all
	b.OpenPR = open
	b.prLoaded = true
	return nil
}

// SetPRInfo seeds the cache directly, for callers that already fetched the data.
func (b *Branch) SetPRInfo(prs []github.PullRequestInfo) error {
	all, open, err := indexPullRequests(b.Name, prs)
	if err != nil {
		return err
	}
	b.AllPRs = all
	b.OpenPR = open
	b.prLoaded = true
	return nil
}

// PRInfoLoaded reports whether PR info has been fetched.
func (b *Branch) PRInfoLoaded() bool {
	return b.prLoaded
}

func indexPullRequests(branch string, prs []github.PullRequestInfo) (map[string]github.PullRequestInfo, *github.PullRequestInfo, error) {
	all := make(map[string]github.PullRequestInfo, len(prs))
	for _, pr := range prs {
		all[pr.ID] = pr
	}
	var open []github.PullRequestInfo
	for _, pr := range prs {
		if pr.IsOpen() {
			open = append(open, pr)
		}
	}
	switch len(open) {
	case 0:
		return all, nil, nil
	case 1:
		return all, &open[0], nil
	default:
		numbers := make([]int, len(open))
		for i, pr := range open {
			numbers[i] = pr.Number
		}
		sort.Ints(numbers)
		return nil, nil, stackyerrors.NewMultipleOpenRequestsError(branch, numbers)
	}
}
