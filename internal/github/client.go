// Package github provides a client for interacting with the GitHub API.
package github

import (
	"context"
)

// Pull request states as reported by the GraphQL API.
const (
	StateOpen   = "OPEN"
	StateClosed = "CLOSED"
	StateMerged = "MERGED"
)

// MergeableMergeable is the mergeable status that allows landing.
const MergeableMergeable = "MERGEABLE"

// PullRequestCommit is one commit of a pull request.
type PullRequestCommit struct {
	OID string `json:"oid"`
}

// PullRequestInfo is the fixed schema for pull request data used throughout stacky.
type PullRequestInfo struct {
	ID          string              `json:"id"`
	Number      int                 `json:"number"`
	State       string              `json:"state"`
	Mergeable   string              `json:"mergeable"`
	URL         string              `json:"url"`
	Title       string              `json:"title"`
	BaseRefName string              `json:"baseRefName"`
	HeadRefName string              `json:"headRefName"`
	Commits     []PullRequestCommit `json:"commits,omitempty"`
}

// IsOpen reports whether the pull request is open.
func (p PullRequestInfo) IsOpen() bool {
	return p.State == StateOpen
}

// IsMerged reports whether the pull request was merged.
func (p PullRequestInfo) IsMerged() bool {
	return p.State == StateMerged
}

// ListOptions controls ListPullRequests.
type ListOptions struct {
	// IncludeClosed also returns closed and merged pull requests.
	IncludeClosed bool
	// WithCommits fills PullRequestInfo.Commits.
	WithCommits bool
}

// CreatePROptions contains options for creating a pull request
type CreatePROptions struct {
	Title string
	Body  string
	// Head may carry an "owner:" prefix when pushing from a fork.
	Head string
	Base string
	// Reviewers are user logins or "org/team" slugs.
	Reviewers []string
}

// MergeOptions contains options for merging a pull request
type MergeOptions struct {
	Number int
	// ID is the GraphQL node ID, needed for auto-merge.
	ID string
	// MatchHeadCommit makes the merge fail if the head moved.
	MatchHeadCommit string
	// Auto enables auto-merge instead of merging now.
	Auto bool
}

// Client is an interface for GitHub API interactions
type Client interface {
	// ListPullRequests returns the pull requests whose head is the given branch
	ListPullRequests(ctx context.Context, head string, opts ListOptions) ([]PullRequestInfo, error)

	// CreatePullRequest creates a new pull request
	CreatePullRequest(ctx context.Context, opts CreatePROptions) (*PullRequestInfo, error)

	// EditPullRequestBase changes the base branch of a pull request
	EditPullRequestBase(ctx context.Context, number int, base string) error

	// MergePullRequest squash-merges a pull request
	MergePullRequest(ctx context.Context, opts MergeOptions) error

	// GetOwnerRepo returns the repository owner and name
	GetOwnerRepo() (owner, repo string)
}
