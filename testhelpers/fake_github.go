package testhelpers

import (
	"context"
	"fmt"
	"strings"
	"sync"

	githubpkg "stacky.dev/stacky/internal/github"
)

// FakeGitHub is an in-memory githubpkg.Client.
type FakeGitHub struct {
	mu sync.Mutex

	Owner string
	Repo  string

	// PRs are the pull requests the fake knows about, created ones included.
	PRs []githubpkg.PullRequestInfo
	// Created records every CreatePullRequest call.
	Created []githubpkg.CreatePROptions
	// BaseEdits maps PR numbers to their new base.
	BaseEdits map[int]string
	// Merged records every MergePullRequest call.
	Merged []githubpkg.MergeOptions
	// ListErr, when set, is returned by ListPullRequests.
	ListErr error
}

var _ githubpkg.Client = (*FakeGitHub)(nil)

// NewFakeGitHub returns an empty fake for owner/repo.
func NewFakeGitHub() *FakeGitHub {
	return &FakeGitHub{Owner: "owner", Repo: "repo", BaseEdits: make(map[int]string)}
}

// AddPR registers a pull request and returns it with a number assigned.
func (f *FakeGitHub) AddPR(head, base, state string) githubpkg.PullRequestInfo {
	f.mu.Lock()
	defer f.mu.Unlock()
	number := len(f.PRs) + 1
	pr := githubpkg.PullRequestInfo{
		ID:          fmt.Sprintf("PR_%d", number),
		Number:      number,
		State:       state,
		URL:         fmt.Sprintf("https://github.com/%s/%s/pull/%d", f.Owner, f.Repo, number),
		BaseRefName: base,
		HeadRefName: head,
	}
	if state == githubpkg.StateOpen {
		pr.Mergeable = githubpkg.MergeableMergeable
	}
	f.PRs = append(f.PRs, pr)
	return pr
}

// Update applies fn to the pull request with the given number.
func (f *FakeGitHub) Update(number int, fn func(*githubpkg.PullRequestInfo)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.PRs {
		if f.PRs[i].Number == number {
			fn(&f.PRs[i])
		}
	}
}

func (f *FakeGitHub) GetOwnerRepo() (string, string) {
	return f.Owner, f.Repo
}

func (f *FakeGitHub) ListPullRequests(_ context.Context, head string, opts githubpkg.ListOptions) ([]githubpkg.PullRequestInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	var out []githubpkg.PullRequestInfo
	for _, pr := range f.PRs {
		if pr.HeadRefName != head {
			continue
		}
		if !opts.IncludeClosed && !pr.IsOpen() {
			continue
		}
		if !opts.WithCommits {
			pr.Commits = nil
		}
		out = append(out, pr)
	}
	return out, nil
}

func (f *FakeGitHub) CreatePullRequest(_ context.Context, opts githubpkg.CreatePROptions) (*githubpkg.PullRequestInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Created = append(f.Created, opts)
	number := len(f.PRs) + 1
	head := opts.Head
	if _, after, ok := strings.Cut(head, ":"); ok {
		head = after
	}
	pr := githubpkg.PullRequestInfo{
		ID:          fmt.Sprintf("PR_%d", number),
		Number:      number,
		State:       githubpkg.StateOpen,
		URL:         fmt.Sprintf("https://github.com/%s/%s/pull/%d", f.Owner, f.Repo, number),
		Title:       opts.Title,
		BaseRefName: opts.Base,
		HeadRefName: head,
	}
	f.PRs = append(f.PRs, pr)
	return &pr, nil
}

func (f *FakeGitHub) EditPullRequestBase(_ context.Context, number int, base string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.PRs {
		if f.PRs[i].Number == number {
			f.PRs[i].BaseRefName = base
			f.BaseEdits[number] = base
			return nil
		}
	}
	return fmt.Errorf("pull request #%d not found", number)
}

func (f *FakeGitHub) MergePullRequest(_ context.Context, opts githubpkg.MergeOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Merged = append(f.Merged, opts)
	if opts.Auto {
		return nil
	}
	for i := range f.PRs {
		if f.PRs[i].Number == opts.Number {
			f.PRs[i].State = githubpkg.StateMerged
			return nil
		}
	}
	return fmt.Errorf("pull request #%d not found", opts.Number)
}
