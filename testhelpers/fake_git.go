package testhelpers

import (
	"context"
	"crypto/sha1" //nolint:gosec
	"encoding/hex"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	stackyerrors "stacky.dev/stacky/internal/errors"
	"stacky.dev/stacky/internal/git"
)

type fakeCommit struct {
	sha     string
	parent  string
	message string
}

type pendingRebase struct {
	branch string
	onto   string
	from   string
}

// FakeGit is an in-memory repository implementing engine.GitRunner.
// History is linear per commit; rebases replay commits as new objects.
type FakeGit struct {
	mu sync.Mutex

	commits  map[string]*fakeCommit
	branches map[string]string
	refs     map[string]string
	config   map[string]string
	remotes  map[string]string
	current  string
	counter  int
	pending  *pendingRebase

	// Conflicts makes the next rebase of the named branch stop with a conflict.
	Conflicts map[string]bool
	// Rebases lists every branch a rebase was attempted on, in order.
	Rebases []string
	// Pushes lists "remote branch:remoteBranch" for every push, with " -f" when forced.
	Pushes []string
	// Fetches counts Fetch calls.
	Fetches int
	// FetchUpdates are applied to remote-tracking branches on Fetch.
	FetchUpdates map[string]string
	// Checkouts lists every checked out branch, in order.
	Checkouts []string
}

// NewFakeGit returns a repository with a single commit on main, checked out.
func NewFakeGit() *FakeGit {
	f := &FakeGit{
		commits:      make(map[string]*fakeCommit),
		branches:     make(map[string]string),
		refs:         make(map[string]string),
		config:       make(map[string]string),
		remotes:      make(map[string]string),
		Conflicts:    make(map[string]bool),
		FetchUpdates: make(map[string]string),
	}
	f.branches["main"] = f.newCommit("", "initial")
	f.current = "main"
	return f
}

func (f *FakeGit) newCommit(parent, message string) string {
	f.counter++
	sum := sha1.Sum([]byte(fmt.Sprintf("%d\x00%s\x00%s", f.counter, parent, message))) //nolint:gosec
	sha := hex.EncodeToString(sum[:])
	f.commits[sha] = &fakeCommit{sha: sha, parent: parent, message: message}
	return sha
}

func (f *FakeGit) resolve(rev string) (string, error) {
	if sha, ok := f.branches[strings.TrimPrefix(rev, "refs/heads/")]; ok {
		return sha, nil
	}
	if sha, ok := f.refs[rev]; ok {
		return sha, nil
	}
	if _, ok := f.commits[rev]; ok {
		return rev, nil
	}
	if rev == "HEAD" && f.current != "" {
		return f.branches[f.current], nil
	}
	return "", fmt.Errorf("unknown revision %q", rev)
}

func (f *FakeGit) ancestors(sha string) map[string]bool {
	out := make(map[string]bool)
	for sha != "" {
		out[sha] = true
		sha = f.commits[sha].parent
	}
	return out
}

// Commit helpers

// CommitOn adds a commit on top of branch and returns it.
func (f *FakeGit) CommitOn(branch, message string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	sha := f.newCommit(f.branches[branch], message)
	f.branches[branch] = sha
	return sha
}

// CreateBranch creates name at from's tip without touching metadata.
func (f *FakeGit) CreateBranch(name, from string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.branches[name] = f.branches[from]
}

// StackBranch creates name on parent's tip with parent metadata and an anchor.
func (f *FakeGit) StackBranch(name, parent string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.branches[name] = f.branches[parent]
	f.config["branch."+name+".remote"] = "."
	f.config["branch."+name+".merge"] = "refs/heads/" + parent
	f.refs["refs/stack-parent/"+name] = f.branches[parent]
}

// SetRemoteBranch sets the remote-tracking tip of remote/branch.
func (f *FakeGit) SetRemoteBranch(remote, branch, sha string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.remotes[remote+"/"+branch] = sha
}

// Tip returns the tip of branch, or "" if it does not exist.
func (f *FakeGit) Tip(branch string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.branches[branch]
}

// Message returns the message of a commit.
func (f *FakeGit) Message(sha string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.commits[sha]; ok {
		return c.message
	}
	return ""
}

// Log returns the messages of branch's commits not reachable from base, oldest first.
func (f *FakeGit) Log(base, branch string) []string {
	shas, err := f.GetCommitRangeSHAs(base, branch)
	if err != nil {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(shas))
	for i := len(shas) - 1; i >= 0; i-- {
		out = append(out, f.commits[shas[i]].message)
	}
	return out
}

// Contains reports whether commit is reachable from branch.
func (f *FakeGit) Contains(branch, commit string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ancestors(f.branches[branch])[commit]
}

// ResolveConflict finishes a stopped rebase as if the user fixed it and ran
// `git rebase --continue`.
func (f *FakeGit) ResolveConflict() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pending == nil {
		return
	}
	f.replay(f.pending.branch, f.pending.onto, f.pending.from)
	f.pending = nil
}

// Branch Management

func (f *FakeGit) GetCurrentBranch() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.current == "" {
		return "", stackyerrors.ErrNotOnBranch
	}
	return f.current, nil
}

func (f *FakeGit) GetAllBranchNames() ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, 0, len(f.branches))
	for name := range f.branches {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (f *FakeGit) CheckoutBranch(_ context.Context, branchName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.branches[branchName]; !ok {
		return fmt.Errorf("pathspec '%s' did not match any branch", branchName)
	}
	f.current = branchName
	f.Checkouts = append(f.Checkouts, branchName)
	return nil
}

func (f *FakeGit) CreateTrackingBranch(_ context.Context, branchName, parentName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.branches[branchName]; ok {
		return fmt.Errorf("a branch named '%s' already exists", branchName)
	}
	tip, ok := f.branches[parentName]
	if !ok {
		return fmt.Errorf("unknown branch %q", parentName)
	}
	f.branches[branchName] = tip
	f.config["branch."+branchName+".remote"] = "."
	f.config["branch."+branchName+".merge"] = "refs/heads/" + parentName
	f.current = branchName
	return nil
}

func (f *FakeGit) DeleteBranch(_ context.Context, branchName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if branchName == f.current {
		return fmt.Errorf("cannot delete branch '%s' checked out", branchName)
	}
	if _, ok := f.branches[branchName]; !ok {
		return fmt.Errorf("branch '%s' not found", branchName)
	}
	delete(f.branches, branchName)
	for key := range f.config {
		if strings.HasPrefix(key, "branch."+branchName+".") {
			delete(f.config, key)
		}
	}
	return nil
}

func (f *FakeGit) UpdateBranchRef(_ context.Context, branchName, revision string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	sha, err := f.resolve(revision)
	if err != nil {
		return err
	}
	f.branches[branchName] = sha
	return nil
}

// Config

func (f *FakeGit) GetConfig(key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.config[key], nil
}

func (f *FakeGit) SetConfig(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.config[key] = value
	return nil
}

// Commit and Revision Information

func (f *FakeGit) GetRevision(branchName string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sha, ok := f.branches[branchName]
	if !ok {
		return "", fmt.Errorf("failed to resolve branch %s", branchName)
	}
	return sha, nil
}

func (f *FakeGit) GetRemoteRevision(remote, branchName string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.remotes[remote+"/"+branchName], nil
}

func (f *FakeGit) GetParentCommitSHA(commitSHA string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sha, err := f.resolve(commitSHA)
	if err != nil {
		return "", err
	}
	parent := f.commits[sha].parent
	if parent == "" {
		return "", fmt.Errorf("commit %s has no parent", sha)
	}
	return parent, nil
}

func (f *FakeGit) GetCommitRangeSHAs(base, head string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	baseSHA, err := f.resolve(base)
	if err != nil {
		return nil, err
	}
	headSHA, err := f.resolve(head)
	if err != nil {
		return nil, err
	}
	exclude := f.ancestors(baseSHA)
	var out []string
	for sha := headSHA; sha != "" && !exclude[sha]; sha = f.commits[sha].parent {
		out = append(out, sha)
	}
	return out, nil
}

func (f *FakeGit) GetCommitMessage(commitSHA string) (git.CommitMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sha, err := f.resolve(commitSHA)
	if err != nil {
		return git.CommitMessage{}, err
	}
	return git.ParseCommitMessage(f.commits[sha].message), nil
}

func (f *FakeGit) GetMergeBase(rev1, rev2 string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, err := f.resolve(rev1)
	if err != nil {
		return "", err
	}
	b, err := f.resolve(rev2)
	if err != nil {
		return "", err
	}
	seen := f.ancestors(a)
	for sha := b; sha != ""; sha = f.commits[sha].parent {
		if seen[sha] {
			return sha, nil
		}
	}
	return "", fmt.Errorf("no merge base between %s and %s", rev1, rev2)
}

func (f *FakeGit) IsAncestor(ancestor, descendant string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, err := f.resolve(ancestor)
	if err != nil {
		return false, err
	}
	d, err := f.resolve(descendant)
	if err != nil {
		return false, err
	}
	return f.ancestors(d)[a], nil
}

// Git Operations

func (f *FakeGit) Rebase(_ context.Context, branchName, onto, from string) (git.RebaseResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pending != nil {
		return git.RebaseConflict, fmt.Errorf("a rebase is already in progress")
	}
	if _, ok := f.branches[branchName]; !ok {
		return git.RebaseConflict, fmt.Errorf("unknown branch %q", branchName)
	}
	f.Rebases = append(f.Rebases, branchName)
	f.current = branchName
	if f.Conflicts[branchName] {
		delete(f.Conflicts, branchName)
		f.pending = &pendingRebase{branch: branchName, onto: onto, from: from}
		return git.RebaseConflict, nil
	}
	f.replay(branchName, onto, from)
	return git.RebaseDone, nil
}

// replay copies the commits in from..branch onto onto, oldest first.
func (f *FakeGit) replay(branchName, onto, from string) {
	exclude := f.ancestors(from)
	var own []*fakeCommit
	for sha := f.branches[branchName]; sha != "" && !exclude[sha]; sha = f.commits[sha].parent {
		own = append(own, f.commits[sha])
	}
	slices.Reverse(own)
	tip := onto
	for _, c := range own {
		tip = f.newCommit(tip, c.message)
	}
	f.branches[branchName] = tip
}

func (f *FakeGit) IsRebaseInProgress(_ context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending != nil
}

func (f *FakeGit) PushBranch(_ context.Context, remote, branchName, remoteBranch string, force bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry := fmt.Sprintf("%s %s:%s", remote, branchName, remoteBranch)
	if force {
		entry += " -f"
	}
	f.Pushes = append(f.Pushes, entry)
	f.remotes[remote+"/"+remoteBranch] = f.branches[branchName]
	return nil
}

func (f *FakeGit) Fetch(_ context.Context, remote string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Fetches++
	for branch, sha := range f.FetchUpdates {
		f.remotes[remote+"/"+branch] = sha
	}
	return nil
}

func (f *FakeGit) HardReset(_ context.Context, revision string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	sha, err := f.resolve(revision)
	if err != nil {
		return err
	}
	f.branches[f.current] = sha
	return nil
}

func (f *FakeGit) Commit(_ context.Context, opts git.CommitOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.current == "" {
		return stackyerrors.ErrNotOnBranch
	}
	head := f.branches[f.current]
	parent, message := head, opts.Message
	if opts.Amend {
		parent = f.commits[head].parent
		if message == "" {
			message = f.commits[head].message
		}
	}
	if message == "" {
		message = "commit"
	}
	f.branches[f.current] = f.newCommit(parent, message)
	return nil
}

// Low-level Ref Management

func (f *FakeGit) GetRef(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refs[name], nil
}

func (f *FakeGit) UpdateRef(_ context.Context, name, newValue, oldValue string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	sha, err := f.resolve(newValue)
	if err != nil {
		return err
	}
	current, exists := f.refs[name]
	switch {
	case oldValue == "":
	case oldValue == git.ZeroSHA:
		if exists {
			return fmt.Errorf("cannot lock ref '%s': reference already exists", name)
		}
	case current != oldValue:
		return fmt.Errorf("cannot lock ref '%s': is at %s but expected %s", name, current, oldValue)
	}
	f.refs[name] = sha
	return nil
}

func (f *FakeGit) DeleteRef(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.refs, name)
	return nil
}

func (f *FakeGit) ListRefs(prefix string) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string)
	for name, sha := range f.refs {
		if rest, ok := strings.CutPrefix(name, prefix); ok {
			out[rest] = sha
		}
	}
	return out, nil
}
