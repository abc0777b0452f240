package git

import (
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// CommitMessage is a commit message split into subject line and body.
type CommitMessage struct {
	Subject string
	Body    string
}

// ParseCommitMessage splits a raw message at the first blank line.
func ParseCommitMessage(raw string) CommitMessage {
	raw = strings.TrimSpace(raw)
	subject, body, _ := strings.Cut(raw, "\n")
	return CommitMessage{
		Subject: strings.TrimSpace(subject),
		Body:    strings.TrimSpace(body),
	}
}

func (r *Runner) commitObject(rev string) (*object.Commit, error) {
	hash, err := r.resolveRefHash(rev)
	if err != nil {
		return nil, err
	}
	commit, err := r.repo.CommitObject(hash)
	if err != nil {
		return nil, fmt.Errorf("failed to get commit %s: %w", rev, err)
	}
	return commit, nil
}

// GetCommitMessage returns the subject and body of a commit.
func (r *Runner) GetCommitMessage(commitSHA string) (CommitMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	commit, err := r.commitObject(commitSHA)
	if err != nil {
		return CommitMessage{}, err
	}
	return ParseCommitMessage(commit.Message), nil
}

// GetParentCommitSHA returns the first parent of a commit.
func (r *Runner) GetParentCommitSHA(commitSHA string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	commit, err := r.commitObject(commitSHA)
	if err != nil {
		return "", err
	}
	if commit.NumParents() == 0 {
		return "", fmt.Errorf("commit %s has no parent", commitSHA)
	}
	return commit.ParentHashes[0].String(), nil
}

// GetCommitRangeSHAs returns the commits reachable from head but not from base,
// newest first.
func (r *Runner) GetCommitRangeSHAs(base, head string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	headHash, err := r.resolveRefHash(head)
	if err != nil {
		return nil, err
	}
	var baseHash plumbing.Hash
	if base != "" {
		if baseHash, err = r.resolveRefHash(base); err != nil {
			return nil, err
		}
	}
	commits, err := r.iterateCommits(headHash, baseHash)
	if err != nil {
		return nil, fmt.Errorf("failed to iterate commits: %w", err)
	}
	out := make([]string, len(commits))
	for i, c := range commits {
		out[i] = c.Hash.String()
	}
	return out, nil
}

// iterateCommits walks breadth-first from head, stopping at anything reachable
// from base. The walk down from base stops at the merge bases, so its cost is
// bounded by the branch lengths and not by the repository's history.
func (r *Runner) iterateCommits(headHash, baseHash plumbing.Hash) ([]*object.Commit, error) {
	excluded := make(map[plumbing.Hash]bool)
	if !baseHash.IsZero() {
		baseCommit, err := r.repo.CommitObject(baseHash)
		if err != nil {
			return nil, err
		}
		headCommit, err := r.repo.CommitObject(headHash)
		if err != nil {
			return nil, err
		}
		bases, err := headCommit.MergeBase(baseCommit)
		if err != nil {
			return nil, err
		}
		boundary := make([]plumbing.Hash, len(bases))
		for i, b := range bases {
			boundary[i] = b.Hash
			excluded[b.Hash] = true
		}
		err = object.NewCommitPreorderIter(baseCommit, nil, boundary).ForEach(func(c *object.Commit) error {
			excluded[c.Hash] = true
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	var out []*object.Commit
	seen := make(map[plumbing.Hash]bool)
	queue := []plumbing.Hash{headHash}
	for len(queue) > 0 {
		hash := queue[0]
		queue = queue[1:]
		if seen[hash] || excluded[hash] {
			continue
		}
		seen[hash] = true
		commit, err := r.repo.CommitObject(hash)
		if err != nil {
			return nil, err
		}
		out = append(out, commit)
		queue = append(queue, commit.ParentHashes...)
	}
	return out, nil
}

// GetMergeBase returns the best common ancestor of two revisions.
func (r *Runner) GetMergeBase(rev1, rev2 string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c1, err := r.commitObject(rev1)
	if err != nil {
		return "", err
	}
	c2, err := r.commitObject(rev2)
	if err != nil {
		return "", err
	}
	bases, err := c1.MergeBase(c2)
	if err != nil {
		return "", fmt.Errorf("failed to find merge base: %w", err)
	}
	if len(bases) == 0 {
		return "", fmt.Errorf("no merge base found for %s and %s", rev1, rev2)
	}
	return bases[0].Hash.String(), nil
}

// IsAncestor reports whether ancestor is reachable from descendant. A commit
// is its own ancestor.
func (r *Runner) IsAncestor(ancestor, descendant string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, err := r.commitObject(ancestor)
	if err != nil {
		return false, err
	}
	d, err := r.commitObject(descendant)
	if err != nil {
		return false, err
	}
	if a.Hash == d.Hash {
		return true, nil
	}
	return a.IsAncestor(d)
}
