package git

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// GetRef returns the hash a ref points to, or "" if the ref does not exist.
func (r *Runner) GetRef(name string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ref, err := r.repo.Reference(plumbing.ReferenceName(name), true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read ref %s: %w", name, err)
	}
	return ref.Hash().String(), nil
}

// UpdateRef points name at newValue. A non-empty oldValue makes the update
// conditional: git refuses it unless the ref currently holds oldValue
// (ZeroSHA requires the ref to be absent).
func (r *Runner) UpdateRef(ctx context.Context, name, newValue, oldValue string) error {
	args := []string{"update-ref", name, newValue}
	if oldValue != "" {
		args = append(args, oldValue)
	}
	_, err := r.cmd.Run(ctx, args...)
	return err
}

// DeleteRef removes name; deleting a missing ref is not an error.
func (r *Runner) DeleteRef(ctx context.Context, name string) error {
	existing, err := r.GetRef(name)
	if err != nil {
		return err
	}
	if existing == "" {
		return nil
	}
	_, err = r.cmd.Run(ctx, "update-ref", "-d", name)
	return err
}

// ListRefs returns every ref under prefix, keyed by the name with prefix removed.
func (r *Runner) ListRefs(prefix string) (map[string]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	iter, err := r.repo.References()
	if err != nil {
		return nil, fmt.Errorf("failed to list refs: %w", err)
	}
	out := make(map[string]string)
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().String()
		if !strings.HasPrefix(name, prefix) {
			return nil
		}
		if ref.Type() != plumbing.HashReference {
			return nil
		}
		out[strings.TrimPrefix(name, prefix)] = ref.Hash().String()
		return nil
	})
	if err != nil && !errors.Is(err, storer.ErrStop) {
		return nil, err
	}
	return out, nil
}

// GetRevision returns the tip of a local branch.
func (r *Runner) GetRevision(branchName string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ref, err := r.repo.Reference(plumbing.NewBranchReferenceName(branchName), true)
	if err != nil {
		return "", fmt.Errorf("failed to resolve branch %s: %w", branchName, err)
	}
	return ref.Hash().String(), nil
}

// GetRemoteRevision returns the tip of remote/branchName, or "" if never fetched.
func (r *Runner) GetRemoteRevision(remote, branchName string) (string, error) {
	return r.GetRef(plumbing.NewRemoteReferenceName(remote, branchName).String())
}
