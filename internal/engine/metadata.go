package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"stacky.dev/stacky/internal/git"
)

const (
	// ParentRefPrefix namespaces the per-branch anchor commit refs.
	ParentRefPrefix = "refs/stack-parent/"
	// BottomRefPrefix namespaces the refs marking extra stack bottoms.
	BottomRefPrefix = "refs/stack-bottom/"
)

// ParentRef returns the anchor ref for branch.
func ParentRef(branch string) string {
	return ParentRefPrefix + branch
}

// BottomRef returns the bottom-marker ref for branch.
func BottomRef(branch string) string {
	return BottomRefPrefix + branch
}

// MetadataStore reads and writes the persisted stack metadata through a GitRunner.
type MetadataStore struct {
	git GitRunner
}

// NewMetadataStore creates a MetadataStore.
func NewMetadataStore(runner GitRunner) *MetadataStore {
	return &MetadataStore{git: runner}
}

// ParentName returns the stored parent of branch, or "" if it tracks nothing or itself.
func (m *MetadataStore) ParentName(branch string) (string, error) {
	merge, err := m.git.GetConfig(fmt.Sprintf("branch.%s.merge", branch))
	if err != nil {
		return "", err
	}
	parent := strings.TrimPrefix(merge, "refs/heads/")
	if parent == branch {
		return "", nil
	}
	return parent, nil
}

// TrackingRemote returns branch.<name>.remote.
func (m *MetadataStore) TrackingRemote(branch string) (string, error) {
	return m.git.GetConfig(fmt.Sprintf("branch.%s.remote", branch))
}

// ParentCommit returns the stored anchor commit, or "".
func (m *MetadataStore) ParentCommit(branch string) (string, error) {
	return m.git.GetRef(ParentRef(branch))
}

// SetParent records target as the parent of branch. An empty target makes the
// branch track itself and drops its anchor. With setOrigin the branch is also
// pointed at the local repository as its upstream remote.
func (m *MetadataStore) SetParent(ctx context.Context, branch, target string, setOrigin bool) error {
	if setOrigin {
		if err := m.git.SetConfig(ctx, fmt.Sprintf("branch.%s.remote", branch), "."); err != nil {
			return err
		}
	}
	merge := target
	if merge == "" {
		merge = branch
	}
	if err := m.git.SetConfig(ctx, fmt.Sprintf("branch.%s.merge", branch), "refs/heads/"+merge); err != nil {
		return err
	}
	if target == "" {
		return m.git.DeleteRef(ctx, ParentRef(branch))
	}
	return nil
}

// SetParentCommit moves the anchor of branch to commit. A non-empty prev makes
// the update conditional on the ref still holding prev.
func (m *MetadataStore) SetParentCommit(ctx context.Context, branch, commit, prev string) error {
	return m.git.UpdateRef(ctx, ParentRef(branch), commit, prev)
}

// MarkBottom creates the bottom marker for branch at commit; it must not exist yet.
func (m *MetadataStore) MarkBottom(ctx context.Context, branch, commit string) error {
	return m.git.UpdateRef(ctx, BottomRef(branch), commit, git.ZeroSHA)
}

// UnmarkBottom deletes the bottom marker for branch.
func (m *MetadataStore) UnmarkBottom(ctx context.Context, branch string) error {
	return m.git.DeleteRef(ctx, BottomRef(branch))
}

// MarkedBottoms lists branches carrying a bottom marker.
func (m *MetadataStore) MarkedBottoms() ([]string, error) {
	return m.refNames(BottomRefPrefix)
}

// AnchoredBranches lists branches carrying an anchor ref.
func (m *MetadataStore) AnchoredBranches() ([]string, error) {
	return m.refNames(ParentRefPrefix)
}

func (m *MetadataStore) refNames(prefix string) ([]string, error) {
	refs, err := m.git.ListRefs(prefix)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(refs))
	for name := range refs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
