package engine

import (
	"fmt"
	"sort"

	stackyerrors "stacky.dev/stacky/internal/errors"
)

// Repository owns every Branch node discovered for one invocation, keyed by name.
type Repository struct {
	branches map[string]*Branch
}

// NewRepository creates an empty Repository.
func NewRepository() *Repository {
	return &Repository{branches: make(map[string]*Branch)}
}

// Get returns the node for name, or nil.
func (r *Repository) Get(name string) *Branch {
	return r.branches[name]
}

// Has reports whether a node exists for name.
func (r *Repository) Has(name string) bool {
	_, ok := r.branches[name]
	return ok
}

// Len returns the number of nodes.
func (r *Repository) Len() int {
	return len(r.branches)
}

// Add inserts b, or returns the existing node of the same name.
// An existing node whose parent or anchor differs from b is a configuration error.
func (r *Repository) Add(b *Branch) (*Branch, error) {
	if existing, ok := r.branches[b.Name]; ok {
		if existing.ParentName != b.ParentName {
			return nil, stackyerrors.NewConfigurationError(b.Name,
				fmt.Sprintf("Mismatched stack: parent=%q, expected %q", existing.ParentName, b.ParentName))
		}
		if existing.ParentCommit != b.ParentCommit {
			return nil, stackyerrors.NewConfigurationError(b.Name,
				fmt.Sprintf("Mismatched stack: parent_commit=%q, expected %q", existing.ParentCommit, b.ParentCommit))
		}
		return existing, nil
	}
	if b.children == nil {
		b.children = make(map[string]struct{})
	}
	b.repo = r
	r.branches[b.Name] = b
	if parent := r.branches[b.ParentName]; parent != nil && !b.IsRoot() {
		parent.children[b.Name] = struct{}{}
	}
	for _, other := range r.branches {
		if other.ParentName == b.Name {
			b.children[other.Name] = struct{}{}
		}
	}
	return b, nil
}

// AddChild records child under parent; both must already be present.
func (r *Repository) AddChild(parentName, childName string) {
	parent, ok := r.branches[parentName]
	if !ok {
		return
	}
	if _, ok := r.branches[childName]; !ok {
		return
	}
	parent.children[childName] = struct{}{}
}

// Remove deletes the node for name and unlinks it from its parent.
// Children keep their parent name until reparented.
func (r *Repository) Remove(name string) *Branch {
	b, ok := r.branches[name]
	if !ok {
		return nil
	}
	delete(r.branches, name)
	if parent := r.branches[b.ParentName]; parent != nil {
		delete(parent.children, name)
	}
	b.repo = nil
	return b
}

// Reparent moves name under newParent in memory. An empty newParent makes it a bottom.
func (r *Repository) Reparent(name, newParent string) error {
	b, ok := r.branches[name]
	if !ok {
		return fmt.Errorf("branch %s is not in a stack", name)
	}
	if newParent != "" {
		if _, ok := r.branches[newParent]; !ok {
			return fmt.Errorf("branch %s is not in a stack", newParent)
		}
	}
	if old := r.branches[b.ParentName]; old != nil {
		delete(old.children, name)
	}
	b.ParentName = newParent
	if newParent == "" {
		b.ParentCommit = ""
		return nil
	}
	r.branches[newParent].children[name] = struct{}{}
	return nil
}

// Bottoms returns every root node sorted by name.
func (r *Repository) Bottoms() []*Branch {
	var out []*Branch
	for _, b := range r.branches {
		if b.IsRoot() {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns every branch name sorted.
func (r *Repository) Names() []string {
	names := make([]string, 0, len(r.branches))
	for name := range r.branches {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Ancestors returns the chain from name down to its bottom, name first.
func (r *Repository) Ancestors(name string) []*Branch {
	var chain []*Branch
	seen := make(map[string]bool)
	for b := r.branches[name]; b != nil && !seen[b.Name]; b = b.Parent() {
		seen[b.Name] = true
		chain = append(chain, b)
	}
	return chain
}

// IsDescendant reports whether candidate sits in the subtree rooted at name (name included).
func (r *Repository) IsDescendant(name, candidate string) bool {
	for _, b := range r.Ancestors(candidate) {
		if b.Name == name {
			return true
		}
	}
	return false
}
