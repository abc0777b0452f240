package engine

import (
	"errors"
	"fmt"
	"sort"

	stackyerrors "stacky.dev/stacky/internal/errors"
)

// DefaultBottoms are the branch names always treated as stack bottoms.
var DefaultBottoms = []string{"main", "master"}

// FrozenBottoms are bottoms that can never be adopted into a stack.
var FrozenBottoms = []string{"main", "master"}

// Builder reconstructs a Repository from persisted parent links and anchors.
type Builder struct {
	git     GitRunner
	meta    *MetadataStore
	remote  string
	bottoms map[string]struct{}
}

// BuilderOptions configures a Builder.
type BuilderOptions struct {
	// Remote is the remote whose tracking branches provide RemoteCommit.
	Remote string
	// ExtraBottoms are treated as bottoms in addition to DefaultBottoms and marked refs.
	ExtraBottoms []string
}

// LoadResult is the outcome of whole-repository discovery.
type LoadResult struct {
	Repo *Repository
	// Current is the node of the checked-out branch, or nil if it is not in a stack.
	Current *Branch
	// Broken holds one warning per chain that could not be walked to a bottom.
	Broken []error
}

// NewBuilder creates a Builder and loads the set of bottom names.
func NewBuilder(runner GitRunner, opts BuilderOptions) (*Builder, error) {
	remote := opts.Remote
	if remote == "" {
		remote = "origin"
	}
	b := &Builder{
		git:     runner,
		meta:    NewMetadataStore(runner),
		remote:  remote,
		bottoms: make(map[string]struct{}),
	}
	for _, name := range DefaultBottoms {
		b.bottoms[name] = struct{}{}
	}
	for _, name := range opts.ExtraBottoms {
		b.bottoms[name] = struct{}{}
	}
	marked, err := b.meta.MarkedBottoms()
	if err != nil {
		return nil, fmt.Errorf("failed to list stack bottoms: %w", err)
	}
	for _, name := range marked {
		b.bottoms[name] = struct{}{}
	}
	return b, nil
}

// IsBottom reports whether name is a recognized stack bottom.
func (b *Builder) IsBottom(name string) bool {
	_, ok := b.bottoms[name]
	return ok
}

// BottomNames returns the recognized bottom names, sorted.
func (b *Builder) BottomNames() []string {
	names := make([]string, 0, len(b.bottoms))
	for name := range b.bottoms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RealBottom returns the single default bottom that exists locally, or "" when
// none or several do.
func (b *Builder) RealBottom() (string, error) {
	branches, err := b.git.GetAllBranchNames()
	if err != nil {
		return "", err
	}
	var found []string
	for _, name := range branches {
		if b.IsBottom(name) {
			found = append(found, name)
		}
	}
	if len(found) != 1 {
		return "", nil
	}
	return found[0], nil
}

// Load walks name down to a bottom in strict mode, adding the chain to repo.
// A missing link or anchor fails with a ConfigurationError naming the branch.
func (b *Builder) Load(repo *Repository, name string) (*Branch, error) {
	node, _, err := b.walk(repo, name, true)
	return node, err
}

// LoadAll discovers every local branch. Each branch is attached to exactly one
// lenient walk; chains that do not reach a bottom are reported in Broken.
func (b *Builder) LoadAll() (*LoadResult, error) {
	current, err := b.git.GetCurrentBranch()
	if err != nil && !errors.Is(err, stackyerrors.ErrNotOnBranch) {
		return nil, err
	}
	names, err := b.git.GetAllBranchNames()
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	sort.Strings(names)

	result := &LoadResult{Repo: NewRepository()}
	remaining := make(map[string]struct{}, len(names))
	for _, name := range names {
		remaining[name] = struct{}{}
	}
	for _, name := range names {
		if _, ok := remaining[name]; !ok {
			continue
		}
		node, chain, err := b.walk(result.Repo, name, false)
		if err != nil {
			return nil, err
		}
		for _, visited := range chain {
			delete(remaining, visited.name)
		}
		if node == nil {
			if len(chain) > 1 || chain.cyclic() {
				result.Broken = append(result.Broken, chain.warning())
			}
		}
	}
	if current != "" {
		result.Current = result.Repo.Get(current)
	}
	return result, nil
}

type link struct {
	name         string
	parentCommit string
	repeat       bool
}

type chain []link

func (c chain) names() []string {
	out := make([]string, len(c))
	for i, l := range c {
		out[i] = l.name
	}
	return out
}

func (c chain) cyclic() bool {
	return len(c) > 0 && c[len(c)-1].repeat
}

func (c chain) warning() error {
	if c.cyclic() {
		return stackyerrors.NewCyclicMetadataError(c.names())
	}
	return stackyerrors.NewBrokenChainError(c.names())
}

// walk follows parent links from name to a bottom. On success every branch on
// the chain is added to repo and the node for name is returned. In lenient mode
// a broken chain returns a nil node and the partial chain.
func (b *Builder) walk(repo *Repository, name string, strict bool) (*Branch, chain, error) {
	var links chain
	seen := make(map[string]bool)
	branch := name
	for !b.IsBottom(branch) {
		if seen[branch] {
			links = append(links, link{name: branch, repeat: true})
			if strict {
				return nil, links, stackyerrors.NewCyclicMetadataError(links.names())
			}
			return nil, links, nil
		}
		seen[branch] = true

		parent, err := b.meta.ParentName(branch)
		if err != nil {
			return nil, links, err
		}
		anchor, err := b.meta.ParentCommit(branch)
		if err != nil {
			return nil, links, err
		}
		links = append(links, link{name: branch, parentCommit: anchor})
		if parent == "" || anchor == "" {
			if strict {
				return nil, links, stackyerrors.NewConfigurationError(branch, "Branch is not in a stack")
			}
			return nil, links, nil
		}
		branch = parent
	}
	links = append(links, link{name: branch})
	if !repo.Has(branch) {
		if tip, err := b.git.GetRevision(branch); err != nil || tip == "" {
			if strict {
				return nil, links, stackyerrors.NewConfigurationError(branch, "Stack bottom does not exist")
			}
			return nil, links, nil
		}
	}

	var top *Branch
	for i := len(links) - 1; i >= 0; i-- {
		parentName := ""
		if top != nil {
			parentName = top.Name
		}
		l := links[i]
		if existing := repo.Get(l.name); existing != nil {
			if _, err := repo.Add(&Branch{Name: l.name, ParentName: parentName, ParentCommit: l.parentCommit}); err != nil {
				return nil, links, err
			}
			top = existing
			continue
		}
		node, err := b.newBranch(l.name, parentName, l.parentCommit)
		if err != nil {
			return nil, links, err
		}
		if top, err = repo.Add(node); err != nil {
			return nil, links, err
		}
	}
	return top, links, nil
}

func (b *Builder) newBranch(name, parentName, parentCommit string) (*Branch, error) {
	if parentName != "" {
		remote, err := b.meta.TrackingRemote(name)
		if err != nil {
			return nil, err
		}
		if remote != "." {
			return nil, stackyerrors.NewConfigurationError(name, fmt.Sprintf("Misconfigured branch (remote %q)", remote))
		}
	}
	commit, err := b.git.GetRevision(name)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve branch %s: %w", name, err)
	}
	remoteCommit, err := b.git.GetRemoteRevision(b.remote, name)
	if err != nil {
		return nil, err
	}
	node := NewBranch(name, parentName, parentCommit)
	node.Commit = commit
	node.Remote = b.remote
	node.RemoteBranch = name
	node.RemoteCommit = remoteCommit
	return node, nil
}

// Refresh re-reads the tip and remote-tracking tip of br.
func (b *Builder) Refresh(br *Branch) error {
	commit, err := b.git.GetRevision(br.Name)
	if err != nil {
		return err
	}
	remoteCommit, err := b.git.GetRemoteRevision(b.remote, br.Name)
	if err != nil {
		return err
	}
	br.Commit = commit
	br.RemoteCommit = remoteCommit
	return nil
}
