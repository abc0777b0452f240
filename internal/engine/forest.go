package engine

import "iter"

// Tree is a branch with the subtrees selected for a view.
type Tree struct {
	Branch   *Branch
	Children []*Tree
}

// Forest is an ordered set of trees, one per bottom-most branch in the view.
type Forest []*Tree

// AllStacks returns one tree per bottom, children sorted by name.
func AllStacks(repo *Repository) Forest {
	var forest Forest
	for _, bottom := range repo.Bottoms() {
		forest = append(forest, subtree(bottom))
	}
	return forest
}

// Downstack returns the single path from the bottom up to name.
func Downstack(repo *Repository, name string) Forest {
	return pathTo(repo, name, func(*Branch) []*Tree { return nil })
}

// Upstack returns the subtree rooted at name.
func Upstack(repo *Repository, name string) Forest {
	b := repo.Get(name)
	if b == nil {
		return nil
	}
	return Forest{subtree(b)}
}

// CurrentStack returns the path from the bottom to name with the whole upstack
// of name attached. Siblings of branches below name are left out.
func CurrentStack(repo *Repository, name string) Forest {
	return pathTo(repo, name, func(b *Branch) []*Tree { return subtree(b).Children })
}

// BottomLevel returns every bottom together with its direct children only.
func BottomLevel(repo *Repository) Forest {
	var forest Forest
	for _, bottom := range repo.Bottoms() {
		tree := &Tree{Branch: bottom}
		for _, c := range bottom.Children() {
			tree.Children = append(tree.Children, &Tree{Branch: c})
		}
		forest = append(forest, tree)
	}
	return forest
}

func subtree(b *Branch) *Tree {
	tree := &Tree{Branch: b}
	for _, c := range b.Children() {
		tree.Children = append(tree.Children, subtree(c))
	}
	return tree
}

func pathTo(repo *Repository, name string, top func(*Branch) []*Tree) Forest {
	chain := repo.Ancestors(name)
	if len(chain) == 0 {
		return nil
	}
	tree := &Tree{Branch: chain[0], Children: top(chain[0])}
	for _, b := range chain[1:] {
		tree = &Tree{Branch: b, Children: []*Tree{tree}}
	}
	return Forest{tree}
}

// DepthFirst yields every branch in the forest, parents before children.
func (f Forest) DepthFirst() iter.Seq[*Branch] {
	return func(yield func(*Branch) bool) {
		for _, tree := range f {
			if !tree.walk(yield) {
				return
			}
		}
	}
}

func (t *Tree) walk(yield func(*Branch) bool) bool {
	if !yield(t.Branch) {
		return false
	}
	for _, c := range t.Children {
		if !c.walk(yield) {
			return false
		}
	}
	return true
}

// Branches returns the branches of the forest in depth-first order.
func (f Forest) Branches() []*Branch {
	var out []*Branch
	for b := range f.DepthFirst() {
		out = append(out, b)
	}
	return out
}

// Contains reports whether name appears in the forest.
func (f Forest) Contains(name string) bool {
	for b := range f.DepthFirst() {
		if b.Name == name {
			return true
		}
	}
	return false
}
