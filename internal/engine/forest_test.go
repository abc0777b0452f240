package engine_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"stacky.dev/stacky/internal/engine"
)

// main -> a -> {b -> c, d}; main -> e; release (separate bottom)
func forestRepo(t *testing.T) *engine.Repository {
	return buildRepo(t,
		[2]string{"main", ""},
		[2]string{"release", ""},
		[2]string{"a", "main"},
		[2]string{"b", "a"},
		[2]string{"c", "b"},
		[2]string{"d", "a"},
		[2]string{"e", "main"},
	)
}

func shape(f engine.Forest) []string {
	var out []string
	var visit func(tree *engine.Tree, prefix string)
	visit = func(tree *engine.Tree, prefix string) {
		out = append(out, prefix+tree.Branch.Name)
		for _, c := range tree.Children {
			visit(c, prefix+tree.Branch.Name+"/")
		}
	}
	for _, tree := range f {
		visit(tree, "")
	}
	return out
}

func TestForestViews(t *testing.T) {
	repo := forestRepo(t)

	t.Run("all stacks", func(t *testing.T) {
		require.Equal(t, []string{
			"main", "main/a", "main/a/b", "main/a/b/c", "main/a/d", "main/e", "release",
		}, shape(engine.AllStacks(repo)))
	})

	t.Run("downstack is the path to the branch", func(t *testing.T) {
		require.Equal(t, []string{"main", "main/a", "main/a/b"}, shape(engine.Downstack(repo, "b")))
		require.Equal(t, []string{"main"}, shape(engine.Downstack(repo, "main")))
	})

	t.Run("upstack is the subtree", func(t *testing.T) {
		require.Equal(t, []string{"a", "a/b", "a/b/c", "a/d"}, shape(engine.Upstack(repo, "a")))
		require.Nil(t, engine.Upstack(repo, "missing"))
	})

	t.Run("current stack drops siblings below the branch", func(t *testing.T) {
		require.Equal(t, []string{"main", "main/a", "main/a/b", "main/a/b/c"}, shape(engine.CurrentStack(repo, "b")))
		require.Equal(t, []string{"main", "main/a", "main/a/b", "main/a/b/c", "main/a/d"}, shape(engine.CurrentStack(repo, "a")))
		require.Nil(t, engine.CurrentStack(repo, "missing"))
	})

	t.Run("bottom level keeps direct children only", func(t *testing.T) {
		require.Equal(t, []string{"main", "main/a", "main/e", "release"}, shape(engine.BottomLevel(repo)))
	})
}

func TestForestIteration(t *testing.T) {
	forest := engine.AllStacks(forestRepo(t))

	require.Equal(t, []string{"main", "a", "b", "c", "d", "e", "release"}, names(forest.Branches()))
	require.True(t, forest.Contains("d"))
	require.False(t, forest.Contains("missing"))

	var firstTwo []string
	for b := range forest.DepthFirst() {
		firstTwo = append(firstTwo, b.Name)
		if len(firstTwo) == 2 {
			break
		}
	}
	require.Equal(t, []string{"main", "a"}, firstTwo)
}

func TestPlan(t *testing.T) {
	t.Run("cascades from an out of date parent", func(t *testing.T) {
		repo := forestRepo(t)
		for _, b := range repo.Names() {
			repo.Get(b).Commit = b + "-tip"
		}
		for _, b := range repo.Names() {
			if node := repo.Get(b); !node.IsRoot() {
				node.ParentCommit = node.Parent().Commit
			}
		}
		repo.Get("a").Commit = "a-moved"

		require.Equal(t, []string{"b", "c", "d"}, names(engine.Plan(engine.AllStacks(repo))))
	})

	t.Run("bottoms never qualify", func(t *testing.T) {
		repo := forestRepo(t)
		require.NotContains(t, names(engine.Plan(engine.AllStacks(repo))), "main")
		require.NotContains(t, names(engine.Plan(engine.AllStacks(repo))), "release")
	})
}
