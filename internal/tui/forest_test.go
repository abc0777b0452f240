package tui

import (
	"testing"

	"github.com/stretchr/testify/require"

	"stacky.dev/stacky/internal/engine"
	"stacky.dev/stacky/internal/github"
)

// main -> a -> {b, c}; release
func renderRepo(t *testing.T) *engine.Repository {
	t.Helper()
	repo := engine.NewRepository()
	for _, node := range [][2]string{{"main", ""}, {"release", ""}, {"a", "main"}, {"b", "a"}, {"c", "a"}} {
		b := engine.NewBranch(node[0], node[1], "")
		b.Commit = node[0] + "-tip"
		b.RemoteCommit = b.Commit
		_, err := repo.Add(b)
		require.NoError(t, err)
	}
	for _, name := range []string{"a", "b", "c"} {
		b := repo.Get(name)
		b.ParentCommit = b.Parent().Commit
	}
	return repo
}

func TestFormatBranch(t *testing.T) {
	repo := renderRepo(t)

	t.Run("clean branch", func(t *testing.T) {
		require.Equal(t, "a", FormatBranch(repo.Get("a"), "b", false))
	})

	t.Run("current branch", func(t *testing.T) {
		require.Equal(t, "* b", FormatBranch(repo.Get("b"), "b", false))
	})

	t.Run("unsynced markers", func(t *testing.T) {
		c := repo.Get("c")
		c.ParentCommit = "old"
		c.RemoteCommit = ""
		require.Equal(t, "!~* c", FormatBranch(c, "c", false))
		require.Equal(t, "!~ c", FormatBranch(c, "b", false))
	})

	t.Run("open pull request", func(t *testing.T) {
		a := repo.Get("a")
		require.NoError(t, a.SetPRInfo([]github.PullRequestInfo{
			{ID: "PR_1", Number: 7, State: github.StateOpen, Title: "Add things", HeadRefName: "a"},
		}))
		require.Equal(t, "a (#7) Add things", FormatBranch(a, "", false))
	})
}

func TestRenderForest(t *testing.T) {
	repo := renderRepo(t)

	t.Run("single tree is drawn upside down", func(t *testing.T) {
		out := RenderForest(engine.Upstack(repo, "main"), "b", false)
		require.Equal(t, ""+
			"      ┌── c\n"+
			"      ├── * b\n"+
			" ┌── a\n"+
			"main\n", out)
	})

	t.Run("deeper nesting keeps the vertical rail", func(t *testing.T) {
		d := engine.NewBranch("d", "b", "b-tip")
		d.Commit, d.RemoteCommit = "d-tip", "d-tip"
		_, err := repo.Add(d)
		require.NoError(t, err)
		defer repo.Remove("d")

		out := RenderForest(engine.Upstack(repo, "a"), "", false)
		require.Equal(t, ""+
			" ┌── c\n"+
			" │    ┌── d\n"+
			" ├── b\n"+
			"a\n", out)
	})

	t.Run("trees are separated by a blank line", func(t *testing.T) {
		out := RenderForest(engine.BottomLevel(repo), "", false)
		require.Equal(t, " ┌── a\nmain\n\nrelease\n", out)
	})
}

func TestMenuEntries(t *testing.T) {
	repo := renderRepo(t)
	lines, branches, initial := MenuEntries(engine.Upstack(repo, "main"), "b")

	require.Equal(t, []string{"      ┌── c", "      ├── * b", " ┌── a", "main"}, lines)
	names := make([]string, len(branches))
	for i, b := range branches {
		names[i] = b.Name
	}
	require.Equal(t, []string{"c", "b", "a", "main"}, names)
	require.Equal(t, 1, initial)
}
