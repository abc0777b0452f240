package git_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	stackyerrors "stacky.dev/stacky/internal/errors"
	"stacky.dev/stacky/internal/git"
	"stacky.dev/stacky/testhelpers"
)

func newRunner(t *testing.T, repo *testhelpers.GitRepo) *git.Runner {
	t.Helper()
	runner, err := git.NewRunner(context.Background(), repo.Dir)
	require.NoError(t, err)
	return runner
}

func TestRunnerRefs(t *testing.T) {
	ctx := context.Background()

	t.Run("missing ref reads as empty", func(t *testing.T) {
		repo := testhelpers.NewGitRepo(t)
		repo.CommitChange("initial", "init")
		runner := newRunner(t, repo)

		sha, err := runner.GetRef("refs/stack-parent/nope")
		require.NoError(t, err)
		require.Empty(t, sha)
	})

	t.Run("conditional update refuses a stale old value", func(t *testing.T) {
		repo := testhelpers.NewGitRepo(t)
		first := repo.CommitChange("initial", "init")
		second := repo.CommitChange("second", "init")
		runner := newRunner(t, repo)

		require.NoError(t, runner.UpdateRef(ctx, "refs/stack-parent/feature", first, ""))
		require.Error(t, runner.UpdateRef(ctx, "refs/stack-parent/feature", second, second))
		require.NoError(t, runner.UpdateRef(ctx, "refs/stack-parent/feature", second, first))

		sha, err := runner.GetRef("refs/stack-parent/feature")
		require.NoError(t, err)
		require.Equal(t, second, sha)
	})

	t.Run("create-only update fails when the ref exists", func(t *testing.T) {
		repo := testhelpers.NewGitRepo(t)
		head := repo.CommitChange("initial", "init")
		runner := newRunner(t, repo)

		require.NoError(t, runner.UpdateRef(ctx, "refs/stack-bottom/release", head, git.ZeroSHA))
		require.Error(t, runner.UpdateRef(ctx, "refs/stack-bottom/release", head, git.ZeroSHA))

		refs, err := runner.ListRefs("refs/stack-bottom/")
		require.NoError(t, err)
		require.Equal(t, map[string]string{"release": head}, refs)

		require.NoError(t, runner.DeleteRef(ctx, "refs/stack-bottom/release"))
		require.NoError(t, runner.DeleteRef(ctx, "refs/stack-bottom/release"))
	})
}

func TestRunnerConfig(t *testing.T) {
	repo := testhelpers.NewGitRepo(t)
	repo.CommitChange("initial", "init")
	repo.StackBranch("user/feature.v2", "main")
	runner := newRunner(t, repo)

	merge, err := runner.GetConfig("branch.user/feature.v2.merge")
	require.NoError(t, err)
	require.Equal(t, "refs/heads/main", merge)

	remote, err := runner.GetConfig("branch.user/feature.v2.remote")
	require.NoError(t, err)
	require.Equal(t, ".", remote)

	unset, err := runner.GetConfig("branch.missing.merge")
	require.NoError(t, err)
	require.Empty(t, unset)
}

func TestRunnerGlobalConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	require.NoError(t, os.WriteFile(filepath.Join(home, ".gitconfig"),
		[]byte("[remote]\n\tpushDefault = fork\n[stacky]\n\tmode = global\n"), 0600))

	repo := testhelpers.NewGitRepo(t)
	repo.CommitChange("initial", "init")
	repo.Git("config", "stacky.mode", "local")
	runner := newRunner(t, repo)

	t.Run("falls back to the user's config", func(t *testing.T) {
		value, err := runner.GetConfig("remote.pushDefault")
		require.NoError(t, err)
		require.Equal(t, "fork", value)
	})

	t.Run("repository config wins", func(t *testing.T) {
		value, err := runner.GetConfig("stacky.mode")
		require.NoError(t, err)
		require.Equal(t, "local", value)
	})
}

func TestRunnerCommitQueries(t *testing.T) {
	repo := testhelpers.NewGitRepo(t)
	base := repo.CommitChange("initial", "init")
	repo.CreateAndCheckoutBranch("feature")
	c1 := repo.CommitChange("SRE-12 first\n\nreviewers: alice, bob", "f")
	c2 := repo.CommitChange("second", "f")
	runner := newRunner(t, repo)

	t.Run("range is newest first", func(t *testing.T) {
		shas, err := runner.GetCommitRangeSHAs(base, "feature")
		require.NoError(t, err)
		require.Equal(t, []string{c2, c1}, shas)
	})

	t.Run("ancestry", func(t *testing.T) {
		ok, err := runner.IsAncestor(base, c2)
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = runner.IsAncestor(c2, base)
		require.NoError(t, err)
		require.False(t, ok)

		ok, err = runner.IsAncestor(c2, c2)
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("message split", func(t *testing.T) {
		msg, err := runner.GetCommitMessage(c1)
		require.NoError(t, err)
		require.Equal(t, "SRE-12 first", msg.Subject)
		require.Equal(t, "reviewers: alice, bob", msg.Body)
	})

	t.Run("parent and merge base", func(t *testing.T) {
		parent, err := runner.GetParentCommitSHA(c1)
		require.NoError(t, err)
		require.Equal(t, base, parent)

		mb, err := runner.GetMergeBase("main", "feature")
		require.NoError(t, err)
		require.Equal(t, base, mb)
	})

	t.Run("current branch", func(t *testing.T) {
		name, err := runner.GetCurrentBranch()
		require.NoError(t, err)
		require.Equal(t, "feature", name)

		repo.Git("checkout", "--detach", "HEAD")
		_, err = runner.GetCurrentBranch()
		require.ErrorIs(t, err, stackyerrors.ErrNotOnBranch)
		repo.CheckoutBranch("feature")
	})
}

func TestRunnerCommitRangeDiverged(t *testing.T) {
	repo := testhelpers.NewGitRepo(t)
	repo.CommitChange("initial", "init")
	repo.CommitChange("old history", "init")
	repo.CreateAndCheckoutBranch("feature")
	f1 := repo.CommitChange("feature one", "f")
	f2 := repo.CommitChange("feature two", "f")
	repo.CheckoutBranch("main")
	repo.CommitChange("main one", "m")
	repo.CommitChange("main two", "m")
	runner := newRunner(t, repo)

	shas, err := runner.GetCommitRangeSHAs("main", "feature")
	require.NoError(t, err)
	require.Equal(t, []string{f2, f1}, shas)

	back, err := runner.GetCommitRangeSHAs("feature", "main")
	require.NoError(t, err)
	require.Len(t, back, 2)
}

func TestRunnerRebase(t *testing.T) {
	ctx := context.Background()

	t.Run("replays only the branch's own commits", func(t *testing.T) {
		repo := testhelpers.NewGitRepo(t)
		anchor := repo.CommitChange("initial", "init")
		repo.CreateAndCheckoutBranch("feature")
		repo.CommitChange("feature change", "feature")
		repo.CheckoutBranch("main")
		newMain := repo.CommitChange("main update", "main")
		runner := newRunner(t, repo)

		result, err := runner.Rebase(ctx, "feature", newMain, anchor)
		require.NoError(t, err)
		require.Equal(t, git.RebaseDone, result)

		shas, err := runner.GetCommitRangeSHAs(newMain, "feature")
		require.NoError(t, err)
		require.Len(t, shas, 1)
	})

	t.Run("reports conflicts and leaves the rebase in progress", func(t *testing.T) {
		repo := testhelpers.NewGitRepo(t)
		anchor := repo.CommitChange("initial content", "conflict")
		repo.CreateAndCheckoutBranch("feature")
		repo.CommitChange("feature modification", "conflict")
		repo.CheckoutBranch("main")
		newMain := repo.CommitChange("main modification", "conflict")
		runner := newRunner(t, repo)

		result, err := runner.Rebase(ctx, "feature", newMain, anchor)
		require.NoError(t, err)
		require.Equal(t, git.RebaseConflict, result)
		require.True(t, runner.IsRebaseInProgress(ctx))
		require.True(t, repo.RebaseInProgress())
	})
}

func TestParseRemoteURL(t *testing.T) {
	cases := []struct {
		url   string
		owner string
		repo  string
		host  string
	}{
		{"https://github.com/acme/widgets.git", "acme", "widgets", "github.com"},
		{"git@github.com:acme/widgets.git", "acme", "widgets", "github.com"},
		{"ssh://git@ghe.example.com/acme/widgets", "acme", "widgets", "ghe.example.com"},
	}
	for _, tc := range cases {
		t.Run(tc.url, func(t *testing.T) {
			info, err := git.ParseRemoteURL(tc.url)
			require.NoError(t, err)
			require.Equal(t, tc.owner, info.Owner)
			require.Equal(t, tc.repo, info.Repo)
			require.Equal(t, tc.host, info.Hostname)
		})
	}

	_, err := git.ParseRemoteURL("not a url")
	require.Error(t, err)
}

func TestSSHHost(t *testing.T) {
	require.Equal(t, "git@github.com", git.SSHHost("git@github.com:acme/widgets.git"))
	require.Equal(t, "git@github.com", git.SSHHost("ssh://git@github.com:22/acme/widgets.git"))
	require.Empty(t, git.SSHHost("https://github.com/acme/widgets.git"))
	require.Empty(t, git.SSHHost("/srv/repos/widgets.git"))
}
