package actions_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"stacky.dev/stacky/internal/actions"
	"stacky.dev/stacky/internal/config"
	stackyerrors "stacky.dev/stacky/internal/errors"
	"stacky.dev/stacky/internal/github"
	"stacky.dev/stacky/testhelpers"
)

func TestImportAction(t *testing.T) {
	setup := func(t *testing.T) (*testhelpers.TestContext, string, string) {
		fake := testhelpers.NewFakeGit()
		base := fake.Tip("main")
		fake.CreateBranch("x", "main")
		x1 := fake.CommitOn("x", "x1")
		fake.CreateBranch("y", "x")
		y1 := fake.CommitOn("y", "y1")
		tc := testhelpers.NewTestContext(t, fake, nil)

		px := tc.GH.AddPR("x", "main", github.StateOpen)
		tc.GH.Update(px.Number, func(pr *github.PullRequestInfo) {
			pr.Commits = []github.PullRequestCommit{{OID: x1}}
		})
		py := tc.GH.AddPR("y", "x", github.StateOpen)
		tc.GH.Update(py.Number, func(pr *github.PullRequestInfo) {
			pr.Commits = []github.PullRequestCommit{{OID: y1}}
		})
		return tc, base, x1
	}

	t.Run("links branches along PR bases", func(t *testing.T) {
		tc, base, x1 := setup(t)
		require.NoError(t, actions.ImportAction(tc.Context, "y", actions.ImportOptions{}))

		out := tc.Output.String()
		require.Contains(t, out, "- Will set parent of x to main at commit "+base)
		require.Contains(t, out, "- Will set parent of y to x at commit "+x1)

		y := tc.Repo.Get("y")
		require.NotNil(t, y)
		require.Equal(t, "x", y.ParentName)
		require.Equal(t, x1, y.ParentCommit)
		require.Equal(t, "main", tc.Repo.Get("x").ParentName)
	})

	t.Run("branch without open PR", func(t *testing.T) {
		tc, _, _ := setup(t)
		tc.GH.Update(1, func(pr *github.PullRequestInfo) { pr.State = github.StateClosed })

		err := actions.ImportAction(tc.Context, "y", actions.ImportOptions{Force: true})
		require.ErrorIs(t, err, stackyerrors.ErrConfiguration)
		require.Contains(t, err.Error(), "has no open PR: x")
	})

	t.Run("PR without commits", func(t *testing.T) {
		tc, _, _ := setup(t)
		tc.GH.Update(2, func(pr *github.PullRequestInfo) { pr.Commits = nil })

		err := actions.ImportAction(tc.Context, "y", actions.ImportOptions{Force: true})
		require.Contains(t, err.Error(), "PR #2 has no commits")
	})

	t.Run("PR bases forming a loop", func(t *testing.T) {
		tc, _, _ := setup(t)
		tc.GH.Update(1, func(pr *github.PullRequestInfo) { pr.BaseRefName = "y" })

		err := actions.ImportAction(tc.Context, "y", actions.ImportOptions{Force: true})
		require.ErrorIs(t, err, stackyerrors.ErrCyclicMetadata)
	})
}

func TestAdoptAction(t *testing.T) {
	t.Run("adopts onto the current bottom", func(t *testing.T) {
		fake := testhelpers.NewFakeGit()
		base := fake.Tip("main")
		fake.CreateBranch("loose", "main")
		fake.CommitOn("loose", "l1")
		fake.CommitOn("main", "m1")
		tc := testhelpers.NewTestContext(t, fake, &config.Config{ChangeToAdopted: true})

		require.NoError(t, actions.AdoptAction(tc.Context, "loose"))
		require.Equal(t, "loose", tc.Current)

		tc.Reload(t)
		loose := tc.Repo.Get("loose")
		require.NotNil(t, loose)
		require.Equal(t, "main", loose.ParentName)
		require.Equal(t, base, loose.ParentCommit)
		require.False(t, loose.IsSyncedWithParent())
	})

	t.Run("marked bottom loses its marker", func(t *testing.T) {
		fake := testhelpers.NewFakeGit()
		fake.CreateBranch("release", "main")
		fake.CommitOn("release", "r1")
		require.NoError(t, fake.UpdateRef(context.Background(), "refs/stack-bottom/release", fake.Tip("release"), ""))
		tc := testhelpers.NewTestContext(t, fake, nil)

		require.NoError(t, actions.AdoptAction(tc.Context, "release"))
		marker, err := fake.GetRef("refs/stack-bottom/release")
		require.NoError(t, err)
		require.Empty(t, marker)
		require.Equal(t, "main", tc.Current)
	})

	t.Run("refusals", func(t *testing.T) {
		fake := testhelpers.NewFakeGit()
		fake.CreateBranch("master", "main")
		fake.StackBranch("a", "main")
		tc := testhelpers.NewTestContext(t, fake, nil)

		err := actions.AdoptAction(tc.Context, "main")
		require.Contains(t, err.Error(), "cannot adopt itself")

		err = actions.AdoptAction(tc.Context, "master")
		require.Contains(t, err.Error(), "Cannot adopt frozen stack bottoms")

		require.NoError(t, fake.CheckoutBranch(context.Background(), "a"))
		tc.Reload(t)
		err = actions.AdoptAction(tc.Context, "master")
		require.Contains(t, err.Error(), "must be a valid stack bottom")
	})
}
