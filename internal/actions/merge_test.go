package actions_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"stacky.dev/stacky/internal/actions"
	stackyerrors "stacky.dev/stacky/internal/errors"
	"stacky.dev/stacky/internal/github"
	"stacky.dev/stacky/testhelpers"
)

func TestLandAction(t *testing.T) {
	pushed := func(t *testing.T) *testhelpers.TestContext {
		fake := newStack(t)
		fake.SetRemoteBranch("origin", "a", fake.Tip("a"))
		fake.SetRemoteBranch("origin", "b", fake.Tip("b"))
		return testhelpers.NewTestContext(t, fake, nil)
	}

	t.Run("squash merges the bottom-most branch", func(t *testing.T) {
		tc := pushed(t)
		tc.GH.AddPR("a", "main", github.StateOpen)

		require.NoError(t, actions.LandAction(tc.Context, actions.LandOptions{Auto: true}))
		require.Len(t, tc.GH.Merged, 1)
		merged := tc.GH.Merged[0]
		require.Equal(t, 1, merged.Number)
		require.Equal(t, tc.Fake.Tip("a"), merged.MatchHeadCommit)
		require.True(t, merged.Auto)

		out := tc.Output.String()
		require.Contains(t, out, "only lands the bottom-most branch a; the current stack has 2 branches, ending with b")
		require.Contains(t, out, "- Will land PR #1 (https://github.com/owner/repo/pull/1) for branch a into branch main")
		require.Contains(t, out, "Run `stacky update`")
	})

	t.Run("not mergeable", func(t *testing.T) {
		tc := pushed(t)
		pr := tc.GH.AddPR("a", "main", github.StateOpen)
		tc.GH.Update(pr.Number, func(p *github.PullRequestInfo) { p.Mergeable = "CONFLICTING" })

		err := actions.LandAction(tc.Context, actions.LandOptions{Force: true})
		require.ErrorIs(t, err, stackyerrors.ErrNotMergeable)
		require.Empty(t, tc.GH.Merged)
	})

	t.Run("no open PR", func(t *testing.T) {
		tc := pushed(t)
		err := actions.LandAction(tc.Context, actions.LandOptions{Force: true})
		require.ErrorIs(t, err, stackyerrors.ErrConfiguration)
		require.Contains(t, err.Error(), "does not have an open PR")
	})

	t.Run("unpushed changes", func(t *testing.T) {
		tc := testhelpers.NewTestContext(t, newStack(t), nil)
		err := actions.LandAction(tc.Context, actions.LandOptions{Force: true})
		require.ErrorIs(t, err, stackyerrors.ErrRemoteMismatch)
	})

	t.Run("on a bottom", func(t *testing.T) {
		tc := pushed(t)
		require.NoError(t, tc.Checkout("main"))
		err := actions.LandAction(tc.Context, actions.LandOptions{Force: true})
		require.Contains(t, err.Error(), "May not land")
	})
}
