package actions_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"stacky.dev/stacky/internal/actions"
	stackyerrors "stacky.dev/stacky/internal/errors"
	"stacky.dev/stacky/internal/github"
	"stacky.dev/stacky/testhelpers"
)

func TestUpdateAction(t *testing.T) {
	t.Run("moves bottoms to the remote and deletes merged branches", func(t *testing.T) {
		fake := newStack(t)
		require.NoError(t, fake.CheckoutBranch(context.Background(), "a"))
		upstream := fake.CommitOn("main", "squashed a")
		fake.FetchUpdates["main"] = upstream
		tc := testhelpers.NewTestContext(t, fake, nil)
		tc.GH.AddPR("a", "main", github.StateMerged)

		require.NoError(t, actions.UpdateAction(tc.Context, actions.UpdateOptions{}))

		out := tc.Output.String()
		require.Contains(t, out, "- Will delete branch a, PR #1 merged into main")
		require.Contains(t, out, "- Will reparent branch b onto main")
		require.Contains(t, out, "About to delete current branch, switching to main")
		require.Equal(t, []string{"Proceed?"}, tc.UI.Confirms)

		require.Empty(t, fake.Tip("a"))
		require.Equal(t, upstream, fake.Tip("main"))
		require.Equal(t, "main", tc.Current)

		anchor, err := fake.GetRef("refs/stack-parent/a")
		require.NoError(t, err)
		require.Empty(t, anchor)

		tc.Reload(t)
		b := tc.Repo.Get("b")
		require.Equal(t, "main", b.ParentName)
		require.False(t, b.IsSyncedWithParent())
	})

	t.Run("open PRs keep their branch", func(t *testing.T) {
		fake := newStack(t)
		tc := testhelpers.NewTestContext(t, fake, nil)
		tc.GH.AddPR("a", "main", github.StateMerged)
		tc.GH.AddPR("a", "main", github.StateOpen)

		require.NoError(t, actions.UpdateAction(tc.Context, actions.UpdateOptions{}))
		require.NotEmpty(t, fake.Tip("a"))
		require.Empty(t, tc.UI.Confirms)
		require.Equal(t, 1, fake.Fetches)
	})

	t.Run("declined", func(t *testing.T) {
		fake := newStack(t)
		tc := testhelpers.NewTestContext(t, fake, nil)
		tc.GH.AddPR("a", "main", github.StateMerged)
		tc.UI.Answer = false

		err := actions.UpdateAction(tc.Context, actions.UpdateOptions{})
		require.ErrorIs(t, err, stackyerrors.ErrUserAborted)
		require.NotEmpty(t, fake.Tip("a"))
	})

	t.Run("orphan refs are removed", func(t *testing.T) {
		fake := newStack(t)
		ctx := context.Background()
		require.NoError(t, fake.UpdateRef(ctx, "refs/stack-parent/gone", fake.Tip("main"), ""))
		require.NoError(t, fake.UpdateRef(ctx, "refs/stack-bottom/gone", fake.Tip("main"), ""))
		tc := testhelpers.NewTestContext(t, fake, nil)

		require.NoError(t, actions.UpdateAction(tc.Context, actions.UpdateOptions{Force: true}))
		refs, err := fake.ListRefs("refs/stack-parent/")
		require.NoError(t, err)
		require.Contains(t, refs, "a")
		require.Contains(t, refs, "b")
		require.NotContains(t, refs, "gone")
		bottoms, err := fake.ListRefs("refs/stack-bottom/")
		require.NoError(t, err)
		require.Empty(t, bottoms)
	})
}
