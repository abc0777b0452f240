package actions_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"stacky.dev/stacky/internal/actions"
	"stacky.dev/stacky/internal/engine"
	stackyerrors "stacky.dev/stacky/internal/errors"
	"stacky.dev/stacky/testhelpers"
)

// newStack builds main -> a -> b with one commit per branch and b checked out.
func newStack(t *testing.T) *testhelpers.FakeGit {
	t.Helper()
	fake := testhelpers.NewFakeGit()
	fake.StackBranch("a", "main")
	fake.CommitOn("a", "a1")
	fake.StackBranch("b", "a")
	fake.CommitOn("b", "b1")
	require.NoError(t, fake.CheckoutBranch(context.Background(), "b"))
	return fake
}

func TestSyncAction(t *testing.T) {
	t.Run("rebases the stack and returns to the current branch", func(t *testing.T) {
		fake := newStack(t)
		fake.CommitOn("main", "upstream")
		tc := testhelpers.NewTestContext(t, fake, nil)

		forest, err := actions.ScopeStack.Forest(tc.Context)
		require.NoError(t, err)
		require.NoError(t, actions.SyncAction(tc.Context, forest, actions.SyncOptions{}))

		require.Equal(t, []string{"a", "b"}, fake.Rebases)
		require.Equal(t, []string{"a1", "b1"}, fake.Log("main", "b"))
		require.True(t, fake.Contains("b", fake.Tip("main")))
		current, err := fake.GetCurrentBranch()
		require.NoError(t, err)
		require.Equal(t, "b", current)

		tc.Reload(t)
		for b := range engine.AllStacks(tc.Repo).DepthFirst() {
			require.True(t, b.IsSyncedWithParent(), b.Name)
		}
	})

	t.Run("dry run changes nothing", func(t *testing.T) {
		fake := newStack(t)
		fake.CommitOn("main", "upstream")
		tc := testhelpers.NewTestContext(t, fake, nil)

		forest, err := actions.ScopeAll.Forest(tc.Context)
		require.NoError(t, err)
		require.NoError(t, actions.SyncAction(tc.Context, forest, actions.SyncOptions{DryRun: true}))
		require.Empty(t, fake.Rebases)
		require.Contains(t, tc.Output.String(), "- Will sync branch a on top of main")
	})

	t.Run("conflict keeps the record and continue finishes", func(t *testing.T) {
		fake := newStack(t)
		fake.CommitOn("main", "upstream")
		fake.Conflicts["a"] = true
		tc := testhelpers.NewTestContext(t, fake, nil)

		forest, err := actions.ScopeStack.Forest(tc.Context)
		require.NoError(t, err)
		err = actions.SyncAction(tc.Context, forest, actions.SyncOptions{})
		require.ErrorIs(t, err, stackyerrors.ErrSyncConflict)
		require.Contains(t, tc.Output.String(), "stacky continue")

		record, err := tc.StateStore.Load()
		require.NoError(t, err)
		require.Equal(t, "b", record.Branch)
		require.Equal(t, []string{"a", "b"}, record.Sync)

		err = actions.ContinueAction(tc.Context)
		require.ErrorIs(t, err, stackyerrors.ErrSyncConflict)

		fake.ResolveConflict()
		tc.Reload(t)
		require.NoError(t, actions.ContinueAction(tc.Context))

		_, err = tc.StateStore.Load()
		require.ErrorIs(t, err, stackyerrors.ErrNoSyncInProgress)
		require.True(t, fake.Contains("b", fake.Tip("a")))
		current, err := fake.GetCurrentBranch()
		require.NoError(t, err)
		require.Equal(t, "b", current)
	})

	t.Run("continue without a record fails", func(t *testing.T) {
		tc := testhelpers.NewTestContext(t, newStack(t), nil)
		err := actions.ContinueAction(tc.Context)
		require.ErrorIs(t, err, stackyerrors.ErrNoSyncInProgress)
		require.Contains(t, err.Error(), "no previous command in progress")
	})
}

func TestScopeForest(t *testing.T) {
	fake := newStack(t)
	fake.StackBranch("c", "a")
	tc := testhelpers.NewTestContext(t, fake, nil)

	names := func(s actions.Scope) []string {
		forest, err := s.Forest(tc.Context)
		require.NoError(t, err)
		var out []string
		for _, b := range forest.Branches() {
			out = append(out, b.Name)
		}
		return out
	}
	require.Equal(t, []string{"main", "a", "b", "c"}, names(actions.ScopeAll))
	require.Equal(t, []string{"main", "a", "b"}, names(actions.ScopeStack))
	require.Equal(t, []string{"b"}, names(actions.ScopeUpstack))
	require.Equal(t, []string{"main", "a", "b"}, names(actions.ScopeDownstack))
}
