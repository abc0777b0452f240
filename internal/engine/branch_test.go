package engine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"stacky.dev/stacky/internal/engine"
	stackyerrors "stacky.dev/stacky/internal/errors"
	githubpkg "stacky.dev/stacky/internal/github"
	"stacky.dev/stacky/testhelpers"
)

func TestLoadPRInfo(t *testing.T) {
	ctx := context.Background()

	t.Run("indexes every request and picks the open one", func(t *testing.T) {
		gh := testhelpers.NewFakeGitHub()
		gh.AddPR("feature-a", "main", githubpkg.StateMerged)
		open := gh.AddPR("feature-a", "main", githubpkg.StateOpen)
		gh.AddPR("feature-b", "feature-a", githubpkg.StateOpen)

		b := engine.NewBranch("feature-a", "main", "")
		require.False(t, b.PRInfoLoaded())
		require.NoError(t, b.LoadPRInfo(ctx, gh))
		require.True(t, b.PRInfoLoaded())
		require.Len(t, b.AllPRs, 2)
		require.NotNil(t, b.OpenPR)
		require.Equal(t, open.Number, b.OpenPR.Number)
	})

	t.Run("loads only once", func(t *testing.T) {
		gh := testhelpers.NewFakeGitHub()
		b := engine.NewBranch("feature-a", "main", "")
		require.NoError(t, b.LoadPRInfo(ctx, gh))
		gh.ListErr = errors.New("should not be called")
		require.NoError(t, b.LoadPRInfo(ctx, gh))
		require.Nil(t, b.OpenPR)
	})

	t.Run("two open requests are fatal", func(t *testing.T) {
		gh := testhelpers.NewFakeGitHub()
		gh.AddPR("feature-a", "main", githubpkg.StateOpen)
		gh.AddPR("feature-a", "staging", githubpkg.StateOpen)

		b := engine.NewBranch("feature-a", "main", "")
		err := b.LoadPRInfo(ctx, gh)
		require.ErrorIs(t, err, stackyerrors.ErrMultipleOpenRequests)
		require.ErrorContains(t, err, "#1, #2")
	})

	t.Run("service errors propagate", func(t *testing.T) {
		gh := testhelpers.NewFakeGitHub()
		gh.ListErr = errors.New("boom")
		b := engine.NewBranch("feature-a", "main", "")
		require.ErrorContains(t, b.LoadPRInfo(ctx, gh), "boom")
		require.False(t, b.PRInfoLoaded())
	})
}
