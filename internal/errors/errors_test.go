package errors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	stackyerrors "stacky.dev/stacky/internal/errors"
)

func TestTypedErrorsMatchSentinels(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"configuration", stackyerrors.NewConfigurationError("feature", "Misconfigured branch"), stackyerrors.ErrConfiguration},
		{"broken chain", stackyerrors.NewBrokenChainError([]string{"a", "b"}), stackyerrors.ErrBrokenChain},
		{"cycle", stackyerrors.NewCyclicMetadataError([]string{"a", "b", "a"}), stackyerrors.ErrCyclicMetadata},
		{"conflict", stackyerrors.NewSyncConflictError("feature", "main"), stackyerrors.ErrSyncConflict},
		{"remote", stackyerrors.NewRemoteMismatchError("feature", "is not synced with remote"), stackyerrors.ErrRemoteMismatch},
		{"multiple", stackyerrors.NewMultipleOpenRequestsError("feature", []int{1, 2}), stackyerrors.ErrMultipleOpenRequests},
		{"mergeable", stackyerrors.NewNotMergeableError("feature", 3, "CONFLICTING"), stackyerrors.ErrNotMergeable},
		{"aborted", stackyerrors.NewUserAbortedError("Proceed?"), stackyerrors.ErrUserAborted},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", tc.err)
			require.ErrorIs(t, wrapped, tc.sentinel)
		})
	}
}

func TestMessages(t *testing.T) {
	t.Run("broken chain joins names", func(t *testing.T) {
		err := stackyerrors.NewBrokenChainError([]string{"feature-b", "feature-a"})
		require.Equal(t, "Broken stack: feature-b -> feature-a", err.Error())
	})

	t.Run("multiple open requests lists numbers", func(t *testing.T) {
		err := stackyerrors.NewMultipleOpenRequestsError("feature", []int{4, 7})
		require.Contains(t, err.Error(), "#4, #7")
	})

	t.Run("git command error unwraps", func(t *testing.T) {
		inner := errors.New("exit status 1")
		err := stackyerrors.NewGitCommandError("git", []string{"rebase"}, "", "boom", inner)
		require.ErrorIs(t, err, inner)
		require.Contains(t, err.Error(), "stderr: boom")
	})
}
