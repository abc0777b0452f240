// Package errors provides sentinel errors and custom error types for the stacky application.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common conditions
var (
	// ErrConfiguration indicates that persisted branch metadata is inconsistent
	ErrConfiguration = errors.New("configuration error")

	// ErrBrokenChain indicates that a branch cannot be walked back to a bottom branch
	ErrBrokenChain = errors.New("broken stack")

	// ErrCyclicMetadata indicates that parent links loop back on themselves
	ErrCyclicMetadata = errors.New("cyclic stack metadata")

	// ErrSyncConflict indicates that a rebase stopped on a conflict
	ErrSyncConflict = errors.New("sync conflict")

	// ErrRemoteMismatch indicates that a branch is not in the expected state relative to its remote
	ErrRemoteMismatch = errors.New("remote mismatch")

	// ErrMultipleOpenRequests indicates more than one open pull request for a single branch
	ErrMultipleOpenRequests = errors.New("multiple open pull requests")

	// ErrNotMergeable indicates that a pull request cannot be landed
	ErrNotMergeable = errors.New("pull request not mergeable")

	// ErrUserAborted indicates that the user declined a confirmation
	ErrUserAborted = errors.New("aborted by user")

	// ErrNoSyncInProgress indicates that there is no saved sync to continue
	ErrNoSyncInProgress = errors.New("no sync in progress")

	// ErrNotOnBranch indicates that HEAD is not on a branch
	ErrNotOnBranch = errors.New("not on a branch")
)

// ConfigurationError reports a branch whose stored metadata does not match expectations
type ConfigurationError struct {
	Branch string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Branch == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Branch)
}

// Is returns true if the target error is ErrConfiguration
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// NewConfigurationError creates a new ConfigurationError
func NewConfigurationError(branch, reason string) *ConfigurationError {
	return &ConfigurationError{Branch: branch, Reason: reason}
}

// BrokenChainError carries the partial chain of a stack that does not reach a bottom branch.
// It is logged as a warning during discovery and returned as an error in strict mode.
type BrokenChainError struct {
	Chain []string
}

func (e *BrokenChainError) Error() string {
	return "Broken stack: " + strings.Join(e.Chain, " -> ")
}

// Is returns true if the target error is ErrBrokenChain
func (e *BrokenChainError) Is(target error) bool {
	return target == ErrBrokenChain
}

// NewBrokenChainError creates a new BrokenChainError
func NewBrokenChainError(chain []string) *BrokenChainError {
	return &BrokenChainError{Chain: chain}
}

// CyclicMetadataError reports a parent link that points back into its own chain
type CyclicMetadataError struct {
	Chain []string
}

func (e *CyclicMetadataError) Error() string {
	return "Cyclic stack: " + strings.Join(e.Chain, " -> ")
}

// Is returns true if the target error is ErrCyclicMetadata
func (e *CyclicMetadataError) Is(target error) bool {
	return target == ErrCyclicMetadata
}

// NewCyclicMetadataError creates a new CyclicMetadataError
func NewCyclicMetadataError(chain []string) *CyclicMetadataError {
	return &CyclicMetadataError{Chain: chain}
}

// SyncConflictError represents a rebase that stopped and needs manual resolution
type SyncConflictError struct {
	Branch string
	Parent string
}

func (e *SyncConflictError) Error() string {
	return fmt.Sprintf("rebase of %s onto %s stopped on a conflict; resolve it with git, finish the rebase, then run `stacky continue`",
		e.Branch, e.Parent)
}

// Is returns true if the target error is ErrSyncConflict
func (e *SyncConflictError) Is(target error) bool {
	return target == ErrSyncConflict
}

// NewSyncConflictError creates a new SyncConflictError
func NewSyncConflictError(branch, parent string) *SyncConflictError {
	return &SyncConflictError{Branch: branch, Parent: parent}
}

// RemoteMismatchError represents a branch that is not where it should be relative to its remote
type RemoteMismatchError struct {
	Branch string
	Reason string
}

func (e *RemoteMismatchError) Error() string {
	return fmt.Sprintf("branch %s %s", e.Branch, e.Reason)
}

// Is returns true if the target error is ErrRemoteMismatch
func (e *RemoteMismatchError) Is(target error) bool {
	return target == ErrRemoteMismatch
}

// NewRemoteMismatchError creates a new RemoteMismatchError
func NewRemoteMismatchError(branch, reason string) *RemoteMismatchError {
	return &RemoteMismatchError{Branch: branch, Reason: reason}
}

// MultipleOpenRequestsError represents more than one open pull request for the same head
type MultipleOpenRequestsError struct {
	Branch  string
	Numbers []int
}

func (e *MultipleOpenRequestsError) Error() string {
	nums := make([]string, len(e.Numbers))
	for i, n := range e.Numbers {
		nums[i] = fmt.Sprintf("#%d", n)
	}
	return fmt.Sprintf("branch %s has more than one open pull request: %s", e.Branch, strings.Join(nums, ", "))
}

// Is returns true if the target error is ErrMultipleOpenRequests
func (e *MultipleOpenRequestsError) Is(target error) bool {
	return target == ErrMultipleOpenRequests
}

// NewMultipleOpenRequestsError creates a new MultipleOpenRequestsError
func NewMultipleOpenRequestsError(branch string, numbers []int) *MultipleOpenRequestsError {
	return &MultipleOpenRequestsError{Branch: branch, Numbers: numbers}
}

// NotMergeableError represents a pull request whose mergeability blocks landing
type NotMergeableError struct {
	Branch    string
	Number    int
	Mergeable string
}

func (e *NotMergeableError) Error() string {
	return fmt.Sprintf("pull request #%d for branch %s is not mergeable (%s)", e.Number, e.Branch, e.Mergeable)
}

// Is returns true if the target error is ErrNotMergeable
func (e *NotMergeableError) Is(target error) bool {
	return target == ErrNotMergeable
}

// NewNotMergeableError creates a new NotMergeableError
func NewNotMergeableError(branch string, number int, mergeable string) *NotMergeableError {
	return &NotMergeableError{Branch: branch, Number: number, Mergeable: mergeable}
}

// UserAbortedError represents a declined confirmation prompt
type UserAbortedError struct {
	Prompt string
}

func (e *UserAbortedError) Error() string {
	if e.Prompt == "" {
		return "Aborted"
	}
	return "Aborted: " + e.Prompt
}

// Is returns true if the target error is ErrUserAborted
func (e *UserAbortedError) Is(target error) bool {
	return target == ErrUserAborted
}

// NewUserAbortedError creates a new UserAbortedError
func NewUserAbortedError(prompt string) *UserAbortedError {
	return &UserAbortedError{Prompt: prompt}
}

// GitCommandError represents an error from a git command execution
type GitCommandError struct {
	Command string
	Args    []string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *GitCommandError) Error() string {
	msg := fmt.Sprintf("%s command failed", e.Command)
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(": %s", strings.Join(e.Args, " "))
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", e.Stderr)
	}
	if e.Stdout != "" {
		msg += fmt.Sprintf("\nstdout: %s", e.Stdout)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *GitCommandError) Unwrap() error {
	return e.Err
}

// NewGitCommandError creates a new GitCommandError
func NewGitCommandError(command string, args []string, stdout, stderr string, err error) *GitCommandError {
	return &GitCommandError{
		Command: command,
		Args:    args,
		Stdout:  stdout,
		Stderr:  stderr,
		Err:     err,
	}
}
