// Package testhelpers provides testing utilities for stacky: throwaway git
// repositories, in-memory git and GitHub fakes, and custom assertions.
package testhelpers

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// ExpectBranches asserts that the repository has exactly the expected local branches.
func ExpectBranches(t *testing.T, repo *GitRepo, expected []string) {
	t.Helper()

	output := repo.Git("for-each-ref", "refs/heads/", "--format=%(refname:short)")
	branches := []string{}
	for _, b := range strings.Split(output, "\n") {
		if b = strings.TrimSpace(b); b != "" {
			branches = append(branches, b)
		}
	}

	sort.Strings(branches)
	expected = append([]string(nil), expected...)
	sort.Strings(expected)
	require.Equal(t, expected, branches, "Branches do not match")
}

// ExpectCommits asserts that the newest commits of branch have the expected
// subjects, newest first.
func ExpectCommits(t *testing.T, repo *GitRepo, branch string, expected []string) {
	t.Helper()

	output := repo.Git("log", "--format=%s", branch)
	commits := []string{}
	for _, c := range strings.Split(output, "\n") {
		if c = strings.TrimSpace(c); c != "" {
			commits = append(commits, c)
		}
	}

	if len(commits) < len(expected) {
		require.Fail(t, "Not enough commits", "Expected %d commits, got %d", len(expected), len(commits))
		return
	}
	require.Equal(t, expected, commits[:len(expected)], "Commits do not match")
}

// ExpectFakeLog asserts the subjects branch adds on top of base in a FakeGit, oldest first.
func ExpectFakeLog(t *testing.T, fake *FakeGit, base, branch string, expected []string) {
	t.Helper()
	require.Equal(t, expected, fake.Log(base, branch), "Commits of %s on %s do not match", branch, base)
}
