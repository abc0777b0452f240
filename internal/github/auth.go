package github

import (
	"context"
	"fmt"
	"os"
	"strings"

	"stacky.dev/stacky/internal/git"
)

// RepoInfo identifies a GitHub repository.
type RepoInfo struct {
	Hostname string
	Owner    string
	Repo     string
}

// FullName returns "owner/repo".
func (r RepoInfo) FullName() string {
	return r.Owner + "/" + r.Repo
}

// ConfigReader reads git configuration values, returning "" when unset.
type ConfigReader interface {
	GetConfig(key string) (string, error)
}

// ResolveRepository determines the repository pull requests live in.
// A `gh repo set-default` choice (remote.<r>.gh-resolved = owner/repo) wins
// over the remote URL, which matters when working from a fork.
func ResolveRepository(cfg ConfigReader, remote string) (RepoInfo, error) {
	remoteURL, err := cfg.GetConfig(fmt.Sprintf("remote.%s.url", remote))
	if err != nil {
		return RepoInfo{}, err
	}
	if remoteURL == "" {
		return RepoInfo{}, fmt.Errorf("remote %q has no url", remote)
	}
	info, err := git.ParseRemoteURL(remoteURL)
	if err != nil {
		return RepoInfo{}, err
	}
	repo := RepoInfo{Hostname: info.Hostname, Owner: info.Owner, Repo: info.Repo}

	resolved, err := cfg.GetConfig(fmt.Sprintf("remote.%s.gh-resolved", remote))
	if err != nil {
		return RepoInfo{}, err
	}
	if owner, name, ok := strings.Cut(resolved, "/"); ok && owner != "" && name != "" {
		repo.Owner = owner
		repo.Repo = name
	}
	return repo, nil
}

// ForkHeadPrefix returns "<owner>:" when the remote is a fork of the
// resolved repository, and "" otherwise.
func ForkHeadPrefix(cfg ConfigReader, remote string) (string, error) {
	resolved, err := cfg.GetConfig(fmt.Sprintf("remote.%s.gh-resolved", remote))
	if err != nil {
		return "", err
	}
	if !strings.Contains(resolved, "/") {
		return "", nil
	}
	remoteURL, err := cfg.GetConfig(fmt.Sprintf("remote.%s.url", remote))
	if err != nil {
		return "", err
	}
	info, err := git.ParseRemoteURL(remoteURL)
	if err != nil {
		return "", err
	}
	return info.Owner + ":", nil
}

// TokenSource runs `gh` subcommands; satisfied by git.CommandRunner.
type TokenSource interface {
	RunGH(ctx context.Context, args ...string) (string, error)
}

// GetToken gets a GitHub token from the environment or the gh CLI.
func GetToken(ctx context.Context, gh TokenSource, hostname string) (string, error) {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token, nil
	}

	args := []string{"auth", "token"}
	if hostname != "" && hostname != "github.com" {
		args = append(args, "--hostname", hostname)
	}
	output, err := gh.RunGH(ctx, args...)
	if err != nil {
		return "", fmt.Errorf("not logged in to GitHub, run `gh auth login` or set GITHUB_TOKEN: %w", err)
	}

	token := strings.TrimSpace(output)
	if token == "" {
		return "", fmt.Errorf("empty GitHub token")
	}
	return token, nil
}

// NewClientForRemote resolves the repository behind remote and returns an
// authenticated client for it.
func NewClientForRemote(ctx context.Context, cfg ConfigReader, gh TokenSource, remote string) (*RESTClient, error) {
	repo, err := ResolveRepository(cfg, remote)
	if err != nil {
		return nil, fmt.Errorf("failed to determine GitHub repository: %w", err)
	}
	token, err := GetToken(ctx, gh, repo.Hostname)
	if err != nil {
		return nil, err
	}
	return NewRESTClient(ctx, repo, token)
}
