package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"
)

// listPullRequestsQuery fetches pull requests by head branch name.
const listPullRequestsQuery = `query ListPullRequests($owner: String!, $repo: String!, $head: String!, $states: [PullRequestState!], $withCommits: Boolean!) {
	repository(owner: $owner, name: $repo) {
		pullRequests(headRefName: $head, states: $states, first: 100) {
			nodes {
				id
				number
				state
				mergeable
				url
				title
				baseRefName
				headRefName
				commits(first: 100) @include(if: $withCommits) {
					nodes { commit { oid } }
				}
			}
		}
	}
}`

const enableAutoMergeMutation = `mutation EnableAutoMerge($pullRequestId: ID!, $expectedHeadOid: GitObjectID) {
	enablePullRequestAutoMerge(input: {pullRequestId: $pullRequestId, mergeMethod: SQUASH, expectedHeadOid: $expectedHeadOid}) {
		pullRequest { id }
	}
}`

// RESTClient implements Client using go-github for REST calls and a plain
// authenticated HTTP client for GraphQL queries.
type RESTClient struct {
	client     *github.Client
	httpClient *http.Client
	graphqlURL string
	owner      string
	repo       string
}

var _ Client = (*RESTClient)(nil)

// NewRESTClient creates a client for owner/repo on hostname authenticated with token.
// Supports both github.com and GitHub Enterprise instances.
func NewRESTClient(ctx context.Context, repo RepoInfo, token string) (*RESTClient, error) {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	client := github.NewClient(tc)

	graphqlURL := "https://api.github.com/graphql"
	if repo.Hostname != "" && repo.Hostname != "github.com" {
		// GitHub Enterprise API endpoints
		// REST API: https://hostname/api/v3/
		// Upload API: https://hostname/api/uploads/
		baseURL, err := url.Parse(fmt.Sprintf("https://%s/api/v3/", repo.Hostname))
		if err != nil {
			return nil, fmt.Errorf("failed to parse base URL for hostname %s: %w", repo.Hostname, err)
		}
		uploadURL, err := url.Parse(fmt.Sprintf("https://%s/api/uploads/", repo.Hostname))
		if err != nil {
			return nil, fmt.Errorf("failed to parse upload URL for hostname %s: %w", repo.Hostname, err)
		}
		client.BaseURL = baseURL
		client.UploadURL = uploadURL
		graphqlURL = fmt.Sprintf("https://%s/api/graphql", repo.Hostname)
	}

	return &RESTClient{
		client:     client,
		httpClient: tc,
		graphqlURL: graphqlURL,
		owner:      repo.Owner,
		repo:       repo.Repo,
	}, nil
}

// NewRESTClientForServer creates a client pointed at an arbitrary API root.
// The GraphQL endpoint is expected at <baseURL>/graphql.
func NewRESTClientForServer(httpClient *http.Client, baseURL, owner, repo string) (*RESTClient, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	base, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL %s: %w", baseURL, err)
	}
	client := github.NewClient(httpClient)
	client.BaseURL = base
	client.UploadURL = base
	return &RESTClient{
		client:     client,
		httpClient: httpClient,
		graphqlURL: base.String() + "graphql",
		owner:      owner,
		repo:       repo,
	}, nil
}

// GetOwnerRepo returns the repository owner and name
func (c *RESTClient) GetOwnerRepo() (string, string) {
	return c.owner, c.repo
}

// ListPullRequests returns the pull requests whose head branch is head.
func (c *RESTClient) ListPullRequests(ctx context.Context, head string, opts ListOptions) ([]PullRequestInfo, error) {
	states := []string{StateOpen}
	if opts.IncludeClosed {
		states = []string{StateOpen, StateClosed, StateMerged}
	}
	body, err := c.graphql(ctx, listPullRequestsQuery, map[string]interface{}{
		"owner":       c.owner,
		"repo":        c.repo,
		"head":        head,
		"states":      states,
		"withCommits": opts.WithCommits,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list pull requests for %s: %w", head, err)
	}
	return DecodePullRequestList(body)
}

// CreatePullRequest creates a new pull request and requests reviewers.
func (c *RESTClient) CreatePullRequest(ctx context.Context, opts CreatePROptions) (*PullRequestInfo, error) {
	pr := &github.NewPullRequest{
		Title: github.String(opts.Title),
		Head:  github.String(opts.Head),
		Base:  github.String(opts.Base),
	}
	if opts.Body != "" {
		pr.Body = github.String(opts.Body)
	}

	created, _, err := c.client.PullRequests.Create(ctx, c.owner, c.repo, pr)
	if err != nil {
		return nil, fmt.Errorf("failed to create pull request: %w", err)
	}

	if len(opts.Reviewers) > 0 {
		users, teams := SplitReviewers(opts.Reviewers)
		_, _, err = c.client.PullRequests.RequestReviewers(ctx, c.owner, c.repo, created.GetNumber(), github.ReviewersRequest{
			Reviewers:     users,
			TeamReviewers: teams,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to request reviewers on #%d: %w", created.GetNumber(), err)
		}
	}

	return fromREST(created), nil
}

// EditPullRequestBase changes the base branch of a pull request.
func (c *RESTClient) EditPullRequestBase(ctx context.Context, number int, base string) error {
	update := &github.PullRequest{
		Base: &github.PullRequestBranch{Ref: github.String(base)},
	}
	if _, _, err := c.client.PullRequests.Edit(ctx, c.owner, c.repo, number, update); err != nil {
		return fmt.Errorf("failed to update base of #%d: %w", number, err)
	}
	return nil
}

// MergePullRequest squash-merges a pull request, or enables auto-merge.
func (c *RESTClient) MergePullRequest(ctx context.Context, opts MergeOptions) error {
	if opts.Auto {
		if opts.ID == "" {
			return fmt.Errorf("pull request #%d has no node ID", opts.Number)
		}
		vars := map[string]interface{}{"pullRequestId": opts.ID}
		if opts.MatchHeadCommit != "" {
			vars["expectedHeadOid"] = opts.MatchHeadCommit
		}
		body, err := c.graphql(ctx, enableAutoMergeMutation, vars)
		if err != nil {
			return fmt.Errorf("failed to enable auto-merge on #%d: %w", opts.Number, err)
		}
		var resp struct {
			Errors []graphqlError `json:"errors"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return fmt.Errorf("failed to parse GraphQL response: %w", err)
		}
		return joinGraphQLErrors(resp.Errors)
	}

	_, _, err := c.client.PullRequests.Merge(ctx, c.owner, c.repo, opts.Number, "", &github.PullRequestOptions{
		MergeMethod: "squash",
		SHA:         opts.MatchHeadCommit,
	})
	if err != nil {
		return fmt.Errorf("failed to merge pull request #%d: %w", opts.Number, err)
	}
	return nil
}

func (c *RESTClient) graphql(ctx context.Context, query string, variables map[string]interface{}) ([]byte, error) {
	jsonData, err := json.Marshal(map[string]interface{}{
		"query":     query,
		"variables": variables,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal GraphQL request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphqlURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create GraphQL request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute GraphQL request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read GraphQL response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GraphQL request failed with status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// SplitReviewers separates user logins from "org/team" slugs.
func SplitReviewers(reviewers []string) (users, teams []string) {
	for _, r := range reviewers {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if _, team, ok := strings.Cut(r, "/"); ok {
			teams = append(teams, team)
		} else {
			users = append(users, r)
		}
	}
	return users, teams
}

func fromREST(pr *github.PullRequest) *PullRequestInfo {
	return &PullRequestInfo{
		ID:          pr.GetNodeID(),
		Number:      pr.GetNumber(),
		State:       strings.ToUpper(pr.GetState()),
		URL:         pr.GetHTMLURL(),
		Title:       pr.GetTitle(),
		BaseRefName: pr.GetBase().GetRef(),
		HeadRefName: pr.GetHead().GetRef(),
	}
}
