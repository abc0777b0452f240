package testhelpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-github/v62/github"

	githubpkg "stacky.dev/stacky/internal/github"
)

// MockGitHubServerConfig configures the behavior of a mock GitHub server
// and records what the client sent to it.
type MockGitHubServerConfig struct {
	mu sync.Mutex

	Owner string
	Repo  string

	// PRs backs the GraphQL pull request list query.
	PRs []githubpkg.PullRequestInfo
	// RawListResponse, when set, is returned verbatim for list queries.
	RawListResponse string
	// GraphQLErrors are returned in the "errors" field of every GraphQL response.
	GraphQLErrors []string

	// CreatedPRs stores PRs that were created
	CreatedPRs []*github.NewPullRequest
	// ReviewRequests maps PR numbers to requested reviewers
	ReviewRequests map[int]github.ReviewersRequest
	// BaseEdits maps PR numbers to their new base
	BaseEdits map[int]string
	// Merges maps PR numbers to the expected head SHA sent with the merge
	Merges map[int]string
	// MergeMethods maps PR numbers to the merge method used
	MergeMethods map[int]string
	// AutoMerges lists node IDs auto-merge was enabled for
	AutoMerges []string
}

// NewMockGitHubServerConfig creates a new mock server config with defaults
func NewMockGitHubServerConfig() *MockGitHubServerConfig {
	return &MockGitHubServerConfig{
		Owner:          "owner",
		Repo:           "repo",
		ReviewRequests: make(map[int]github.ReviewersRequest),
		BaseEdits:      make(map[int]string),
		Merges:         make(map[int]string),
		MergeMethods:   make(map[int]string),
	}
}

// NewMockGitHubServer creates an httptest server that mocks the GitHub API
// endpoints stacky uses.
func NewMockGitHubServer(t *testing.T, config *MockGitHubServerConfig) *httptest.Server {
	if config == nil {
		config = NewMockGitHubServerConfig()
	}
	base := "/repos/" + config.Owner + "/" + config.Repo + "/pulls"

	mux := http.NewServeMux()
	mux.HandleFunc("POST "+base, config.handleCreate)
	mux.HandleFunc("PATCH "+base+"/{number}", config.handleEdit)
	mux.HandleFunc("POST "+base+"/{number}/requested_reviewers", config.handleReviewers)
	mux.HandleFunc("PUT "+base+"/{number}/merge", config.handleMerge)
	mux.HandleFunc("POST /graphql", config.handleGraphQL)

	server := httptest.NewServer(mux)
	t.Cleanup(func() { server.Close() })
	return server
}

// NewMockGitHubClient creates a GitHub client configured to use a mock server
func NewMockGitHubClient(t *testing.T, config *MockGitHubServerConfig) *githubpkg.RESTClient {
	if config == nil {
		config = NewMockGitHubServerConfig()
	}
	server := NewMockGitHubServer(t, config)
	client, err := githubpkg.NewRESTClientForServer(server.Client(), server.URL, config.Owner, config.Repo)
	if err != nil {
		t.Fatalf("failed to create mock client: %v", err)
	}
	return client
}

func (c *MockGitHubServerConfig) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req github.NewPullRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	c.mu.Lock()
	c.CreatedPRs = append(c.CreatedPRs, &req)
	number := len(c.PRs) + len(c.CreatedPRs)
	c.mu.Unlock()

	head := req.GetHead()
	if _, after, ok := strings.Cut(head, ":"); ok {
		head = after
	}
	writeJSON(w, http.StatusCreated, &github.PullRequest{
		Number:  github.Int(number),
		NodeID:  github.String(fmt.Sprintf("PR_%d", number)),
		State:   github.String("open"),
		Title:   req.Title,
		Body:    req.Body,
		HTMLURL: github.String(fmt.Sprintf("https://github.com/%s/%s/pull/%d", c.Owner, c.Repo, number)),
		Head:    &github.PullRequestBranch{Ref: github.String(head)},
		Base:    &github.PullRequestBranch{Ref: req.Base},
	})
}

func (c *MockGitHubServerConfig) handleEdit(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(r.PathValue("number"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	// The API sends simple fields like {"base": "branch-name"}
	var update struct {
		Base *string `json:"base,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	c.mu.Lock()
	if update.Base != nil {
		c.BaseEdits[number] = *update.Base
	}
	c.mu.Unlock()
	writeJSON(w, http.StatusOK, &github.PullRequest{
		Number: github.Int(number),
		Base:   &github.PullRequestBranch{Ref: update.Base},
	})
}

func (c *MockGitHubServerConfig) handleReviewers(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(r.PathValue("number"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var req github.ReviewersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	c.mu.Lock()
	c.ReviewRequests[number] = req
	c.mu.Unlock()
	writeJSON(w, http.StatusCreated, &github.PullRequest{Number: github.Int(number)})
}

func (c *MockGitHubServerConfig) handleMerge(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(r.PathValue("number"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var req struct {
		SHA         string `json:"sha"`
		MergeMethod string `json:"merge_method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	c.mu.Lock()
	c.Merges[number] = req.SHA
	c.MergeMethods[number] = req.MergeMethod
	c.mu.Unlock()
	writeJSON(w, http.StatusOK, &github.PullRequestMergeResult{
		Merged: github.Bool(true),
		SHA:    github.String(req.SHA),
	})
}

func (c *MockGitHubServerConfig) handleGraphQL(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query     string                 `json:"query"`
		Variables map[string]interface{} `json:"variables"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	errs := make([]map[string]string, 0, len(c.GraphQLErrors))
	for _, msg := range c.GraphQLErrors {
		errs = append(errs, map[string]string{"message": msg})
	}

	if strings.Contains(req.Query, "enablePullRequestAutoMerge") {
		id, _ := req.Variables["pullRequestId"].(string)
		if len(errs) == 0 {
			c.AutoMerges = append(c.AutoMerges, id)
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"data": map[string]interface{}{}, "errors": errs})
		return
	}

	if c.RawListResponse != "" {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(c.RawListResponse))
		return
	}

	head, _ := req.Variables["head"].(string)
	withCommits, _ := req.Variables["withCommits"].(bool)
	var states []string
	if raw, ok := req.Variables["states"].([]interface{}); ok {
		for _, s := range raw {
			if str, ok := s.(string); ok {
				states = append(states, str)
			}
		}
	}

	nodes := []map[string]interface{}{}
	for _, pr := range c.PRs {
		if pr.HeadRefName != head || (len(states) > 0 && !slices.Contains(states, pr.State)) {
			continue
		}
		node := map[string]interface{}{
			"id":          pr.ID,
			"number":      pr.Number,
			"state":       pr.State,
			"mergeable":   pr.Mergeable,
			"url":         pr.URL,
			"title":       pr.Title,
			"baseRefName": pr.BaseRefName,
			"headRefName": pr.HeadRefName,
		}
		if withCommits {
			commits := []map[string]interface{}{}
			for _, commit := range pr.Commits {
				commits = append(commits, map[string]interface{}{"commit": map[string]string{"oid": commit.OID}})
			}
			node["commits"] = map[string]interface{}{"nodes": commits}
		}
		nodes = append(nodes, node)
	}
	resp := map[string]interface{}{
		"data": map[string]interface{}{
			"repository": map[string]interface{}{
				"pullRequests": map[string]interface{}{"nodes": nodes},
			},
		},
	}
	if len(errs) > 0 {
		resp["errors"] = errs
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
