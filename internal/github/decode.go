package github

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeError reports a pull request payload missing a required field.
type DecodeError struct {
	Index int
	Field string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid pull request data: item %d is missing %q", e.Index, e.Field)
}

type rawPullRequest struct {
	ID          *string `json:"id"`
	Number      *int    `json:"number"`
	State       *string `json:"state"`
	Mergeable   *string `json:"mergeable"`
	URL         *string `json:"url"`
	Title       *string `json:"title"`
	BaseRefName *string `json:"baseRefName"`
	HeadRefName *string `json:"headRefName"`
	Commits     *struct {
		Nodes []struct {
			Commit struct {
				OID string `json:"oid"`
			} `json:"commit"`
		} `json:"nodes"`
	} `json:"commits"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type listResponse struct {
	Data *struct {
		Repository *struct {
			PullRequests *struct {
				Nodes []json.RawMessage `json:"nodes"`
			} `json:"pullRequests"`
		} `json:"repository"`
	} `json:"data"`
	Errors []graphqlError `json:"errors"`
}

// DecodePullRequestList decodes a GraphQL pullRequests response into the fixed schema.
func DecodePullRequestList(body []byte) ([]PullRequestInfo, error) {
	var resp listResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse GraphQL response: %w", err)
	}
	if err := joinGraphQLErrors(resp.Errors); err != nil {
		return nil, err
	}
	if resp.Data == nil || resp.Data.Repository == nil || resp.Data.Repository.PullRequests == nil {
		return nil, &DecodeError{Index: -1, Field: "data.repository.pullRequests"}
	}
	nodes := resp.Data.Repository.PullRequests.Nodes
	out := make([]PullRequestInfo, 0, len(nodes))
	for i, node := range nodes {
		pr, err := decodePullRequest(i, node)
		if err != nil {
			return nil, err
		}
		out = append(out, pr)
	}
	return out, nil
}

func decodePullRequest(index int, data json.RawMessage) (PullRequestInfo, error) {
	var raw rawPullRequest
	if err := json.Unmarshal(data, &raw); err != nil {
		return PullRequestInfo{}, fmt.Errorf("failed to parse pull request %d: %w", index, err)
	}
	required := []struct {
		name string
		ok   bool
	}{
		{"id", raw.ID != nil},
		{"number", raw.Number != nil},
		{"state", raw.State != nil},
		{"url", raw.URL != nil},
		{"baseRefName", raw.BaseRefName != nil},
		{"headRefName", raw.HeadRefName != nil},
	}
	for _, field := range required {
		if !field.ok {
			return PullRequestInfo{}, &DecodeError{Index: index, Field: field.name}
		}
	}
	pr := PullRequestInfo{
		ID:          *raw.ID,
		Number:      *raw.Number,
		State:       *raw.State,
		URL:         *raw.URL,
		BaseRefName: *raw.BaseRefName,
		HeadRefName: *raw.HeadRefName,
	}
	if raw.Mergeable != nil {
		pr.Mergeable = *raw.Mergeable
	}
	if raw.Title != nil {
		pr.Title = *raw.Title
	}
	if raw.Commits != nil {
		for _, node := range raw.Commits.Nodes {
			pr.Commits = append(pr.Commits, PullRequestCommit{OID: node.Commit.OID})
		}
	}
	return pr, nil
}

func joinGraphQLErrors(errs []graphqlError) error {
	if len(errs) == 0 {
		return nil
	}
	messages := make([]string, len(errs))
	for i, e := range errs {
		messages[i] = e.Message
	}
	return fmt.Errorf("GraphQL request failed: %s", strings.Join(messages, "; "))
}
