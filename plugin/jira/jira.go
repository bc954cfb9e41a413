// Package jira is a thin REST collaborator for Atlassian Jira. It covers
// the three operations the tool router can decide on: fetch one issue,
// run a JQL search, and create an issue.
package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/shahidain/mcp-server/profile"
)

const requestTimeout = 30 * time.Second

type Client struct {
	baseURL    string
	username   string
	token      string
	projectKey string
	browseURL  string
	http       *http.Client
}

func NewClient(p profile.Profile) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(p.JiraAPIURL, "/") + "/",
		username:   p.JiraUsername,
		token:      p.JiraAPIToken,
		projectKey: p.JiraProjectKey,
		browseURL:  strings.TrimSuffix(p.JiraBrowseURL, "/"),
		http:       &http.Client{Timeout: requestTimeout},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, errors.Wrap(err, "build jira request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.username != "" && c.token != "" {
		req.SetBasicAuth(c.username, c.token)
	}
	return req, nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "jira request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read jira response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.Errorf("jira api returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}

// Issue fetches a single issue by key or numeric id. The raw issue document
// is returned so the renderer can decide which fields matter.
func (c *Client) Issue(ctx context.Context, key string) (json.RawMessage, error) {
	if key == "" {
		return nil, errors.New("issue key is required")
	}
	req, err := c.newRequest(ctx, http.MethodGet, "issue/"+url.PathEscape(key), nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

// Search runs a JQL query and flattens the hits into renderable rows.
func (c *Client) Search(ctx context.Context, jql string) ([]IssueSummary, error) {
	if jql == "" {
		return nil, errors.New("jql query is required")
	}
	req, err := c.newRequest(ctx, http.MethodGet, "search?jql="+url.QueryEscape(jql), nil)
	if err != nil {
		return nil, err
	}
	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var result searchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, errors.Wrap(err, "decode jira search response")
	}
	return flatten(result), nil
}

// CreateIssueInput is the minimal field set for creating an issue. Project
// falls back to the configured project key when empty.
type CreateIssueInput struct {
	Project     string
	Summary     string
	IssueType   string
	Description string
}

// CreatedIssue is the identifying slice of a create response.
type CreatedIssue struct {
	ID  string `json:"id"`
	Key string `json:"key"`
}

func (c *Client) Create(ctx context.Context, in CreateIssueInput) (*CreatedIssue, error) {
	if in.Summary == "" {
		return nil, errors.New("issue summary is required")
	}
	if in.Project == "" {
		in.Project = c.projectKey
	}
	if in.IssueType == "" {
		in.IssueType = "Task"
	}

	payload := map[string]any{
		"fields": map[string]any{
			"project":   map[string]string{"key": in.Project},
			"summary":   in.Summary,
			"issuetype": map[string]string{"name": in.IssueType},
		},
	}
	if in.Description != "" {
		payload["fields"].(map[string]any)["description"] = in.Description
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "encode jira create payload")
	}

	req, err := c.newRequest(ctx, http.MethodPost, "issue", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	respBody, err := c.do(req)
	if err != nil {
		return nil, err
	}

	created := &CreatedIssue{}
	if err := json.Unmarshal(respBody, created); err != nil {
		return nil, errors.Wrap(err, "decode jira create response")
	}
	return created, nil
}

// BrowseURL returns the user-facing link for an issue key.
func (c *Client) BrowseURL(key string) string {
	if c.browseURL == "" {
		return key
	}
	return fmt.Sprintf("%s/browse/%s", c.browseURL, key)
}
