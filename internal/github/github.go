// Package github is a thin client for the handful of GitHub REST
// endpoints geeto touches: pull requests, issues and labels.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.github.com"

// PullRequest is a GitHub pull request.
type PullRequest struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	State  string `json:"state"`
	URL    string `json:"html_url"`
	Head   struct {
		Ref string `json:"ref"`
	} `json:"head"`
	Base struct {
		Ref string `json:"ref"`
	} `json:"base"`
}

// Issue is a GitHub issue.
type Issue struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	State  string `json:"state"`
	URL    string `json:"html_url"`
}

// Label is a GitHub label.
type Label struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Client defines the GitHub operations the commands need.
type Client interface {
	CreatePull(ctx context.Context, owner, repo, title, head, base, body string) (*PullRequest, error)
	ListPulls(ctx context.Context, owner, repo string) ([]PullRequest, error)
	CreateIssue(ctx context.Context, owner, repo, title, body string) (*Issue, error)
	ListLabels(ctx context.Context, owner, repo string) ([]Label, error)
}

// RESTClient implements Client against the GitHub REST API with
// bearer-token auth.
type RESTClient struct {
	token   string
	baseURL string
	http    *http.Client
}

// NewClient returns a RESTClient for api.github.com.
func NewClient(token string) *RESTClient {
	return &RESTClient{
		token:   token,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// NewClientWithBaseURL returns a RESTClient against a custom host,
// used by tests.
func NewClientWithBaseURL(token, baseURL string) *RESTClient {
	c := NewClient(token)
	c.baseURL = baseURL
	return c
}

func (c *RESTClient) do(ctx context.Context, method, path string, reqBody, out any) error {
	var body io.Reader
	if reqBody != nil {
		payload, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("github %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("github %s %s: status %d: %s", method, path, resp.StatusCode, snippet(data))
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("github %s %s: parse response: %w", method, path, err)
		}
	}
	return nil
}

func (c *RESTClient) CreatePull(ctx context.Context, owner, repo, title, head, base, body string) (*PullRequest, error) {
	req := map[string]string{
		"title": title,
		"head":  head,
		"base":  base,
		"body":  body,
	}
	var pr PullRequest
	path := fmt.Sprintf("/repos/%s/%s/pulls", owner, repo)
	if err := c.do(ctx, http.MethodPost, path, req, &pr); err != nil {
		return nil, err
	}
	return &pr, nil
}

func (c *RESTClient) ListPulls(ctx context.Context, owner, repo string) ([]PullRequest, error) {
	var prs []PullRequest
	path := fmt.Sprintf("/repos/%s/%s/pulls?state=open", owner, repo)
	if err := c.do(ctx, http.MethodGet, path, nil, &prs); err != nil {
		return nil, err
	}
	return prs, nil
}

func (c *RESTClient) CreateIssue(ctx context.Context, owner, repo, title, body string) (*Issue, error) {
	req := map[string]string{
		"title": title,
		"body":  body,
	}
	var issue Issue
	path := fmt.Sprintf("/repos/%s/%s/issues", owner, repo)
	if err := c.do(ctx, http.MethodPost, path, req, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

func (c *RESTClient) ListLabels(ctx context.Context, owner, repo string) ([]Label, error) {
	var labels []Label
	path := fmt.Sprintf("/repos/%s/%s/labels", owner, repo)
	if err := c.do(ctx, http.MethodGet, path, nil, &labels); err != nil {
		return nil, err
	}
	return labels, nil
}

func snippet(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
