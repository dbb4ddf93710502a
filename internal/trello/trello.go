// Package trello is a thin client for the Trello board/list/card
// endpoints geeto uses to track work alongside the git wizard.
package trello

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.trello.com/1"

// List is a Trello list on a board.
type List struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Card is a Trello card.
type Card struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Desc   string `json:"desc"`
	URL    string `json:"shortUrl"`
	ListID string `json:"idList"`
}

// Client defines the Trello operations the commands need.
type Client interface {
	Lists(ctx context.Context, boardID string) ([]List, error)
	Cards(ctx context.Context, listID string) ([]Card, error)
	CreateCard(ctx context.Context, listID, name, desc string) (*Card, error)
	MoveCard(ctx context.Context, cardID, listID string) error
	CommentCard(ctx context.Context, cardID, text string) error
}

// RESTClient implements Client against the Trello REST API. Auth is
// the API key + token pair passed as query parameters on every call.
type RESTClient struct {
	key     string
	token   string
	baseURL string
	http    *http.Client
}

// NewClient returns a RESTClient for api.trello.com.
func NewClient(key, token string) *RESTClient {
	return &RESTClient{
		key:     key,
		token:   token,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// NewClientWithBaseURL returns a RESTClient against a custom host,
// used by tests.
func NewClientWithBaseURL(key, token, baseURL string) *RESTClient {
	c := NewClient(key, token)
	c.baseURL = baseURL
	return c
}

func (c *RESTClient) do(ctx context.Context, method, path string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("key", c.key)
	params.Set("token", c.token)

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("trello %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("trello %s %s: status %d: %s", method, path, resp.StatusCode, snippet(data))
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("trello %s %s: parse response: %w", method, path, err)
		}
	}
	return nil
}

func (c *RESTClient) Lists(ctx context.Context, boardID string) ([]List, error) {
	var lists []List
	if err := c.do(ctx, http.MethodGet, "/boards/"+boardID+"/lists", nil, &lists); err != nil {
		return nil, err
	}
	return lists, nil
}

func (c *RESTClient) Cards(ctx context.Context, listID string) ([]Card, error) {
	var cards []Card
	if err := c.do(ctx, http.MethodGet, "/lists/"+listID+"/cards", nil, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

func (c *RESTClient) CreateCard(ctx context.Context, listID, name, desc string) (*Card, error) {
	params := url.Values{}
	params.Set("idList", listID)
	params.Set("name", name)
	if desc != "" {
		params.Set("desc", desc)
	}
	var card Card
	if err := c.do(ctx, http.MethodPost, "/cards", params, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

func (c *RESTClient) MoveCard(ctx context.Context, cardID, listID string) error {
	params := url.Values{}
	params.Set("idList", listID)
	return c.do(ctx, http.MethodPut, "/cards/"+cardID, params, nil)
}

func (c *RESTClient) CommentCard(ctx context.Context, cardID, text string) error {
	params := url.Values{}
	params.Set("text", text)
	return c.do(ctx, http.MethodPost, "/cards/"+cardID+"/actions/comments", params, nil)
}

// FindList returns the first list whose name matches name
// case-insensitively, or nil.
func FindList(lists []List, name string) *List {
	for i := range lists {
		if strings.EqualFold(lists[i].Name, name) {
			return &lists[i]
		}
	}
	return nil
}

func snippet(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
