// Package notion adapts rows of a Notion database into canonical tasks.
//
// Notion database schemas are user-configurable, so every field is extracted
// defensively: each canonical field is looked up under an ordered list of
// candidate property names and accepted only when the property carries the
// expected type.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tasksync/tasksync/internal/models"
	"github.com/tasksync/tasksync/internal/sources"
	"github.com/tidwall/gjson"
)

const (
	defaultBaseURL = "https://api.notion.com"
	notionVersion  = "2022-06-28"
)

// Client queries a single Notion database.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	databaseID string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a client for the given database.
func NewClient(token, databaseID string, opts ...Option) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		baseURL:    defaultBaseURL,
		token:      token,
		databaseID: databaseID,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name identifies this adapter in source maps and sync status.
func (c *Client) Name() string {
	return sources.Notion
}

// FetchTasks pages through the whole database, following the continuation
// cursor until the API reports no more pages. Rows without a usable title
// are dropped silently.
func (c *Client) FetchTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	cursor := ""

	for {
		body, err := c.queryDatabase(ctx, cursor)
		if err != nil {
			return nil, err
		}

		body.Get("results").ForEach(func(_, page gjson.Result) bool {
			if task, ok := parsePage(page); ok {
				tasks = append(tasks, task)
			}
			return true
		})

		if !body.Get("has_more").Bool() {
			return tasks, nil
		}
		cursor = body.Get("next_cursor").String()
	}
}

func (c *Client) queryDatabase(ctx context.Context, cursor string) (gjson.Result, error) {
	payload := map[string]string{}
	if cursor != "" {
		payload["start_cursor"] = cursor
	}
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("encode query payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/databases/%s/query", c.baseURL, c.databaseID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return gjson.Result{}, fmt.Errorf("build query request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", notionVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("query notion database %s: %w", c.databaseID, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("read query response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return gjson.Result{}, fmt.Errorf("notion API returned %d for database %s", resp.StatusCode, c.databaseID)
	}
	return gjson.ParseBytes(raw), nil
}
