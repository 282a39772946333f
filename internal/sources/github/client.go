// Package github adapts GitHub repository issues into canonical tasks.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tasksync/tasksync/internal/models"
	"github.com/tasksync/tasksync/internal/sources"
	"golang.org/x/oauth2"
)

const (
	defaultBaseURL = "https://api.github.com"
	perPage        = 100
)

// Client fetches issues for a single repository over the REST v3 API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	repo       string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL. Used for GitHub Enterprise and tests.
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

// NewClient creates a client for the given "owner/name" repository,
// authenticating every request with the static token.
func NewClient(token, repo string, opts ...Option) *Client {
	c := &Client{
		httpClient: oauth2.NewClient(context.Background(),
			oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})),
		baseURL: defaultBaseURL,
		repo:    repo,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name identifies this adapter in source maps and sync status.
func (c *Client) Name() string {
	return sources.GitHub
}

// issue is the subset of the GitHub issue payload this adapter reads.
type issue struct {
	Number  int    `json:"number"`
	Title   string `json:"title"`
	Body    string `json:"body"`
	State   string `json:"state"`
	HTMLURL string `json:"html_url"`
	Labels  []struct {
		Name string `json:"name"`
	} `json:"labels"`
	Assignee *struct {
		Login string `json:"login"`
	} `json:"assignee"`
	Milestone *struct {
		DueOn *time.Time `json:"due_on"`
	} `json:"milestone"`
	PullRequest *struct{}  `json:"pull_request"`
	CreatedAt   *time.Time `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// FetchTasks pages through every issue in the repository (open and closed),
// skipping pull requests, and returns them as canonical tasks.
func (c *Client) FetchTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task

	for page := 1; ; page++ {
		issues, err := c.listIssues(ctx, page)
		if err != nil {
			return nil, err
		}
		for _, is := range issues {
			if is.PullRequest != nil {
				continue
			}
			tasks = append(tasks, c.toTask(is))
		}
		if len(issues) < perPage {
			return tasks, nil
		}
	}
}

func (c *Client) listIssues(ctx context.Context, page int) ([]issue, error) {
	q := url.Values{}
	q.Set("state", "all")
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("page", strconv.Itoa(page))

	endpoint := fmt.Sprintf("%s/repos/%s/issues?%s", c.baseURL, c.repo, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build issues request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch issues for %s: %w", c.repo, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github API returned %d for %s", resp.StatusCode, c.repo)
	}

	var issues []issue
	if err := json.NewDecoder(resp.Body).Decode(&issues); err != nil {
		return nil, fmt.Errorf("decode issues response: %w", err)
	}
	return issues, nil
}

func (c *Client) toTask(is issue) models.Task {
	labels := make([]string, 0, len(is.Labels))
	for _, l := range is.Labels {
		labels = append(labels, l.Name)
	}

	// State derives open/closed first; an "in progress" label overrides it,
	// so a closed issue labeled in-progress reports as in_progress.
	status := models.TaskStatusOpen
	if is.State == "closed" {
		status = models.TaskStatusClosed
	}
	for _, l := range labels {
		switch strings.ToLower(l) {
		case "in progress", "in-progress":
			status = models.TaskStatusInProgress
		}
	}

	var dueDate *time.Time
	if is.Milestone != nil && is.Milestone.DueOn != nil {
		dueDate = is.Milestone.DueOn
	}

	var assignee string
	if is.Assignee != nil {
		assignee = is.Assignee.Login
	}

	number := strconv.Itoa(is.Number)
	return models.Task{
		ID:          "gh-" + number,
		Title:       is.Title,
		Description: is.Body,
		Sources:     []string{sources.GitHub},
		SourceIDs:   map[string]string{sources.GitHub: number},
		Labels:      labels,
		DueDate:     dueDate,
		Assignee:    assignee,
		Status:      status,
		URLs:        map[string]string{sources.GitHub: is.HTMLURL},
		CreatedAt:   is.CreatedAt,
		UpdatedAt:   is.UpdatedAt,
	}
}

// Ping verifies the repository is reachable with the configured token.
// Used by the extended health check.
func (c *Client) Ping(ctx context.Context) error {
	endpoint := fmt.Sprintf("%s/repos/%s", c.baseURL, c.repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build ping request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ping github: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("github API returned %d for %s", resp.StatusCode, c.repo)
	}
	return nil
}
