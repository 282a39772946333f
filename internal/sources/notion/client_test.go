package notion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchTasks_FollowsCursor(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/databases/db-123/query" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Notion-Version"); got == "" {
			t.Error("missing Notion-Version header")
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}

		var payload map[string]string
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request payload: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		if payload["start_cursor"] == "" {
			fmt.Fprint(w, `{
				"results": [`+pageJSON("page-1", "First task")+`],
				"has_more": true,
				"next_cursor": "cursor-2"
			}`)
			return
		}
		if payload["start_cursor"] != "cursor-2" {
			t.Errorf("start_cursor = %q, want cursor-2", payload["start_cursor"])
		}
		fmt.Fprint(w, `{
			"results": [`+pageJSON("page-2", "Second task")+`],
			"has_more": false,
			"next_cursor": null
		}`)
	}))
	defer srv.Close()

	client := NewClient("secret", "db-123",
		WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))

	tasks, err := client.FetchTasks(context.Background())
	if err != nil {
		t.Fatalf("FetchTasks() error = %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("got %d tasks, want 2", len(tasks))
	}
	if tasks[0].ID != "notion-page-1" || tasks[1].ID != "notion-page-2" {
		t.Errorf("IDs = %q, %q", tasks[0].ID, tasks[1].ID)
	}
	if tasks[0].Title != "First task" {
		t.Errorf("Title = %q", tasks[0].Title)
	}
	if got := tasks[0].SourceIDs["notion"]; got != "page-1" {
		t.Errorf("SourceIDs[notion] = %q", got)
	}
}

func TestFetchTasks_DropsUntitledRows(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// Second row has a title property with zero text runs and must be
		// dropped even though other fields are populated.
		fmt.Fprint(w, `{
			"results": [
				`+pageJSON("page-1", "Keep me")+`,
				{
					"id": "page-2",
					"url": "https://notion.so/page-2",
					"created_time": "2025-06-01T10:00:00Z",
					"last_edited_time": "2025-06-02T10:00:00Z",
					"properties": {
						"Name": {"type": "title", "title": []},
						"Status": {"type": "select", "select": {"name": "In Progress"}}
					}
				}
			],
			"has_more": false
		}`)
	}))
	defer srv.Close()

	client := NewClient("secret", "db-123",
		WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))

	tasks, err := client.FetchTasks(context.Background())
	if err != nil {
		t.Fatalf("FetchTasks() error = %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("got %d tasks, want 1", len(tasks))
	}
	if tasks[0].ID != "notion-page-1" {
		t.Errorf("ID = %q, want notion-page-1", tasks[0].ID)
	}
}

func TestFetchTasks_UpstreamError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewClient("secret", "db-123",
		WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))

	if _, err := client.FetchTasks(context.Background()); err == nil {
		t.Fatal("FetchTasks() error = nil, want upstream error")
	}
}

func TestName(t *testing.T) {
	t.Parallel()

	client := NewClient("secret", "db-123")
	if got := client.Name(); got != "notion" {
		t.Errorf("Name() = %q, want notion", got)
	}
}

// pageJSON builds a minimal well-formed database row.
func pageJSON(id, title string) string {
	return fmt.Sprintf(`{
		"id": %q,
		"url": "https://notion.so/%s",
		"created_time": "2025-06-01T10:00:00Z",
		"last_edited_time": "2025-06-02T10:00:00Z",
		"properties": {
			"Name": {"type": "title", "title": [{"plain_text": %q}]}
		}
	}`, id, id, title)
}
