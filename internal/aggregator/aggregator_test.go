package aggregator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tasksync/tasksync/internal/models"
	"go.uber.org/zap"
)

// stubSource is a Source backed by a fixed task list.
type stubSource struct {
	name  string
	tasks []models.Task
	err   error
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) FetchTasks(_ context.Context) ([]models.Task, error) {
	if s.err != nil {
		return nil, s.err
	}
	// Return a copy so the aggregator's in-place rescoring never leaks back
	// into fixtures.
	out := make([]models.Task, len(s.tasks))
	copy(out, s.tasks)
	return out, nil
}

func task(id string, status models.TaskStatus) models.Task {
	return models.Task{ID: id, Title: id, Status: status}
}

func TestSync_MergesAndRanks(t *testing.T) {
	t.Parallel()

	due := time.Now().UTC().Add(-24 * time.Hour)
	github := &stubSource{name: "github", tasks: []models.Task{
		task("gh-1", models.TaskStatusClosed),
		{ID: "gh-2", Title: "overdue", Status: models.TaskStatusOpen, DueDate: &due},
	}}
	notion := &stubSource{name: "notion", tasks: []models.Task{
		task("notion-a", models.TaskStatusOpen),
	}}

	agg := New(zap.NewNop(), github, notion)

	cmp, err := agg.Sync(context.Background())
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	if len(cmp.AllTasks) != 3 {
		t.Fatalf("got %d tasks, want 3", len(cmp.AllTasks))
	}
	if cmp.AllTasks[0].ID != "gh-2" {
		t.Errorf("top task = %s, want overdue gh-2", cmp.AllTasks[0].ID)
	}
	for i := 1; i < len(cmp.AllTasks); i++ {
		if cmp.AllTasks[i-1].ImportanceScore < cmp.AllTasks[i].ImportanceScore {
			t.Errorf("tasks not sorted descending at index %d", i)
		}
	}

	if got := len(cmp.TasksBySource["github"]); got != 2 {
		t.Errorf("github group size = %d, want 2", got)
	}
	if got := len(cmp.TasksBySource["notion"]); got != 1 {
		t.Errorf("notion group size = %d, want 1", got)
	}
	if cmp.SyncStatus.TotalTasksBySource["github"] != 2 || cmp.SyncStatus.TotalTasksBySource["notion"] != 1 {
		t.Errorf("counts = %v", cmp.SyncStatus.TotalTasksBySource)
	}
	if cmp.SyncStatus.LastSync.IsZero() {
		t.Error("LastSync not set")
	}
}

func TestAllTasks_StableTieOrder(t *testing.T) {
	t.Parallel()

	// Both open, no other signals: equal scores. Tracker tasks must precede
	// notes-db tasks because the tracker is registered first.
	github := &stubSource{name: "github", tasks: []models.Task{
		task("gh-1", models.TaskStatusOpen),
		task("gh-2", models.TaskStatusOpen),
	}}
	notion := &stubSource{name: "notion", tasks: []models.Task{
		task("notion-a", models.TaskStatusOpen),
	}}

	agg := New(zap.NewNop(), github, notion)

	all, err := agg.AllTasks(context.Background())
	if err != nil {
		t.Fatalf("AllTasks() error = %v", err)
	}

	wantOrder := []string{"gh-1", "gh-2", "notion-a"}
	for i, want := range wantOrder {
		if all[i].ID != want {
			t.Errorf("position %d = %s, want %s", i, all[i].ID, want)
		}
	}
}

func TestAllTasks_RefreshesStaleScores(t *testing.T) {
	t.Parallel()

	stale := task("gh-1", models.TaskStatusDone)
	stale.ImportanceScore = 500
	github := &stubSource{name: "github", tasks: []models.Task{stale}}

	agg := New(zap.NewNop(), github)

	all, err := agg.AllTasks(context.Background())
	if err != nil {
		t.Fatalf("AllTasks() error = %v", err)
	}
	if all[0].ImportanceScore != 0 {
		t.Errorf("score = %v, want recomputed 0", all[0].ImportanceScore)
	}
}

func TestTasksBySource(t *testing.T) {
	t.Parallel()

	github := &stubSource{name: "github", tasks: []models.Task{
		task("gh-1", models.TaskStatusOpen),
	}}
	agg := New(zap.NewNop(), github)

	t.Run("configured source", func(t *testing.T) {
		t.Parallel()
		tasks, err := agg.TasksBySource(context.Background(), "github")
		if err != nil {
			t.Fatalf("TasksBySource() error = %v", err)
		}
		if len(tasks) != 1 || tasks[0].ID != "gh-1" {
			t.Errorf("tasks = %v", tasks)
		}
	})

	t.Run("known but unconfigured source", func(t *testing.T) {
		t.Parallel()
		_, err := agg.TasksBySource(context.Background(), "notion")
		if !errors.Is(err, ErrSourceUnavailable) {
			t.Errorf("error = %v, want ErrSourceUnavailable", err)
		}
	})

	t.Run("unknown source", func(t *testing.T) {
		t.Parallel()
		_, err := agg.TasksBySource(context.Background(), "jira")
		if !errors.Is(err, ErrUnknownSource) {
			t.Errorf("error = %v, want ErrUnknownSource", err)
		}
	})
}

func TestSync_PropagatesFetchErrors(t *testing.T) {
	t.Parallel()

	github := &stubSource{name: "github", err: errors.New("rate limited")}
	agg := New(zap.NewNop(), github)

	if _, err := agg.Sync(context.Background()); err == nil {
		t.Fatal("Sync() error = nil, want fetch error")
	}
	if _, err := agg.Status(context.Background()); err == nil {
		t.Fatal("Status() error = nil, want fetch error")
	}
}

func TestStatus_Counts(t *testing.T) {
	t.Parallel()

	github := &stubSource{name: "github", tasks: []models.Task{
		task("gh-1", models.TaskStatusOpen),
		task("gh-2", models.TaskStatusDone),
	}}
	agg := New(zap.NewNop(), github)

	status, err := agg.Status(context.Background())
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if status.TotalTasksBySource["github"] != 2 {
		t.Errorf("counts = %v", status.TotalTasksBySource)
	}
}
