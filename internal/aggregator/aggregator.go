// Package aggregator merges, scores, and ranks tasks from every configured
// source.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/tasksync/tasksync/internal/models"
	"github.com/tasksync/tasksync/internal/scoring"
	"github.com/tasksync/tasksync/internal/sources"
	"go.uber.org/zap"
)

var (
	// ErrUnknownSource is returned for source names this system does not
	// understand at all.
	ErrUnknownSource = errors.New("unknown source")
	// ErrSourceUnavailable is returned for known sources that have no
	// configured adapter (e.g. notion without credentials).
	ErrSourceUnavailable = errors.New("source not configured")
)

// Aggregator fans requests out to its sources sequentially, in registration
// order, and produces globally ranked task lists. It holds no state between
// calls; every read refetches and rescores.
type Aggregator struct {
	sources []sources.Source
	log     *zap.Logger
}

// New creates an aggregator over the given sources. Registration order is the
// tie-break order for equal scores, so callers register the tracker first.
func New(log *zap.Logger, srcs ...sources.Source) *Aggregator {
	return &Aggregator{sources: srcs, log: log}
}

// Sync fetches from every source and returns the full comparison: all tasks
// ranked, per-source lists in fetch order, and a sync snapshot.
func (a *Aggregator) Sync(ctx context.Context) (*models.TaskComparison, error) {
	now := time.Now().UTC()

	bySource := make(map[string][]models.Task, len(a.sources))
	counts := make(map[string]int, len(a.sources))
	var all []models.Task

	for _, src := range a.sources {
		tasks, err := a.fetch(ctx, src)
		if err != nil {
			return nil, err
		}
		// Scores are refreshed before grouping so the per-source lists carry
		// them too; only the global list is sorted.
		scoring.Rescore(tasks, now)
		bySource[src.Name()] = tasks
		counts[src.Name()] = len(tasks)
		all = append(all, tasks...)
	}

	sortByScore(all)

	return &models.TaskComparison{
		AllTasks:      all,
		TasksBySource: bySource,
		SyncStatus: models.SyncStatus{
			TotalTasksBySource: counts,
			LastSync:           now,
		},
	}, nil
}

// AllTasks returns every task from every source, scored and ranked.
func (a *Aggregator) AllTasks(ctx context.Context) ([]models.Task, error) {
	now := time.Now().UTC()

	var all []models.Task
	for _, src := range a.sources {
		tasks, err := a.fetch(ctx, src)
		if err != nil {
			return nil, err
		}
		all = append(all, tasks...)
	}

	scoring.Rescore(all, now)
	sortByScore(all)
	return all, nil
}

// TasksBySource returns the ranked task list for one source. A name outside
// the known set yields ErrUnknownSource; a known name with no configured
// adapter yields ErrSourceUnavailable.
func (a *Aggregator) TasksBySource(ctx context.Context, name string) ([]models.Task, error) {
	src := a.source(name)
	if src == nil {
		if sources.Known(name) {
			return nil, fmt.Errorf("%w: %s", ErrSourceUnavailable, name)
		}
		return nil, fmt.Errorf("%w: %s", ErrUnknownSource, name)
	}

	tasks, err := a.fetch(ctx, src)
	if err != nil {
		return nil, err
	}

	scoring.Rescore(tasks, time.Now().UTC())
	sortByScore(tasks)
	return tasks, nil
}

// Status returns per-source counts without the task payloads.
func (a *Aggregator) Status(ctx context.Context) (*models.SyncStatus, error) {
	now := time.Now().UTC()

	counts := make(map[string]int, len(a.sources))
	for _, src := range a.sources {
		tasks, err := a.fetch(ctx, src)
		if err != nil {
			return nil, err
		}
		counts[src.Name()] = len(tasks)
	}

	return &models.SyncStatus{
		TotalTasksBySource: counts,
		LastSync:           now,
	}, nil
}

func (a *Aggregator) source(name string) sources.Source {
	for _, src := range a.sources {
		if src.Name() == name {
			return src
		}
	}
	return nil
}

func (a *Aggregator) fetch(ctx context.Context, src sources.Source) ([]models.Task, error) {
	start := time.Now()
	tasks, err := src.FetchTasks(ctx)
	if err != nil {
		a.log.Error("source_fetch_failed",
			zap.String("source", src.Name()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("fetch %s tasks: %w", src.Name(), err)
	}
	a.log.Debug("source_fetch_complete",
		zap.String("source", src.Name()),
		zap.Int("task_count", len(tasks)),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return tasks, nil
}

// sortByScore orders tasks by importance descending. The sort is stable so
// equal scores keep source registration / fetch order.
func sortByScore(tasks []models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].ImportanceScore > tasks[j].ImportanceScore
	})
}
