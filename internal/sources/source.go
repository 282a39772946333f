// Package sources defines the adapter seam between external trackers and the
// canonical task model.
package sources

import (
	"context"

	"github.com/tasksync/tasksync/internal/models"
)

// Known source names. These are valid request targets even when the
// corresponding adapter is not configured.
const (
	GitHub = "github"
	Notion = "notion"
)

// Source is one external system contributing tasks. Implementations fetch
// every record in one call and return a fully materialized list; pagination
// is an internal concern of each adapter.
type Source interface {
	Name() string
	FetchTasks(ctx context.Context) ([]models.Task, error)
}

// Known reports whether name refers to a source this system understands,
// configured or not.
func Known(name string) bool {
	return name == GitHub || name == Notion
}
