// Package scoring computes the importance score used for global task ranking.
package scoring

import (
	"math"
	"strings"
	"time"

	"github.com/tasksync/tasksync/internal/models"
)

// priorityKeywords are matched case-insensitively as substrings of labels.
// The bonus is applied at most once per task.
var priorityKeywords = []string{"high", "urgent", "critical", "p0", "p1"}

// Score returns the importance score for a task evaluated at now.
// The result is deterministic for a fixed now, may be negative, and is
// never clamped or normalized.
func Score(task *models.Task, now time.Time) float64 {
	score := 0.0

	if task.DueDate != nil {
		// Whole-day difference, floored: a task due 30 hours ago is -2 days.
		days := wholeDays(task.DueDate.Sub(now))
		switch {
		case days < 0:
			score += 100
		case days == 0:
			score += 90
		case days <= 1:
			score += 80
		case days <= 3:
			score += 70
		case days <= 7:
			score += 60
		case days <= 14:
			score += 40
		case days <= 30:
			score += 20
		}
	}

	if hasPriorityLabel(task.Labels) {
		score += 30
	}

	switch task.Status {
	case models.TaskStatusInProgress:
		score += 15
	case models.TaskStatusOpen:
		score += 10
	}

	if task.Assignee != "" {
		score += 5
	}

	if task.UpdatedAt != nil {
		stale := wholeDays(now.Sub(*task.UpdatedAt))
		if stale > 60 {
			score -= 20
		} else if stale > 30 {
			score -= 10
		}
	}

	return score
}

// Rescore recomputes and stores the importance score on every task in place.
func Rescore(tasks []models.Task, now time.Time) {
	for i := range tasks {
		tasks[i].ImportanceScore = Score(&tasks[i], now)
	}
}

func hasPriorityLabel(labels []string) bool {
	for _, label := range labels {
		lower := strings.ToLower(label)
		for _, kw := range priorityKeywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}
	return false
}

func wholeDays(d time.Duration) int {
	return int(math.Floor(d.Hours() / 24))
}
