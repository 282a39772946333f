package notion

import (
	"strings"
	"time"

	"github.com/tasksync/tasksync/internal/models"
	"github.com/tasksync/tasksync/internal/sources"
	"github.com/tidwall/gjson"
)

// Candidate property names per canonical field, checked in order.
// First name that exists with the expected type wins.
var (
	titleCandidates    = []string{"Name", "Title", "Task", "name", "title"}
	statusCandidates   = []string{"Status", "status"}
	dueDateCandidates  = []string{"Due Date", "Due", "Deadline", "due_date"}
	assigneeCandidates = []string{"Assignee", "Assigned to", "Owner", "assignee"}
	labelCandidates    = []string{"Tags", "Labels", "Category", "tags"}
)

// parsePage converts one database row into a Task. A row that cannot yield a
// non-empty title is dropped, not treated as an error.
func parsePage(page gjson.Result) (models.Task, bool) {
	props := page.Get("properties")

	title := extractTitle(props)
	if title == "" {
		return models.Task{}, false
	}

	pageID := page.Get("id").String()
	task := models.Task{
		ID:        "notion-" + pageID,
		Title:     title,
		Sources:   []string{sources.Notion},
		SourceIDs: map[string]string{sources.Notion: pageID},
		Labels:    extractLabels(props),
		DueDate:   extractDueDate(props),
		Assignee:  extractAssignee(props),
		Status:    extractStatus(props),
		URLs:      map[string]string{sources.Notion: page.Get("url").String()},
		CreatedAt: parseTimestamp(page.Get("created_time").String()),
		UpdatedAt: parseTimestamp(page.Get("last_edited_time").String()),
	}
	return task, true
}

// firstProperty returns the first candidate property that exists, carries one
// of the accepted types, and holds a value, together with its resolved type.
// A candidate with the right type but a null or empty payload keeps the scan
// going, so a valueless "Status" does not shadow a populated "status".
func firstProperty(props gjson.Result, acceptedTypes []string, candidates []string) (gjson.Result, string, bool) {
	for _, name := range candidates {
		prop := props.Get(name)
		if !prop.Exists() {
			continue
		}
		typ := prop.Get("type").String()
		for _, accepted := range acceptedTypes {
			if typ == accepted && hasValue(prop.Get(typ)) {
				return prop, typ, true
			}
		}
	}
	return gjson.Result{}, "", false
}

func hasValue(v gjson.Result) bool {
	if !v.Exists() || v.Type == gjson.Null {
		return false
	}
	if v.IsArray() {
		return len(v.Array()) > 0
	}
	return true
}

func extractTitle(props gjson.Result) string {
	prop, _, ok := firstProperty(props, []string{"title"}, titleCandidates)
	if !ok {
		return ""
	}
	var sb strings.Builder
	prop.Get("title").ForEach(func(_, run gjson.Result) bool {
		sb.WriteString(run.Get("plain_text").String())
		return true
	})
	return sb.String()
}

// extractStatus classifies the selected value's name. This adapter never
// produces CLOSED; closed-ish values map to DONE.
func extractStatus(props gjson.Result) models.TaskStatus {
	prop, typ, ok := firstProperty(props, []string{"status", "select"}, statusCandidates)
	if !ok {
		return models.TaskStatusOpen
	}
	name := strings.ToLower(prop.Get(typ + ".name").String())
	switch {
	case strings.Contains(name, "done"), strings.Contains(name, "complete"):
		return models.TaskStatusDone
	case strings.Contains(name, "progress"):
		return models.TaskStatusInProgress
	default:
		return models.TaskStatusOpen
	}
}

func extractDueDate(props gjson.Result) *time.Time {
	prop, _, ok := firstProperty(props, []string{"date"}, dueDateCandidates)
	if !ok {
		return nil
	}
	start := prop.Get("date.start")
	if !start.Exists() {
		return nil
	}
	// Unparsable start strings mean no due date, never an error.
	return parseTimestamp(start.String())
}

func extractAssignee(props gjson.Result) string {
	prop, _, ok := firstProperty(props, []string{"people"}, assigneeCandidates)
	if !ok {
		return ""
	}
	return prop.Get("people.0.name").String()
}

func extractLabels(props gjson.Result) []string {
	prop, _, ok := firstProperty(props, []string{"multi_select"}, labelCandidates)
	if !ok {
		return nil
	}
	var labels []string
	prop.Get("multi_select").ForEach(func(_, option gjson.Result) bool {
		labels = append(labels, option.Get("name").String())
		return true
	})
	return labels
}

// parseTimestamp accepts RFC 3339 (trailing Z included) and bare dates, the
// two shapes Notion emits. Anything else yields nil.
func parseTimestamp(s string) *time.Time {
	if s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		t = t.UTC()
		return &t
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		t = t.UTC()
		return &t
	}
	return nil
}
