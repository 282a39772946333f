package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/tasksync/tasksync/internal/aggregator"
	"go.uber.org/zap"
)

// TaskHandler serves the aggregated task endpoints.
type TaskHandler struct {
	agg *aggregator.Aggregator
	log *zap.Logger
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(agg *aggregator.Aggregator, log *zap.Logger) *TaskHandler {
	return &TaskHandler{agg: agg, log: log}
}

// RegisterRoutes registers task routes on the given router.
// The router should already carry the /api prefix.
func (h *TaskHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/sync", h.Sync).Methods("GET")
	r.HandleFunc("/tasks", h.ListTasks).Methods("GET")
	r.HandleFunc("/tasks/{source}", h.ListTasksBySource).Methods("GET")
	r.HandleFunc("/status", h.SyncStatus).Methods("GET")
}

// Root handles the / liveness probe.
func (h *TaskHandler) Root(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "Task Sync API",
	})
}

// Sync handles GET /api/sync: the full comparison payload.
func (h *TaskHandler) Sync(w http.ResponseWriter, r *http.Request) {
	cmp, err := h.agg.Sync(r.Context())
	if err != nil {
		h.respondAggregatorError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cmp)
}

// ListTasks handles GET /api/tasks: every task, ranked.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.agg.AllTasks(r.Context())
	if err != nil {
		h.respondAggregatorError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tasks)
}

// ListTasksBySource handles GET /api/tasks/{source}.
func (h *TaskHandler) ListTasksBySource(w http.ResponseWriter, r *http.Request) {
	source := mux.Vars(r)["source"]

	tasks, err := h.agg.TasksBySource(r.Context(), source)
	if err != nil {
		switch {
		case errors.Is(err, aggregator.ErrUnknownSource):
			respondJSONError(w, http.StatusNotFound, "Not Found",
				fmt.Sprintf("Source '%s' not found", source))
		case errors.Is(err, aggregator.ErrSourceUnavailable):
			respondJSONError(w, http.StatusServiceUnavailable, "Service Unavailable",
				fmt.Sprintf("%s integration not configured", source))
		default:
			h.respondAggregatorError(w, err)
		}
		return
	}
	respondJSON(w, http.StatusOK, tasks)
}

// SyncStatus handles GET /api/status: per-source counts only.
func (h *TaskHandler) SyncStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.agg.Status(r.Context())
	if err != nil {
		h.respondAggregatorError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, status)
}

// respondAggregatorError surfaces upstream fetch failures as a generic server
// error carrying the underlying message. Nothing is retried.
func (h *TaskHandler) respondAggregatorError(w http.ResponseWriter, err error) {
	h.log.Error("aggregation_failed", zap.Error(err))
	respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", err.Error())
}
