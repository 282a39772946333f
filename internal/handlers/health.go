package handlers

import (
	"context"
	"net/http"
	"time"
)

// Pinger checks that an upstream source is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker handles health check requests.
type HealthChecker struct {
	upstreams map[string]Pinger
}

// NewHealthChecker creates a health checker over the given upstream pingers,
// keyed by source name. Unconfigured sources are simply absent.
func NewHealthChecker(upstreams map[string]Pinger) *HealthChecker {
	return &HealthChecker{upstreams: upstreams}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthCheck handles the /healthz endpoint. Basic mode reports process
// liveness; ?mode=extended also probes each upstream source.
func (h *HealthChecker) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if r.URL.Query().Get("mode") != "extended" {
		respondJSON(w, http.StatusOK, response)
		return
	}

	checks := make(map[string]string, len(h.upstreams))
	for name, upstream := range h.upstreams {
		if err := h.check(r.Context(), upstream); err != nil {
			response.Status = "unhealthy"
			checks[name] = "unhealthy: " + err.Error()
		} else {
			checks[name] = "healthy"
		}
	}
	response.Checks = checks

	statusCode := http.StatusOK
	if response.Status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}
	respondJSON(w, statusCode, response)
}

func (h *HealthChecker) check(ctx context.Context, upstream Pinger) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return upstream.Ping(ctx)
}
