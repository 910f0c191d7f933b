package handlers

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"
)

// HealthCheck probes one dependency
type HealthCheck func(ctx context.Context) error

// HealthHandler reports liveness plus the state of each dependency. A failing
// dependency degrades the report without failing the probe.
type HealthHandler struct {
	mu     sync.RWMutex
	checks map[string]HealthCheck
}

// NewHealthHandler creates a new health handler
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{checks: make(map[string]HealthCheck)}
}

// AddCheck registers a named dependency probe
func (h *HealthHandler) AddCheck(name string, check HealthCheck) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	h.mu.RLock()
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	h.mu.RUnlock()
	sort.Strings(names)

	status := "ok"
	results := make(map[string]string, len(names))
	for _, name := range names {
		h.mu.RLock()
		check := h.checks[name]
		h.mu.RUnlock()

		if err := check(ctx); err != nil {
			status = "degraded"
			results[name] = "error: " + err.Error()
			continue
		}
		results[name] = "ok"
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":    status,
		"checks":    results,
		"timestamp": time.Now().UTC(),
	})
}
