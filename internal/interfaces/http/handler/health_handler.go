package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/hapkiduki/landedcost/internal/application/dto"
)

const checkTimeout = 2 * time.Second

// Health handles GET /health. It reports liveness only.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, http.StatusOK, dto.HealthResponse{
		Status:  "healthy",
		Version: h.version,
		Uptime:  time.Since(h.startedAt).Round(time.Second).String(),
	})
}

// Ready handles GET /ready. It runs every registered dependency check and
// answers 503 when any of them fails.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := dto.HealthResponse{
		Status:  "ready",
		Version: h.version,
		Uptime:  time.Since(h.startedAt).Round(time.Second).String(),
		Checks:  make(map[string]dto.HealthCheckResult, len(names)),
	}
	status := http.StatusOK

	for _, name := range names {
		ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
		start := time.Now()
		err := h.checks[name](ctx)
		cancel()

		result := dto.HealthCheckResult{Status: "up", ResponseTime: time.Since(start).Milliseconds()}
		if err != nil {
			h.log.WithContext(r.Context()).Warn("readiness check failed", "check", name, "error", err)
			result.Status = "down"
			result.Message = err.Error()
			resp.Status = "not_ready"
			status = http.StatusServiceUnavailable
		}
		resp.Checks[name] = result
	}

	h.respond(w, r, status, resp)
}

// NotFound answers unknown routes.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.fail(w, r, http.StatusNotFound, dto.CodeNotFound, "The requested resource was not found")
}

// MethodNotAllowed answers known routes called with the wrong method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.fail(w, r, http.StatusMethodNotAllowed, dto.CodeMethodNotAllowed, "The requested method is not allowed for this resource")
}
