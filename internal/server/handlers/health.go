package handlers

import (
	"net/http"

	"github.com/agentstation/hangar/internal/server/response"
)

// HandleHealth handles GET /health.
// @Summary Health check
// @Description Health check endpoint (liveness probe)
// @Tags health
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Router /health [get].
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":  "healthy",
		"service": "hangar-api",
		"version": h.app.Version(),
	})
}

// HandleReady handles GET /api/v1/ready.
// @Summary Readiness check
// @Description Readiness check including reference data and cache status
// @Tags health
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Failure 503 {object} response.Response{error=response.Error}
// @Router /api/v1/ready [get].
func (h *Handlers) HandleReady(w http.ResponseWriter, _ *http.Request) {
	data, err := h.app.Reference()
	if err != nil || data == nil {
		response.ServiceUnavailable(w, "Reference data not available")
		return
	}

	response.OK(w, map[string]any{
		"status":    "ready",
		"reference": data.Version.String(),
		"cache": map[string]any{
			"items": h.cache.ItemCount(),
		},
	})
}
