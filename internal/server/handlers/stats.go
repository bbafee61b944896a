package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/agentstation/hangar/internal/server/cache"
	"github.com/agentstation/hangar/internal/server/response"
)

// Stats is the data of GET /api/v1/stats.
type Stats struct {
	Version    string      `json:"version"`
	Reference  string      `json:"reference"`
	Uptime     string      `json:"uptime"`
	Goroutines int         `json:"goroutines"`
	Cache      cache.Stats `json:"cache"`
}

// HandleStats handles GET /api/v1/stats.
// @Summary Server statistics
// @Tags admin
// @Produce json
// @Success 200 {object} response.Response{data=Stats}
// @Router /api/v1/stats [get].
func (h *Handlers) HandleStats(w http.ResponseWriter, _ *http.Request) {
	data, err := h.app.Reference()
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, Stats{
		Version:    h.app.Version(),
		Reference:  data.Version.String(),
		Uptime:     time.Since(h.startTime).Round(time.Second).String(),
		Goroutines: runtime.NumGoroutine(),
		Cache:      h.cache.GetStats(),
	})
}
