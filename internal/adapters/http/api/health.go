// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	stats StatsProvider
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(stats StatsProvider) *HealthHandler {
	return &HealthHandler{stats: stats}
}

type healthResponse struct {
	Status string `json:"status"`
	State  string `json:"state"`
}

// HandleHealth handles GET /healthz requests. The process is healthy whenever it
// can answer; a failed pipeline is reported in state, not as an error status.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.NotFound(w, r)
		return
	}
	resp := healthResponse{Status: "ok"}
	if h.stats != nil {
		resp.State = h.stats.GetStats().State
	}
	writeJSON(w, http.StatusOK, resp)
}
