// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/crewboard/internal/domain/leaderboard"
)

// LeaderboardDependencies defines the interface for leaderboard operations.
type LeaderboardDependencies interface {
	Leaderboard(ctx context.Context) (*leaderboard.Leaderboard, error)
}

// LeaderboardHandler handles leaderboard requests.
type LeaderboardHandler struct {
	deps LeaderboardDependencies
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps LeaderboardDependencies) *LeaderboardHandler {
	return &LeaderboardHandler{deps: deps}
}

type leaderboardResponse struct {
	Empty    bool                      `json:"empty"`
	Carriers []leaderboard.CarrierView `json:"carriers"`
}

// HandleGetLeaderboard handles GET /leaderboard requests. Every carrier is
// returned with its podium (ranks 1-3) and others (ranks 4-10).
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	lb, err := h.deps.Leaderboard(r.Context())
	if err != nil {
		writeLoadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, leaderboardResponse{
		Empty:    lb.IsEmpty(),
		Carriers: lb.View(),
	})
}

// HandleGetCarrier handles GET /leaderboard/{carrier} requests.
func (h *LeaderboardHandler) HandleGetCarrier(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter after /leaderboard/
	code := strings.TrimPrefix(r.URL.Path, "/leaderboard/")
	if code == "" || strings.Contains(code, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	lb, err := h.deps.Leaderboard(r.Context())
	if err != nil {
		writeLoadError(w, err)
		return
	}
	view, ok := lb.Carrier(code)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", fmt.Errorf("%w: %s", ErrCarrierNotFound, code))
		return
	}
	writeJSON(w, http.StatusOK, view)
}
