package api

import (
	"context"
	"net/http"

	"github.com/okian/crewboard/internal/domain/leaderboard"
)

// RefreshDependencies defines the interface for the refresh trigger.
type RefreshDependencies interface {
	Refresh(ctx context.Context) (*leaderboard.Leaderboard, error)
}

// RefreshHandler handles refresh requests.
type RefreshHandler struct {
	deps RefreshDependencies
}

// NewRefreshHandler creates a new refresh handler.
func NewRefreshHandler(deps RefreshDependencies) *RefreshHandler {
	return &RefreshHandler{deps: deps}
}

type refreshResponse struct {
	Status      string `json:"status"`
	Carriers    int    `json:"carriers"`
	CrewMembers int    `json:"crew_members"`
}

// HandleRefresh handles POST /refresh. It takes no parameters and is idempotent.
func (h *RefreshHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	lb, err := h.deps.Refresh(r.Context())
	if err != nil {
		writeLoadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, refreshResponse{
		Status:      "refreshed",
		Carriers:    len(lb.Carriers()),
		CrewMembers: lb.CrewCount(),
	})
}
