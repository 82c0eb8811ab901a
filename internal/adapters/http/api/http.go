// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	service "github.com/okian/crewboard/internal/app"
	"github.com/okian/crewboard/internal/domain/leaderboard"
	"github.com/okian/crewboard/internal/domain/snapshot"
	"github.com/okian/crewboard/pkg/metrics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // shared encoder config

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Leaderboard returns the current leaderboard, loading it if needed.
	Leaderboard(ctx context.Context) (*leaderboard.Leaderboard, error)

	// Refresh invalidates the snapshot and rebuilds.
	Refresh(ctx context.Context) (*leaderboard.Leaderboard, error)
}

// StatsProvider defines the interface for getting service statistics.
type StatsProvider interface {
	GetStats() service.Stats
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	leaderboardHandler *LeaderboardHandler
	refreshHandler     *RefreshHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(statsProvider),
		statsHandler:       NewStatsHandler(statsProvider),
		leaderboardHandler: NewLeaderboardHandler(deps),
		refreshHandler:     NewRefreshHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/refresh", MetricsMiddleware(s.refreshHandler.HandleRefresh, "refresh"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/leaderboard/", MetricsMiddleware(s.leaderboardHandler.HandleGetCarrier, "leaderboard_carrier"))
	// Use our custom metrics registry to serve metrics
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeLoadError renders a pipeline failure as its kind and message.
// SOURCE_UNAVAILABLE is the upstream's fault (502); payload problems are 422.
func writeLoadError(w http.ResponseWriter, err error) {
	le := snapshot.AsLoadError(err)
	status := http.StatusBadGateway
	if errors.Is(le, snapshot.ErrMalformedPayload) || errors.Is(le, snapshot.ErrTypeError) {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, errorResponse{Code: string(le.Kind), Message: le.Message})
}
