// Package service composes the snapshot loader and the leaderboard builder into
// the refresh pipeline consumed by the HTTP API and the CLI.
package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/okian/crewboard/internal/domain/leaderboard"
	"github.com/okian/crewboard/internal/domain/model"
	"github.com/okian/crewboard/internal/domain/snapshot"
	"github.com/okian/crewboard/pkg/logger"
	"github.com/okian/crewboard/pkg/metrics"
)

// State is the pipeline state.
type State int32

// Pipeline states. IDLE -> LOADING -> READY | LOAD_FAILED.
const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateLoadFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateLoading:
		return "LOADING"
	case StateReady:
		return "READY"
	case StateLoadFailed:
		return "LOAD_FAILED"
	default:
		return "UNKNOWN"
	}
}

// SnapshotLoader is the part of *snapshot.Loader the pipeline depends on.
type SnapshotLoader interface {
	Load(ctx context.Context, source string) ([]model.SalesRecord, error)
	Fresh(source string) bool
	Invalidate()
}

// Service owns the current leaderboard and the pipeline state.
type Service struct {
	loader SnapshotLoader
	source string
	logger logger.Logger
	now    func() time.Time

	group singleflight.Group
	gen   atomic.Uint64
	state atomic.Int32
	board atomic.Pointer[leaderboard.Leaderboard]

	loads    atomic.Int64
	failures atomic.Int64

	mu      sync.RWMutex
	lastErr *snapshot.LoadError
	builtAt time.Time
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces the time source used for build timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a Service reading from source through loader.
func New(loader SnapshotLoader, source string, opts ...Option) *Service {
	s := &Service{
		loader: loader,
		source: source,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	metrics.UpdatePipelineState(StateIdle.String())
	return s
}

// Source returns the configured source descriptor.
func (s *Service) Source() string {
	return s.source
}

// State returns the current pipeline state.
func (s *Service) State() State {
	return State(s.state.Load())
}

func (s *Service) setState(st State) {
	s.state.Store(int32(st))
	metrics.UpdatePipelineState(st.String())
}

// LastError returns the error of the last failed load, or nil.
func (s *Service) LastError() *snapshot.LoadError {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Leaderboard returns the current leaderboard, loading it when needed.
//
// IDLE loads. READY serves the current board while the snapshot is fresh and
// reloads once it expired. LOAD_FAILED returns the recorded error without
// retrying; only Refresh leaves that state.
func (s *Service) Leaderboard(ctx context.Context) (*leaderboard.Leaderboard, error) {
	switch s.State() {
	case StateReady:
		if b := s.board.Load(); b != nil && s.loader.Fresh(s.source) {
			return b, nil
		}
	case StateLoadFailed:
		if le := s.LastError(); le != nil {
			return nil, le
		}
	}
	return s.reload(ctx)
}

// Current returns the last built leaderboard without triggering a load.
func (s *Service) Current() (*leaderboard.Leaderboard, bool) {
	b := s.board.Load()
	return b, b != nil
}

// Refresh invalidates the snapshot cache and rebuilds. It is idempotent and
// is the only way out of LOAD_FAILED.
func (s *Service) Refresh(ctx context.Context) (*leaderboard.Leaderboard, error) {
	metrics.RecordRefreshRequest()
	// Loads started before this point can no longer publish.
	s.gen.Add(1)
	s.loader.Invalidate()
	// A load already in flight may have been served from the old cache entry.
	s.group.Forget(s.source)
	return s.reload(ctx)
}

// reload runs one load and build. Concurrent callers share a single run.
//
// The shared run is detached from the caller's cancellation: a caller that
// gives up gets its context error back, while the run finishes and publishes
// for everyone else. The fetcher's own timeout bounds it.
func (s *Service) reload(ctx context.Context) (*leaderboard.Leaderboard, error) {
	runCtx := context.WithoutCancel(ctx)
	gen := s.gen.Load()
	ch := s.group.DoChan(s.source, func() (interface{}, error) {
		return s.loadAndBuild(runCtx, gen)
	})

	select {
	case <-ctx.Done():
		s.logger.Debug(ctx, "caller left in-flight load", logger.String("source", s.source), logger.Error(ctx.Err()))
		return nil, snapshot.AsLoadError(ctx.Err())
	case res := <-ch:
		if res.Shared {
			s.logger.Debug(ctx, "joined in-flight load", logger.String("source", s.source))
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*leaderboard.Leaderboard), nil
	}
}

func (s *Service) loadAndBuild(ctx context.Context, gen uint64) (*leaderboard.Leaderboard, error) {
	s.setState(StateLoading)
	s.loads.Add(1)

	rows, err := s.loader.Load(ctx, s.source)
	if err != nil {
		le := snapshot.AsLoadError(err)
		s.failures.Add(1)
		if !s.publish(gen, nil, le) {
			s.logger.Debug(ctx, "superseded load dropped", logger.String("source", s.source))
			return nil, le
		}

		metrics.RecordErrorByComponent("pipeline", string(le.Kind))
		s.logger.Warn(ctx, "leaderboard unavailable",
			logger.String("source", s.source),
			logger.String("kind", string(le.Kind)),
			logger.String("message", le.Message),
		)
		return nil, le
	}

	start := time.Now()
	board := leaderboard.Build(rows)
	elapsed := time.Since(start)

	metrics.RecordLeaderboardBuild(float64(elapsed.Microseconds()) / 1000)

	if !s.publish(gen, board, nil) {
		s.logger.Debug(ctx, "superseded load dropped", logger.String("source", s.source))
		return board, nil
	}
	metrics.UpdateLeaderboardSize(len(board.Carriers()), board.CrewCount())

	s.logger.Info(ctx, "leaderboard built",
		logger.String("source", s.source),
		logger.Int("rows", len(rows)),
		logger.Int("carriers", len(board.Carriers())),
		logger.Int("crew", board.CrewCount()),
		logger.Duration("build", elapsed),
	)
	return board, nil
}

// publish stores the outcome of a load started in generation gen. It reports
// false, storing nothing, when a Refresh has started a newer generation.
func (s *Service) publish(gen uint64, board *leaderboard.Leaderboard, le *snapshot.LoadError) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen.Load() {
		return false
	}

	s.board.Store(board)
	s.lastErr = le
	if le != nil {
		s.setState(StateLoadFailed)
		return true
	}
	s.builtAt = s.now()
	s.setState(StateReady)
	return true
}

// Poll keeps the leaderboard warm until ctx is done. Each tick calls
// Leaderboard, which only fetches when the snapshot expired. A failed pipeline
// is left alone: the timer never retries LOAD_FAILED.
func (s *Service) Poll(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		<-ctx.Done()
		return nil
	}

	s.pollOnce(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.pollOnce(ctx)
		}
	}
}

func (s *Service) pollOnce(ctx context.Context) {
	if s.State() == StateLoadFailed {
		s.logger.Debug(ctx, "poll skipped, waiting for refresh", logger.String("source", s.source))
		return
	}
	// Errors are recorded in the pipeline state and logged by loadAndBuild.
	_, _ = s.Leaderboard(ctx)
}

// ErrorInfo is the kind and message of a load failure.
type ErrorInfo struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Stats is a point-in-time view of the pipeline for monitoring.
type Stats struct {
	State       string     `json:"state"`
	Source      string     `json:"source"`
	BuiltAt     *time.Time `json:"built_at,omitempty"`
	Fresh       bool       `json:"fresh"`
	Carriers    int        `json:"carriers"`
	CrewMembers int        `json:"crew_members"`
	Loads       int64      `json:"loads"`
	Failures    int64      `json:"failures"`
	LastError   *ErrorInfo `json:"last_error,omitempty"`
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{
		State:    s.State().String(),
		Source:   s.source,
		Fresh:    s.loader.Fresh(s.source),
		Loads:    s.loads.Load(),
		Failures: s.failures.Load(),
	}
	if !s.builtAt.IsZero() {
		t := s.builtAt
		st.BuiltAt = &t
	}
	if b := s.board.Load(); b != nil {
		st.Carriers = len(b.Carriers())
		st.CrewMembers = b.CrewCount()
	}
	if s.lastErr != nil {
		st.LastError = &ErrorInfo{Kind: string(s.lastErr.Kind), Message: s.lastErr.Message}
	}
	return st
}
