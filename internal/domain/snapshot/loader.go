// Package snapshot fetches the sales payload, parses it into typed rows and
// memoizes the last successful result for a bounded time window.
package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/crewboard/internal/domain/model"
	"github.com/okian/crewboard/pkg/logger"
	"github.com/okian/crewboard/pkg/metrics"
)

// DefaultTTL is the cache window used when no WithTTL option is given.
const DefaultTTL = 5 * time.Minute

// Fetcher retrieves the raw payload behind a source descriptor.
type Fetcher interface {
	Fetch(ctx context.Context, source string) ([]byte, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, source string) ([]byte, error)

// Fetch calls f(ctx, source).
func (f FetcherFunc) Fetch(ctx context.Context, source string) ([]byte, error) {
	return f(ctx, source)
}

// entry is swapped in and out of the cache as a whole.
type entry struct {
	source    string
	rows      []model.SalesRecord
	fetchedAt time.Time
}

// Loader is the only owner of the snapshot cache.
type Loader struct {
	fetcher Fetcher
	ttl     time.Duration
	now     func() time.Time
	logger  logger.Logger

	cache atomic.Pointer[entry]
	// mu orders cache stores against Invalidate; epoch counts invalidations.
	mu    sync.Mutex
	epoch uint64
}

// NewLoader creates a loader around fetcher.
func NewLoader(fetcher Fetcher, opts ...Option) *Loader {
	l := &Loader{
		fetcher: fetcher,
		ttl:     DefaultTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = logger.Get()
	}
	return l
}

// Load returns the rows behind source. Within the TTL, a repeated call for the
// same source is served from cache without fetching. Failures are returned as a
// *LoadError with nil rows; Load never panics and never falls back to stale data.
// The returned slice is shared with the cache and must not be modified.
func (l *Loader) Load(ctx context.Context, source string) (rows []model.SalesRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			rows = nil
			err = newLoadError(KindSourceUnavailable, nil, "load %s: %v", source, r)
		}
	}()

	if e := l.lookup(source); e != nil {
		metrics.RecordSnapshotCacheHit()
		l.logger.Debug(ctx, "snapshot served from cache",
			logger.String("source", source),
			logger.Duration("age", l.now().Sub(e.fetchedAt)),
		)
		return e.rows, nil
	}
	metrics.RecordSnapshotCacheMiss()

	epoch := l.currentEpoch()
	start := l.now()
	payload, err := l.fetch(ctx, source)
	if err != nil {
		return nil, l.fail(ctx, source, start, newLoadError(KindSourceUnavailable, err, "fetch %s: %v", source, err))
	}

	parsed, skipped, err := parse(bytes.NewReader(payload))
	if err != nil {
		return nil, l.fail(ctx, source, start, AsLoadError(err))
	}

	fetchedAt := l.now()
	l.store(epoch, &entry{source: source, rows: parsed, fetchedAt: fetchedAt})

	latency := fetchedAt.Sub(start)
	metrics.RecordSnapshotFetch(metrics.OutcomeSuccess, float64(latency.Milliseconds()))
	metrics.UpdateSnapshotRows(len(parsed))
	l.logger.Info(ctx, "snapshot loaded",
		logger.String("source", source),
		logger.Int("rows", len(parsed)),
		logger.Int("skipped", skipped),
		logger.Duration("latency", latency),
	)

	return parsed, nil
}

func (l *Loader) fetch(ctx context.Context, source string) ([]byte, error) {
	if l.fetcher == nil {
		return nil, fmt.Errorf("no fetcher configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return l.fetcher.Fetch(ctx, source)
}

func (l *Loader) fail(ctx context.Context, source string, start time.Time, le *LoadError) *LoadError {
	metrics.RecordSnapshotFetch(string(le.Kind), float64(l.now().Sub(start).Milliseconds()))
	l.logger.Warn(ctx, "snapshot load failed",
		logger.String("source", source),
		logger.String("kind", string(le.Kind)),
		logger.String("message", le.Message),
	)
	return le
}

// lookup returns the cache entry for source if it is still within the TTL.
func (l *Loader) lookup(source string) *entry {
	if l.ttl <= 0 {
		return nil
	}
	e := l.cache.Load()
	if e == nil || e.source != source {
		return nil
	}
	if l.now().Sub(e.fetchedAt) >= l.ttl {
		return nil
	}
	return e
}

// Fresh reports whether the next Load for source would be served from cache.
func (l *Loader) Fresh(source string) bool {
	return l.lookup(source) != nil
}

// CachedAt returns when the cached entry was fetched, if one exists.
func (l *Loader) CachedAt() (time.Time, bool) {
	e := l.cache.Load()
	if e == nil {
		return time.Time{}, false
	}
	return e.fetchedAt, true
}

// Invalidate drops the cached entry so the next Load fetches. A fetch already
// in flight still returns its rows but does not refill the cache. Safe to call
// repeatedly.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.epoch++
	l.cache.Store(nil)
}

func (l *Loader) currentEpoch() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.epoch
}

// store caches e unless the cache was invalidated since epoch was read.
func (l *Loader) store(epoch uint64, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if epoch != l.epoch {
		return
	}
	l.cache.Store(e)
}

// TTL returns the configured cache window.
func (l *Loader) TTL() time.Duration {
	return l.ttl
}
