package snapshot

import (
	"time"

	"github.com/okian/crewboard/pkg/logger"
)

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithTTL sets how long a successful load is served from cache.
// A non-positive TTL disables caching.
func WithTTL(ttl time.Duration) Option {
	return func(l *Loader) {
		l.ttl = ttl
	}
}

// WithClock replaces the time source used for cache expiry.
func WithClock(now func() time.Time) Option {
	return func(l *Loader) {
		if now != nil {
			l.now = now
		}
	}
}

// WithLogger sets a custom logger for the loader.
func WithLogger(log logger.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.logger = log
		}
	}
}
