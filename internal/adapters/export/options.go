package export

import (
	"time"

	"github.com/okian/crewboard/pkg/logger"
)

// Option configures an Exporter.
type Option func(*Exporter)

// WithClock sets the time source used for file names and report timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Exporter) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithTitle sets the report title used in the PDF header.
func WithTitle(title string) Option {
	return func(e *Exporter) {
		if title != "" {
			e.title = title
		}
	}
}
