package source

import (
	"net/http"
	"time"

	"github.com/okian/crewboard/pkg/logger"
)

// Option applies a configuration option to the Router.
type Option func(*Router)

// WithTimeout bounds a single fetch. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(r *Router) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithMaxPayloadBytes caps the size of a fetched payload. Non-positive values are ignored.
func WithMaxPayloadBytes(n int64) Option {
	return func(r *Router) {
		if n > 0 {
			r.maxBytes = n
		}
	}
}

// WithLogFieldMaxLen truncates dumped HTTP requests and responses in logs. 0 keeps them whole.
func WithLogFieldMaxLen(n int) Option {
	return func(r *Router) {
		if n >= 0 {
			r.logFieldMaxLen = n
		}
	}
}

// WithHTTPClient replaces the client used for http(s) sources. Its transport is
// wrapped with request logging.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Router) {
		if c != nil {
			r.httpClient = c
		}
	}
}

// WithAWS sets the region and shared-config profile used for s3 sources.
func WithAWS(region, profile string) Option {
	return func(r *Router) {
		r.awsRegion = region
		r.awsProfile = profile
	}
}

// WithS3Client injects a ready S3 client, skipping SDK configuration.
func WithS3Client(c S3API) Option {
	return func(r *Router) {
		if c != nil {
			r.s3Client = c
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Router) {
		if l != nil {
			r.logger = l
		}
	}
}
