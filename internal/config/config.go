// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Loading functions accept context.Context as the first parameter.
// - External errors are wrapped with this package's sentinels.
package config

import (
	"time"
)

// Config contains process configuration shared by the HTTP service and the CLI.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"omitempty,oneof=debug info warn warning error"`

	// LogFormat selects the log handler: text, json or tint.
	LogFormat string `koanf:"log_format" validate:"omitempty,oneof=text json tint"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr" validate:"required"`

	// SourceURL locates the sales payload: http(s)://, file://, s3:// or a plain path.
	SourceURL string `koanf:"source_url" validate:"required"`

	// CacheTTLSeconds bounds how long a loaded snapshot is reused. 0 disables caching.
	CacheTTLSeconds int `koanf:"cache_ttl_seconds" validate:"gte=0"`

	// FetchTimeoutMS bounds a single source fetch.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms" validate:"gt=0"`

	// MaxPayloadBytes caps the size of a fetched payload.
	MaxPayloadBytes int64 `koanf:"max_payload_bytes" validate:"gt=0"`

	// PollIntervalSeconds drives the background pull. 0 disables it.
	PollIntervalSeconds int `koanf:"poll_interval_seconds" validate:"gte=0"`

	// HTTPLogMaxLen truncates logged upstream bodies.
	HTTPLogMaxLen int `koanf:"http_log_max_len" validate:"gte=0"`

	// AWSRegion and AWSProfile configure s3:// sources. Empty values defer to the SDK chain.
	AWSRegion  string `koanf:"aws_region"`
	AWSProfile string `koanf:"aws_profile"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		SourceURL:           "data/sales.csv",
		CacheTTLSeconds:     300,
		FetchTimeoutMS:      10_000,
		MaxPayloadBytes:     32 << 20,
		PollIntervalSeconds: 60,
		HTTPLogMaxLen:       2048,
	}
}

// CacheTTL returns the snapshot cache window.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// FetchTimeout returns the per-fetch timeout.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutMS) * time.Millisecond
}

// PollInterval returns the background pull interval; zero means disabled.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}
