package cli

import "errors"

var (
	// ErrCarrierNotFound is returned by show --carrier for a carrier absent from the snapshot.
	ErrCarrierNotFound = errors.New("carrier not found")
	// ErrInvalidInterval is returned by watch for a non-positive interval.
	ErrInvalidInterval = errors.New("interval must be positive")
)
