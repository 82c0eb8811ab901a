package source

import "errors"

// Sentinel errors returned by fetchers. Callers match them with errors.Is.
var (
	ErrUnsupportedScheme = errors.New("unsupported source scheme")
	ErrBadStatus         = errors.New("unexpected response status")
	ErrPayloadTooLarge   = errors.New("payload exceeds size limit")
	ErrInvalidSource     = errors.New("invalid source")
)
