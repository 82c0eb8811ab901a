package export

import "errors"

var (
	// ErrUnsupportedFormat is returned for an export format that has no writer.
	ErrUnsupportedFormat = errors.New("unsupported export format")
	// ErrNoName is returned when an export is requested without a base file name.
	ErrNoName = errors.New("export name is required")
)
