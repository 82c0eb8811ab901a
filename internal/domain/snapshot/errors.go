package snapshot

import (
	"errors"
	"fmt"
)

// Kind classifies why a load failed.
type Kind string

// Load failure kinds surfaced verbatim to callers.
const (
	KindSourceUnavailable Kind = "SOURCE_UNAVAILABLE"
	KindMalformedPayload  Kind = "MALFORMED_PAYLOAD"
	KindTypeError         Kind = "TYPE_ERROR"
)

// Sentinel kinds for this package. A *LoadError matches the sentinel of its Kind via errors.Is.
var (
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrMalformedPayload  = errors.New("malformed payload")
	ErrTypeError         = errors.New("invalid quantity")
)

func (k Kind) sentinel() error {
	switch k {
	case KindMalformedPayload:
		return ErrMalformedPayload
	case KindTypeError:
		return ErrTypeError
	default:
		return ErrSourceUnavailable
	}
}

// LoadError is the single structured error returned by Loader.Load.
type LoadError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *LoadError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.sentinel()}
	}
	return []error{e.Kind.sentinel(), e.Err}
}

func newLoadError(kind Kind, err error, format string, args ...any) *LoadError {
	return &LoadError{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// AsLoadError returns err as a *LoadError. Errors that did not originate in
// this package are reported as SOURCE_UNAVAILABLE. A nil error yields nil.
func AsLoadError(err error) *LoadError {
	if err == nil {
		return nil
	}
	var le *LoadError
	if errors.As(err, &le) {
		return le
	}
	return &LoadError{Kind: KindSourceUnavailable, Message: err.Error(), Err: err}
}
