package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for the fetch pipeline. Handlers and pollers branch on these
// with errors.Is/errors.As; they are never surfaced as raw strings.
var (
	// ErrNotConfigured means no exchange credentials are present in the session store.
	ErrNotConfigured = errors.New("exchange credentials not configured")

	// ErrUnauthenticated means credentials exist but were rejected or never verified.
	ErrUnauthenticated = errors.New("exchange credentials rejected")
)

// UpstreamError reports a remote call that completed with a non-success status.
type UpstreamError struct {
	Source string
	Status int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: upstream status %d", e.Source, e.Status)
}

// NetworkError reports a remote call that did not complete at all.
type NetworkError struct {
	Source string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network failure: %v", e.Source, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ParseError reports an upstream payload that could not be decoded into the
// expected shape. It isolates downstream code from upstream schema drift.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: parse failure: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ErrorCode maps a fetch error to a stable machine-readable code for API
// responses. Unknown errors map to ERR_INTERNAL.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotConfigured):
		return "ERR_NOT_CONFIGURED"
	case errors.Is(err, ErrUnauthenticated):
		return "ERR_UNAUTHENTICATED"
	default:
		var ue *UpstreamError
		if errors.As(err, &ue) {
			return "ERR_UPSTREAM"
		}
		var ne *NetworkError
		if errors.As(err, &ne) {
			return "ERR_NETWORK"
		}
		var pe *ParseError
		if errors.As(err, &pe) {
			return "ERR_PARSE"
		}
		return "ERR_INTERNAL"
	}
}
