package upstream

import (
	"errors"
	"fmt"
)

var (
	ErrNetwork      = errors.New("network failure")
	ErrRateLimited  = errors.New("rate limited")
	ErrUnauthorized = errors.New("unauthorized or data not available")
	ErrDecode       = errors.New("decode failure")
	ErrNotFound     = errors.New("not found")
)

// Error describes a failed request against an upstream source. It matches
// one of the sentinel errors above via errors.Is.
type Error struct {
	Source     string
	Path       string
	StatusCode int // 0 if no response was received
	Kind       error
	Err        error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s %s: %v", e.Source, e.Path, e.Kind)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Retryable reports whether a request failing with err may succeed when
// repeated later. Rate limits and network failures are retryable,
// authorization, absence and decoding failures are not.
func Retryable(err error) bool {
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrNetwork)
}

// IsAbsent reports whether err signals legitimately missing data.
func IsAbsent(err error) bool {
	return errors.Is(err, ErrNotFound)
}
