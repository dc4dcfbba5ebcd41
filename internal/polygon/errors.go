package polygon

import (
	"errors"
	"fmt"
)

var (
	// ErrNoAPIKey is returned for every request when no key is configured.
	ErrNoAPIKey = errors.New("POLYGON_API_KEY or POLYGON_API_KEYS not set")
	// ErrRateLimited matches a FetchError whose 429 retries ran out.
	ErrRateLimited = errors.New("rate limited")
)

// ErrorKind classifies a failed fetch.
type ErrorKind string

const (
	KindTransport   ErrorKind = "transport"
	KindStatus      ErrorKind = "status"
	KindRateLimited ErrorKind = "rate_limited"
	KindDecode      ErrorKind = "decode"
	KindNoKey       ErrorKind = "no_key"
)

// FetchError is the typed failure surfaced by strict call sites.
type FetchError struct {
	Endpoint   Endpoint
	Kind       ErrorKind
	StatusCode int
	Body       string
	Err        error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("%s: API status %d: %s", e.Endpoint, e.StatusCode, e.Body)
	case KindRateLimited:
		return fmt.Sprintf("%s: API rate limit (429): %v", e.Endpoint, e.Err)
	default:
		return fmt.Sprintf("%s: %s: %v", e.Endpoint, e.Kind, e.Err)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is reports rate-limit exhaustion as ErrRateLimited.
func (e *FetchError) Is(target error) bool {
	return target == ErrRateLimited && e.Kind == KindRateLimited
}
