package entities

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned when a session id is unknown or has been
// evicted.
var ErrSessionNotFound = errors.New("session not found")

// ErrInvalidArgument is returned for requests that fail validation.
var ErrInvalidArgument = errors.New("invalid argument")

// UpstreamError carries a non-success response from the LLM provider with
// its original status code and body preserved.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Body)
}
