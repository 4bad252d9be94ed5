package ticketmaster

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is wrapped by errors for a detail request whose event does
// not exist upstream.
var ErrNotFound = errors.New("event not found")

// NetworkError is a failed API request. StatusCode is 0 when no response
// was received.
type NetworkError struct {
	StatusCode int
	Status     string
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("api request failed: %v", e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("api request failed: %s: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("api request failed: %s", e.Status)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Retryable reports whether repeating the request might succeed: transport
// failures, rate limiting and server errors.
func (e *NetworkError) Retryable() bool {
	return e.StatusCode == 0 ||
		e.StatusCode == http.StatusTooManyRequests ||
		e.StatusCode >= http.StatusInternalServerError
}

// IsNotFound reports whether err means the requested event does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// StatusCode extracts the HTTP status from err, or 0.
func StatusCode(err error) int {
	var ne *NetworkError
	if errors.As(err, &ne) {
		return ne.StatusCode
	}
	return 0
}
