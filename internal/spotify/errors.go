package spotify

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrInvalidRequest marks requests rejected before reaching the API.
var ErrInvalidRequest = errors.New("spotify: invalid request")

// APIError is a non-2xx response from the catalog API. Callers should prefer
// the predicates (IsNotFound, IsUnauthorized, IsRateLimited) over asserting on
// the type.
type APIError struct {
	operation  string
	statusCode int
	message    string
	retryAfter time.Duration
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: HTTP %d: %s", e.operation, e.statusCode, e.message)
}

// StatusCode returns the HTTP status code from the response.
func (e *APIError) StatusCode() int { return e.statusCode }

// Message returns the message from the error body, or the status text.
func (e *APIError) Message() string { return e.message }

// Operation returns a short description of the call that failed.
func (e *APIError) Operation() string { return e.operation }

// RetryAfter returns the server-requested backoff for 429 responses.
func (e *APIError) RetryAfter() time.Duration { return e.retryAfter }

// IsNotFound reports whether err is an API error with HTTP 404 status.
func IsNotFound(err error) bool { return HasStatusCode(err, http.StatusNotFound) }

// IsUnauthorized reports whether err is an API error with HTTP 401 status.
func IsUnauthorized(err error) bool { return HasStatusCode(err, http.StatusUnauthorized) }

// IsRateLimited reports whether err is an API error with HTTP 429 status.
func IsRateLimited(err error) bool { return HasStatusCode(err, http.StatusTooManyRequests) }

// HasStatusCode reports whether err is an API error whose HTTP status code matches.
func HasStatusCode(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.statusCode == code
}
