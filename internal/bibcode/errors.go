package bibcode

import (
	"errors"
	"fmt"
)

// Common errors returned by generators.
var (
	// ErrMissingYear indicates the record has no usable publication year.
	ErrMissingYear = errors.New("no publication year for bibcode")

	// ErrMissingBibstem indicates no bibstem was given or could be resolved.
	ErrMissingBibstem = errors.New("no bibstem for bibcode")

	// ErrMissingPage indicates the record has no page or electronic id.
	ErrMissingPage = errors.New("no page or electronic id for bibcode")

	// ErrInvalidPage indicates a page that cannot be packed into a bibcode.
	ErrInvalidPage = errors.New("page cannot be encoded in a bibcode")

	// ErrAuthError indicates a missing or rejected API token.
	ErrAuthError = errors.New("bibcode service authentication error")

	// ErrRateLimited indicates the service rate limit has been exceeded.
	ErrRateLimited = errors.New("bibcode service rate limit exceeded")

	// ErrNetworkError indicates a network connectivity issue.
	ErrNetworkError = errors.New("network error communicating with bibcode service")

	// ErrInvalidResponse indicates an unexpected service response.
	ErrInvalidResponse = errors.New("invalid response from bibcode service")
)

// APIError represents an error reported by the remote bibcode service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("bibcode service error (status %d): %s", e.StatusCode, e.Message)
}

// IsAuthError returns true if the error indicates an authentication problem.
func IsAuthError(err error) bool {
	if errors.Is(err, ErrAuthError) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 401 || apiErr.StatusCode == 403
	}
	return false
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429
	}
	return false
}
