package api

import (
	"errors"
	"fmt"
)

// Common errors returned by the client.
var (
	// ErrNotFound indicates the resource was not found.
	ErrNotFound = errors.New("not found")

	// ErrAuthError indicates an authentication error (missing/invalid API key).
	ErrAuthError = errors.New("authentication error")

	// ErrRateLimited indicates the rate limit has been exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrNetworkError indicates a network connectivity issue.
	ErrNetworkError = errors.New("network error reaching PaperPulse backend")

	// ErrInvalidResponse indicates an unexpected API response.
	ErrInvalidResponse = errors.New("invalid response from PaperPulse backend")

	// ErrNoUser indicates no user id was given or configured.
	ErrNoUser = errors.New("no user id configured")
)

// APIError represents an error response from the backend.
type APIError struct {
	StatusCode int
	Path       string // request path, for context
	Message    string
}

func (e *APIError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("PaperPulse API error (status %d, %s): %s", e.StatusCode, e.Path, e.Message)
	}
	return fmt.Sprintf("PaperPulse API error (status %d): %s", e.StatusCode, e.Message)
}

// IsNotFound returns true if the error indicates a resource was not found.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}
	return false
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
