package platform

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx response from the platform. It carries the numeric
// status code so callers can classify failures structurally instead of
// matching substrings in error text.
type APIError struct {
	StatusCode int
	Body       string
	Method     string
	Path       string
}

func (e *APIError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("API request failed: %s %s returned %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("API request failed: %s %s returned %d", e.Method, e.Path, e.StatusCode)
}

// NotFound reports whether the error is a 404.
func (e *APIError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// Forbidden reports whether the error is a 403.
func (e *APIError) Forbidden() bool {
	return e.StatusCode == http.StatusForbidden
}

// Conflict reports whether the error is a 409, typically "already exists".
func (e *APIError) Conflict() bool {
	return e.StatusCode == http.StatusConflict
}

// IsNotFound reports whether err represents a missing resource or absent
// optional endpoint. Typed APIErrors are checked by status code; errors
// from other layers fall back to the legacy "404" substring check.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.NotFound()
	}
	return strings.Contains(err.Error(), "404")
}

// IsRestricted reports whether err represents a permission-gated operation
// (403), with the same substring fallback for untyped errors.
func IsRestricted(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Forbidden()
	}
	return strings.Contains(err.Error(), "403")
}

// IsConflict reports whether err represents a resource that already exists.
func IsConflict(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Conflict()
}
