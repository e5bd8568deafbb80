package client

import (
	"errors"
	"fmt"
)

// Status codes carried in the response envelope
const (
	StatusOK              = "OK"
	StatusValidationError = "VALIDATION_ERROR"
	StatusInvalidToken    = "INVALID_TOKEN"
	StatusUnauthorized    = "UNAUTHORIZED"
	StatusForbidden       = "FORBIDDEN"
	StatusNotFound        = "NOT_FOUND"
	StatusConflict        = "CONFLICT"
	StatusRateLimited     = "RATE_LIMITED"
	StatusInternalError   = "INTERNAL_ERROR"
)

// APIError is a non-OK answer from the API
type APIError struct {
	HTTPStatus int
	StatusCode string
	Message    string
	Details    map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d %s: %s", e.HTTPStatus, e.StatusCode, e.Message)
}

// IsInvalidToken reports whether err says the credentials sent were rejected
func IsInvalidToken(err error) bool {
	return hasStatus(err, StatusInvalidToken)
}

// IsNotFound reports whether err is a NOT_FOUND answer
func IsNotFound(err error) bool {
	return hasStatus(err, StatusNotFound)
}

func hasStatus(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}
