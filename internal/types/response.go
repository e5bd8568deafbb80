package types

import (
	"time"

	"github.com/cozinhecomigo/recipes/backend/internal/models"
)

// StatusCode is the application level outcome carried in every response body
type StatusCode string

const (
	StatusOK              StatusCode = "OK"
	StatusValidationError StatusCode = "VALIDATION_ERROR"
	StatusInvalidToken    StatusCode = "INVALID_TOKEN"
	StatusUnauthorized    StatusCode = "UNAUTHORIZED"
	StatusForbidden       StatusCode = "FORBIDDEN"
	StatusNotFound        StatusCode = "NOT_FOUND"
	StatusConflict        StatusCode = "CONFLICT"
	StatusRateLimited     StatusCode = "RATE_LIMITED"
	StatusInternalError   StatusCode = "INTERNAL_ERROR"
)

// Response is the envelope of every API response. Pagination fields are only
// present on listings.
type Response struct {
	StatusCode StatusCode        `json:"statusCode"`
	Message    string            `json:"message"`
	Data       interface{}       `json:"data"`
	Details    map[string]string `json:"details,omitempty"`
	TotalItems *int64            `json:"totalItems,omitempty"`
	PageNumber *int              `json:"pageNumber,omitempty"`
	PageSize   *int              `json:"pageSize,omitempty"`
	TotalPages *int              `json:"totalPages,omitempty"`
}

// LoginResponse is the data of a successful login
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

// UserProfileResponse is the public view of an account
type UserProfileResponse struct {
	models.Author
	CreatedAt time.Time `json:"createdAt"`
}
