package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/cozinhecomigo/recipes/backend/internal/middleware"
	"github.com/cozinhecomigo/recipes/backend/internal/service"
	"github.com/cozinhecomigo/recipes/backend/internal/types"
	"github.com/cozinhecomigo/recipes/backend/internal/validation"
)

const internalErrorMessage = "internal server error"

// responder writes the response envelope and maps service errors onto it
type responder struct {
	log *logrus.Logger
}

func (r responder) ok(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, types.Response{
		StatusCode: types.StatusOK,
		Message:    message,
		Data:       data,
	})
}

func (r responder) page(c *gin.Context, data interface{}, p service.Pagination) {
	c.JSON(http.StatusOK, types.Response{
		StatusCode: types.StatusOK,
		Message:    "ok",
		Data:       data,
		TotalItems: &p.TotalItems,
		PageNumber: &p.PageNumber,
		PageSize:   &p.PageSize,
		TotalPages: &p.TotalPages,
	})
}

// bindError answers a request whose body or query could not be bound
func (r responder) bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, types.Response{
		StatusCode: types.StatusValidationError,
		Message:    "invalid request: " + validation.Summary(err),
		Details:    validation.ToDetails(err),
	})
}

// fail maps a service error to its status. Anything unrecognised is logged
// and reported without detail.
func (r responder) fail(c *gin.Context, err error) {
	status, code := classify(err)
	message := err.Error()
	if code == types.StatusInternalError {
		r.log.WithError(err).WithFields(logrus.Fields{
			"request_id": middleware.RequestIDFromContext(c),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
		}).Error("request failed")
		message = internalErrorMessage
	}
	c.JSON(status, types.Response{StatusCode: code, Message: message})
}

func classify(err error) (int, types.StatusCode) {
	switch {
	case service.IsValidation(err):
		return http.StatusBadRequest, types.StatusValidationError
	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized, types.StatusInvalidToken
	case errors.Is(err, service.ErrAuthenticationRequired), errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, types.StatusUnauthorized
	case errors.Is(err, service.ErrOwnerMismatch), errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, types.StatusForbidden
	case errors.Is(err, service.ErrRecipeNotFound), errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound, types.StatusNotFound
	case errors.Is(err, service.ErrEmailTaken):
		return http.StatusConflict, types.StatusConflict
	default:
		return http.StatusInternalServerError, types.StatusInternalError
	}
}

// idParam parses a positive numeric path parameter
func (r responder) idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, types.Response{
			StatusCode: types.StatusValidationError,
			Message:    "invalid " + name,
		})
		return 0, false
	}
	return uint(id), true
}
