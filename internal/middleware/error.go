package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/cozinhecomigo/recipes/backend/internal/types"
)

// ErrorHandler recovers from panics, logs them and answers with the generic
// internal error envelope.
func ErrorHandler(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.WithFields(logrus.Fields{
					"request_id": RequestIDFromContext(c),
					"path":       c.Request.URL.Path,
					"panic":      err,
				}).Error("recovered from panic")

				c.AbortWithStatusJSON(http.StatusInternalServerError, types.Response{
					StatusCode: types.StatusInternalError,
					Message:    "internal server error",
				})
			}
		}()
		c.Next()
	}
}

// NotFound answers unmatched routes with the standard envelope
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, types.Response{
			StatusCode: types.StatusNotFound,
			Message:    "route not found",
		})
	}
}
