package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/cozinhecomigo/recipes/backend/internal/database"
	"github.com/cozinhecomigo/recipes/backend/internal/middleware"
	"github.com/cozinhecomigo/recipes/backend/internal/service"
	"github.com/cozinhecomigo/recipes/backend/internal/types"
)

// Dependencies are the collaborators the HTTP layer is built from
type Dependencies struct {
	DB             *gorm.DB
	AuthService    service.IAuthService
	RecipeService  service.IRecipeService
	CommentService service.ICommentService
	// WriteLimiter guards endpoints that create data. Nil disables it.
	WriteLimiter *middleware.RateLimiter
	Log          *logrus.Logger
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	// Health check endpoint (no auth required)
	router.GET("/health", HealthCheck(deps.DB))

	v1 := router.Group("/api/v1")
	v1.Use(middleware.CallerToken())

	NewAuthHandler(deps.AuthService, deps.WriteLimiter, deps.Log).RegisterRoutes(v1)
	NewRecipeHandler(deps.RecipeService, deps.WriteLimiter, deps.Log).RegisterRoutes(v1)
	NewCommentHandler(deps.CommentService, deps.WriteLimiter, deps.Log).RegisterRoutes(v1)
}

// HealthCheck reports whether the API and its database are reachable
func HealthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := database.HealthCheck(ctx, db); err != nil {
			c.JSON(http.StatusServiceUnavailable, types.Response{
				StatusCode: types.StatusInternalError,
				Message:    "database unavailable",
				Data:       gin.H{"status": "unhealthy"},
			})
			return
		}

		c.JSON(http.StatusOK, types.Response{
			StatusCode: types.StatusOK,
			Message:    "ok",
			Data:       gin.H{"status": "healthy"},
		})
	}
}

func writeLimit(limiter *middleware.RateLimiter) gin.HandlerFunc {
	if limiter == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return limiter.RateLimitMiddleware()
}
