package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/cozinhecomigo/recipes/backend/internal/metrics"
	"github.com/cozinhecomigo/recipes/backend/internal/middleware"
	"github.com/cozinhecomigo/recipes/backend/internal/service"
	"github.com/cozinhecomigo/recipes/backend/internal/types"
)

// AuthHandler serves account and session endpoints
type AuthHandler struct {
	responder
	authService service.IAuthService
	limiter     *middleware.RateLimiter
}

func NewAuthHandler(authService service.IAuthService, limiter *middleware.RateLimiter, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		responder:   responder{log: log},
		authService: authService,
		limiter:     limiter,
	}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.POST("", writeLimit(h.limiter), h.Register)
		users.POST("/login", writeLimit(h.limiter), h.Login)
		users.POST("/logout", h.Logout)
		users.GET("/:id", h.GetUser)
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		Name:              req.Name,
		Email:             req.Email,
		Password:          req.Password,
		ProfilePictureURL: req.ProfilePictureURL,
		Biography:         req.Biography,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	h.ok(c, http.StatusCreated, "user created", user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	metrics.RecordLogin(err == nil)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.ok(c, http.StatusOK, "logged in", types.LoginResponse{
		Token:     token.Code,
		ExpiresAt: token.ExpiresAt,
		User:      user,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), middleware.TokenFromContext(c)); err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, "logged out", nil)
}

func (h *AuthHandler) GetUser(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.ok(c, http.StatusOK, "ok", types.UserProfileResponse{
		Author:    user.Public(),
		CreatedAt: user.CreatedAt,
	})
}
