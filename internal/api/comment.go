package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/cozinhecomigo/recipes/backend/internal/middleware"
	"github.com/cozinhecomigo/recipes/backend/internal/service"
	"github.com/cozinhecomigo/recipes/backend/internal/types"
)

type CommentHandler struct {
	responder
	commentService service.ICommentService
	limiter        *middleware.RateLimiter
}

func NewCommentHandler(commentService service.ICommentService, limiter *middleware.RateLimiter, log *logrus.Logger) *CommentHandler {
	return &CommentHandler{
		responder:      responder{log: log},
		commentService: commentService,
		limiter:        limiter,
	}
}

func (h *CommentHandler) RegisterRoutes(router *gin.RouterGroup) {
	comments := router.Group("/recipes/:id/comments")
	{
		comments.GET("", h.ListComments)
		comments.POST("", writeLimit(h.limiter), h.CreateComment)
	}
}

func (h *CommentHandler) ListComments(c *gin.Context) {
	recipeID, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	var q types.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.bindError(c, err)
		return
	}

	page, err := h.commentService.ListComments(c.Request.Context(), recipeID, q.PageSize, q.PageNumber, middleware.TokenFromContext(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	h.page(c, page.Items, page.Pagination)
}

func (h *CommentHandler) CreateComment(c *gin.Context) {
	recipeID, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	var req types.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	comment, err := h.commentService.CreateComment(c.Request.Context(), service.CreateCommentInput{
		RecipeID: recipeID,
		UserID:   req.UserID,
		Rating:   req.Rating,
		Content:  req.Content,
	}, middleware.TokenFromContext(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	h.ok(c, http.StatusCreated, "comment created", comment)
}
