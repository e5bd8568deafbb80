package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/cozinhecomigo/recipes/backend/internal/middleware"
	"github.com/cozinhecomigo/recipes/backend/internal/service"
	"github.com/cozinhecomigo/recipes/backend/internal/types"
)

type RecipeHandler struct {
	responder
	recipeService service.IRecipeService
	limiter       *middleware.RateLimiter
}

func NewRecipeHandler(recipeService service.IRecipeService, limiter *middleware.RateLimiter, log *logrus.Logger) *RecipeHandler {
	return &RecipeHandler{
		responder:     responder{log: log},
		recipeService: recipeService,
		limiter:       limiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/:id", h.GetRecipe)
		recipes.POST("", writeLimit(h.limiter), h.CreateRecipe)
	}
}

// ListRecipes handles GET /recipes
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	var q types.ListRecipesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.bindError(c, err)
		return
	}

	filter := service.RecipeFilter{
		PageSize:           q.PageSize,
		PageNumber:         q.PageNumber,
		TitleSearch:        q.TitleSearch,
		Categories:         q.CategoryList(),
		MinRating:          q.MinRating,
		MaxRating:          q.MaxRating,
		MinPreparationTime: q.MinPreparationTime,
		MaxPreparationTime: q.MaxPreparationTime,
		MinPortions:        q.MinPortions,
		MaxPortions:        q.MaxPortions,
		UserID:             q.UserID,
		IsPublic:           q.IsPublic,
		SortBy:             q.SortBy,
		SortDescending:     q.SortDescending,
		FullResult:         q.FullResult,
	}

	page, err := h.recipeService.ListRecipes(c.Request.Context(), filter, middleware.TokenFromContext(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	h.page(c, page.Items(), page.Pagination)
}

// GetRecipe handles GET /recipes/:id
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}

	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), id, middleware.TokenFromContext(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	h.ok(c, http.StatusOK, "ok", recipe)
}

// CreateRecipe handles POST /recipes
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	recipe, err := h.recipeService.CreateRecipe(c.Request.Context(), service.CreateRecipeInput{
		UserID:          req.UserID,
		Title:           req.Title,
		Ingredients:     req.Ingredients,
		Instructions:    req.Instructions,
		ImageURL:        req.ImageURL,
		VideoURL:        req.VideoURL,
		IsPublic:        req.IsPublic,
		Categories:      req.Categories,
		Portions:        req.Portions,
		PreparationTime: req.PreparationTime,
	}, middleware.TokenFromContext(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	h.ok(c, http.StatusCreated, "recipe created", recipe)
}
