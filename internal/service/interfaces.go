package service

import (
	"context"

	"github.com/cozinhecomigo/recipes/backend/internal/models"
)

// TokenResolver maps an opaque token to its stored record
type TokenResolver interface {
	ResolveToken(ctx context.Context, code string) (*models.Token, error)
}

// IAuthService defines the interface for account and session operations
type IAuthService interface {
	TokenResolver
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.Token, *models.User, error)
	Logout(ctx context.Context, code string) error
	GetUser(ctx context.Context, id uint) (*models.User, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	ListRecipes(ctx context.Context, filter RecipeFilter, callerToken string) (*RecipePage, error)
	GetRecipe(ctx context.Context, id uint, callerToken string) (*models.RecipeDetail, error)
	CreateRecipe(ctx context.Context, input CreateRecipeInput, callerToken string) (*models.Recipe, error)
}

// ICommentService defines the interface for review operations
type ICommentService interface {
	ListComments(ctx context.Context, recipeID uint, pageSize, pageNumber int, callerToken string) (*CommentPage, error)
	CreateComment(ctx context.Context, input CreateCommentInput, callerToken string) (*models.CommentWithAuthor, error)
}
