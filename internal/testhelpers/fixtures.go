package testhelpers

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/cozinhecomigo/recipes/backend/internal/models"
)

// TestPassword is the password of every user created by CreateTestUser
const TestPassword = "testpassword123"

var userSeq atomic.Int64

// CreateTestUser creates a user with a unique email and TestPassword
func CreateTestUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Name:         name,
		Email:        fmt.Sprintf("testuser+%d@example.com", userSeq.Add(1)),
		PasswordHash: string(hashed),
		Biography:    "Cozinheiro de fim de semana",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestToken stores a token for the user expiring at expiresAt
func CreateTestToken(t *testing.T, db *gorm.DB, userID uint, expiresAt time.Time) string {
	t.Helper()

	token := &models.Token{
		Code:      uuid.NewString(),
		UserID:    userID,
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
	}
	if err := db.Create(token).Error; err != nil {
		t.Fatalf("failed to create test token: %v", err)
	}
	return token.Code
}

// RecipeOption customises a recipe built by CreateTestRecipe
type RecipeOption func(*models.Recipe)

func WithTitle(title string) RecipeOption {
	return func(r *models.Recipe) { r.Title = title }
}

func Private() RecipeOption {
	return func(r *models.Recipe) { r.IsPublic = false }
}

func WithCategories(categories ...string) RecipeOption {
	return func(r *models.Recipe) { r.Categories = categories }
}

func WithRating(rating float64, reviews int) RecipeOption {
	return func(r *models.Recipe) {
		r.AverageRating = rating
		r.ReviewCount = reviews
	}
}

func WithPreparationTime(minutes int) RecipeOption {
	return func(r *models.Recipe) { r.PreparationTime = &minutes }
}

func WithPortions(portions int) RecipeOption {
	return func(r *models.Recipe) { r.Portions = &portions }
}

func WithImage(url string) RecipeOption {
	return func(r *models.Recipe) { r.ImageURL = url }
}

// CreateTestRecipe creates a public recipe owned by userID
func CreateTestRecipe(t *testing.T, db *gorm.DB, userID uint, opts ...RecipeOption) *models.Recipe {
	t.Helper()

	recipe := &models.Recipe{
		UserID:       userID,
		Title:        "Test Recipe",
		Ingredients:  models.StringArray{"ingredient1", "ingredient2"},
		Instructions: "Mix and cook.",
		IsPublic:     true,
		Categories:   models.StringArray{},
	}
	for _, opt := range opts {
		opt(recipe)
	}

	if err := db.Create(recipe).Error; err != nil {
		t.Fatalf("failed to create test recipe: %v", err)
	}
	return recipe
}
