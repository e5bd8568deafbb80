package client

import "time"

// User is an account as returned to its owner
type User struct {
	ID                uint      `json:"id"`
	CreatedAt         time.Time `json:"createdAt"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	ProfilePictureURL string    `json:"profilePictureUrl,omitempty"`
	Biography         string    `json:"biography,omitempty"`
}

// Author is the public profile shown next to recipes and comments
type Author struct {
	ID                uint   `json:"id"`
	Name              string `json:"name"`
	ProfilePictureURL string `json:"profilePictureUrl,omitempty"`
	Biography         string `json:"biography,omitempty"`
}

// Recipe is a full recipe
type Recipe struct {
	ID              uint      `json:"id"`
	UserID          uint      `json:"userId"`
	Title           string    `json:"title"`
	Ingredients     []string  `json:"ingredients"`
	Instructions    string    `json:"instructions"`
	ImageURL        string    `json:"imageUrl,omitempty"`
	VideoURL        string    `json:"videoUrl,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	ReviewCount     int       `json:"reviewCount"`
	AverageRating   float64   `json:"averageRating"`
	IsPublic        bool      `json:"isPublic"`
	Categories      []string  `json:"categories"`
	Portions        *int      `json:"portions,omitempty"`
	PreparationTime *int      `json:"preparationTime,omitempty"`
}

// RecipeSummary is the reduced recipe of a listing
type RecipeSummary struct {
	ID              uint     `json:"id"`
	Title           string   `json:"title"`
	AverageRating   float64  `json:"averageRating"`
	PreparationTime *int     `json:"preparationTime,omitempty"`
	Categories      []string `json:"categories"`
	ImageURL        string   `json:"imageUrl,omitempty"`
}

// RecipeDetail is a recipe with its author
type RecipeDetail struct {
	Recipe
	Author Author `json:"author"`
}

// Comment is a rated review with its author
type Comment struct {
	ID        uint      `json:"id"`
	RecipeID  uint      `json:"recipeId"`
	UserID    uint      `json:"userId"`
	Rating    int       `json:"rating"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	Author    *Author   `json:"author,omitempty"`
}

// Page is the pagination block of a listing
type Page struct {
	TotalItems int64
	PageNumber int
	PageSize   int
	TotalPages int
}

// RecipePage holds Summaries, or Recipes when the query asked for full results
type RecipePage struct {
	Page
	Summaries []RecipeSummary
	Recipes   []Recipe
}

// CommentPage is one page of a recipe's comments
type CommentPage struct {
	Page
	Comments []Comment
}

// RegisterRequest is the payload of a new account
type RegisterRequest struct {
	Name              string `json:"name"`
	Email             string `json:"email"`
	Password          string `json:"password"`
	ProfilePictureURL string `json:"profilePictureUrl,omitempty"`
	Biography         string `json:"biography,omitempty"`
}

// NewRecipe is the payload of a recipe being published. UserID may be left
// zero to publish as the signed in user.
type NewRecipe struct {
	UserID          uint     `json:"userId,omitempty"`
	Title           string   `json:"title"`
	Ingredients     []string `json:"ingredients"`
	Instructions    string   `json:"instructions"`
	ImageURL        string   `json:"imageUrl,omitempty"`
	VideoURL        string   `json:"videoUrl,omitempty"`
	IsPublic        bool     `json:"isPublic"`
	Categories      []string `json:"categories,omitempty"`
	Portions        *int     `json:"portions,omitempty"`
	PreparationTime *int     `json:"preparationTime,omitempty"`
}

// NewComment is the payload of a review
type NewComment struct {
	UserID  uint   `json:"userId,omitempty"`
	Rating  int    `json:"rating"`
	Content string `json:"content,omitempty"`
}

// RecipeQuery filters a recipe listing. Zero values and nil pointers are not sent.
type RecipeQuery struct {
	PageSize           int
	PageNumber         int
	TitleSearch        string
	Categories         []string
	MinRating          *float64
	MaxRating          *float64
	MinPreparationTime *int
	MaxPreparationTime *int
	MinPortions        *int
	MaxPortions        *int
	UserID             *uint
	IsPublic           *bool
	SortBy             string
	SortDescending     bool
	FullResult         bool
}
