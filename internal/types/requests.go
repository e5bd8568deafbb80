package types

import "strings"

// RegisterRequest represents the request body for creating an account
type RegisterRequest struct {
	Name              string `json:"name" binding:"required,max=120"`
	Email             string `json:"email" binding:"required,email"`
	Password          string `json:"password" binding:"required,min=6"`
	ProfilePictureURL string `json:"profilePictureUrl" binding:"omitempty,url"`
	Biography         string `json:"biography" binding:"max=2000"`
}

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ListRecipesQuery represents the query string of a recipe listing.
// Page bounds are checked by the service so the error names the bad value.
type ListRecipesQuery struct {
	PageSize           int      `form:"pageSize"`
	PageNumber         int      `form:"pageNumber"`
	TitleSearch        string   `form:"titleSearch" binding:"max=255"`
	Categories         []string `form:"categories"`
	MinRating          *float64 `form:"minRating" binding:"omitempty,gte=0,lte=5"`
	MaxRating          *float64 `form:"maxRating" binding:"omitempty,gte=0,lte=5"`
	MinPreparationTime *int     `form:"minPreparationTime" binding:"omitempty,gte=0"`
	MaxPreparationTime *int     `form:"maxPreparationTime" binding:"omitempty,gte=0"`
	MinPortions        *int     `form:"minPortions" binding:"omitempty,gte=0"`
	MaxPortions        *int     `form:"maxPortions" binding:"omitempty,gte=0"`
	UserID             *uint    `form:"userId"`
	IsPublic           *bool    `form:"isPublic"`
	SortBy             string   `form:"sortBy" binding:"omitempty,oneof=title preparationTime portions createdAt reviewCount averageRating"`
	SortDescending     bool     `form:"sortDescending"`
	FullResult         bool     `form:"fullResult"`
}

// CategoryList accepts both repeated and comma separated categories
func (q *ListRecipesQuery) CategoryList() []string {
	var out []string
	for _, c := range q.Categories {
		for _, part := range strings.Split(c, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// PageQuery represents the paging parameters of a simple listing
type PageQuery struct {
	PageSize   int `form:"pageSize"`
	PageNumber int `form:"pageNumber"`
}

// CreateRecipeRequest represents the request body for publishing a recipe
type CreateRecipeRequest struct {
	UserID          uint     `json:"userId"`
	Title           string   `json:"title" binding:"required,max=255"`
	Ingredients     []string `json:"ingredients" binding:"required,min=1"`
	Instructions    string   `json:"instructions" binding:"required"`
	ImageURL        string   `json:"imageUrl" binding:"omitempty,max=512"`
	VideoURL        string   `json:"videoUrl" binding:"omitempty,max=512"`
	IsPublic        bool     `json:"isPublic"`
	Categories      []string `json:"categories"`
	Portions        *int     `json:"portions" binding:"omitempty,gt=0"`
	PreparationTime *int     `json:"preparationTime" binding:"omitempty,gt=0"`
}

// CreateCommentRequest represents the request body for reviewing a recipe
type CreateCommentRequest struct {
	UserID  uint   `json:"userId"`
	Rating  int    `json:"rating" binding:"required,gte=1,lte=5"`
	Content string `json:"content" binding:"max=2000"`
}
