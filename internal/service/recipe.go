package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cozinhecomigo/recipes/backend/internal/media"
	"github.com/cozinhecomigo/recipes/backend/internal/models"
)

// MaxPageSize is the largest page any list endpoint returns
const MaxPageSize = 200

// sortColumns whitelists the fields a list may be ordered by
var sortColumns = map[string]string{
	"title":           "title",
	"preparationTime": "preparation_time",
	"portions":        "portions",
	"createdAt":       "created_at",
	"reviewCount":     "review_count",
	"averageRating":   "average_rating",
}

// SortFields returns the accepted sortBy values
func SortFields() []string {
	return []string{"title", "preparationTime", "portions", "createdAt", "reviewCount", "averageRating"}
}

// RecipeFilter narrows, orders and pages a recipe listing. Nil pointers mean "no filter".
type RecipeFilter struct {
	PageSize   int
	PageNumber int

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

	SortBy         string
	SortDescending bool
	FullResult     bool
}

// Pagination describes which slice of a result set was returned
type Pagination struct {
	TotalItems int64
	PageNumber int
	PageSize   int
	TotalPages int
}

// RecipePage holds one page of a listing. Recipes is set when the filter asked
// for full results, Summaries otherwise.
type RecipePage struct {
	Pagination
	Recipes   []models.Recipe
	Summaries []models.RecipeSummary
}

// Items returns whichever projection the page holds
func (p *RecipePage) Items() interface{} {
	if p.Recipes != nil {
		return p.Recipes
	}
	return p.Summaries
}

// CreateRecipeInput carries the fields of a recipe being published
type CreateRecipeInput struct {
	UserID          uint
	Title           string
	Ingredients     []string
	Instructions    string
	ImageURL        string
	VideoURL        string
	IsPublic        bool
	Categories      []string
	Portions        *int
	PreparationTime *int
}

// RecipeService handles recipe operations
type RecipeService struct {
	db     *gorm.DB
	tokens TokenResolver
	media  media.Resolver
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, tokens TokenResolver, resolver media.Resolver) *RecipeService {
	if resolver == nil {
		resolver = media.PassthroughResolver{}
	}
	return &RecipeService{
		db:     db,
		tokens: tokens,
		media:  resolver,
	}
}

// ValidatePage checks the bounds shared by every paginated listing
func ValidatePage(pageSize, pageNumber int) error {
	if pageSize <= 0 || pageSize > MaxPageSize {
		return ErrInvalidPageSize
	}
	if pageNumber <= 0 {
		return ErrInvalidPageNumber
	}
	return nil
}

// TotalPages returns ceil(totalItems / pageSize)
func TotalPages(totalItems int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return int(math.Ceil(float64(totalItems) / float64(pageSize)))
}

// ListRecipes returns the page of recipes the caller is allowed to see that match the filter.
func (s *RecipeService) ListRecipes(ctx context.Context, filter RecipeFilter, callerToken string) (*RecipePage, error) {
	if err := ValidatePage(filter.PageSize, filter.PageNumber); err != nil {
		return nil, err
	}
	if filter.SortBy != "" {
		if _, ok := sortColumns[filter.SortBy]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSortField, filter.SortBy)
		}
	}

	caller, err := resolveCaller(ctx, s.tokens, callerToken)
	if err != nil {
		return nil, err
	}

	// Private listings are only available to their owner.
	if filter.IsPublic != nil && !*filter.IsPublic {
		if caller == nil || filter.UserID == nil || *filter.UserID != *caller {
			return nil, ErrOwnerMismatch
		}
	}

	scope := s.filterScope(caller, filter)

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count recipes: %w", err)
	}

	page := &RecipePage{Pagination: Pagination{
		TotalItems: total,
		PageNumber: filter.PageNumber,
		PageSize:   filter.PageSize,
		TotalPages: TotalPages(total, filter.PageSize),
	}}

	query := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Scopes(scope, orderScope(filter), paginate(filter.PageSize, filter.PageNumber))

	if filter.FullResult {
		recipes := []models.Recipe{}
		if err := query.Find(&recipes).Error; err != nil {
			return nil, fmt.Errorf("failed to list recipes: %w", err)
		}
		for i := range recipes {
			if err := s.resolveRecipeMedia(ctx, &recipes[i]); err != nil {
				return nil, err
			}
		}
		page.Recipes = recipes
		return page, nil
	}

	summaries := []models.RecipeSummary{}
	if err := query.Select(models.SummaryColumns).Find(&summaries).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	for i := range summaries {
		if err := s.resolve(ctx, &summaries[i].ImageURL); err != nil {
			return nil, err
		}
	}
	page.Summaries = summaries
	return page, nil
}

// filterScope applies the visibility predicate first, then every field filter.
func (s *RecipeService) filterScope(caller *uint, f RecipeFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if caller == nil {
			db = db.Where("recipes.is_public = ?", true)
		} else {
			db = db.Where("(recipes.is_public = ? OR recipes.user_id = ?)", true, *caller)
		}

		if title := strings.TrimSpace(f.TitleSearch); title != "" {
			db = db.Where(s.titleCondition(), "%"+escapeLike(strings.ToLower(title))+"%")
		}
		if f.MinPreparationTime != nil {
			db = db.Where("recipes.preparation_time >= ?", *f.MinPreparationTime)
		}
		if f.MaxPreparationTime != nil {
			db = db.Where("recipes.preparation_time <= ?", *f.MaxPreparationTime)
		}
		if f.MinRating != nil {
			db = db.Where("recipes.average_rating >= ?", *f.MinRating)
		}
		if f.MaxRating != nil {
			db = db.Where("recipes.average_rating <= ?", *f.MaxRating)
		}
		if f.MinPortions != nil {
			db = db.Where("recipes.portions >= ?", *f.MinPortions)
		}
		if f.MaxPortions != nil {
			db = db.Where("recipes.portions <= ?", *f.MaxPortions)
		}
		if f.UserID != nil {
			db = db.Where("recipes.user_id = ?", *f.UserID)
		}
		if categories := nonEmpty(f.Categories); len(categories) > 0 {
			db = db.Where(s.categoryCondition(), categories)
		}
		return db
	}
}

// titleCondition matches a case-insensitive substring. SQLite's LOWER only
// folds ASCII, so accented titles fold on Postgres alone.
func (s *RecipeService) titleCondition() string {
	if s.db.Dialector.Name() == "postgres" {
		return `recipes.title ILIKE ? ESCAPE '\'`
	}
	return `LOWER(recipes.title) LIKE ? ESCAPE '\'`
}

// categoryCondition matches recipes sharing at least one category with the argument list
func (s *RecipeService) categoryCondition() string {
	if s.db.Dialector.Name() == "postgres" {
		return "EXISTS (SELECT 1 FROM jsonb_array_elements_text(recipes.categories) AS c(value) WHERE c.value IN ?)"
	}
	return "EXISTS (SELECT 1 FROM json_each(recipes.categories) WHERE json_each.value IN ?)"
}

func orderScope(f RecipeFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if column, ok := sortColumns[f.SortBy]; ok {
			db = db.Order(clause.OrderByColumn{
				Column: clause.Column{Table: "recipes", Name: column},
				Desc:   f.SortDescending,
			})
		}
		// id keeps paging stable between requests
		return db.Order(clause.OrderByColumn{Column: clause.Column{Table: "recipes", Name: "id"}})
	}
}

func paginate(pageSize, pageNumber int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset((pageNumber - 1) * pageSize).Limit(pageSize)
	}
}

// GetRecipe loads a single recipe with its author. Private recipes are only
// returned to their owner.
func (s *RecipeService) GetRecipe(ctx context.Context, id uint, callerToken string) (*models.RecipeDetail, error) {
	recipe, err := loadReadableRecipe(ctx, s.db, s.tokens, id, callerToken)
	if err != nil {
		return nil, err
	}

	var author models.User
	err = s.db.WithContext(ctx).First(&author, recipe.UserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: recipe %d references user %d", ErrAuthorMissing, recipe.ID, recipe.UserID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load author: %w", err)
	}

	if err := s.resolveRecipeMedia(ctx, recipe); err != nil {
		return nil, err
	}
	detail := &models.RecipeDetail{Recipe: *recipe, Author: author.Public()}
	if err := s.resolve(ctx, &detail.Author.ProfilePictureURL); err != nil {
		return nil, err
	}
	return detail, nil
}

// CreateRecipe publishes a recipe owned by the caller
func (s *RecipeService) CreateRecipe(ctx context.Context, input CreateRecipeInput, callerToken string) (*models.Recipe, error) {
	if callerToken == "" {
		return nil, ErrAuthenticationRequired
	}
	caller, err := resolveCaller(ctx, s.tokens, callerToken)
	if err != nil {
		return nil, err
	}
	if input.UserID == 0 {
		input.UserID = *caller
	}
	if input.UserID != *caller {
		return nil, ErrOwnerMismatch
	}

	title := strings.TrimSpace(input.Title)
	instructions := strings.TrimSpace(input.Instructions)
	ingredients := nonEmpty(input.Ingredients)
	switch {
	case title == "":
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	case instructions == "":
		return nil, fmt.Errorf("%w: instructions are required", ErrInvalidInput)
	case len(ingredients) == 0:
		return nil, fmt.Errorf("%w: at least one ingredient is required", ErrInvalidInput)
	case input.Portions != nil && *input.Portions <= 0:
		return nil, fmt.Errorf("%w: portions must be greater than 0", ErrInvalidInput)
	case input.PreparationTime != nil && *input.PreparationTime <= 0:
		return nil, fmt.Errorf("%w: preparation time must be greater than 0", ErrInvalidInput)
	}

	recipe := models.Recipe{
		UserID:          input.UserID,
		Title:           title,
		Ingredients:     models.StringArray(ingredients),
		Instructions:    instructions,
		ImageURL:        strings.TrimSpace(input.ImageURL),
		VideoURL:        strings.TrimSpace(input.VideoURL),
		IsPublic:        input.IsPublic,
		Categories:      models.StringArray(nonEmpty(input.Categories)),
		Portions:        input.Portions,
		PreparationTime: input.PreparationTime,
	}
	if err := s.db.WithContext(ctx).Create(&recipe).Error; err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}
	return &recipe, nil
}

func (s *RecipeService) resolveRecipeMedia(ctx context.Context, r *models.Recipe) error {
	if err := s.resolve(ctx, &r.ImageURL); err != nil {
		return err
	}
	return s.resolve(ctx, &r.VideoURL)
}

func (s *RecipeService) resolve(ctx context.Context, ref *string) error {
	if *ref == "" {
		return nil
	}
	url, err := s.media.Resolve(ctx, *ref)
	if err != nil {
		return fmt.Errorf("failed to resolve media %q: %w", *ref, err)
	}
	*ref = url
	return nil
}

// loadReadableRecipe fetches a recipe and enforces its visibility. A token is
// only consulted when the recipe is private.
func loadReadableRecipe(ctx context.Context, db *gorm.DB, tokens TokenResolver, id uint, callerToken string) (*models.Recipe, error) {
	var recipe models.Recipe
	err := db.WithContext(ctx).First(&recipe, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecipeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	if recipe.IsPublic {
		return &recipe, nil
	}

	if callerToken == "" {
		return nil, ErrAuthenticationRequired
	}
	caller, err := resolveCaller(ctx, tokens, callerToken)
	if err != nil {
		return nil, err
	}
	if !recipe.VisibleTo(caller) {
		return nil, ErrForbidden
	}
	return &recipe, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
