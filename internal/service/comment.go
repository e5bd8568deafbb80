package service

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cozinhecomigo/recipes/backend/internal/media"
	"github.com/cozinhecomigo/recipes/backend/internal/models"
)

const (
	MinRating = 1
	MaxRating = 5
)

// CreateCommentInput carries a new review
type CreateCommentInput struct {
	RecipeID uint
	UserID   uint
	Rating   int
	Content  string
}

// CommentPage holds one page of reviews, newest first
type CommentPage struct {
	Pagination
	Items []models.CommentWithAuthor
}

// CommentService handles recipe reviews and keeps each recipe's rating aggregate current
type CommentService struct {
	db     *gorm.DB
	tokens TokenResolver
	media  media.Resolver
}

func NewCommentService(db *gorm.DB, tokens TokenResolver, resolver media.Resolver) *CommentService {
	if resolver == nil {
		resolver = media.PassthroughResolver{}
	}
	return &CommentService{db: db, tokens: tokens, media: resolver}
}

// CreateComment stores a review and recomputes the recipe's review count and
// average rating in the same transaction, holding the recipe row lock.
func (s *CommentService) CreateComment(ctx context.Context, input CreateCommentInput, callerToken string) (*models.CommentWithAuthor, error) {
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
	if input.Rating < MinRating || input.Rating > MaxRating {
		return nil, fmt.Errorf("%w: rating must be between %d and %d", ErrInvalidInput, MinRating, MaxRating)
	}

	comment := models.Comment{
		RecipeID: input.RecipeID,
		UserID:   input.UserID,
		Rating:   input.Rating,
		Content:  strings.TrimSpace(input.Content),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := loadReadableRecipe(ctx, tx, s.tokens, input.RecipeID, callerToken); err != nil {
			return err
		}
		// Reviews of one recipe are serialized on its row so the aggregate
		// below always counts every committed comment.
		var locked models.Recipe
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&locked, input.RecipeID).Error; err != nil {
			return fmt.Errorf("failed to lock recipe: %w", err)
		}
		if err := tx.Create(&comment).Error; err != nil {
			return fmt.Errorf("failed to create comment: %w", err)
		}

		var agg struct {
			ReviewCount   int
			AverageRating float64
		}
		err := tx.Model(&models.Comment{}).
			Select("COUNT(*) AS review_count, CAST(COALESCE(AVG(rating), 0) AS FLOAT) AS average_rating").
			Where("recipe_id = ?", input.RecipeID).
			Scan(&agg).Error
		if err != nil {
			return fmt.Errorf("failed to aggregate ratings: %w", err)
		}

		return tx.Model(&models.Recipe{}).Where("id = ?", input.RecipeID).Updates(map[string]interface{}{
			"review_count":   agg.ReviewCount,
			"average_rating": agg.AverageRating,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	authors, err := s.authors(ctx, []uint{comment.UserID})
	if err != nil {
		return nil, err
	}
	return &models.CommentWithAuthor{Comment: comment, Author: authors[comment.UserID]}, nil
}

// ListComments returns one page of the reviews of a recipe the caller may read
func (s *CommentService) ListComments(ctx context.Context, recipeID uint, pageSize, pageNumber int, callerToken string) (*CommentPage, error) {
	if err := ValidatePage(pageSize, pageNumber); err != nil {
		return nil, err
	}
	if _, err := loadReadableRecipe(ctx, s.db, s.tokens, recipeID, callerToken); err != nil {
		return nil, err
	}

	byRecipe := func(db *gorm.DB) *gorm.DB {
		return db.Where("recipe_id = ?", recipeID)
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Comment{}).Scopes(byRecipe).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count comments: %w", err)
	}

	var comments []models.Comment
	err := s.db.WithContext(ctx).Scopes(byRecipe, paginate(pageSize, pageNumber)).
		Order("created_at DESC").Order("id DESC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	ids := make([]uint, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.UserID)
	}
	authors, err := s.authors(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]models.CommentWithAuthor, 0, len(comments))
	for _, c := range comments {
		items = append(items, models.CommentWithAuthor{Comment: c, Author: authors[c.UserID]})
	}

	return &CommentPage{
		Pagination: Pagination{
			TotalItems: total,
			PageNumber: pageNumber,
			PageSize:   pageSize,
			TotalPages: TotalPages(total, pageSize),
		},
		Items: items,
	}, nil
}

func (s *CommentService) authors(ctx context.Context, ids []uint) (map[uint]*models.Author, error) {
	out := make(map[uint]*models.Author, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []models.User
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to load authors: %w", err)
	}
	for i := range users {
		author := users[i].Public()
		if author.ProfilePictureURL != "" {
			url, err := s.media.Resolve(ctx, author.ProfilePictureURL)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve media %q: %w", author.ProfilePictureURL, err)
			}
			author.ProfilePictureURL = url
		}
		out[author.ID] = &author
	}
	return out, nil
}
