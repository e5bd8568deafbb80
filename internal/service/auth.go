package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/cozinhecomigo/recipes/backend/internal/models"
)

const minPasswordLength = 6

// RegisterInput carries the fields of a new account
type RegisterInput struct {
	Name              string
	Email             string
	Password          string
	ProfilePictureURL string
	Biography         string
}

// AuthService manages accounts and the opaque tokens issued at login
type AuthService struct {
	db       *gorm.DB
	tokenTTL time.Duration
	now      func() time.Time
}

func NewAuthService(db *gorm.DB, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		db:       db,
		tokenTTL: tokenTTL,
		now:      time.Now,
	}
}

// WithClock replaces the time source used for token expiry
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: email is invalid", ErrInvalidInput)
	}
	if len(input.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters long", ErrInvalidInput, minPasswordLength)
	}

	// Check if user already exists
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Name:              name,
		Email:             email,
		PasswordHash:      string(hashedPassword),
		ProfilePictureURL: strings.TrimSpace(input.ProfilePictureURL),
		Biography:         strings.TrimSpace(input.Biography),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// Login checks the credentials and issues a new token valid for the configured TTL
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.Token, *models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	now := s.now()
	token := models.Token{
		Code:      uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.tokenTTL),
	}
	if err := s.db.WithContext(ctx).Create(&token).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to store token: %w", err)
	}

	return &token, &user, nil
}

// Logout revokes the token
func (s *AuthService) Logout(ctx context.Context, code string) error {
	if code == "" {
		return ErrAuthenticationRequired
	}
	res := s.db.WithContext(ctx).Where("code = ?", code).Delete(&models.Token{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete token: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrInvalidToken
	}
	return nil
}

// ResolveToken returns the stored token, or ErrInvalidToken when it is unknown or expired
func (s *AuthService) ResolveToken(ctx context.Context, code string) (*models.Token, error) {
	var token models.Token
	err := s.db.WithContext(ctx).Where("code = ?", code).First(&token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load token: %w", err)
	}
	if token.Expired(s.now()) {
		return nil, ErrInvalidToken
	}
	return &token, nil
}

func (s *AuthService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// resolveCaller returns nil for an anonymous caller. A non-empty token that
// cannot be resolved is an error, never a fallback to anonymous.
func resolveCaller(ctx context.Context, tokens TokenResolver, code string) (*uint, error) {
	if code == "" {
		return nil, nil
	}
	token, err := tokens.ResolveToken(ctx, code)
	if err != nil {
		return nil, err
	}
	id := token.UserID
	return &id, nil
}
