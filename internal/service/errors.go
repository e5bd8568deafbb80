package service

import "errors"

var (
	ErrInvalidPageSize   = errors.New("invalid page size")
	ErrInvalidPageNumber = errors.New("invalid page number")
	ErrInvalidSortField  = errors.New("invalid sort field")
	ErrInvalidInput      = errors.New("invalid input")

	ErrInvalidToken           = errors.New("invalid or expired token")
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrOwnerMismatch          = errors.New("owner mismatch")
	ErrForbidden              = errors.New("forbidden")

	ErrRecipeNotFound = errors.New("recipe not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrEmailTaken     = errors.New("email already registered")

	// ErrAuthorMissing means a recipe references a user that does not exist.
	ErrAuthorMissing = errors.New("recipe author not found")
)

// IsValidation reports whether err was caused by bad request parameters
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidPageSize) ||
		errors.Is(err, ErrInvalidPageNumber) ||
		errors.Is(err, ErrInvalidSortField) ||
		errors.Is(err, ErrInvalidInput)
}
