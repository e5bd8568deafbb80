package models

import (
	"time"
)

type User struct {
	ID                uint      `gorm:"primarykey" json:"id"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"-"`
	Name              string    `gorm:"size:120;not null" json:"name"`
	Email             string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash      string    `gorm:"not null" json:"-"`
	ProfilePictureURL string    `gorm:"size:512" json:"profilePictureUrl,omitempty"`
	Biography         string    `gorm:"type:text" json:"biography,omitempty"`
}

// Author is the public slice of a user embedded next to recipes and comments
type Author struct {
	ID                uint   `json:"id"`
	Name              string `json:"name"`
	ProfilePictureURL string `json:"profilePictureUrl,omitempty"`
	Biography         string `json:"biography,omitempty"`
}

// Public returns the fields of the user that anyone may see
func (u *User) Public() Author {
	return Author{
		ID:                u.ID,
		Name:              u.Name,
		ProfilePictureURL: u.ProfilePictureURL,
		Biography:         u.Biography,
	}
}
