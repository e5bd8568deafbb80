package models

import "time"

// Token is an opaque session credential issued at login
type Token struct {
	ID        uint      `gorm:"primarykey" json:"-"`
	Code      string    `gorm:"size:64;uniqueIndex;not null" json:"token"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `gorm:"not null" json:"expiresAt"`
}

// Expired reports whether the token is no longer valid at now
func (t *Token) Expired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}
