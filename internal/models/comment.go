package models

import "time"

// Comment is a star-rated review left on a recipe
type Comment struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	RecipeID  uint      `gorm:"not null;index" json:"recipeId"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	Rating    int       `gorm:"not null" json:"rating"`
	Content   string    `gorm:"type:text" json:"content"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

// CommentWithAuthor embeds the reviewer's public profile
type CommentWithAuthor struct {
	Comment
	Author *Author `json:"author,omitempty"`
}
