package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringArray stores a list of strings as a JSON array. Postgres keeps it in a
// jsonb column, SQLite in TEXT; both accept the JSON text form.
type StringArray []string

// Value implements the driver.Valuer interface
func (a StringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal([]string(a))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = StringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for StringArray", value)
	}

	return json.Unmarshal(bytes, a)
}

// Contains reports whether s is one of the elements
func (a StringArray) Contains(s string) bool {
	for _, v := range a {
		if v == s {
			return true
		}
	}
	return false
}

type Recipe struct {
	ID              uint        `gorm:"primarykey" json:"id"`
	UserID          uint        `gorm:"not null;index" json:"userId"`
	Title           string      `gorm:"size:255;not null" json:"title"`
	Ingredients     StringArray `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	Instructions    string      `gorm:"type:text;not null" json:"instructions"`
	ImageURL        string      `gorm:"size:512" json:"imageUrl,omitempty"`
	VideoURL        string      `gorm:"size:512" json:"videoUrl,omitempty"`
	CreatedAt       time.Time   `gorm:"index" json:"createdAt"`
	ReviewCount     int         `gorm:"not null;default:0" json:"reviewCount"`
	AverageRating   float64     `gorm:"not null;default:0;index" json:"averageRating"`
	IsPublic        bool        `gorm:"not null;index" json:"isPublic"`
	Categories      StringArray `gorm:"type:jsonb;not null;default:'[]'" json:"categories"`
	Portions        *int        `json:"portions,omitempty"`
	PreparationTime *int        `json:"preparationTime,omitempty"`
}

// VisibleTo reports whether a caller may read the recipe. A nil caller is anonymous.
func (r *Recipe) VisibleTo(callerID *uint) bool {
	return r.IsPublic || (callerID != nil && *callerID == r.UserID)
}

// RecipeSummary is the reduced shape returned by list views
type RecipeSummary struct {
	ID              uint        `json:"id"`
	Title           string      `json:"title"`
	AverageRating   float64     `json:"averageRating"`
	PreparationTime *int        `json:"preparationTime,omitempty"`
	Categories      StringArray `json:"categories"`
	ImageURL        string      `json:"imageUrl,omitempty"`
}

// SummaryColumns are the recipe columns read for a RecipeSummary
var SummaryColumns = []string{"id", "title", "average_rating", "preparation_time", "categories", "image_url"}

// RecipeDetail is a full recipe with its author's public profile
type RecipeDetail struct {
	Recipe
	Author Author `json:"author"`
}
