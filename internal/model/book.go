// Package model defines domain entities for the application.
package model

import "time"

// Category is the subject classification of a book.
type Category string

const (
	CategoryComputer    Category = "COMPUTER"
	CategoryScience     Category = "SCIENCE"
	CategorySocial      Category = "SOCIAL"
	CategoryLanguage    Category = "LANGUAGE"
	CategoryArt         Category = "ART"
	CategoryUnspecified Category = "UNSPECIFIED"
)

// IsValid checks if the category is one of the known subject tags.
func (c Category) IsValid() bool {
	switch c {
	case CategoryComputer, CategoryScience, CategorySocial,
		CategoryLanguage, CategoryArt, CategoryUnspecified:
		return true
	}
	return false
}

// ParseCategory converts a caller-supplied string to a Category.
// An empty string maps to CategoryUnspecified; unknown values return false.
func ParseCategory(s string) (Category, bool) {
	if s == "" {
		return CategoryUnspecified, true
	}
	c := Category(s)
	if !c.IsValid() {
		return "", false
	}
	return c, true
}

// Book represents a title in the catalog. Names are not unique; individual
// physical copies are not modeled.
type Book struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  Category  `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

// BookStat is the per-category book count used by the statistics endpoint.
type BookStat struct {
	Category Category `json:"category"`
	Count    int64    `json:"count"`
}
