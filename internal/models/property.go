package models

import "time"

// Property is a listing owned by a user
type Property struct {
	ID          string    `json:"-"`
	PublicID    string    `json:"publicId"`
	UserID      string    `json:"-"`
	Title       string    `json:"title"`
	TypeIDs     []int64   `json:"types"`
	CategoryIDs []int64   `json:"categories"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Taxonomy is a property type or a property category; both share one shape
type Taxonomy struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}
