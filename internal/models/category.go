package models

import "time"

// Category slugs with a dedicated spec table. Other categories are plain
// lookup rows with no spec record.
const (
	CategoryLaptop  = "laptop"
	CategoryPrinter = "printer"
	CategoryCCTV    = "cctv"
	CategoryNUC     = "intel-nuc"
)

// Category is an asset category lookup row. Deletion is soft: DeletedAt is
// set instead of removing the row, and list queries exclude deleted rows
// by default.
type Category struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Slug      string     `json:"slug"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CreateCategoryRequest is the body for POST /categories.
type CreateCategoryRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// UpdateCategoryRequest is the body for PUT /categories/{id}.
type UpdateCategoryRequest struct {
	Name *string `json:"name,omitempty"`
	Slug *string `json:"slug,omitempty"`
}
