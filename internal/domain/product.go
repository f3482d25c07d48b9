package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a persisted row in the products catalog
type Product struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Slug          string    `json:"slug" db:"slug"`
	Name          string    `json:"name" db:"name"`
	NameEN        *string   `json:"name_en" db:"name_en"`
	Description   *string   `json:"description" db:"description"`
	DescriptionEN *string   `json:"description_en" db:"description_en"`
	Price         float64   `json:"price" db:"price"`
	Currency      string    `json:"currency" db:"currency"`
	ImageURL      *string   `json:"image_url" db:"image_url"`
	ImageAlt      *string   `json:"image_alt" db:"image_alt"`
	Category      *string   `json:"category" db:"category"`
	Tags          []string  `json:"tags" db:"tags"`
	Featured      bool      `json:"featured" db:"featured"`
	InStock       bool      `json:"in_stock" db:"in_stock"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// ProductData is the canonical in-memory form of an admin product
// submission. It is built fresh from each form post, is immutable
// afterwards, and never outlives the request that produced it.
//
// Optional text fields are nil when the form omitted them or submitted
// an empty value; they are never the empty string once parsed.
type ProductData struct {
	Slug          string   `json:"slug" validate:"required,max=100,slug"`
	Name          string   `json:"name" validate:"required,max=255"`
	NameEN        *string  `json:"name_en" validate:"omitempty,max=255"`
	Description   *string  `json:"description" validate:"omitempty,max=2000"`
	DescriptionEN *string  `json:"description_en" validate:"omitempty,max=2000"`
	Price         float64  `json:"price" validate:"gte=0,lte=99999"`
	Currency      string   `json:"currency" validate:"oneof=RON EUR"`
	ImageURL      *string  `json:"image_url" validate:"omitempty,startswith=https://,max=500"`
	ImageAlt      *string  `json:"image_alt" validate:"omitempty,max=255"`
	Category      *string  `json:"category"`
	Tags          []string `json:"tags" validate:"max=20,dive,max=50"`
	Featured      bool     `json:"featured"`
	InStock       bool     `json:"in_stock"`
}

// ValidationError describes a single business-rule violation on one
// submitted field. A validation pass reports every violation it finds,
// never just the first.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
