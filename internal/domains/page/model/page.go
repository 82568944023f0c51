package model

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// ContentPage is an editable site page (about, pricing, FAQ). Public
// readers only ever see published pages.
type ContentPage struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Slug        string    `json:"slug" db:"slug"`
	Title       string    `json:"title" db:"title"`
	Body        string    `json:"body" db:"body"`
	IsPublished bool      `json:"is_published" db:"is_published"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// =====================================================
// ERRORS
// =====================================================
const (
	ErrCodePageNotFound = "PGE001"
	ErrCodePageExists   = "PGE002"
)

var (
	ErrPageNotFound = errors.New("page not found")
	ErrPageExists   = errors.New("page slug already in use")
)

// =====================================================
// DTOs
// =====================================================

type CreatePageRequest struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	IsPublished bool   `json:"is_published"`
}

func (r CreatePageRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Slug, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Body, validation.Required),
	)
}

type UpdatePageRequest struct {
	Title       *string `json:"title"`
	Body        *string `json:"body"`
	IsPublished *bool   `json:"is_published"`
}

func (r UpdatePageRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Length(1, 200)),
	)
}
