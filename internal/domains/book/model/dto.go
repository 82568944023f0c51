package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

// =====================================================
// REQUEST DTOs
// =====================================================

type CreateBookRequest struct {
	Title         string     `json:"title"`
	AuthorID      *uuid.UUID `json:"author_id"`
	CategoryID    *uuid.UUID `json:"category_id"`
	ISBNPaperback *string    `json:"isbn_paperback"`
	ISBN          *string    `json:"isbn"`
	ISBNHardcover *string    `json:"isbn_hardcover"`
	Price         float64    `json:"price"`
	Description   *string    `json:"description"`
	Language      string     `json:"language"`
	PublishedYear *int       `json:"published_year"`
}

func (r CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 500)),
		validation.Field(&r.Price, validation.Min(0.0)),
		validation.Field(&r.Language, validation.Length(0, 50)),
		validation.Field(&r.ISBNPaperback, is.ISBN),
		validation.Field(&r.ISBN, is.ISBN),
		validation.Field(&r.ISBNHardcover, is.ISBN),
	)
}

type UpdateBookRequest struct {
	Title         *string    `json:"title"`
	CategoryID    *uuid.UUID `json:"category_id"`
	ISBNPaperback *string    `json:"isbn_paperback"`
	ISBN          *string    `json:"isbn"`
	ISBNHardcover *string    `json:"isbn_hardcover"`
	Price         *float64   `json:"price"`
	Description   *string    `json:"description"`
	Language      *string    `json:"language"`
	PublishedYear *int       `json:"published_year"`
	IsActive      *bool      `json:"is_active"`
}

func (r UpdateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Length(1, 500)),
		validation.Field(&r.Price, validation.Min(0.0)),
		validation.Field(&r.ISBNPaperback, is.ISBN),
		validation.Field(&r.ISBN, is.ISBN),
		validation.Field(&r.ISBNHardcover, is.ISBN),
	)
}

// AuthorLink is one entry of a LinkAuthorsRequest. RoyaltyShare is a
// percentage; omit it to let the splitter assign the remainder.
type AuthorLink struct {
	AuthorID     uuid.UUID `json:"author_id"`
	RoyaltyShare *float64  `json:"royalty_share"`
}

type LinkAuthorsRequest struct {
	Authors []AuthorLink `json:"authors"`
}

func (r LinkAuthorsRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Authors, validation.Required, validation.Length(1, 20)),
	)
}

type UpdateStageRequest struct {
	Stage PublishingStage `json:"stage"`
}

func (r UpdateStageRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Stage, validation.Required, validation.By(func(value interface{}) error {
			if stage, ok := value.(PublishingStage); ok && !stage.IsValid() {
				return validation.NewError("validation_stage", "must be a known publishing stage")
			}
			return nil
		})),
	)
}

// =====================================================
// QUERY FILTERS
// =====================================================

type ListBooksFilter struct {
	CategoryID *uuid.UUID
	AuthorID   *uuid.UUID
	Stage      *PublishingStage
	Search     string
	Limit      int
	Offset     int
}
