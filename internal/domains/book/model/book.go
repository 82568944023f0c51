package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// PUBLISHING STAGE
// =====================================================

// PublishingStage tracks a manuscript through the production pipeline.
type PublishingStage string

const (
	StageDraft     PublishingStage = "draft"
	StageEditing   PublishingStage = "editing"
	StageDesign    PublishingStage = "design"
	StagePrinting  PublishingStage = "printing"
	StagePublished PublishingStage = "published"
)

var stageOrder = map[PublishingStage]int{
	StageDraft:     0,
	StageEditing:   1,
	StageDesign:    2,
	StagePrinting:  3,
	StagePublished: 4,
}

func (s PublishingStage) IsValid() bool {
	_, ok := stageOrder[s]
	return ok
}

func (s PublishingStage) String() string {
	return string(s)
}

// CanTransitionTo allows moving one stage forward or any stage backward.
// Skipping ahead is not allowed; pulling a book back for rework is.
func (s PublishingStage) CanTransitionTo(next PublishingStage) bool {
	from, ok := stageOrder[s]
	if !ok {
		return false
	}
	to, ok := stageOrder[next]
	if !ok {
		return false
	}
	return to <= from+1 && to != from
}

// =====================================================
// BOOK ENTITY
// =====================================================

// Book is a published or in-production title. AuthorID is the legacy
// single-author column; multi-author titles use the book_authors junction
// and leave it as the first author for backward compatibility.
type Book struct {
	ID    uuid.UUID `json:"id" db:"id"`
	Title string    `json:"title" db:"title"`
	Slug  string    `json:"slug" db:"slug"`

	AuthorID   *uuid.UUID `json:"author_id" db:"author_id"`
	CategoryID *uuid.UUID `json:"category_id" db:"category_id"`

	// Three ISBN slots; CanonicalISBN picks the one that identifies the
	// title for royalty and import matching.
	ISBNPaperback *string `json:"isbn_paperback" db:"isbn_paperback"`
	ISBN          *string `json:"isbn" db:"isbn"`
	ISBNHardcover *string `json:"isbn_hardcover" db:"isbn_hardcover"`

	Price         decimal.Decimal `json:"price" db:"price"`
	Description   *string         `json:"description" db:"description"`
	Language      string          `json:"language" db:"language"`
	PublishedYear *int            `json:"published_year" db:"published_year"`

	Stage         PublishingStage `json:"stage" db:"stage"`
	ManuscriptKey *string         `json:"manuscript_key,omitempty" db:"manuscript_key"`

	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CanonicalISBN resolves the identifying ISBN: paperback first, then the
// legacy column, then hardcover. Nil when the title has no ISBN at all.
func (b *Book) CanonicalISBN() *string {
	for _, isbn := range []*string{b.ISBNPaperback, b.ISBN, b.ISBNHardcover} {
		if isbn != nil && *isbn != "" {
			return isbn
		}
	}
	return nil
}

// =====================================================
// BOOK-AUTHOR JUNCTION
// =====================================================

// BookAuthor links one author to one book. AuthorUID is denormalized from
// the authors table at link time so royalty exports never need a join.
type BookAuthor struct {
	ID       uuid.UUID `json:"id" db:"id"`
	BookID   uuid.UUID `json:"book_id" db:"book_id"`
	AuthorID uuid.UUID `json:"author_id" db:"author_id"`

	AuthorUID string `json:"author_uid" db:"author_uid"`

	// RoyaltyShare is a percentage (0..100); nil means "no explicit share",
	// which the royalty splitter resolves against the other authors.
	RoyaltyShare *decimal.Decimal `json:"royalty_share" db:"royalty_share"`

	IsPrimary bool       `json:"is_primary" db:"is_primary"`
	AddedBy   *uuid.UUID `json:"added_by" db:"added_by"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}
