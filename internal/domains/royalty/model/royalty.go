package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultRoyaltyRate applies when neither the call site nor config
// overrides it.
var DefaultRoyaltyRate = decimal.NewFromFloat(0.10)

// =====================================================
// ROYALTY LEDGER ENTITY
// =====================================================

// Royalty is one immutable ledger line: one author's earnings from one
// sale event. Rows are never updated except for payout marking.
type Royalty struct {
	ID       uuid.UUID `json:"id" db:"id"`
	AuthorID uuid.UUID `json:"author_id" db:"author_id"`
	BookID   uuid.UUID `json:"book_id" db:"book_id"`

	// SaleRef ties the line back to its source: an order id for website
	// sales, a CSV row reference for imported sales. Optional.
	SaleRef *string `json:"sale_ref" db:"sale_ref"`

	// SaleAmount is the portion of the sale attributed to this author
	// (full sale amount × the author's share fraction).
	SaleAmount  decimal.Decimal `json:"sale_amount" db:"sale_amount"`
	RoyaltyRate decimal.Decimal `json:"royalty_rate" db:"royalty_rate"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`

	Bucket      PlatformBucket `json:"bucket" db:"bucket"`
	RawPlatform string         `json:"raw_platform" db:"raw_platform"`
	Period      string         `json:"period" db:"period"`

	IsPaid    bool       `json:"is_paid" db:"is_paid"`
	PaidAt    *time.Time `json:"paid_at" db:"paid_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// =====================================================
// SPLIT RESOLUTION
// =====================================================

// AuthorShare is one resolved (author, fraction) pair. Fractions across a
// sale sum to at most 1.
type AuthorShare struct {
	AuthorID uuid.UUID
	Fraction decimal.Decimal
}

// CreateRoyaltiesOptions carries the optional knobs of a sale posting.
type CreateRoyaltiesOptions struct {
	// Rate overrides the default royalty rate when non-nil.
	Rate *decimal.Decimal
	// SaleRef is recorded on every ledger line of this sale.
	SaleRef *string
	// Period overrides CurrentPeriod; used by historical CSV imports.
	Period string
}

// =====================================================
// SUMMARY MODELS
// =====================================================

// PeriodSummary aggregates one author's earnings for one period.
type PeriodSummary struct {
	AuthorID    uuid.UUID                  `json:"author_id"`
	Period      string                     `json:"period"`
	TotalAmount decimal.Decimal            `json:"total_amount"`
	TotalSales  decimal.Decimal            `json:"total_sales"`
	LineCount   int                        `json:"line_count"`
	ByBucket    map[PlatformBucket]decimal.Decimal `json:"by_bucket"`
}

// ListFilter narrows ledger queries.
type ListFilter struct {
	AuthorID *uuid.UUID
	BookID   *uuid.UUID
	Period   string
	Unpaid   bool
	Limit    int
	Offset   int
}
