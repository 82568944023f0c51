package service

import (
	"context"
	"mime/multipart"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"writerspocket-backend/internal/domains/royalty/model"
)

// ServiceInterface is the royalty business logic contract.
type ServiceInterface interface {
	// CreateRoyaltiesForSale attributes one sale to every author of the
	// book and writes the ledger lines atomically. Returns the created
	// lines in author order.
	CreateRoyaltiesForSale(ctx context.Context, bookID uuid.UUID, saleAmount decimal.Decimal, platform string, opts *model.CreateRoyaltiesOptions) ([]model.Royalty, error)

	GetByID(ctx context.Context, id uuid.UUID) (*model.Royalty, error)
	List(ctx context.Context, filter model.ListFilter) ([]model.Royalty, int, error)
	MarkPaid(ctx context.Context, ids []uuid.UUID) (int, error)
	GetPeriodSummary(ctx context.Context, authorID uuid.UUID, period string) (*model.PeriodSummary, error)

	// ExportStatement renders one author's period statement as an xlsx
	// workbook.
	ExportStatement(ctx context.Context, authorID uuid.UUID, period string) ([]byte, string, error)
}

// SalesImportServiceInterface posts royalties from an uploaded sales CSV.
type SalesImportServiceInterface interface {
	ImportSales(ctx context.Context, file *multipart.FileHeader, importedBy string) (*model.SalesImportResult, error)
}
