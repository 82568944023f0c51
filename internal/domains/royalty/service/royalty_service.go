package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	bookrepo "writerspocket-backend/internal/domains/book/repository"
	"writerspocket-backend/internal/domains/royalty/model"
	"writerspocket-backend/internal/domains/royalty/repository"
	"writerspocket-backend/pkg/database"
)

// =====================================================
// ROYALTY SERVICE IMPLEMENTATION
// =====================================================
type royaltyService struct {
	repo        repository.RepositoryInterface
	bookRepo    bookrepo.RepositoryInterface
	pool        *pgxpool.Pool
	defaultRate decimal.Decimal
}

func NewRoyaltyService(
	repo repository.RepositoryInterface,
	bookRepo bookrepo.RepositoryInterface,
	pool *pgxpool.Pool,
	defaultRate decimal.Decimal,
) ServiceInterface {
	if defaultRate.IsZero() {
		defaultRate = model.DefaultRoyaltyRate
	}
	return &royaltyService{
		repo:        repo,
		bookRepo:    bookRepo,
		pool:        pool,
		defaultRate: defaultRate,
	}
}

// =====================================================
// SALE POSTING
// =====================================================

func (s *royaltyService) CreateRoyaltiesForSale(ctx context.Context, bookID uuid.UUID, saleAmount decimal.Decimal, platform string, opts *model.CreateRoyaltiesOptions) ([]model.Royalty, error) {
	if !saleAmount.IsPositive() {
		return nil, model.NewRoyaltyError(model.ErrCodeInvalidAmount, "Sale amount must be positive", model.ErrInvalidAmount)
	}

	book, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	shares, err := s.resolveShares(ctx, bookID, book.AuthorID)
	if err != nil {
		return nil, err
	}

	rate := s.defaultRate
	period := model.CurrentPeriod(time.Now())
	var saleRef *string
	if opts != nil {
		if opts.Rate != nil {
			rate = *opts.Rate
		}
		if opts.Period != "" {
			if period, err = model.ParsePeriod(opts.Period); err != nil {
				return nil, model.NewRoyaltyError(model.ErrCodeInvalidPeriod, "Invalid period", err)
			}
		}
		saleRef = opts.SaleRef
	}

	bucket := model.ClassifyPlatform(platform)

	// Paise-exact allocation: the attributed sale amounts sum back to the
	// sale and the royalty lines sum back to the pool.
	attributed := model.DistributePaise(saleAmount, shares)
	amounts := model.DistributePaise(saleAmount.Mul(rate), shares)

	// All lines of one sale commit together or not at all.
	created, err := database.WithTransactionResult(ctx, s.pool, func(tx pgx.Tx) ([]model.Royalty, error) {
		lines := make([]model.Royalty, 0, len(shares))
		for i, share := range shares {
			line := model.Royalty{
				AuthorID:    share.AuthorID,
				BookID:      bookID,
				SaleRef:     saleRef,
				SaleAmount:  attributed[i],
				RoyaltyRate: rate,
				Amount:      amounts[i],
				Bucket:      bucket,
				RawPlatform: platform,
				Period:      period,
			}
			if err := s.repo.CreateTx(ctx, tx, &line); err != nil {
				return nil, err
			}
			lines = append(lines, line)
		}
		return lines, nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("book_id", bookID.String()).
		Str("bucket", bucket.String()).
		Str("period", period).
		Int("authors", len(created)).
		Str("sale_amount", saleAmount.String()).
		Msg("Royalties posted for sale")

	return created, nil
}

// resolveShares prefers the junction links; a book without links but with
// the legacy single author attributes 100% to that author.
func (s *royaltyService) resolveShares(ctx context.Context, bookID uuid.UUID, legacyAuthorID *uuid.UUID) ([]model.AuthorShare, error) {
	links, err := s.bookRepo.GetBookAuthors(ctx, bookID)
	if err != nil {
		return nil, err
	}

	if len(links) == 0 {
		if legacyAuthorID == nil {
			return nil, model.NewRoyaltyError(model.ErrCodeNoAuthors, "Book has no authors", model.ErrNoAuthors)
		}
		return []model.AuthorShare{{AuthorID: *legacyAuthorID, Fraction: decimal.NewFromInt(1)}}, nil
	}

	inputs := make([]model.ShareInput, 0, len(links))
	for _, link := range links {
		inputs = append(inputs, model.ShareInput{
			AuthorID:     link.AuthorID,
			SharePercent: link.RoyaltyShare,
		})
	}
	return model.NormalizeShares(inputs), nil
}

// =====================================================
// LEDGER QUERIES
// =====================================================

func (s *royaltyService) GetByID(ctx context.Context, id uuid.UUID) (*model.Royalty, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *royaltyService) List(ctx context.Context, filter model.ListFilter) ([]model.Royalty, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Period != "" {
		if _, err := model.ParsePeriod(filter.Period); err != nil {
			return nil, 0, model.NewRoyaltyError(model.ErrCodeInvalidPeriod, "Invalid period", err)
		}
	}
	return s.repo.List(ctx, filter)
}

func (s *royaltyService) MarkPaid(ctx context.Context, ids []uuid.UUID) (int, error) {
	updated, err := s.repo.MarkPaid(ctx, ids)
	if err != nil {
		return 0, err
	}

	log.Info().
		Int("requested", len(ids)).
		Int("updated", updated).
		Msg("Royalties marked paid")

	return updated, nil
}

func (s *royaltyService) GetPeriodSummary(ctx context.Context, authorID uuid.UUID, period string) (*model.PeriodSummary, error) {
	if _, err := model.ParsePeriod(period); err != nil {
		return nil, model.NewRoyaltyError(model.ErrCodeInvalidPeriod, "Invalid period", err)
	}
	return s.repo.PeriodSummary(ctx, authorID, period)
}

// =====================================================
// STATEMENT EXPORT
// =====================================================

// ExportStatement renders the author's ledger lines for one period as an
// xlsx workbook. Returns the file bytes and a suggested filename.
func (s *royaltyService) ExportStatement(ctx context.Context, authorID uuid.UUID, period string) ([]byte, string, error) {
	if _, err := model.ParsePeriod(period); err != nil {
		return nil, "", model.NewRoyaltyError(model.ErrCodeInvalidPeriod, "Invalid period", err)
	}

	lines, _, err := s.repo.List(ctx, model.ListFilter{
		AuthorID: &authorID,
		Period:   period,
		Limit:    10000,
	})
	if err != nil {
		return nil, "", err
	}

	summary, err := s.repo.PeriodSummary(ctx, authorID, period)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Statement"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Date", "Book", "Platform", "Bucket", "Attributed Sale", "Rate", "Royalty", "Paid"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for rowIdx, line := range lines {
		values := []interface{}{
			line.CreatedAt.Format("2006-01-02"),
			line.BookID.String(),
			line.RawPlatform,
			line.Bucket.String(),
			line.SaleAmount.InexactFloat64(),
			line.RoyaltyRate.InexactFloat64(),
			line.Amount.InexactFloat64(),
			line.IsPaid,
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	totalRow := len(lines) + 3
	cell, _ := excelize.CoordinatesToCellName(1, totalRow)
	f.SetCellValue(sheet, cell, fmt.Sprintf("Total royalties for %s", period))
	cell, _ = excelize.CoordinatesToCellName(7, totalRow)
	f.SetCellValue(sheet, cell, summary.TotalAmount.InexactFloat64())

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", model.NewRoyaltyError(model.ErrCodeStatementExport, "Failed to render statement workbook", err)
	}

	filename := fmt.Sprintf("royalty-statement-%s-%s.xlsx", authorID, period)
	return buf.Bytes(), filename, nil
}
