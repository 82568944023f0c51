package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	bookmodel "writerspocket-backend/internal/domains/book/model"
	bookrepo "writerspocket-backend/internal/domains/book/repository"
	"writerspocket-backend/internal/domains/royalty/model"
)

// =====================================================
// SALES IMPORT SERVICE IMPLEMENTATION
// =====================================================
type salesImportService struct {
	royaltyService ServiceInterface
	bookRepo       bookrepo.RepositoryInterface
}

func NewSalesImportService(
	royaltyService ServiceInterface,
	bookRepo bookrepo.RepositoryInterface,
) SalesImportServiceInterface {
	return &salesImportService{
		royaltyService: royaltyService,
		bookRepo:       bookRepo,
	}
}

// ImportSales posts royalties for each row of a sales CSV. Unlike the
// catalog import, rows are independent sales: a bad row is reported and
// skipped, good rows still post.
func (s *salesImportService) ImportSales(ctx context.Context, file *multipart.FileHeader, importedBy string) (*model.SalesImportResult, error) {
	log.Info().
		Str("imported_by", importedBy).
		Str("file_name", file.Filename).
		Msg("Starting sales import")

	rows, err := s.parseCSVFile(file)
	if err != nil {
		return &model.SalesImportResult{
			Success: false,
			Errors: []model.SalesImportError{
				{Row: 0, Field: "file", Error: err.Error()},
			},
		}, nil
	}

	total := len(rows)
	if total > model.MaxSalesImportRows {
		return &model.SalesImportResult{
			Success:   false,
			TotalRows: total,
			Errors: []model.SalesImportError{
				{Row: 0, Field: "file", Error: fmt.Sprintf("file exceeds %d rows limit", model.MaxSalesImportRows)},
			},
		}, nil
	}

	result := &model.SalesImportResult{TotalRows: total}

	for _, row := range rows {
		if rowErr := s.postRow(ctx, file.Filename, row, result); rowErr != nil {
			result.FailedRows++
			result.Errors = append(result.Errors, *rowErr)
		} else {
			result.PostedRows++
		}
	}

	result.Success = result.FailedRows == 0

	log.Info().
		Int("total_rows", total).
		Int("posted_rows", result.PostedRows).
		Int("failed_rows", result.FailedRows).
		Msg("Sales import completed")

	return result, nil
}

func (s *salesImportService) postRow(ctx context.Context, filename string, row model.CSVSaleRow, result *model.SalesImportResult) *model.SalesImportError {
	if row.ISBN == "" {
		return &model.SalesImportError{Row: row.Row, Field: "isbn", Error: "isbn is required"}
	}
	if row.SaleAmount <= 0 {
		return &model.SalesImportError{
			Row: row.Row, Field: "sale_amount",
			Value: strconv.FormatFloat(row.SaleAmount, 'f', -1, 64),
			Error: "sale amount must be positive",
		}
	}

	book, err := s.bookRepo.FindByISBN(ctx, row.ISBN)
	if errors.Is(err, bookmodel.ErrBookNotFound) {
		return &model.SalesImportError{Row: row.Row, Field: "isbn", Value: row.ISBN, Error: "no book with this isbn"}
	}
	if err != nil {
		return &model.SalesImportError{Row: row.Row, Field: "isbn", Value: row.ISBN, Error: err.Error()}
	}

	saleRef := fmt.Sprintf("%s:row:%d", filename, row.Row)
	opts := &model.CreateRoyaltiesOptions{SaleRef: &saleRef}
	if row.Period != nil {
		opts.Period = *row.Period
	}

	lines, err := s.royaltyService.CreateRoyaltiesForSale(ctx, book.ID, decimal.NewFromFloat(row.SaleAmount), row.Platform, opts)
	if err != nil {
		return &model.SalesImportError{Row: row.Row, Field: "sale", Error: err.Error()}
	}

	result.LedgerLines += len(lines)
	return nil
}

func (s *salesImportService) parseCSVFile(file *multipart.FileHeader) ([]model.CSVSaleRow, error) {
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer src.Close()

	reader := csv.NewReader(src)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"isbn", "sale_amount"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	field := func(record []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var rows []model.CSVSaleRow
	rowNum := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row %d: %w", rowNum+1, err)
		}
		rowNum++

		row := model.CSVSaleRow{
			Row:      rowNum,
			ISBN:     field(record, "isbn"),
			Platform: field(record, "platform"),
		}
		if raw := field(record, "sale_amount"); raw != "" {
			if amount, err := strconv.ParseFloat(raw, 64); err == nil {
				row.SaleAmount = amount
			}
		}
		if raw := field(record, "period"); raw != "" {
			row.Period = &raw
		}

		rows = append(rows, row)
	}
	return rows, nil
}
