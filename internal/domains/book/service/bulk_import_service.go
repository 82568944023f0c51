package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"mime/multipart"
	"net/mail"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/xid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	authormodel "writerspocket-backend/internal/domains/author/model"
	authorservice "writerspocket-backend/internal/domains/author/service"
	"writerspocket-backend/internal/domains/book/model"
	"writerspocket-backend/internal/domains/book/repository"
	categoryrepo "writerspocket-backend/internal/domains/category/repository"
	"writerspocket-backend/internal/shared/utils"
	"writerspocket-backend/pkg/database"
)

const importSourceCSV = "csv_import"

// =====================================================
// BULK IMPORT SERVICE IMPLEMENTATION
// =====================================================
type bulkImportService struct {
	bookRepo      repository.RepositoryInterface
	authorService authorservice.ServiceInterface
	categoryRepo  categoryrepo.RepositoryInterface
	pool          *pgxpool.Pool
}

func NewBulkImportService(
	bookRepo repository.RepositoryInterface,
	authorService authorservice.ServiceInterface,
	categoryRepo categoryrepo.RepositoryInterface,
	pool *pgxpool.Pool,
) BulkImportServiceInterface {
	return &bulkImportService{
		bookRepo:      bookRepo,
		authorService: authorService,
		categoryRepo:  categoryRepo,
		pool:          pool,
	}
}

// ImportBooks runs the three import phases: parse, validate everything,
// then insert. Nothing is written unless every row validates.
func (s *bulkImportService) ImportBooks(ctx context.Context, file *multipart.FileHeader, importedBy string) (*model.BulkImportResult, error) {
	log.Info().
		Str("imported_by", importedBy).
		Str("file_name", file.Filename).
		Int64("file_size", file.Size).
		Msg("Starting catalog import")

	rows, err := s.parseCSVFile(file)
	if err != nil {
		return &model.BulkImportResult{
			Success: false,
			Errors: []model.ImportValidationError{
				{Row: 0, Field: "file", Error: err.Error()},
			},
		}, nil
	}

	total := len(rows)
	if total == 0 {
		return &model.BulkImportResult{
			Success: false,
			Errors: []model.ImportValidationError{
				{Row: 0, Field: "file", Error: "file contains no data rows"},
			},
		}, nil
	}
	if total > model.MaxImportRows {
		return &model.BulkImportResult{
			Success:   false,
			TotalRows: total,
			Errors: []model.ImportValidationError{
				{Row: 0, Field: "file", Error: fmt.Sprintf("file exceeds %d rows limit", model.MaxImportRows)},
			},
		}, nil
	}

	validationErrors := s.validateAllRows(ctx, rows)
	if len(validationErrors) > 0 {
		log.Warn().
			Int("error_count", len(validationErrors)).
			Msg("Catalog import validation failed")
		return &model.BulkImportResult{
			Success:    false,
			TotalRows:  total,
			FailedRows: len(validationErrors),
			Errors:     validationErrors,
		}, nil
	}

	created, err := s.insertAllRows(ctx, rows)
	if err != nil {
		return nil, model.NewBookError(model.ErrCodeImportFailed, "Catalog import insert phase failed", err)
	}

	log.Info().
		Int("total_rows", total).
		Int("created_books", len(created)).
		Msg("Catalog import completed")

	return &model.BulkImportResult{
		Success:      true,
		TotalRows:    total,
		SuccessRows:  len(created),
		CreatedBooks: created,
	}, nil
}

// =====================================================
// PHASE 1: PARSE
// =====================================================

func (s *bulkImportService) parseCSVFile(file *multipart.FileHeader) ([]model.CSVBookRow, error) {
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
	for _, required := range []string{"title", "author_name", "author_email", "price"} {
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
	optional := func(record []string, name string) *string {
		v := field(record, name)
		if v == "" {
			return nil
		}
		return &v
	}

	var rows []model.CSVBookRow
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

		row := model.CSVBookRow{
			Row:           rowNum,
			Title:         field(record, "title"),
			AuthorName:    field(record, "author_name"),
			AuthorEmail:   field(record, "author_email"),
			AuthorPhone:   optional(record, "author_phone"),
			CategoryName:  optional(record, "category"),
			ISBNPaperback: optional(record, "isbn_paperback"),
			ISBNHardcover: optional(record, "isbn_hardcover"),
			Language:      optional(record, "language"),
		}

		if priceRaw := field(record, "price"); priceRaw != "" {
			price, err := strconv.ParseFloat(priceRaw, 64)
			if err != nil {
				// Deferred to the validation phase via a sentinel.
				row.Price = -1
			} else {
				row.Price = price
			}
		}
		if yearRaw := field(record, "published_year"); yearRaw != "" {
			if year, err := strconv.Atoi(yearRaw); err == nil {
				row.PublishedYear = &year
			}
		}

		rows = append(rows, row)
	}
	return rows, nil
}

// =====================================================
// PHASE 2: VALIDATE EVERYTHING
// =====================================================

func (s *bulkImportService) validateAllRows(ctx context.Context, rows []model.CSVBookRow) []model.ImportValidationError {
	var errs []model.ImportValidationError
	seenISBN := make(map[string]int)

	for _, row := range rows {
		if row.Title == "" {
			errs = append(errs, model.ImportValidationError{Row: row.Row, Field: "title", Error: "title is required"})
		}
		if row.AuthorName == "" {
			errs = append(errs, model.ImportValidationError{Row: row.Row, Field: "author_name", Error: "author name is required"})
		}
		if row.AuthorEmail == "" {
			errs = append(errs, model.ImportValidationError{Row: row.Row, Field: "author_email", Error: "author email is required"})
		} else if _, err := mail.ParseAddress(row.AuthorEmail); err != nil {
			errs = append(errs, model.ImportValidationError{
				Row: row.Row, Field: "author_email", Value: row.AuthorEmail, Error: "invalid email address",
			})
		}
		if row.Price < 0 {
			errs = append(errs, model.ImportValidationError{Row: row.Row, Field: "price", Error: "price must be a non-negative number"})
		}

		isbn := canonicalRowISBN(row)
		if isbn == "" {
			continue
		}
		if firstRow, dup := seenISBN[isbn]; dup {
			errs = append(errs, model.ImportValidationError{
				Row: row.Row, Field: "isbn", Value: isbn,
				Error: fmt.Sprintf("duplicate isbn, first seen at row %d", firstRow),
			})
			continue
		}
		seenISBN[isbn] = row.Row

		if existing, err := s.bookRepo.FindByISBN(ctx, isbn); err == nil {
			errs = append(errs, model.ImportValidationError{
				Row: row.Row, Field: "isbn", Value: isbn,
				Error: fmt.Sprintf("isbn already registered to %q", existing.Title),
			})
		}
	}
	return errs
}

// canonicalRowISBN mirrors Book.CanonicalISBN for a CSV row: paperback
// first, then hardcover.
func canonicalRowISBN(row model.CSVBookRow) string {
	if row.ISBNPaperback != nil && *row.ISBNPaperback != "" {
		return *row.ISBNPaperback
	}
	if row.ISBNHardcover != nil && *row.ISBNHardcover != "" {
		return *row.ISBNHardcover
	}
	return ""
}

// =====================================================
// PHASE 3: INSERT
// =====================================================

func (s *bulkImportService) insertAllRows(ctx context.Context, rows []model.CSVBookRow) ([]string, error) {
	// Authors and categories are resolved outside the book transaction;
	// they are find-or-create and harmless if the insert phase fails.
	type resolvedRow struct {
		row      model.CSVBookRow
		author   *authormodel.Author
		category *uuid.UUID
	}

	resolved := make([]resolvedRow, 0, len(rows))
	for _, row := range rows {
		opts := &authormodel.ResolveOptions{ImportSource: importSourceCSV}
		if row.AuthorPhone != nil {
			opts.Phone = *row.AuthorPhone
		}
		author, err := s.authorService.ResolveOrCreateByEmail(ctx, row.AuthorEmail, row.AuthorName, opts)
		if err != nil {
			return nil, fmt.Errorf("row %d: failed to resolve author: %w", row.Row, err)
		}

		var categoryID *uuid.UUID
		if row.CategoryName != nil {
			category, err := s.categoryRepo.GetOrCreateByName(ctx, *row.CategoryName)
			if err != nil {
				return nil, fmt.Errorf("row %d: failed to resolve category: %w", row.Row, err)
			}
			categoryID = &category.ID
		}

		resolved = append(resolved, resolvedRow{row: row, author: author, category: categoryID})
	}

	return database.WithTransactionResult(ctx, s.pool, func(tx pgx.Tx) ([]string, error) {
		created := make([]string, 0, len(resolved))

		for _, r := range resolved {
			language := "en"
			if r.row.Language != nil {
				language = *r.row.Language
			}

			book := &model.Book{
				Title:         r.row.Title,
				Slug:          utils.GenerateSlug(r.row.Title) + "-" + xid.New().String(),
				AuthorID:      &r.author.ID,
				CategoryID:    r.category,
				ISBNPaperback: r.row.ISBNPaperback,
				ISBNHardcover: r.row.ISBNHardcover,
				Price:         decimal.NewFromFloat(r.row.Price),
				Language:      language,
				PublishedYear: r.row.PublishedYear,
				Stage:         model.StagePublished,
				IsActive:      true,
			}
			if err := s.bookRepo.CreateTx(ctx, tx, book); err != nil {
				return nil, fmt.Errorf("row %d: %w", r.row.Row, err)
			}

			uid := ""
			if r.author.AuthorUID != nil {
				uid = *r.author.AuthorUID
			}
			link := &model.BookAuthor{
				BookID:    book.ID,
				AuthorID:  r.author.ID,
				AuthorUID: uid,
				IsPrimary: true,
			}
			if err := s.bookRepo.LinkAuthorTx(ctx, tx, link); err != nil {
				return nil, fmt.Errorf("row %d: %w", r.row.Row, err)
			}

			created = append(created, book.ID.String())
		}
		return created, nil
	})
}
