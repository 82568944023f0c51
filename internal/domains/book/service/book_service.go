package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/xid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	authorservice "writerspocket-backend/internal/domains/author/service"
	"writerspocket-backend/internal/domains/book/model"
	"writerspocket-backend/internal/domains/book/repository"
	"writerspocket-backend/internal/infrastructure/storage"
	"writerspocket-backend/internal/shared/utils"
	"writerspocket-backend/pkg/cache"
	"writerspocket-backend/pkg/database"
)

const (
	bookCacheKeyPrefix = "book:id:"
	bookCacheTTL       = 10 * time.Minute
)

// =====================================================
// BOOK SERVICE IMPLEMENTATION
// =====================================================
type bookService struct {
	repo          repository.RepositoryInterface
	authorService authorservice.ServiceInterface
	pool          *pgxpool.Pool
	cache         cache.Cache
	storage       *storage.MinIOStorage
}

func NewBookService(
	repo repository.RepositoryInterface,
	authorService authorservice.ServiceInterface,
	pool *pgxpool.Pool,
	cacheClient cache.Cache,
	minioStorage *storage.MinIOStorage,
) ServiceInterface {
	return &bookService{
		repo:          repo,
		authorService: authorService,
		pool:          pool,
		cache:         cacheClient,
		storage:       minioStorage,
	}
}

// =====================================================
// CRUD
// =====================================================

func (s *bookService) Create(ctx context.Context, req model.CreateBookRequest) (*model.Book, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	book := &model.Book{
		Title:         req.Title,
		Slug:          s.uniqueSlug(ctx, req.Title),
		AuthorID:      req.AuthorID,
		CategoryID:    req.CategoryID,
		ISBNPaperback: req.ISBNPaperback,
		ISBN:          req.ISBN,
		ISBNHardcover: req.ISBNHardcover,
		Price:         decimal.NewFromFloat(req.Price),
		Description:   req.Description,
		Language:      req.Language,
		PublishedYear: req.PublishedYear,
		Stage:         model.StageDraft,
		IsActive:      true,
	}

	if isbn := book.CanonicalISBN(); isbn != nil {
		if existing, err := s.repo.FindByISBN(ctx, *isbn); err == nil {
			return nil, model.NewBookError(model.ErrCodeDuplicateISBN,
				fmt.Sprintf("ISBN %s already belongs to %q", *isbn, existing.Title), model.ErrDuplicateISBN)
		} else if !errors.Is(err, model.ErrBookNotFound) {
			return nil, err
		}
	}

	if err := s.repo.Create(ctx, book); err != nil {
		return nil, err
	}

	log.Info().
		Str("book_id", book.ID.String()).
		Str("title", book.Title).
		Msg("Book created")

	return book, nil
}

func (s *bookService) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	cacheKey := bookCacheKeyPrefix + id.String()

	var cached model.Book
	if s.cache != nil {
		if found, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && found {
			return &cached, nil
		}
	}

	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, book, bookCacheTTL); err != nil {
			log.Warn().Err(err).Str("key", cacheKey).Msg("Failed to cache book")
		}
	}
	return book, nil
}

func (s *bookService) GetBySlug(ctx context.Context, slug string) (*model.Book, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *bookService) FindByISBN(ctx context.Context, isbn string) (*model.Book, error) {
	return s.repo.FindByISBN(ctx, isbn)
}

func (s *bookService) List(ctx context.Context, filter model.ListBooksFilter) ([]model.Book, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	return s.repo.List(ctx, filter)
}

func (s *bookService) Update(ctx context.Context, id uuid.UUID, req model.UpdateBookRequest) (*model.Book, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil && *req.Title != book.Title {
		book.Title = *req.Title
		book.Slug = s.uniqueSlug(ctx, *req.Title)
	}
	if req.CategoryID != nil {
		book.CategoryID = req.CategoryID
	}
	if req.ISBNPaperback != nil {
		book.ISBNPaperback = req.ISBNPaperback
	}
	if req.ISBN != nil {
		book.ISBN = req.ISBN
	}
	if req.ISBNHardcover != nil {
		book.ISBNHardcover = req.ISBNHardcover
	}
	if req.Price != nil {
		book.Price = decimal.NewFromFloat(*req.Price)
	}
	if req.Description != nil {
		book.Description = req.Description
	}
	if req.Language != nil {
		book.Language = *req.Language
	}
	if req.PublishedYear != nil {
		book.PublishedYear = req.PublishedYear
	}
	if req.IsActive != nil {
		book.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, book); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return book, nil
}

func (s *bookService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// =====================================================
// PUBLISHING PIPELINE
// =====================================================

func (s *bookService) UpdateStage(ctx context.Context, id uuid.UUID, stage model.PublishingStage) (*model.Book, error) {
	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !book.Stage.CanTransitionTo(stage) {
		return nil, model.NewBookError(model.ErrCodeInvalidStage,
			fmt.Sprintf("cannot move from %s to %s", book.Stage, stage), model.ErrInvalidStage)
	}

	if err := s.repo.UpdateStage(ctx, id, stage); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)

	book.Stage = stage
	log.Info().
		Str("book_id", id.String()).
		Str("stage", stage.String()).
		Msg("Publishing stage updated")

	return book, nil
}

// =====================================================
// AUTHOR LINKS
// =====================================================

func (s *bookService) LinkAuthors(ctx context.Context, bookID uuid.UUID, req model.LinkAuthorsRequest, addedBy *uuid.UUID) ([]model.BookAuthor, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	book, err := s.repo.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetBookAuthors(ctx, bookID)
	if err != nil {
		return nil, err
	}

	// The uid is denormalized into the junction row, so every linked
	// author must carry one before the insert.
	uids := make(map[uuid.UUID]string, len(req.Authors))
	for _, link := range req.Authors {
		uid, err := s.authorService.EnsureAuthorUID(ctx, link.AuthorID)
		if err != nil {
			return nil, err
		}
		uids[link.AuthorID] = uid
	}

	created, err := database.WithTransactionResult(ctx, s.pool, func(tx pgx.Tx) ([]model.BookAuthor, error) {
		out := make([]model.BookAuthor, 0, len(req.Authors))
		hasPrimary := len(existing) > 0

		for _, link := range req.Authors {
			var share *decimal.Decimal
			if link.RoyaltyShare != nil {
				d := decimal.NewFromFloat(*link.RoyaltyShare)
				share = &d
			}

			row := model.BookAuthor{
				BookID:       bookID,
				AuthorID:     link.AuthorID,
				AuthorUID:    uids[link.AuthorID],
				RoyaltyShare: share,
				IsPrimary:    !hasPrimary,
				AddedBy:      addedBy,
			}
			hasPrimary = true

			if err := s.repo.LinkAuthorTx(ctx, tx, &row); err != nil {
				return nil, err
			}
			out = append(out, row)
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	// Backfill the legacy single-author column for older read paths.
	if book.AuthorID == nil && len(created) > 0 {
		book.AuthorID = &created[0].AuthorID
		if err := s.repo.Update(ctx, book); err != nil {
			log.Warn().Err(err).Str("book_id", bookID.String()).Msg("Failed to backfill legacy author column")
		}
	}
	s.invalidate(ctx, bookID)

	return created, nil
}

func (s *bookService) GetBookAuthors(ctx context.Context, bookID uuid.UUID) ([]model.BookAuthor, error) {
	return s.repo.GetBookAuthors(ctx, bookID)
}

func (s *bookService) GetAuthorBooks(ctx context.Context, authorID uuid.UUID, limit, offset int) ([]model.Book, int, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.repo.GetAuthorBooks(ctx, authorID, limit, offset)
}

func (s *bookService) UnlinkAuthor(ctx context.Context, bookID, authorID uuid.UUID) error {
	if err := s.repo.UnlinkAuthor(ctx, bookID, authorID); err != nil {
		return err
	}
	s.invalidate(ctx, bookID)
	return nil
}

// =====================================================
// MANUSCRIPT UPLOAD
// =====================================================

func (s *bookService) UploadManuscript(ctx context.Context, bookID uuid.UUID, file *multipart.FileHeader) (*model.Book, error) {
	if s.storage == nil {
		return nil, model.NewBookError(model.ErrCodeManuscriptUpload, "Manuscript storage is not configured", nil)
	}

	book, err := s.repo.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	src, err := file.Open()
	if err != nil {
		return nil, model.NewBookError(model.ErrCodeManuscriptUpload, "Failed to open uploaded file", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, model.NewBookError(model.ErrCodeManuscriptUpload, "Failed to read uploaded file", err)
	}

	objectKey := fmt.Sprintf("manuscripts/%s/%s%s", bookID, xid.New().String(), filepath.Ext(file.Filename))
	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if _, err := s.storage.Upload(ctx, objectKey, data, contentType); err != nil {
		return nil, model.NewBookError(model.ErrCodeManuscriptUpload, "Failed to store manuscript", err)
	}

	if err := s.repo.SetManuscriptKey(ctx, bookID, objectKey); err != nil {
		return nil, err
	}
	s.invalidate(ctx, bookID)

	book.ManuscriptKey = &objectKey
	log.Info().
		Str("book_id", bookID.String()).
		Str("object_key", objectKey).
		Msg("Manuscript uploaded")

	return book, nil
}

// =====================================================
// HELPERS
// =====================================================

func (s *bookService) uniqueSlug(ctx context.Context, title string) string {
	slug := utils.GenerateSlug(title)
	if _, err := s.repo.GetBySlug(ctx, slug); errors.Is(err, model.ErrBookNotFound) {
		return slug
	}
	return slug + "-" + xid.New().String()
}

func (s *bookService) invalidate(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, bookCacheKeyPrefix+id.String()); err != nil {
		log.Warn().Err(err).Str("book_id", id.String()).Msg("Failed to invalidate book cache")
	}
}
