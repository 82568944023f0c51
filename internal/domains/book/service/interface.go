package service

import (
	"context"
	"mime/multipart"

	"github.com/google/uuid"

	"writerspocket-backend/internal/domains/book/model"
)

// ServiceInterface is the book business logic contract.
type ServiceInterface interface {
	Create(ctx context.Context, req model.CreateBookRequest) (*model.Book, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error)
	GetBySlug(ctx context.Context, slug string) (*model.Book, error)
	FindByISBN(ctx context.Context, isbn string) (*model.Book, error)
	List(ctx context.Context, filter model.ListBooksFilter) ([]model.Book, int, error)
	Update(ctx context.Context, id uuid.UUID, req model.UpdateBookRequest) (*model.Book, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// UpdateStage enforces the production pipeline ordering.
	UpdateStage(ctx context.Context, id uuid.UUID, stage model.PublishingStage) (*model.Book, error)

	// LinkAuthors attaches authors to a book in request order; the first
	// author of the first call becomes primary.
	LinkAuthors(ctx context.Context, bookID uuid.UUID, req model.LinkAuthorsRequest, addedBy *uuid.UUID) ([]model.BookAuthor, error)
	GetBookAuthors(ctx context.Context, bookID uuid.UUID) ([]model.BookAuthor, error)
	GetAuthorBooks(ctx context.Context, authorID uuid.UUID, limit, offset int) ([]model.Book, int, error)
	UnlinkAuthor(ctx context.Context, bookID, authorID uuid.UUID) error

	UploadManuscript(ctx context.Context, bookID uuid.UUID, file *multipart.FileHeader) (*model.Book, error)
}

// BulkImportServiceInterface handles admin CSV catalog imports.
type BulkImportServiceInterface interface {
	ImportBooks(ctx context.Context, file *multipart.FileHeader, importedBy string) (*model.BulkImportResult, error)
}
