package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"writerspocket-backend/internal/domains/book/model"
)

// RepositoryInterface is the book data access contract.
type RepositoryInterface interface {
	Create(ctx context.Context, book *model.Book) error
	CreateTx(ctx context.Context, tx pgx.Tx, book *model.Book) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error)
	GetBySlug(ctx context.Context, slug string) (*model.Book, error)

	// FindByISBN matches any of the three ISBN columns.
	FindByISBN(ctx context.Context, isbn string) (*model.Book, error)

	List(ctx context.Context, filter model.ListBooksFilter) ([]model.Book, int, error)
	Update(ctx context.Context, book *model.Book) error
	UpdateStage(ctx context.Context, id uuid.UUID, stage model.PublishingStage) error
	SetManuscriptKey(ctx context.Context, id uuid.UUID, objectKey string) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Junction operations. LinkAuthorTx inserts one book_authors row; the
	// caller decides primary flag and transaction scope.
	LinkAuthorTx(ctx context.Context, tx pgx.Tx, link *model.BookAuthor) error
	GetBookAuthors(ctx context.Context, bookID uuid.UUID) ([]model.BookAuthor, error)
	GetAuthorBooks(ctx context.Context, authorID uuid.UUID, limit, offset int) ([]model.Book, int, error)
	UnlinkAuthor(ctx context.Context, bookID, authorID uuid.UUID) error
}
