package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"writerspocket-backend/internal/domains/book/model"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================
type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewBookRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const bookColumns = `
	id, title, slug, author_id, category_id,
	isbn_paperback, isbn, isbn_hardcover,
	price, description, language, published_year,
	stage, manuscript_key, is_active, created_at, updated_at
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (*model.Book, error) {
	var b model.Book
	err := row.Scan(
		&b.ID, &b.Title, &b.Slug, &b.AuthorID, &b.CategoryID,
		&b.ISBNPaperback, &b.ISBN, &b.ISBNHardcover,
		&b.Price, &b.Description, &b.Language, &b.PublishedYear,
		&b.Stage, &b.ManuscriptKey, &b.IsActive, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// =====================================================
// BOOK CRUD
// =====================================================

const insertBookQuery = `
	INSERT INTO books (
		title, slug, author_id, category_id,
		isbn_paperback, isbn, isbn_hardcover,
		price, description, language, published_year, stage, is_active
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	RETURNING id, created_at, updated_at
`

func (r *postgresRepository) Create(ctx context.Context, book *model.Book) error {
	return r.create(ctx, r.pool, book)
}

func (r *postgresRepository) CreateTx(ctx context.Context, tx pgx.Tx, book *model.Book) error {
	return r.create(ctx, tx, book)
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *postgresRepository) create(ctx context.Context, q queryRower, book *model.Book) error {
	if book.Stage == "" {
		book.Stage = model.StageDraft
	}

	err := q.QueryRow(ctx, insertBookQuery,
		book.Title, book.Slug, book.AuthorID, book.CategoryID,
		book.ISBNPaperback, book.ISBN, book.ISBNHardcover,
		book.Price, book.Description, book.Language, book.PublishedYear,
		book.Stage, book.IsActive,
	).Scan(&book.ID, &book.CreatedAt, &book.UpdatedAt)

	if isUniqueViolation(err) {
		return model.ErrDuplicateISBN
	}
	if err != nil {
		return fmt.Errorf("failed to create book: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1`

	book, err := scanBook(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get book: %w", err)
	}
	return book, nil
}

func (r *postgresRepository) GetBySlug(ctx context.Context, slug string) (*model.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE slug = $1`

	book, err := scanBook(r.pool.QueryRow(ctx, query, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get book by slug: %w", err)
	}
	return book, nil
}

func (r *postgresRepository) FindByISBN(ctx context.Context, isbn string) (*model.Book, error) {
	query := `
		SELECT ` + bookColumns + `
		FROM books
		WHERE isbn_paperback = $1 OR isbn = $1 OR isbn_hardcover = $1
		LIMIT 1
	`

	book, err := scanBook(r.pool.QueryRow(ctx, query, isbn))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find book by isbn: %w", err)
	}
	return book, nil
}

func (r *postgresRepository) List(ctx context.Context, filter model.ListBooksFilter) ([]model.Book, int, error) {
	conditions := []string{"is_active = TRUE"}
	args := []any{}
	argPos := 1

	if filter.CategoryID != nil {
		conditions = append(conditions, fmt.Sprintf("category_id = $%d", argPos))
		args = append(args, *filter.CategoryID)
		argPos++
	}
	if filter.AuthorID != nil {
		conditions = append(conditions, fmt.Sprintf(
			"(author_id = $%d OR id IN (SELECT book_id FROM book_authors WHERE author_id = $%d))", argPos, argPos))
		args = append(args, *filter.AuthorID)
		argPos++
	}
	if filter.Stage != nil {
		conditions = append(conditions, fmt.Sprintf("stage = $%d", argPos))
		args = append(args, *filter.Stage)
		argPos++
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("title ILIKE $%d", argPos))
		args = append(args, "%"+filter.Search+"%")
		argPos++
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM books " + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count books: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM books %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		bookColumns, where, argPos, argPos+1,
	)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	books := make([]model.Book, 0)
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan book row: %w", err)
		}
		books = append(books, *book)
	}
	return books, total, rows.Err()
}

func (r *postgresRepository) Update(ctx context.Context, book *model.Book) error {
	query := `
		UPDATE books
		SET title = $2, slug = $3, category_id = $4,
		    isbn_paperback = $5, isbn = $6, isbn_hardcover = $7,
		    price = $8, description = $9, language = $10,
		    published_year = $11, is_active = $12, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		book.ID, book.Title, book.Slug, book.CategoryID,
		book.ISBNPaperback, book.ISBN, book.ISBNHardcover,
		book.Price, book.Description, book.Language,
		book.PublishedYear, book.IsActive,
	)
	if isUniqueViolation(err) {
		return model.ErrDuplicateISBN
	}
	if err != nil {
		return fmt.Errorf("failed to update book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	return nil
}

func (r *postgresRepository) UpdateStage(ctx context.Context, id uuid.UUID, stage model.PublishingStage) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE books SET stage = $2, updated_at = NOW() WHERE id = $1`, id, stage)
	if err != nil {
		return fmt.Errorf("failed to update publishing stage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	return nil
}

func (r *postgresRepository) SetManuscriptKey(ctx context.Context, id uuid.UUID, objectKey string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE books SET manuscript_key = $2, updated_at = NOW() WHERE id = $1`, id, objectKey)
	if err != nil {
		return fmt.Errorf("failed to set manuscript key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE books SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	return nil
}

// =====================================================
// BOOK-AUTHOR JUNCTION
// =====================================================

func (r *postgresRepository) LinkAuthorTx(ctx context.Context, tx pgx.Tx, link *model.BookAuthor) error {
	query := `
		INSERT INTO book_authors (book_id, author_id, author_uid, royalty_share, is_primary, added_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := tx.QueryRow(ctx, query,
		link.BookID, link.AuthorID, link.AuthorUID,
		link.RoyaltyShare, link.IsPrimary, link.AddedBy,
	).Scan(&link.ID, &link.CreatedAt)

	if isUniqueViolation(err) {
		return model.ErrAuthorLinkExists
	}
	if err != nil {
		return fmt.Errorf("failed to link author to book: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetBookAuthors(ctx context.Context, bookID uuid.UUID) ([]model.BookAuthor, error) {
	query := `
		SELECT id, book_id, author_id, author_uid, royalty_share, is_primary, added_by, created_at
		FROM book_authors
		WHERE book_id = $1
		ORDER BY is_primary DESC, created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to get book authors: %w", err)
	}
	defer rows.Close()

	links := make([]model.BookAuthor, 0)
	for rows.Next() {
		var link model.BookAuthor
		if err := rows.Scan(
			&link.ID, &link.BookID, &link.AuthorID, &link.AuthorUID,
			&link.RoyaltyShare, &link.IsPrimary, &link.AddedBy, &link.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan book author row: %w", err)
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

func (r *postgresRepository) GetAuthorBooks(ctx context.Context, authorID uuid.UUID, limit, offset int) ([]model.Book, int, error) {
	filter := model.ListBooksFilter{AuthorID: &authorID, Limit: limit, Offset: offset}
	return r.List(ctx, filter)
}

func (r *postgresRepository) UnlinkAuthor(ctx context.Context, bookID, authorID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM book_authors WHERE book_id = $1 AND author_id = $2`, bookID, authorID)
	if err != nil {
		return fmt.Errorf("failed to unlink author: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	return nil
}
