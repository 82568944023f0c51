package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"writerspocket-backend/internal/domains/page/model"
)

// RepositoryInterface is the content page data access contract.
type RepositoryInterface interface {
	Create(ctx context.Context, page *model.ContentPage) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.ContentPage, error)
	GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*model.ContentPage, error)
	List(ctx context.Context, publishedOnly bool) ([]model.ContentPage, error)
	Update(ctx context.Context, page *model.ContentPage) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPageRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const pageColumns = `id, slug, title, body, is_published, created_at, updated_at`

func scanPage(row pgx.Row) (*model.ContentPage, error) {
	var p model.ContentPage
	err := row.Scan(&p.ID, &p.Slug, &p.Title, &p.Body, &p.IsPublished, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepository) Create(ctx context.Context, page *model.ContentPage) error {
	query := `
		INSERT INTO content_pages (slug, title, body, is_published)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		page.Slug, page.Title, page.Body, page.IsPublished,
	).Scan(&page.ID, &page.CreatedAt, &page.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return model.ErrPageExists
	}
	if err != nil {
		return fmt.Errorf("failed to create page: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ContentPage, error) {
	query := `SELECT ` + pageColumns + ` FROM content_pages WHERE id = $1`

	page, err := scanPage(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrPageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get page: %w", err)
	}
	return page, nil
}

func (r *postgresRepository) GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*model.ContentPage, error) {
	query := `SELECT ` + pageColumns + ` FROM content_pages WHERE slug = $1`
	if publishedOnly {
		query += ` AND is_published = TRUE`
	}

	page, err := scanPage(r.pool.QueryRow(ctx, query, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrPageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get page by slug: %w", err)
	}
	return page, nil
}

func (r *postgresRepository) List(ctx context.Context, publishedOnly bool) ([]model.ContentPage, error) {
	query := `SELECT ` + pageColumns + ` FROM content_pages`
	if publishedOnly {
		query += ` WHERE is_published = TRUE`
	}
	query += ` ORDER BY slug ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	defer rows.Close()

	pages := make([]model.ContentPage, 0)
	for rows.Next() {
		page, err := scanPage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan page row: %w", err)
		}
		pages = append(pages, *page)
	}
	return pages, rows.Err()
}

func (r *postgresRepository) Update(ctx context.Context, page *model.ContentPage) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE content_pages
		SET title = $2, body = $3, is_published = $4, updated_at = NOW()
		WHERE id = $1
	`, page.ID, page.Title, page.Body, page.IsPublished)
	if err != nil {
		return fmt.Errorf("failed to update page: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPageNotFound
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM content_pages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete page: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPageNotFound
	}
	return nil
}
