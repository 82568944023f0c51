package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"writerspocket-backend/internal/domains/category/model"
	"writerspocket-backend/internal/shared/utils"
)

// RepositoryInterface is the category data access contract.
type RepositoryInterface interface {
	Create(ctx context.Context, category *model.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
	GetBySlug(ctx context.Context, slug string) (*model.Category, error)

	// GetOrCreateByName resolves a category by slugified name, creating it
	// when missing. Used by the catalog importer.
	GetOrCreateByName(ctx context.Context, name string) (*model.Category, error)

	List(ctx context.Context, includeInactive bool) ([]model.Category, error)
	Update(ctx context.Context, category *model.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewCategoryRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const categoryColumns = `
	c.id, c.name, c.slug, c.is_active,
	(SELECT COUNT(*) FROM books b WHERE b.category_id = c.id AND b.is_active = TRUE),
	c.created_at, c.updated_at
`

func scanCategory(row pgx.Row) (*model.Category, error) {
	var c model.Category
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.IsActive, &c.BookCount, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepository) Create(ctx context.Context, category *model.Category) error {
	if category.Slug == "" {
		category.Slug = utils.GenerateSlug(category.Name)
	}

	query := `
		INSERT INTO categories (name, slug, is_active)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query, category.Name, category.Slug, category.IsActive).
		Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return model.ErrCategoryExists
	}
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories c WHERE c.id = $1`

	category, err := scanCategory(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

func (r *postgresRepository) GetBySlug(ctx context.Context, slug string) (*model.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories c WHERE c.slug = $1`

	category, err := scanCategory(r.pool.QueryRow(ctx, query, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category by slug: %w", err)
	}
	return category, nil
}

func (r *postgresRepository) GetOrCreateByName(ctx context.Context, name string) (*model.Category, error) {
	slug := utils.GenerateSlug(name)

	category, err := r.GetBySlug(ctx, slug)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, model.ErrCategoryNotFound) {
		return nil, err
	}

	category = &model.Category{Name: name, Slug: slug, IsActive: true}
	err = r.Create(ctx, category)
	if errors.Is(err, model.ErrCategoryExists) {
		// Concurrent creation; re-read.
		return r.GetBySlug(ctx, slug)
	}
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (r *postgresRepository) List(ctx context.Context, includeInactive bool) ([]model.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories c`
	if !includeInactive {
		query += ` WHERE c.is_active = TRUE`
	}
	query += ` ORDER BY c.name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]model.Category, 0)
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		categories = append(categories, *category)
	}
	return categories, rows.Err()
}

func (r *postgresRepository) Update(ctx context.Context, category *model.Category) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE categories SET name = $2, slug = $3, is_active = $4, updated_at = NOW() WHERE id = $1`,
		category.ID, category.Name, category.Slug, category.IsActive)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCategoryNotFound
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE categories SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCategoryNotFound
	}
	return nil
}
