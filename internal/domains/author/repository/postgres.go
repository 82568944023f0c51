package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"writerspocket-backend/internal/domains/author/model"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================
type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const authorColumns = `
	id, email, full_name, author_uid, password_hash, role,
	is_active, import_source, phone, created_at, updated_at
`

func scanAuthor(row pgx.Row) (*model.Author, error) {
	var a model.Author
	err := row.Scan(
		&a.ID, &a.Email, &a.FullName, &a.AuthorUID, &a.PasswordHash, &a.Role,
		&a.IsActive, &a.ImportSource, &a.Phone, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// =====================================================
// CREATE
// =====================================================

func (r *postgresRepository) Create(ctx context.Context, author *model.Author) error {
	if author.ID == uuid.Nil {
		author.ID = uuid.New()
	}
	now := time.Now()
	author.CreatedAt = now
	author.UpdatedAt = now

	query := `
		INSERT INTO authors (
			id, email, full_name, author_uid, password_hash, role,
			is_active, import_source, phone, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.pool.Exec(ctx, query,
		author.ID,
		author.Email,
		author.FullName,
		author.AuthorUID,
		author.PasswordHash,
		author.Role,
		author.IsActive,
		author.ImportSource,
		author.Phone,
		author.CreatedAt,
		author.UpdatedAt,
	)
	if err != nil {
		// 23505 = unique_violation on the email index. Surfaced as a typed
		// error so ResolveOrCreateByEmail can treat it as a lost race.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrEmailTaken
		}
		return fmt.Errorf("failed to create author: %w", err)
	}
	return nil
}

// =====================================================
// LOOKUPS
// =====================================================

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error) {
	query := `SELECT ` + authorColumns + ` FROM authors WHERE id = $1`

	author, err := scanAuthor(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrAuthorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get author by id: %w", err)
	}
	return author, nil
}

func (r *postgresRepository) GetByEmail(ctx context.Context, email string) (*model.Author, error) {
	query := `SELECT ` + authorColumns + ` FROM authors WHERE email = $1`

	author, err := scanAuthor(r.pool.QueryRow(ctx, query, model.NormalizeEmail(email)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrAuthorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get author by email: %w", err)
	}
	return author, nil
}

func (r *postgresRepository) GetByAuthorUID(ctx context.Context, authorUID string) (*model.Author, error) {
	query := `SELECT ` + authorColumns + ` FROM authors WHERE author_uid = $1`

	author, err := scanAuthor(r.pool.QueryRow(ctx, query, authorUID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrAuthorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get author by uid: %w", err)
	}
	return author, nil
}

func (r *postgresRepository) List(ctx context.Context, limit, offset int) ([]model.Author, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM authors`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count authors: %w", err)
	}

	query := `
		SELECT ` + authorColumns + `
		FROM authors
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list authors: %w", err)
	}
	defer rows.Close()

	var authors []model.Author
	for rows.Next() {
		var a model.Author
		if err := rows.Scan(
			&a.ID, &a.Email, &a.FullName, &a.AuthorUID, &a.PasswordHash, &a.Role,
			&a.IsActive, &a.ImportSource, &a.Phone, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan author: %w", err)
		}
		authors = append(authors, a)
	}
	return authors, total, rows.Err()
}

// =====================================================
// AUTHOR UID SEQUENCE
// =====================================================

// NextAuthorUIDValue hands out the next sequence value in one atomic
// statement. The upsert form means there is no separate "initialize the
// counter" step and no read-then-write window.
func (r *postgresRepository) NextAuthorUIDValue(ctx context.Context) (int64, error) {
	query := `
		INSERT INTO author_uid_sequence (id, last_value)
		VALUES ($1, 1)
		ON CONFLICT (id)
		DO UPDATE SET last_value = author_uid_sequence.last_value + 1
		RETURNING last_value
	`

	var value int64
	if err := r.pool.QueryRow(ctx, query, model.AuthorUIDSequenceKey).Scan(&value); err != nil {
		return 0, fmt.Errorf("failed to advance author uid sequence: %w", err)
	}
	return value, nil
}

// SetAuthorUID only fills an empty slot; a uid is immutable once set.
func (r *postgresRepository) SetAuthorUID(ctx context.Context, id uuid.UUID, authorUID string) (bool, error) {
	query := `
		UPDATE authors
		SET author_uid = $2, updated_at = NOW()
		WHERE id = $1 AND author_uid IS NULL
	`

	tag, err := r.pool.Exec(ctx, query, id, authorUID)
	if err != nil {
		return false, fmt.Errorf("failed to set author uid: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// =====================================================
// UPDATES
// =====================================================

func (r *postgresRepository) SetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := `UPDATE authors SET password_hash = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to set password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAuthorNotFound
	}
	return nil
}

func (r *postgresRepository) Update(ctx context.Context, author *model.Author) error {
	query := `
		UPDATE authors
		SET full_name = $2, phone = $3, is_active = $4, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, author.ID, author.FullName, author.Phone, author.IsActive)
	if err != nil {
		return fmt.Errorf("failed to update author: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAuthorNotFound
	}
	return nil
}
