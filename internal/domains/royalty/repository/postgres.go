package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"writerspocket-backend/internal/domains/royalty/model"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================
type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewRoyaltyRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const royaltyColumns = `
	id, author_id, book_id, sale_ref,
	sale_amount, royalty_rate, amount,
	bucket, raw_platform, period,
	is_paid, paid_at, created_at
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoyalty(row rowScanner) (*model.Royalty, error) {
	var r model.Royalty
	err := row.Scan(
		&r.ID, &r.AuthorID, &r.BookID, &r.SaleRef,
		&r.SaleAmount, &r.RoyaltyRate, &r.Amount,
		&r.Bucket, &r.RawPlatform, &r.Period,
		&r.IsPaid, &r.PaidAt, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (repo *postgresRepository) CreateTx(ctx context.Context, tx pgx.Tx, royalty *model.Royalty) error {
	query := `
		INSERT INTO royalties (
			author_id, book_id, sale_ref,
			sale_amount, royalty_rate, amount,
			bucket, raw_platform, period
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`

	err := tx.QueryRow(ctx, query,
		royalty.AuthorID, royalty.BookID, royalty.SaleRef,
		royalty.SaleAmount, royalty.RoyaltyRate, royalty.Amount,
		royalty.Bucket, royalty.RawPlatform, royalty.Period,
	).Scan(&royalty.ID, &royalty.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create royalty entry: %w", err)
	}
	return nil
}

func (repo *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Royalty, error) {
	query := `SELECT ` + royaltyColumns + ` FROM royalties WHERE id = $1`

	royalty, err := scanRoyalty(repo.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrRoyaltyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get royalty entry: %w", err)
	}
	return royalty, nil
}

func (repo *postgresRepository) List(ctx context.Context, filter model.ListFilter) ([]model.Royalty, int, error) {
	conditions := []string{"TRUE"}
	args := []any{}
	argPos := 1

	if filter.AuthorID != nil {
		conditions = append(conditions, fmt.Sprintf("author_id = $%d", argPos))
		args = append(args, *filter.AuthorID)
		argPos++
	}
	if filter.BookID != nil {
		conditions = append(conditions, fmt.Sprintf("book_id = $%d", argPos))
		args = append(args, *filter.BookID)
		argPos++
	}
	if filter.Period != "" {
		conditions = append(conditions, fmt.Sprintf("period = $%d", argPos))
		args = append(args, filter.Period)
		argPos++
	}
	if filter.Unpaid {
		conditions = append(conditions, "is_paid = FALSE")
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	var total int
	if err := repo.pool.QueryRow(ctx, "SELECT COUNT(*) FROM royalties "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count royalties: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM royalties %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		royaltyColumns, where, argPos, argPos+1,
	)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := repo.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list royalties: %w", err)
	}
	defer rows.Close()

	royalties := make([]model.Royalty, 0)
	for rows.Next() {
		royalty, err := scanRoyalty(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan royalty row: %w", err)
		}
		royalties = append(royalties, *royalty)
	}
	return royalties, total, rows.Err()
}

func (repo *postgresRepository) MarkPaid(ctx context.Context, ids []uuid.UUID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	tag, err := repo.pool.Exec(ctx,
		`UPDATE royalties SET is_paid = TRUE, paid_at = NOW() WHERE id = ANY($1) AND is_paid = FALSE`, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to mark royalties paid: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (repo *postgresRepository) PeriodSummary(ctx context.Context, authorID uuid.UUID, period string) (*model.PeriodSummary, error) {
	query := `
		SELECT bucket, COALESCE(SUM(amount), 0), COALESCE(SUM(sale_amount), 0), COUNT(*)
		FROM royalties
		WHERE author_id = $1 AND period = $2
		GROUP BY bucket
	`

	rows, err := repo.pool.Query(ctx, query, authorID, period)
	if err != nil {
		return nil, fmt.Errorf("failed to build period summary: %w", err)
	}
	defer rows.Close()

	summary := &model.PeriodSummary{
		AuthorID: authorID,
		Period:   period,
		ByBucket: make(map[model.PlatformBucket]decimal.Decimal),
	}

	for rows.Next() {
		var bucket model.PlatformBucket
		var amount, sales decimal.Decimal
		var count int
		if err := rows.Scan(&bucket, &amount, &sales, &count); err != nil {
			return nil, fmt.Errorf("failed to scan summary row: %w", err)
		}
		summary.ByBucket[bucket] = amount
		summary.TotalAmount = summary.TotalAmount.Add(amount)
		summary.TotalSales = summary.TotalSales.Add(sales)
		summary.LineCount += count
	}
	return summary, rows.Err()
}

func (repo *postgresRepository) AuthorsWithEarnings(ctx context.Context, period string) ([]uuid.UUID, error) {
	rows, err := repo.pool.Query(ctx,
		`SELECT DISTINCT author_id FROM royalties WHERE period = $1`, period)
	if err != nil {
		return nil, fmt.Errorf("failed to list authors with earnings: %w", err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan author id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
