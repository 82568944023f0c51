package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"writerspocket-backend/internal/domains/royalty/model"
)

// RepositoryInterface is the royalty ledger data access contract.
// Ledger lines are append-only; MarkPaid is the only mutation.
type RepositoryInterface interface {
	CreateTx(ctx context.Context, tx pgx.Tx, royalty *model.Royalty) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Royalty, error)
	List(ctx context.Context, filter model.ListFilter) ([]model.Royalty, int, error)
	MarkPaid(ctx context.Context, ids []uuid.UUID) (int, error)
	PeriodSummary(ctx context.Context, authorID uuid.UUID, period string) (*model.PeriodSummary, error)

	// AuthorsWithEarnings returns the distinct author ids that have at
	// least one ledger line in a period. Drives statement emails.
	AuthorsWithEarnings(ctx context.Context, period string) ([]uuid.UUID, error)
}
