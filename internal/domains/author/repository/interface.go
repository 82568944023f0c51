package repository

import (
	"context"

	"github.com/google/uuid"

	"writerspocket-backend/internal/domains/author/model"
)

// RepositoryInterface is the author data access contract.
type RepositoryInterface interface {
	Create(ctx context.Context, author *model.Author) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error)
	GetByEmail(ctx context.Context, email string) (*model.Author, error)
	GetByAuthorUID(ctx context.Context, authorUID string) (*model.Author, error)
	List(ctx context.Context, limit, offset int) ([]model.Author, int, error)

	// SetAuthorUID assigns a uid to an author that has none yet.
	// Returns false when the author already carries a uid.
	SetAuthorUID(ctx context.Context, id uuid.UUID, authorUID string) (bool, error)

	// NextAuthorUIDValue atomically increments the singleton sequence row
	// and returns the new value. The first call ever returns 1.
	NextAuthorUIDValue(ctx context.Context) (int64, error)

	SetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	Update(ctx context.Context, author *model.Author) error
}
