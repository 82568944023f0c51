package service

import (
	"context"

	"github.com/google/uuid"

	"writerspocket-backend/internal/domains/author/model"
)

// ServiceInterface is the author identity contract: registration, login,
// identifier issuance and find-or-create resolution.
type ServiceInterface interface {
	// GenerateAuthorUID issues the next globally unique author identifier.
	GenerateAuthorUID(ctx context.Context) (string, error)

	// EnsureAuthorUID assigns a uid to the author if missing and returns
	// the uid the author ends up with.
	EnsureAuthorUID(ctx context.Context, authorID uuid.UUID) (string, error)

	// ResolveOrCreateByEmail finds an author by normalized email, creating
	// the account (with a fresh uid and empty password) on first sight.
	// Safe to call concurrently with the same email.
	ResolveOrCreateByEmail(ctx context.Context, email, name string, opts *model.ResolveOptions) (*model.Author, error)

	Register(ctx context.Context, req model.RegisterRequest) (*model.LoginResponse, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error)

	GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error)
	List(ctx context.Context, limit, offset int) ([]model.Author, int, error)
}
