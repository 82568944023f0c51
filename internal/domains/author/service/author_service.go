package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"writerspocket-backend/internal/domains/author/model"
	"writerspocket-backend/internal/domains/author/repository"
	"writerspocket-backend/internal/shared"
	"writerspocket-backend/pkg/jwt"
)

// =====================================================
// AUTHOR SERVICE IMPLEMENTATION
// =====================================================
type authorService struct {
	repo       repository.RepositoryInterface
	jwtManager *jwt.Manager
	asynq      *asynq.Client // nil in tests; enqueue failures are non-fatal
}

func NewAuthorService(
	repo repository.RepositoryInterface,
	jwtManager *jwt.Manager,
	asynqClient *asynq.Client,
) ServiceInterface {
	return &authorService{
		repo:       repo,
		jwtManager: jwtManager,
		asynq:      asynqClient,
	}
}

// =====================================================
// AUTHOR UID ISSUANCE
// =====================================================

func (s *authorService) GenerateAuthorUID(ctx context.Context) (string, error) {
	value, err := s.repo.NextAuthorUIDValue(ctx)
	if err != nil {
		return "", model.NewAuthorError(model.ErrCodeUIDIssueFailed, "Failed to issue author uid", err)
	}
	return model.FormatAuthorUID(value), nil
}

// EnsureAuthorUID backfills a uid for accounts created before uids existed.
// The sequence advances even when another writer wins the race; gaps in the
// sequence are acceptable, duplicates are not.
func (s *authorService) EnsureAuthorUID(ctx context.Context, authorID uuid.UUID) (string, error) {
	author, err := s.repo.GetByID(ctx, authorID)
	if err != nil {
		return "", err
	}
	if author.AuthorUID != nil {
		return *author.AuthorUID, nil
	}

	uid, err := s.GenerateAuthorUID(ctx)
	if err != nil {
		return "", err
	}

	assigned, err := s.repo.SetAuthorUID(ctx, authorID, uid)
	if err != nil {
		return "", err
	}
	if !assigned {
		// Lost the race: someone else assigned first. Re-read theirs.
		author, err = s.repo.GetByID(ctx, authorID)
		if err != nil {
			return "", err
		}
		if author.AuthorUID == nil {
			return "", model.NewAuthorError(model.ErrCodeUIDIssueFailed, "Author uid assignment raced and lost", nil)
		}
		return *author.AuthorUID, nil
	}

	log.Info().
		Str("author_id", authorID.String()).
		Str("author_uid", uid).
		Msg("Assigned author uid")

	return uid, nil
}

// =====================================================
// FIND-OR-CREATE RESOLUTION
// =====================================================

func (s *authorService) ResolveOrCreateByEmail(ctx context.Context, email, name string, opts *model.ResolveOptions) (*model.Author, error) {
	normalized := model.NormalizeEmail(email)
	if normalized == "" {
		return nil, model.NewAuthorError(model.ErrCodeAuthorNotFound, "Email is required", nil)
	}

	author, err := s.repo.GetByEmail(ctx, normalized)
	if err == nil {
		// Existing account; backfill the uid if it predates uid issuance.
		if author.AuthorUID == nil {
			uid, uidErr := s.EnsureAuthorUID(ctx, author.ID)
			if uidErr != nil {
				return nil, uidErr
			}
			author.AuthorUID = &uid
		}
		return author, nil
	}
	if !errors.Is(err, model.ErrAuthorNotFound) {
		return nil, err
	}

	// First sight: create with a fresh uid and an unset password.
	uid, err := s.GenerateAuthorUID(ctx)
	if err != nil {
		return nil, err
	}

	author = &model.Author{
		Email:     normalized,
		FullName:  name,
		AuthorUID: &uid,
		Role:      model.RoleAuthor,
		IsActive:  true,
	}
	if opts != nil {
		if opts.ImportSource != "" {
			author.ImportSource = &opts.ImportSource
		}
		if opts.Phone != "" {
			author.Phone = &opts.Phone
		}
	}

	err = s.repo.Create(ctx, author)
	if errors.Is(err, model.ErrEmailTaken) {
		// Concurrent insert beat us; the unique email constraint makes the
		// retry lookup authoritative. The uid we generated is discarded.
		return s.repo.GetByEmail(ctx, normalized)
	}
	if err != nil {
		return nil, err
	}

	s.enqueueLeadSync(author)
	return author, nil
}

// =====================================================
// REGISTRATION / LOGIN
// =====================================================

func (s *authorService) Register(ctx context.Context, req model.RegisterRequest) (*model.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	normalized := model.NormalizeEmail(req.Email)

	existing, err := s.repo.GetByEmail(ctx, normalized)
	if err == nil {
		// Account pre-created by import or royalty posting: registration
		// completes the signup instead of failing.
		if existing.HasCompletedSignup() {
			return nil, model.NewAuthorError(model.ErrCodeEmailTaken, "Email already registered", model.ErrEmailTaken)
		}
		if err := s.repo.SetPassword(ctx, existing.ID, string(hash)); err != nil {
			return nil, err
		}
		existing.PasswordHash = string(hash)
		return s.issueTokens(existing)
	}
	if !errors.Is(err, model.ErrAuthorNotFound) {
		return nil, err
	}

	uid, err := s.GenerateAuthorUID(ctx)
	if err != nil {
		return nil, err
	}

	author := &model.Author{
		Email:        normalized,
		FullName:     req.FullName,
		AuthorUID:    &uid,
		PasswordHash: string(hash),
		Role:         model.RoleAuthor,
		IsActive:     true,
		Phone:        req.Phone,
	}

	err = s.repo.Create(ctx, author)
	if errors.Is(err, model.ErrEmailTaken) {
		return nil, model.NewAuthorError(model.ErrCodeEmailTaken, "Email already registered", err)
	}
	if err != nil {
		return nil, err
	}

	s.enqueueWelcomeEmail(author)
	s.enqueueLeadSync(author)

	return s.issueTokens(author)
}

func (s *authorService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	author, err := s.repo.GetByEmail(ctx, req.Email)
	if errors.Is(err, model.ErrAuthorNotFound) {
		return nil, model.NewAuthorError(model.ErrCodeInvalidCredentials, "Invalid email or password", model.ErrInvalidCredentials)
	}
	if err != nil {
		return nil, err
	}

	if !author.IsActive {
		return nil, model.NewAuthorError(model.ErrCodeAccountInactive, "Account is inactive", model.ErrAccountInactive)
	}
	if !author.HasCompletedSignup() {
		return nil, model.NewAuthorError(model.ErrCodeInvalidCredentials, "Signup not completed", model.ErrInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(author.PasswordHash), []byte(req.Password)); err != nil {
		return nil, model.NewAuthorError(model.ErrCodeInvalidCredentials, "Invalid email or password", model.ErrInvalidCredentials)
	}

	return s.issueTokens(author)
}

func (s *authorService) GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *authorService) List(ctx context.Context, limit, offset int) ([]model.Author, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// =====================================================
// HELPERS
// =====================================================

func (s *authorService) issueTokens(author *model.Author) (*model.LoginResponse, error) {
	access, err := s.jwtManager.GenerateAccessToken(author.ID.String(), author.Email, author.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, err := s.jwtManager.GenerateRefreshToken(author.ID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &model.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		Author:       *author,
	}, nil
}

func (s *authorService) enqueueWelcomeEmail(author *model.Author) {
	if s.asynq == nil {
		return
	}

	uid := ""
	if author.AuthorUID != nil {
		uid = *author.AuthorUID
	}
	payload, err := json.Marshal(shared.WelcomeEmailPayload{
		Email:     author.Email,
		Name:      author.FullName,
		AuthorUID: uid,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal welcome email payload")
		return
	}

	if _, err := s.asynq.Enqueue(
		asynq.NewTask(shared.TypeSendWelcomeEmail, payload),
		asynq.Queue(shared.QueueDefault),
	); err != nil {
		log.Warn().Err(err).Str("email", author.Email).Msg("Failed to enqueue welcome email")
	}
}

func (s *authorService) enqueueLeadSync(author *model.Author) {
	if s.asynq == nil {
		return
	}

	source := "registration"
	if author.ImportSource != nil {
		source = *author.ImportSource
	}
	payload, err := json.Marshal(shared.SyncLeadPayload{
		Email:  author.Email,
		Name:   author.FullName,
		Source: source,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal lead sync payload")
		return
	}

	if _, err := s.asynq.Enqueue(
		asynq.NewTask(shared.TypeSyncLeadToSheets, payload),
		asynq.Queue(shared.QueueLow),
	); err != nil {
		log.Warn().Err(err).Str("email", author.Email).Msg("Failed to enqueue lead sync")
	}
}
