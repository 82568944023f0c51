package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"writerspocket-backend/internal/domains/author/model"
	"writerspocket-backend/pkg/jwt"
)

// =====================================================
// IN-MEMORY FAKE REPOSITORY
// =====================================================
type fakeAuthorRepo struct {
	mu       sync.Mutex
	byID     map[uuid.UUID]*model.Author
	byEmail  map[string]*model.Author
	sequence int64
}

func newFakeAuthorRepo() *fakeAuthorRepo {
	return &fakeAuthorRepo{
		byID:    make(map[uuid.UUID]*model.Author),
		byEmail: make(map[string]*model.Author),
	}
}

func (r *fakeAuthorRepo) Create(ctx context.Context, author *model.Author) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[author.Email]; ok {
		return model.ErrEmailTaken
	}
	author.ID = uuid.New()
	copied := *author
	r.byID[author.ID] = &copied
	r.byEmail[author.Email] = &copied
	return nil
}

func (r *fakeAuthorRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, model.ErrAuthorNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *fakeAuthorRepo) GetByEmail(ctx context.Context, email string) (*model.Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byEmail[model.NormalizeEmail(email)]
	if !ok {
		return nil, model.ErrAuthorNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *fakeAuthorRepo) GetByAuthorUID(ctx context.Context, authorUID string) (*model.Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byID {
		if a.AuthorUID != nil && *a.AuthorUID == authorUID {
			copied := *a
			return &copied, nil
		}
	}
	return nil, model.ErrAuthorNotFound
}

func (r *fakeAuthorRepo) List(ctx context.Context, limit, offset int) ([]model.Author, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Author, 0, len(r.byID))
	for _, a := range r.byID {
		out = append(out, *a)
	}
	return out, len(out), nil
}

func (r *fakeAuthorRepo) SetAuthorUID(ctx context.Context, id uuid.UUID, authorUID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return false, model.ErrAuthorNotFound
	}
	if a.AuthorUID != nil {
		return false, nil
	}
	a.AuthorUID = &authorUID
	return true, nil
}

func (r *fakeAuthorRepo) NextAuthorUIDValue(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sequence++
	return r.sequence, nil
}

func (r *fakeAuthorRepo) SetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return model.ErrAuthorNotFound
	}
	a.PasswordHash = passwordHash
	return nil
}

func (r *fakeAuthorRepo) Update(ctx context.Context, author *model.Author) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[author.ID]
	if !ok {
		return model.ErrAuthorNotFound
	}
	*a = *author
	return nil
}

func newTestService(repo *fakeAuthorRepo) ServiceInterface {
	return NewAuthorService(repo, jwt.NewManager("test-secret", 15, 168), nil)
}

// =====================================================
// UID ISSUANCE
// =====================================================

func TestGenerateAuthorUID_SequentialFormat(t *testing.T) {
	repo := newFakeAuthorRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	first, err := svc.GenerateAuthorUID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "WP-AUTH-000001", first)

	second, err := svc.GenerateAuthorUID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "WP-AUTH-000002", second)
}

func TestFormatAuthorUID_WidensPastSixDigits(t *testing.T) {
	assert.Equal(t, "WP-AUTH-000042", model.FormatAuthorUID(42))
	assert.Equal(t, "WP-AUTH-999999", model.FormatAuthorUID(999999))
	assert.Equal(t, "WP-AUTH-1000000", model.FormatAuthorUID(1000000))
}

func TestEnsureAuthorUID_Idempotent(t *testing.T) {
	repo := newFakeAuthorRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	author := &model.Author{Email: "ana@example.com", FullName: "Ana", Role: model.RoleAuthor, IsActive: true}
	require.NoError(t, repo.Create(ctx, author))

	uid, err := svc.EnsureAuthorUID(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, "WP-AUTH-000001", uid)

	// Second call must return the same uid without advancing the sequence
	// for this author.
	again, err := svc.EnsureAuthorUID(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, uid, again)
}

// =====================================================
// RESOLVE-OR-CREATE
// =====================================================

func TestResolveOrCreateByEmail_CreatesWithUID(t *testing.T) {
	repo := newFakeAuthorRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	author, err := svc.ResolveOrCreateByEmail(ctx, "New.Author@Example.COM ", "New Author", nil)
	require.NoError(t, err)

	assert.Equal(t, "new.author@example.com", author.Email)
	require.NotNil(t, author.AuthorUID)
	assert.Equal(t, "WP-AUTH-000001", *author.AuthorUID)
	assert.Empty(t, author.PasswordHash)
	assert.False(t, author.HasCompletedSignup())
}

func TestResolveOrCreateByEmail_ReturnsExisting(t *testing.T) {
	repo := newFakeAuthorRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	first, err := svc.ResolveOrCreateByEmail(ctx, "ana@example.com", "Ana", nil)
	require.NoError(t, err)

	second, err := svc.ResolveOrCreateByEmail(ctx, "ANA@example.com", "Different Name", nil)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, *first.AuthorUID, *second.AuthorUID)
	// The stored name is not overwritten by later resolutions.
	assert.Equal(t, "Ana", second.FullName)
}

func TestResolveOrCreateByEmail_BackfillsMissingUID(t *testing.T) {
	repo := newFakeAuthorRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	legacy := &model.Author{Email: "legacy@example.com", FullName: "Legacy", Role: model.RoleAuthor, IsActive: true}
	require.NoError(t, repo.Create(ctx, legacy))

	resolved, err := svc.ResolveOrCreateByEmail(ctx, "legacy@example.com", "", nil)
	require.NoError(t, err)
	require.NotNil(t, resolved.AuthorUID)
	assert.Equal(t, "WP-AUTH-000001", *resolved.AuthorUID)
}

func TestResolveOrCreateByEmail_RecordsProvenance(t *testing.T) {
	repo := newFakeAuthorRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	author, err := svc.ResolveOrCreateByEmail(ctx, "import@example.com", "Imported", &model.ResolveOptions{
		ImportSource: "csv_import",
		Phone:        "+1-555-0101",
	})
	require.NoError(t, err)
	require.NotNil(t, author.ImportSource)
	assert.Equal(t, "csv_import", *author.ImportSource)
	require.NotNil(t, author.Phone)
	assert.Equal(t, "+1-555-0101", *author.Phone)
}

// =====================================================
// REGISTRATION / LOGIN
// =====================================================

func TestRegister_NewAccount(t *testing.T) {
	repo := newFakeAuthorRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	resp, err := svc.Register(ctx, model.RegisterRequest{
		Email:    "writer@example.com",
		FullName: "Writer One",
		Password: "s3cret-password",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	require.NotNil(t, resp.Author.AuthorUID)
	assert.Equal(t, "WP-AUTH-000001", *resp.Author.AuthorUID)
}

func TestRegister_CompletesPlaceholderSignup(t *testing.T) {
	repo := newFakeAuthorRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	// Account pre-created by a royalty posting: no password yet.
	placeholder, err := svc.ResolveOrCreateByEmail(ctx, "poet@example.com", "Poet", nil)
	require.NoError(t, err)

	resp, err := svc.Register(ctx, model.RegisterRequest{
		Email:    "poet@example.com",
		FullName: "Poet",
		Password: "s3cret-password",
	})
	require.NoError(t, err)
	assert.Equal(t, placeholder.ID, resp.Author.ID)
	assert.Equal(t, *placeholder.AuthorUID, *resp.Author.AuthorUID)

	stored, err := repo.GetByEmail(ctx, "poet@example.com")
	require.NoError(t, err)
	assert.True(t, stored.HasCompletedSignup())
}

func TestRegister_RejectsCompletedAccount(t *testing.T) {
	repo := newFakeAuthorRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, model.RegisterRequest{
		Email:    "taken@example.com",
		FullName: "First",
		Password: "s3cret-password",
	})
	require.NoError(t, err)

	_, err = svc.Register(ctx, model.RegisterRequest{
		Email:    "taken@example.com",
		FullName: "Second",
		Password: "another-password",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	repo := newFakeAuthorRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, model.RegisterRequest{
		Email:    "writer@example.com",
		FullName: "Writer",
		Password: "s3cret-password",
	})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, model.LoginRequest{Email: "writer@example.com", Password: "s3cret-password"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	_, err = svc.Login(ctx, model.LoginRequest{Email: "writer@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestLogin_PlaceholderAccountRejected(t *testing.T) {
	repo := newFakeAuthorRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	_, err := svc.ResolveOrCreateByEmail(ctx, "pending@example.com", "Pending", nil)
	require.NoError(t, err)

	_, err = svc.Login(ctx, model.LoginRequest{Email: "pending@example.com", Password: "anything"})
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestLogin_InactiveAccountRejected(t *testing.T) {
	repo := newFakeAuthorRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-password"), bcrypt.MinCost)
	require.NoError(t, err)

	author := &model.Author{
		Email:        "banned@example.com",
		FullName:     "Banned",
		PasswordHash: string(hash),
		Role:         model.RoleAuthor,
		IsActive:     false,
	}
	require.NoError(t, repo.Create(ctx, author))

	_, err = svc.Login(ctx, model.LoginRequest{Email: "banned@example.com", Password: "s3cret-password"})
	assert.ErrorIs(t, err, model.ErrAccountInactive)
}
