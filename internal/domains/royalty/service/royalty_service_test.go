package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookmodel "writerspocket-backend/internal/domains/book/model"
	"writerspocket-backend/internal/domains/royalty/model"
)

// fakeBookRepo serves GetBookAuthors and FindByISBN for share resolution.
type fakeBookRepo struct {
	links map[uuid.UUID][]bookmodel.BookAuthor
	books map[uuid.UUID]*bookmodel.Book
}

func (f *fakeBookRepo) GetBookAuthors(ctx context.Context, bookID uuid.UUID) ([]bookmodel.BookAuthor, error) {
	return f.links[bookID], nil
}

func (f *fakeBookRepo) GetByID(ctx context.Context, id uuid.UUID) (*bookmodel.Book, error) {
	if b, ok := f.books[id]; ok {
		return b, nil
	}
	return nil, bookmodel.ErrBookNotFound
}

func (f *fakeBookRepo) FindByISBN(ctx context.Context, isbn string) (*bookmodel.Book, error) {
	for _, b := range f.books {
		if c := b.CanonicalISBN(); c != nil && *c == isbn {
			return b, nil
		}
	}
	return nil, bookmodel.ErrBookNotFound
}

func (f *fakeBookRepo) Create(context.Context, *bookmodel.Book) error               { panic("unexpected") }
func (f *fakeBookRepo) CreateTx(context.Context, pgx.Tx, *bookmodel.Book) error     { panic("unexpected") }
func (f *fakeBookRepo) GetBySlug(context.Context, string) (*bookmodel.Book, error)  { panic("unexpected") }
func (f *fakeBookRepo) Update(context.Context, *bookmodel.Book) error               { panic("unexpected") }
func (f *fakeBookRepo) Delete(context.Context, uuid.UUID) error                     { panic("unexpected") }
func (f *fakeBookRepo) SetManuscriptKey(context.Context, uuid.UUID, string) error   { panic("unexpected") }
func (f *fakeBookRepo) UnlinkAuthor(context.Context, uuid.UUID, uuid.UUID) error    { panic("unexpected") }
func (f *fakeBookRepo) UpdateStage(context.Context, uuid.UUID, bookmodel.PublishingStage) error {
	panic("unexpected")
}
func (f *fakeBookRepo) List(context.Context, bookmodel.ListBooksFilter) ([]bookmodel.Book, int, error) {
	panic("unexpected")
}
func (f *fakeBookRepo) GetAuthorBooks(context.Context, uuid.UUID, int, int) ([]bookmodel.Book, int, error) {
	panic("unexpected")
}
func (f *fakeBookRepo) LinkAuthorTx(context.Context, pgx.Tx, *bookmodel.BookAuthor) error {
	panic("unexpected")
}

func sharePct(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

func TestResolveShares_JunctionPreferred(t *testing.T) {
	bookID := uuid.New()
	legacyAuthor := uuid.New()
	a, b := uuid.New(), uuid.New()

	svc := &royaltyService{bookRepo: &fakeBookRepo{
		links: map[uuid.UUID][]bookmodel.BookAuthor{
			bookID: {
				{AuthorID: a, RoyaltyShare: sharePct(60)},
				{AuthorID: b, RoyaltyShare: sharePct(40)},
			},
		},
	}}

	// The legacy column is ignored once junction links exist.
	shares, err := svc.resolveShares(context.Background(), bookID, &legacyAuthor)
	require.NoError(t, err)
	require.Len(t, shares, 2)
	assert.Equal(t, a, shares[0].AuthorID)
	assert.True(t, shares[0].Fraction.Equal(decimal.NewFromFloat(0.6)))
	assert.True(t, shares[1].Fraction.Equal(decimal.NewFromFloat(0.4)))
}

func TestResolveShares_LegacyFallback(t *testing.T) {
	bookID := uuid.New()
	legacyAuthor := uuid.New()

	svc := &royaltyService{bookRepo: &fakeBookRepo{}}

	shares, err := svc.resolveShares(context.Background(), bookID, &legacyAuthor)
	require.NoError(t, err)
	require.Len(t, shares, 1)
	assert.Equal(t, legacyAuthor, shares[0].AuthorID)
	assert.True(t, shares[0].Fraction.Equal(decimal.NewFromInt(1)))
}

func TestResolveShares_NoAuthorsAnywhere(t *testing.T) {
	svc := &royaltyService{bookRepo: &fakeBookRepo{}}

	_, err := svc.resolveShares(context.Background(), uuid.New(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrNoAuthors)
}

func TestCreateRoyaltiesForSale_RejectsNonPositiveAmount(t *testing.T) {
	svc := &royaltyService{bookRepo: &fakeBookRepo{}, defaultRate: model.DefaultRoyaltyRate}

	_, err := svc.CreateRoyaltiesForSale(context.Background(), uuid.New(), decimal.Zero, "website", nil)
	assert.ErrorIs(t, err, model.ErrInvalidAmount)

	_, err = svc.CreateRoyaltiesForSale(context.Background(), uuid.New(), decimal.NewFromInt(-5), "website", nil)
	assert.ErrorIs(t, err, model.ErrInvalidAmount)
}
