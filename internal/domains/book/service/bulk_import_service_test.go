package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"

	"writerspocket-backend/internal/domains/book/model"
)

// fakeBookRepo only answers FindByISBN lookups; everything else panics to
// catch unexpected calls in the validation phase.
type fakeBookRepo struct {
	booksByISBN map[string]*model.Book
}

func (f *fakeBookRepo) FindByISBN(ctx context.Context, isbn string) (*model.Book, error) {
	if b, ok := f.booksByISBN[isbn]; ok {
		return b, nil
	}
	return nil, model.ErrBookNotFound
}

func (f *fakeBookRepo) Create(context.Context, *model.Book) error           { panic("unexpected") }
func (f *fakeBookRepo) CreateTx(context.Context, pgx.Tx, *model.Book) error { panic("unexpected") }
func (f *fakeBookRepo) GetByID(context.Context, uuid.UUID) (*model.Book, error) {
	panic("unexpected")
}
func (f *fakeBookRepo) GetBySlug(context.Context, string) (*model.Book, error) {
	panic("unexpected")
}
func (f *fakeBookRepo) List(context.Context, model.ListBooksFilter) ([]model.Book, int, error) {
	panic("unexpected")
}
func (f *fakeBookRepo) Update(context.Context, *model.Book) error { panic("unexpected") }
func (f *fakeBookRepo) UpdateStage(context.Context, uuid.UUID, model.PublishingStage) error {
	panic("unexpected")
}
func (f *fakeBookRepo) SetManuscriptKey(context.Context, uuid.UUID, string) error {
	panic("unexpected")
}
func (f *fakeBookRepo) Delete(context.Context, uuid.UUID) error { panic("unexpected") }
func (f *fakeBookRepo) LinkAuthorTx(context.Context, pgx.Tx, *model.BookAuthor) error {
	panic("unexpected")
}
func (f *fakeBookRepo) GetBookAuthors(context.Context, uuid.UUID) ([]model.BookAuthor, error) {
	panic("unexpected")
}
func (f *fakeBookRepo) GetAuthorBooks(context.Context, uuid.UUID, int, int) ([]model.Book, int, error) {
	panic("unexpected")
}
func (f *fakeBookRepo) UnlinkAuthor(context.Context, uuid.UUID, uuid.UUID) error {
	panic("unexpected")
}

func validRow(row int) model.CSVBookRow {
	return model.CSVBookRow{
		Row:         row,
		Title:       "A Valid Title",
		AuthorName:  "Ana Author",
		AuthorEmail: "ana@example.com",
		Price:       299.00,
	}
}

func TestValidateAllRows_CleanFile(t *testing.T) {
	svc := &bulkImportService{bookRepo: &fakeBookRepo{}}

	errs := svc.validateAllRows(context.Background(), []model.CSVBookRow{validRow(1), validRow(2)})
	assert.Empty(t, errs)
}

func TestValidateAllRows_MissingFields(t *testing.T) {
	svc := &bulkImportService{bookRepo: &fakeBookRepo{}}

	row := model.CSVBookRow{Row: 1, Price: -1}
	errs := svc.validateAllRows(context.Background(), []model.CSVBookRow{row})

	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		assert.Equal(t, 1, e.Row)
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{"title", "author_name", "author_email", "price"}, fields)
}

func TestValidateAllRows_InvalidEmail(t *testing.T) {
	svc := &bulkImportService{bookRepo: &fakeBookRepo{}}

	row := validRow(1)
	row.AuthorEmail = "not-an-email"
	errs := svc.validateAllRows(context.Background(), []model.CSVBookRow{row})

	if assert.Len(t, errs, 1) {
		assert.Equal(t, "author_email", errs[0].Field)
		assert.Equal(t, "not-an-email", errs[0].Value)
	}
}

func TestValidateAllRows_DuplicateISBNWithinFile(t *testing.T) {
	svc := &bulkImportService{bookRepo: &fakeBookRepo{}}

	isbn := "9780143127741"
	first := validRow(1)
	first.ISBNPaperback = &isbn
	second := validRow(2)
	second.ISBNPaperback = &isbn

	errs := svc.validateAllRows(context.Background(), []model.CSVBookRow{first, second})

	if assert.Len(t, errs, 1) {
		assert.Equal(t, 2, errs[0].Row)
		assert.Equal(t, "isbn", errs[0].Field)
		assert.Contains(t, errs[0].Error, "first seen at row 1")
	}
}

func TestValidateAllRows_ISBNAlreadyInCatalog(t *testing.T) {
	isbn := "9780143127741"
	svc := &bulkImportService{bookRepo: &fakeBookRepo{
		booksByISBN: map[string]*model.Book{
			isbn: {Title: "Existing Title"},
		},
	}}

	row := validRow(1)
	row.ISBNHardcover = &isbn
	errs := svc.validateAllRows(context.Background(), []model.CSVBookRow{row})

	if assert.Len(t, errs, 1) {
		assert.Equal(t, "isbn", errs[0].Field)
		assert.Contains(t, errs[0].Error, "Existing Title")
	}
}

func TestCanonicalRowISBN(t *testing.T) {
	paperback := "9780143127741"
	hardcover := "9780525562023"

	row := model.CSVBookRow{ISBNPaperback: &paperback, ISBNHardcover: &hardcover}
	assert.Equal(t, paperback, canonicalRowISBN(row))

	row = model.CSVBookRow{ISBNHardcover: &hardcover}
	assert.Equal(t, hardcover, canonicalRowISBN(row))

	assert.Equal(t, "", canonicalRowISBN(model.CSVBookRow{}))
}
