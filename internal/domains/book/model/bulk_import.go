package model

// =====================================================
// CSV CATALOG IMPORT
// =====================================================

// MaxImportRows caps a single CSV upload.
const MaxImportRows = 1000

// CSVBookRow is one parsed row of a catalog import file. Row tracks the
// source line (1-based, excluding the header) for error reporting.
type CSVBookRow struct {
	Row int `json:"row"`

	Title         string  `json:"title"`
	AuthorName    string  `json:"author_name"`
	AuthorEmail   string  `json:"author_email"`
	AuthorPhone   *string `json:"author_phone,omitempty"`
	CategoryName  *string `json:"category_name,omitempty"`
	ISBNPaperback *string `json:"isbn_paperback,omitempty"`
	ISBNHardcover *string `json:"isbn_hardcover,omitempty"`
	Price         float64 `json:"price"`
	Language      *string `json:"language,omitempty"`
	PublishedYear *int    `json:"published_year,omitempty"`
}

// ImportValidationError reports one failed row and field.
type ImportValidationError struct {
	Row   int    `json:"row"`
	Field string `json:"field"`
	Value string `json:"value,omitempty"`
	Error string `json:"error"`
}

// BulkImportResult is the import response. All-or-nothing: when Errors is
// non-empty, nothing was inserted.
type BulkImportResult struct {
	Success      bool                    `json:"success"`
	TotalRows    int                     `json:"total_rows"`
	SuccessRows  int                     `json:"success_rows,omitempty"`
	FailedRows   int                     `json:"failed_rows,omitempty"`
	Errors       []ImportValidationError `json:"errors,omitempty"`
	CreatedBooks []string                `json:"created_book_ids,omitempty"`
}
