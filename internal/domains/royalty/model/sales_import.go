package model

// MaxSalesImportRows caps a single sales CSV upload.
const MaxSalesImportRows = 1000

// CSVSaleRow is one parsed row of a sales import file: one sale of one
// title on one platform.
type CSVSaleRow struct {
	Row int `json:"row"`

	ISBN       string  `json:"isbn"`
	SaleAmount float64 `json:"sale_amount"`
	Platform   string  `json:"platform"`

	// Period overrides the current month for historical uploads.
	Period *string `json:"period,omitempty"`
}

// SalesImportError reports one failed row.
type SalesImportError struct {
	Row   int    `json:"row"`
	Field string `json:"field"`
	Value string `json:"value,omitempty"`
	Error string `json:"error"`
}

// SalesImportResult is the import response. Row failures past validation
// are reported per row; valid rows are still posted.
type SalesImportResult struct {
	Success      bool               `json:"success"`
	TotalRows    int                `json:"total_rows"`
	PostedRows   int                `json:"posted_rows"`
	FailedRows   int                `json:"failed_rows"`
	LedgerLines  int                `json:"ledger_lines"`
	Errors       []SalesImportError `json:"errors,omitempty"`
}
