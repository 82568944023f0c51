package sheets

import (
	"context"

	"writerspocket-backend/internal/config"
)

// =====================================================
// GOOGLE SHEETS COLLABORATOR
// =====================================================
// The production deployment has never shipped a real Sheets integration.
// Every implementation reports a SyncResult so callers can tell a mocked
// sync from a real one without failing the request.

// SyncResult mirrors the email collaborator's result shape.
type SyncResult struct {
	Success bool   `json:"success"`
	Mocked  bool   `json:"mocked"`
	Detail  string `json:"detail,omitempty"`
}

// SheetsService pushes rows into the back-office spreadsheet.
type SheetsService interface {
	// AppendRow appends a raw row to a named sheet tab.
	AppendRow(ctx context.Context, tab string, values []interface{}) (*SyncResult, error)

	// SyncLead pushes a new author lead (email + name) to the leads tab.
	SyncLead(ctx context.Context, email, name, source string) (*SyncResult, error)

	// SyncAnthology pushes an anthology submission row.
	SyncAnthology(ctx context.Context, title, authorEmail, status string) (*SyncResult, error)
}

// NewSheetsService returns the mock implementation unless a spreadsheet is
// configured. A real adapter would slot in here; none exists today, so a
// configured spreadsheet still gets the mock (logged as such).
func NewSheetsService(cfg config.SheetsConfig) SheetsService {
	return NewMockSheetsService(cfg.SpreadsheetID)
}
