package sheets

import (
	"context"

	"github.com/rs/zerolog/log"
)

// mockSheetsService logs every sync and reports mocked success.
type mockSheetsService struct {
	spreadsheetID string
}

func NewMockSheetsService(spreadsheetID string) SheetsService {
	return &mockSheetsService{spreadsheetID: spreadsheetID}
}

func (s *mockSheetsService) AppendRow(ctx context.Context, tab string, values []interface{}) (*SyncResult, error) {
	log.Info().
		Str("spreadsheet_id", s.spreadsheetID).
		Str("tab", tab).
		Int("columns", len(values)).
		Msg("[SHEETS MOCK] Row append skipped")

	return &SyncResult{Success: true, Mocked: true, Detail: "sheets sync not configured"}, nil
}

func (s *mockSheetsService) SyncLead(ctx context.Context, email, name, source string) (*SyncResult, error) {
	return s.AppendRow(ctx, "leads", []interface{}{email, name, source})
}

func (s *mockSheetsService) SyncAnthology(ctx context.Context, title, authorEmail, status string) (*SyncResult, error) {
	return s.AppendRow(ctx, "anthologies", []interface{}{title, authorEmail, status})
}
