package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"writerspocket-backend/internal/infrastructure/sheets"
	"writerspocket-backend/internal/shared"
)

// =====================================================
// SHEETS SYNC HANDLER
// =====================================================

// SheetsHandler pushes queued rows into the back-office spreadsheet.
type SheetsHandler struct {
	sheetsService sheets.SheetsService
}

func NewSheetsHandler(sheetsService sheets.SheetsService) *SheetsHandler {
	return &SheetsHandler{sheetsService: sheetsService}
}

// ProcessSyncLead handles the lead sync task enqueued on author creation.
func (h *SheetsHandler) ProcessSyncLead(ctx context.Context, task *asynq.Task) error {
	var payload shared.SyncLeadPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal SyncLead payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	result, err := h.sheetsService.SyncLead(ctx, payload.Email, payload.Name, payload.Source)
	if err != nil {
		return fmt.Errorf("sync lead to sheets: %w", err)
	}

	log.Info().
		Str("email", payload.Email).
		Str("source", payload.Source).
		Bool("mocked", result.Mocked).
		Msg("Lead synced to sheets")

	return nil
}
