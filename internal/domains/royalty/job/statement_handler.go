package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	authorrepo "writerspocket-backend/internal/domains/author/repository"
	"writerspocket-backend/internal/domains/royalty/model"
	"writerspocket-backend/internal/domains/royalty/repository"
	"writerspocket-backend/internal/infrastructure/email"
	"writerspocket-backend/internal/shared"
)

// =====================================================
// MONTHLY STATEMENT HANDLER
// =====================================================

// StatementHandler emails each earning author a period summary. Fired by
// the cron schedule at the start of every month, covering the previous
// month unless the payload names a period.
type StatementHandler struct {
	royaltyRepo  repository.RepositoryInterface
	authorRepo   authorrepo.RepositoryInterface
	emailService email.EmailService
}

func NewStatementHandler(
	royaltyRepo repository.RepositoryInterface,
	authorRepo authorrepo.RepositoryInterface,
	emailService email.EmailService,
) *StatementHandler {
	return &StatementHandler{
		royaltyRepo:  royaltyRepo,
		authorRepo:   authorRepo,
		emailService: emailService,
	}
}

func (h *StatementHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.RoyaltyStatementsPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal RoyaltyStatements payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	period := payload.Period
	if period == "" {
		period = model.PreviousPeriod(time.Now())
	}
	if _, err := model.ParsePeriod(period); err != nil {
		return fmt.Errorf("invalid statement period: %w", err)
	}

	authorIDs, err := h.royaltyRepo.AuthorsWithEarnings(ctx, period)
	if err != nil {
		return fmt.Errorf("list authors with earnings: %w", err)
	}

	log.Info().
		Str("period", period).
		Int("authors", len(authorIDs)).
		Msg("Sending royalty statements")

	var failed int
	for _, authorID := range authorIDs {
		if err := h.sendStatement(ctx, authorID, period); err != nil {
			// One bad address must not block the rest of the run.
			failed++
			log.Error().Err(err).
				Str("author_id", authorID.String()).
				Str("period", period).
				Msg("Failed to send royalty statement")
		}
	}

	if failed > 0 && failed == len(authorIDs) {
		return fmt.Errorf("all %d statement emails failed for period %s", failed, period)
	}
	return nil
}

func (h *StatementHandler) sendStatement(ctx context.Context, authorID uuid.UUID, period string) error {
	author, err := h.authorRepo.GetByID(ctx, authorID)
	if err != nil {
		return err
	}

	summary, err := h.royaltyRepo.PeriodSummary(ctx, authorID, period)
	if err != nil {
		return err
	}

	uid := ""
	if author.AuthorUID != nil {
		uid = *author.AuthorUID
	}

	_, err = h.emailService.SendTemplated(ctx, email.TemplateRoyaltyStatement, author.Email, map[string]string{
		"name":       author.FullName,
		"author_uid": uid,
		"period":     period,
		"total":      summary.TotalAmount.StringFixed(2),
		"entries":    fmt.Sprintf("%d", summary.LineCount),
	})
	return err
}
