package email

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EmailLog records one delivery attempt, mocked or real.
type EmailLog struct {
	ID         uuid.UUID `json:"id" db:"id"`
	To         []string  `json:"to" db:"recipients"`
	Subject    string    `json:"subject" db:"subject"`
	TemplateID string    `json:"template_id" db:"template_id"`
	MessageID  string    `json:"message_id" db:"message_id"`
	Mocked     bool      `json:"mocked" db:"mocked"`
	Success    bool      `json:"success" db:"success"`
	Error      *string   `json:"error,omitempty" db:"error"`
	SentAt     time.Time `json:"sent_at" db:"sent_at"`
}

// LogRepository persists email logs.
type LogRepository interface {
	Create(ctx context.Context, entry *EmailLog) error
	ListRecent(ctx context.Context, limit int) ([]EmailLog, error)
}

type postgresLogRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresLogRepository(pool *pgxpool.Pool) LogRepository {
	return &postgresLogRepository{pool: pool}
}

func (r *postgresLogRepository) Create(ctx context.Context, entry *EmailLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	query := `
		INSERT INTO email_logs (
			id, recipients, subject, template_id, message_id,
			mocked, success, error, sent_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		entry.To,
		entry.Subject,
		entry.TemplateID,
		entry.MessageID,
		entry.Mocked,
		entry.Success,
		entry.Error,
		entry.SentAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create email log: %w", err)
	}
	return nil
}

func (r *postgresLogRepository) ListRecent(ctx context.Context, limit int) ([]EmailLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	query := `
		SELECT id, recipients, subject, template_id, message_id,
			mocked, success, error, sent_at
		FROM email_logs
		ORDER BY sent_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list email logs: %w", err)
	}
	defer rows.Close()

	var logs []EmailLog
	for rows.Next() {
		var l EmailLog
		if err := rows.Scan(
			&l.ID, &l.To, &l.Subject, &l.TemplateID, &l.MessageID,
			&l.Mocked, &l.Success, &l.Error, &l.SentAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan email log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
