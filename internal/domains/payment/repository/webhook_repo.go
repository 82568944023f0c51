package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"writerspocket-backend/internal/domains/payment/model"
)

// WebhookLogRepository persists the webhook audit trail.
type WebhookLogRepository interface {
	Create(ctx context.Context, entry *model.WebhookLog) error
	ListRecent(ctx context.Context, limit int) ([]model.WebhookLog, error)
}

type postgresWebhookLogRepository struct {
	pool *pgxpool.Pool
}

func NewWebhookLogRepository(pool *pgxpool.Pool) WebhookLogRepository {
	return &postgresWebhookLogRepository{pool: pool}
}

func (r *postgresWebhookLogRepository) Create(ctx context.Context, entry *model.WebhookLog) error {
	query := `
		INSERT INTO webhook_logs (event_type, razorpay_order_id, razorpay_payment_id, processed, detail)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, received_at
	`
	err := r.pool.QueryRow(ctx, query,
		entry.EventType, entry.RazorpayOrderID, entry.RazorpayPaymentID, entry.Processed, entry.Detail,
	).Scan(&entry.ID, &entry.ReceivedAt)
	if err != nil {
		return fmt.Errorf("failed to create webhook log: %w", err)
	}
	return nil
}

func (r *postgresWebhookLogRepository) ListRecent(ctx context.Context, limit int) ([]model.WebhookLog, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, event_type, razorpay_order_id, razorpay_payment_id, processed, detail, received_at
		FROM webhook_logs
		ORDER BY received_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list webhook logs: %w", err)
	}
	defer rows.Close()

	entries := make([]model.WebhookLog, 0)
	for rows.Next() {
		var entry model.WebhookLog
		if err := rows.Scan(
			&entry.ID, &entry.EventType, &entry.RazorpayOrderID, &entry.RazorpayPaymentID,
			&entry.Processed, &entry.Detail, &entry.ReceivedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan webhook log: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
