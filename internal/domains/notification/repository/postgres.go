package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"writerspocket-backend/internal/domains/notification/model"
)

// RepositoryInterface is the notification data access contract.
type RepositoryInterface interface {
	Create(ctx context.Context, notification *model.Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Notification, error)
	ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]model.Notification, int, error)
	MarkRead(ctx context.Context, id, recipientID uuid.UUID) error
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int, error)
	UnreadCount(ctx context.Context, recipientID uuid.UUID) (int, error)
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, n *model.Notification) error {
	query := `
		INSERT INTO notifications (recipient_id, type, title, body)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.pool.QueryRow(ctx, query, n.RecipientID, n.Type, n.Title, n.Body).
		Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	var n model.Notification
	err := r.pool.QueryRow(ctx, `
		SELECT id, recipient_id, type, title, body, is_read, created_at
		FROM notifications WHERE id = $1
	`, id).Scan(&n.ID, &n.RecipientID, &n.Type, &n.Title, &n.Body, &n.IsRead, &n.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNotificationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return &n, nil
}

func (r *postgresRepository) ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]model.Notification, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE recipient_id = $1`, recipientID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, recipient_id, type, title, body, is_read, created_at
		FROM notifications
		WHERE recipient_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, recipientID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	notifications := make([]model.Notification, 0)
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.Type, &n.Title, &n.Body, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, total, rows.Err()
}

func (r *postgresRepository) MarkRead(ctx context.Context, id, recipientID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND recipient_id = $2`, id, recipientID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotificationNotFound
	}
	return nil
}

func (r *postgresRepository) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE recipient_id = $1 AND is_read = FALSE`, recipientID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (r *postgresRepository) UnreadCount(ctx context.Context, recipientID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND is_read = FALSE`, recipientID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}
