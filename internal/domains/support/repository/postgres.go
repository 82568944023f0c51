package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"writerspocket-backend/internal/domains/support/model"
)

// RepositoryInterface is the support ticket data access contract.
type RepositoryInterface interface {
	Create(ctx context.Context, ticket *model.Ticket) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Ticket, error)
	List(ctx context.Context, filter model.ListTicketsFilter) ([]model.Ticket, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.TicketStatus) error
	AddReply(ctx context.Context, reply *model.TicketReply) error
	GetReplies(ctx context.Context, ticketID uuid.UUID) ([]model.TicketReply, error)
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewSupportRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const ticketColumns = `id, author_id, subject, body, status, created_at, updated_at`

func scanTicket(row pgx.Row) (*model.Ticket, error) {
	var t model.Ticket
	err := row.Scan(&t.ID, &t.AuthorID, &t.Subject, &t.Body, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *postgresRepository) Create(ctx context.Context, ticket *model.Ticket) error {
	query := `
		INSERT INTO support_tickets (author_id, subject, body, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		ticket.AuthorID, ticket.Subject, ticket.Body, ticket.Status,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create support ticket: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM support_tickets WHERE id = $1`

	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrTicketNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get support ticket: %w", err)
	}

	replies, err := r.GetReplies(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}
	ticket.Replies = replies
	return ticket, nil
}

func (r *postgresRepository) List(ctx context.Context, filter model.ListTicketsFilter) ([]model.Ticket, int, error) {
	conditions := make([]string, 0, 2)
	args := make([]interface{}, 0, 2)

	if filter.AuthorID != nil {
		args = append(args, *filter.AuthorID)
		conditions = append(conditions, fmt.Sprintf("author_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM support_tickets`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count support tickets: %w", err)
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM support_tickets%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		ticketColumns, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list support tickets: %w", err)
	}
	defer rows.Close()

	tickets := make([]model.Ticket, 0)
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan support ticket row: %w", err)
		}
		tickets = append(tickets, *ticket)
	}
	return tickets, total, rows.Err()
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.TicketStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE support_tickets SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update ticket status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrTicketNotFound
	}
	return nil
}

func (r *postgresRepository) AddReply(ctx context.Context, reply *model.TicketReply) error {
	query := `
		INSERT INTO support_ticket_replies (ticket_id, sender_id, is_admin, body)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.pool.QueryRow(ctx, query,
		reply.TicketID, reply.SenderID, reply.IsAdmin, reply.Body,
	).Scan(&reply.ID, &reply.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add ticket reply: %w", err)
	}

	// A new reply bumps the ticket so the list sorts sensibly.
	_, err = r.pool.Exec(ctx,
		`UPDATE support_tickets SET updated_at = NOW() WHERE id = $1`, reply.TicketID)
	if err != nil {
		return fmt.Errorf("failed to touch ticket: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetReplies(ctx context.Context, ticketID uuid.UUID) ([]model.TicketReply, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, ticket_id, sender_id, is_admin, body, created_at
		FROM support_ticket_replies
		WHERE ticket_id = $1
		ORDER BY created_at ASC
	`, ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ticket replies: %w", err)
	}
	defer rows.Close()

	replies := make([]model.TicketReply, 0)
	for rows.Next() {
		var reply model.TicketReply
		if err := rows.Scan(
			&reply.ID, &reply.TicketID, &reply.SenderID, &reply.IsAdmin, &reply.Body, &reply.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ticket reply: %w", err)
		}
		replies = append(replies, reply)
	}
	return replies, rows.Err()
}
