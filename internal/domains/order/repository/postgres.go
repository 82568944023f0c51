package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"writerspocket-backend/internal/domains/order/model"
	"writerspocket-backend/pkg/database"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================
type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const orderColumns = `
	id, order_number, author_id, status,
	razorpay_order_id, razorpay_payment_id, payment_method,
	subtotal, total, paid_at, created_at, updated_at
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*model.Order, error) {
	var o model.Order
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.AuthorID, &o.Status,
		&o.RazorpayOrderID, &o.RazorpayPaymentID, &o.PaymentMethod,
		&o.Subtotal, &o.Total, &o.PaidAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *postgresRepository) Create(ctx context.Context, order *model.Order) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO orders (order_number, author_id, status, subtotal, total)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at, updated_at
		`
		err := tx.QueryRow(ctx, query,
			order.OrderNumber, order.AuthorID, order.Status, order.Subtotal, order.Total,
		).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		itemQuery := `
			INSERT INTO order_items (order_id, book_id, quantity, unit_price, line_total)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`
		for i := range order.Items {
			item := &order.Items[i]
			item.OrderID = order.ID
			if err := tx.QueryRow(ctx, itemQuery,
				item.OrderID, item.BookID, item.Quantity, item.UnitPrice, item.LineTotal,
			).Scan(&item.ID); err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
			}
		}
		return nil
	})
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

func (r *postgresRepository) GetByOrderNumber(ctx context.Context, orderNumber string) (*model.Order, error) {
	return r.getOne(ctx, `WHERE order_number = $1`, orderNumber)
}

func (r *postgresRepository) GetByRazorpayOrderID(ctx context.Context, razorpayOrderID string) (*model.Order, error) {
	return r.getOne(ctx, `WHERE razorpay_order_id = $1`, razorpayOrderID)
}

func (r *postgresRepository) getOne(ctx context.Context, where string, arg any) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ` + where

	order, err := scanOrder(r.pool.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	items, err := r.GetItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

func (r *postgresRepository) List(ctx context.Context, filter model.ListOrdersFilter) ([]model.Order, int, error) {
	conditions := []string{"TRUE"}
	args := []any{}
	argPos := 1

	if filter.AuthorID != nil {
		conditions = append(conditions, fmt.Sprintf("author_id = $%d", argPos))
		args = append(args, *filter.AuthorID)
		argPos++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *filter.Status)
		argPos++
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM orders "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM orders %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		orderColumns, where, argPos, argPos+1,
	)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]model.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan order row: %w", err)
		}
		orders = append(orders, *order)
	}
	return orders, total, rows.Err()
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}
	return nil
}

func (r *postgresRepository) SetRazorpayOrderID(ctx context.Context, id uuid.UUID, razorpayOrderID string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE orders SET razorpay_order_id = $2, updated_at = NOW() WHERE id = $1`, id, razorpayOrderID)
	if err != nil {
		return fmt.Errorf("failed to set razorpay order id: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}
	return nil
}

func (r *postgresRepository) RecordPayment(ctx context.Context, id uuid.UUID, record model.PaymentRecord) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE orders
		SET razorpay_payment_id = $2, payment_method = $3, status = $4, paid_at = $5, updated_at = NOW()
		WHERE id = $1
	`, id, record.RazorpayPaymentID, record.Method, record.Status, record.PaidAt)
	if err != nil {
		return fmt.Errorf("failed to record payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}
	return nil
}

func (r *postgresRepository) GetItems(ctx context.Context, orderID uuid.UUID) ([]model.OrderItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, order_id, book_id, quantity, unit_price, line_total
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order items: %w", err)
	}
	defer rows.Close()

	items := make([]model.OrderItem, 0)
	for rows.Next() {
		var item model.OrderItem
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.BookID,
			&item.Quantity, &item.UnitPrice, &item.LineTotal,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
