package repository

import (
	"context"

	"github.com/google/uuid"

	"writerspocket-backend/internal/domains/order/model"
)

// RepositoryInterface is the order data access contract.
type RepositoryInterface interface {
	// Create writes the order and its items in one transaction.
	Create(ctx context.Context, order *model.Order) error

	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	GetByOrderNumber(ctx context.Context, orderNumber string) (*model.Order, error)

	// GetByRazorpayOrderID drives webhook dispatch; nil lookup misses map
	// to ErrOrderNotFound.
	GetByRazorpayOrderID(ctx context.Context, razorpayOrderID string) (*model.Order, error)

	List(ctx context.Context, filter model.ListOrdersFilter) ([]model.Order, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) error
	SetRazorpayOrderID(ctx context.Context, id uuid.UUID, razorpayOrderID string) error

	// RecordPayment applies a webhook capture: payment id, method, status
	// and paid timestamp in one statement.
	RecordPayment(ctx context.Context, id uuid.UUID, record model.PaymentRecord) error

	GetItems(ctx context.Context, orderID uuid.UUID) ([]model.OrderItem, error)
}
