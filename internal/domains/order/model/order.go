package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// ORDER STATUS
// =====================================================

// OrderStatus follows the payment lifecycle of an author-copy order.
type OrderStatus string

const (
	StatusPending        OrderStatus = "PENDING"
	StatusPaymentPending OrderStatus = "PAYMENT_PENDING"
	StatusPaid           OrderStatus = "PAID"
	StatusPaymentFailed  OrderStatus = "PAYMENT_FAILED"
	StatusRefunded       OrderStatus = "REFUNDED"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusPaymentPending, StatusPaid, StatusPaymentFailed, StatusRefunded:
		return true
	}
	return false
}

func (s OrderStatus) String() string {
	return string(s)
}

// =====================================================
// ORDER ENTITY
// =====================================================

// Order is an author purchasing copies of their own titles. Razorpay ids
// are filled in as the payment progresses.
type Order struct {
	ID          uuid.UUID   `json:"id" db:"id"`
	OrderNumber string      `json:"order_number" db:"order_number"`
	AuthorID    uuid.UUID   `json:"author_id" db:"author_id"`
	Status      OrderStatus `json:"status" db:"status"`

	RazorpayOrderID   *string `json:"razorpay_order_id" db:"razorpay_order_id"`
	RazorpayPaymentID *string `json:"razorpay_payment_id" db:"razorpay_payment_id"`
	PaymentMethod     *string `json:"payment_method" db:"payment_method"`

	Subtotal decimal.Decimal `json:"subtotal" db:"subtotal"`
	Total    decimal.Decimal `json:"total" db:"total"`

	PaidAt    *time.Time `json:"paid_at" db:"paid_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`

	Items []OrderItem `json:"items,omitempty"`
}

// OrderItem is one title line within an order.
type OrderItem struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	OrderID   uuid.UUID       `json:"order_id" db:"order_id"`
	BookID    uuid.UUID       `json:"book_id" db:"book_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price" db:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total" db:"line_total"`
}

// PaymentRecord carries everything a webhook capture writes to the order.
type PaymentRecord struct {
	RazorpayPaymentID string
	Method            string
	Status            OrderStatus
	PaidAt            *time.Time
}
