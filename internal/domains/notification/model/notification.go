package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// =====================================================
// NOTIFICATION TYPES
// =====================================================

type NotificationType string

const (
	TypeOrderPaid     NotificationType = "order_paid"
	TypePaymentFailed NotificationType = "payment_failed"
	TypeRefund        NotificationType = "refund"
	TypeRoyalty       NotificationType = "royalty"
	TypeSupport       NotificationType = "support"
)

func (t NotificationType) IsValid() bool {
	switch t {
	case TypeOrderPaid, TypePaymentFailed, TypeRefund, TypeRoyalty, TypeSupport:
		return true
	}
	return false
}

// =====================================================
// NOTIFICATION ENTITY
// =====================================================

type Notification struct {
	ID          uuid.UUID        `json:"id" db:"id"`
	RecipientID uuid.UUID        `json:"recipient_id" db:"recipient_id"`
	Type        NotificationType `json:"type" db:"type"`
	Title       string           `json:"title" db:"title"`
	Body        string           `json:"body" db:"body"`
	IsRead      bool             `json:"is_read" db:"is_read"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
}

// =====================================================
// ERRORS
// =====================================================
const (
	ErrCodeNotificationNotFound = "NTF001"
	ErrCodeInvalidType          = "NTF002"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrInvalidType          = errors.New("unknown notification type")
)

// =====================================================
// DTOs
// =====================================================

// CreateNotificationRequest is built by other domains, not bound from
// HTTP, so it carries no validation tags beyond the type check.
type CreateNotificationRequest struct {
	RecipientID uuid.UUID        `json:"recipient_id"`
	Type        NotificationType `json:"type"`
	Title       string           `json:"title"`
	Body        string           `json:"body"`

	// EmailTemplate and EmailVars trigger an email alongside the in-app
	// notification when set.
	EmailTemplate string            `json:"-"`
	EmailVars     map[string]string `json:"-"`
}
