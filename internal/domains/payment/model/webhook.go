package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// =====================================================
// WEBHOOK EVENTS
// =====================================================

// The five Razorpay events the dispatcher handles. Anything else is
// acknowledged and ignored.
const (
	EventPaymentAuthorized = "payment.authorized"
	EventPaymentCaptured   = "payment.captured"
	EventPaymentFailed     = "payment.failed"
	EventOrderPaid         = "order.paid"
	EventRefundCreated     = "refund.created"
)

// HandledEvents lists the events the dispatcher acts on, in no particular
// order.
var HandledEvents = []string{
	EventPaymentAuthorized,
	EventPaymentCaptured,
	EventPaymentFailed,
	EventOrderPaid,
	EventRefundCreated,
}

func IsHandledEvent(event string) bool {
	for _, e := range HandledEvents {
		if e == event {
			return true
		}
	}
	return false
}

// =====================================================
// WEBHOOK PAYLOAD
// =====================================================

// WebhookEnvelope mirrors the Razorpay webhook JSON shape. Only the fields
// the dispatcher reads are declared.
type WebhookEnvelope struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity PaymentEntity `json:"entity"`
		} `json:"payment"`
		Order struct {
			Entity OrderEntity `json:"entity"`
		} `json:"order"`
		Refund struct {
			Entity RefundEntity `json:"entity"`
		} `json:"refund"`
	} `json:"payload"`
}

type PaymentEntity struct {
	ID      string `json:"id"`
	OrderID string `json:"order_id"`
	Method  string `json:"method"`
	Status  string `json:"status"`
	Amount  int64  `json:"amount"`
}

type OrderEntity struct {
	ID      string `json:"id"`
	Receipt string `json:"receipt"`
	Status  string `json:"status"`
}

type RefundEntity struct {
	ID        string `json:"id"`
	PaymentID string `json:"payment_id"`
	Amount    int64  `json:"amount"`
}

// ParseWebhook decodes a raw webhook body.
func ParseWebhook(body []byte) (*WebhookEnvelope, error) {
	var envelope WebhookEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, err
	}
	return &envelope, nil
}

// GatewayOrderID resolves the provider order id for any handled event
// shape: payment events carry it on the payment entity, order.paid on the
// order entity.
func (e *WebhookEnvelope) GatewayOrderID() string {
	if e.Payload.Payment.Entity.OrderID != "" {
		return e.Payload.Payment.Entity.OrderID
	}
	return e.Payload.Order.Entity.ID
}

// =====================================================
// WEBHOOK AUDIT LOG
// =====================================================

// WebhookLog records every received webhook, processed or not.
type WebhookLog struct {
	ID                uuid.UUID `json:"id" db:"id"`
	EventType         string    `json:"event_type" db:"event_type"`
	RazorpayOrderID   *string   `json:"razorpay_order_id" db:"razorpay_order_id"`
	RazorpayPaymentID *string   `json:"razorpay_payment_id" db:"razorpay_payment_id"`
	Processed         bool      `json:"processed" db:"processed"`
	Detail            *string   `json:"detail" db:"detail"`
	ReceivedAt        time.Time `json:"received_at" db:"received_at"`
}
