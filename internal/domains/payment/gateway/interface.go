package gateway

import (
	"context"

	"github.com/shopspring/decimal"
)

// GatewayOrder is a payment-provider order opened for checkout.
type GatewayOrder struct {
	ID       string          `json:"id"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Receipt  string          `json:"receipt"`
}

// PaymentGateway abstracts the payment provider so the webhook dispatcher
// and checkout flow can run against a mock in tests and unconfigured
// environments.
type PaymentGateway interface {
	// Configured reports whether real provider credentials are present.
	Configured() bool

	// WebhookSecretConfigured reports whether webhook signatures can be
	// verified at all.
	WebhookSecretConfigured() bool

	CreateOrder(ctx context.Context, amount decimal.Decimal, currency, receipt string) (*GatewayOrder, error)

	// VerifyWebhookSignature checks the provider signature over the raw
	// request body.
	VerifyWebhookSignature(body []byte, signature string) bool
}
