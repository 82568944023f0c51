package gateway

import (
	"context"

	"github.com/rs/xid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// =====================================================
// MOCK GATEWAY
// =====================================================

// mockGateway stands in when no Razorpay credentials are configured. It
// issues fake order ids and accepts every signature, so local environments
// can exercise the full checkout and webhook flow.
type mockGateway struct{}

func NewMockGateway() PaymentGateway {
	return &mockGateway{}
}

func (g *mockGateway) Configured() bool              { return true }
func (g *mockGateway) WebhookSecretConfigured() bool { return true }

func (g *mockGateway) CreateOrder(ctx context.Context, amount decimal.Decimal, currency, receipt string) (*GatewayOrder, error) {
	order := &GatewayOrder{
		ID:       "order_mock_" + xid.New().String(),
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
	}

	log.Info().
		Str("gateway_order_id", order.ID).
		Str("amount", amount.String()).
		Msg("[GATEWAY MOCK] Order created")

	return order, nil
}

func (g *mockGateway) VerifyWebhookSignature(body []byte, signature string) bool {
	return signature != ""
}
