package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"writerspocket-backend/internal/config"
)

const razorpayBaseURL = "https://api.razorpay.com/v1"

// =====================================================
// RAZORPAY GATEWAY ADAPTER
// =====================================================
type razorpayGateway struct {
	keyID         string
	keySecret     string
	webhookSecret string
	httpClient    *http.Client
}

func NewRazorpayGateway(cfg config.RazorpayConfig) PaymentGateway {
	return &razorpayGateway{
		keyID:         cfg.KeyID,
		keySecret:     cfg.KeySecret,
		webhookSecret: cfg.WebhookSecret,
		httpClient:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (g *razorpayGateway) Configured() bool {
	return g.keyID != "" && g.keySecret != ""
}

func (g *razorpayGateway) WebhookSecretConfigured() bool {
	return g.webhookSecret != ""
}

func (g *razorpayGateway) CreateOrder(ctx context.Context, amount decimal.Decimal, currency, receipt string) (*GatewayOrder, error) {
	if !g.Configured() {
		return nil, fmt.Errorf("razorpay credentials not configured")
	}

	// Razorpay amounts are integer minor units (paise for INR).
	body, err := json.Marshal(map[string]any{
		"amount":   amount.Mul(decimal.NewFromInt(100)).IntPart(),
		"currency": currency,
		"receipt":  receipt,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, razorpayBaseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(g.keyID, g.keySecret)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("razorpay order request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("razorpay order request returned %d", resp.StatusCode)
	}

	var created struct {
		ID       string `json:"id"`
		Currency string `json:"currency"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("decode razorpay response: %w", err)
	}

	return &GatewayOrder{
		ID:       created.ID,
		Amount:   amount,
		Currency: created.Currency,
		Receipt:  receipt,
	}, nil
}

// VerifyWebhookSignature computes HMAC-SHA256 over the raw body with the
// webhook secret and compares hex digests in constant time.
func (g *razorpayGateway) VerifyWebhookSignature(body []byte, signature string) bool {
	if g.webhookSecret == "" || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(g.webhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
