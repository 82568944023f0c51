package email

import (
	"context"

	"github.com/rs/xid"
	"github.com/rs/zerolog/log"
)

// mockProvider is the default when no real email provider is configured.
// It logs every send and always reports success.
type mockProvider struct{}

func NewMockProvider() Provider {
	return &mockProvider{}
}

func (p *mockProvider) Mocked() bool { return true }

func (p *mockProvider) Deliver(ctx context.Context, req EmailRequest) (string, error) {
	log.Info().
		Strs("to", req.To).
		Str("subject", req.Subject).
		Str("template_id", req.TemplateID).
		Msg("[EMAIL MOCK] Email delivery skipped (no provider configured)")

	return "mock-" + xid.New().String(), nil
}
