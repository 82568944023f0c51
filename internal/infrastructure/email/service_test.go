package email

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"writerspocket-backend/internal/config"
)

type memoryLogRepository struct {
	mu      sync.Mutex
	entries []EmailLog
}

func (r *memoryLogRepository) Create(ctx context.Context, entry *EmailLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *memoryLogRepository) ListRecent(ctx context.Context, limit int) ([]EmailLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]EmailLog(nil), r.entries...), nil
}

func TestMockProviderSendIsLoggedAndMocked(t *testing.T) {
	logRepo := &memoryLogRepository{}
	svc := NewEmailService(config.EmailConfig{Provider: "mock"}, logRepo)

	result, err := svc.Send(context.Background(), EmailRequest{
		To:      []string{"author@example.com"},
		Subject: "Hello",
		Text:    "Body",
	})

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, result.Mocked)
	assert.NotEmpty(t, result.MessageID)

	require.Len(t, logRepo.entries, 1)
	entry := logRepo.entries[0]
	assert.Equal(t, []string{"author@example.com"}, entry.To)
	assert.True(t, entry.Mocked)
	assert.True(t, entry.Success)
	assert.Nil(t, entry.Error)
}

func TestSendRejectsEmptyRecipients(t *testing.T) {
	svc := NewEmailService(config.EmailConfig{Provider: "mock"}, &memoryLogRepository{})

	_, err := svc.Send(context.Background(), EmailRequest{Subject: "no one"})
	assert.Error(t, err)
}

func TestSendTemplatedSubstitutesVariables(t *testing.T) {
	logRepo := &memoryLogRepository{}
	svc := NewEmailService(config.EmailConfig{Provider: "mock"}, logRepo)

	result, err := svc.SendTemplated(context.Background(), TemplateWelcomeAuthor, "new@example.com", map[string]string{
		"name":       "Asha",
		"author_uid": "WP-AUTH-000042",
	})

	require.NoError(t, err)
	assert.True(t, result.Mocked)

	require.Len(t, logRepo.entries, 1)
	entry := logRepo.entries[0]
	assert.Equal(t, TemplateWelcomeAuthor, entry.TemplateID)
	assert.Equal(t, "Welcome to Writer's Pocket", entry.Subject)
}

func TestSendTemplatedUnknownTemplate(t *testing.T) {
	svc := NewEmailService(config.EmailConfig{Provider: "mock"}, &memoryLogRepository{})

	_, err := svc.SendTemplated(context.Background(), "no_such_template", "x@example.com", nil)
	assert.Error(t, err)
}

func TestRenderTemplateSubstitution(t *testing.T) {
	subject, _, text, err := renderTemplate(TemplateOrderPaid, map[string]string{
		"name":         "Ravi",
		"order_number": "WP-20260801-AB12CD",
		"amount":       "750.00",
	})

	require.NoError(t, err)
	assert.Equal(t, "Payment received for order WP-20260801-AB12CD", subject)
	assert.Contains(t, text, "Hi Ravi,")
	assert.Contains(t, text, "WP-20260801-AB12CD (750.00)")
}
