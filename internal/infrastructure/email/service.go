package email

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog/log"

	"writerspocket-backend/internal/config"
)

// =====================================================
// EMAIL SERVICE
// =====================================================

// EmailRequest is a single outbound email.
type EmailRequest struct {
	To         []string
	Subject    string
	HTML       string
	Text       string
	TemplateID string
}

// SendResult reports the outcome of a send attempt. Mocked is true when no
// real provider is configured; such sends always report success.
type SendResult struct {
	Success   bool   `json:"success"`
	Mocked    bool   `json:"mocked"`
	MessageID string `json:"message_id,omitempty"`
}

// EmailService delivers emails. Every attempt is recorded in email_logs
// regardless of which provider is active.
type EmailService interface {
	Send(ctx context.Context, req EmailRequest) (*SendResult, error)
	SendTemplated(ctx context.Context, templateName, to string, vars map[string]string) (*SendResult, error)
}

// Provider is the transport behind the service: SMTP in real deployments,
// a logging no-op otherwise. Selected once at startup, never per call.
type Provider interface {
	Deliver(ctx context.Context, req EmailRequest) (messageID string, err error)
	Mocked() bool
}

type emailService struct {
	provider Provider
	logRepo  LogRepository
}

// NewEmailService wires the configured provider with the email log.
func NewEmailService(cfg config.EmailConfig, logRepo LogRepository) EmailService {
	var provider Provider
	switch cfg.Provider {
	case "smtp":
		provider = NewSMTPProvider(cfg.SMTPHost, cfg.SMTPPort, cfg.From)
	default:
		provider = NewMockProvider()
	}

	return &emailService{
		provider: provider,
		logRepo:  logRepo,
	}
}

func (s *emailService) Send(ctx context.Context, req EmailRequest) (*SendResult, error) {
	if len(req.To) == 0 {
		return nil, fmt.Errorf("email request has no recipients")
	}

	messageID, sendErr := s.provider.Deliver(ctx, req)
	if messageID == "" {
		messageID = "wp-" + xid.New().String()
	}

	// The attempt is logged no matter what happened. A failing log write
	// must not mask the delivery outcome.
	entry := &EmailLog{
		To:         req.To,
		Subject:    req.Subject,
		TemplateID: req.TemplateID,
		MessageID:  messageID,
		Mocked:     s.provider.Mocked(),
		Success:    sendErr == nil,
		SentAt:     time.Now(),
	}
	if sendErr != nil {
		errMsg := sendErr.Error()
		entry.Error = &errMsg
	}
	if s.logRepo != nil {
		if err := s.logRepo.Create(ctx, entry); err != nil {
			log.Warn().Err(err).Str("message_id", messageID).Msg("Failed to record email log")
		}
	}

	if sendErr != nil {
		return &SendResult{Success: false, Mocked: s.provider.Mocked()}, sendErr
	}

	return &SendResult{
		Success:   true,
		Mocked:    s.provider.Mocked(),
		MessageID: messageID,
	}, nil
}

func (s *emailService) SendTemplated(ctx context.Context, templateName, to string, vars map[string]string) (*SendResult, error) {
	subject, html, text, err := renderTemplate(templateName, vars)
	if err != nil {
		return nil, err
	}

	return s.Send(ctx, EmailRequest{
		To:         []string{to},
		Subject:    subject,
		HTML:       html,
		Text:       text,
		TemplateID: templateName,
	})
}
