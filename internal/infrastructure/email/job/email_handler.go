package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"writerspocket-backend/internal/infrastructure/email"
	"writerspocket-backend/internal/shared"
)

// =====================================================
// EMAIL TASK HANDLERS
// =====================================================

// EmailHandler processes the email delivery tasks from the queue.
type EmailHandler struct {
	emailService email.EmailService
}

func NewEmailHandler(emailService email.EmailService) *EmailHandler {
	return &EmailHandler{emailService: emailService}
}

// ProcessNotificationEmail delivers a notification email previously
// enqueued alongside an in-app notification.
func (h *EmailHandler) ProcessNotificationEmail(ctx context.Context, task *asynq.Task) error {
	var payload shared.NotificationEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal NotificationEmail payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	vars := payload.Variables
	if vars == nil {
		vars = make(map[string]string)
	}
	if _, ok := vars["name"]; !ok {
		vars["name"] = payload.RecipientName
	}

	result, err := h.emailService.SendTemplated(ctx, payload.TemplateName, payload.RecipientEmail, vars)
	if err != nil {
		return fmt.Errorf("send notification email: %w", err)
	}

	log.Info().
		Str("notification_id", payload.NotificationID).
		Str("template", payload.TemplateName).
		Bool("mocked", result.Mocked).
		Msg("Notification email sent")

	return nil
}

// ProcessWelcomeEmail greets a freshly created author account.
func (h *EmailHandler) ProcessWelcomeEmail(ctx context.Context, task *asynq.Task) error {
	var payload shared.WelcomeEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal WelcomeEmail payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	result, err := h.emailService.SendTemplated(ctx, email.TemplateWelcomeAuthor, payload.Email, map[string]string{
		"name":       payload.Name,
		"author_uid": payload.AuthorUID,
	})
	if err != nil {
		return fmt.Errorf("send welcome email: %w", err)
	}

	log.Info().
		Str("email", payload.Email).
		Str("author_uid", payload.AuthorUID).
		Bool("mocked", result.Mocked).
		Msg("Welcome email sent")

	return nil
}
