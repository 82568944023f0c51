package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	authorrepo "writerspocket-backend/internal/domains/author/repository"
	"writerspocket-backend/internal/domains/notification/model"
	"writerspocket-backend/internal/domains/notification/repository"
	"writerspocket-backend/internal/shared"
)

// ServiceInterface is the notification business logic contract.
type ServiceInterface interface {
	// Create stores the in-app notification and, when the request names an
	// email template, enqueues the matching email task.
	Create(ctx context.Context, req model.CreateNotificationRequest) (*model.Notification, error)

	ListMine(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]model.Notification, int, error)
	MarkRead(ctx context.Context, id, recipientID uuid.UUID) error
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int, error)
	UnreadCount(ctx context.Context, recipientID uuid.UUID) (int, error)
}

// =====================================================
// NOTIFICATION SERVICE IMPLEMENTATION
// =====================================================
type notificationService struct {
	repo       repository.RepositoryInterface
	authorRepo authorrepo.RepositoryInterface
	asynq      *asynq.Client // nil in tests; enqueue failures only warn
}

func NewNotificationService(
	repo repository.RepositoryInterface,
	authorRepo authorrepo.RepositoryInterface,
	asynqClient *asynq.Client,
) ServiceInterface {
	return &notificationService{
		repo:       repo,
		authorRepo: authorRepo,
		asynq:      asynqClient,
	}
}

func (s *notificationService) Create(ctx context.Context, req model.CreateNotificationRequest) (*model.Notification, error) {
	if !req.Type.IsValid() {
		return nil, model.ErrInvalidType
	}

	notification := &model.Notification{
		RecipientID: req.RecipientID,
		Type:        req.Type,
		Title:       req.Title,
		Body:        req.Body,
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return nil, err
	}

	if req.EmailTemplate != "" {
		s.enqueueEmail(ctx, notification, req)
	}
	return notification, nil
}

func (s *notificationService) ListMine(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]model.Notification, int, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.repo.ListByRecipient(ctx, recipientID, limit, offset)
}

func (s *notificationService) MarkRead(ctx context.Context, id, recipientID uuid.UUID) error {
	return s.repo.MarkRead(ctx, id, recipientID)
}

func (s *notificationService) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int, error) {
	return s.repo.MarkAllRead(ctx, recipientID)
}

func (s *notificationService) UnreadCount(ctx context.Context, recipientID uuid.UUID) (int, error) {
	return s.repo.UnreadCount(ctx, recipientID)
}

// =====================================================
// EMAIL DELIVERY
// =====================================================

func (s *notificationService) enqueueEmail(ctx context.Context, notification *model.Notification, req model.CreateNotificationRequest) {
	if s.asynq == nil {
		return
	}

	recipient, err := s.authorRepo.GetByID(ctx, req.RecipientID)
	if err != nil {
		log.Warn().Err(err).
			Str("recipient_id", req.RecipientID.String()).
			Msg("Skipping notification email, recipient lookup failed")
		return
	}

	vars := req.EmailVars
	if vars == nil {
		vars = map[string]string{}
	}
	if _, ok := vars["name"]; !ok {
		vars["name"] = recipient.FullName
	}

	payload, err := json.Marshal(shared.NotificationEmailPayload{
		NotificationID: notification.ID.String(),
		RecipientEmail: recipient.Email,
		RecipientName:  recipient.FullName,
		TemplateName:   req.EmailTemplate,
		Variables:      vars,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal notification email payload")
		return
	}

	if _, err := s.asynq.Enqueue(
		asynq.NewTask(shared.TypeSendNotificationEmail, payload),
		asynq.Queue(shared.QueueDefault),
	); err != nil {
		log.Warn().Err(err).
			Str("notification_id", notification.ID.String()).
			Msg("Failed to enqueue notification email")
	}
}
