package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	notificationmodel "writerspocket-backend/internal/domains/notification/model"
	notificationservice "writerspocket-backend/internal/domains/notification/service"
	"writerspocket-backend/internal/domains/support/model"
	"writerspocket-backend/internal/domains/support/repository"
	"writerspocket-backend/internal/infrastructure/email"
)

// ServiceInterface is the support ticket business logic contract.
type ServiceInterface interface {
	Create(ctx context.Context, authorID uuid.UUID, req model.CreateTicketRequest) (*model.Ticket, error)
	GetForAuthor(ctx context.Context, id, authorID uuid.UUID) (*model.Ticket, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Ticket, error)
	List(ctx context.Context, filter model.ListTicketsFilter) ([]model.Ticket, int, error)

	// AuthorReply appends an author message and reopens the ticket.
	AuthorReply(ctx context.Context, id, authorID uuid.UUID, req model.ReplyRequest) (*model.Ticket, error)

	// AdminReply appends a staff message, optionally resolving the ticket,
	// and notifies the author.
	AdminReply(ctx context.Context, id, adminID uuid.UUID, req model.ReplyRequest) (*model.Ticket, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, status model.TicketStatus) (*model.Ticket, error)
}

// =====================================================
// SUPPORT SERVICE IMPLEMENTATION
// =====================================================
type supportService struct {
	repo            repository.RepositoryInterface
	notificationSvc notificationservice.ServiceInterface
}

func NewSupportService(
	repo repository.RepositoryInterface,
	notificationSvc notificationservice.ServiceInterface,
) ServiceInterface {
	return &supportService{
		repo:            repo,
		notificationSvc: notificationSvc,
	}
}

func (s *supportService) Create(ctx context.Context, authorID uuid.UUID, req model.CreateTicketRequest) (*model.Ticket, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ticket := &model.Ticket{
		AuthorID: authorID,
		Subject:  req.Subject,
		Body:     req.Body,
		Status:   model.StatusOpen,
	}
	if err := s.repo.Create(ctx, ticket); err != nil {
		return nil, err
	}

	log.Info().
		Str("ticket_id", ticket.ID.String()).
		Str("author_id", authorID.String()).
		Msg("Support ticket created")

	return ticket, nil
}

func (s *supportService) GetForAuthor(ctx context.Context, id, authorID uuid.UUID) (*model.Ticket, error) {
	ticket, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ticket.AuthorID != authorID {
		return nil, model.NewSupportError(model.ErrCodeNotOwner, "Ticket belongs to another author", model.ErrNotOwner)
	}
	return ticket, nil
}

func (s *supportService) GetByID(ctx context.Context, id uuid.UUID) (*model.Ticket, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *supportService) List(ctx context.Context, filter model.ListTicketsFilter) ([]model.Ticket, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	return s.repo.List(ctx, filter)
}

func (s *supportService) AuthorReply(ctx context.Context, id, authorID uuid.UUID, req model.ReplyRequest) (*model.Ticket, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ticket, err := s.GetForAuthor(ctx, id, authorID)
	if err != nil {
		return nil, err
	}

	reply := &model.TicketReply{
		TicketID: ticket.ID,
		SenderID: authorID,
		Body:     req.Body,
	}
	if err := s.repo.AddReply(ctx, reply); err != nil {
		return nil, err
	}

	// An author reply on a resolved ticket reopens it.
	if ticket.Status == model.StatusResolved {
		if err := s.repo.UpdateStatus(ctx, ticket.ID, model.StatusOpen); err != nil {
			return nil, err
		}
	}

	return s.repo.GetByID(ctx, ticket.ID)
}

func (s *supportService) AdminReply(ctx context.Context, id, adminID uuid.UUID, req model.ReplyRequest) (*model.Ticket, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ticket, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	reply := &model.TicketReply{
		TicketID: ticket.ID,
		SenderID: adminID,
		IsAdmin:  true,
		Body:     req.Body,
	}
	if err := s.repo.AddReply(ctx, reply); err != nil {
		return nil, err
	}

	status := model.StatusInProgress
	if req.Resolve {
		status = model.StatusResolved
	}
	if err := s.repo.UpdateStatus(ctx, ticket.ID, status); err != nil {
		return nil, err
	}

	s.notifyAuthor(ctx, ticket, req.Body)

	return s.repo.GetByID(ctx, ticket.ID)
}

func (s *supportService) UpdateStatus(ctx context.Context, id uuid.UUID, status model.TicketStatus) (*model.Ticket, error) {
	if !status.IsValid() {
		return nil, model.NewSupportError(model.ErrCodeInvalidStatus, "Unknown ticket status", model.ErrInvalidStatus)
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *supportService) notifyAuthor(ctx context.Context, ticket *model.Ticket, replyBody string) {
	if s.notificationSvc == nil {
		return
	}

	_, err := s.notificationSvc.Create(ctx, notificationmodel.CreateNotificationRequest{
		RecipientID:   ticket.AuthorID,
		Type:          notificationmodel.TypeSupport,
		Title:         "Reply to: " + ticket.Subject,
		Body:          replyBody,
		EmailTemplate: email.TemplateSupportReply,
		EmailVars: map[string]string{
			"subject": ticket.Subject,
			"reply":   replyBody,
		},
	})
	if err != nil {
		log.Warn().Err(err).
			Str("ticket_id", ticket.ID.String()).
			Msg("Failed to notify author of support reply")
	}
}
