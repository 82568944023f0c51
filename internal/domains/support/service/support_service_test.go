package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	notificationmodel "writerspocket-backend/internal/domains/notification/model"
	"writerspocket-backend/internal/domains/support/model"
	"writerspocket-backend/internal/infrastructure/email"
)

// =====================================================
// FAKES
// =====================================================

type fakeSupportRepo struct {
	mu      sync.Mutex
	tickets map[uuid.UUID]*model.Ticket
	replies map[uuid.UUID][]model.TicketReply
}

func newFakeSupportRepo() *fakeSupportRepo {
	return &fakeSupportRepo{
		tickets: make(map[uuid.UUID]*model.Ticket),
		replies: make(map[uuid.UUID][]model.TicketReply),
	}
}

func (r *fakeSupportRepo) Create(ctx context.Context, ticket *model.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket.ID = uuid.New()
	r.tickets[ticket.ID] = ticket
	return nil
}

func (r *fakeSupportRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, model.ErrTicketNotFound
	}
	copied := *ticket
	copied.Replies = append([]model.TicketReply(nil), r.replies[id]...)
	return &copied, nil
}

func (r *fakeSupportRepo) List(ctx context.Context, filter model.ListTicketsFilter) ([]model.Ticket, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Ticket, 0, len(r.tickets))
	for _, t := range r.tickets {
		out = append(out, *t)
	}
	return out, len(out), nil
}

func (r *fakeSupportRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.TicketStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return model.ErrTicketNotFound
	}
	ticket.Status = status
	return nil
}

func (r *fakeSupportRepo) AddReply(ctx context.Context, reply *model.TicketReply) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	reply.ID = uuid.New()
	r.replies[reply.TicketID] = append(r.replies[reply.TicketID], *reply)
	return nil
}

func (r *fakeSupportRepo) GetReplies(ctx context.Context, ticketID uuid.UUID) ([]model.TicketReply, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.TicketReply(nil), r.replies[ticketID]...), nil
}

type recordingNotificationService struct {
	mu      sync.Mutex
	created []notificationmodel.CreateNotificationRequest
}

func (s *recordingNotificationService) Create(ctx context.Context, req notificationmodel.CreateNotificationRequest) (*notificationmodel.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = append(s.created, req)
	return &notificationmodel.Notification{RecipientID: req.RecipientID}, nil
}
func (s *recordingNotificationService) ListMine(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]notificationmodel.Notification, int, error) {
	panic("unexpected ListMine")
}
func (s *recordingNotificationService) MarkRead(ctx context.Context, id, recipientID uuid.UUID) error {
	panic("unexpected MarkRead")
}
func (s *recordingNotificationService) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int, error) {
	panic("unexpected MarkAllRead")
}
func (s *recordingNotificationService) UnreadCount(ctx context.Context, recipientID uuid.UUID) (int, error) {
	panic("unexpected UnreadCount")
}

// =====================================================
// TESTS
// =====================================================

func TestAdminReplyResolvesAndNotifies(t *testing.T) {
	repo := newFakeSupportRepo()
	notifications := &recordingNotificationService{}
	svc := NewSupportService(repo, notifications)

	authorID := uuid.New()
	ticket, err := svc.Create(context.Background(), authorID, model.CreateTicketRequest{
		Subject: "Missing royalty line",
		Body:    "My March sale is not showing up.",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusOpen, ticket.Status)

	adminID := uuid.New()
	updated, err := svc.AdminReply(context.Background(), ticket.ID, adminID, model.ReplyRequest{
		Body:    "The line was posted under the previous period.",
		Resolve: true,
	})
	require.NoError(t, err)

	assert.Equal(t, model.StatusResolved, updated.Status)
	require.Len(t, updated.Replies, 1)
	assert.True(t, updated.Replies[0].IsAdmin)

	require.Len(t, notifications.created, 1)
	created := notifications.created[0]
	assert.Equal(t, authorID, created.RecipientID)
	assert.Equal(t, notificationmodel.TypeSupport, created.Type)
	assert.Equal(t, email.TemplateSupportReply, created.EmailTemplate)
	assert.Equal(t, "Missing royalty line", created.EmailVars["subject"])
}

func TestAdminReplyWithoutResolveMovesToInProgress(t *testing.T) {
	repo := newFakeSupportRepo()
	svc := NewSupportService(repo, &recordingNotificationService{})

	ticket, err := svc.Create(context.Background(), uuid.New(), model.CreateTicketRequest{
		Subject: "ISBN question",
		Body:    "Can I change the paperback ISBN?",
	})
	require.NoError(t, err)

	updated, err := svc.AdminReply(context.Background(), ticket.ID, uuid.New(), model.ReplyRequest{
		Body: "Checking with the catalog team.",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, updated.Status)
}

func TestAuthorReplyReopensResolvedTicket(t *testing.T) {
	repo := newFakeSupportRepo()
	svc := NewSupportService(repo, &recordingNotificationService{})

	authorID := uuid.New()
	ticket, err := svc.Create(context.Background(), authorID, model.CreateTicketRequest{
		Subject: "Statement export",
		Body:    "The xlsx download fails.",
	})
	require.NoError(t, err)

	_, err = svc.AdminReply(context.Background(), ticket.ID, uuid.New(), model.ReplyRequest{
		Body:    "Fixed.",
		Resolve: true,
	})
	require.NoError(t, err)

	updated, err := svc.AuthorReply(context.Background(), ticket.ID, authorID, model.ReplyRequest{
		Body: "Still failing for 2026-07.",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusOpen, updated.Status)
	assert.Len(t, updated.Replies, 2)
}

func TestAuthorReplyRejectsForeignTicket(t *testing.T) {
	repo := newFakeSupportRepo()
	svc := NewSupportService(repo, &recordingNotificationService{})

	ticket, err := svc.Create(context.Background(), uuid.New(), model.CreateTicketRequest{
		Subject: "Question",
		Body:    "About my account.",
	})
	require.NoError(t, err)

	_, err = svc.AuthorReply(context.Background(), ticket.ID, uuid.New(), model.ReplyRequest{Body: "Hello"})
	assert.ErrorIs(t, err, model.ErrNotOwner)
}
