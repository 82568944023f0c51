package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"writerspocket-backend/internal/domains/payment/gateway"
	"writerspocket-backend/internal/domains/payment/model"

	notificationmodel "writerspocket-backend/internal/domains/notification/model"
	ordermodel "writerspocket-backend/internal/domains/order/model"
	royaltymodel "writerspocket-backend/internal/domains/royalty/model"
)

// =====================================================
// FAKES
// =====================================================

type fakeGateway struct {
	secretConfigured bool
	validSignature   string
}

func (g *fakeGateway) Configured() bool                { return true }
func (g *fakeGateway) WebhookSecretConfigured() bool   { return g.secretConfigured }
func (g *fakeGateway) CreateOrder(ctx context.Context, amount decimal.Decimal, currency, receipt string) (*gateway.GatewayOrder, error) {
	return nil, fmt.Errorf("not expected in webhook tests")
}
func (g *fakeGateway) VerifyWebhookSignature(body []byte, signature string) bool {
	return signature == g.validSignature
}

type fakeOrderRepo struct {
	mu              sync.Mutex
	byRazorpayOrder map[string]*ordermodel.Order
	statusUpdates   []ordermodel.OrderStatus
	payments        []ordermodel.PaymentRecord
}

func newFakeOrderRepo(orders ...*ordermodel.Order) *fakeOrderRepo {
	repo := &fakeOrderRepo{byRazorpayOrder: make(map[string]*ordermodel.Order)}
	for _, order := range orders {
		if order.RazorpayOrderID != nil {
			repo.byRazorpayOrder[*order.RazorpayOrderID] = order
		}
	}
	return repo
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *ordermodel.Order) error {
	panic("unexpected Create")
}
func (r *fakeOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*ordermodel.Order, error) {
	panic("unexpected GetByID")
}
func (r *fakeOrderRepo) GetByOrderNumber(ctx context.Context, orderNumber string) (*ordermodel.Order, error) {
	panic("unexpected GetByOrderNumber")
}
func (r *fakeOrderRepo) GetByRazorpayOrderID(ctx context.Context, razorpayOrderID string) (*ordermodel.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.byRazorpayOrder[razorpayOrderID]
	if !ok {
		return nil, ordermodel.ErrOrderNotFound
	}
	return order, nil
}
func (r *fakeOrderRepo) List(ctx context.Context, filter ordermodel.ListOrdersFilter) ([]ordermodel.Order, int, error) {
	panic("unexpected List")
}
func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status ordermodel.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statusUpdates = append(r.statusUpdates, status)
	for _, order := range r.byRazorpayOrder {
		if order.ID == id {
			order.Status = status
		}
	}
	return nil
}
func (r *fakeOrderRepo) SetRazorpayOrderID(ctx context.Context, id uuid.UUID, razorpayOrderID string) error {
	panic("unexpected SetRazorpayOrderID")
}
func (r *fakeOrderRepo) RecordPayment(ctx context.Context, id uuid.UUID, record ordermodel.PaymentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payments = append(r.payments, record)
	for _, order := range r.byRazorpayOrder {
		if order.ID == id {
			order.Status = record.Status
			paymentID := record.RazorpayPaymentID
			order.RazorpayPaymentID = &paymentID
		}
	}
	return nil
}
func (r *fakeOrderRepo) GetItems(ctx context.Context, orderID uuid.UUID) ([]ordermodel.OrderItem, error) {
	panic("unexpected GetItems")
}

type postedSale struct {
	BookID     uuid.UUID
	SaleAmount decimal.Decimal
	Platform   string
	SaleRef    string
}

type fakeRoyaltyService struct {
	mu    sync.Mutex
	posts []postedSale
}

func (s *fakeRoyaltyService) CreateRoyaltiesForSale(ctx context.Context, bookID uuid.UUID, saleAmount decimal.Decimal, platform string, opts *royaltymodel.CreateRoyaltiesOptions) ([]royaltymodel.Royalty, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	post := postedSale{BookID: bookID, SaleAmount: saleAmount, Platform: platform}
	if opts != nil && opts.SaleRef != nil {
		post.SaleRef = *opts.SaleRef
	}
	s.posts = append(s.posts, post)
	return []royaltymodel.Royalty{{BookID: bookID}}, nil
}
func (s *fakeRoyaltyService) GetByID(ctx context.Context, id uuid.UUID) (*royaltymodel.Royalty, error) {
	panic("unexpected GetByID")
}
func (s *fakeRoyaltyService) List(ctx context.Context, filter royaltymodel.ListFilter) ([]royaltymodel.Royalty, int, error) {
	panic("unexpected List")
}
func (s *fakeRoyaltyService) MarkPaid(ctx context.Context, ids []uuid.UUID) (int, error) {
	panic("unexpected MarkPaid")
}
func (s *fakeRoyaltyService) GetPeriodSummary(ctx context.Context, authorID uuid.UUID, period string) (*royaltymodel.PeriodSummary, error) {
	panic("unexpected GetPeriodSummary")
}
func (s *fakeRoyaltyService) ExportStatement(ctx context.Context, authorID uuid.UUID, period string) ([]byte, string, error) {
	panic("unexpected ExportStatement")
}

type fakeNotificationService struct {
	mu      sync.Mutex
	created []notificationmodel.CreateNotificationRequest
}

func (s *fakeNotificationService) Create(ctx context.Context, req notificationmodel.CreateNotificationRequest) (*notificationmodel.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = append(s.created, req)
	return &notificationmodel.Notification{RecipientID: req.RecipientID, Type: req.Type}, nil
}
func (s *fakeNotificationService) ListMine(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]notificationmodel.Notification, int, error) {
	panic("unexpected ListMine")
}
func (s *fakeNotificationService) MarkRead(ctx context.Context, id, recipientID uuid.UUID) error {
	panic("unexpected MarkRead")
}
func (s *fakeNotificationService) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int, error) {
	panic("unexpected MarkAllRead")
}
func (s *fakeNotificationService) UnreadCount(ctx context.Context, recipientID uuid.UUID) (int, error) {
	panic("unexpected UnreadCount")
}

type fakeLogRepo struct {
	mu      sync.Mutex
	entries []model.WebhookLog
}

func (r *fakeLogRepo) Create(ctx context.Context, entry *model.WebhookLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}
func (r *fakeLogRepo) ListRecent(ctx context.Context, limit int) ([]model.WebhookLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.WebhookLog(nil), r.entries...), nil
}

// =====================================================
// FIXTURES
// =====================================================

type webhookFixture struct {
	service       ServiceInterface
	gateway       *fakeGateway
	orders        *fakeOrderRepo
	royalties     *fakeRoyaltyService
	notifications *fakeNotificationService
	logs          *fakeLogRepo
}

func newWebhookFixture(orders ...*ordermodel.Order) *webhookFixture {
	f := &webhookFixture{
		gateway:       &fakeGateway{secretConfigured: true, validSignature: "valid-sig"},
		orders:        newFakeOrderRepo(orders...),
		royalties:     &fakeRoyaltyService{},
		notifications: &fakeNotificationService{},
		logs:          &fakeLogRepo{},
	}
	f.service = NewWebhookService(f.gateway, f.orders, f.royalties, f.notifications, f.logs)
	return f
}

func testOrder(razorpayOrderID string, status ordermodel.OrderStatus) *ordermodel.Order {
	rzpID := razorpayOrderID
	bookOne := uuid.New()
	bookTwo := uuid.New()
	return &ordermodel.Order{
		ID:              uuid.New(),
		OrderNumber:     "WP-20260801-TEST01",
		AuthorID:        uuid.New(),
		Status:          status,
		RazorpayOrderID: &rzpID,
		Subtotal:        decimal.NewFromInt(750),
		Total:           decimal.NewFromInt(750),
		Items: []ordermodel.OrderItem{
			{BookID: bookOne, Quantity: 1, UnitPrice: decimal.NewFromInt(250), LineTotal: decimal.NewFromInt(250)},
			{BookID: bookTwo, Quantity: 2, UnitPrice: decimal.NewFromInt(250), LineTotal: decimal.NewFromInt(500)},
		},
	}
}

func captureBody(event, razorpayOrderID, paymentID string) []byte {
	return []byte(fmt.Sprintf(`{
		"event": %q,
		"payload": {
			"payment": {
				"entity": {"id": %q, "order_id": %q, "method": "card", "status": "captured", "amount": 75000}
			}
		}
	}`, event, paymentID, razorpayOrderID))
}

// =====================================================
// VERIFICATION
// =====================================================

func TestHandleWebhookRejectsWhenSecretMissing(t *testing.T) {
	f := newWebhookFixture()
	f.gateway.secretConfigured = false

	err := f.service.HandleWebhook(context.Background(), []byte(`{}`), "valid-sig")
	assert.ErrorIs(t, err, model.ErrSecretNotConfigured)
}

func TestHandleWebhookRejectsMissingSignature(t *testing.T) {
	f := newWebhookFixture()

	err := f.service.HandleWebhook(context.Background(), []byte(`{}`), "")
	assert.ErrorIs(t, err, model.ErrMissingSignature)
}

func TestHandleWebhookRejectsInvalidSignature(t *testing.T) {
	f := newWebhookFixture()

	err := f.service.HandleWebhook(context.Background(), []byte(`{}`), "forged")
	assert.ErrorIs(t, err, model.ErrInvalidSignature)
}

func TestHandleWebhookRejectsMalformedBody(t *testing.T) {
	f := newWebhookFixture()

	err := f.service.HandleWebhook(context.Background(), []byte(`{not json`), "valid-sig")
	assert.ErrorIs(t, err, model.ErrMalformedPayload)
}

// =====================================================
// DISPATCH
// =====================================================

func TestCaptureMarksPaidAndPostsRoyalties(t *testing.T) {
	order := testOrder("order_rzp_1", ordermodel.StatusPaymentPending)
	f := newWebhookFixture(order)

	body := captureBody(model.EventPaymentCaptured, "order_rzp_1", "pay_abc")
	err := f.service.HandleWebhook(context.Background(), body, "valid-sig")
	require.NoError(t, err)

	require.Len(t, f.orders.payments, 1)
	assert.Equal(t, "pay_abc", f.orders.payments[0].RazorpayPaymentID)
	assert.Equal(t, ordermodel.StatusPaid, f.orders.payments[0].Status)
	assert.Equal(t, "card", f.orders.payments[0].Method)

	// One website ledger post per order line, referencing the order number.
	require.Len(t, f.royalties.posts, 2)
	for i, post := range f.royalties.posts {
		assert.Equal(t, order.Items[i].BookID, post.BookID)
		assert.True(t, order.Items[i].LineTotal.Equal(post.SaleAmount))
		assert.Equal(t, "website", post.Platform)
		assert.Equal(t, order.OrderNumber, post.SaleRef)
	}

	require.Len(t, f.notifications.created, 1)
	assert.Equal(t, notificationmodel.TypeOrderPaid, f.notifications.created[0].Type)
	assert.Equal(t, order.AuthorID, f.notifications.created[0].RecipientID)

	require.Len(t, f.logs.entries, 1)
	assert.True(t, f.logs.entries[0].Processed)
}

func TestDuplicateCaptureDoesNotDoublePost(t *testing.T) {
	order := testOrder("order_rzp_1", ordermodel.StatusPaymentPending)
	f := newWebhookFixture(order)

	body := captureBody(model.EventPaymentCaptured, "order_rzp_1", "pay_abc")
	require.NoError(t, f.service.HandleWebhook(context.Background(), body, "valid-sig"))
	require.NoError(t, f.service.HandleWebhook(context.Background(), body, "valid-sig"))

	assert.Len(t, f.orders.payments, 1)
	assert.Len(t, f.royalties.posts, 2)
	assert.Len(t, f.notifications.created, 1)
	assert.Len(t, f.logs.entries, 2)
}

func TestCaptureWithNewPaymentIDOnPaidOrderDoesNotRepost(t *testing.T) {
	order := testOrder("order_rzp_1", ordermodel.StatusPaid)
	paidWith := "pay_old"
	order.RazorpayPaymentID = &paidWith
	f := newWebhookFixture(order)

	body := captureBody(model.EventPaymentCaptured, "order_rzp_1", "pay_new")
	require.NoError(t, f.service.HandleWebhook(context.Background(), body, "valid-sig"))

	assert.Empty(t, f.orders.payments)
	assert.Empty(t, f.royalties.posts)
	assert.Empty(t, f.notifications.created)
}

func TestCaptureOnPaidOrderWithoutRecordedPaymentDoesNotRepost(t *testing.T) {
	// An order can be PAID with no payment id on file, e.g. marked paid by
	// an admin or paid via an order.paid delivery without a payment entity.
	order := testOrder("order_rzp_1", ordermodel.StatusPaid)
	order.RazorpayPaymentID = nil
	f := newWebhookFixture(order)

	body := captureBody(model.EventPaymentCaptured, "order_rzp_1", "pay_new")
	require.NoError(t, f.service.HandleWebhook(context.Background(), body, "valid-sig"))

	assert.Empty(t, f.orders.payments)
	assert.Empty(t, f.royalties.posts)
	assert.Empty(t, f.notifications.created)
}

func TestOrderPaidEventResolvesOrderEntity(t *testing.T) {
	order := testOrder("order_rzp_2", ordermodel.StatusPaymentPending)
	f := newWebhookFixture(order)

	body := []byte(`{
		"event": "order.paid",
		"payload": {
			"payment": {"entity": {"id": "pay_xyz", "method": "upi"}},
			"order": {"entity": {"id": "order_rzp_2", "status": "paid"}}
		}
	}`)
	require.NoError(t, f.service.HandleWebhook(context.Background(), body, "valid-sig"))

	require.Len(t, f.orders.payments, 1)
	assert.Equal(t, "pay_xyz", f.orders.payments[0].RazorpayPaymentID)
	assert.Len(t, f.royalties.posts, 2)
}

func TestAuthorizedMovesOrderToPaymentPending(t *testing.T) {
	order := testOrder("order_rzp_1", ordermodel.StatusPending)
	f := newWebhookFixture(order)

	body := captureBody(model.EventPaymentAuthorized, "order_rzp_1", "pay_abc")
	require.NoError(t, f.service.HandleWebhook(context.Background(), body, "valid-sig"))

	require.Len(t, f.orders.statusUpdates, 1)
	assert.Equal(t, ordermodel.StatusPaymentPending, f.orders.statusUpdates[0])
	assert.Empty(t, f.royalties.posts)
}

func TestAuthorizedNeverDemotesPaidOrder(t *testing.T) {
	order := testOrder("order_rzp_1", ordermodel.StatusPaid)
	f := newWebhookFixture(order)

	body := captureBody(model.EventPaymentAuthorized, "order_rzp_1", "pay_abc")
	require.NoError(t, f.service.HandleWebhook(context.Background(), body, "valid-sig"))
	assert.Empty(t, f.orders.statusUpdates)
}

func TestFailedEventMarksOrderAndNotifies(t *testing.T) {
	order := testOrder("order_rzp_1", ordermodel.StatusPaymentPending)
	f := newWebhookFixture(order)

	body := captureBody(model.EventPaymentFailed, "order_rzp_1", "pay_abc")
	require.NoError(t, f.service.HandleWebhook(context.Background(), body, "valid-sig"))

	require.Len(t, f.orders.statusUpdates, 1)
	assert.Equal(t, ordermodel.StatusPaymentFailed, f.orders.statusUpdates[0])
	require.Len(t, f.notifications.created, 1)
	assert.Equal(t, notificationmodel.TypePaymentFailed, f.notifications.created[0].Type)
	assert.Empty(t, f.royalties.posts)
}

func TestLateFailureDoesNotOverridePaid(t *testing.T) {
	order := testOrder("order_rzp_1", ordermodel.StatusPaid)
	f := newWebhookFixture(order)

	body := captureBody(model.EventPaymentFailed, "order_rzp_1", "pay_abc")
	require.NoError(t, f.service.HandleWebhook(context.Background(), body, "valid-sig"))
	assert.Empty(t, f.orders.statusUpdates)
	assert.Empty(t, f.notifications.created)
}

func TestRefundEventMarksRefunded(t *testing.T) {
	order := testOrder("order_rzp_1", ordermodel.StatusPaid)
	f := newWebhookFixture(order)

	body := []byte(`{
		"event": "refund.created",
		"payload": {
			"payment": {"entity": {"id": "pay_abc", "order_id": "order_rzp_1"}},
			"refund": {"entity": {"id": "rfnd_1", "payment_id": "pay_abc", "amount": 75000}}
		}
	}`)
	require.NoError(t, f.service.HandleWebhook(context.Background(), body, "valid-sig"))

	require.Len(t, f.orders.statusUpdates, 1)
	assert.Equal(t, ordermodel.StatusRefunded, f.orders.statusUpdates[0])
	require.Len(t, f.notifications.created, 1)
	assert.Equal(t, notificationmodel.TypeRefund, f.notifications.created[0].Type)
}

func TestUnhandledEventIsAcknowledged(t *testing.T) {
	f := newWebhookFixture()

	body := []byte(`{"event": "payment.downtime.started", "payload": {}}`)
	require.NoError(t, f.service.HandleWebhook(context.Background(), body, "valid-sig"))

	require.Len(t, f.logs.entries, 1)
	assert.False(t, f.logs.entries[0].Processed)
}

func TestUnknownOrderIsAcknowledged(t *testing.T) {
	f := newWebhookFixture()

	body := captureBody(model.EventPaymentCaptured, "order_unknown", "pay_abc")
	require.NoError(t, f.service.HandleWebhook(context.Background(), body, "valid-sig"))

	assert.Empty(t, f.royalties.posts)
	require.Len(t, f.logs.entries, 1)
	assert.False(t, f.logs.entries[0].Processed)
}
