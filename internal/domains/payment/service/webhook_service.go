package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	notificationmodel "writerspocket-backend/internal/domains/notification/model"
	notificationservice "writerspocket-backend/internal/domains/notification/service"
	ordermodel "writerspocket-backend/internal/domains/order/model"
	orderrepo "writerspocket-backend/internal/domains/order/repository"
	"writerspocket-backend/internal/domains/payment/gateway"
	"writerspocket-backend/internal/domains/payment/model"
	"writerspocket-backend/internal/domains/payment/repository"
	royaltymodel "writerspocket-backend/internal/domains/royalty/model"
	royaltyservice "writerspocket-backend/internal/domains/royalty/service"
	"writerspocket-backend/internal/infrastructure/email"
)

// ServiceInterface is the webhook processing contract.
type ServiceInterface interface {
	// HandleWebhook verifies and dispatches one raw webhook request.
	// Returned sentinel errors map to HTTP statuses at the handler; a nil
	// return always means the provider should receive a 200.
	HandleWebhook(ctx context.Context, body []byte, signature string) error

	ListWebhookLogs(ctx context.Context, limit int) ([]model.WebhookLog, error)
}

// =====================================================
// WEBHOOK SERVICE IMPLEMENTATION
// =====================================================
type webhookService struct {
	gateway         gateway.PaymentGateway
	orderRepo       orderrepo.RepositoryInterface
	royaltyService  royaltyservice.ServiceInterface
	notificationSvc notificationservice.ServiceInterface
	logRepo         repository.WebhookLogRepository
}

func NewWebhookService(
	paymentGateway gateway.PaymentGateway,
	orderRepo orderrepo.RepositoryInterface,
	royaltyService royaltyservice.ServiceInterface,
	notificationSvc notificationservice.ServiceInterface,
	logRepo repository.WebhookLogRepository,
) ServiceInterface {
	return &webhookService{
		gateway:         paymentGateway,
		orderRepo:       orderRepo,
		royaltyService:  royaltyService,
		notificationSvc: notificationSvc,
		logRepo:         logRepo,
	}
}

// =====================================================
// VERIFICATION + DISPATCH
// =====================================================

func (s *webhookService) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if !s.gateway.WebhookSecretConfigured() {
		return model.ErrSecretNotConfigured
	}
	if signature == "" {
		return model.ErrMissingSignature
	}
	if !s.gateway.VerifyWebhookSignature(body, signature) {
		return model.ErrInvalidSignature
	}

	envelope, err := model.ParseWebhook(body)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrMalformedPayload, err)
	}

	return s.dispatch(ctx, envelope)
}

func (s *webhookService) dispatch(ctx context.Context, envelope *model.WebhookEnvelope) error {
	if !model.IsHandledEvent(envelope.Event) {
		log.Info().
			Str("event", envelope.Event).
			Msg("Ignoring unhandled webhook event")
		s.audit(ctx, envelope, false, "unhandled event type")
		return nil
	}

	gatewayOrderID := envelope.GatewayOrderID()
	if gatewayOrderID == "" {
		log.Warn().
			Str("event", envelope.Event).
			Msg("Webhook event carries no order id")
		s.audit(ctx, envelope, false, "missing order id")
		return nil
	}

	order, err := s.orderRepo.GetByRazorpayOrderID(ctx, gatewayOrderID)
	if err != nil {
		// A miss is not an error to the provider: the order may belong to
		// another environment sharing the webhook endpoint.
		log.Warn().
			Str("event", envelope.Event).
			Str("razorpay_order_id", gatewayOrderID).
			Msg("Webhook references unknown order")
		s.audit(ctx, envelope, false, "unknown order")
		return nil
	}

	switch envelope.Event {
	case model.EventPaymentAuthorized:
		err = s.handleAuthorized(ctx, order)
	case model.EventPaymentCaptured, model.EventOrderPaid:
		err = s.handleCaptured(ctx, order, envelope)
	case model.EventPaymentFailed:
		err = s.handleFailed(ctx, order)
	case model.EventRefundCreated:
		err = s.handleRefund(ctx, order)
	}

	if err != nil {
		s.audit(ctx, envelope, false, err.Error())
		return err
	}
	s.audit(ctx, envelope, true, "")
	return nil
}

// =====================================================
// EVENT HANDLERS
// =====================================================

func (s *webhookService) handleAuthorized(ctx context.Context, order *ordermodel.Order) error {
	// Re-applying the same status on retries is harmless; a paid order is
	// never pulled back to pending.
	if order.Status == ordermodel.StatusPaid || order.Status == ordermodel.StatusRefunded {
		return nil
	}
	return s.orderRepo.UpdateStatus(ctx, order.ID, ordermodel.StatusPaymentPending)
}

func (s *webhookService) handleCaptured(ctx context.Context, order *ordermodel.Order, envelope *model.WebhookEnvelope) error {
	paymentID := envelope.Payload.Payment.Entity.ID

	// Duplicate delivery guard: a PAID order never takes another capture.
	// Royalties were posted when it first went PAID; re-running them would
	// double the ledger.
	if order.Status == ordermodel.StatusPaid {
		if paymentID != "" && (order.RazorpayPaymentID == nil || *order.RazorpayPaymentID != paymentID) {
			log.Warn().
				Str("order_number", order.OrderNumber).
				Str("razorpay_payment_id", paymentID).
				Msg("Capture webhook with a different payment id for a paid order, skipping")
		} else {
			log.Info().
				Str("order_number", order.OrderNumber).
				Str("razorpay_payment_id", paymentID).
				Msg("Duplicate capture webhook, skipping")
		}
		return nil
	}

	now := time.Now()
	record := ordermodel.PaymentRecord{
		RazorpayPaymentID: paymentID,
		Method:            envelope.Payload.Payment.Entity.Method,
		Status:            ordermodel.StatusPaid,
		PaidAt:            &now,
	}
	if err := s.orderRepo.RecordPayment(ctx, order.ID, record); err != nil {
		return err
	}

	// Every line of the order is a website sale feeding the ledger.
	for _, item := range order.Items {
		saleRef := order.OrderNumber
		_, err := s.royaltyService.CreateRoyaltiesForSale(ctx, item.BookID, item.LineTotal, "website", &royaltymodel.CreateRoyaltiesOptions{
			SaleRef: &saleRef,
		})
		if err != nil {
			return fmt.Errorf("post royalties for order %s: %w", order.OrderNumber, err)
		}
	}

	s.notify(ctx, order, notificationmodel.TypeOrderPaid,
		fmt.Sprintf("Payment received for %s", order.OrderNumber),
		fmt.Sprintf("Your payment of %s for order %s was captured.", order.Total.StringFixed(2), order.OrderNumber),
		email.TemplateOrderPaid,
		map[string]string{
			"order_number": order.OrderNumber,
			"amount":       order.Total.StringFixed(2),
		})

	log.Info().
		Str("order_number", order.OrderNumber).
		Str("razorpay_payment_id", paymentID).
		Msg("Order payment captured")

	return nil
}

func (s *webhookService) handleFailed(ctx context.Context, order *ordermodel.Order) error {
	// A capture that already landed wins over a late failure event.
	if order.Status == ordermodel.StatusPaid || order.Status == ordermodel.StatusRefunded {
		return nil
	}
	if err := s.orderRepo.UpdateStatus(ctx, order.ID, ordermodel.StatusPaymentFailed); err != nil {
		return err
	}

	s.notify(ctx, order, notificationmodel.TypePaymentFailed,
		fmt.Sprintf("Payment failed for %s", order.OrderNumber),
		fmt.Sprintf("The payment for order %s could not be completed.", order.OrderNumber),
		email.TemplatePaymentFailed,
		map[string]string{"order_number": order.OrderNumber})

	return nil
}

func (s *webhookService) handleRefund(ctx context.Context, order *ordermodel.Order) error {
	if order.Status == ordermodel.StatusRefunded {
		return nil
	}
	if err := s.orderRepo.UpdateStatus(ctx, order.ID, ordermodel.StatusRefunded); err != nil {
		return err
	}

	s.notify(ctx, order, notificationmodel.TypeRefund,
		fmt.Sprintf("Refund processed for %s", order.OrderNumber),
		fmt.Sprintf("Your refund for order %s has been processed.", order.OrderNumber),
		email.TemplateRefundProcessed,
		map[string]string{"order_number": order.OrderNumber})

	return nil
}

// =====================================================
// HELPERS
// =====================================================

func (s *webhookService) notify(ctx context.Context, order *ordermodel.Order, notificationType notificationmodel.NotificationType, title, body, template string, vars map[string]string) {
	if s.notificationSvc == nil {
		return
	}

	_, err := s.notificationSvc.Create(ctx, notificationmodel.CreateNotificationRequest{
		RecipientID:   order.AuthorID,
		Type:          notificationType,
		Title:         title,
		Body:          body,
		EmailTemplate: template,
		EmailVars:     vars,
	})
	if err != nil {
		// Notification failure never fails the webhook.
		log.Warn().Err(err).
			Str("order_number", order.OrderNumber).
			Msg("Failed to create webhook notification")
	}
}

func (s *webhookService) audit(ctx context.Context, envelope *model.WebhookEnvelope, processed bool, detail string) {
	if s.logRepo == nil {
		return
	}

	entry := &model.WebhookLog{
		EventType: envelope.Event,
		Processed: processed,
	}
	if id := envelope.GatewayOrderID(); id != "" {
		entry.RazorpayOrderID = &id
	}
	if id := envelope.Payload.Payment.Entity.ID; id != "" {
		entry.RazorpayPaymentID = &id
	}
	if detail != "" {
		entry.Detail = &detail
	}

	if err := s.logRepo.Create(ctx, entry); err != nil {
		log.Warn().Err(err).Str("event", envelope.Event).Msg("Failed to write webhook audit log")
	}
}

func (s *webhookService) ListWebhookLogs(ctx context.Context, limit int) ([]model.WebhookLog, error) {
	return s.logRepo.ListRecent(ctx, limit)
}
