package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"writerspocket-backend/internal/domains/payment/model"
	"writerspocket-backend/internal/domains/payment/service"
	"writerspocket-backend/internal/shared/response"
	"writerspocket-backend/internal/shared/utils"
)

// =====================================================
// WEBHOOK HANDLER
// =====================================================
type WebhookHandler struct {
	service service.ServiceInterface
}

func NewWebhookHandler(service service.ServiceInterface) *WebhookHandler {
	return &WebhookHandler{service: service}
}

// Receive is the Razorpay webhook endpoint. It must read the raw body:
// signature verification runs over the exact bytes the provider signed.
func (h *WebhookHandler) Receive(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.BadRequest(c, "Unable to read webhook body")
		return
	}
	signature := c.GetHeader("X-Razorpay-Signature")

	if err := h.service.HandleWebhook(c.Request.Context(), body, signature); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"received": true})
}

// ListLogs returns the most recent webhook audit entries (admin only).
func (h *WebhookHandler) ListLogs(c *gin.Context) {
	_, limit, _ := utils.Pagination(c)

	logs, err := h.service.ListWebhookLogs(c.Request.Context(), limit)
	if err != nil {
		response.InternalServerError(c, "Failed to list webhook logs")
		return
	}

	response.Success(c, http.StatusOK, logs)
}

func (h *WebhookHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrSecretNotConfigured):
		response.ErrorResponse(c, http.StatusBadRequest, "WBH001", "Webhook secret not configured")
	case errors.Is(err, model.ErrMissingSignature):
		response.ErrorResponse(c, http.StatusBadRequest, "WBH002", "Missing webhook signature")
	case errors.Is(err, model.ErrInvalidSignature):
		response.ErrorResponse(c, http.StatusUnauthorized, "WBH003", "Invalid webhook signature")
	case errors.Is(err, model.ErrMalformedPayload):
		response.ErrorResponse(c, http.StatusBadRequest, "WBH004", "Malformed webhook payload")
	default:
		log.Error().Err(err).Msg("Webhook processing failed")
		response.InternalServerError(c, "Webhook processing failed")
	}
}
