package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"writerspocket-backend/internal/domains/notification/model"
	"writerspocket-backend/internal/domains/notification/service"
	"writerspocket-backend/internal/shared/response"
	"writerspocket-backend/internal/shared/utils"
)

// =====================================================
// NOTIFICATION HANDLER
// =====================================================
type NotificationHandler struct {
	service service.ServiceInterface
}

func NewNotificationHandler(service service.ServiceInterface) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// ListMine handles GET /api/v1/notifications
func (h *NotificationHandler) ListMine(c *gin.Context) {
	recipientID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	page, limit, offset := utils.Pagination(c)
	notifications, total, err := h.service.ListMine(c.Request.Context(), recipientID, limit, offset)
	if err != nil {
		response.InternalServerError(c, "Failed to list notifications")
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, notifications, &response.Meta{
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

// MarkRead handles PATCH /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	recipientID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid notification id")
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), id, recipientID); err != nil {
		if errors.Is(err, model.ErrNotificationNotFound) {
			response.ErrorResponse(c, http.StatusNotFound, model.ErrCodeNotificationNotFound, "Notification not found")
			return
		}
		response.InternalServerError(c, "Failed to mark notification read")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"read": true})
}

// MarkAllRead handles POST /api/v1/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	recipientID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	updated, err := h.service.MarkAllRead(c.Request.Context(), recipientID)
	if err != nil {
		response.InternalServerError(c, "Failed to mark notifications read")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"updated": updated})
}

// UnreadCount handles GET /api/v1/notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	recipientID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	count, err := h.service.UnreadCount(c.Request.Context(), recipientID)
	if err != nil {
		response.InternalServerError(c, "Failed to count unread notifications")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"unread": count})
}

func (h *NotificationHandler) currentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, "Authentication required")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw.(string))
	if err != nil {
		response.Unauthorized(c, "Invalid token subject")
		return uuid.Nil, false
	}
	return id, true
}
