package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"writerspocket-backend/internal/domains/support/model"
	"writerspocket-backend/internal/domains/support/service"
	"writerspocket-backend/internal/shared/response"
	"writerspocket-backend/internal/shared/utils"
)

// =====================================================
// SUPPORT HANDLER
// =====================================================
type SupportHandler struct {
	service service.ServiceInterface
}

func NewSupportHandler(service service.ServiceInterface) *SupportHandler {
	return &SupportHandler{service: service}
}

// Create handles POST /api/v1/support/tickets
func (h *SupportHandler) Create(c *gin.Context) {
	authorID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req model.CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	ticket, err := h.service.Create(c.Request.Context(), authorID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, ticket)
}

// MyTickets handles GET /api/v1/support/tickets
func (h *SupportHandler) MyTickets(c *gin.Context) {
	authorID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	page, limit, offset := utils.Pagination(c)
	filter := model.ListTicketsFilter{
		AuthorID: &authorID,
		Limit:    limit,
		Offset:   offset,
	}
	if raw := c.Query("status"); raw != "" {
		status := model.TicketStatus(raw)
		filter.Status = &status
	}

	tickets, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, tickets, &response.Meta{
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

// Get handles GET /api/v1/support/tickets/:id (owners only).
func (h *SupportHandler) Get(c *gin.Context) {
	authorID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid ticket id")
		return
	}

	ticket, err := h.service.GetForAuthor(c.Request.Context(), id, authorID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, ticket)
}

// Reply handles POST /api/v1/support/tickets/:id/replies
func (h *SupportHandler) Reply(c *gin.Context) {
	authorID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid ticket id")
		return
	}

	var req model.ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	ticket, err := h.service.AuthorReply(c.Request.Context(), id, authorID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, ticket)
}

// =====================================================
// ADMIN ENDPOINTS
// =====================================================

// List handles GET /api/v1/admin/support/tickets
func (h *SupportHandler) List(c *gin.Context) {
	page, limit, offset := utils.Pagination(c)
	filter := model.ListTicketsFilter{
		Limit:  limit,
		Offset: offset,
	}
	if raw := c.Query("author_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			filter.AuthorID = &id
		}
	}
	if raw := c.Query("status"); raw != "" {
		status := model.TicketStatus(raw)
		filter.Status = &status
	}

	tickets, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, tickets, &response.Meta{
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

// GetAny handles GET /api/v1/admin/support/tickets/:id
func (h *SupportHandler) GetAny(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid ticket id")
		return
	}

	ticket, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, ticket)
}

// AdminReply handles POST /api/v1/admin/support/tickets/:id/replies
func (h *SupportHandler) AdminReply(c *gin.Context) {
	adminID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid ticket id")
		return
	}

	var req model.ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	ticket, err := h.service.AdminReply(c.Request.Context(), id, adminID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, ticket)
}

// UpdateStatus handles PATCH /api/v1/admin/support/tickets/:id/status
func (h *SupportHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid ticket id")
		return
	}

	var req model.UpdateTicketStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	ticket, err := h.service.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, ticket)
}

// =====================================================
// HELPERS
// =====================================================

func (h *SupportHandler) currentUserID(c *gin.Context) (uuid.UUID, bool) {
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

func (h *SupportHandler) handleError(c *gin.Context, err error) {
	var supportErr *model.SupportError
	if errors.As(err, &supportErr) {
		switch supportErr.Code {
		case model.ErrCodeTicketNotFound:
			response.ErrorResponse(c, http.StatusNotFound, supportErr.Code, supportErr.Message)
		case model.ErrCodeNotOwner:
			response.ErrorResponse(c, http.StatusForbidden, supportErr.Code, supportErr.Message)
		case model.ErrCodeInvalidStatus, model.ErrCodeTicketResolved:
			response.ErrorResponse(c, http.StatusUnprocessableEntity, supportErr.Code, supportErr.Message)
		default:
			response.ErrorResponse(c, http.StatusInternalServerError, supportErr.Code, supportErr.Message)
		}
		return
	}

	switch {
	case errors.Is(err, model.ErrTicketNotFound):
		response.ErrorResponse(c, http.StatusNotFound, model.ErrCodeTicketNotFound, "Support ticket not found")
	default:
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
	}
}
