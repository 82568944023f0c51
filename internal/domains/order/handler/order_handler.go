package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	bookmodel "writerspocket-backend/internal/domains/book/model"
	"writerspocket-backend/internal/domains/order/model"
	"writerspocket-backend/internal/domains/order/service"
	"writerspocket-backend/internal/shared/response"
	"writerspocket-backend/internal/shared/utils"
)

// =====================================================
// ORDER HANDLER
// =====================================================
type OrderHandler struct {
	service service.ServiceInterface
}

func NewOrderHandler(service service.ServiceInterface) *OrderHandler {
	return &OrderHandler{service: service}
}

// Create handles POST /api/v1/orders
func (h *OrderHandler) Create(c *gin.Context) {
	authorID, ok := h.currentAuthorID(c)
	if !ok {
		return
	}

	var req model.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	order, err := h.service.Create(c.Request.Context(), authorID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, order)
}

// MyOrders handles GET /api/v1/orders/me
func (h *OrderHandler) MyOrders(c *gin.Context) {
	authorID, ok := h.currentAuthorID(c)
	if !ok {
		return
	}

	page, limit, offset := utils.Pagination(c)
	filter := model.ListOrdersFilter{
		AuthorID: &authorID,
		Limit:    limit,
		Offset:   offset,
	}
	if raw := c.Query("status"); raw != "" {
		status := model.OrderStatus(raw)
		filter.Status = &status
	}

	orders, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, orders, &response.Meta{
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

// Get handles GET /api/v1/orders/:id (owners only).
func (h *OrderHandler) Get(c *gin.Context) {
	authorID, ok := h.currentAuthorID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order id")
		return
	}

	order, err := h.service.GetForAuthor(c.Request.Context(), id, authorID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, order)
}

// =====================================================
// ADMIN ENDPOINTS
// =====================================================

// List handles GET /api/v1/admin/orders
func (h *OrderHandler) List(c *gin.Context) {
	page, limit, offset := utils.Pagination(c)
	filter := model.ListOrdersFilter{
		Limit:  limit,
		Offset: offset,
	}
	if raw := c.Query("author_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			filter.AuthorID = &id
		}
	}
	if raw := c.Query("status"); raw != "" {
		status := model.OrderStatus(raw)
		filter.Status = &status
	}

	orders, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, orders, &response.Meta{
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

// GetAny handles GET /api/v1/admin/orders/:id
func (h *OrderHandler) GetAny(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order id")
		return
	}

	order, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, order)
}

// UpdateStatus handles PATCH /api/v1/admin/orders/:id/status, the manual
// escape hatch when a webhook never arrived.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order id")
		return
	}

	var req model.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	order, err := h.service.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, order)
}

// =====================================================
// HELPERS
// =====================================================

func (h *OrderHandler) currentAuthorID(c *gin.Context) (uuid.UUID, bool) {
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

func (h *OrderHandler) handleError(c *gin.Context, err error) {
	var orderErr *model.OrderError
	if errors.As(err, &orderErr) {
		switch orderErr.Code {
		case model.ErrCodeOrderNotFound:
			response.ErrorResponse(c, http.StatusNotFound, orderErr.Code, orderErr.Message)
		case model.ErrCodeNotOwner:
			response.ErrorResponse(c, http.StatusForbidden, orderErr.Code, orderErr.Message)
		case model.ErrCodeEmptyOrder, model.ErrCodeInvalidStatus:
			response.ErrorResponse(c, http.StatusUnprocessableEntity, orderErr.Code, orderErr.Message)
		default:
			response.ErrorResponse(c, http.StatusInternalServerError, orderErr.Code, orderErr.Message)
		}
		return
	}

	switch {
	case errors.Is(err, model.ErrOrderNotFound):
		response.ErrorResponse(c, http.StatusNotFound, model.ErrCodeOrderNotFound, "Order not found")
	case errors.Is(err, bookmodel.ErrBookNotFound):
		response.ErrorResponse(c, http.StatusNotFound, bookmodel.ErrCodeBookNotFound, "Book not found")
	default:
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
	}
}
