package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"writerspocket-backend/internal/domains/page/model"
	"writerspocket-backend/internal/domains/page/service"
	"writerspocket-backend/internal/shared/response"
)

type PageHandler struct {
	service service.ServiceInterface
}

func NewPageHandler(service service.ServiceInterface) *PageHandler {
	return &PageHandler{service: service}
}

// GetBySlug handles GET /api/v1/pages/:slug (public, published only).
func (h *PageHandler) GetBySlug(c *gin.Context) {
	page, err := h.service.GetPublished(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, page)
}

// =====================================================
// ADMIN ENDPOINTS
// =====================================================

// List handles GET /api/v1/admin/pages, drafts included.
func (h *PageHandler) List(c *gin.Context) {
	pages, err := h.service.List(c.Request.Context(), false)
	if err != nil {
		response.InternalServerError(c, "Failed to list pages")
		return
	}

	response.Success(c, http.StatusOK, pages)
}

// Create handles POST /api/v1/admin/pages
func (h *PageHandler) Create(c *gin.Context) {
	var req model.CreatePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	page, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, page)
}

// Get handles GET /api/v1/admin/pages/:id
func (h *PageHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid page id")
		return
	}

	page, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, page)
}

// Update handles PUT /api/v1/admin/pages/:id
func (h *PageHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid page id")
		return
	}

	var req model.UpdatePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	page, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, page)
}

// Delete handles DELETE /api/v1/admin/pages/:id
func (h *PageHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid page id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *PageHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrPageNotFound):
		response.ErrorResponse(c, http.StatusNotFound, model.ErrCodePageNotFound, "Page not found")
	case errors.Is(err, model.ErrPageExists):
		response.ErrorResponse(c, http.StatusConflict, model.ErrCodePageExists, "Page slug already in use")
	default:
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
	}
}
