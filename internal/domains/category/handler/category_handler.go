package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"writerspocket-backend/internal/domains/category/model"
	"writerspocket-backend/internal/domains/category/service"
	"writerspocket-backend/internal/shared/response"
)

type CategoryHandler struct {
	service service.ServiceInterface
}

func NewCategoryHandler(service service.ServiceInterface) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// List handles GET /api/v1/categories (public, active only).
func (h *CategoryHandler) List(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true" && c.GetString("role") == "admin"

	categories, err := h.service.List(c.Request.Context(), includeInactive)
	if err != nil {
		response.InternalServerError(c, "Failed to list categories")
		return
	}

	response.Success(c, http.StatusOK, categories)
}

// Get handles GET /api/v1/categories/:id, accepts a uuid or a slug.
func (h *CategoryHandler) Get(c *gin.Context) {
	param := c.Param("id")

	var category *model.Category
	var err error
	if id, parseErr := uuid.Parse(param); parseErr == nil {
		category, err = h.service.GetByID(c.Request.Context(), id)
	} else {
		category, err = h.service.GetBySlug(c.Request.Context(), param)
	}
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, category)
}

// Create handles POST /api/v1/admin/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var req model.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	category, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, category)
}

// Update handles PUT /api/v1/admin/categories/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid category id")
		return
	}

	var req model.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	category, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, category)
}

// Delete handles DELETE /api/v1/admin/categories/:id (soft delete).
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid category id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *CategoryHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrCategoryNotFound):
		response.ErrorResponse(c, http.StatusNotFound, model.ErrCodeCategoryNotFound, "Category not found")
	case errors.Is(err, model.ErrCategoryExists):
		response.ErrorResponse(c, http.StatusConflict, model.ErrCodeCategoryExists, "Category already exists")
	default:
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
	}
}
