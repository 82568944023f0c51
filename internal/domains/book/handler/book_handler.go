package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"writerspocket-backend/internal/domains/book/model"
	"writerspocket-backend/internal/domains/book/service"
	"writerspocket-backend/internal/shared/response"
	"writerspocket-backend/internal/shared/utils"
)

// =====================================================
// BOOK HANDLER
// =====================================================
type BookHandler struct {
	service service.ServiceInterface
}

func NewBookHandler(service service.ServiceInterface) *BookHandler {
	return &BookHandler{service: service}
}

// Create handles POST /api/v1/books (admin)
func (h *BookHandler) Create(c *gin.Context) {
	var req model.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	book, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, book)
}

// Get handles GET /api/v1/books/:id
func (h *BookHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		// Fall back to slug lookup for public catalog URLs.
		book, slugErr := h.service.GetBySlug(c.Request.Context(), c.Param("id"))
		if slugErr != nil {
			h.handleError(c, slugErr)
			return
		}
		response.Success(c, http.StatusOK, book)
		return
	}

	book, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, book)
}

// List handles GET /api/v1/books
func (h *BookHandler) List(c *gin.Context) {
	page, limit, offset := utils.Pagination(c)

	filter := model.ListBooksFilter{
		Search: c.Query("search"),
		Limit:  limit,
		Offset: offset,
	}
	if raw := c.Query("category_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			filter.CategoryID = &id
		}
	}
	if raw := c.Query("author_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			filter.AuthorID = &id
		}
	}
	if raw := c.Query("stage"); raw != "" {
		stage := model.PublishingStage(raw)
		if stage.IsValid() {
			filter.Stage = &stage
		}
	}

	books, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, books, &response.Meta{
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

// Update handles PUT /api/v1/books/:id (admin)
func (h *BookHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid book id")
		return
	}

	var req model.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	book, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, book)
}

// Delete handles DELETE /api/v1/books/:id (admin)
func (h *BookHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid book id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// UpdateStage handles PATCH /api/v1/books/:id/stage (admin)
func (h *BookHandler) UpdateStage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid book id")
		return
	}

	var req model.UpdateStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	book, err := h.service.UpdateStage(c.Request.Context(), id, req.Stage)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, book)
}

// LinkAuthors handles POST /api/v1/books/:id/authors (admin)
func (h *BookHandler) LinkAuthors(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid book id")
		return
	}

	var req model.LinkAuthorsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	var addedBy *uuid.UUID
	if raw, exists := c.Get("user_id"); exists {
		if adminID, err := uuid.Parse(raw.(string)); err == nil {
			addedBy = &adminID
		}
	}

	links, err := h.service.LinkAuthors(c.Request.Context(), id, req, addedBy)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, links)
}

// GetAuthors handles GET /api/v1/books/:id/authors
func (h *BookHandler) GetAuthors(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid book id")
		return
	}

	links, err := h.service.GetBookAuthors(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, links)
}

// UnlinkAuthor handles DELETE /api/v1/books/:id/authors/:authorId (admin)
func (h *BookHandler) UnlinkAuthor(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid book id")
		return
	}
	authorID, err := uuid.Parse(c.Param("authorId"))
	if err != nil {
		response.BadRequest(c, "Invalid author id")
		return
	}

	if err := h.service.UnlinkAuthor(c.Request.Context(), bookID, authorID); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"unlinked": true})
}

// MyBooks handles GET /api/v1/authors/me/books
func (h *BookHandler) MyBooks(c *gin.Context) {
	raw, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, "Authentication required")
		return
	}
	authorID, err := uuid.Parse(raw.(string))
	if err != nil {
		response.Unauthorized(c, "Invalid token subject")
		return
	}

	page, limit, offset := utils.Pagination(c)

	books, total, err := h.service.GetAuthorBooks(c.Request.Context(), authorID, limit, offset)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, books, &response.Meta{
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

// UploadManuscript handles POST /api/v1/books/:id/manuscript (admin)
func (h *BookHandler) UploadManuscript(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid book id")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "Missing manuscript file")
		return
	}

	book, err := h.service.UploadManuscript(c.Request.Context(), id, file)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, book)
}

// =====================================================
// ERROR MAPPING
// =====================================================

func (h *BookHandler) handleError(c *gin.Context, err error) {
	var bookErr *model.BookError
	if errors.As(err, &bookErr) {
		switch bookErr.Code {
		case model.ErrCodeBookNotFound:
			response.ErrorResponse(c, http.StatusNotFound, bookErr.Code, bookErr.Message)
		case model.ErrCodeDuplicateISBN, model.ErrCodeAuthorLinkExists:
			response.ErrorResponse(c, http.StatusConflict, bookErr.Code, bookErr.Message)
		case model.ErrCodeInvalidStage:
			response.ErrorResponse(c, http.StatusUnprocessableEntity, bookErr.Code, bookErr.Message)
		default:
			response.ErrorResponse(c, http.StatusInternalServerError, bookErr.Code, bookErr.Message)
		}
		return
	}

	switch {
	case errors.Is(err, model.ErrBookNotFound):
		response.ErrorResponse(c, http.StatusNotFound, model.ErrCodeBookNotFound, "Book not found")
	case errors.Is(err, model.ErrDuplicateISBN):
		response.ErrorResponse(c, http.StatusConflict, model.ErrCodeDuplicateISBN, "ISBN already registered")
	case errors.Is(err, model.ErrAuthorLinkExists):
		response.ErrorResponse(c, http.StatusConflict, model.ErrCodeAuthorLinkExists, "Author already linked")
	default:
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
	}
}
