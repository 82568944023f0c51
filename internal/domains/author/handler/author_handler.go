package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"writerspocket-backend/internal/domains/author/model"
	"writerspocket-backend/internal/domains/author/service"
	"writerspocket-backend/internal/shared/response"
	"writerspocket-backend/internal/shared/utils"
)

// =====================================================
// AUTHOR HANDLER
// =====================================================
type AuthorHandler struct {
	service service.ServiceInterface
}

func NewAuthorHandler(service service.ServiceInterface) *AuthorHandler {
	return &AuthorHandler{service: service}
}

// Register handles POST /api/v1/auth/register
func (h *AuthorHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	resp, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp)
}

// Login handles POST /api/v1/auth/login
func (h *AuthorHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// GetProfile handles GET /api/v1/authors/me
func (h *AuthorHandler) GetProfile(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, "Authentication required")
		return
	}

	id, err := uuid.Parse(userID.(string))
	if err != nil {
		response.Unauthorized(c, "Invalid token subject")
		return
	}

	author, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, author)
}

// GetByID handles GET /api/v1/authors/:id (admin)
func (h *AuthorHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid author id")
		return
	}

	author, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, author)
}

// List handles GET /api/v1/authors (admin)
func (h *AuthorHandler) List(c *gin.Context) {
	page, limit, offset := utils.Pagination(c)

	authors, total, err := h.service.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, authors, &response.Meta{
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

// EnsureUID handles POST /api/v1/authors/:id/uid (admin).
// Backfills a uid for accounts that predate uid issuance; idempotent.
func (h *AuthorHandler) EnsureUID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid author id")
		return
	}

	uid, err := h.service.EnsureAuthorUID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"author_uid": uid})
}

// =====================================================
// ERROR MAPPING
// =====================================================

func (h *AuthorHandler) handleError(c *gin.Context, err error) {
	var authorErr *model.AuthorError
	if errors.As(err, &authorErr) {
		switch authorErr.Code {
		case model.ErrCodeAuthorNotFound:
			response.ErrorResponse(c, http.StatusNotFound, authorErr.Code, authorErr.Message)
		case model.ErrCodeEmailTaken, model.ErrCodeSignupCompleted:
			response.ErrorResponse(c, http.StatusConflict, authorErr.Code, authorErr.Message)
		case model.ErrCodeInvalidCredentials:
			response.ErrorResponse(c, http.StatusUnauthorized, authorErr.Code, authorErr.Message)
		case model.ErrCodeAccountInactive:
			response.ErrorResponse(c, http.StatusForbidden, authorErr.Code, authorErr.Message)
		default:
			response.ErrorResponse(c, http.StatusInternalServerError, authorErr.Code, authorErr.Message)
		}
		return
	}

	switch {
	case errors.Is(err, model.ErrAuthorNotFound):
		response.ErrorResponse(c, http.StatusNotFound, model.ErrCodeAuthorNotFound, "Author not found")
	case errors.Is(err, model.ErrEmailTaken):
		response.ErrorResponse(c, http.StatusConflict, model.ErrCodeEmailTaken, "Email already registered")
	default:
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
	}
}
