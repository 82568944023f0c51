package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	bookmodel "writerspocket-backend/internal/domains/book/model"
	"writerspocket-backend/internal/domains/royalty/model"
	"writerspocket-backend/internal/domains/royalty/service"
	"writerspocket-backend/internal/shared/response"
	"writerspocket-backend/internal/shared/utils"
)

// =====================================================
// ROYALTY HANDLER
// =====================================================
type RoyaltyHandler struct {
	service       service.ServiceInterface
	importService service.SalesImportServiceInterface
}

func NewRoyaltyHandler(
	service service.ServiceInterface,
	importService service.SalesImportServiceInterface,
) *RoyaltyHandler {
	return &RoyaltyHandler{
		service:       service,
		importService: importService,
	}
}

// =====================================================
// AUTHOR-FACING ENDPOINTS
// =====================================================

// MyRoyalties handles GET /api/v1/royalties/me
func (h *RoyaltyHandler) MyRoyalties(c *gin.Context) {
	authorID, ok := h.currentAuthorID(c)
	if !ok {
		return
	}

	page, limit, offset := utils.Pagination(c)
	filter := model.ListFilter{
		AuthorID: &authorID,
		Period:   c.Query("period"),
		Unpaid:   c.Query("unpaid") == "true",
		Limit:    limit,
		Offset:   offset,
	}

	royalties, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, royalties, &response.Meta{
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

// MySummary handles GET /api/v1/royalties/me/summary
func (h *RoyaltyHandler) MySummary(c *gin.Context) {
	authorID, ok := h.currentAuthorID(c)
	if !ok {
		return
	}

	period := c.Query("period")
	if period == "" {
		period = model.CurrentPeriod(time.Now())
	}

	summary, err := h.service.GetPeriodSummary(c.Request.Context(), authorID, period)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, summary)
}

// MyStatement handles GET /api/v1/royalties/me/statement, served as an xlsx download.
func (h *RoyaltyHandler) MyStatement(c *gin.Context) {
	authorID, ok := h.currentAuthorID(c)
	if !ok {
		return
	}

	period := c.Query("period")
	if period == "" {
		period = model.PreviousPeriod(time.Now())
	}

	data, filename, err := h.service.ExportStatement(c.Request.Context(), authorID, period)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// =====================================================
// ADMIN ENDPOINTS
// =====================================================

// List handles GET /api/v1/admin/royalties
func (h *RoyaltyHandler) List(c *gin.Context) {
	page, limit, offset := utils.Pagination(c)
	filter := model.ListFilter{
		Period: c.Query("period"),
		Unpaid: c.Query("unpaid") == "true",
		Limit:  limit,
		Offset: offset,
	}
	if raw := c.Query("author_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			filter.AuthorID = &id
		}
	}
	if raw := c.Query("book_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			filter.BookID = &id
		}
	}

	royalties, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, royalties, &response.Meta{
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

// PostSale handles POST /api/v1/admin/royalties/sales (admin), manual
// posting of one sale through the splitter.
func (h *RoyaltyHandler) PostSale(c *gin.Context) {
	var req model.PostSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	opts := &model.CreateRoyaltiesOptions{
		SaleRef: req.SaleRef,
		Period:  req.Period,
	}

	lines, err := h.service.CreateRoyaltiesForSale(
		c.Request.Context(), req.BookID, decimal.NewFromFloat(req.SaleAmount), req.Platform, opts)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, lines)
}

// MarkPaid handles POST /api/v1/admin/royalties/mark-paid (admin)
func (h *RoyaltyHandler) MarkPaid(c *gin.Context) {
	var req model.MarkPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	updated, err := h.service.MarkPaid(c.Request.Context(), req.IDs)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"updated": updated})
}

// ImportSales handles POST /api/v1/admin/royalties/sales-import (admin)
func (h *RoyaltyHandler) ImportSales(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "Missing CSV file")
		return
	}
	if !strings.HasSuffix(strings.ToLower(file.Filename), ".csv") {
		response.BadRequest(c, "Only CSV files are supported")
		return
	}

	importedBy := ""
	if raw, exists := c.Get("user_id"); exists {
		importedBy = raw.(string)
	}

	result, err := h.importService.ImportSales(c.Request.Context(), file, importedBy)
	if err != nil {
		response.InternalServerError(c, "Sales import failed")
		return
	}

	status := http.StatusOK
	if !result.Success && result.PostedRows == 0 {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{"success": result.Success, "data": result})
}

// AuthorSummary handles GET /api/v1/admin/royalties/summary (admin)
func (h *RoyaltyHandler) AuthorSummary(c *gin.Context) {
	authorID, err := uuid.Parse(c.Query("author_id"))
	if err != nil {
		response.BadRequest(c, "Invalid author id")
		return
	}
	period := c.Query("period")
	if period == "" {
		period = model.CurrentPeriod(time.Now())
	}

	summary, err := h.service.GetPeriodSummary(c.Request.Context(), authorID, period)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, summary)
}

// =====================================================
// HELPERS
// =====================================================

func (h *RoyaltyHandler) currentAuthorID(c *gin.Context) (uuid.UUID, bool) {
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

func (h *RoyaltyHandler) handleError(c *gin.Context, err error) {
	var royaltyErr *model.RoyaltyError
	if errors.As(err, &royaltyErr) {
		switch royaltyErr.Code {
		case model.ErrCodeRoyaltyNotFound:
			response.ErrorResponse(c, http.StatusNotFound, royaltyErr.Code, royaltyErr.Message)
		case model.ErrCodeNoAuthors, model.ErrCodeInvalidAmount, model.ErrCodeInvalidPeriod:
			response.ErrorResponse(c, http.StatusUnprocessableEntity, royaltyErr.Code, royaltyErr.Message)
		default:
			response.ErrorResponse(c, http.StatusInternalServerError, royaltyErr.Code, royaltyErr.Message)
		}
		return
	}

	switch {
	case errors.Is(err, model.ErrRoyaltyNotFound):
		response.ErrorResponse(c, http.StatusNotFound, model.ErrCodeRoyaltyNotFound, "Royalty entry not found")
	case errors.Is(err, bookmodel.ErrBookNotFound):
		response.ErrorResponse(c, http.StatusNotFound, bookmodel.ErrCodeBookNotFound, "Book not found")
	default:
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
	}
}
