package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"writerspocket-backend/internal/domains/book/service"
	"writerspocket-backend/internal/shared/response"
)

// =====================================================
// BULK IMPORT HANDLER
// =====================================================
type BulkImportHandler struct {
	service service.BulkImportServiceInterface
}

func NewBulkImportHandler(service service.BulkImportServiceInterface) *BulkImportHandler {
	return &BulkImportHandler{service: service}
}

// ImportBooks handles POST /api/v1/admin/books/import (admin).
// Multipart upload, field name "file", CSV only.
func (h *BulkImportHandler) ImportBooks(c *gin.Context) {
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

	result, err := h.service.ImportBooks(c.Request.Context(), file, importedBy)
	if err != nil {
		response.InternalServerError(c, "Import failed")
		return
	}

	// Validation failures are a 422 with the per-row error report.
	if !result.Success {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "BOK005", "Import validation failed", result)
		return
	}

	response.Success(c, http.StatusOK, result)
}
