package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prizehub/competitions-api/internal/service"
	appErrors "github.com/prizehub/competitions-api/pkg/errors"
	"github.com/prizehub/competitions-api/pkg/response"
)

// ExportHandler streams filtered competition listings as CSV or PDF files.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler creates a new handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Export godoc
// @Summary Export competitions
// @Description Export the filtered competition listing as CSV or PDF
// @Tags Competitions
// @Produce octet-stream
// @Param format query string true "Export format" Enums(csv, pdf)
// @Param status query string false "Status filter"
// @Param category query string false "Category filter"
// @Param difficulty query string false "Difficulty filter"
// @Param search query string false "Search over title and description"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/competitions/export [get]
func (h *ExportHandler) Export(c *gin.Context) {
	if !h.service.Enabled() {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "exports are disabled"))
		return
	}

	format := service.ExportFormat(c.DefaultQuery("format", "csv"))
	if format != service.FormatCSV && format != service.FormatPDF {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
		return
	}

	spec, err := specFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	file, err := h.service.Export(c.Request.Context(), spec, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Body)
}
