package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"supplyplan/internal/service"
)

// ExportHandler handles report export endpoints.
type ExportHandler struct {
	exportService service.ExportService
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(exportService service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// XLSX handles GET /api/v1/exports/xlsx
// @Summary Download the yearly summary workbook
// @Tags exports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param year query int true "Plan year"
// @Success 200 {file} file "XLSX workbook"
// @Failure 400 {object} ErrorResponseBody "Invalid year"
// @Failure 404 {object} ErrorResponseBody "No documents for the year"
// @Security BearerAuth
// @Router /exports/xlsx [get]
func (h *ExportHandler) XLSX(c *gin.Context) {
	year, ok := parseYear(c)
	if !ok {
		return
	}
	file, err := h.exportService.XLSX(c.Request.Context(), year)
	if err != nil {
		HandleError(c, err)
		return
	}
	sendFile(c, file)
}

// CSV handles GET /api/v1/exports/csv
// @Summary Download plan entries as CSV
// @Tags exports
// @Produce text/csv
// @Param year query int true "Plan year"
// @Success 200 {file} file "CSV file"
// @Failure 400 {object} ErrorResponseBody "Invalid year"
// @Failure 404 {object} ErrorResponseBody "No documents for the year"
// @Security BearerAuth
// @Router /exports/csv [get]
func (h *ExportHandler) CSV(c *gin.Context) {
	year, ok := parseYear(c)
	if !ok {
		return
	}
	file, err := h.exportService.CSV(c.Request.Context(), year)
	if err != nil {
		HandleError(c, err)
		return
	}
	sendFile(c, file)
}

// Archive handles POST /api/v1/exports/archive
// @Summary Store the yearly workbook in the export archive
// @Tags exports
// @Produce json
// @Param year query int true "Plan year"
// @Success 201 {object} Response{data=service.ArchivedExport} "Archived export with download URL"
// @Failure 400 {object} ErrorResponseBody "Invalid year"
// @Failure 503 {object} ErrorResponseBody "Archive not configured"
// @Security BearerAuth
// @Router /exports/archive [post]
func (h *ExportHandler) Archive(c *gin.Context) {
	year, ok := parseYear(c)
	if !ok {
		return
	}
	out, err := h.exportService.Archive(c.Request.Context(), year)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, out)
}

// ListArchive handles GET /api/v1/exports/archive
// @Summary List archived exports
// @Tags exports
// @Produce json
// @Success 200 {object} Response{data=[]port.ArchivedObject} "Archived exports, newest first"
// @Failure 503 {object} ErrorResponseBody "Archive not configured"
// @Security BearerAuth
// @Router /exports/archive [get]
func (h *ExportHandler) ListArchive(c *gin.Context) {
	objects, err := h.exportService.ListArchive(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, objects)
}

func sendFile(c *gin.Context, file *service.ExportFile) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
