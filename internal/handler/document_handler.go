package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"supplyplan/internal/service"
)

// DocumentHandler handles agreement parsing endpoints.
type DocumentHandler struct {
	documentService service.DocumentService
	maxBodyBytes    int64
}

// NewDocumentHandler creates a new DocumentHandler. maxBodyBytes limits
// request bodies; zero disables the limit.
func NewDocumentHandler(documentService service.DocumentService, maxBodyBytes int64) *DocumentHandler {
	return &DocumentHandler{documentService: documentService, maxBodyBytes: maxBodyBytes}
}

// Parse handles POST /api/v1/documents/parse
// @Summary Parse an agreement
// @Description Extract the procurement plan from agreement text and store it
// @Tags documents
// @Accept json
// @Produce json
// @Param request body ParseDocumentRequest true "Agreement text and optional tables"
// @Success 200 {object} Response{data=service.ParseResult} "Parse result"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 413 {object} ErrorResponseBody "Body too large"
// @Security BearerAuth
// @Router /documents/parse [post]
func (h *DocumentHandler) Parse(c *gin.Context) {
	req, ok := h.bindParseRequest(c)
	if !ok {
		return
	}

	result, err := h.documentService.ParseText(c.Request.Context(), service.ParseTextInput{
		SourceID: req.SourceID,
		Text:     req.Text,
		Tables:   req.Tables,
	}, service.ParseOptions{Year: req.Year, Update: req.Update})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

// Preview handles POST /api/v1/documents/preview
// @Summary Preview an agreement
// @Description Extract the procurement plan without storing it
// @Tags documents
// @Accept json
// @Produce json
// @Param request body ParseDocumentRequest true "Agreement text and optional tables"
// @Success 200 {object} Response{data=domain.ParsedDocument} "Extraction result"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /documents/preview [post]
func (h *DocumentHandler) Preview(c *gin.Context) {
	req, ok := h.bindParseRequest(c)
	if !ok {
		return
	}

	doc := h.documentService.Preview(service.ParseTextInput{
		SourceID: req.SourceID,
		Text:     req.Text,
		Tables:   req.Tables,
	})
	RespondOK(c, doc)
}

// List handles GET /api/v1/documents
// @Summary List documents
// @Description List stored documents of a plan year ordered by source ID
// @Tags documents
// @Produce json
// @Param year query int true "Plan year"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.Document,meta=PagMeta} "List of documents"
// @Failure 400 {object} ErrorResponseBody "Invalid year"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /documents [get]
func (h *DocumentHandler) List(c *gin.Context) {
	year, ok := parseYear(c)
	if !ok {
		return
	}
	offset, limit := parsePagination(c)

	docs, total, err := h.documentService.List(c.Request.Context(), year, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, docs, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Get handles GET /api/v1/documents/:source
// @Summary Get a document
// @Description Get a stored document with its plan entries. Slashes in the source ID must be escaped.
// @Tags documents
// @Produce json
// @Param source path string true "Source ID"
// @Success 200 {object} Response{data=domain.Document} "Document"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Security BearerAuth
// @Router /documents/{source} [get]
func (h *DocumentHandler) Get(c *gin.Context) {
	doc, err := h.documentService.Get(c.Request.Context(), c.Param("source"))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, doc)
}

// Reset handles DELETE /api/v1/documents
// @Summary Delete all documents
// @Tags documents
// @Produce json
// @Success 200 {object} Response{data=MessageResponse} "Storage cleared"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /documents [delete]
func (h *DocumentHandler) Reset(c *gin.Context) {
	if err := h.documentService.Reset(c.Request.Context()); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, MessageResponse{Message: "all documents deleted"})
}

func (h *DocumentHandler) bindParseRequest(c *gin.Context) (*ParseDocumentRequest, bool) {
	if h.maxBodyBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes)
	}
	var req ParseDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		status, code, msg := MapDomainError(err)
		if status == http.StatusInternalServerError {
			status, code, msg = http.StatusBadRequest, "INVALID_REQUEST", "source_id, text and year are required"
		}
		RespondError(c, status, code, msg)
		return nil, false
	}
	return &req, true
}

// parseYear reads the required year query parameter.
func parseYear(c *gin.Context) (int, bool) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_YEAR", "year query parameter is required")
		return 0, false
	}
	return year, true
}

// parsePagination extracts offset and limit from query params with defaults.
func parsePagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}
