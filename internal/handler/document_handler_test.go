package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"supplyplan/internal/domain"
	"supplyplan/internal/handler"
	"supplyplan/internal/service"
	"supplyplan/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newDocumentHandler(maxBody int64) (*handler.DocumentHandler, *mocks.MockDocumentService) {
	mockSvc := new(mocks.MockDocumentService)
	return handler.NewDocumentHandler(mockSvc, maxBody), mockSvc
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(method, target, bytes.NewReader(raw))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode(t *testing.T, w *httptest.ResponseRecorder) handler.APIResponse {
	t.Helper()
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// --- Parse ---

func TestDocumentHandler_Parse_Success(t *testing.T) {
	h, mockSvc := newDocumentHandler(0)

	mockSvc.On("ParseText", mock.Anything,
		service.ParseTextInput{SourceID: "2025/dop15.txt", Text: "СОГЛАШЕНИЕ № 15"},
		service.ParseOptions{Year: 2025, Update: true},
	).Return(&service.ParseResult{
		SourceID: "2025/dop15.txt",
		Outcome:  domain.OutcomeAdded,
		Status:   "Успешно",
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/v1/documents/parse", handler.ParseDocumentRequest{
		SourceID: "2025/dop15.txt",
		Text:     "СОГЛАШЕНИЕ № 15",
		Year:     2025,
		Update:   true,
	})

	h.Parse(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.True(t, resp.Success)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "added", data["outcome"])
	mockSvc.AssertExpectations(t)
}

func TestDocumentHandler_Parse_MissingFields(t *testing.T) {
	h, mockSvc := newDocumentHandler(0)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/v1/documents/parse", map[string]string{"text": "x"})

	h.Parse(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "INVALID_REQUEST", resp.Error.Code)
	mockSvc.AssertNotCalled(t, "ParseText", mock.Anything, mock.Anything, mock.Anything)
}

func TestDocumentHandler_Parse_BodyTooLarge(t *testing.T) {
	h, mockSvc := newDocumentHandler(64)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/v1/documents/parse", handler.ParseDocumentRequest{
		SourceID: "big.txt",
		Text:     strings.Repeat("план ", 100),
		Year:     2025,
	})

	h.Parse(c)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "FILE_TOO_LARGE", decode(t, w).Error.Code)
	mockSvc.AssertNotCalled(t, "ParseText", mock.Anything, mock.Anything, mock.Anything)
}

func TestDocumentHandler_Parse_InvalidYear(t *testing.T) {
	h, mockSvc := newDocumentHandler(0)

	mockSvc.On("ParseText", mock.Anything, mock.Anything, service.ParseOptions{Year: 1900}).
		Return(nil, domain.ErrInvalidYear)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/v1/documents/parse", handler.ParseDocumentRequest{
		SourceID: "a.txt",
		Text:     "текст",
		Year:     1900,
	})

	h.Parse(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_YEAR", decode(t, w).Error.Code)
}

// --- Preview ---

func TestDocumentHandler_Preview(t *testing.T) {
	h, mockSvc := newDocumentHandler(0)

	mockSvc.On("Preview", service.ParseTextInput{SourceID: "a.txt", Text: "текст"}).
		Return(&domain.ParsedDocument{
			SourceID:         "a.txt",
			AgreementNumber:  domain.UnknownAgreement(),
			Year:             2025,
			Buyers:           []string{domain.SentinelUnknown},
			ValidationErrors: []string{"Не найдены покупатели"},
		})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/v1/documents/preview", handler.ParseDocumentRequest{
		SourceID: "a.txt",
		Text:     "текст",
		Year:     2025,
	})

	h.Preview(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w).Data.(map[string]interface{})
	assert.Equal(t, []interface{}{"unknown"}, data["buyers"])
	assert.Equal(t, []interface{}{"Не найдены покупатели"}, data["validation_errors"])
	mockSvc.AssertExpectations(t)
}

// --- List ---

func TestDocumentHandler_List(t *testing.T) {
	h, mockSvc := newDocumentHandler(0)

	docs := []domain.Document{{SourceID: "a.txt", Year: 2025}, {SourceID: "b.txt", Year: 2025}}
	mockSvc.On("List", mock.Anything, 2025, 10, 5).Return(docs, 12, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/documents?year=2025&offset=10&limit=5", http.NoBody)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, handler.PagMeta{Total: 12, Offset: 10, Limit: 5}, *resp.Meta)
	assert.Len(t, resp.Data, 2)
	mockSvc.AssertExpectations(t)
}

func TestDocumentHandler_List_DefaultPagination(t *testing.T) {
	h, mockSvc := newDocumentHandler(0)

	mockSvc.On("List", mock.Anything, 2025, 0, 20).Return([]domain.Document{}, 0, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/documents?year=2025&offset=-3&limit=1000", http.NoBody)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestDocumentHandler_List_MissingYear(t *testing.T) {
	h, _ := newDocumentHandler(0)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/documents", http.NoBody)

	h.List(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_YEAR", decode(t, w).Error.Code)
}

// --- Get ---

func TestDocumentHandler_Get(t *testing.T) {
	h, mockSvc := newDocumentHandler(0)

	mockSvc.On("Get", mock.Anything, "2025/dop15.txt").
		Return(&domain.Document{SourceID: "2025/dop15.txt", Year: 2025}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/documents/2025%2Fdop15.txt", http.NoBody)
	c.Params = gin.Params{{Key: "source", Value: "2025/dop15.txt"}}

	h.Get(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestDocumentHandler_Get_NotFound(t *testing.T) {
	h, mockSvc := newDocumentHandler(0)

	mockSvc.On("Get", mock.Anything, "missing.txt").Return(nil, domain.ErrDocumentNotFound)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/documents/missing.txt", http.NoBody)
	c.Params = gin.Params{{Key: "source", Value: "missing.txt"}}

	h.Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "DOCUMENT_NOT_FOUND", decode(t, w).Error.Code)
}

// --- Reset ---

func TestDocumentHandler_Reset(t *testing.T) {
	h, mockSvc := newDocumentHandler(0)

	mockSvc.On("Reset", mock.Anything).Return(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodDelete, "/api/v1/documents", http.NoBody)

	h.Reset(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestDocumentHandler_Reset_InternalError(t *testing.T) {
	h, mockSvc := newDocumentHandler(0)

	mockSvc.On("Reset", mock.Anything).Return(errors.New("disk full"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodDelete, "/api/v1/documents", http.NoBody)

	h.Reset(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
	assert.NotContains(t, w.Body.String(), "disk full")
}
