package router_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"supplyplan/internal/domain"
	"supplyplan/internal/handler"
	"supplyplan/internal/router"
	"supplyplan/internal/service"
	"supplyplan/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type okPinger struct{}

func (okPinger) PingContext(context.Context) error { return nil }

func setup(tokens service.TokenService) (*gin.Engine, *mocks.MockDocumentService) {
	docSvc := new(mocks.MockDocumentService)
	exportSvc := new(mocks.MockExportService)
	r := router.Setup(zap.NewNop(), tokens, []string{"*"}, router.Handlers{
		Document: handler.NewDocumentHandler(docSvc, 1<<20),
		Export:   handler.NewExportHandler(exportSvc),
		Health:   handler.NewHealthHandler(okPinger{}),
	})
	return r, docSvc
}

func TestRouter_Healthz(t *testing.T) {
	r, _ := setup(nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_GetEscapedSource(t *testing.T) {
	r, docSvc := setup(nil)
	docSvc.On("Get", mock.Anything, "2025/dop 15.txt").
		Return(&domain.Document{SourceID: "2025/dop 15.txt"}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/documents/2025%2Fdop%2015.txt", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	docSvc.AssertExpectations(t)
}

func TestRouter_RequiresToken(t *testing.T) {
	r, _ := setup(new(mocks.MockTokenService))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/documents?year=2025", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_ResetRequiresAdmin(t *testing.T) {
	tokens := new(mocks.MockTokenService)
	tokens.On("Validate", "op").Return(&service.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "op"},
		Role:             domain.RoleOperator,
	}, nil)
	tokens.On("Validate", "adm").Return(&service.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "adm"},
		Role:             domain.RoleAdmin,
	}, nil)

	r, docSvc := setup(tokens)
	docSvc.On("Reset", mock.Anything).Return(nil).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, "/api/v1/documents", http.NoBody)
	req.Header.Set("Authorization", "Bearer op")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodDelete, "/api/v1/documents", http.NoBody)
	req.Header.Set("Authorization", "Bearer adm")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	docSvc.AssertExpectations(t)
}
