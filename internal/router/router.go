package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"supplyplan/docs"
	"supplyplan/internal/domain"
	"supplyplan/internal/handler"
	"supplyplan/internal/middleware"
	"supplyplan/internal/service"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Document *handler.DocumentHandler
	Export   *handler.ExportHandler
	Health   *handler.HealthHandler
}

// Setup configures the Gin engine with all routes and middleware. A nil
// tokens disables authentication.
func Setup(
	logger *zap.Logger,
	tokens service.TokenService,
	allowedOrigins []string,
	h Handlers,
) *gin.Engine {
	r := gin.New()
	// Source IDs are paths; clients escape the slashes.
	r.UseRawPath = true
	r.UnescapePathValues = true

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)

	// API documentation
	docs.SwaggerInfo.BasePath = "/api/v1"
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(tokens))

	documents := v1.Group("/documents")
	documents.POST("/parse", h.Document.Parse)
	documents.POST("/preview", h.Document.Preview)
	documents.GET("", h.Document.List)
	documents.GET("/:source", h.Document.Get)
	documents.DELETE("", middleware.RequireRole(domain.RoleAdmin), h.Document.Reset)

	exports := v1.Group("/exports")
	exports.GET("/xlsx", h.Export.XLSX)
	exports.GET("/csv", h.Export.CSV)
	exports.POST("/archive", h.Export.Archive)
	exports.GET("/archive", h.Export.ListArchive)

	return r
}
