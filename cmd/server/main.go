// @title Supply Plan API
// @version 1.0
// @description Extracts monthly procurement plans from supplementary agreements.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"supplyplan/internal/config"
	"supplyplan/internal/handler"
	"supplyplan/internal/logging"
	"supplyplan/internal/port"
	"supplyplan/internal/repository/dbrepo"
	"supplyplan/internal/router"
	"supplyplan/internal/service"
	s3storage "supplyplan/internal/storage/s3"
	"supplyplan/internal/textsource"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.DB.Driver == config.DriverSQLite {
		if err := dbrepo.Migrate(&cfg.DB); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}
	db, err := dbrepo.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	docRepo := dbrepo.NewDocumentRepo(db)

	// Initialize storage
	var archive port.ExportArchive
	if cfg.S3.Bucket != "" {
		archive, err = s3storage.NewExportArchive(ctx, &cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize export archive: %w", err)
		}
	} else {
		logger.Info("server: export archive disabled, no bucket configured")
	}

	// Initialize services
	parser, err := service.NewParser(&cfg.Extract)
	if err != nil {
		return fmt.Errorf("failed to build parser: %w", err)
	}
	registry := textsource.NewRegistry(cfg.Extract.Extensions)
	docSvc := service.NewDocumentService(docRepo, registry, parser, logger)
	exportSvc := service.NewExportService(docRepo, archive, cfg.Export.LinkRoot, logger)

	var tokens service.TokenService
	if cfg.Auth.Enabled {
		tokens = service.NewTokenService(cfg.Auth)
	} else {
		logger.Warn("server: authentication disabled, every caller acts as admin")
	}

	// Setup router
	r := router.Setup(logger, tokens, cfg.CORS.AllowedOrigins, router.Handlers{
		Document: handler.NewDocumentHandler(docSvc, cfg.Server.MaxBodyMB<<20),
		Export:   handler.NewExportHandler(exportSvc),
		Health:   handler.NewHealthHandler(db),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server: starting", zap.String("addr", cfg.Server.Port), zap.String("db", cfg.DB.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("server: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
