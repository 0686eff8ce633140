// Command supplyplan parses supplementary agreements from a directory,
// previews the stored plans and exports them.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"supplyplan/internal/config"
	"supplyplan/internal/console"
	"supplyplan/internal/logging"
	"supplyplan/internal/port"
	"supplyplan/internal/repository/dbrepo"
	"supplyplan/internal/service"
	s3storage "supplyplan/internal/storage/s3"
	"supplyplan/internal/textsource"
)

var rootCmd = &cobra.Command{
	Use:   "supplyplan",
	Short: "Extract procurement plans from supplementary agreements",
	Long: `supplyplan reads supplementary agreements (txt, html, pdf), extracts the
monthly procurement plan of every buyer and stores it for export.

Configuration is read from SUPPLYPLAN_* environment variables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		console.NewPrinter(os.Stderr).Errorf("Ошибка: %v", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(parseCmd, previewCmd, exportCmd, tokenCmd, resetCmd)
}

// app holds the wired dependencies shared by the commands.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	db       *sqlx.DB
	docRepo  port.DocumentRepository
	registry *textsource.Registry
	docs     service.DocumentService
	exports  service.ExportService
	out      *console.Printer
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	if cfg.DB.Driver == config.DriverSQLite {
		if err := dbrepo.Migrate(&cfg.DB); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}
	db, err := dbrepo.NewDB(&cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	parser, err := service.NewParser(&cfg.Extract)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to build parser: %w", err)
	}

	var archive port.ExportArchive
	if cfg.S3.Bucket != "" {
		archive, err = s3storage.NewExportArchive(cmd.Context(), &cfg.S3)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to initialize export archive: %w", err)
		}
	}

	docRepo := dbrepo.NewDocumentRepo(db)
	registry := textsource.NewRegistry(cfg.Extract.Extensions)
	return &app{
		cfg:      cfg,
		logger:   logger,
		db:       db,
		docRepo:  docRepo,
		registry: registry,
		docs:     service.NewDocumentService(docRepo, registry, parser, logger),
		exports:  service.NewExportService(docRepo, archive, cfg.Export.LinkRoot, logger),
		out:      console.NewPrinter(cmd.OutOrStdout()),
	}, nil
}

func (a *app) Close() {
	_ = a.db.Close()
	_ = a.logger.Sync()
}

// withApp runs fn with a wired app.
func withApp(fn func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(cmd, args, a)
	}
}

func currentYear() int {
	return time.Now().Year()
}
