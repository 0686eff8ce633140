package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"supplyplan/internal/service"
)

var parseCmd = &cobra.Command{
	Use:   "parse <dir>",
	Short: "Parse every supported file under a directory",
	Long: `Parse walks the directory recursively, extracts the procurement plan of every
supported file and stores it. Documents already stored are left unchanged
unless --update is given; documents of another year are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(runParse),
}

var (
	parseYear    int
	parseUpdate  bool
	parseWorkers int
)

func init() {
	parseCmd.Flags().IntVar(&parseYear, "year", currentYear(), "plan year to collect")
	parseCmd.Flags().BoolVar(&parseUpdate, "update", false, "re-parse and overwrite stored documents")
	parseCmd.Flags().IntVar(&parseWorkers, "workers", 0, "parallel workers (default from SUPPLYPLAN_BATCH_CONCURRENCY)")
}

func runParse(cmd *cobra.Command, args []string, a *app) error {
	cfg := service.BatchConfig{
		Concurrency: a.cfg.Batch.Concurrency,
		DocTimeout:  a.cfg.Batch.DocTimeout,
	}
	if parseWorkers > 0 {
		cfg.Concurrency = parseWorkers
	}
	batch := service.NewBatchParser(a.docs, a.registry.Supports, cfg, a.logger)

	a.out.Title(fmt.Sprintf("Парсинг файлов за %d год: %s", parseYear, args[0]))
	report, err := batch.Run(cmd.Context(), args[0], service.ParseOptions{Year: parseYear, Update: parseUpdate}, a.out.BatchItem)
	if report != nil {
		a.out.BatchSummary(report)
	}
	return err
}
