package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"supplyplan/internal/service"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the stored plans of a year",
	Long: `Export writes the yearly summary workbook (and optionally the CSV of plan
entries) to the output directory. With --archive the workbook is also
uploaded to the configured S3 bucket.`,
	Args: cobra.NoArgs,
	RunE: withApp(runExport),
}

var (
	exportYear    int
	exportOut     string
	exportCSV     bool
	exportArchive bool
)

func init() {
	exportCmd.Flags().IntVar(&exportYear, "year", currentYear(), "plan year to export")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output directory (default from SUPPLYPLAN_EXPORT_OUTPUT_DIR)")
	exportCmd.Flags().BoolVar(&exportCSV, "csv", false, "also write the plan entries as CSV")
	exportCmd.Flags().BoolVar(&exportArchive, "archive", false, "upload the workbook to the export archive")
}

func runExport(cmd *cobra.Command, _ []string, a *app) error {
	dir := exportOut
	if dir == "" {
		dir = a.cfg.Export.OutputDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	a.out.Title(fmt.Sprintf("Экспорт помесячных планов закупок за %d год", exportYear))

	file, err := a.exports.XLSX(cmd.Context(), exportYear)
	if err != nil {
		return err
	}
	if err := writeExport(dir, file); err != nil {
		return err
	}
	a.out.Infof("Файл: %s", filepath.Join(dir, file.Filename))

	if exportCSV {
		file, err := a.exports.CSV(cmd.Context(), exportYear)
		if err != nil {
			return err
		}
		if err := writeExport(dir, file); err != nil {
			return err
		}
		a.out.Infof("Файл: %s", filepath.Join(dir, file.Filename))
	}

	if exportArchive {
		archived, err := a.exports.Archive(cmd.Context(), exportYear)
		if err != nil {
			return err
		}
		a.out.Infof("Архив: %s", archived.Object.Key)
		a.out.Infof("Ссылка: %s", archived.URL)
	}
	return nil
}

func writeExport(dir string, file *service.ExportFile) error {
	path := filepath.Join(dir, file.Filename)
	if err := os.WriteFile(path, file.Data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
