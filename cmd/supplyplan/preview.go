package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"supplyplan/internal/domain"
	"supplyplan/internal/service"
)

var previewCmd = &cobra.Command{
	Use:   "preview [file]",
	Short: "Show stored plans of a year, or the extraction of a single file",
	Long: `Without arguments preview prints every stored document of the year with its
monthly plan. Given a file, it extracts the plan without storing it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: withApp(runPreview),
}

var previewYear int

func init() {
	previewCmd.Flags().IntVar(&previewYear, "year", currentYear(), "plan year to show")
}

func runPreview(cmd *cobra.Command, args []string, a *app) error {
	if len(args) == 1 {
		return previewFile(cmd, args[0], a)
	}

	docs, err := a.docRepo.ListWithPlans(cmd.Context(), previewYear)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		a.out.Infof("Нет сохраненных документов за %d год", previewYear)
		return nil
	}
	return a.out.Documents(previewYear, docs)
}

func previewFile(cmd *cobra.Command, path string, a *app) error {
	if !a.registry.Supports(path) {
		return fmt.Errorf("%s: %w", path, domain.ErrUnsupportedFileType)
	}
	text, err := a.registry.Extract(cmd.Context(), path)
	if err != nil {
		return err
	}
	doc := a.docs.Preview(service.ParseTextInput{SourceID: path, Text: text.Text, Tables: text.Tables})
	a.out.Document(0, 0, doc)
	return nil
}
