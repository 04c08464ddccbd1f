package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/gcgcards/internal/filter"
	"github.com/vijay-prabhu/gcgcards/internal/output"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export cards with their scores to CSV or JSON",
	Long: `Search with the given criteria and write the matching cards with their
score columns.

Supported formats:
  - csv: Comma-separated values (spreadsheet-compatible)
  - json: JSON array of scored card objects

Examples:
  gcgcards export --format=csv > cards.csv
  gcgcards export --format=json --type=UNIT > units.json
  gcgcards export --min-score=3 --file=top.csv`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

var (
	exportFormat   string
	exportFile     string
	exportCriteria filter.Criteria
)

func init() {
	rootCmd.AddCommand(exportCmd)

	addCriteriaFlags(exportCmd, &exportCriteria)
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Export format (csv, json)")
	exportCmd.Flags().StringVar(&exportFile, "file", "", "Write to this file instead of stdout")
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportFormat != "csv" && exportFormat != "json" {
		return fmt.Errorf("unknown format: %s (use csv or json)", exportFormat)
	}

	a := newApp(cfg, logger)
	defer a.Close()

	cards, err := a.controller(NewTerminal()).Search(cmd.Context(), a.criteria(exportCriteria))
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if exportFile != "" {
		f, err := os.Create(exportFile)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", exportFile, err)
		}
		defer f.Close()
		w = f
	}

	switch exportFormat {
	case "csv":
		err = output.CSV(w, cards)
	default:
		err = output.JSONTo(w, cards)
	}
	if err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}
	return nil
}
