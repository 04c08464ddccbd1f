package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/gcgcards/internal/filter"
	"github.com/vijay-prabhu/gcgcards/internal/output"
)

var adjustCmd = &cobra.Command{
	Use:   "adjust <card-no> [value]",
	Short: "Save a weighted score adjustment for a card",
	Long: `Store a manual weighted adjustment for a card in the backend, then run the
search again (with the given criteria) so the new value shows up.

The value is sent as entered; omit it to clear the adjustment.

Examples:
  gcgcards adjust GD01-001 1.5
  gcgcards adjust GD01-001 -- -0.5         # Negative values after --
  gcgcards adjust GD01-001                 # Clear
  gcgcards adjust GD01-001 2 --type=UNIT --show`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runAdjust,
}

var (
	adjustCriteria filter.Criteria
	adjustShow     bool
)

func init() {
	rootCmd.AddCommand(adjustCmd)

	addCriteriaFlags(adjustCmd, &adjustCriteria)
	adjustCmd.Flags().BoolVar(&adjustShow, "show", false, "Print the refreshed search results")
}

func runAdjust(cmd *cobra.Command, args []string) error {
	a := newApp(cfg, logger)
	defer a.Close()

	cardNo := args[0]
	value := ""
	if len(args) > 1 {
		value = strings.TrimSpace(args[1])
	}

	presenter := NewTerminal()
	if err := a.controller(presenter).SaveAdjustment(cmd.Context(), cardNo, value, a.criteria(adjustCriteria)); err != nil {
		return err
	}

	if !adjustShow {
		return nil
	}
	return output.OutputTo(cmd.OutOrStdout(), outputFmt, presenter.Cards())
}
