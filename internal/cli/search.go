package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/gcgcards/internal/card"
	"github.com/vijay-prabhu/gcgcards/internal/filter"
	"github.com/vijay-prabhu/gcgcards/internal/lookup"
	"github.com/vijay-prabhu/gcgcards/internal/output"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search cards",
	Long: `Search the card list. Every criterion is optional; the backend result is
filtered again locally and, with --min-score, sorted by adjusted score.

Examples:
  gcgcards search                          # All cards
  gcgcards search --type=UNIT --cost=3     # Cost 3 units
  gcgcards search --min-score=2 -o json    # Units scoring 2 or more, as JSON
  gcgcards search --set=GD01 --html=gd01.html`,
	Args: cobra.NoArgs,
	RunE: runSearch,
}

var (
	searchCriteria filter.Criteria
	searchHTML     string
	searchURL      bool
)

func init() {
	rootCmd.AddCommand(searchCmd)

	addCriteriaFlags(searchCmd, &searchCriteria)
	searchCmd.Flags().StringVar(&searchHTML, "html", "", "Also write the results as an HTML document to this file")
	searchCmd.Flags().BoolVar(&searchURL, "url", false, "Print the backend query URL and exit")
}

func runSearch(cmd *cobra.Command, args []string) error {
	a := newApp(cfg, logger)
	defer a.Close()

	criteria := a.criteria(searchCriteria)

	if searchURL {
		u, err := a.backend.QueryURL(criteria, true)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), u)
		return nil
	}

	presenter := NewTerminal()
	cards, err := a.controller(presenter).Search(cmd.Context(), criteria)
	if err != nil {
		return err
	}

	if searchHTML != "" {
		if err := writeHTML(searchHTML, a, cards, criteria.String()); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", searchHTML)
	}

	return output.OutputTo(cmd.OutOrStdout(), outputFmt, cards)
}

// writeHTML renders cards into a standalone HTML document at path
func writeHTML(path string, a *app, cards []card.Card, criteria string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	status := &lookup.Status{Kind: lookup.StatusOK, Message: fmt.Sprintf("共 %d 張符合條件。", len(cards))}
	if err := output.HTMLCards(f, cards, a.display(), criteria, status); err != nil {
		f.Close()
		return fmt.Errorf("failed to render HTML: %w", err)
	}
	return f.Close()
}
