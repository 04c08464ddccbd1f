package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/gcgcards/internal/database"
	"github.com/vijay-prabhu/gcgcards/internal/output"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "List recorded weighted-adjustment saves",
	Long: `List the local journal of weighted-adjustment save attempts, newest first.

Examples:
  gcgcards journal                         # Latest entries
  gcgcards journal --card=GD01-001         # One card's history
  gcgcards journal --outcome=rejected      # Rejected saves only
  gcgcards journal --since=7d -o json      # Last week, as JSON
  gcgcards journal --stats                 # Summary counts
  gcgcards journal --id=<entry-id>         # One entry`,
	Args: cobra.NoArgs,
	RunE: runJournal,
}

var (
	journalCard    string
	journalOutcome string
	journalSince   string
	journalLimit   int
	journalStats   bool
	journalID      string
)

func init() {
	rootCmd.AddCommand(journalCmd)

	journalCmd.Flags().StringVar(&journalCard, "card", "", "Only entries for this card number")
	journalCmd.Flags().StringVar(&journalOutcome, "outcome", "", "Filter by outcome (saved, rejected, failed)")
	journalCmd.Flags().StringVar(&journalSince, "since", "", "Filter by time (e.g., 12h, 7d, 2w)")
	journalCmd.Flags().IntVar(&journalLimit, "limit", 50, "Maximum number of entries")
	journalCmd.Flags().BoolVar(&journalStats, "stats", false, "Show summary counts instead of entries")
	journalCmd.Flags().StringVar(&journalID, "id", "", "Show the entry with this ID")
}

func runJournal(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if !cfg.Database.Journal {
		return fmt.Errorf("the adjustment journal is disabled (database.journal = false)")
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if journalStats {
		stats, err := db.GetJournalStats(ctx)
		if err != nil {
			return fmt.Errorf("failed to get journal stats: %w", err)
		}
		return output.OutputTo(cmd.OutOrStdout(), outputFmt, stats)
	}

	if id := strings.TrimSpace(journalID); id != "" {
		entry, err := db.GetAdjustment(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get journal entry: %w", err)
		}
		if entry == nil {
			return fmt.Errorf("journal entry not found: %s", id)
		}
		return output.OutputTo(cmd.OutOrStdout(), outputFmt, []database.Adjustment{*entry})
	}

	opts := database.ListOptions{Limit: journalLimit}
	if card := strings.TrimSpace(journalCard); card != "" {
		opts.CardNo = &card
	}
	if journalOutcome != "" {
		outcome := database.Outcome(journalOutcome)
		switch outcome {
		case database.OutcomeSaved, database.OutcomeRejected, database.OutcomeFailed:
		default:
			return fmt.Errorf("unknown outcome: %s (use saved, rejected or failed)", journalOutcome)
		}
		opts.Outcome = &outcome
	}
	if journalSince != "" {
		since, err := parseDuration(journalSince)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}
		sinceTime := time.Now().Add(-since)
		opts.Since = &sinceTime
	}

	entries, err := db.ListAdjustments(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to list journal: %w", err)
	}
	if entries == nil {
		entries = []database.Adjustment{}
	}
	return output.OutputTo(cmd.OutOrStdout(), outputFmt, entries)
}

// parseDuration parses durations like "12h", "7d", "2w", "1m"
func parseDuration(s string) (time.Duration, error) {
	if len(s) < 2 {
		return 0, fmt.Errorf("invalid duration: %s", s)
	}

	unit := s[len(s)-1]
	var n int
	if _, err := fmt.Sscanf(s[:len(s)-1], "%d", &n); err != nil || n < 0 {
		return 0, fmt.Errorf("invalid duration: %s", s)
	}

	switch unit {
	case 'h':
		return time.Duration(n) * time.Hour, nil
	case 'd':
		return time.Duration(n) * 24 * time.Hour, nil
	case 'w':
		return time.Duration(n) * 7 * 24 * time.Hour, nil
	case 'm':
		return time.Duration(n) * 30 * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("unknown duration unit: %c", unit)
	}
}
