package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vijay-prabhu/gcgcards/internal/output"
	"github.com/vijay-prabhu/gcgcards/internal/scoring"
)

var scoreCmd = &cobra.Command{
	Use:   "score <card-no>",
	Short: "Show the score breakdown of one card",
	Long: `Fetch the card list and show one card with its score breakdown.

Examples:
  gcgcards score GD01-001
  gcgcards score gd01-001 -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

var effectsCmd = &cobra.Command{
	Use:   "effects <text>",
	Short: "Count the distinct effects in an effect text",
	Long: `Count effects the way the scorer does and print the display lines.

Example:
  gcgcards effects "【配置時】抽1張卡。【攻擊時】造成1傷害。"`,
	Args:        cobra.MinimumNArgs(1),
	Annotations: map[string]string{skipSetup: "true"},
	RunE:        runEffects,
}

func init() {
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(effectsCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	a := newApp(cfg, logger)
	defer a.Close()

	if err := requireBackend(a); err != nil {
		return err
	}

	c, err := a.controller(NewTerminal()).Find(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if err := output.OutputTo(cmd.OutOrStdout(), outputFmt, c); err != nil {
		return err
	}
	if outputFmt == "json" || a.journal == nil {
		return nil
	}

	last, err := a.journal.LatestSaved(cmd.Context(), c.Key())
	if err != nil {
		a.logger.Warn("failed to read journal", zap.String("card_no", c.Key()), zap.Error(err))
		return nil
	}
	if last != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "\nLast saved adjustment: %q (%s)\n",
			last.Value, last.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func runEffects(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "%d\n", scoring.CountEffects(text))
	for _, line := range output.EffectLines(text) {
		fmt.Fprintf(out, "  %s\n", line)
	}
	return nil
}
