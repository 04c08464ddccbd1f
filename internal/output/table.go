package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/vijay-prabhu/gcgcards/internal/card"
	"github.com/vijay-prabhu/gcgcards/internal/database"
	"github.com/vijay-prabhu/gcgcards/internal/scoring"
)

// TableTo writes data as a formatted table to the given writer
func TableTo(w io.Writer, data interface{}) error {
	switch v := data.(type) {
	case []card.Card:
		return cardsTable(w, v)
	case *card.Card:
		return cardDetail(w, v)
	case []database.Adjustment:
		return journalTable(w, v)
	case *database.JournalStats:
		return journalStats(w, v)
	default:
		return fmt.Errorf("unsupported data type for table output: %T", data)
	}
}

func cardsTable(w io.Writer, cards []card.Card) error {
	if len(cards) == 0 {
		fmt.Fprintln(w, LabelNoResults)
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"CardNo", "Name", "Type", "Color", "Cost", "AP/HP", "Lv", "Effects", "Score"})

	for i := range cards {
		c := &cards[i]
		v := NewScoreView(c)

		stats := ""
		if !c.AP.Empty() && !c.HP.Empty() {
			stats = c.AP.String() + "/" + c.HP.String()
		}
		score := "-"
		if v.Applicable {
			score = v.TotalText
		}

		row := []string{
			c.CardNo.String(),
			truncate(c.Name.String(), 24),
			c.CardType.String(),
			c.Color.String(),
			c.Cost.String(),
			stats,
			c.Level.String(),
			strconv.Itoa(scoring.CountEffects(c.EffectText.Shown())),
			score,
		}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("failed to append row: %w", err)
		}
	}

	return table.Render()
}

func cardDetail(w io.Writer, c *card.Card) error {
	v := NewCardView(c, Options{})

	fmt.Fprintf(w, "%s\n", v.Name)
	fmt.Fprintf(w, "%s\n", v.Meta)
	fmt.Fprintf(w, "%s\n", v.Stats)

	if v.Resonance != "" {
		fmt.Fprintf(w, "\n%s: %s\n", LabelResonance, v.Resonance)
	}
	if v.Traits != "" {
		fmt.Fprintf(w, "%s: %s\n", LabelTraits, v.Traits)
	}
	if len(v.EffectLines) > 0 {
		fmt.Fprintf(w, "\n%s\n", v.EffectLabel)
		for _, line := range v.EffectLines {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}

	fmt.Fprintf(w, "\n%s\n", LabelScore)
	fmt.Fprintln(w, strings.Repeat("-", 30))
	if !v.Score.Applicable {
		fmt.Fprintln(w, LabelNotApplicable)
		return nil
	}
	for _, line := range v.Score.Lines {
		fmt.Fprintf(w, "%s%s%s\n", line.Name, padding(line.Name, 20), line.Text)
	}
	fmt.Fprintln(w, strings.Repeat("-", 30))
	fmt.Fprintf(w, "%s%s%s\n", LabelTotal, padding(LabelTotal, 20), v.Score.TotalText)

	if v.DetailURL != "" {
		fmt.Fprintf(w, "\n%s: %s\n", LabelDetails, v.DetailURL)
	}
	return nil
}

// padding returns the spaces that pad s to col display columns
func padding(s string, col int) string {
	n := col - displayWidth(s)
	if n < 1 {
		n = 1
	}
	return strings.Repeat(" ", n)
}

func journalTable(w io.Writer, entries []database.Adjustment) error {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No adjustments recorded.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"When", "CardNo", "Value", "Outcome", "Message"})

	for _, a := range entries {
		message := ""
		if a.Message != nil {
			message = truncate(*a.Message, 40)
		}
		row := []string{
			a.CreatedAt.Local().Format("2006-01-02 15:04"),
			a.CardNo,
			a.Value,
			string(a.Outcome),
			message,
		}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("failed to append row: %w", err)
		}
	}

	return table.Render()
}

func journalStats(w io.Writer, s *database.JournalStats) error {
	fmt.Fprintln(w, "Adjustment Journal")
	fmt.Fprintln(w, strings.Repeat("-", 30))
	fmt.Fprintf(w, "Total attempts:   %d\n", s.Total)
	fmt.Fprintf(w, "Saved:            %d\n", s.Saved)
	fmt.Fprintf(w, "Rejected:         %d\n", s.Rejected)
	fmt.Fprintf(w, "Failed:           %d\n", s.Failed)
	fmt.Fprintf(w, "Cards:            %d\n", s.Cards)
	if s.LastAt != nil {
		fmt.Fprintf(w, "Last attempt:     %s\n", s.LastAt.Local().Format("Jan 02, 2006 15:04"))
	}
	return nil
}
