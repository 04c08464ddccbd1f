package output

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/vijay-prabhu/gcgcards/internal/card"
)

var csvHeader = []string{
	"CardNo", "Name", "Set", "CardType", "Color", "Rarity",
	"Cost", "Level", "AP", "HP", "Resonance", "Traits",
	"Effects", "Score", "WeightedAdjustment", "FinalScore",
}

// CSV writes cards with their scores as CSV. Score columns are empty for
// cards that are not scored.
func CSV(w io.Writer, cards []card.Card) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for i := range cards {
		sc := NewScoredCard(&cards[i])
		c := &sc.Card

		score, final := "", ""
		if sc.Score.Applicable {
			score = FormatScore(sc.Score.Total)
			final = FormatScore(*sc.FinalScore)
		}

		record := []string{
			c.CardNo.String(), c.Name.String(), c.Set.String(), c.CardType.String(),
			c.Color.String(), c.Rarity.String(), c.Cost.String(), c.Level.String(),
			c.AP.String(), c.HP.String(), c.Resonance.String(), c.Traits.String(),
			fmt.Sprint(sc.EffectCount), score, c.WeightedAdjustment.String(), final,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
