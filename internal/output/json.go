package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vijay-prabhu/gcgcards/internal/card"
	"github.com/vijay-prabhu/gcgcards/internal/scoring"
)

// ScoredCard is a card record with its score attached, for JSON output
type ScoredCard struct {
	card.Card
	Score       scoring.Result `json:"Score"`
	EffectCount int            `json:"EffectCount"`
	FinalScore  *float64       `json:"FinalScore,omitempty"`
}

// NewScoredCard scores c for output. FinalScore is set only for
// applicable cards and includes the weighted adjustment.
func NewScoredCard(c *card.Card) ScoredCard {
	r := scoring.Calculate(c)
	sc := ScoredCard{
		Card:        *c,
		Score:       r,
		EffectCount: scoring.CountEffects(c.EffectText.Shown()),
	}
	if r.Applicable {
		final := r.Final(c)
		sc.FinalScore = &final
	}
	return sc
}

// NewScoredCards scores every card, keeping order
func NewScoredCards(cards []card.Card) []ScoredCard {
	out := make([]ScoredCard, len(cards))
	for i := range cards {
		out[i] = NewScoredCard(&cards[i])
	}
	return out
}

// JSONTo writes data as JSON to the given writer. Card slices and single
// cards are written with their scores.
func JSONTo(w io.Writer, data interface{}) error {
	switch v := data.(type) {
	case []card.Card:
		data = NewScoredCards(v)
	case *card.Card:
		data = NewScoredCard(v)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(data)
}

// OutputTo writes data in the specified format to the given writer
func OutputTo(w io.Writer, format string, data interface{}) error {
	switch format {
	case "json":
		return JSONTo(w, data)
	case "table", "":
		return TableTo(w, data)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}
