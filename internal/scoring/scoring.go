package scoring

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/vijay-prabhu/gcgcards/internal/card"
)

// Line item names shown in the score breakdown
const (
	ItemStats      = "hp+ap"
	ItemLevel      = "Level"
	ItemLink       = "帶 link"
	ItemEffects    = "效果"
	ItemTrait      = "Resonance 含特徵"
	ItemAdjustment = "加權"
)

// Fixed adjustments applied on top of the stat differentials
const (
	NoLinkPenalty = -0.5
	TraitBonus    = 0.5
)

const (
	traitMarker = "特徵"
	placeholder = "-"
	minCost     = 1
	maxCost     = 8
)

// Standard is the baseline a UNIT of a given cost is measured against
type Standard struct {
	APHP  int `json:"ap_hp"`
	Level int `json:"level"`
}

// Standards maps cost to the standard combined stats and level
var Standards = map[int]Standard{
	1: {APHP: 4, Level: 2},
	2: {APHP: 6, Level: 3},
	3: {APHP: 7, Level: 4},
	4: {APHP: 8, Level: 5},
	5: {APHP: 9, Level: 7},
	6: {APHP: 10, Level: 7},
	7: {APHP: 11, Level: 8},
	8: {APHP: 10, Level: 8},
}

// Costs returns the costs that have a standard, ascending
func Costs() []int {
	costs := make([]int, 0, len(Standards))
	for cost := range Standards {
		costs = append(costs, cost)
	}
	slices.Sort(costs)
	return costs
}

// Item is one signed line of the score breakdown
type Item struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// Result is the outcome of scoring a card.
// Total and Items are only meaningful when Applicable is true.
type Result struct {
	Applicable bool    `json:"applicable"`
	Total      float64 `json:"total"`
	Items      []Item  `json:"items"`
}

// MarshalJSON omits total and items for non-applicable results, and always
// writes them otherwise (a total of 0 is a real score).
func (r Result) MarshalJSON() ([]byte, error) {
	if !r.Applicable {
		return []byte(`{"applicable":false}`), nil
	}
	items := r.Items
	if items == nil {
		items = []Item{}
	}
	return json.Marshal(struct {
		Applicable bool    `json:"applicable"`
		Total      float64 `json:"total"`
		Items      []Item  `json:"items"`
	}{true, r.Total, items})
}

// Final returns the total plus the card's weighted adjustment
func (r Result) Final(c *card.Card) float64 {
	return r.Total + c.Adjustment()
}

// Applicable reports whether c passes the UNIT + cost 1..8 gate
func Applicable(c *card.Card) bool {
	_, ok := standardFor(c)
	return ok
}

func standardFor(c *card.Card) (Standard, bool) {
	if c == nil || !c.IsUnit() {
		return Standard{}, false
	}
	cost, ok := c.Cost.Int()
	if !ok || cost < minCost || cost > maxCost {
		return Standard{}, false
	}
	std, ok := Standards[cost]
	return std, ok
}

// Calculate scores a card against the rubric. Zero-valued contributions that
// the rubric hides are still part of the total.
func Calculate(c *card.Card) Result {
	std, ok := standardFor(c)
	if !ok {
		return Result{}
	}

	var items []Item
	total := 0.0

	ap, apOK := c.AP.Int()
	hp, hpOK := c.HP.Int()
	if apOK && hpOK {
		diff := float64(ap + hp - std.APHP)
		items = append(items, Item{Name: ItemStats, Score: diff})
		total += diff
	}

	if level, ok := c.Level.Int(); ok {
		diff := float64(std.Level - level)
		items = append(items, Item{Name: ItemLevel, Score: diff})
		total += diff
	}

	resonance := c.Resonance.Trimmed()
	if resonance == "" || resonance == placeholder {
		items = append(items, Item{Name: ItemLink, Score: NoLinkPenalty})
		total += NoLinkPenalty
	}

	if effects := CountEffects(c.EffectText.Shown()); effects > 0 {
		items = append(items, Item{Name: ItemEffects, Score: float64(effects)})
		total += float64(effects)
	}

	if strings.Contains(resonance, traitMarker) {
		items = append(items, Item{Name: ItemTrait, Score: TraitBonus})
		total += TraitBonus
	}

	return Result{
		Applicable: true,
		Total:      total,
		Items:      items,
	}
}

// WithAdjustment returns the breakdown with the card's weighted adjustment
// appended as its own line, and the adjusted total. Non-applicable results
// are returned unchanged.
func WithAdjustment(r Result, c *card.Card) Result {
	adj := c.Adjustment()
	if !r.Applicable || adj == 0 {
		return r
	}

	items := make([]Item, 0, len(r.Items)+1)
	items = append(items, r.Items...)
	items = append(items, Item{Name: ItemAdjustment, Score: adj})

	return Result{
		Applicable: true,
		Total:      r.Total + adj,
		Items:      items,
	}
}
