package filter

import (
	"math"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/vijay-prabhu/gcgcards/internal/card"
	"github.com/vijay-prabhu/gcgcards/internal/scoring"
)

// Result represents the outcome of matching one card
type Result struct {
	Include   bool   // Whether the card satisfies every criterion
	Criterion string // Parameter name of the first criterion that failed
}

// Filter re-applies search criteria to cards returned by the backend.
// The backend filters too, but only as an optimization; this is the
// authoritative check.
type Filter struct {
	criteria Criteria

	cost, ap, hp, apHP, minScore intCriterion

	setCode, cardType, levelText string
	color, rarity, name          string
}

// intCriterion is a numeric criterion parsed once up front
type intCriterion struct {
	set   bool // a value was entered
	value int
	ok    bool // the entered value parsed
}

func parseCriterion(s string) intCriterion {
	if s == "" {
		return intCriterion{}
	}
	n, ok := card.ParseInt(s)
	return intCriterion{set: true, value: n, ok: ok}
}

// matches reports whether n (with parse flag nOK) equals the criterion.
// An unparseable value on either side never matches.
func (ic intCriterion) matches(n int, nOK bool) bool {
	return ic.ok && nOK && n == ic.value
}

// New creates a Filter for the given criteria
func New(c Criteria) *Filter {
	return &Filter{
		criteria:  c,
		setCode:   strings.TrimSpace(c.SetCode),
		cardType:  strings.TrimSpace(c.CardType),
		cost:      parseCriterion(c.Cost),
		levelText: strings.TrimSpace(c.Level),
		color:     strings.TrimSpace(c.Color),
		rarity:    strings.TrimSpace(c.Rarity),
		ap:        parseCriterion(c.AP),
		hp:        parseCriterion(c.HP),
		apHP:      parseCriterion(c.APHPTotal),
		minScore:  parseCriterion(c.MinScore),
		name:      strings.TrimSpace(c.Name),
	}
}

// Match checks one card against every non-empty criterion
func (f *Filter) Match(c *card.Card) Result {
	crit := f.criteria

	if crit.SetCode != "" && c.Set.Trimmed() != f.setCode {
		return reject(ParamSetCode)
	}
	if crit.CardType != "" && !strings.EqualFold(c.CardType.Trimmed(), f.cardType) {
		return reject(ParamCardType)
	}
	if f.cost.set {
		n, ok := c.Cost.Int()
		if !f.cost.matches(n, ok) {
			return reject(ParamCost)
		}
	}
	if crit.Level != "" && c.Level.Trimmed() != f.levelText {
		return reject(ParamLevel)
	}
	if crit.Color != "" && !strings.EqualFold(c.Color.Trimmed(), f.color) {
		return reject(ParamColor)
	}
	if crit.Rarity != "" && !strings.EqualFold(c.Rarity.Trimmed(), f.rarity) {
		return reject(ParamRarity)
	}
	if f.ap.set {
		n, ok := c.AP.Int()
		if !f.ap.matches(n, ok) {
			return reject(ParamAP)
		}
	}
	if f.hp.set {
		n, ok := c.HP.Int()
		if !f.hp.matches(n, ok) {
			return reject(ParamHP)
		}
	}
	if f.apHP.set {
		ap, _ := c.AP.Int()
		hp, _ := c.HP.Int()
		if !f.apHP.matches(ap+hp, true) {
			return reject(ParamAPHPTotal)
		}
	}
	if f.minScore.set {
		r := scoring.Calculate(c)
		if !r.Applicable {
			return reject(ParamMinScore)
		}
		if f.minScore.ok && r.Final(c) < float64(f.minScore.value) {
			return reject(ParamMinScore)
		}
	}
	if crit.Name != "" && !matchName(f.name, c.Name.Shown()) {
		return reject(ParamName)
	}

	return Result{Include: true}
}

func reject(criterion string) Result {
	return Result{Include: false, Criterion: criterion}
}

// matchName does a case-insensitive fuzzy subsequence match
func matchName(pattern, name string) bool {
	if pattern == "" {
		return true
	}
	if name == "" {
		return false
	}
	return len(fuzzy.Find(strings.ToLower(pattern), []string{strings.ToLower(name)})) > 0
}

// Apply returns the cards that satisfy every criterion. When a minimum score
// was requested the survivors are sorted by adjusted score, highest first.
// The input slice is not modified.
func (f *Filter) Apply(cards []card.Card) []card.Card {
	filtered := make([]card.Card, 0, len(cards))
	for i := range cards {
		if f.Match(&cards[i]).Include {
			filtered = append(filtered, cards[i])
		}
	}

	if f.criteria.HasMinScore() {
		SortByScore(filtered)
	}
	return filtered
}

// Apply filters cards with the given criteria
func Apply(cards []card.Card, c Criteria) []card.Card {
	return New(c).Apply(cards)
}

// SortKey returns the value cards are ranked by: the adjusted score, or
// negative infinity for cards that cannot be scored.
func SortKey(c *card.Card) float64 {
	r := scoring.Calculate(c)
	if !r.Applicable {
		return math.Inf(-1)
	}
	return r.Final(c)
}

// SortByScore sorts cards in place by adjusted score, highest first.
// Cards without an applicable score sort last.
func SortByScore(cards []card.Card) {
	type keyed struct {
		key  float64
		card card.Card
	}

	ranked := make([]keyed, len(cards))
	for i := range cards {
		ranked[i] = keyed{key: SortKey(&cards[i]), card: cards[i]}
	}

	slices.SortStableFunc(ranked, func(a, b keyed) int {
		switch {
		case a.key > b.key:
			return -1
		case a.key < b.key:
			return 1
		default:
			return 0
		}
	})

	for i := range ranked {
		cards[i] = ranked[i].card
	}
}

// Stats counts how many cards each criterion rejected
type Stats struct {
	Total      int
	Included   int
	ByCriteria map[string]int
}

// GetStats matches every card and tallies the rejections
func (f *Filter) GetStats(cards []card.Card) Stats {
	stats := Stats{Total: len(cards), ByCriteria: make(map[string]int)}

	for i := range cards {
		r := f.Match(&cards[i])
		if r.Include {
			stats.Included++
			continue
		}
		stats.ByCriteria[r.Criterion]++
	}

	return stats
}
