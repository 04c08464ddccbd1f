package output

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/vijay-prabhu/gcgcards/internal/card"
	"github.com/vijay-prabhu/gcgcards/internal/scoring"
)

// DefaultImageFallbackURL is the official image host; {cardNo} is replaced
const DefaultImageFallbackURL = "https://www.gundam-gcg.com/jp/images/cards/card/{cardNo}.webp"

// Display labels
const (
	LabelUnknownName   = "未知"
	LabelNoImage       = "無圖片"
	LabelNoResults     = "查無符合條件的卡片"
	LabelLoading       = "載入中..."
	LabelSaving        = "儲存中..."
	LabelNotApplicable = "（非 UNIT 或 Cost 不在 1–8，不評分）"
	LabelEffects       = "效果"
	LabelResonance     = "共鳴"
	LabelTraits        = "機體特徵"
	LabelDetails       = "查看官方詳情"
	LabelScore         = "評分"
	LabelTotal         = "總分："
	LabelAdjustment    = "加權"
)

// Labels are the fixed captions the HTML templates print
type Labels struct {
	NoImage, NoResults, Loading, Saving, NotApplicable string
	Resonance, Traits, Details, Score, Total, Adjustment string
}

var labels = Labels{
	NoImage:       LabelNoImage,
	NoResults:     LabelNoResults,
	Loading:       LabelLoading,
	Saving:        LabelSaving,
	NotApplicable: LabelNotApplicable,
	Resonance:     LabelResonance,
	Traits:        LabelTraits,
	Details:       LabelDetails,
	Score:         LabelScore,
	Total:         LabelTotal,
	Adjustment:    LabelAdjustment,
}

// Options controls how records are turned into views
type Options struct {
	// ImageFallbackURL is a URL template containing {cardNo}
	ImageFallbackURL string
}

func (o Options) fallbackTemplate() string {
	if o.ImageFallbackURL == "" {
		return DefaultImageFallbackURL
	}
	return o.ImageFallbackURL
}

// ScoreLine is one displayed breakdown line
type ScoreLine struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
	Text  string  `json:"text"`  // signed score, e.g. "+2"
	Class string  `json:"class"` // positive, negative or zero
}

// ScoreView is the displayed score panel
type ScoreView struct {
	Applicable bool        `json:"applicable"`
	Total      float64     `json:"total"`
	TotalText  string      `json:"total_text"`
	Lines      []ScoreLine `json:"lines"`
	Adjustment string      `json:"adjustment"` // prefill for the adjustment input
}

// CardView is the display model of one card. Every string is plain text;
// escaping is left to the renderer.
type CardView struct {
	CardNo        string    `json:"card_no"`
	Name          string    `json:"name"`
	ImageURL      string    `json:"image_url"`
	ImageFallback string    `json:"image_fallback,omitempty"`
	Meta          string    `json:"meta"`
	Stats         string    `json:"stats"`
	Resonance     string    `json:"resonance,omitempty"`
	Traits        string    `json:"traits,omitempty"`
	EffectLines   []string  `json:"effect_lines,omitempty"`
	EffectCount   int       `json:"effect_count"`
	EffectLabel   string    `json:"effect_label"`
	DetailURL     string    `json:"detail_url,omitempty"`
	Score         ScoreView `json:"score"`
	Editable      bool      `json:"editable"`
}

// NewCardView maps a record to its display model
func NewCardView(c *card.Card, opts Options) CardView {
	fallback := ImageFallbackURL(c, opts)
	image := c.ImageURL.Trimmed()
	if image == "" {
		image = fallback
	}

	v := CardView{
		CardNo:      c.CardNo.Shown(),
		Name:        c.Name.Shown(),
		ImageURL:    image,
		Meta:        metaLine(c),
		Stats:       statsLine(c),
		Resonance:   c.Resonance.Trimmed(),
		Traits:      c.Traits.Trimmed(),
		EffectLines: EffectLines(c.EffectText.Shown()),
		EffectCount: scoring.CountEffects(c.EffectText.Shown()),
		DetailURL:   c.URL.Trimmed(),
		Score:       NewScoreView(c),
		Editable:    c.CardNo.Shown() != "",
	}
	if v.Name == "" {
		v.Name = LabelUnknownName
	}
	if fallback != "" && image != fallback {
		v.ImageFallback = fallback
	}

	v.EffectLabel = LabelEffects
	if v.EffectCount > 0 {
		v.EffectLabel = LabelEffects + "（" + strconv.Itoa(v.EffectCount) + " 條）"
	}

	return v
}

// NewCardViews maps every record, keeping order
func NewCardViews(cards []card.Card, opts Options) []CardView {
	views := make([]CardView, len(cards))
	for i := range cards {
		views[i] = NewCardView(&cards[i], opts)
	}
	return views
}

// NewScoreView builds the score panel, including the weighted adjustment line
func NewScoreView(c *card.Card) ScoreView {
	r := scoring.WithAdjustment(scoring.Calculate(c), c)
	if !r.Applicable {
		return ScoreView{}
	}

	sv := ScoreView{
		Applicable: true,
		Total:      r.Total,
		TotalText:  FormatScore(r.Total),
		Lines:      make([]ScoreLine, len(r.Items)),
	}
	for i, item := range r.Items {
		sv.Lines[i] = ScoreLine{
			Name:  item.Name,
			Score: item.Score,
			Text:  SignedScore(item.Score),
			Class: scoreClass(item.Score),
		}
	}
	if adj := c.Adjustment(); adj != 0 {
		sv.Adjustment = FormatScore(adj)
	}
	return sv
}

// ImageFallbackURL substitutes the card number into the fallback template.
// It returns "" when the card has no number.
func ImageFallbackURL(c *card.Card, opts Options) string {
	cardNo := strings.ReplaceAll(c.CardNo.Trimmed(), `"`, "")
	if cardNo == "" {
		return ""
	}
	return strings.ReplaceAll(opts.fallbackTemplate(), "{cardNo}", cardNo)
}

var repeatedNewlines = regexp.MustCompile(`\n+`)

// EffectLines breaks effect text into display lines: a break before every
// 【 and after every 。. The "-" placeholder is kept as a single line.
func EffectLines(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if text == "-" {
		return []string{text}
	}

	text = strings.ReplaceAll(text, "【", "\n【")
	text = strings.ReplaceAll(text, "。", "。\n")
	text = strings.TrimSpace(text)
	text = repeatedNewlines.ReplaceAllString(text, "\n")
	return strings.Split(text, "\n")
}

// metaLine is "Set / CardNo / Rarity / CardType" without the empty parts
func metaLine(c *card.Card) string {
	var parts []string
	for _, v := range []card.Value{c.Set, c.CardNo, c.Rarity, c.CardType} {
		if s := v.Shown(); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " / ")
}

// statsLine is "Cost c | AP a / HP h | Lv.l", dropping what the card lacks
func statsLine(c *card.Card) string {
	cost := c.Cost.Shown()
	if cost == "" {
		cost = "-"
	}

	var b strings.Builder
	b.WriteString("Cost " + cost)
	if !c.AP.Empty() && !c.HP.Empty() {
		b.WriteString(" | AP " + c.AP.String() + " / HP " + c.HP.String())
	}
	if level := c.Level.Shown(); level != "" {
		b.WriteString(" | Lv." + level)
	}
	return b.String()
}

// FormatScore prints a score without trailing zeros: 2, -0.5, 5.5
func FormatScore(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// SignedScore prints a score with a leading + when it is not negative
func SignedScore(f float64) string {
	if f >= 0 {
		return "+" + FormatScore(f)
	}
	return FormatScore(f)
}

func scoreClass(f float64) string {
	switch {
	case f > 0:
		return "positive"
	case f < 0:
		return "negative"
	default:
		return "zero"
	}
}
