package output

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vijay-prabhu/gcgcards/internal/card"
)

func gundam() card.Card {
	return card.Card{
		Name:       card.Text("Gundam"),
		CardNo:     card.Text("GD01-001"),
		Set:        card.Text("GD01"),
		CardType:   card.Text("UNIT"),
		Cost:       card.Text("3"),
		Level:      card.Text("3"),
		Rarity:     card.Text("LR"),
		AP:         card.Text("5"),
		HP:         card.Text("4"),
		Resonance:  card.Text("中距離特徵"),
		Traits:     card.Text("地球聯邦"),
		EffectText: card.Text("《修復1》\n【搭乘時】【配置時】效果A。效果B。"),
		URL:        card.Text("https://example.com/cards/GD01-001"),
	}
}

func TestNewCardView(t *testing.T) {
	c := gundam()
	v := NewCardView(&c, Options{})

	assert.Equal(t, "Gundam", v.Name)
	assert.Equal(t, "GD01 / GD01-001 / LR / UNIT", v.Meta)
	assert.Equal(t, "Cost 3 | AP 5 / HP 4 | Lv.3", v.Stats)
	assert.Equal(t, "https://www.gundam-gcg.com/jp/images/cards/card/GD01-001.webp", v.ImageURL)
	assert.Empty(t, v.ImageFallback, "no fallback when the primary is the fallback")
	assert.Equal(t, 2, v.EffectCount)
	assert.Equal(t, "效果（2 條）", v.EffectLabel)
	assert.True(t, v.Editable)

	want := []ScoreLine{
		{Name: "hp+ap", Score: 2, Text: "+2", Class: "positive"},
		{Name: "Level", Score: 1, Text: "+1", Class: "positive"},
		{Name: "效果", Score: 2, Text: "+2", Class: "positive"},
		{Name: "Resonance 含特徵", Score: 0.5, Text: "+0.5", Class: "positive"},
	}
	if diff := cmp.Diff(want, v.Score.Lines); diff != "" {
		t.Errorf("score lines mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "5.5", v.Score.TotalText)
	assert.Empty(t, v.Score.Adjustment)
}

func TestNewCardView_ImageFallback(t *testing.T) {
	c := gundam()
	c.ImageURL = card.Text(" https://cdn.example.com/a.png ")
	c.CardNo = card.Text(`GD01"-001`)

	v := NewCardView(&c, Options{ImageFallbackURL: "https://img.example.com/{cardNo}.jpg"})
	assert.Equal(t, "https://cdn.example.com/a.png", v.ImageURL)
	assert.Equal(t, "https://img.example.com/GD01-001.jpg", v.ImageFallback)

	c.CardNo = card.Value{}
	c.ImageURL = card.Value{}
	v = NewCardView(&c, Options{})
	assert.Empty(t, v.ImageURL)
	assert.Empty(t, v.ImageFallback)
	assert.False(t, v.Editable)
}

func TestNewCardView_Sparse(t *testing.T) {
	c := card.Card{CardType: card.Text("PILOT")}
	v := NewCardView(&c, Options{})

	assert.Equal(t, "未知", v.Name)
	assert.Equal(t, "PILOT", v.Meta)
	assert.Equal(t, "Cost -", v.Stats)
	assert.Equal(t, "效果", v.EffectLabel)
	assert.Nil(t, v.EffectLines)
	assert.False(t, v.Score.Applicable)
}

func TestNewCardView_ZeroCells(t *testing.T) {
	var c card.Card
	require.NoError(t, json.Unmarshal([]byte(`{"CardNo":"GD01-050","CardType":"UNIT","Rarity":0,"Cost":0,"AP":0,"HP":0,"Level":0}`), &c))
	v := NewCardView(&c, Options{})

	assert.Equal(t, "GD01-050 / UNIT", v.Meta)
	assert.Equal(t, "Cost - | AP 0 / HP 0", v.Stats)
}

func TestNewScoreView_Adjustment(t *testing.T) {
	c := card.Card{
		CardType:           card.Text("UNIT"),
		Cost:               card.Text("1"),
		Resonance:          card.Text("-"),
		WeightedAdjustment: card.Text("-1.5"),
	}

	v := NewScoreView(&c)
	assert.Equal(t, "-2", v.TotalText)
	assert.Equal(t, "-1.5", v.Adjustment)
	assert.Equal(t, []ScoreLine{
		{Name: "帶 link", Score: -0.5, Text: "-0.5", Class: "negative"},
		{Name: "加權", Score: -1.5, Text: "-1.5", Class: "negative"},
	}, v.Lines)
}

func TestEffectLines(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{"empty", "  ", nil},
		{"placeholder", "-", []string{"-"}},
		{"triggers and sentences", "【配置時】抽1張卡。【攻擊時】造成1傷害。", []string{"【配置時】抽1張卡。", "【攻擊時】造成1傷害。"}},
		{"adjacent triggers", "【搭乘時】【配置時】效果A。", []string{"【搭乘時】", "【配置時】效果A。"}},
		{"collapses blank lines", "效果A。\n\n\n效果B", []string{"效果A。", "效果B"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EffectLines(tt.text))
		})
	}
}

func TestScoreFormatting(t *testing.T) {
	assert.Equal(t, "+0", SignedScore(0))
	assert.Equal(t, "-0.5", SignedScore(-0.5))
	assert.Equal(t, "+12", SignedScore(12))
	assert.Equal(t, "5.5", FormatScore(5.5))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Gundam", truncate("Gundam", 10))
	assert.Equal(t, "Gund...", truncate("Gundam Mk-II", 7))
	assert.Equal(t, "鋼彈...", truncate("鋼彈試作1號機", 7))
	assert.Equal(t, 4, displayWidth("鋼彈"))
}
