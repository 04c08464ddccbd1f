package card

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TypeUnit is the only card type eligible for scoring
const TypeUnit = "UNIT"

// Card represents one row of card data as returned by the backend.
// All attributes are optional; numeric columns are interpreted at use sites.
type Card struct {
	Name               Value `json:"Name"`
	CardNo             Value `json:"CardNo"`
	Set                Value `json:"Set"`
	CardType           Value `json:"CardType"`
	Cost               Value `json:"Cost"`
	Level              Value `json:"Level"`
	Color              Value `json:"Color"`
	Rarity             Value `json:"Rarity"`
	AP                 Value `json:"AP"`
	HP                 Value `json:"HP"`
	Resonance          Value `json:"Resonance"`
	Traits             Value `json:"Traits"`
	EffectText         Value `json:"EffectText"`
	ImageURL           Value `json:"ImageUrl"`
	URL                Value `json:"Url"`
	WeightedAdjustment Value `json:"WeightedAdjustment"`
}

// IsUnit reports whether the card type is UNIT, ignoring case
func (c *Card) IsUnit() bool {
	return strings.EqualFold(c.CardType.Shown(), TypeUnit)
}

// Adjustment returns the weighted adjustment, or 0 when absent or unparseable
func (c *Card) Adjustment() float64 {
	f, ok := c.WeightedAdjustment.Float()
	if !ok {
		return 0
	}
	return f
}

// Key returns the trimmed card number used to correlate persisted adjustments
func (c *Card) Key() string {
	return c.CardNo.Trimmed()
}

// columns maps each backend column name to its field
func (c *Card) columns() map[string]*Value {
	return map[string]*Value{
		"Name":               &c.Name,
		"CardNo":             &c.CardNo,
		"Set":                &c.Set,
		"CardType":           &c.CardType,
		"Cost":               &c.Cost,
		"Level":              &c.Level,
		"Color":              &c.Color,
		"Rarity":             &c.Rarity,
		"AP":                 &c.AP,
		"HP":                 &c.HP,
		"Resonance":          &c.Resonance,
		"Traits":             &c.Traits,
		"EffectText":         &c.EffectText,
		"ImageUrl":           &c.ImageURL,
		"Url":                &c.URL,
		"WeightedAdjustment": &c.WeightedAdjustment,
	}
}

// Decode reads one backend row. Column names must match exactly; other
// keys, including differently cased ones, are ignored. A null row is an
// empty card.
func Decode(data []byte) (Card, error) {
	var row map[string]json.RawMessage
	if err := json.Unmarshal(data, &row); err != nil {
		return Card{}, err
	}

	var c Card
	columns := c.columns()
	for name, raw := range row {
		dst, ok := columns[name]
		if !ok {
			continue
		}
		if err := dst.UnmarshalJSON(raw); err != nil {
			return Card{}, fmt.Errorf("column %s: %w", name, err)
		}
	}
	return c, nil
}
