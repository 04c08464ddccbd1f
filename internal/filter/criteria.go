package filter

import (
	"strings"
)

// DefaultLimit is the result-count limit sent when none is given
const DefaultLimit = "1000"

// Backend parameter names for each criterion
const (
	ParamSetCode   = "setCode"
	ParamCardType  = "cardType"
	ParamCost      = "cost"
	ParamLevel     = "level"
	ParamColor     = "color"
	ParamRarity    = "rarity"
	ParamAP        = "ap"
	ParamHP        = "hp"
	ParamAPHPTotal = "apHpTotal"
	ParamMinScore  = "minScore"
	ParamName      = "name"
	ParamLimit     = "limit"
)

// Criteria holds the search form values. Each field is the raw text the user
// entered; an empty field means "no constraint". Values are not validated
// here: the backend and Apply interpret them.
type Criteria struct {
	SetCode   string `json:"setCode,omitempty"`
	CardType  string `json:"cardType,omitempty"`
	Cost      string `json:"cost,omitempty"`
	Level     string `json:"level,omitempty"`
	Color     string `json:"color,omitempty"`
	Rarity    string `json:"rarity,omitempty"`
	AP        string `json:"ap,omitempty"`
	HP        string `json:"hp,omitempty"`
	APHPTotal string `json:"apHpTotal,omitempty"`
	MinScore  string `json:"minScore,omitempty"`
	Name      string `json:"name,omitempty"`
	Limit     string `json:"limit,omitempty"`
}

// fields pairs each parameter name with its value, in form order
func (c Criteria) fields() [][2]string {
	return [][2]string{
		{ParamSetCode, c.SetCode},
		{ParamCardType, c.CardType},
		{ParamCost, c.Cost},
		{ParamLevel, c.Level},
		{ParamColor, c.Color},
		{ParamRarity, c.Rarity},
		{ParamAP, c.AP},
		{ParamHP, c.HP},
		{ParamAPHPTotal, c.APHPTotal},
		{ParamMinScore, c.MinScore},
		{ParamName, c.Name},
		{ParamLimit, c.Limit},
	}
}

// Params returns the non-empty criteria keyed by backend parameter name
func (c Criteria) Params() map[string]string {
	params := make(map[string]string)
	for _, f := range c.fields() {
		if f[1] != "" {
			params[f[0]] = f[1]
		}
	}
	return params
}

// FromParams builds Criteria from backend-style parameter names, ignoring
// unknown keys. It is the inverse of Params.
func FromParams(params map[string]string) Criteria {
	return Criteria{
		SetCode:   params[ParamSetCode],
		CardType:  params[ParamCardType],
		Cost:      params[ParamCost],
		Level:     params[ParamLevel],
		Color:     params[ParamColor],
		Rarity:    params[ParamRarity],
		AP:        params[ParamAP],
		HP:        params[ParamHP],
		APHPTotal: params[ParamAPHPTotal],
		MinScore:  params[ParamMinScore],
		Name:      params[ParamName],
		Limit:     params[ParamLimit],
	}
}

// LimitOrDefault returns the limit, falling back to DefaultLimit
func (c Criteria) LimitOrDefault() string {
	if c.Limit != "" {
		return c.Limit
	}
	return DefaultLimit
}

// HasMinScore reports whether score filtering (and sorting) is requested
func (c Criteria) HasMinScore() bool {
	return c.MinScore != ""
}

// IsEmpty reports whether no filtering criterion is set (limit aside)
func (c Criteria) IsEmpty() bool {
	c.Limit = ""
	return len(c.Params()) == 0
}

// String renders the active criteria for logs and status lines
func (c Criteria) String() string {
	var parts []string
	for _, f := range c.fields() {
		if f[1] != "" {
			parts = append(parts, f[0]+"="+f[1])
		}
	}
	if len(parts) == 0 {
		return "(none)"
	}
	return strings.Join(parts, " ")
}
