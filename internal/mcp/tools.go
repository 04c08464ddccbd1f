package mcp

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// Tool names
const (
	ToolSearchCards           = "search_cards"
	ToolScoreCard             = "score_card"
	ToolSetWeightedAdjustment = "set_weighted_adjustment"
	ToolCountEffects          = "count_effects"
	ToolListAdjustments       = "list_adjustments"
)

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

// criteriaProperties are the search criteria accepted by search_cards and
// used for the refresh after set_weighted_adjustment. Values are passed to
// the backend as entered.
func criteriaProperties() map[string]interface{} {
	return map[string]interface{}{
		"setCode":   stringProp("Set code, exact match after trimming (e.g. GD01)"),
		"cardType":  stringProp("Card type, case-insensitive (UNIT, PILOT, COMMAND, BASE)"),
		"cost":      stringProp("Cost, numeric equality"),
		"level":     stringProp("Level, exact text match"),
		"color":     stringProp("Color, case-insensitive"),
		"rarity":    stringProp("Rarity, case-insensitive"),
		"ap":        stringProp("AP, numeric equality"),
		"hp":        stringProp("HP, numeric equality"),
		"apHpTotal": stringProp("AP + HP, numeric equality"),
		"minScore":  stringProp("Minimum adjusted score; results are sorted by score when set"),
		"name":      stringProp("Card name, fuzzy case-insensitive match"),
		"limit":     stringProp("Maximum records the backend returns (default 1000)"),
	}
}

// ToolDefinitions contains all available MCP tools
var ToolDefinitions = []Tool{
	{
		Name:        ToolSearchCards,
		Description: "Search Gundam Card Game cards. Every criterion is optional; results carry their score breakdown.",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": criteriaProperties(),
		},
	},
	{
		Name:        ToolScoreCard,
		Description: "Get one card by card number with its full score breakdown.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"cardNo": stringProp("Card number, e.g. GD01-001"),
			},
			"required": []string{"cardNo"},
		},
	},
	{
		Name:        ToolSetWeightedAdjustment,
		Description: "Store a manual weighted adjustment for a card, then re-run the search with the given criteria.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"cardNo":     stringProp("Card number to adjust"),
				"adjustment": stringProp("Adjustment value, sent to the backend as entered; empty clears it"),
				"criteria": map[string]interface{}{
					"type":        "object",
					"description": "Search criteria for the refresh (same fields as search_cards)",
					"properties":  criteriaProperties(),
				},
			},
			"required": []string{"cardNo"},
		},
	},
	{
		Name:        ToolCountEffects,
		Description: "Count the distinct effects in a card's effect text.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"text": stringProp("Effect text"),
			},
			"required": []string{"text"},
		},
	},
	{
		Name:        ToolListAdjustments,
		Description: "List recorded weighted-adjustment save attempts, newest first.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"cardNo": stringProp("Only entries for this card number"),
				"outcome": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"saved", "rejected", "failed"},
					"description": "Only entries with this outcome",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of entries (default: 20)",
				},
			},
		},
	},
}
