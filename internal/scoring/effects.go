package scoring

import (
	"regexp"
	"strings"
)

var (
	// 《修復1》 or 2.《高機動》 at the start of a line
	namedEffect    = regexp.MustCompile(`^《[^》]+》`)
	numberedEffect = regexp.MustCompile(`^\d+\.[\s\p{Z}]*《[^》]+》`)

	// consecutive trigger tokens with nothing but whitespace between them
	triggerRun = regexp.MustCompile(`【[^】]+】(?:[\s\p{Z}]*【[^】]+】)*`)

	lineBreak = regexp.MustCompile(`\r?\n`)
)

// CountEffects counts the discrete effects in a card's effect text.
//
// Every line opening with a 《name》 token counts once, and every run of
// adjacent 【trigger】 tokens counts once. Text with neither marker counts as
// a single effect; empty text and the "-" placeholder count as none.
func CountEffects(text string) int {
	text = strings.TrimSpace(text)
	if text == "" || text == placeholder {
		return 0
	}

	count := 0
	for _, line := range lineBreak.Split(text, -1) {
		line = strings.TrimSpace(line)
		if namedEffect.MatchString(line) || numberedEffect.MatchString(line) {
			count++
		}
	}

	count += len(triggerRun.FindAllStringIndex(text, -1))

	if count > 0 {
		return count
	}
	return 1
}
