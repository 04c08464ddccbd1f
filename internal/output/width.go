package output

import (
	"golang.org/x/text/width"
)

// runeWidth returns the terminal column width of r: 2 for East Asian wide
// and fullwidth characters, 1 otherwise.
func runeWidth(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return 1
	}
}

// displayWidth returns the terminal column width of s
func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		n += runeWidth(r)
	}
	return n
}

// truncate shortens s to at most max columns, ending with "..." when cut
func truncate(s string, max int) string {
	if displayWidth(s) <= max {
		return s
	}
	if max <= 3 {
		return "..."[:max]
	}

	limit := max - 3
	n := 0
	for i, r := range s {
		w := runeWidth(r)
		if n+w > limit {
			return s[:i] + "..."
		}
		n += w
	}
	return s
}
