package card

import (
	"bytes"
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Value is a single spreadsheet cell. The backend may send a string, a
// number, a boolean or null for any column; Value keeps the text form.
type Value struct {
	raw     string
	present bool
	blank   bool // sent as JSON 0 or false
}

// Text returns a present Value holding s
func Text(s string) Value {
	return Value{raw: s, present: true}
}

// String returns the raw cell text ("" when absent)
func (v Value) String() string {
	return v.raw
}

// Present reports whether the cell was sent and not null
func (v Value) Present() bool {
	return v.present
}

// Empty reports whether the cell has no text
func (v Value) Empty() bool {
	return v.raw == ""
}

// Shown returns the cell text as a text column reads it: a cell sent as
// JSON 0 or false is blank.
func (v Value) Shown() string {
	if v.blank {
		return ""
	}
	return v.raw
}

// Trimmed returns Shown without surrounding whitespace
func (v Value) Trimmed() string {
	return strings.TrimSpace(v.Shown())
}

// Int parses the leading integer of the cell text.
// "3", " 3 ", "3.5" and "3枚" all yield 3; "", "-" and "x3" do not parse.
func (v Value) Int() (int, bool) {
	return ParseInt(v.raw)
}

// Float parses the leading decimal number of the cell text
func (v Value) Float() (float64, bool) {
	return ParseFloat(v.raw)
}

// UnmarshalJSON accepts strings, numbers, booleans and null
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = Value{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Text(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = Text(strconv.FormatBool(b))
		v.blank = !b
	case '{', '[':
		*v = Text(string(data))
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*v = Text(formatNumber(n))
		if f, err := n.Float64(); err == nil && f == 0 {
			v.blank = true
		}
	}
	return nil
}

// MarshalJSON writes the cell back as a string, or null when absent
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.present {
		return []byte("null"), nil
	}
	return json.Marshal(v.raw)
}

// formatNumber renders a JSON number the way a spreadsheet cell would print
// it, so 3.0 and 3 compare equal as text.
func formatNumber(n json.Number) string {
	f, err := n.Float64()
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return n.String()
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ParseInt parses an optional sign followed by decimal digits at the start of
// s, after leading whitespace. Anything after the digits is ignored.
func ParseInt(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

var leadingFloat = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)

// ParseFloat parses the decimal number at the start of s, after leading
// whitespace. Anything after the number is ignored.
func ParseFloat(s string) (float64, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	m := leadingFloat.FindString(s)
	if m == "" {
		return 0, false
	}

	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
