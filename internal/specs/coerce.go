package specs

import (
	"encoding/json"
	"math"
	"strconv"
)

// Coerce sniffs a textual value into its typed form. First match wins:
//
//  1. exact "true" / "false" (case-sensitive) -> bool
//  2. a string that parses fully as a finite decimal number
//     (integer or float, optional leading '-') -> float64
//  3. anything else -> the original string, unchanged
//
// Values that look numeric but overflow a float64 fall back to the string;
// Coerce never fails. Keys are never coerced, only values.
func Coerce(s string) any {
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	if !isDecimal(s) {
		return s
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return s
	}
	return f
}

// isDecimal accepts plain decimal literals only: an optional leading '-',
// digits, and at most one '.'. Exponents, hex, and ParseFloat's "Inf"/"NaN"
// spellings are rejected so they stay strings.
func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	i := 0
	if s[0] == '-' {
		i = 1
	}
	digits := 0
	dots := 0
	for ; i < len(s); i++ {
		switch {
		case s[i] >= '0' && s[i] <= '9':
			digits++
		case s[i] == '.':
			dots++
			if dots > 1 {
				return false
			}
		default:
			return false
		}
	}
	return digits > 0
}

// FormatValue renders a typed spec value back to editable text. It is the
// inverse of Coerce for the types Coerce produces; anything else (legacy
// records can carry arrays or nested objects) is rendered as JSON so the
// user sees what was stored.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
