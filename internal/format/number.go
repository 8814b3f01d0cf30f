package format

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// leadingNumber matches the numeric prefix accepted by a lenient float parse:
// "12.5kg" -> "12.5", ".5" -> ".5", "1e3x" -> "1e3".
var leadingNumber = regexp.MustCompile(`^[+-]?(?:Infinity|(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?)`)

// ParseNumber coerces a cell or aggregate value to a float.
//
// Strings are parsed leniently: leading whitespace is skipped and the longest
// numeric prefix is used, so "10 units" is 10 while "x10" and "" fail.
// Numbers pass through unchanged. Anything else is parsed from its string form.
func ParseNumber(raw any) (float64, bool) {
	switch v := raw.(type) {
	case nil:
		return 0, false
	case float64:
		return v, !math.IsNaN(v)
	case int:
		return float64(v), true
	case string:
		return parseLeading(v)
	default:
		return parseLeading(Stringify(v))
	}
}

// NumberOrZero is ParseNumber with failed parses contributing 0.
func NumberOrZero(raw any) float64 {
	if n, ok := ParseNumber(raw); ok {
		return n
	}
	return 0
}

func parseLeading(s string) (float64, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	m := leadingNumber.FindString(s)
	if m == "" {
		return 0, false
	}

	switch strings.TrimLeft(m, "+-") {
	case "Infinity":
		if strings.HasPrefix(m, "-") {
			return math.Inf(-1), true
		}
		return math.Inf(1), true
	}

	n, err := strconv.ParseFloat(m, 64)
	if err != nil {
		// Out-of-range exponents still yield ±Inf with a range error.
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return n, true
		}
		return 0, false
	}
	return n, true
}

// Stringify renders a value the way it is compared and displayed as text.
// nil renders as the empty string; whole floats have no fraction part.
func Stringify(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		switch {
		case math.IsNaN(v):
			return "NaN"
		case math.IsInf(v, 1):
			return "Infinity"
		case math.IsInf(v, -1):
			return "-Infinity"
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	case interface{ String() string }:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// RoundHalfAway rounds value to decimals fraction digits, with ties going
// away from zero. The tie is decided on the shortest decimal form of value,
// so 1.005 rounds to 1.01 even though its binary form is slightly smaller.
func RoundHalfAway(value float64, decimals int) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) || decimals < 0 {
		return value
	}

	text := strconv.FormatFloat(math.Abs(value), 'f', -1, 64)
	whole, frac, _ := strings.Cut(text, ".")
	if len(frac) <= decimals {
		return value
	}

	digits := []byte(whole + frac[:decimals])
	if frac[decimals] >= '5' {
		digits = incrementDigits(digits)
	}

	split := len(digits) - decimals
	rounded := string(digits[:split])
	if decimals > 0 {
		rounded += "." + string(digits[split:])
	}

	n, err := strconv.ParseFloat(rounded, 64)
	if err != nil {
		return value
	}
	return math.Copysign(n, value)
}

// incrementDigits adds one to a string of decimal digits.
func incrementDigits(digits []byte) []byte {
	for i := len(digits) - 1; i >= 0; i-- {
		if digits[i] < '9' {
			digits[i]++
			return digits
		}
		digits[i] = '0'
	}
	return append([]byte{'1'}, digits...)
}
