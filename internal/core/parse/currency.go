package parse

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	// currencyNoise matches everything a price string may carry besides the number itself.
	currencyNoise = regexp.MustCompile(`[^0-9.\-]`)
	// leadingFloat is the longest numeric prefix accepted after noise is stripped ("1.2.3" → "1.2").
	leadingFloat = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)`)
	nonDigits    = regexp.MustCompile(`[^0-9]`)
)

// Currency normalizes a raw price value into a finite number.
// Numbers pass through when finite. Strings are reduced to digits, '.' and '-'
// and the leading numeric part is parsed, so "$1,234.50 USD" yields 1234.5.
// Anything else reports ok=false.
func Currency(raw any) (float64, bool) {
	if f, isNumber, ok := number(raw); isNumber {
		return f, ok
	}

	s, ok := text(raw)
	if !ok {
		return 0, false
	}

	normalized := currencyNoise.ReplaceAllString(s, "")
	if strings.TrimSpace(normalized) == "" {
		return 0, false
	}

	match := leadingFloat.FindString(normalized)
	if match == "" {
		return 0, false
	}

	f, err := strconv.ParseFloat(match, 64)
	if err != nil || !finite(f) {
		return 0, false
	}
	return f, true
}

// Mileage normalizes an odometer reading. Strings keep only their digits
// ("12,345 mi" → 12345). Non-finite numbers are rejected.
func Mileage(raw any) (float64, bool) {
	if f, isNumber, ok := number(raw); isNumber {
		return f, ok
	}

	s, ok := text(raw)
	if !ok {
		return 0, false
	}

	digits := nonDigits.ReplaceAllString(s, "")
	if digits == "" {
		return 0, false
	}

	f, err := strconv.ParseFloat(digits, 64)
	if err != nil || !finite(f) {
		return 0, false
	}
	return f, true
}

// number reports whether raw is a numeric value and, if so, whether it is finite.
func number(raw any) (value float64, isNumber bool, ok bool) {
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	case uint:
		f = float64(v)
	case uint32:
		f = float64(v)
	case uint64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, true, false
		}
		f = parsed
	default:
		return 0, false, false
	}
	if !finite(f) {
		return 0, true, false
	}
	return f, true, true
}

// text unwraps the string-like encodings a row column can arrive in.
func text(raw any) (string, bool) {
	switch v := raw.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	case json.RawMessage:
		return string(v), true
	case *string:
		if v == nil {
			return "", false
		}
		return *v, true
	default:
		return "", false
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
