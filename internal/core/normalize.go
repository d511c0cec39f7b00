package core

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Normalize converts a numeric-or-string value to a decimal.
// Currency symbols, thousands separators and any other character outside
// [0-9.-] are ignored; empty, "-" and unparseable input normalize to zero.
// Normalizing an already-normalized value returns it unchanged.
func Normalize(v any) decimal.Decimal {
	switch x := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return x
	case *decimal.Decimal:
		if x == nil {
			return decimal.Zero
		}
		return *x
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(x)
	case float32:
		return Normalize(float64(x))
	case int:
		return decimal.NewFromInt(int64(x))
	case int32:
		return decimal.NewFromInt(int64(x))
	case int64:
		return decimal.NewFromInt(x)
	case string:
		d, _ := ParseNumeric(x)
		return d
	case Text:
		d, _ := ParseNumeric(string(x))
		return d
	case fmt.Stringer:
		d, _ := ParseNumeric(x.String())
		return d
	}
	d, _ := ParseNumeric(fmt.Sprint(v))
	return d
}

// ParseNumeric is the strict form of Normalize for strings. It returns zero and a
// *MalformedFieldError when a non-empty, non-sentinel value carries no digits.
// Trailing garbage after a valid prefix is ignored ("12-3" parses as 12).
func ParseNumeric(s string) (decimal.Decimal, error) {
	if isUnsetNumeric(s) {
		return decimal.Zero, nil
	}

	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}

	num, ok := leadingNumber(b.String())
	if !ok {
		return decimal.Zero, &MalformedFieldError{Value: s}
	}
	d, err := decimal.NewFromString(num)
	if err != nil {
		return decimal.Zero, &MalformedFieldError{Value: s}
	}
	return d, nil
}

// leadingNumber extracts the longest prefix of s matching -?digits[.digits].
func leadingNumber(s string) (string, bool) {
	i := 0
	neg := false
	if i < len(s) && s[i] == '-' {
		neg = true
		i++
	}

	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	intPart := s[start:i]

	fracPart := ""
	if i < len(s) && s[i] == '.' {
		i++
		fs := i
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		fracPart = s[fs:i]
	}

	if intPart == "" && fracPart == "" {
		return "", false
	}
	if intPart == "" {
		intPart = "0"
	}

	num := intPart
	if fracPart != "" {
		num += "." + fracPart
	}
	if neg {
		num = "-" + num
	}
	return num, true
}

func isUnsetNumeric(s string) bool {
	t := strings.TrimSpace(s)
	return t == "" || t == "-"
}
