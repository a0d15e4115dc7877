package ingest

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseNumber converts a human-formatted numeric string into a decimal. It is
// a total function: anything unparseable comes back as zero. Supported inputs
// include "1.234,56", "1,234.56", "Rp 1.000", "(500)" and "-12,5".
func ParseNumber(raw string) decimal.Decimal {
	d, _ := parseNumberStrict(raw)
	return d
}

// parseNumberStrict is ParseNumber plus an ok flag: ok is false when the
// input was non-blank yet yielded no usable number, which is the case the
// configurable numeric policy cares about.
func parseNumberStrict(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, true
	}

	// (123) and -123 both mean negative; a value carrying both notations is
	// still negated exactly once.
	negative := strings.Contains(s, "-") ||
		(strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")"))

	var cleaned strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			cleaned.WriteRune(r)
		}
	}
	c := cleaned.String()
	if c == "" {
		return decimal.Zero, false
	}

	lastDot := strings.LastIndexByte(c, '.')
	lastComma := strings.LastIndexByte(c, ',')

	normalized := c
	switch {
	case lastDot != -1 && lastComma != -1:
		// Both separators present: the one appearing later is the decimal
		// separator, the other is a thousands separator.
		if lastDot > lastComma {
			normalized = strings.ReplaceAll(c, ",", "")
		} else {
			normalized = strings.ReplaceAll(c, ".", "")
			normalized = strings.ReplaceAll(normalized, ",", ".")
		}
	case lastComma != -1:
		normalized = strings.ReplaceAll(c, ",", ".")
	}

	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, false
	}
	if negative {
		d = d.Neg()
	}
	return d, true
}
