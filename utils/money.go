package utils

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var amountPattern = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// ParseAmount converts a free-form dollar field into a float. Currency
// symbols, commas and spaces are stripped first. Anything that still
// does not look like a number becomes 0, and negatives clamp to 0 so a
// stray minus sign cannot reduce another category's total.
func ParseAmount(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	if !amountPattern.MatchString(s) {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// Round2 rounds to cents.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// RoundDollars rounds to the nearest whole dollar.
func RoundDollars(v float64) float64 {
	return math.Round(v)
}

// FormatUSD renders a value like $1,234.50.
func FormatUSD(v float64) string {
	s := strconv.FormatFloat(Round2(v), 'f', 2, 64)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	dot := strings.IndexByte(s, '.')
	out := "$" + comma(s[:dot]) + s[dot:]
	if neg {
		out = "-" + out
	}
	return out
}

// FormatWholeUSD renders a value like $1,234 with no cents.
func FormatWholeUSD(v float64) string {
	s := strconv.FormatFloat(RoundDollars(v), 'f', 0, 64)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	out := "$" + comma(s)
	if neg {
		out = "-" + out
	}
	return out
}

func comma(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	lead := n % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
