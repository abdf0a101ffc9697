package utils

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"", 0},
		{"   ", 0},
		{"120", 120},
		{"120.50", 120.5},
		{"$120.50", 120.5},
		{"$1,234.56", 1234.56},
		{" $ 99 ", 99},
		{"0.1", 0.1},
		{"-40", 0},
		{"-0.01", 0},
		{"abc", 0},
		{"12.3.4", 0},
		{"$", 0},
		{"1e5", 0},
		{"12.", 0},
		{".5", 0},
	}
	for _, c := range cases {
		if got := ParseAmount(c.in); got != c.want {
			t.Errorf("ParseAmount(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestRound2(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{1.005, 1.0},
		{1.015, 1.01},
		{38.625, 38.63},
		{170.0, 170.0},
		{0.125, 0.13},
	}
	for _, c := range cases {
		if got := Round2(c.in); got != c.want {
			t.Errorf("Round2(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestFormatUSD(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{5, "$5.00"},
		{1234.5, "$1,234.50"},
		{1234567.89, "$1,234,567.89"},
		{999.999, "$1,000.00"},
	}
	for _, c := range cases {
		if got := FormatUSD(c.in); got != c.want {
			t.Errorf("FormatUSD(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatWholeUSD(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "$0"},
		{15.4, "$15"},
		{15.5, "$16"},
		{1234, "$1,234"},
	}
	for _, c := range cases {
		if got := FormatWholeUSD(c.in); got != c.want {
			t.Errorf("FormatWholeUSD(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}
