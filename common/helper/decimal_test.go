package helper

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestTrimDecimal(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"123.456", "123.46"},
		{"123.454", "123.45"},
		{"0", "0.00"},
		{"-1.005", "-1.01"},
	}
	for _, c := range cases {
		d, err := decimal.NewFromString(c.in)
		if err != nil {
			t.Fatalf("parse %q: %v", c.in, err)
		}
		if got := TrimDecimal(d); got != c.want {
			t.Fatalf("TrimDecimal(%s) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestFormatUnits(t *testing.T) {
	cases := []struct {
		units int64
		want  string
	}{
		{12345, "123.45"},
		{100, "1.00"},
		{5, "0.05"},
		{0, "0.00"},
		{-250, "-2.50"},
	}
	for _, c := range cases {
		if got := FormatUnits(c.units); got != c.want {
			t.Fatalf("FormatUnits(%d) = %s, want %s", c.units, got, c.want)
		}
	}
}
