package calc

import (
	"math"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want string
	}{
		{name: "integer", in: 42, want: "42"},
		{name: "negative", in: -7.5, want: "-7.5"},
		{name: "float noise", in: 0.1 + 0.2, want: "0.3"},
		{name: "repeating third", in: 1.0 / 3.0, want: "0.333333333333"},
		{name: "rounds up", in: 2.0 / 3.0, want: "0.666666666667"},
		{name: "twelve significant digits", in: 123456789012345, want: "123456789012000"},
		{name: "large without exponent", in: 1e21, want: "1000000000000000000000"},
		{name: "small without exponent", in: 1e-7, want: "0.0000001"},
		{name: "negative zero", in: math.Copysign(0, -1), want: "0"},
		{name: "nan", in: math.NaN(), want: "0"},
		{name: "positive infinity", in: math.Inf(1), want: "0"},
		{name: "negative infinity", in: math.Inf(-1), want: "0"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Format(tc.in); got != tc.want {
				t.Fatalf("Format(%v) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseDisplay(t *testing.T) {
	tests := map[string]float64{
		"0":     0,
		"0.":    0,
		"12.":   12,
		"-3.25": -3.25,
		"Error": 0,
	}
	for in, want := range tests {
		if got := ParseDisplay(in); got != want {
			t.Fatalf("ParseDisplay(%q) = %v, want %v", in, got, want)
		}
	}
}
