package core

import (
	"math"
	"strings"
	"testing"
)

func TestParseBRL(t *testing.T) {
	cases := []struct {
		in  string
		out float64
		ok  bool
	}{
		{"R$ 1.234,56", 1234.56, true},
		{"1.234,56", 1234.56, true},
		{"R$1.000.000,00", 1000000, true},
		{"12,5", 12.5, true},
		{"  7 ", 7, true},
		{"R$ 150,00", 150, true},
		{"-R$ 10,00", -10, true},
		{"", 0, false},
		{"   ", 0, false},
		{"abc", 0, false},
		{"R$", 0, false},
		{"NaN", 0, false},
		{"1e400", 0, false},
		{"-1e400", 0, false},
		{"1" + strings.Repeat("0", 400), 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseBRLOK(tc.in)
		if ok != tc.ok || math.Abs(got-tc.out) > 1e-9 {
			t.Fatalf("%q expected (%v, %v), got (%v, %v)", tc.in, tc.out, tc.ok, got, ok)
		}
		if ParseBRL(tc.in) != got {
			t.Fatalf("%q ParseBRL disagrees with ParseBRLOK", tc.in)
		}
	}
}

func TestFormatBRLRoundTrip(t *testing.T) {
	for _, v := range []float64{0, 0.5, 1, 12.34, 999.99, 1234.56, 98765.4, 1250000} {
		s := FormatBRL(v)
		if !strings.HasPrefix(s, "R$ ") {
			t.Fatalf("FormatBRL(%v) = %q, want R$ prefix", v, s)
		}
		if back := ParseBRL(s); math.Abs(back-v) > 0.005 {
			t.Fatalf("round trip %v -> %q -> %v", v, s, back)
		}
	}
}

func TestFormatBRLNegativeAndNaN(t *testing.T) {
	if s := FormatBRL(-42.5); !strings.HasPrefix(s, "-R$ ") || ParseBRL(s) != -42.5 {
		t.Fatalf("unexpected negative formatting %q", s)
	}
	if s := FormatBRL(math.NaN()); ParseBRL(s) != 0 {
		t.Fatalf("NaN should format as zero, got %q", s)
	}
}

func TestFormatPercent(t *testing.T) {
	cases := map[float64]string{
		0:       "0,00%",
		12.5:    "12,50%",
		33.3333: "33,33%",
		-4.5:    "-4,50%",
	}
	for in, want := range cases {
		if got := FormatPercent(in); got != want {
			t.Fatalf("FormatPercent(%v) = %q, want %q", in, got, want)
		}
	}
}
