package http

import (
	"testing"

	"vibes/internal/core"
)

func TestFormatBRL(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "R$ 0,00"},
		{5, "R$ 0,05"},
		{12050, "R$ 120,50"},
		{123456, "R$ 1.234,56"},
		{123456789, "R$ 1.234.567,89"},
		{-2500, "-R$ 25,00"},
	}
	for _, tc := range cases {
		if got := FormatBRL(core.Money{Cents: tc.cents}); got != tc.want {
			t.Errorf("FormatBRL(%d) = %q, want %q", tc.cents, got, tc.want)
		}
	}
}

func TestFormatPercentages(t *testing.T) {
	cases := []struct {
		v        float64
		signed   string
		unsigned string
	}{
		{12.5, "+12.5%", "12.5%"},
		{-3.25, "-3.3%", "-3.3%"},
		{0, "0.0%", "0.0%"},
		{-0.01, "0.0%", "0.0%"},
		{100, "+100.0%", "100.0%"},
	}
	for _, tc := range cases {
		if got := FormatSignedPercent(tc.v); got != tc.signed {
			t.Errorf("FormatSignedPercent(%v) = %q, want %q", tc.v, got, tc.signed)
		}
		if got := FormatPercent(tc.v); got != tc.unsigned {
			t.Errorf("FormatPercent(%v) = %q, want %q", tc.v, got, tc.unsigned)
		}
	}
}

func TestResultsLabel(t *testing.T) {
	if got := ResultsLabel(10, 1234); got != "Mostrando 10 de 1.234 resultados" {
		t.Errorf("ResultsLabel = %q", got)
	}
	if got := ResultsLabel(0, 0); got != "Mostrando 0 de 0 resultados" {
		t.Errorf("ResultsLabel = %q", got)
	}
}

func TestAmountInput(t *testing.T) {
	if got := amountInput(core.Money{}); got != "" {
		t.Errorf("zero amount should render empty, got %q", got)
	}
	if got := amountInput(core.Money{Cents: 123456}); got != "1.234,56" {
		t.Errorf("amountInput = %q", got)
	}
}
