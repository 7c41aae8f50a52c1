package utils

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatBRL(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"0", "R$ 0,00"},
		{"1", "R$ 1,00"},
		{"1234.5", "R$ 1.234,50"},
		{"1234567.89", "R$ 1.234.567,89"},
		{"-1234567.89", "-R$ 1.234.567,89"},
		{"999", "R$ 999,00"},
		{"1000", "R$ 1.000,00"},
		{"0.05", "R$ 0,05"},
		{"-0.05", "-R$ 0,05"},
	}

	for _, tt := range tests {
		got := FormatBRL(decimal.RequireFromString(tt.amount))
		if got != tt.want {
			t.Errorf("FormatBRL(%s) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"84.5", "+84.50%"},
		{"0", "0.00%"},
		{"-12.345", "-12.35%"},
	}

	for _, tt := range tests {
		got := FormatPercent(decimal.RequireFromString(tt.value))
		if got != tt.want {
			t.Errorf("FormatPercent(%s) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestFormatPnL(t *testing.T) {
	if got := FormatPnL(decimal.RequireFromString("10")); got != "+R$ 10,00" {
		t.Errorf("FormatPnL(10) = %q", got)
	}
	if got := FormatPnL(decimal.RequireFromString("-10")); got != "-R$ 10,00" {
		t.Errorf("FormatPnL(-10) = %q", got)
	}
	if got := FormatPnL(decimal.Zero); got != "R$ 0,00" {
		t.Errorf("FormatPnL(0) = %q", got)
	}
}

func TestFormatQuantity(t *testing.T) {
	tests := []struct {
		qty  int
		want string
	}{
		{0, "0"},
		{100, "100"},
		{1000, "1.000"},
		{1234567, "1.234.567"},
		{-5000, "-5.000"},
	}

	for _, tt := range tests {
		if got := FormatQuantity(tt.qty); got != tt.want {
			t.Errorf("FormatQuantity(%d) = %q, want %q", tt.qty, got, tt.want)
		}
	}
}
