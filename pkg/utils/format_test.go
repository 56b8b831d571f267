package utils

import "testing"

func TestFormatUSD(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "$0.00"},
		{1, "$1.00"},
		{999.99, "$999.99"},
		{1000, "$1,000.00"},
		{1234567.89, "$1,234,567.89"},
		{-1234.5, "-$1,234.50"},
		{0.005, "$0.01"},
	}

	for _, tt := range tests {
		if got := FormatUSD(tt.amount); got != tt.want {
			t.Errorf("FormatUSD(%v) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestFormatPnL(t *testing.T) {
	tests := []struct {
		pnl  float64
		want string
	}{
		{250, "+$250.00"},
		{-250, "-$250.00"},
		{0, "$0.00"},
		{1500.5, "+$1,500.50"},
	}

	for _, tt := range tests {
		if got := FormatPnL(tt.pnl); got != tt.want {
			t.Errorf("FormatPnL(%v) = %q, want %q", tt.pnl, got, tt.want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{52.5, "+52.50%"},
		{-3.25, "-3.25%"},
		{0, "0.00%"},
	}

	for _, tt := range tests {
		if got := FormatPercent(tt.value); got != tt.want {
			t.Errorf("FormatPercent(%v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestFormatQuantity(t *testing.T) {
	tests := []struct {
		qty  int64
		want string
	}{
		{0, "0"},
		{100, "100"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-2500, "-2,500"},
	}

	for _, tt := range tests {
		if got := FormatQuantity(tt.qty); got != tt.want {
			t.Errorf("FormatQuantity(%d) = %q, want %q", tt.qty, got, tt.want)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{500, "$500.00"},
		{9999, "$9,999.00"},
		{10000, "10.0K"},
		{250000, "250.0K"},
		{1500000, "1.50M"},
		{-2000000, "-2.00M"},
	}

	for _, tt := range tests {
		if got := FormatCompact(tt.amount); got != tt.want {
			t.Errorf("FormatCompact(%v) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}
