package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "12.34", want: "12.34"},
		{in: "12,34", want: "12.34"},
		{in: " 500 ", want: "500"},
		{in: "0", wantErr: true},
		{in: "-5", wantErr: true},
		{in: "", wantErr: true},
		{in: "abc", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseAmount(%q) = %s, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q): %v", tt.in, err)
			}
			want, _ := decimal.NewFromString(tt.want)
			if !got.Equal(want) {
				t.Errorf("ParseAmount(%q) = %s, want %s", tt.in, got, want)
			}
		})
	}
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "₹0"},
		{999, "₹999"},
		{1000, "₹1,000"},
		{12345, "₹12,345"},
		{123456, "₹1,23,456"},
		{1234567, "₹12,34,567"},
		{12345678, "₹1,23,45,678"},
		{-1234567, "-₹12,34,567"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatCurrency(decimal.NewFromInt(tt.in)); got != tt.want {
				t.Errorf("FormatCurrency(%d) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatCurrencyRoundsFractions(t *testing.T) {
	if got := FormatCurrency(decimal.NewFromFloat(1234.56)); got != "₹1,235" {
		t.Errorf("FormatCurrency(1234.56) = %s, want ₹1,235", got)
	}
}
