// Package core holds the domain model and the pure derived-state
// computations: amortization, aggregation, and notification rules.
//
// This file contains money parsing and formatting helpers shared by the
// API boundary and the notification messages.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a user-entered decimal string into an amount.
// It accepts both dot (12.34) and comma (12,34) decimal separators and
// rejects non-numeric, negative, and zero values: amounts enter the ledger
// strictly positive, with direction carried by the transaction type.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatCurrency renders an amount as rupees with Indian digit grouping
// and no fractional digits, e.g. 1234567 -> "₹12,34,567".
func FormatCurrency(d decimal.Decimal) string {
	neg := d.IsNegative()
	whole := d.Abs().Round(0).String()

	// Indian grouping: last three digits, then pairs.
	var b strings.Builder
	n := len(whole)
	if n > 3 {
		head := whole[:n-3]
		for len(head) > 2 {
			// leftmost group may be shorter than two digits
			cut := len(head) % 2
			if cut == 0 {
				cut = 2
			}
			b.WriteString(head[:cut])
			b.WriteByte(',')
			head = head[cut:]
		}
		b.WriteString(head)
		b.WriteByte(',')
		b.WriteString(whole[n-3:])
	} else {
		b.WriteString(whole)
	}

	if neg {
		return "-₹" + b.String()
	}
	return "₹" + b.String()
}
