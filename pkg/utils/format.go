// Package utils provides shared utility functions.
package utils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatBRL formats an amount in Brazilian currency format
// (R$ 1.234.567,89: dot-grouped thousands, comma decimal separator).
func FormatBRL(amount decimal.Decimal) string {
	negative := amount.IsNegative()
	str := amount.Abs().StringFixed(2)

	parts := strings.Split(str, ".")
	intPart := parts[0]
	decPart := parts[1]

	result := "R$ " + groupThousands(intPart) + "," + decPart
	if negative {
		result = "-" + result
	}
	return result
}

// groupThousands inserts dots every three digits from the right.
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	var b strings.Builder
	lead := n % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteString(".")
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatPercent formats a percentage with sign.
func FormatPercent(value decimal.Decimal) string {
	sign := ""
	if value.IsPositive() {
		sign = "+"
	}
	return sign + value.StringFixed(2) + "%"
}

// FormatPnL formats a P&L amount with an explicit sign on gains.
func FormatPnL(pnl decimal.Decimal) string {
	formatted := FormatBRL(pnl)
	if pnl.IsPositive() {
		return "+" + formatted
	}
	return formatted
}

// FormatQuantity formats a quantity with thousand grouping.
func FormatQuantity(qty int) string {
	if qty < 0 {
		return "-" + groupThousands(fmt.Sprintf("%d", -qty))
	}
	return groupThousands(fmt.Sprintf("%d", qty))
}
