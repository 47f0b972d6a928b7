package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// Symbol is the currency sign prepended to formatted amounts.
	Symbol = "₦"
	// Code is the ISO 4217 code, for outputs limited to Latin-1 fonts.
	Code = "NGN"
)

// Format renders an amount as naira with two decimals and thousands
// separators, e.g. ₦1,234.50 or -₦70.00.
func Format(amount decimal.Decimal) string {
	return format(amount, Symbol)
}

// FormatCode is Format with the currency code, e.g. NGN 1,234.50.
func FormatCode(amount decimal.Decimal) string {
	return format(amount, Code+" ")
}

func format(amount decimal.Decimal, prefix string) string {
	fixed := amount.Abs().StringFixed(2)
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if amount.Round(2).IsNegative() {
		b.WriteByte('-')
	}
	b.WriteString(prefix)
	b.WriteString(groupThousands(intPart))
	b.WriteByte('.')
	b.WriteString(fracPart)
	return b.String()
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var parts []string
	for i := len(digits); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		parts = append([]string{digits[start:i]}, parts...)
	}
	return strings.Join(parts, ",")
}
