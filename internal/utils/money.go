package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatMoney keeps consistent decimal formatting for currency fields.
func FormatMoney(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// FormatRupee renders an amount with thousand separators, e.g. "Rs 12,345.60".
func FormatRupee(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}
	fixed := amount.StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")
	return sign + "Rs " + formatThousand(whole) + "." + frac
}

func formatThousand(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var out strings.Builder
	for i, c := range digits {
		if i != 0 && (len(digits)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(c)
	}
	return out.String()
}
