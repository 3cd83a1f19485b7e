package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"INR": "₹",
	"AUD": "A$",
	"CAD": "C$",
}

// Symbol returns the display prefix for a currency code: a symbol when one
// is known, otherwise the upper-cased code and a space.
func Symbol(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if s, ok := currencySymbols[code]; ok {
		return s
	}
	if code == "" {
		return ""
	}
	return code + " "
}

// Amount rounds d half away from zero to 2 places, e.g. "1234.50".
func Amount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatMoney renders d with a currency prefix and thousands separators,
// e.g. "€1,234.50". This is the only place amounts are rounded for display.
func FormatMoney(d decimal.Decimal, code string) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(Symbol(code))
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}
