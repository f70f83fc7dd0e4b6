// Package format renders monetary amounts for display.
package format

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Style describes how a currency is written.
type Style struct {
	Symbol      string
	SymbolAfter bool
	Thousands   string
	Decimal     string
	Places      int32
}

var (
	// EUR writes whole euros the Spanish way, e.g. "35.000 €".
	EUR = Style{Symbol: "€", SymbolAfter: true, Thousands: ".", Decimal: ",", Places: 0}
	// EURReport writes euros with the English grouping of the report
	// tables, e.g. "5,317.20 €".
	EURReport = Style{Symbol: "€", SymbolAfter: true, Thousands: ",", Decimal: ".", Places: 2}
	// USD writes dollars and cents, e.g. "$1,234.56".
	USD = Style{Symbol: "$", Thousands: ",", Decimal: ".", Places: 2}
)

// Currency rounds amount half away from zero to the style's places and
// writes it with grouping separators and the currency symbol.
func Currency(amount float64, style Style) string {
	formatted := Number(amount, style)
	sign := ""
	if strings.HasPrefix(formatted, "-") {
		sign, formatted = "-", formatted[1:]
	}
	if style.SymbolAfter {
		return sign + formatted + " " + style.Symbol
	}
	return sign + style.Symbol + formatted
}

// Number writes amount like Currency but without the symbol.
func Number(amount float64, style Style) string {
	rounded := decimal.NewFromFloat(amount).Round(style.Places)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
	}

	fixed := rounded.Abs().StringFixed(style.Places)
	intPart, decPart, _ := strings.Cut(fixed, ".")
	intPart = group(intPart, style.Thousands)
	if decPart == "" {
		return sign + intPart
	}
	return sign + intPart + style.Decimal + decPart
}

// Percent writes a rate such as 0.0647 as "6.47%".
func Percent(rate float64) string {
	return decimal.NewFromFloat(rate).Shift(2).Round(2).String() + "%"
}

func group(digits, separator string) string {
	if len(digits) <= 3 || separator == "" {
		return digits
	}
	var builder strings.Builder
	for i, digit := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			builder.WriteString(separator)
		}
		builder.WriteRune(digit)
	}
	return builder.String()
}
