// Package format renders amounts the way a Dutch reader expects: dot as
// thousands separator, comma as decimal mark, euro sign in front.
package format

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.Dutch)

// Euro renders a whole-euro amount: "€ 1.234".
func Euro(amount float64) string {
	return printer.Sprintf("€ %v", number.Decimal(amount, number.MaxFractionDigits(0)))
}

// EuroCents renders an amount with cents: "€ 1.234,56".
func EuroCents(amount float64) string {
	return printer.Sprintf("€ %v", number.Decimal(amount,
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// PerKm renders a per-kilometre rate with two decimals: "€ 0,34/km".
func PerKm(amount float64) string {
	return printer.Sprintf("€ %v/km", number.Decimal(amount,
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// Percent renders a percentage with one decimal: "16,0%".
func Percent(pct float64) string {
	return printer.Sprintf("%v%%", number.Decimal(pct,
		number.MinFractionDigits(1), number.MaxFractionDigits(1)))
}

// Km renders a distance: "15.000 km".
func Km(km float64) string {
	return printer.Sprintf("%v km", number.Decimal(km, number.MaxFractionDigits(0)))
}
