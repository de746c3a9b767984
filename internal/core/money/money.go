// Package money formats amounts for display and for outbound payloads
package money

import (
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	printerOnce sync.Once
	usPrinter   *message.Printer
)

func printer() *message.Printer {
	printerOnce.Do(func() { usPrinter = message.NewPrinter(language.AmericanEnglish) })
	return usPrinter
}

// Cents rounds v to two decimals, half away from zero
func Cents(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// FormatUSD renders v as en-US dollars with grouping and two fraction digits
// negative amounts render as -$1,234.50
func FormatUSD(v float64) string {
	d := Cents(v)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	return sign + "$" + printer().Sprintf("%.2f", d.InexactFloat64())
}
