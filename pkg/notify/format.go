package notify

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.French)

// FormatAmount formats an amount with French digit grouping and decimal
// separator, followed by the currency.
func FormatAmount(amount decimal.Decimal, currency string) string {
	formatted := printer.Sprint(number.Decimal(amount.Round(2).InexactFloat64(), number.MaxFractionDigits(2)))
	if currency == "" {
		return formatted
	}
	return formatted + " " + currency
}

// FormatPercent formats a percentage with one decimal.
func FormatPercent(percent decimal.Decimal) string {
	return printer.Sprint(number.Decimal(percent.Round(1).InexactFloat64(), number.MaxFractionDigits(1))) + " %"
}
