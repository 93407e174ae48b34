package utils

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// MoneyFormatter renders amounts for the UI. The primary currency has no
// minor unit; the derived currency is a display-only conversion with two decimals.
type MoneyFormatter struct {
	printer         *message.Printer
	primaryCurrency string
	derivedCurrency string
	derivedRate     float64
}

func NewMoneyFormatter(locale, primaryCurrency, derivedCurrency string, derivedRate float64) *MoneyFormatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.LatinAmericanSpanish
	}
	return &MoneyFormatter{
		printer:         message.NewPrinter(tag),
		primaryCurrency: primaryCurrency,
		derivedCurrency: derivedCurrency,
		derivedRate:     derivedRate,
	}
}

func (f *MoneyFormatter) PrimaryCurrency() string {
	return f.primaryCurrency
}

func (f *MoneyFormatter) DerivedCurrency() string {
	return f.derivedCurrency
}

func (f *MoneyFormatter) FormatPrimary(amount int64) string {
	return f.printer.Sprintf("%s %v", f.primaryCurrency, number.Decimal(amount, number.Scale(0)))
}

// FormatDerived converts amount with the configured rate. It returns "" when
// no derived currency is configured.
func (f *MoneyFormatter) FormatDerived(amount int64) string {
	if f.derivedCurrency == "" || f.derivedRate <= 0 {
		return ""
	}
	converted := float64(amount) * f.derivedRate
	return f.printer.Sprintf("%s %v", f.derivedCurrency, number.Decimal(converted, number.Scale(2)))
}
