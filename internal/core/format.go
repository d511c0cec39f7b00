package core

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.English)

// FormatQuantity renders a quantity with thousands separators and up to three
// fraction digits: 1234.5 → "1,234.5".
func FormatQuantity(d decimal.Decimal) string {
	return printer.Sprint(number.Decimal(d.InexactFloat64(), number.MaxFractionDigits(3)))
}

// FormatAmount renders a money amount with exactly two fraction digits: 7.5 → "7.50".
func FormatAmount(d decimal.Decimal) string {
	return printer.Sprint(number.Decimal(d.InexactFloat64(),
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// PieceUnit returns "pc" for exactly one piece and "pcs" otherwise.
func PieceUnit(d decimal.Decimal) string {
	if d.Equal(decimal.NewFromInt(1)) {
		return "pc"
	}
	return "pcs"
}

// FormatPieces renders a quantity followed by its unit: "15 pcs".
func FormatPieces(d decimal.Decimal) string {
	return FormatQuantity(d) + " " + PieceUnit(d)
}

// FormatRemaining renders a remaining balance in pieces, or "-" when nothing remains.
func FormatRemaining(d decimal.Decimal) string {
	if d.IsZero() {
		return "-"
	}
	return FormatPieces(d)
}
