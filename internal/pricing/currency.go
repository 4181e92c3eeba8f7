package pricing

import (
	"fmt"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var englishPrinter = message.NewPrinter(language.English)

// FormatCurrency renders an amount with locale-aware grouping and the
// standard minor-unit precision for the ISO 4217 code, e.g. "SAR 1,234.50"
// or "JPY 1,234". An unrecognised code never fails: it falls back to the
// plain "%.2f CODE" form, the same policy on every call site.
func FormatCurrency(amount float64, code string) string {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	unit, err := currency.ParseISO(normalized)
	if err != nil {
		return fmt.Sprintf("%.2f %s", amount, normalized)
	}
	scale, _ := currency.Standard.Rounding(unit)
	return englishPrinter.Sprintf("%s %v", unit.String(), number.Decimal(amount, number.Scale(scale)))
}
