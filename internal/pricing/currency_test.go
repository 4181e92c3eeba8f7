package pricing

import "testing"

func TestFormatCurrencyMinorUnits(t *testing.T) {
	if got := FormatCurrency(1234.5, "SAR"); got != "SAR 1,234.50" {
		t.Fatalf("unexpected SAR formatting: %q", got)
	}
	if got := FormatCurrency(1234.0, "JPY"); got != "JPY 1,234" {
		t.Fatalf("unexpected JPY formatting: %q", got)
	}
}

func TestFormatCurrencyNormalizesCode(t *testing.T) {
	if got := FormatCurrency(100, " usd "); got != "USD 100.00" {
		t.Fatalf("unexpected USD formatting: %q", got)
	}
}

func TestFormatCurrencyUnknownCodeFallsBack(t *testing.T) {
	if got := FormatCurrency(123.456, "ZZZ"); got != "123.46 ZZZ" {
		t.Fatalf("unexpected fallback formatting: %q", got)
	}
}

func TestFormatCurrencyDeterministic(t *testing.T) {
	first := FormatCurrency(98765.4321, "EUR")
	second := FormatCurrency(98765.4321, "EUR")
	if first != second {
		t.Fatalf("formatting must be deterministic: %q vs %q", first, second)
	}
}
