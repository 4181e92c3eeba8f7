package pricing

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidInput is returned when a numeric input cannot be priced.
	ErrInvalidInput = errors.New("pricing: invalid input")
	// ErrUnknownMarkupType indicates a markup kind outside the two supported variants.
	ErrUnknownMarkupType = errors.New("pricing: unknown markup type")
	// ErrUnknownVatRule indicates a VAT rule outside the two supported variants.
	ErrUnknownVatRule = errors.New("pricing: unknown vat rule")
)

// MarkupKind selects how the agency margin is applied to the net price.
type MarkupKind string

const (
	// MarkupPercent applies the markup value as a percentage of the net total.
	MarkupPercent MarkupKind = "percent"
	// MarkupFixed applies the markup value as a flat amount per unit per duration.
	MarkupFixed MarkupKind = "fixed"
)

// VatRule selects which taxable base VAT is charged on.
type VatRule string

const (
	// VatDomestic charges VAT on the full marked-up price.
	VatDomestic VatRule = "domestic"
	// VatInternational charges VAT on the markup only; the underlying net
	// cost is sourced abroad and exempt from local VAT.
	VatInternational VatRule = "international"
)

// MarkupConfig describes the margin applied to one service category.
type MarkupConfig struct {
	Kind  MarkupKind `json:"type"`
	Value float64    `json:"value"`
}

// Breakdown is the computed price of a single line item. It is a pure value,
// recomputed from inputs wherever it is needed and never persisted.
type Breakdown struct {
	SubTotal   float64 `json:"subTotal"`
	VatAmount  float64 `json:"vatAmount"`
	GrandTotal float64 `json:"grandTotal"`
}

// Add returns the component-wise sum of two breakdowns.
func (b Breakdown) Add(other Breakdown) Breakdown {
	return Breakdown{
		SubTotal:   b.SubTotal + other.SubTotal,
		VatAmount:  b.VatAmount + other.VatAmount,
		GrandTotal: b.GrandTotal + other.GrandTotal,
	}
}

// CategoryMarkups maps each service category to its markup configuration.
type CategoryMarkups struct {
	Hotels         MarkupConfig `json:"hotels"`
	Meetings       MarkupConfig `json:"meetings"`
	Flights        MarkupConfig `json:"flights"`
	Transportation MarkupConfig `json:"transportation"`
	Activities     MarkupConfig `json:"activities"`
	CustomItems    MarkupConfig `json:"customItems"`
}

// Config is the proposal-level pricing configuration threaded through every
// calculation. There are no package-level defaults; callers supply every
// input explicitly.
type Config struct {
	Currency   string          `json:"currency"`
	VatPercent float64         `json:"vatPercent"`
	Markups    CategoryMarkups `json:"markups"`
}

// ComputeBreakdown turns one line item's pricing inputs into a breakdown.
//
// The net total scales multiplicatively with quantity and duration. A fixed
// markup is a per-unit-per-duration flat fee scaled the same way; a percent
// markup scales automatically through the net total. Domestic VAT is charged
// on the full marked-up price, international VAT on the margin only.
//
// Garbage numeric input (NaN, Inf, negatives where they make no sense) is
// rejected up front instead of propagating into a customer-facing total.
func ComputeBreakdown(netUnitPrice float64, markup MarkupConfig, rule VatRule, vatPercent float64, quantity, durationUnits int) (Breakdown, error) {
	if err := checkFinite("netUnitPrice", netUnitPrice); err != nil {
		return Breakdown{}, err
	}
	if err := checkFinite("markup.value", markup.Value); err != nil {
		return Breakdown{}, err
	}
	if err := checkFinite("vatPercent", vatPercent); err != nil {
		return Breakdown{}, err
	}
	if quantity < 0 {
		return Breakdown{}, fmt.Errorf("%w: quantity is negative", ErrInvalidInput)
	}
	if durationUnits < 0 {
		return Breakdown{}, fmt.Errorf("%w: durationUnits is negative", ErrInvalidInput)
	}

	scale := float64(quantity) * float64(durationUnits)
	totalNet := netUnitPrice * scale

	var markupAmount float64
	switch markup.Kind {
	case MarkupFixed:
		markupAmount = markup.Value * scale
	case MarkupPercent:
		markupAmount = totalNet * (markup.Value / 100)
	default:
		return Breakdown{}, fmt.Errorf("%w: %q", ErrUnknownMarkupType, markup.Kind)
	}

	basePrice := totalNet + markupAmount

	var vatAmount float64
	switch rule {
	case VatDomestic:
		vatAmount = basePrice * (vatPercent / 100)
	case VatInternational:
		vatAmount = markupAmount * (vatPercent / 100)
	default:
		return Breakdown{}, fmt.Errorf("%w: %q", ErrUnknownVatRule, rule)
	}

	return Breakdown{
		SubTotal:   basePrice,
		VatAmount:  vatAmount,
		GrandTotal: basePrice + vatAmount,
	}, nil
}

func checkFinite(field string, v float64) error {
	if math.IsNaN(v) {
		return fmt.Errorf("%w: %s is NaN", ErrInvalidInput, field)
	}
	if math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s is infinite", ErrInvalidInput, field)
	}
	return nil
}
