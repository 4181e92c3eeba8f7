package pricing

// OptionSummary is the final investment figure for one mutually-exclusive
// hotel option: its own category total plus everything shared across options.
type OptionSummary struct {
	HotelTotal  float64 `json:"hotelTotal"`
	SharedTotal float64 `json:"sharedTotal"`
	Total       float64 `json:"total"`
}

// Summary rolls all hotel options up against the shared categories.
type Summary struct {
	Options []OptionSummary `json:"options"`
	// SharedTotal is surfaced on its own when no hotel options exist so the
	// caller can render a "no options configured" state instead of silently
	// dropping the shared services from the document.
	SharedTotal float64 `json:"sharedTotal"`
	NoOptions   bool    `json:"noOptions"`
}

// BuildOptionSummary combines one hotel option's total with the shared total.
func BuildOptionSummary(hotelTotal, sharedTotal float64) OptionSummary {
	return OptionSummary{
		HotelTotal:  hotelTotal,
		SharedTotal: sharedTotal,
		Total:       hotelTotal + sharedTotal,
	}
}

// BuildSummary produces per-option grand totals. Flights priced as multiple
// alternatives are not part of sharedTotal; the caller summarizes each flight
// option in its own section and folds a lone flight option into the shared
// figure before calling here.
func BuildSummary(hotelTotals []float64, sharedTotal float64) Summary {
	if len(hotelTotals) == 0 {
		return Summary{SharedTotal: sharedTotal, NoOptions: true}
	}
	s := Summary{
		Options:     make([]OptionSummary, 0, len(hotelTotals)),
		SharedTotal: sharedTotal,
	}
	for _, hotelTotal := range hotelTotals {
		s.Options = append(s.Options, BuildOptionSummary(hotelTotal, sharedTotal))
	}
	return s
}
