package pricing

// LineItem is one priceable entity handed to the aggregator. Category-specific
// adapters map their own field names (netPrice/numNights, pricePerPerson/guests,
// netPricePerDay/days, ...) onto this shape before calling in.
type LineItem struct {
	Description      string
	NetUnitPrice     float64
	Quantity         int
	DurationUnits    int
	VatRule          VatRule
	IncludeInSummary bool
}

// Row is one display line of a category table.
type Row struct {
	Description string  `json:"description"`
	UnitPrice   float64 `json:"unitPrice"`
	Duration    int     `json:"duration"`
	Quantity    int     `json:"quantity"`
	Subtotal    float64 `json:"subtotal"`
	Included    bool    `json:"included"`
}

// Category is the aggregated result for one service category.
type Category struct {
	Rows  []Row   `json:"rows"`
	Total float64 `json:"total"`
}

// AggregateOptions controls how excluded items are surfaced.
type AggregateOptions struct {
	// IncludeExcluded keeps items flagged out of the summary visible as rows.
	// They never contribute to the category total either way.
	IncludeExcluded bool
}

// FlightQuote is a single fare-class quote within a flight option.
type FlightQuote struct {
	Class    string  `json:"class"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// AggregateCategory prices every line item with its own VAT rule and the
// category's shared markup, preserving input order. Items excluded from the
// summary are skipped entirely unless opts.IncludeExcluded is set, in which
// case they appear as rows but still do not count toward the total.
func AggregateCategory(items []LineItem, markup MarkupConfig, vatPercent float64, opts AggregateOptions) (Category, error) {
	out := Category{Rows: make([]Row, 0, len(items))}
	for _, item := range items {
		if !item.IncludeInSummary && !opts.IncludeExcluded {
			continue
		}
		bd, err := ComputeBreakdown(item.NetUnitPrice, markup, item.VatRule, vatPercent, item.Quantity, item.DurationUnits)
		if err != nil {
			return Category{}, err
		}
		unitPrice := 0.0
		if item.Quantity > 0 {
			unitPrice = bd.GrandTotal / float64(item.Quantity)
		}
		out.Rows = append(out.Rows, Row{
			Description: item.Description,
			UnitPrice:   unitPrice,
			Duration:    item.DurationUnits,
			Quantity:    item.Quantity,
			Subtotal:    bd.GrandTotal,
			Included:    item.IncludeInSummary,
		})
		if item.IncludeInSummary {
			out.Total += bd.GrandTotal
		}
	}
	return out, nil
}

// AggregateFlightQuotes prices a flight option. Each fare class carries an
// independent net price, so the option total is the sum of per-quote
// breakdowns with duration fixed at 1, not a single blended breakdown.
func AggregateFlightQuotes(quotes []FlightQuote, markup MarkupConfig, rule VatRule, vatPercent float64) (Breakdown, error) {
	var total Breakdown
	for _, q := range quotes {
		bd, err := ComputeBreakdown(q.Price, markup, rule, vatPercent, q.Quantity, 1)
		if err != nil {
			return Breakdown{}, err
		}
		total = total.Add(bd)
	}
	return total, nil
}
