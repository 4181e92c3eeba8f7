package quote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/sitc-travel/backend-proposal/internal/common"
	"github.com/sitc-travel/backend-proposal/internal/obs"
	"github.com/sitc-travel/backend-proposal/internal/pricing"
	"github.com/sitc-travel/backend-proposal/internal/proposal"
)

// Row is one priced display line.
type Row struct {
	Description        string  `json:"description"`
	UnitPrice          float64 `json:"unitPrice"`
	UnitPriceFormatted string  `json:"unitPriceFormatted"`
	Duration           int     `json:"duration"`
	Quantity           int     `json:"quantity"`
	Subtotal           float64 `json:"subtotal"`
	SubtotalFormatted  string  `json:"subtotalFormatted"`
}

// Table is one priced category table.
type Table struct {
	Title          string  `json:"title"`
	Rows           []Row   `json:"rows"`
	Total          float64 `json:"total"`
	TotalFormatted string  `json:"totalFormatted"`
}

// FlightLine is one fare-class line within a flight section.
type FlightLine struct {
	Class          string  `json:"class"`
	Seats          int     `json:"seats"`
	Total          float64 `json:"total"`
	TotalFormatted string  `json:"totalFormatted"`
}

// Flight is one flight alternative with its per-class cost estimate.
type Flight struct {
	Title          string       `json:"title"`
	Route          string       `json:"route"`
	Lines          []FlightLine `json:"lines"`
	Total          float64      `json:"total"`
	TotalFormatted string       `json:"totalFormatted"`
}

// OptionSummary is the investment summary for one accommodation option.
type OptionSummary struct {
	Title          string  `json:"title"`
	Rows           []Row   `json:"rows"`
	HotelTotal     float64 `json:"hotelTotal"`
	SharedTotal    float64 `json:"sharedTotal"`
	Total          float64 `json:"total"`
	TotalFormatted string  `json:"totalFormatted"`
}

// Quote is the full computed view of a proposal document.
type Quote struct {
	Currency        string          `json:"currency"`
	VatPercent      float64         `json:"vatPercent"`
	ShowPrices      bool            `json:"showPrices"`
	HotelTables     []Table         `json:"hotelTables"`
	Flights         []Flight        `json:"flights"`
	SharedTables    []Table         `json:"sharedTables"`
	Summaries       []OptionSummary `json:"summaries"`
	FlightSummaries []Flight        `json:"flightSummaries"`
	SharedTotal     float64         `json:"sharedTotal"`
	NoOptions       bool            `json:"noOptions"`
}

// Build computes the full quote for a normalized document. It is pure: the
// document in, the priced view out, no I/O.
func Build(doc proposal.Document) (Quote, error) {
	markups := doc.Pricing.Markups
	if markups == nil {
		return Quote{}, fmt.Errorf("quote: document missing markups")
	}
	vat := doc.Pricing.EffectiveVatPercent()
	currency := doc.Pricing.Currency
	inclusions := doc.Inclusions
	if inclusions == nil {
		return Quote{}, fmt.Errorf("quote: document missing inclusions")
	}

	q := Quote{
		Currency:   currency,
		VatPercent: vat,
		ShowPrices: proposal.Flag(doc.Pricing.ShowPrices),
	}

	var hotelTotals []float64
	if inclusions.Hotels {
		for i, hotel := range doc.HotelOptions {
			detail, err := hotelTable(hotel, *markups, vat, currency, i, false)
			if err != nil {
				return Quote{}, err
			}
			q.HotelTables = append(q.HotelTables, detail)

			summary, err := hotelTable(hotel, *markups, vat, currency, i, true)
			if err != nil {
				return Quote{}, err
			}
			hotelTotals = append(hotelTotals, summary.Total)
			q.Summaries = append(q.Summaries, OptionSummary{
				Title:      fmt.Sprintf("Accommodation Option %d", i+1),
				Rows:       summary.Rows,
				HotelTotal: summary.Total,
			})
		}
	}

	shared := 0.0
	if inclusions.Transportation {
		table, err := sharedTable("Transportation", transportItems(doc.Transportation), markups.Transportation, vat, currency)
		if err != nil {
			return Quote{}, err
		}
		if len(table.Rows) > 0 {
			q.SharedTables = append(q.SharedTables, table)
		}
		shared += table.Total
	}
	if inclusions.CustomItems {
		table, err := sharedTable("Additional Services", customItems(doc.CustomItems), markups.CustomItems, vat, currency)
		if err != nil {
			return Quote{}, err
		}
		if len(table.Rows) > 0 {
			q.SharedTables = append(q.SharedTables, table)
		}
		shared += table.Total
	}
	if inclusions.Activities {
		table, err := sharedTable("Activities", activityItems(doc.Activities), markups.Activities, vat, currency)
		if err != nil {
			return Quote{}, err
		}
		if len(table.Rows) > 0 {
			q.SharedTables = append(q.SharedTables, table)
		}
		shared += table.Total
	}

	if inclusions.Flights {
		for i, opt := range doc.FlightOptions {
			section, err := flightSection(opt, markups.Flights, vat, currency, i)
			if err != nil {
				return Quote{}, err
			}
			q.Flights = append(q.Flights, section)
		}
		// A single flight alternative is part of every option's cost, unless
		// its inclusion flag opts it out of the rollup. Two or more are
		// mutually exclusive and get their own summaries instead.
		if len(q.Flights) == 1 {
			if proposal.Flag(doc.FlightOptions[0].IncludeInSummary) {
				shared += q.Flights[0].Total
			}
		} else {
			q.FlightSummaries = append(q.FlightSummaries, q.Flights...)
		}
	}
	q.SharedTotal = shared

	rollup := pricing.BuildSummary(hotelTotals, shared)
	q.NoOptions = rollup.NoOptions
	for i := range rollup.Options {
		q.Summaries[i].SharedTotal = rollup.Options[i].SharedTotal
		q.Summaries[i].Total = rollup.Options[i].Total
		q.Summaries[i].TotalFormatted = pricing.FormatCurrency(rollup.Options[i].Total, currency)
	}
	return q, nil
}

// hotelTable merges rooms, meeting rooms and dining into one table. The
// detail view shows and counts every line; the summary view honours each
// line's inclusion flag and qualifies room names with the hotel's.
func hotelTable(hotel proposal.HotelOption, markups pricing.CategoryMarkups, vat float64, currency string, index int, summaryView bool) (Table, error) {
	var items []pricing.LineItem
	var itemMarkups []pricing.MarkupConfig

	for _, r := range hotel.RoomTypes {
		desc := "Accommodation: " + r.Name
		if summaryView {
			desc = fmt.Sprintf("Accommodation: %s - %s", hotel.Name, r.Name)
		}
		items = append(items, pricing.LineItem{
			Description:      desc,
			NetUnitPrice:     r.NetPrice,
			Quantity:         r.Quantity,
			DurationUnits:    r.NumNights,
			VatRule:          hotel.VatRule,
			IncludeInSummary: !summaryView || proposal.Flag(r.IncludeInSummary),
		})
		itemMarkups = append(itemMarkups, markups.Hotels)
	}
	for _, m := range hotel.MeetingRooms {
		desc := "Meeting room: " + m.Name
		if summaryView {
			desc = "Event: " + m.Name
		}
		items = append(items, pricing.LineItem{
			Description:      desc,
			NetUnitPrice:     m.Price,
			Quantity:         m.Quantity,
			DurationUnits:    m.Days,
			VatRule:          hotel.VatRule,
			IncludeInSummary: !summaryView || proposal.Flag(m.IncludeInSummary),
		})
		itemMarkups = append(itemMarkups, markups.Meetings)
	}
	for _, d := range hotel.Dining {
		items = append(items, pricing.LineItem{
			Description:      "Dining: " + d.Name,
			NetUnitPrice:     d.Price,
			Quantity:         d.Quantity,
			DurationUnits:    d.Days,
			VatRule:          hotel.VatRule,
			IncludeInSummary: !summaryView || proposal.Flag(d.IncludeInSummary),
		})
		itemMarkups = append(itemMarkups, markups.Meetings)
	}

	table := Table{Title: fmt.Sprintf("Accommodation Option %d", index+1)}
	for i, item := range items {
		cat, err := pricing.AggregateCategory([]pricing.LineItem{item}, itemMarkups[i], vat, pricing.AggregateOptions{})
		if err != nil {
			return Table{}, fmt.Errorf("quote: hotel option %d: %w", index+1, err)
		}
		for _, row := range cat.Rows {
			table.Rows = append(table.Rows, formatRow(row, currency))
		}
		table.Total += cat.Total
	}
	table.TotalFormatted = pricing.FormatCurrency(table.Total, currency)
	return table, nil
}

func sharedTable(title string, items []pricing.LineItem, markup pricing.MarkupConfig, vat float64, currency string) (Table, error) {
	cat, err := pricing.AggregateCategory(items, markup, vat, pricing.AggregateOptions{})
	if err != nil {
		return Table{}, fmt.Errorf("quote: %s: %w", title, err)
	}
	table := Table{Title: title, Total: cat.Total, TotalFormatted: pricing.FormatCurrency(cat.Total, currency)}
	for _, row := range cat.Rows {
		table.Rows = append(table.Rows, formatRow(row, currency))
	}
	return table, nil
}

func flightSection(opt proposal.FlightOption, markup pricing.MarkupConfig, vat float64, currency string, index int) (Flight, error) {
	total, err := pricing.AggregateFlightQuotes(opt.Quotes, markup, opt.VatRule, vat)
	if err != nil {
		return Flight{}, fmt.Errorf("quote: flight option %d: %w", index+1, err)
	}
	section := Flight{
		Title:          fmt.Sprintf("Flight Option %d", index+1),
		Route:          opt.RouteDescription,
		Total:          total.GrandTotal,
		TotalFormatted: pricing.FormatCurrency(total.GrandTotal, currency),
	}
	for _, fq := range opt.Quotes {
		bd, err := pricing.ComputeBreakdown(fq.Price, markup, opt.VatRule, vat, fq.Quantity, 1)
		if err != nil {
			return Flight{}, fmt.Errorf("quote: flight option %d: %w", index+1, err)
		}
		section.Lines = append(section.Lines, FlightLine{
			Class:          fq.Class,
			Seats:          fq.Quantity,
			Total:          bd.GrandTotal,
			TotalFormatted: pricing.FormatCurrency(bd.GrandTotal, currency),
		})
	}
	return section, nil
}

func transportItems(items []proposal.TransportItem) []pricing.LineItem {
	out := make([]pricing.LineItem, 0, len(items))
	for _, t := range items {
		desc := t.Model
		if desc == "" {
			desc = t.Type
		}
		out = append(out, pricing.LineItem{
			Description:      desc,
			NetUnitPrice:     t.NetPricePerDay,
			Quantity:         t.Quantity,
			DurationUnits:    t.Days,
			VatRule:          t.VatRule,
			IncludeInSummary: proposal.Flag(t.IncludeInSummary),
		})
	}
	return out
}

func customItems(items []proposal.CustomItem) []pricing.LineItem {
	out := make([]pricing.LineItem, 0, len(items))
	for _, c := range items {
		out = append(out, pricing.LineItem{
			Description:      c.Description,
			NetUnitPrice:     c.UnitPrice,
			Quantity:         c.Quantity,
			DurationUnits:    c.Days,
			VatRule:          c.VatRule,
			IncludeInSummary: proposal.Flag(c.IncludeInSummary),
		})
	}
	return out
}

func activityItems(items []proposal.Activity) []pricing.LineItem {
	out := make([]pricing.LineItem, 0, len(items))
	for _, a := range items {
		out = append(out, pricing.LineItem{
			Description:      a.Name,
			NetUnitPrice:     a.PricePerPerson,
			Quantity:         a.Guests,
			DurationUnits:    a.Days,
			VatRule:          a.VatRule,
			IncludeInSummary: proposal.Flag(a.IncludeInSummary),
		})
	}
	return out
}

func formatRow(row pricing.Row, currency string) Row {
	return Row{
		Description:        row.Description,
		UnitPrice:          row.UnitPrice,
		UnitPriceFormatted: pricing.FormatCurrency(row.UnitPrice, currency),
		Duration:           row.Duration,
		Quantity:           row.Quantity,
		Subtotal:           row.Subtotal,
		SubtotalFormatted:  pricing.FormatCurrency(row.Subtotal, currency),
	}
}

// Service computes quotes for stored proposals with a short-lived cache in
// front of the pure builder.
type Service struct {
	Proposals *proposal.Service
	Cache     *Cache
	Log       zerolog.Logger
}

// ForProposal loads the proposal visible to the principal and returns its
// quote, served from cache when the document has not changed since.
func (s *Service) ForProposal(ctx context.Context, principal common.Principal, id string) (Quote, error) {
	p, err := s.Proposals.Get(ctx, principal, id)
	if err != nil {
		return Quote{}, err
	}
	if s.Cache != nil {
		if cached, ok := s.Cache.Get(ctx, p.ID, p.LastModified); ok {
			obs.QuoteCacheTotal.WithLabelValues("hit").Inc()
			obs.QuotesComputedTotal.WithLabelValues("stored", "cached").Inc()
			return cached, nil
		}
		obs.QuoteCacheTotal.WithLabelValues("miss").Inc()
	}

	start := time.Now()
	q, err := Build(p.Document)
	if err != nil {
		obs.QuotesComputedTotal.WithLabelValues("stored", "error").Inc()
		return Quote{}, asQuoteError(err)
	}
	obs.QuoteBuildLatency.Observe(obs.DurationMillis(time.Since(start)))
	obs.QuotesComputedTotal.WithLabelValues("stored", "ok").Inc()

	if s.Cache != nil {
		if err := s.Cache.Put(ctx, p.ID, p.LastModified, q); err != nil {
			s.Log.Warn().Err(err).Str("proposal_id", p.ID).Msg("cache quote")
		}
	}
	return q, nil
}

// Preview computes a quote over a posted document without touching storage.
func (s *Service) Preview(doc proposal.Document) (Quote, error) {
	start := time.Now()
	q, err := Build(s.Proposals.Normalize(doc))
	if err != nil {
		obs.QuotesComputedTotal.WithLabelValues("preview", "error").Inc()
		return Quote{}, asQuoteError(err)
	}
	obs.QuoteBuildLatency.Observe(obs.DurationMillis(time.Since(start)))
	obs.QuotesComputedTotal.WithLabelValues("preview", "ok").Inc()
	return q, nil
}

// asQuoteError turns engine rejections into client errors; anything else is
// an internal failure.
func asQuoteError(err error) error {
	if errors.Is(err, pricing.ErrInvalidInput) ||
		errors.Is(err, pricing.ErrUnknownMarkupType) ||
		errors.Is(err, pricing.ErrUnknownVatRule) {
		return common.NewAppError("UNPROCESSABLE", err.Error(), http.StatusUnprocessableEntity, err)
	}
	return err
}
