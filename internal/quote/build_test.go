package quote_test

import (
	"math"
	"testing"

	"github.com/sitc-travel/backend-proposal/internal/pricing"
	"github.com/sitc-travel/backend-proposal/internal/proposal"
	"github.com/sitc-travel/backend-proposal/internal/quote"
)

func boolPtr(v bool) *bool        { return &v }
func floatPtr(v float64) *float64 { return &v }

func percent(v float64) pricing.MarkupConfig {
	return pricing.MarkupConfig{Kind: pricing.MarkupPercent, Value: v}
}

func baseDoc() proposal.Document {
	return proposal.Document{
		Pricing: proposal.PricingConfig{
			Currency:   "SAR",
			EnableVat:  boolPtr(true),
			VatPercent: floatPtr(15),
			ShowPrices: boolPtr(true),
			Markups: &pricing.CategoryMarkups{
				Hotels:         percent(10),
				Meetings:       percent(10),
				Flights:        percent(10),
				Transportation: percent(10),
				Activities:     percent(10),
				CustomItems:    percent(10),
			},
		},
		Inclusions: &proposal.Inclusions{
			Hotels:         true,
			Flights:        true,
			Transportation: true,
			Activities:     true,
			CustomItems:    true,
		},
	}
}

func TestBuildHotelOption(t *testing.T) {
	doc := baseDoc()
	doc.HotelOptions = []proposal.HotelOption{{
		Name:    "Grand Plaza",
		VatRule: pricing.VatDomestic,
		RoomTypes: []proposal.RoomType{{
			Name: "Deluxe", NetPrice: 100, Quantity: 1, NumNights: 2,
		}},
	}}

	q, err := quote.Build(doc)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(q.HotelTables) != 1 {
		t.Fatalf("expected 1 hotel table, got %d", len(q.HotelTables))
	}
	table := q.HotelTables[0]
	if table.Total != 253 {
		t.Fatalf("expected detail total 253, got %v", table.Total)
	}
	if len(table.Rows) != 1 || table.Rows[0].Description != "Accommodation: Deluxe" {
		t.Fatalf("unexpected rows %+v", table.Rows)
	}
	if len(q.Summaries) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(q.Summaries))
	}
	sum := q.Summaries[0]
	if sum.HotelTotal != 253 || sum.Total != 253 {
		t.Fatalf("unexpected summary %+v", sum)
	}
	if sum.Rows[0].Description != "Accommodation: Grand Plaza - Deluxe" {
		t.Fatalf("summary row description %q", sum.Rows[0].Description)
	}
	if q.NoOptions {
		t.Fatal("unexpected noOptions")
	}
}

func TestBuildDiningUsesMeetingsMarkup(t *testing.T) {
	doc := baseDoc()
	doc.Pricing.Markups.Meetings = pricing.MarkupConfig{Kind: pricing.MarkupFixed, Value: 50}
	doc.HotelOptions = []proposal.HotelOption{{
		Name:    "Grand Plaza",
		VatRule: pricing.VatDomestic,
		Dining: []proposal.DiningItem{{
			Name: "Gala Dinner", Price: 300, Quantity: 2, Days: 1,
		}},
	}}

	q, err := quote.Build(doc)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got := q.HotelTables[0].Total; got != 805 {
		t.Fatalf("expected dining priced with meetings markup to total 805, got %v", got)
	}
	if q.HotelTables[0].Rows[0].Description != "Dining: Gala Dinner" {
		t.Fatalf("unexpected description %q", q.HotelTables[0].Rows[0].Description)
	}
}

func TestBuildLoneFlightFoldsIntoShared(t *testing.T) {
	doc := baseDoc()
	doc.FlightOptions = []proposal.FlightOption{{
		RouteDescription: "Riyadh to London",
		VatRule:          pricing.VatInternational,
		Quotes: []pricing.FlightQuote{
			{Class: "Economy", Price: 1000, Quantity: 2},
			{Class: "Business", Price: 3000, Quantity: 1},
		},
	}}

	q, err := quote.Build(doc)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(q.Flights) != 1 {
		t.Fatalf("expected 1 flight section, got %d", len(q.Flights))
	}
	f := q.Flights[0]
	if f.Total != 5575 {
		t.Fatalf("expected flight total 5575, got %v", f.Total)
	}
	if len(f.Lines) != 2 || f.Lines[0].Total != 2230 || f.Lines[1].Total != 3345 {
		t.Fatalf("unexpected fare lines %+v", f.Lines)
	}
	if q.SharedTotal != 5575 {
		t.Fatalf("lone flight should fold into shared total, got %v", q.SharedTotal)
	}
	if len(q.FlightSummaries) != 0 {
		t.Fatalf("lone flight should not get its own summary, got %d", len(q.FlightSummaries))
	}
	if !q.NoOptions {
		t.Fatal("no hotel options should set noOptions")
	}
}

func TestBuildLoneFlightExcludedFromShared(t *testing.T) {
	doc := baseDoc()
	doc.FlightOptions = []proposal.FlightOption{{
		RouteDescription: "Riyadh to London",
		VatRule:          pricing.VatInternational,
		IncludeInSummary: boolPtr(false),
		Quotes: []pricing.FlightQuote{
			{Class: "Economy", Price: 1000, Quantity: 2},
		},
	}}

	q, err := quote.Build(doc)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(q.Flights) != 1 {
		t.Fatalf("expected 1 flight section, got %d", len(q.Flights))
	}
	if q.Flights[0].Total != 2230 {
		t.Fatalf("expected flight total 2230, got %v", q.Flights[0].Total)
	}
	if q.SharedTotal != 0 {
		t.Fatalf("excluded lone flight should stay out of shared total, got %v", q.SharedTotal)
	}
	if len(q.FlightSummaries) != 0 {
		t.Fatalf("lone flight should not get its own summary, got %d", len(q.FlightSummaries))
	}
}

func TestBuildFlightAlternativesStayOutOfShared(t *testing.T) {
	doc := baseDoc()
	doc.FlightOptions = []proposal.FlightOption{
		{VatRule: pricing.VatInternational, Quotes: []pricing.FlightQuote{{Class: "Economy", Price: 1000, Quantity: 2}}},
		{VatRule: pricing.VatInternational, Quotes: []pricing.FlightQuote{{Class: "Business", Price: 3000, Quantity: 1}}},
	}
	doc.HotelOptions = []proposal.HotelOption{{
		Name: "Grand Plaza", VatRule: pricing.VatDomestic,
		RoomTypes: []proposal.RoomType{{Name: "Deluxe", NetPrice: 100, Quantity: 1, NumNights: 2}},
	}}

	q, err := quote.Build(doc)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if q.SharedTotal != 0 {
		t.Fatalf("alternative flights must not join shared total, got %v", q.SharedTotal)
	}
	if len(q.FlightSummaries) != 2 {
		t.Fatalf("expected 2 flight summaries, got %d", len(q.FlightSummaries))
	}
	if q.Summaries[0].Total != 253 {
		t.Fatalf("hotel summary should exclude flights, got %v", q.Summaries[0].Total)
	}
}

func TestBuildSummaryHonoursInclusionFlag(t *testing.T) {
	doc := baseDoc()
	doc.HotelOptions = []proposal.HotelOption{{
		Name:    "Grand Plaza",
		VatRule: pricing.VatDomestic,
		RoomTypes: []proposal.RoomType{
			{Name: "Deluxe", NetPrice: 100, Quantity: 1, NumNights: 2},
			{Name: "Suite", NetPrice: 500, Quantity: 1, NumNights: 2, IncludeInSummary: boolPtr(false)},
		},
	}}

	q, err := quote.Build(doc)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	// The detail table shows and counts everything.
	if len(q.HotelTables[0].Rows) != 2 {
		t.Fatalf("detail table should show both rooms, got %d rows", len(q.HotelTables[0].Rows))
	}
	if got := q.HotelTables[0].Total; math.Abs(got-(253+1265)) > 1e-9 {
		t.Fatalf("detail total should count both rooms, got %v", got)
	}
	// The summary skips the excluded room entirely.
	if len(q.Summaries[0].Rows) != 1 {
		t.Fatalf("summary should show one room, got %d rows", len(q.Summaries[0].Rows))
	}
	if q.Summaries[0].Total != 253 {
		t.Fatalf("summary total should skip excluded room, got %v", q.Summaries[0].Total)
	}
}

func TestBuildSharedCategories(t *testing.T) {
	doc := baseDoc()
	doc.Transportation = []proposal.TransportItem{{
		Model: "GMC Yukon", NetPricePerDay: 100, Quantity: 1, Days: 2, VatRule: pricing.VatDomestic,
	}}
	doc.Activities = []proposal.Activity{{
		Name: "Desert Safari", PricePerPerson: 100, Guests: 1, Days: 2, VatRule: pricing.VatDomestic,
	}}
	doc.CustomItems = []proposal.CustomItem{{
		Description: "Visa Processing", UnitPrice: 100, Quantity: 1, Days: 2, VatRule: pricing.VatDomestic,
	}}
	doc.HotelOptions = []proposal.HotelOption{{
		Name: "Grand Plaza", VatRule: pricing.VatDomestic,
		RoomTypes: []proposal.RoomType{{Name: "Deluxe", NetPrice: 100, Quantity: 1, NumNights: 2}},
	}}

	q, err := quote.Build(doc)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(q.SharedTables) != 3 {
		t.Fatalf("expected 3 shared tables, got %d", len(q.SharedTables))
	}
	if q.SharedTotal != 3*253 {
		t.Fatalf("expected shared total %v, got %v", 3*253.0, q.SharedTotal)
	}
	if q.Summaries[0].Total != 253+3*253 {
		t.Fatalf("option summary should add shared total, got %v", q.Summaries[0].Total)
	}
}

func TestBuildInclusionsGateCategories(t *testing.T) {
	doc := baseDoc()
	doc.Inclusions.Transportation = false
	doc.Inclusions.Hotels = false
	doc.Transportation = []proposal.TransportItem{{
		Model: "GMC Yukon", NetPricePerDay: 100, Quantity: 1, Days: 2, VatRule: pricing.VatDomestic,
	}}
	doc.HotelOptions = []proposal.HotelOption{{
		Name: "Grand Plaza", VatRule: pricing.VatDomestic,
		RoomTypes: []proposal.RoomType{{Name: "Deluxe", NetPrice: 100, Quantity: 1, NumNights: 2}},
	}}

	q, err := quote.Build(doc)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(q.HotelTables) != 0 || len(q.Summaries) != 0 {
		t.Fatal("excluded hotels still rendered")
	}
	if len(q.SharedTables) != 0 || q.SharedTotal != 0 {
		t.Fatal("excluded transportation still counted")
	}
	if !q.NoOptions {
		t.Fatal("expected noOptions with hotels gated out")
	}
}

func TestBuildVatDisabled(t *testing.T) {
	doc := baseDoc()
	doc.Pricing.EnableVat = boolPtr(false)
	doc.HotelOptions = []proposal.HotelOption{{
		Name: "Grand Plaza", VatRule: pricing.VatDomestic,
		RoomTypes: []proposal.RoomType{{Name: "Deluxe", NetPrice: 100, Quantity: 1, NumNights: 2}},
	}}

	q, err := quote.Build(doc)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if q.VatPercent != 0 {
		t.Fatalf("expected zero effective VAT, got %v", q.VatPercent)
	}
	if got := q.HotelTables[0].Total; got != 220 {
		t.Fatalf("expected VAT-free total 220, got %v", got)
	}
}

func TestBuildRejectsUnknownMarkupKind(t *testing.T) {
	doc := baseDoc()
	doc.Pricing.Markups.Hotels = pricing.MarkupConfig{Kind: "tiered", Value: 10}
	doc.HotelOptions = []proposal.HotelOption{{
		Name: "Grand Plaza", VatRule: pricing.VatDomestic,
		RoomTypes: []proposal.RoomType{{Name: "Deluxe", NetPrice: 100, Quantity: 1, NumNights: 2}},
	}}

	if _, err := quote.Build(doc); err == nil {
		t.Fatal("expected error for unknown markup kind")
	}
}

func TestBuildFormatsCurrency(t *testing.T) {
	doc := baseDoc()
	doc.HotelOptions = []proposal.HotelOption{{
		Name: "Grand Plaza", VatRule: pricing.VatDomestic,
		RoomTypes: []proposal.RoomType{{Name: "Deluxe", NetPrice: 1000, Quantity: 1, NumNights: 2}},
	}}

	q, err := quote.Build(doc)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got := q.HotelTables[0].TotalFormatted; got != "SAR 2,530.00" {
		t.Fatalf("unexpected formatted total %q", got)
	}
}
