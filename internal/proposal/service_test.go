package proposal_test

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/sitc-travel/backend-proposal/internal/pricing"
	"github.com/sitc-travel/backend-proposal/internal/proposal"
)

func newTestService() *proposal.Service {
	defaults := proposal.Defaults{Currency: "SAR", VatPercent: 15, MarkupPercent: 10}
	return proposal.NewService(nil, nil, defaults, zerolog.Nop())
}

func TestNormalizeFillsDefaults(t *testing.T) {
	svc := newTestService()
	doc := svc.Normalize(proposal.Document{})

	if doc.Pricing.Currency != "SAR" {
		t.Fatalf("expected default currency SAR, got %q", doc.Pricing.Currency)
	}
	if doc.Pricing.VatPercent == nil || *doc.Pricing.VatPercent != 15 {
		t.Fatalf("expected default VAT 15, got %v", doc.Pricing.VatPercent)
	}
	if doc.Pricing.EnableVat == nil || !*doc.Pricing.EnableVat {
		t.Fatal("expected VAT enabled by default")
	}
	if doc.Pricing.ShowPrices == nil || !*doc.Pricing.ShowPrices {
		t.Fatal("expected prices shown by default")
	}
	m := doc.Pricing.Markups
	if m == nil {
		t.Fatal("expected default markups")
	}
	for name, cfg := range map[string]pricing.MarkupConfig{
		"hotels":         m.Hotels,
		"meetings":       m.Meetings,
		"flights":        m.Flights,
		"transportation": m.Transportation,
		"activities":     m.Activities,
		"customItems":    m.CustomItems,
	} {
		if cfg.Kind != pricing.MarkupPercent || cfg.Value != 10 {
			t.Fatalf("%s: expected percent 10 default, got %+v", name, cfg)
		}
	}
	inc := doc.Inclusions
	if inc == nil {
		t.Fatal("expected default inclusions")
	}
	if !inc.Hotels || !inc.Flights || !inc.Transportation || !inc.CustomItems {
		t.Fatalf("expected standard categories included, got %+v", inc)
	}
	if inc.Activities {
		t.Fatal("expected activities excluded by default")
	}
}

func TestNormalizeKeepsExplicitValues(t *testing.T) {
	svc := newTestService()
	vat := 5.0
	off := false
	doc := svc.Normalize(proposal.Document{
		Pricing: proposal.PricingConfig{
			Currency:   "USD",
			VatPercent: &vat,
			EnableVat:  &off,
			Markups: &pricing.CategoryMarkups{
				Hotels: pricing.MarkupConfig{Kind: pricing.MarkupFixed, Value: 50},
			},
		},
		Inclusions: &proposal.Inclusions{Activities: true},
	})

	if doc.Pricing.Currency != "USD" {
		t.Fatalf("currency overwritten: %q", doc.Pricing.Currency)
	}
	if *doc.Pricing.VatPercent != 5 {
		t.Fatalf("vat overwritten: %v", *doc.Pricing.VatPercent)
	}
	if *doc.Pricing.EnableVat {
		t.Fatal("enableVat overwritten")
	}
	if doc.Pricing.Markups.Hotels.Kind != pricing.MarkupFixed {
		t.Fatalf("markups overwritten: %+v", doc.Pricing.Markups.Hotels)
	}
	if !doc.Inclusions.Activities || doc.Inclusions.Hotels {
		t.Fatalf("inclusions overwritten: %+v", doc.Inclusions)
	}
}

func TestEffectiveVatPercent(t *testing.T) {
	vat := 15.0
	on := true
	off := false

	cases := []struct {
		name string
		cfg  proposal.PricingConfig
		want float64
	}{
		{"enabled", proposal.PricingConfig{EnableVat: &on, VatPercent: &vat}, 15},
		{"disabled", proposal.PricingConfig{EnableVat: &off, VatPercent: &vat}, 0},
		{"unset rate", proposal.PricingConfig{EnableVat: &on}, 0},
	}
	for _, tc := range cases {
		if got := tc.cfg.EffectiveVatPercent(); got != tc.want {
			t.Fatalf("%s: expected %v got %v", tc.name, tc.want, got)
		}
	}
}

func TestFlagDefaultsTrue(t *testing.T) {
	f := false
	tr := true
	if !proposal.Flag(nil) {
		t.Fatal("nil flag should read true")
	}
	if proposal.Flag(&f) {
		t.Fatal("explicit false should read false")
	}
	if !proposal.Flag(&tr) {
		t.Fatal("explicit true should read true")
	}
}
