package pricing

import "testing"

func TestBuildOptionSummary(t *testing.T) {
	s := BuildOptionSummary(253, 1200)
	if s.Total != 1453 {
		t.Fatalf("expected option total 1453, got %v", s.Total)
	}
	if s.HotelTotal != 253 || s.SharedTotal != 1200 {
		t.Fatalf("unexpected components: %+v", s)
	}
}

func TestBuildSummaryPerOption(t *testing.T) {
	s := BuildSummary([]float64{1000, 2500}, 300)
	if s.NoOptions {
		t.Fatalf("expected options to be present")
	}
	if len(s.Options) != 2 {
		t.Fatalf("expected 2 option summaries, got %d", len(s.Options))
	}
	if s.Options[0].Total != 1300 || s.Options[1].Total != 2800 {
		t.Fatalf("unexpected totals: %+v", s.Options)
	}
}

func TestBuildSummaryNoOptions(t *testing.T) {
	s := BuildSummary(nil, 780)
	if !s.NoOptions {
		t.Fatalf("expected NoOptions flag")
	}
	if len(s.Options) != 0 {
		t.Fatalf("expected no option summaries, got %d", len(s.Options))
	}
	if s.SharedTotal != 780 {
		t.Fatalf("shared total must still surface, got %v", s.SharedTotal)
	}
}
