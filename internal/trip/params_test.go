package trip

import (
	"strings"
	"testing"
	"time"
)

func validParams() Parameters {
	return Parameters{
		Destination:  "Lisbon",
		Category:     CategoryGeneral,
		DurationDays: 4,
		TravelerType: "couple",
		Budget:       BudgetCheap,
		StartDate:    time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2026, 10, 4, 0, 0, 0, 0, time.UTC),
	}
}

func TestValidateAcceptsCompleteParams(t *testing.T) {
	if err := validParams().Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestMissingReportsCategorySpecificFields(t *testing.T) {
	p := validParams()
	p.Category = CategoryFestive
	missing := p.Missing()
	if len(missing) != 1 || missing[0] != "festivalName" {
		t.Fatalf("Missing() = %v, want [festivalName]", missing)
	}

	p = validParams()
	p.Category = CategoryConcert
	missing = p.Missing()
	if len(missing) != 2 {
		t.Fatalf("Missing() = %v, want [artistName concertDate]", missing)
	}
}

func TestValidateRejectsReversedDates(t *testing.T) {
	p := validParams()
	p.StartDate, p.EndDate = p.EndDate, p.StartDate
	err := p.Validate()
	if err == nil || !strings.Contains(err.Error(), "startDate") {
		t.Fatalf("Validate() error = %v, want startDate ordering error", err)
	}
}

func TestValidateRejectsUnknownBudget(t *testing.T) {
	p := validParams()
	p.Budget = BudgetTier("lavish")
	if err := p.Validate(); err == nil {
		t.Fatalf("Validate() accepted budget %q", p.Budget)
	}
}

func TestParseBudgetTier(t *testing.T) {
	cases := []struct {
		in   string
		want BudgetTier
		ok   bool
	}{
		{"cheap", BudgetCheap, true},
		{"  Moderate ", BudgetModerate, true},
		{"LUXURY", BudgetLuxury, true},
		{"lavish", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseBudgetTier(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("ParseBudgetTier(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
