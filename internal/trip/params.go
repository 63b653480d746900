package trip

import (
	"fmt"
	"strings"
	"time"
)

// Category tags what kind of trip is being generated.
type Category string

const (
	CategoryGeneral   Category = "general"
	CategoryHiddenGem Category = "hidden-gem"
	CategoryFestive   Category = "festive"
	CategoryConcert   Category = "concert"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryGeneral, CategoryHiddenGem, CategoryFestive, CategoryConcert:
		return true
	}
	return false
}

// BudgetTier is the closed budget enum.
type BudgetTier string

const (
	BudgetCheap    BudgetTier = "Cheap"
	BudgetModerate BudgetTier = "Moderate"
	BudgetLuxury   BudgetTier = "Luxury"
)

func (b BudgetTier) Valid() bool {
	switch b {
	case BudgetCheap, BudgetModerate, BudgetLuxury:
		return true
	}
	return false
}

// ParseBudgetTier normalizes free-form tier text into the enum.
func ParseBudgetTier(raw string) (BudgetTier, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "cheap":
		return BudgetCheap, true
	case "moderate":
		return BudgetModerate, true
	case "luxury":
		return BudgetLuxury, true
	}
	return "", false
}

// Parameters describes the desired trip for one pipeline run.
// The value is caller-owned and treated as immutable once a run starts.
type Parameters struct {
	Destination  string     `json:"destination"`
	Country      string     `json:"country,omitempty"`
	Category     Category   `json:"category"`
	DurationDays int        `json:"durationDays"`
	TravelerType string     `json:"travelerType"`
	Budget       BudgetTier `json:"budget"`
	StartDate    time.Time  `json:"startDate"`
	EndDate      time.Time  `json:"endDate"`

	// Category-specific fields.
	FestivalName string `json:"festivalName,omitempty"`
	ArtistName   string `json:"artistName,omitempty"`
	ConcertDate  string `json:"concertDate,omitempty"`
}

// Missing lists required fields that are absent. Category-specific fields
// become required when their category is selected.
func (p Parameters) Missing() []string {
	var missing []string
	if strings.TrimSpace(p.Destination) == "" {
		missing = append(missing, "destination")
	}
	if p.Category == "" {
		missing = append(missing, "category")
	}
	if p.DurationDays == 0 {
		missing = append(missing, "durationDays")
	}
	if strings.TrimSpace(p.TravelerType) == "" {
		missing = append(missing, "travelerType")
	}
	if p.Budget == "" {
		missing = append(missing, "budget")
	}
	if p.StartDate.IsZero() {
		missing = append(missing, "startDate")
	}
	if p.EndDate.IsZero() {
		missing = append(missing, "endDate")
	}
	switch p.Category {
	case CategoryFestive:
		if strings.TrimSpace(p.FestivalName) == "" {
			missing = append(missing, "festivalName")
		}
	case CategoryConcert:
		if strings.TrimSpace(p.ArtistName) == "" {
			missing = append(missing, "artistName")
		}
		if strings.TrimSpace(p.ConcertDate) == "" {
			missing = append(missing, "concertDate")
		}
	}
	return missing
}

// Validate enforces the parameter invariants: all required fields present,
// duration >= 1, start <= end, budget and category within their enums.
func (p Parameters) Validate() error {
	if missing := p.Missing(); len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	if p.DurationDays < 1 {
		return fmt.Errorf("durationDays must be >= 1, got %d", p.DurationDays)
	}
	if p.EndDate.Before(p.StartDate) {
		return fmt.Errorf("startDate must be on or before endDate")
	}
	if !p.Budget.Valid() {
		return fmt.Errorf("budget must be one of Cheap, Moderate, Luxury, got %q", p.Budget)
	}
	if !p.Category.Valid() {
		return fmt.Errorf("unknown category %q", p.Category)
	}
	return nil
}
