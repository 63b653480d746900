package trip

import "time"

// Instance is a per-user trip record. It usually references a shared
// Template by cache key; concert trips embed their itinerary directly
// because they are never deduplicated across users.
type Instance struct {
	ID           string     `json:"id" bson:"id"`
	UserID       string     `json:"userId" bson:"user_id"`
	TemplateKey  string     `json:"templateKey,omitempty" bson:"template_key,omitempty"`
	Itinerary    *Itinerary `json:"itinerary,omitempty" bson:"-"`
	Destination  string     `json:"destination" bson:"destination"`
	Category     Category   `json:"category" bson:"category"`
	StartDate    time.Time  `json:"startDate" bson:"start_date"`
	EndDate      time.Time  `json:"endDate" bson:"end_date"`
	TravelerType string     `json:"travelerType" bson:"traveler_type"`
	Budget       BudgetTier `json:"budget" bson:"budget"`
	Active       bool       `json:"active" bson:"active"`

	// Running expense summary, mutated by the expense tracking feature.
	TotalBudget float64 `json:"totalBudget,omitempty" bson:"total_budget,omitempty"`
	Spent       float64 `json:"spent,omitempty" bson:"spent,omitempty"`

	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}

// Embedded reports whether the instance carries its own itinerary instead of
// referencing a shared template.
func (i Instance) Embedded() bool { return i.Itinerary != nil }
