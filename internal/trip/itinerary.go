package trip

import (
	"encoding/json"
)

// TimeSlot tags a place in the pool-shaped model output.
type TimeSlot string

const (
	SlotMorning   TimeSlot = "Morning"
	SlotAfternoon TimeSlot = "Afternoon"
	SlotEvening   TimeSlot = "Evening"
)

// Place is a single visitable entry inside a day or a recommendation list.
type Place struct {
	Name            string   `json:"name"`
	Description     string   `json:"description,omitempty"`
	Latitude        float64  `json:"latitude,omitempty"`
	Longitude       float64  `json:"longitude,omitempty"`
	TicketPrice     string   `json:"ticketPrice,omitempty"`
	TravelTime      string   `json:"travelTime,omitempty"`
	BestTimeToVisit string   `json:"bestTimeToVisit,omitempty"`
	TimeSlot        TimeSlot `json:"timeSlot,omitempty"`
}

// Day holds the places planned for one day.
type Day struct {
	Places []Place `json:"places"`
}

// Recommendations carries the non-day extras the model proposes.
type Recommendations struct {
	Restaurants      []Place `json:"restaurants,omitempty"`
	LocalExperiences []Place `json:"localExperiences,omitempty"`
}

// Itinerary is the canonical, normalized itinerary schema. Days are keyed by
// 1-based day index; serialization orders them ascending. Unknown top-level
// keys from the model survive in Extra and are re-merged at the top level on
// marshal, so normalization never drops fields.
type Itinerary struct {
	TripName        string          `json:"tripName,omitempty"`
	DurationLabel   string          `json:"duration,omitempty"`
	BudgetLabel     string          `json:"budget,omitempty"`
	FromCode        string          `json:"fromCode,omitempty"`
	ToCode          string          `json:"toCode,omitempty"`
	Days            map[int]Day     `json:"days"`
	Recommendations Recommendations `json:"recommendations,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// itineraryAlias avoids recursive MarshalJSON calls.
type itineraryAlias Itinerary

// knownItineraryKeys are the top-level keys owned by the canonical schema.
var knownItineraryKeys = map[string]struct{}{
	"tripName":        {},
	"duration":        {},
	"budget":          {},
	"fromCode":        {},
	"toCode":          {},
	"days":            {},
	"recommendations": {},
}

// MarshalJSON emits the typed fields and re-merges the residual bucket at the
// top level. Typed fields win on key collision.
func (it Itinerary) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(itineraryAlias(it))
	if err != nil {
		return nil, err
	}
	if len(it.Extra) == 0 {
		return base, nil
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}
	for k, v := range it.Extra {
		if _, owned := knownItineraryKeys[k]; owned {
			continue
		}
		merged[k] = v
	}
	return json.Marshal(merged)
}

// UnmarshalJSON restores typed fields and collects unknown keys back into
// the residual bucket.
func (it *Itinerary) UnmarshalJSON(data []byte) error {
	var alias itineraryAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for k := range raw {
		if _, owned := knownItineraryKeys[k]; owned {
			delete(raw, k)
		}
	}
	*it = Itinerary(alias)
	if len(raw) > 0 {
		it.Extra = raw
	}
	return nil
}

// DayNumbers returns the day indexes in ascending order.
func (it Itinerary) DayNumbers() []int {
	nums := make([]int, 0, len(it.Days))
	for n := range it.Days {
		nums = append(nums, n)
	}
	for i := 1; i < len(nums); i++ {
		for j := i; j > 0 && nums[j] < nums[j-1]; j-- {
			nums[j], nums[j-1] = nums[j-1], nums[j]
		}
	}
	return nums
}
