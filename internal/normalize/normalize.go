// Package normalize converts the heterogeneous itinerary shapes produced by
// the model into the canonical day-indexed schema. It supports the legacy
// per-day key shape ("day1", "Day2", ...) and the flat pool shape where
// places carry a timeSlot tag and day bucketing is reconstructed from the
// requested day count. Normalization is pure and deterministic.
package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"tripforge/internal/trip"
)

// Itinerary normalizes parsed JSON into the canonical schema. dayCount is
// the requested trip length, used only to bucket the pool shape.
//
// Day keys fold into the Days map; duplicate day numbers (case variants such
// as "Day1" next to "day1") resolve first-seen wins. Non-day keys that the
// canonical schema does not own survive in the residual bucket.
func Itinerary(doc json.RawMessage, dayCount int) (trip.Itinerary, error) {
	trimmed := bytes.TrimSpace(doc)
	if len(trimmed) == 0 {
		return trip.Itinerary{Days: map[int]trip.Day{}}, nil
	}
	if trimmed[0] == '[' {
		return poolItinerary(trimmed, dayCount)
	}
	if trimmed[0] != '{' {
		return trip.Itinerary{}, fmt.Errorf("normalize: top-level value is neither object nor array")
	}
	return dayKeyedItinerary(trimmed)
}

func dayKeyedItinerary(doc []byte) (trip.Itinerary, error) {
	out := trip.Itinerary{Days: map[int]trip.Day{}}

	dec := json.NewDecoder(bytes.NewReader(doc))
	if _, err := dec.Token(); err != nil {
		return trip.Itinerary{}, fmt.Errorf("normalize: %w", err)
	}
	seenDay := map[int]bool{}
	seenKey := map[string]bool{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return trip.Itinerary{}, fmt.Errorf("normalize: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return trip.Itinerary{}, fmt.Errorf("normalize: non-string key %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return trip.Itinerary{}, fmt.Errorf("normalize: value of %q: %w", key, err)
		}

		kc := ClassifyKey(key)
		if kc.IsDay {
			// First-seen wins across case-variant duplicates.
			if seenDay[kc.Day] {
				continue
			}
			seenDay[kc.Day] = true
			out.Days[kc.Day] = decodeDay(raw)
			continue
		}
		if seenKey[key] {
			continue
		}
		seenKey[key] = true
		if !assignKnown(&out, key, raw) {
			if out.Extra == nil {
				out.Extra = map[string]json.RawMessage{}
			}
			out.Extra[key] = raw
		}
	}
	return out, nil
}

// assignKnown moves pass-through metadata into its typed field. A value of
// an unexpected type falls back to the residual bucket.
func assignKnown(out *trip.Itinerary, key string, raw json.RawMessage) bool {
	switch key {
	case "tripName":
		return json.Unmarshal(raw, &out.TripName) == nil
	case "duration":
		return json.Unmarshal(raw, &out.DurationLabel) == nil
	case "budget":
		return json.Unmarshal(raw, &out.BudgetLabel) == nil
	case "fromCode":
		return json.Unmarshal(raw, &out.FromCode) == nil
	case "toCode":
		return json.Unmarshal(raw, &out.ToCode) == nil
	case "recommendations":
		return json.Unmarshal(raw, &out.Recommendations) == nil
	}
	return false
}

// decodeDay accepts either {"places":[...]} or a bare places array.
func decodeDay(raw json.RawMessage) trip.Day {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var places []trip.Place
		if err := json.Unmarshal(trimmed, &places); err == nil {
			if places == nil {
				places = []trip.Place{}
			}
			return trip.Day{Places: places}
		}
	}
	var day trip.Day
	_ = json.Unmarshal(trimmed, &day)
	if day.Places == nil {
		day.Places = []trip.Place{}
	}
	return day
}

func poolItinerary(doc []byte, dayCount int) (trip.Itinerary, error) {
	var places []trip.Place
	if err := json.Unmarshal(doc, &places); err != nil {
		return trip.Itinerary{}, fmt.Errorf("normalize: pool shape: %w", err)
	}
	return trip.Itinerary{Days: Distribute(places, dayCount)}, nil
}

// Distribute deals a flat, time-slot tagged pool of places across dayCount
// days. Places are grouped Morning/Afternoon/Evening (untagged last),
// original ordering preserved within each group, then dealt round-robin with
// a per-slot quota of one place per day per pass.
func Distribute(places []trip.Place, dayCount int) map[int]trip.Day {
	if dayCount < 1 {
		dayCount = 1
	}
	var groups [4][]trip.Place
	for _, p := range places {
		switch {
		case strings.EqualFold(string(p.TimeSlot), string(trip.SlotMorning)):
			groups[0] = append(groups[0], p)
		case strings.EqualFold(string(p.TimeSlot), string(trip.SlotAfternoon)):
			groups[1] = append(groups[1], p)
		case strings.EqualFold(string(p.TimeSlot), string(trip.SlotEvening)):
			groups[2] = append(groups[2], p)
		default:
			groups[3] = append(groups[3], p)
		}
	}

	out := make(map[int]trip.Day, dayCount)
	for d := 1; d <= dayCount; d++ {
		out[d] = trip.Day{Places: []trip.Place{}}
	}

	var next [4]int
	remaining := len(places)
	for remaining > 0 {
		progressed := false
		for d := 1; d <= dayCount && remaining > 0; d++ {
			for g := range groups {
				if next[g] >= len(groups[g]) {
					continue
				}
				day := out[d]
				day.Places = append(day.Places, groups[g][next[g]])
				out[d] = day
				next[g]++
				remaining--
				progressed = true
			}
		}
		if !progressed {
			break
		}
	}
	return out
}
