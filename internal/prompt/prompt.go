// Package prompt compiles instruction text for the generation port from trip
// parameters and per-category templates.
package prompt

import (
	"fmt"
	"regexp"
	"strings"

	"tripforge/internal/trip"
)

var placeholderPattern = regexp.MustCompile(`\{([a-zA-Z]+)\}`)

// Vars builds the substitution set for a parameter value. Dates render as
// ISO calendar dates.
func Vars(p trip.Parameters) map[string]string {
	return map[string]string{
		"destination":  strings.TrimSpace(p.Destination),
		"country":      strings.TrimSpace(p.Country),
		"category":     string(p.Category),
		"duration":     fmt.Sprintf("%d", p.DurationDays),
		"travelerType": strings.TrimSpace(p.TravelerType),
		"budget":       string(p.Budget),
		"startDate":    p.StartDate.Format("2006-01-02"),
		"endDate":      p.EndDate.Format("2006-01-02"),
		"festivalName": strings.TrimSpace(p.FestivalName),
		"artistName":   strings.TrimSpace(p.ArtistName),
		"concertDate":  strings.TrimSpace(p.ConcertDate),
	}
}

// Compile substitutes every {name} placeholder in template from params.
// Placeholders with no corresponding parameter become empty strings rather
// than being left raw. No side effects.
func Compile(template string, p trip.Parameters) string {
	vars := Vars(p)
	return placeholderPattern.ReplaceAllStringFunc(template, func(m string) string {
		name := m[1 : len(m)-1]
		return vars[name]
	})
}

// ForCategory returns the instruction template for a trip category.
func ForCategory(c trip.Category) string {
	switch c {
	case trip.CategoryHiddenGem:
		return hiddenGemTemplate
	case trip.CategoryFestive:
		return festiveTemplate
	case trip.CategoryConcert:
		return concertTemplate
	default:
		return generalTemplate
	}
}

// The templates ask for strict JSON in the day-keyed shape the normalizer
// canonicalizes. The output contract mirrors what the sanitizer and repairer
// are prepared to recover from when the model ignores it.

const outputContract = `Return strict JSON only. No markdown, comments, or trailing commas.
The top-level object must contain:
- "tripName": string, "<city>, <country code>"
- "duration": string, e.g. "{duration} days"
- "budget": string
- one key per day named "day1" .. "day{duration}", each {"places": [...]}
- "recommendations": {"restaurants": [...], "localExperiences": [...]}
Each place: {"name", "description", "latitude", "longitude", "ticketPrice", "travelTime", "bestTimeToVisit"}.`

const generalTemplate = `You are a travel planner. Plan a {duration}-day trip to {destination}, {country} for a {travelerType} traveler on a {budget} budget, from {startDate} to {endDate}.
Pick well-known sights and pace each day realistically.

` + outputContract

const hiddenGemTemplate = `You are a travel planner specializing in off-the-beaten-path travel. Plan a {duration}-day trip to {destination}, {country} for a {travelerType} traveler on a {budget} budget, from {startDate} to {endDate}.
Prefer lesser-known neighborhoods, local markets and places residents actually go; avoid the obvious tourist circuit.

` + outputContract

const festiveTemplate = `You are a travel planner. Plan a {duration}-day trip to {destination}, {country} centered on the {festivalName} festival, for a {travelerType} traveler on a {budget} budget, from {startDate} to {endDate}.
Schedule festival events first, then fill the remaining time with nearby sights.

` + outputContract

const concertTemplate = `You are a travel planner. Plan a {duration}-day trip to {destination}, {country} around the {artistName} concert on {concertDate}, for a {travelerType} traveler on a {budget} budget, from {startDate} to {endDate}.
Keep the concert day light before the show and plan the rest around it.

` + outputContract
