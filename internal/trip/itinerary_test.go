package trip

import (
	"encoding/json"
	"testing"
)

func TestItineraryRoundTripKeepsResidualKeys(t *testing.T) {
	in := `{"tripName":"Rome Classics","days":{"1":{"places":[{"name":"Colosseum"}]}},"weather":"sunny","notes":["pack light"]}`

	var it Itinerary
	if err := json.Unmarshal([]byte(in), &it); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if it.TripName != "Rome Classics" {
		t.Fatalf("TripName = %q, want %q", it.TripName, "Rome Classics")
	}
	if len(it.Days[1].Places) != 1 || it.Days[1].Places[0].Name != "Colosseum" {
		t.Fatalf("Days[1] = %+v, want one place named Colosseum", it.Days[1])
	}
	if _, ok := it.Extra["weather"]; !ok {
		t.Fatalf("Extra missing residual key %q", "weather")
	}
	if _, ok := it.Extra["notes"]; !ok {
		t.Fatalf("Extra missing residual key %q", "notes")
	}

	out, err := json.Marshal(it)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var top map[string]json.RawMessage
	if err := json.Unmarshal(out, &top); err != nil {
		t.Fatalf("Unmarshal(marshaled) error = %v", err)
	}
	if string(top["weather"]) != `"sunny"` {
		t.Fatalf("weather = %s, want %q", top["weather"], "sunny")
	}
	if _, ok := top["notes"]; !ok {
		t.Fatalf("marshaled output dropped residual key %q", "notes")
	}
}

func TestItineraryMarshalTypedFieldsWinOverExtra(t *testing.T) {
	it := Itinerary{
		TripName: "Typed",
		Days:     map[int]Day{},
		Extra: map[string]json.RawMessage{
			"tripName": json.RawMessage(`"Residual"`),
			"mood":     json.RawMessage(`"relaxed"`),
		},
	}
	out, err := json.Marshal(it)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var top map[string]json.RawMessage
	if err := json.Unmarshal(out, &top); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if string(top["tripName"]) != `"Typed"` {
		t.Fatalf("tripName = %s, want %q", top["tripName"], "Typed")
	}
	if string(top["mood"]) != `"relaxed"` {
		t.Fatalf("mood = %s, want %q", top["mood"], "relaxed")
	}
}

func TestDayNumbersSorted(t *testing.T) {
	it := Itinerary{Days: map[int]Day{3: {}, 1: {}, 5: {}, 2: {}, 4: {}}}
	got := it.DayNumbers()
	want := []int{1, 2, 3, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("DayNumbers() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("DayNumbers() = %v, want %v", got, want)
		}
	}
}
