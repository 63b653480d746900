package jsonrepair

import "testing"

func TestRepairStripsTrailingCommas(t *testing.T) {
	in := `{"a": [1, 2, ], "b": {"c": 3, }, }`
	got := Repair(in)
	if _, err := Parse(got); err != nil {
		t.Fatalf("Parse(Repair()) error = %v, repaired = %q", err, got)
	}
}

func TestRepairClosesTruncatedOutput(t *testing.T) {
	in := `{"days": {"1": {"places": [{"name": "Alfama`
	got := Repair(in)
	if _, err := Parse(got); err != nil {
		t.Fatalf("Parse(Repair()) error = %v, repaired = %q", err, got)
	}
}

func TestRepairDropsStrayClosers(t *testing.T) {
	in := `{"a": 1}}]`
	got := Repair(in)
	if got != `{"a": 1}` {
		t.Fatalf("Repair() = %q, want %q", got, `{"a": 1}`)
	}
}

func TestRepairRemovesControlCharacters(t *testing.T) {
	in := "{\"name\": \"Bel\x01em\"}"
	got := Repair(in)
	if _, err := Parse(got); err != nil {
		t.Fatalf("Parse(Repair()) error = %v, repaired = %q", err, got)
	}
}

func TestRepairKeepsCommasInsideStrings(t *testing.T) {
	in := `{"tripName": "Rome, ITA"}`
	if got := Repair(in); got != in {
		t.Fatalf("Repair() = %q, want unchanged %q", got, in)
	}
}

func TestRepairIdempotent(t *testing.T) {
	cases := []string{
		`{"a": [1, 2, ], }`,
		`{"days": {"1": {"places": [`,
		`{"a": 1}}]`,
		"{\"b\": \"x\x02y\"}",
		`{"tripName": "Rome, ITA", "day1": {"places": []}}`,
	}
	for _, in := range cases {
		once := Repair(in)
		twice := Repair(once)
		if once != twice {
			t.Fatalf("Repair not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestParseRejectsUnparseable(t *testing.T) {
	if _, err := Parse("not json at all"); err == nil {
		t.Fatalf("Parse() accepted invalid input")
	}
}
