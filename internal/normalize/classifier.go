package normalize

import (
	"regexp"
	"strconv"
)

var dayKeyPattern = regexp.MustCompile(`^(?i)day(\d+)$`)

// KeyClass is the typed classification of a top-level itinerary key.
// A key is either a day key carrying its 1-based index or an ordinary key
// that belongs in the residual bucket.
type KeyClass struct {
	Day   int
	Name  string
	IsDay bool
}

// ClassifyKey parses a top-level key. "day3", "Day3" and "DAY3" classify as
// the day key 3; "dayX", "days" and anything else classify as other keys.
func ClassifyKey(k string) KeyClass {
	m := dayKeyPattern.FindStringSubmatch(k)
	if m == nil {
		return KeyClass{Name: k}
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return KeyClass{Name: k}
	}
	return KeyClass{Day: n, IsDay: true}
}
