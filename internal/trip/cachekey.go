package trip

import (
	"fmt"
	"strings"
)

// Key derives the shared, content-addressed cache key for a parameter set.
// The key is deliberately user-free: two users asking for the same
// destination, duration, budget and category collide on the same template.
//
// Destination text is trimmed, lowercased and whitespace-collapsed so that
// "Paris" and "paris " produce the same key.
func Key(p Parameters) string {
	dest := strings.Join(strings.Fields(strings.ToLower(p.Destination)), "-")
	return fmt.Sprintf("%s-%d-%s-%s",
		dest,
		p.DurationDays,
		strings.ToLower(string(p.Budget)),
		strings.ToLower(string(p.Category)),
	)
}
