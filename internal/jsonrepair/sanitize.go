// Package jsonrepair turns unreliable model text into parseable JSON in two
// separable stages: Sanitize extracts the outermost JSON value from wrapper
// prose and code fences, Repair fixes common structural defects. Both stages
// are total functions over strings; parse failures are reported only by
// Parse.
package jsonrepair

import "strings"

// Sanitize slices raw model text down to its outermost JSON object or array.
// Commentary before/after the value and fenced-code markers are discarded.
// When no bracket pair is found the literal empty object "{}" is returned so
// downstream stages always receive parseable (if empty) input.
func Sanitize(raw string) string {
	objStart := strings.IndexByte(raw, '{')
	arrStart := strings.IndexByte(raw, '[')

	start, opener := objStart, byte('{')
	if start < 0 || (arrStart >= 0 && arrStart < start) {
		start, opener = arrStart, '['
	}
	if start < 0 {
		return "{}"
	}

	closer := byte('}')
	if opener == '[' {
		closer = ']'
	}
	end := strings.LastIndexByte(raw, closer)
	if end <= start {
		return "{}"
	}

	span := raw[start : end+1]
	span = strings.ReplaceAll(span, "```json", "")
	span = strings.ReplaceAll(span, "```", "")
	return strings.TrimSpace(span)
}
