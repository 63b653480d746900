package jsonrepair

import (
	"encoding/json"
	"strings"
)

// Repair fixes the structural defects models commonly leave behind: stray
// control characters, unbalanced braces/brackets from truncated output, and
// trailing commas before a closer. Repair is idempotent: running it on its
// own output changes nothing.
func Repair(s string) string {
	s = stripControl(s)
	s = balance(s)
	s = stripTrailingCommas(s)
	return s
}

// Parse validates repaired text with the standard JSON parser and returns it
// as raw bytes for the normalizer. A failure here is a parse failure for the
// whole generation attempt.
func Parse(s string) (json.RawMessage, error) {
	var scratch any
	if err := json.Unmarshal([]byte(s), &scratch); err != nil {
		return nil, err
	}
	return json.RawMessage(s), nil
}

// stripControl drops raw control characters. Outside string literals the
// JSON whitespace set is kept; inside them every raw control character is
// invalid, so all are removed.
func stripControl(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x20 {
			if !inString && (c == '\n' || c == '\r' || c == '\t') {
				b.WriteByte(c)
			}
			continue
		}
		b.WriteByte(c)
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		}
	}
	return b.String()
}

// balance closes an unterminated string literal and appends closers for any
// unclosed braces/brackets. Closers with no matching opener are dropped.
func balance(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	var stack []byte
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			b.WriteByte(c)
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			stack = append(stack, c)
		case '}':
			if len(stack) == 0 || stack[len(stack)-1] != '{' {
				continue
			}
			stack = stack[:len(stack)-1]
		case ']':
			if len(stack) == 0 || stack[len(stack)-1] != '[' {
				continue
			}
			stack = stack[:len(stack)-1]
		}
		b.WriteByte(c)
	}
	if inString {
		b.WriteByte('"')
	}
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == '{' {
			b.WriteByte('}')
		} else {
			b.WriteByte(']')
		}
	}
	return b.String()
}

// stripTrailingCommas removes commas whose next non-whitespace character is
// a closer.
func stripTrailingCommas(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			b.WriteByte(c)
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
			continue
		}
		if c == '"' {
			inString = true
			b.WriteByte(c)
			continue
		}
		if c == ',' {
			j := i + 1
			for j < len(s) && (s[j] == ' ' || s[j] == '\t' || s[j] == '\n' || s[j] == '\r') {
				j++
			}
			if j < len(s) && (s[j] == '}' || s[j] == ']') {
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}
