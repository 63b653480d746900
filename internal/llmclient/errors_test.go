package llmclient

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsTransientMarkers(t *testing.T) {
	transient := []string{
		"429 too many requests",
		"HTTP 503 service unavailable",
		"rate limit exceeded",
		"model overloaded",
		"RESOURCE EXHAUSTED",
		"quota exceeded for project",
	}
	for _, msg := range transient {
		if !IsTransient(errors.New(msg)) {
			t.Fatalf("IsTransient(%q) = false, want true", msg)
		}
	}

	if IsTransient(errors.New("invalid request payload")) {
		t.Fatalf("IsTransient() = true for a non-transient message")
	}
	if IsTransient(nil) {
		t.Fatalf("IsTransient(nil) = true")
	}
}

func TestPermanentErrorNeverTransient(t *testing.T) {
	// Even with a transient-looking message, the permanent marker wins.
	err := NewPermanentError(errors.New("429 context_length_exceeded"))
	if IsTransient(err) {
		t.Fatalf("IsTransient(permanent) = true")
	}

	wrapped := fmt.Errorf("call failed: %w", err)
	var pErr *PermanentError
	if !errors.As(wrapped, &pErr) {
		t.Fatalf("errors.As failed to find PermanentError through wrapping")
	}
}
