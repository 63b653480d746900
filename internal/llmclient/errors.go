package llmclient

import (
	"errors"
	"strings"
)

var ErrEmptyResponse = errors.New("empty response from model")

// PermanentError indicates an error that will not resolve with retries.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

func NewPermanentError(err error) error {
	return &PermanentError{Err: err}
}

// IsTransient reports whether an error looks like upstream overload or rate
// limiting (HTTP 429/503 semantics). Classification is message-based because
// providers surface these differently.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var pErr *PermanentError
	if errors.As(err, &pErr) {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"429", "503",
		"rate limit", "rate-limit", "ratelimit",
		"overloaded", "resource exhausted", "resource_exhausted",
		"unavailable", "quota",
		"too many requests",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
