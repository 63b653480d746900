package pipeline

import "fmt"

// FailureKind is the typed reason a run ended in the failed state.
type FailureKind string

const (
	FailValidation          FailureKind = "validation"
	FailAuth                FailureKind = "auth"
	FailGeneration          FailureKind = "generation"
	FailGenerationTransient FailureKind = "generation_transient"
	FailParse               FailureKind = "parse"
	FailPersistence         FailureKind = "persistence"
)

// Failure is the single typed result surfaced to callers when a run fails.
// Message is safe to show to end users; Err carries the cause for logs.
type Failure struct {
	Kind    FailureKind
	Message string
	Err     error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %v", f.Kind, f.Err)
	}
	return string(f.Kind)
}

func (f *Failure) Unwrap() error { return f.Err }

func newFailure(kind FailureKind, err error) *Failure {
	return &Failure{Kind: kind, Message: friendlyMessage(kind), Err: err}
}

func friendlyMessage(kind FailureKind) string {
	switch kind {
	case FailValidation:
		return "Some trip details are missing or invalid. Please review them and try again."
	case FailAuth:
		return "You need to be signed in to generate a trip."
	case FailGenerationTransient:
		return "The trip service is busy right now. Please try again shortly."
	case FailGeneration:
		return "We couldn't generate your trip this time. Please try again."
	case FailParse:
		return "We couldn't put your itinerary together. Please try again."
	case FailPersistence:
		return "Your trip was generated but couldn't be saved. Please try again."
	default:
		return "Something went wrong. Please try again."
	}
}
