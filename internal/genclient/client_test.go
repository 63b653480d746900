package genclient

import (
	"context"
	"errors"
	"testing"
	"time"

	"tripforge/internal/llmclient"
	"tripforge/internal/trip"
)

type fakeClient struct {
	calls   int
	outputs []string
	errs    []error
}

func (f *fakeClient) Name() string { return "fake" }
func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) Generate(_ context.Context, _ string) (string, error) {
	i := f.calls
	f.calls++
	var out string
	var err error
	if i < len(f.outputs) {
		out = f.outputs[i]
	}
	if i < len(f.errs) {
		err = f.errs[i]
	}
	return out, err
}

func zeroDelay() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, Delay: func(int) time.Duration { return 0 }}
}

func genParams() trip.Parameters {
	return trip.Parameters{
		Destination:  "Paris",
		Category:     trip.CategoryGeneral,
		DurationDays: 3,
		TravelerType: "solo",
		Budget:       trip.BudgetModerate,
		StartDate:    time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC),
	}
}

func TestGenerateRetryBound(t *testing.T) {
	boom := errors.New("upstream exploded")
	fake := &fakeClient{errs: []error{boom, boom, boom}}
	c := New(fake, zeroDelay())

	_, err := c.Generate(context.Background(), genParams(), "prompt")
	if err == nil {
		t.Fatalf("Generate() error = nil, want failure")
	}
	if fake.calls != 3 {
		t.Fatalf("port calls = %d, want 3", fake.calls)
	}
	var gErr *Error
	if !errors.As(err, &gErr) {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if gErr.Attempts != 3 {
		t.Fatalf("Attempts = %d, want 3", gErr.Attempts)
	}
	if gErr.Transient {
		t.Fatalf("Transient = true for non-transient cause")
	}
}

func TestGenerateLinearDelays(t *testing.T) {
	boom := errors.New("nope")
	fake := &fakeClient{errs: []error{boom, boom, boom}}
	var delays []time.Duration
	c := New(fake, RetryPolicy{
		MaxAttempts: 3,
		Delay: func(attempt int) time.Duration {
			d := time.Duration(attempt) * 2 * time.Second
			delays = append(delays, d)
			return 0
		},
	})

	_, _ = c.Generate(context.Background(), genParams(), "prompt")
	if len(delays) != 2 {
		t.Fatalf("delay calls = %d, want 2 (between 3 attempts)", len(delays))
	}
	if delays[0] != 2*time.Second || delays[1] != 4*time.Second {
		t.Fatalf("delays = %v, want [2s 4s]", delays)
	}
}

func TestGenerateFailsFastOnValidation(t *testing.T) {
	fake := &fakeClient{}
	c := New(fake, zeroDelay())

	p := genParams()
	p.Destination = ""
	_, err := c.Generate(context.Background(), p, "prompt")
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
	if fake.calls != 0 {
		t.Fatalf("port calls = %d, want 0 on validation failure", fake.calls)
	}
}

func TestGeneratePermanentErrorShortCircuits(t *testing.T) {
	perm := llmclient.NewPermanentError(errors.New("context_length_exceeded"))
	fake := &fakeClient{errs: []error{perm, perm, perm}}
	c := New(fake, zeroDelay())

	_, err := c.Generate(context.Background(), genParams(), "prompt")
	if err == nil {
		t.Fatalf("Generate() error = nil, want failure")
	}
	if fake.calls != 1 {
		t.Fatalf("port calls = %d, want 1 after permanent error", fake.calls)
	}
}

func TestGenerateTransientClassification(t *testing.T) {
	busy := errors.New("429 too many requests")
	fake := &fakeClient{errs: []error{busy, busy, busy}}
	c := New(fake, zeroDelay())

	_, err := c.Generate(context.Background(), genParams(), "prompt")
	var gErr *Error
	if !errors.As(err, &gErr) {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if !gErr.Transient {
		t.Fatalf("Transient = false for rate-limit cause")
	}
}

func TestGenerateEmptyOutputRetried(t *testing.T) {
	fake := &fakeClient{outputs: []string{"", "  \n ", `{"day1":{"places":[]}}`}}
	c := New(fake, zeroDelay())

	out, err := c.Generate(context.Background(), genParams(), "prompt")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if fake.calls != 3 {
		t.Fatalf("port calls = %d, want 3", fake.calls)
	}
	if out != `{"day1":{"places":[]}}` {
		t.Fatalf("Generate() = %q", out)
	}
}

func TestGenerateObservesAttempts(t *testing.T) {
	boom := errors.New("nope")
	fake := &fakeClient{errs: []error{boom, nil}, outputs: []string{"", "ok"}}
	c := New(fake, zeroDelay())
	var seen []int
	c.OnAttempt = func(attempt int) { seen = append(seen, attempt) }

	if _, err := c.Generate(context.Background(), genParams(), "prompt"); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(seen) != 2 || seen[0] != 1 || seen[1] != 2 {
		t.Fatalf("observed attempts = %v, want [1 2]", seen)
	}
}
