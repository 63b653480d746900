// Package genclient drives the generation port for one prompt: it validates
// trip parameters up front, then calls the port under an injected retry
// policy, classifying what comes back as transient or not.
package genclient

import (
	"context"
	"errors"
	"strings"
	"time"

	"tripforge/internal/llmclient"
	"tripforge/internal/trip"
)

// RetryPolicy bounds attempts and spaces them out. Delay receives the
// 1-based number of the attempt that just failed and returns how long to
// wait before the next one. Tests substitute a zero-delay policy.
type RetryPolicy struct {
	MaxAttempts int
	Delay       func(attempt int) time.Duration
}

// LinearBackoff is the production policy: three attempts with waits of
// base, 2*base, ... between them.
func LinearBackoff(base time.Duration) RetryPolicy {
	if base <= 0 {
		base = 2 * time.Second
	}
	return RetryPolicy{
		MaxAttempts: 3,
		Delay: func(attempt int) time.Duration {
			return time.Duration(attempt) * base
		},
	}
}

// ValidationError reports missing or invalid trip parameters. The port is
// never called when validation fails.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return "invalid trip parameters: " + e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }

// Error is the terminal generation failure after the retry bound is
// exhausted (or a permanent error short-circuits it).
type Error struct {
	Transient bool
	Attempts  int
	Err       error
}

func (e *Error) Error() string { return "generation failed: " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// Client calls the generation port with bounded retries.
type Client struct {
	LLM    llmclient.TextClient
	Policy RetryPolicy

	// AttemptTimeout caps a single port call. Zero means no per-attempt
	// timeout beyond the retry bound.
	AttemptTimeout time.Duration

	// OnAttempt, when set, observes each attempt number before the call is
	// made. The orchestrator uses it for progress display.
	OnAttempt func(attempt int)
}

func New(client llmclient.TextClient, policy RetryPolicy) *Client {
	return &Client{LLM: client, Policy: policy}
}

// Generate validates params, then calls the port up to the policy bound.
// Every failure is retried except PermanentError; the final error reports
// whether the last failure looked transient so callers can phrase the
// user-facing message accordingly.
func (c *Client) Generate(ctx context.Context, params trip.Parameters, promptText string) (string, error) {
	if err := params.Validate(); err != nil {
		return "", &ValidationError{Err: err}
	}

	max := c.Policy.MaxAttempts
	if max < 1 {
		max = 1
	}

	var last error
	attempts := 0
	for attempt := 1; attempt <= max; attempt++ {
		attempts = attempt
		if c.OnAttempt != nil {
			c.OnAttempt(attempt)
		}
		out, err := c.generateOnce(ctx, promptText)
		if err == nil && strings.TrimSpace(out) == "" {
			err = llmclient.ErrEmptyResponse
		}
		if err == nil {
			return out, nil
		}
		last = err

		var pErr *llmclient.PermanentError
		if errors.As(err, &pErr) {
			break
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if attempt < max && c.Policy.Delay != nil {
			if err := sleep(ctx, c.Policy.Delay(attempt)); err != nil {
				return "", err
			}
		}
	}
	return "", &Error{
		Transient: llmclient.IsTransient(last),
		Attempts:  attempts,
		Err:       last,
	}
}

func (c *Client) generateOnce(ctx context.Context, promptText string) (string, error) {
	if c.AttemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.AttemptTimeout)
		defer cancel()
	}
	return c.LLM.Generate(ctx, promptText)
}

// sleep waits without blocking anything but this run.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
