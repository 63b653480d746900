// Package llm decorates a generation port with cross-cutting concerns.
// Retries are deliberately absent here: the generation client owns its
// retry policy so tests can inject a zero-delay one.
package llm

import (
	"context"
	"log"

	"golang.org/x/time/rate"

	"tripforge/internal/llmclient"
)

// Middleware decorates a TextClient to inject cross-cutting concerns.
type Middleware func(llmclient.TextClient) llmclient.TextClient

// Wrap applies middlewares in left-to-right order.
// Example: Wrap(inner, A, B) => A(B(inner))
func Wrap(inner llmclient.TextClient, mws ...Middleware) llmclient.TextClient {
	out := inner
	for i := len(mws) - 1; i >= 0; i-- {
		out = mws[i](out)
	}
	return out
}

// -------- Logging --------

// WithLogging logs request size and errors. Provide a custom logger or nil
// to use log.Default().
func WithLogging(logger *log.Logger) Middleware {
	if logger == nil {
		logger = log.Default()
	}
	return func(next llmclient.TextClient) llmclient.TextClient {
		return &logging{next: next, log: logger}
	}
}

type logging struct {
	next llmclient.TextClient
	log  *log.Logger
}

func (l *logging) Name() string { return l.next.Name() }
func (l *logging) Close() error { return l.next.Close() }
func (l *logging) Generate(ctx context.Context, prompt string) (string, error) {
	l.log.Printf("LLM request (%s): %d bytes", l.next.Name(), len(prompt))
	out, err := l.next.Generate(ctx, prompt)
	if err != nil {
		l.log.Printf("LLM error (%s): %v", l.next.Name(), err)
	}
	return out, err
}

// -------- Rate limiting --------

// RateLimit throttles requests to rps with the given burst. rps <= 0
// disables the limiter.
func RateLimit(rps float64, burst int) Middleware {
	return func(next llmclient.TextClient) llmclient.TextClient {
		if rps <= 0 {
			return next
		}
		if burst < 1 {
			burst = 1
		}
		return &rateLimited{next: next, rl: rate.NewLimiter(rate.Limit(rps), burst)}
	}
}

type rateLimited struct {
	next llmclient.TextClient
	rl   *rate.Limiter
}

func (c *rateLimited) Name() string { return c.next.Name() }
func (c *rateLimited) Close() error { return c.next.Close() }
func (c *rateLimited) Generate(ctx context.Context, prompt string) (string, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return "", err
	}
	return c.next.Generate(ctx, prompt)
}
