package llmclient

import "context"

// TextClient is the generation port: it turns a plain-text prompt into plain
// text. The pipeline does not assume the provider enforces JSON-only output;
// sanitizing and repairing what comes back is downstream work.
type TextClient interface {
	Name() string
	Close() error
	Generate(ctx context.Context, prompt string) (string, error)
}
