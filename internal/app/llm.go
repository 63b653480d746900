package app

import (
	"context"
	"fmt"

	"tripforge/internal/config"
	"tripforge/internal/llmclient"
)

func newTextClient(cfg config.LLMConfig) (llmclient.TextClient, error) {
	switch cfg.Provider {
	case "gemini":
		client, err := llmclient.NewGeminiClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize gemini client: %w", err)
		}
		return client, nil
	case "groq":
		client, err := llmclient.NewGroqClient(cfg.GroqAPIKey, cfg.GroqModel)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize groq client: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q (want gemini or groq)", cfg.Provider)
	}
}
