package ai

import (
	"context"
	"fmt"

	"github.com/HumbledDS/dd-intelligence-assistant/internal/ai/gemini"
	"github.com/HumbledDS/dd-intelligence-assistant/internal/ai/mock"
	"github.com/HumbledDS/dd-intelligence-assistant/internal/config"
	"github.com/HumbledDS/dd-intelligence-assistant/pkg/models"
)

// NewProviders constructs the synthesizer and embedder pair based on config.
// Called once at server startup.
func NewProviders(ctx context.Context, cfg config.AIConfig) (models.Synthesizer, models.Embedder, error) {
	switch cfg.Provider {
	case "gemini":
		client, err := gemini.NewClient(ctx, cfg.Gemini)
		if err != nil {
			return nil, nil, fmt.Errorf("create gemini client: %w", err)
		}
		return client.Synthesizer(), client.Embedder(), nil
	case "mock":
		return mock.NewSynthesizer(), mock.NewEmbedder(), nil
	default:
		return nil, nil, fmt.Errorf("unknown AI provider %q: must be one of gemini, mock", cfg.Provider)
	}
}
