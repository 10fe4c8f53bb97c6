package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"moviequiz/internal/config"
	"moviequiz/internal/domain"
	"moviequiz/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// textGenerator implements domain.TextGenerator on a langchaingo model.
type textGenerator struct {
	model   llms.Model
	timeout time.Duration
}

// New creates a TextGenerator for the configured backend. Source selects
// between a hosted OpenAI-compatible endpoint and a local ollama server.
func New(cfg config.LLMConfig) (domain.TextGenerator, error) {
	switch cfg.Source {
	case "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai API key cannot be empty")
		}
		model, err := openai.New(
			openai.WithToken(cfg.APIKey),
			openai.WithModel(cfg.Model),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create openai client: %w", err)
		}
		return &textGenerator{model: model, timeout: cfg.Timeout}, nil
	case "ollama":
		httpClient := &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     10 * time.Second,
			},
		}
		model, err := ollama.New(
			ollama.WithServerURL(cfg.ServerURL),
			ollama.WithModel(cfg.Model),
			ollama.WithHTTPClient(httpClient),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create ollama client: %w", err)
		}
		return &textGenerator{model: model, timeout: cfg.Timeout}, nil
	default:
		return nil, fmt.Errorf("unsupported llm source: %s", cfg.Source)
	}
}

// Generate implements domain.TextGenerator. Failures are not retried here;
// re-prompting is a caller decision.
func (g *textGenerator) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	l := logger.Get()

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	response, err := g.model.Call(ctx, prompt,
		llms.WithTemperature(0.1),
		llms.WithMaxTokens(maxTokens),
	)
	if err != nil {
		l.Error("LLM call failed",
			zap.Error(err),
			zap.Int("prompt_len", len(prompt)))
		return "", domain.NewUpstreamUnavailableError(err)
	}

	response = strings.TrimSpace(response)
	if response == "" {
		l.Error("LLM returned empty completion", zap.Int("prompt_len", len(prompt)))
		return "", domain.NewUpstreamMalformedError("LLM response missing content")
	}

	l.Debug("LLM completion received", zap.Int("response_len", len(response)))
	return response, nil
}
