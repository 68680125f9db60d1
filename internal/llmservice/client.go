package llmservice

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"

	"school-tutor-rag/internal/config"
)

// Generator is the single operation the pipeline needs from the
// external generation service. Kept minimal so tests can substitute a
// deterministic implementation.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// OllamaGenerator calls a local Ollama endpoint through langchaingo.
type OllamaGenerator struct {
	llm         *ollama.LLM
	timeout     time.Duration
	maxRetries  int
	temperature float64
	maxTokens   int
}

func NewOllamaGenerator(cfg *config.LLMConfig) (*OllamaGenerator, error) {
	llm, err := ollama.New(
		ollama.WithServerURL(cfg.BaseURL),
		ollama.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize generation LLM: %w", err)
	}
	return &OllamaGenerator{
		llm:         llm,
		timeout:     time.Duration(cfg.TimeoutSecs) * time.Second,
		maxRetries:  cfg.MaxRetries,
		temperature: 0.3,
		maxTokens:   1000,
	}, nil
}

// Generate sends one prompt and collects the full completion. Retries
// are bounded: the initial attempt plus maxRetries, each separated by a
// growing backoff. Timeouts count as failures like any other.
func (g *OllamaGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if attempt > 0 {
			log.Warn().Err(lastErr).Int("attempt", attempt).Msg("Retrying generation request")
			time.Sleep(time.Duration(attempt) * time.Second)
		}
		out, err := g.generate(ctx, prompt)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return "", fmt.Errorf("generation service unreachable after %d attempts: %w", g.maxRetries+1, lastErr)
}

func (g *OllamaGenerator) generate(ctx context.Context, prompt string) (string, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextContent{Text: prompt}},
		},
	}

	res, err := g.llm.GenerateContent(ctxWithTimeout, messages,
		llms.WithTemperature(g.temperature),
		llms.WithMaxTokens(g.maxTokens),
	)
	if err != nil {
		return "", err
	}
	if len(res.Choices) == 0 {
		return "", fmt.Errorf("generation returned no choices")
	}
	return res.Choices[0].Content, nil
}
