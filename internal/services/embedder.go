package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// maxEmbedChars caps the text sent to the embedding API. The model's context
// window is far smaller than a long resume, and the API rejects oversized
// payloads outright.
const maxEmbedChars = 40000

// Embedder turns a text into a fixed-dimension vector. The concrete model
// behind it is a frozen, externally versioned artifact; anything producing
// vectors of the same dimension is substitutable.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedWithRetry(ctx context.Context, text string, maxRetries int) ([]float32, error)
}

type geminiEmbedder struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

func NewGeminiEmbedder(apiKey, model string, logger *zap.Logger) (Embedder, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	if model == "" {
		model = "text-embedding-004"
	}

	return &geminiEmbedder{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

// Embed implements Embedder.
func (g *geminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	text = TruncateRunes(text, maxEmbedChars)

	result, err := g.client.Models.EmbedContent(ctx, g.model, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}

// EmbedWithRetry implements Embedder.
func (g *geminiEmbedder) EmbedWithRetry(ctx context.Context, text string, maxRetries int) ([]float32, error) {
	var lastErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		vector, err := g.Embed(ctx, text)
		if err == nil {
			return vector, nil
		}

		lastErr = err

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
		}

		if attempt < maxRetries {
			g.logger.Warn("embedding attempt failed, retrying",
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
		}
	}

	return nil, fmt.Errorf("failed after %d attempts: %w", maxRetries, lastErr)
}
