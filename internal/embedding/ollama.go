package embedding

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ollama/ollama/api"
	"github.com/ollama/ollama/envconfig"
)

// OllamaEmbedder generates embeddings through the Ollama embeddings API.
type OllamaEmbedder struct {
	client     *api.Client
	model      string
	dimension  int
	maxRetries int
	timeout    time.Duration
}

// NewOllamaEmbedder creates an embedder for the given model. The host is
// taken from OLLAMA_HOST via envconfig, matching the rest of the Ollama
// tooling. dimension is the expected vector size (384 for MiniLM-class
// embedding models); a response of any other size is an error because a
// mismatched vector would silently poison the index.
func NewOllamaEmbedder(model string, dimension int) *OllamaEmbedder {
	return &OllamaEmbedder{
		client:     api.NewClient(envconfig.Host(), http.DefaultClient),
		model:      model,
		dimension:  dimension,
		maxRetries: 3,
		timeout:    30 * time.Second,
	}
}

func (e *OllamaEmbedder) Dimension() int { return e.dimension }

// Embed returns the embedding vector for text, retrying transient
// failures with linear backoff.
func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	var lastErr error
	for attempt := 0; attempt <= e.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(time.Duration(attempt) * time.Second):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		vec, err := e.embed(ctx, text)
		if err == nil {
			return vec, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("embed after %d retries: %w", e.maxRetries, lastErr)
}

func (e *OllamaEmbedder) embed(ctx context.Context, text string) ([]float64, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := e.client.Embeddings(ctx, &api.EmbeddingRequest{
		Model:  e.model,
		Prompt: text,
	})
	if err != nil {
		return nil, fmt.Errorf("ollama embeddings: %w", err)
	}
	if len(resp.Embedding) != e.dimension {
		return nil, fmt.Errorf("embedding dimension %d, expected %d", len(resp.Embedding), e.dimension)
	}
	return resp.Embedding, nil
}
