package qa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
	"github.com/ollama/ollama/envconfig"
)

// OllamaExtractor runs extractive QA through a local Ollama model.
type OllamaExtractor struct {
	client  *api.Client
	model   string
	timeout time.Duration
	stats   *Stats
}

// NewOllamaExtractor creates an extractor for the given model. The host is
// taken from OLLAMA_HOST via envconfig. stats may be nil if latency
// tracking is not wanted.
func NewOllamaExtractor(model string, timeout time.Duration, stats *Stats) *OllamaExtractor {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &OllamaExtractor{
		client:  api.NewClient(envconfig.Host(), http.DefaultClient),
		model:   model,
		timeout: timeout,
		stats:   stats,
	}
}

// Extract asks the model for the answer span to question within passage.
// Temperature is pinned to zero so identical inputs give identical output.
func (o *OllamaExtractor) Extract(ctx context.Context, question, passage string) (Answer, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	req := api.GenerateRequest{
		Model:  o.model,
		Prompt: buildPrompt(question, passage),
		Format: json.RawMessage(`"json"`),
		Options: map[string]interface{}{
			"temperature": 0.0,
			"num_predict": 256,
		},
	}

	start := time.Now()
	var responseBuilder strings.Builder
	err := o.client.Generate(ctx, &req, func(resp api.GenerateResponse) error {
		_, werr := responseBuilder.WriteString(resp.Response)
		return werr
	})
	if o.stats != nil {
		o.stats.Record(time.Since(start).Milliseconds())
	}
	if err != nil {
		if ctx.Err() != nil {
			return Answer{}, fmt.Errorf("ollama generate: %w", err)
		}
		return Answer{}, classifyGenerateError(err)
	}

	raw := stripCodeBlock(responseBuilder.String())
	var ans Answer
	if err := json.Unmarshal([]byte(raw), &ans); err != nil {
		return Answer{}, fmt.Errorf("parse answer json: %w (raw: %s)", err, truncate(raw, 200))
	}
	return ans, nil
}

// classifyGenerateError separates failures worth retrying from terminal
// ones. Server overload (429, 5xx) and transport failures such as a
// refused connection are transient; any other HTTP status is terminal.
func classifyGenerateError(err error) error {
	var statusErr api.StatusError
	if errors.As(err, &statusErr) {
		if statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode >= 500 {
			return &RetryableError{Cause: err}
		}
		return fmt.Errorf("ollama generate: %w", err)
	}
	return &RetryableError{Cause: err}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
