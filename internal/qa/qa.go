// Package qa performs extractive question answering: given a question and
// the text of one candidate section, it returns the most likely literal
// answer span from that text, or an empty answer when the model finds none.
package qa

import (
	"context"
	"fmt"
)

// Answer is a single extracted span. An empty Text means the model found
// no answer in the given context, which is a normal outcome, not an error.
type Answer struct {
	Text       string  `json:"answer"`
	Confidence float64 `json:"confidence,omitempty"`
}

// Extractor answers one question against one section's text.
type Extractor interface {
	Extract(ctx context.Context, question, passage string) (Answer, error)
}

// RetryableError indicates a transient model failure worth retrying.
type RetryableError struct {
	Cause error
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable qa error: %v", e.Cause)
}

func (e *RetryableError) Unwrap() error { return e.Cause }
