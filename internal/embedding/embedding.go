// Package embedding produces fixed-dimension vectors for policy sections
// and catalog questions. Sections and questions must go through the same
// Embedder instance so they are comparable in one vector space.
package embedding

import "context"

// Embedder converts text into a fixed-dimension vector. Implementations
// must be deterministic for identical input.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	Dimension() int
}
