package search

import (
	"context"

	"ai-recipechat-be/pkg/store"
)

// Result is what a backend returns for one compound query. Hits carry raw
// TextScore/VectorScore; combining them is the ranker's job, not the
// backend's.
type Result struct {
	Hits   []store.RecipeCandidate `json:"hits"`
	Total  int                     `json:"total"`
	TookMs int64                   `json:"took_ms"`
}

// Backend is the consumed search capability. Implementations must be safe for
// concurrent use; the workflow never retries a backend call itself.
type Backend interface {
	Search(ctx context.Context, spec QuerySpec) (*Result, error)
}
