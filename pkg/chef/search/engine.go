package search

import (
	"context"
	"log"
	"time"

	"ai-recipechat-be/pkg/chef/extract"
	"ai-recipechat-be/pkg/chef/state"
	"ai-recipechat-be/pkg/embedding"
	"ai-recipechat-be/pkg/store"
)

const defaultTopK = 10

// Engine runs the full retrieval pass: embed the query (bounded retries
// happen inside the provider), execute the compound search, combine scores,
// and re-apply the allergen filter client-side.
type Engine struct {
	backend  Backend
	embedder embedding.Provider
	dict     *extract.Dictionary
	cfg      RankConfig
	topK     int
	timeout  time.Duration
	logger   *log.Logger
}

// NewEngine creates a retrieval engine. embedder may be nil to run text-only.
func NewEngine(
	backend Backend,
	embedder embedding.Provider,
	dict *extract.Dictionary,
	cfg RankConfig,
	logger *log.Logger,
) *Engine {
	return &Engine{
		backend:  backend,
		embedder: embedder,
		dict:     dict,
		cfg:      cfg.Validate(),
		topK:     defaultTopK,
		timeout:  10 * time.Second,
		logger:   logger,
	}
}

// SetTopK overrides the candidate window size. Non-positive values are
// ignored.
func (e *Engine) SetTopK(k int) {
	if k > 0 {
		e.topK = k
	}
}

// RetrievalResult carries candidates plus the degradation flag. Fallback is
// set when the backend was unreachable; the caller must treat an empty set as
// "attempt generation", never as fatal.
type RetrievalResult struct {
	Candidates []store.RecipeCandidate
	Fallback   bool
	TookMs     int64
}

// Retrieve executes the compound query built from the current state.
func (e *Engine) Retrieve(ctx context.Context, st *state.GraphState) *RetrievalResult {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	spec := BuildQuery(st, e.topK)

	// Hybrid mode: attach a query vector when an embedder is wired. An
	// exhausted embedding retry degrades to text-only retrieval, not an error.
	if e.embedder != nil {
		vec, err := e.embedder.Embed(ctx, st.Query)
		if err != nil {
			e.logger.Printf("[RETRIEVE] Embedding unavailable, text-only search: %v", err)
		} else {
			spec.Vector = vec
		}
	}

	res, err := e.backend.Search(ctx, spec)
	if err != nil {
		e.logger.Printf("[RETRIEVE] Backend unavailable: %v", err)
		return &RetrievalResult{Candidates: nil, Fallback: true}
	}

	candidates := AnnotateSafety(res.Hits, e.dict)
	candidates = Rank(candidates, e.cfg)
	candidates = FilterExcluded(candidates, st.ExclusionTokens, e.logger)

	e.logger.Printf("[RETRIEVE] %d hits -> %d after rank+safety (took %dms)",
		res.Total, len(candidates), res.TookMs)

	return &RetrievalResult{
		Candidates: candidates,
		TookMs:     res.TookMs,
	}
}
