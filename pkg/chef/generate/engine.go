package generate

import (
	"context"
	"log"
	"strings"
	"time"

	"ai-recipechat-be/pkg/llm"
	"ai-recipechat-be/pkg/store"

	"github.com/google/uuid"
)

// Defaults applied to fields the model left out.
const (
	DefaultMinutes    = 30
	DefaultServings   = 2
	DefaultDifficulty = "medium"
)

// Persister stores a generated recipe. Fire-and-forget: the engine logs a
// failure and moves on.
type Persister interface {
	Persist(ctx context.Context, recipe *store.RecipeCandidate) (string, error)
}

// Engine produces a new recipe from scratch when retrieval came back empty.
// It never re-prompts on malformed output; the workflow falls through to the
// textual fallback instead.
type Engine struct {
	provider    llm.Provider
	persister   Persister
	temperature float64
	maxTokens   int
	timeout     time.Duration
	logger      *log.Logger
}

// NewEngine creates a generation engine. persister may be nil.
func NewEngine(provider llm.Provider, persister Persister, logger *log.Logger) *Engine {
	return &Engine{
		provider:    provider,
		persister:   persister,
		temperature: 0.7,
		maxTokens:   1200,
		timeout:     60 * time.Second,
		logger:      logger,
	}
}

// Generate runs one prompt and recovers the structured recipe from the raw
// output. A nil return means "no recipe" — LLM outage, malformed output, or a
// generated recipe that violated the exclusion list. All are recoverable.
func (e *Engine) Generate(
	ctx context.Context,
	query string,
	allergies []string,
	exclusionTokens []string,
	references []store.RecipeCandidate,
) *store.RecipeCandidate {

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	prompt := BuildPrompt(query, allergies, references)

	raw, err := e.provider.Generate(ctx, prompt,
		llm.WithTemperature(e.temperature),
		llm.WithMaxTokens(e.maxTokens),
	)
	if err != nil {
		e.logger.Printf("[GENERATE] LLM call failed: %v", err)
		return nil
	}

	recipe := RecoverRecipe(raw)
	if recipe == nil {
		e.logger.Printf("[GENERATE] Malformed output, raw (truncated): %s", truncate(raw, 200))
		return nil
	}

	// Defense in depth: the prompt carried the exclusion list, but a model
	// that ignored it must not reach the user.
	if token, hit := violatesExclusions(recipe, exclusionTokens); hit {
		e.logger.Printf("[GENERATE] Discarding generated recipe %q: contains excluded %q", recipe.Name, token)
		return nil
	}

	applyDefaults(recipe)
	recipe.ID = uuid.New().String()
	recipe.Provenance = store.ProvenanceGenerated

	if e.persister != nil {
		if _, err := e.persister.Persist(ctx, recipe); err != nil {
			e.logger.Printf("[GENERATE] Persist failed (ignored): %v", err)
		}
	}

	e.logger.Printf("[GENERATE] Recipe %q created (%d ingredients, %d steps)",
		recipe.Name, len(recipe.Ingredients), len(recipe.Steps))

	return recipe
}

func applyDefaults(r *store.RecipeCandidate) {
	if r.Minutes <= 0 {
		r.Minutes = DefaultMinutes
	}
	if r.Servings <= 0 {
		r.Servings = DefaultServings
	}
	switch r.Difficulty {
	case "easy", "medium", "hard":
	default:
		r.Difficulty = DefaultDifficulty
	}
}

func violatesExclusions(r *store.RecipeCandidate, tokens []string) (string, bool) {
	if len(tokens) == 0 {
		return "", false
	}
	var text strings.Builder
	for _, ing := range r.Ingredients {
		text.WriteString(strings.ToLower(ing))
		text.WriteByte('\n')
	}
	joined := text.String()
	for _, token := range tokens {
		if strings.Contains(joined, token) {
			return token, true
		}
	}
	return "", false
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
