package service

import (
	"context"
	"fmt"
	"time"

	"ai-recipechat-be/internal/entity"
	"ai-recipechat-be/internal/mapper"
	"ai-recipechat-be/internal/repository/contract"
	"ai-recipechat-be/pkg/chef/search"
	"ai-recipechat-be/pkg/embedding"
	"ai-recipechat-be/pkg/store"

	"github.com/google/uuid"
)

// RecipeGateway adapts the recipe repository to the retrieval and generation
// pipeline boundaries: search.Backend for querying and generate.Persister for
// storing invented recipes.
type RecipeGateway struct {
	repo     contract.RecipeRepository
	embedder embedding.Provider
	mapper   *mapper.RecipeMapper
}

// NewRecipeGateway creates the gateway. embedder may be nil; generated
// recipes are then stored without an embedding and surface via text search
// only.
func NewRecipeGateway(repo contract.RecipeRepository, embedder embedding.Provider) *RecipeGateway {
	return &RecipeGateway{
		repo:     repo,
		embedder: embedder,
		mapper:   mapper.NewRecipeMapper(),
	}
}

// Search implements search.Backend over the hybrid SQL query.
func (g *RecipeGateway) Search(ctx context.Context, spec search.QuerySpec) (*search.Result, error) {
	started := time.Now()

	scored, err := g.repo.HybridSearch(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("hybrid search: %w", err)
	}

	hits := make([]store.RecipeCandidate, len(scored))
	for i, s := range scored {
		cand := g.mapper.ToCandidate(s.Recipe)
		cand.TextScore = s.TextScore
		cand.VectorScore = s.VectorScore
		hits[i] = cand
	}

	return &search.Result{
		Hits:   hits,
		Total:  len(hits),
		TookMs: time.Since(started).Milliseconds(),
	}, nil
}

// Persist implements generate.Persister: embed the recipe text, store the
// row, hand back the stored id.
func (g *RecipeGateway) Persist(ctx context.Context, recipe *store.RecipeCandidate) (string, error) {
	ent := &entity.Recipe{
		Name:                 recipe.Name,
		NameLocalized:        recipe.NameLocalized,
		Description:          recipe.Description,
		DescriptionLocalized: recipe.DescriptionLocalized,
		Ingredients:          recipe.Ingredients,
		Steps:                recipe.Steps,
		Minutes:              recipe.Minutes,
		Servings:             recipe.Servings,
		Difficulty:           recipe.Difficulty,
		Tags:                 recipe.Tags,
		Provenance:           store.ProvenanceGenerated,
	}

	if id, err := uuid.Parse(recipe.ID); err == nil {
		ent.Id = id
	}

	if g.embedder != nil {
		if vec, err := g.embedder.Embed(ctx, embeddingDocument(recipe)); err == nil {
			ent.Embedding = vec
		}
	}

	if err := g.repo.Create(ctx, ent); err != nil {
		return "", fmt.Errorf("persist generated recipe: %w", err)
	}
	return ent.Id.String(), nil
}

// embeddingDocument is the text actually embedded for a recipe: name,
// description, and ingredient list.
func embeddingDocument(r *store.RecipeCandidate) string {
	doc := r.Name + "\n" + r.Description
	for _, ing := range r.Ingredients {
		doc += "\n" + ing
	}
	return doc
}
