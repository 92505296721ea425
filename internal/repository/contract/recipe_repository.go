package contract

import (
	"context"

	"ai-recipechat-be/internal/entity"
	"ai-recipechat-be/internal/repository/specification"
	"ai-recipechat-be/pkg/chef/search"

	"github.com/google/uuid"
)

// ScoredRecipe pairs a recipe with its raw retrieval scores, both in [0, 1].
type ScoredRecipe struct {
	Recipe      *entity.Recipe
	TextScore   float64
	VectorScore float64
}

type RecipeRepository interface {
	Create(ctx context.Context, recipe *entity.Recipe) error
	Update(ctx context.Context, recipe *entity.Recipe) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Recipe, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Recipe, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	CreateBulk(ctx context.Context, recipes []*entity.Recipe) error

	// HybridSearch executes the compound query: weighted fuzzy text matching,
	// optional vector similarity, hard exclusions, and constraint filters.
	HybridSearch(ctx context.Context, spec search.QuerySpec) ([]*ScoredRecipe, error)
}
