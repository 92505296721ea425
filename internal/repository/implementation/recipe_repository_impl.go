package implementation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ai-recipechat-be/internal/entity"
	"ai-recipechat-be/internal/mapper"
	"ai-recipechat-be/internal/model"
	"ai-recipechat-be/internal/repository/contract"
	"ai-recipechat-be/internal/repository/specification"
	"ai-recipechat-be/pkg/chef/search"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type RecipeRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.RecipeMapper
}

func NewRecipeRepository(db *gorm.DB) contract.RecipeRepository {
	return &RecipeRepositoryImpl{
		db:     db,
		mapper: mapper.NewRecipeMapper(),
	}
}

func (r *RecipeRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *RecipeRepositoryImpl) Create(ctx context.Context, recipe *entity.Recipe) error {
	m := r.mapper.ToModel(recipe)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*recipe = *r.mapper.ToEntity(m)
	return nil
}

func (r *RecipeRepositoryImpl) Update(ctx context.Context, recipe *entity.Recipe) error {
	m := r.mapper.ToModel(recipe)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*recipe = *r.mapper.ToEntity(m)
	return nil
}

func (r *RecipeRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Recipe{}, id).Error
}

func (r *RecipeRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Recipe, error) {
	var m model.Recipe
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *RecipeRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Recipe, error) {
	var models []*model.Recipe
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *RecipeRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.Recipe{}).Count(&count).Error
	return count, err
}

func (r *RecipeRepositoryImpl) CreateBulk(ctx context.Context, recipes []*entity.Recipe) error {
	models := make([]*model.Recipe, len(recipes))
	for i, e := range recipes {
		models[i] = r.mapper.ToModel(e)
	}
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*recipes[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

// HybridSearch compiles the compound query into one SELECT:
//   - text_score: weighted ILIKE hits over the declared fields, normalized to
//     [0, 1] by the maximum attainable weight
//   - vector_score: 1 - cosine distance when a query vector is present
//   - MUST_NOT exclusion tokens and the constraint filters as WHERE clauses
//
// Ordering happens upstream in the ranker; here we fetch by the better of the
// two scores so the candidate window is not biased toward either signal.
func (r *RecipeRepositoryImpl) HybridSearch(ctx context.Context, spec search.QuerySpec) ([]*contract.ScoredRecipe, error) {
	limit := spec.Limit
	if limit <= 0 {
		limit = 10
	}

	textExpr, textArgs := compileTextScore(spec)

	selectExpr := fmt.Sprintf("recipes.*, %s AS text_score", textExpr)
	args := textArgs

	if len(spec.Vector) > 0 {
		selectExpr += ", 1 - (embedding <=> ?) AS vector_score"
		args = append(args, pgvector.NewVector(spec.Vector))
	} else {
		selectExpr += ", 0.0 AS vector_score"
	}

	type row struct {
		model.Recipe
		TextScore   float64
		VectorScore float64
	}
	var rows []row

	query := r.db.WithContext(ctx).
		Table("recipes").
		Select(selectExpr, args...).
		Where("recipes.deleted_at IS NULL")

	query = r.applySpecifications(query, filterSpecs(spec)...)

	if !spec.MatchAll && len(spec.Terms) > 0 {
		matchExpr, matchArgs := compileTextMatch(spec)
		query = query.Where(matchExpr, matchArgs...)
	}

	// Fetch window order: vector similarity first when hybrid, else the text
	// score. Final ordering is the ranker's job.
	order := "text_score DESC"
	if len(spec.Vector) > 0 {
		order = "vector_score DESC, text_score DESC"
	}

	err := query.
		Order(order).
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredRecipe, len(rows))
	for i, res := range rows {
		scored[i] = &contract.ScoredRecipe{
			Recipe:      r.mapper.ToEntity(&res.Recipe),
			TextScore:   res.TextScore,
			VectorScore: res.VectorScore,
		}
	}
	return scored, nil
}

func filterSpecs(spec search.QuerySpec) []specification.Specification {
	var specs []specification.Specification
	if spec.Filter.MaxMinutes > 0 {
		specs = append(specs, specification.ByMaxMinutes{Minutes: spec.Filter.MaxMinutes})
	}
	if spec.Filter.Difficulty != "" {
		specs = append(specs, specification.ByDifficulty{Difficulty: spec.Filter.Difficulty})
	}
	if len(spec.Filter.Tags) > 0 {
		specs = append(specs, specification.ByAnyTag{Tags: spec.Filter.Tags})
	}
	if len(spec.ExcludeTokens) > 0 {
		specs = append(specs, specification.ExcludeIngredientTokens{Tokens: spec.ExcludeTokens})
	}
	return specs
}

// compileTextScore builds the weighted-hit sum. jsonb fields are cast to text
// for the ILIKE scan.
func compileTextScore(spec search.QuerySpec) (string, []interface{}) {
	if spec.MatchAll || len(spec.Terms) == 0 {
		return "1.0", nil
	}

	var (
		cases []string
		args  []interface{}
		max   float64
	)
	for _, term := range spec.Terms {
		pattern := "%" + term + "%"
		for _, fw := range spec.Fields {
			cases = append(cases, fmt.Sprintf("CASE WHEN %s ILIKE ? THEN %g ELSE 0 END", columnExpr(fw.Field), fw.Weight))
			args = append(args, pattern)
			max += fw.Weight
		}
	}
	if max <= 0 {
		return "1.0", nil
	}

	expr := fmt.Sprintf("(%s) / %g", strings.Join(cases, " + "), max)
	return expr, args
}

// compileTextMatch is the MUST clause: at least one term hits one field.
func compileTextMatch(spec search.QuerySpec) (string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)
	for _, term := range spec.Terms {
		pattern := "%" + term + "%"
		for _, fw := range spec.Fields {
			conds = append(conds, columnExpr(fw.Field)+" ILIKE ?")
			args = append(args, pattern)
		}
	}
	return "(" + strings.Join(conds, " OR ") + ")", args
}

func columnExpr(field string) string {
	switch field {
	case "ingredients", "tags", "steps":
		return field + "::text"
	default:
		return field
	}
}
