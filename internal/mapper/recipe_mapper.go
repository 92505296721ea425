package mapper

import (
	"encoding/json"
	"time"

	"ai-recipechat-be/internal/entity"
	"ai-recipechat-be/internal/model"
	"ai-recipechat-be/pkg/store"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RecipeMapper struct{}

func NewRecipeMapper() *RecipeMapper {
	return &RecipeMapper{}
}

func (m *RecipeMapper) ToEntity(r *model.Recipe) *entity.Recipe {
	if r == nil {
		return nil
	}

	var deletedAt *time.Time
	if r.DeletedAt.Valid {
		t := r.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !r.UpdatedAt.IsZero() {
		t := r.UpdatedAt
		updatedAt = &t
	}

	return &entity.Recipe{
		Id:                   r.Id,
		Name:                 r.Name,
		NameLocalized:        r.NameLocalized,
		Description:          r.Description,
		DescriptionLocalized: r.DescriptionLocalized,
		Ingredients:          fromJSONList(r.Ingredients),
		Steps:                fromJSONList(r.Steps),
		Minutes:              r.Minutes,
		Servings:             r.Servings,
		Difficulty:           r.Difficulty,
		Tags:                 fromJSONList(r.Tags),
		AllergyFlags:         fromJSONList(r.AllergyFlags),
		Provenance:           r.Provenance,
		Embedding:            r.Embedding.Slice(),
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            updatedAt,
		DeletedAt:            deletedAt,
		IsDeleted:            r.DeletedAt.Valid,
	}
}

func (m *RecipeMapper) ToModel(r *entity.Recipe) *model.Recipe {
	if r == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if r.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *r.DeletedAt, Valid: true}
	} else if r.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if r.UpdatedAt != nil {
		updatedAt = *r.UpdatedAt
	}

	return &model.Recipe{
		Id:                   r.Id,
		Name:                 r.Name,
		NameLocalized:        r.NameLocalized,
		Description:          r.Description,
		DescriptionLocalized: r.DescriptionLocalized,
		Ingredients:          toJSONList(r.Ingredients),
		Steps:                toJSONList(r.Steps),
		Minutes:              r.Minutes,
		Servings:             r.Servings,
		Difficulty:           r.Difficulty,
		Tags:                 toJSONList(r.Tags),
		AllergyFlags:         toJSONList(r.AllergyFlags),
		Provenance:           r.Provenance,
		Embedding:            pgvector.NewVector(r.Embedding),
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            updatedAt,
		DeletedAt:            deletedAt,
	}
}

// ToCandidate projects an entity into the pipeline's candidate shape. Scores
// are filled by the search layer, not here.
func (m *RecipeMapper) ToCandidate(r *entity.Recipe) store.RecipeCandidate {
	return store.RecipeCandidate{
		ID:                   r.Id.String(),
		Name:                 r.Name,
		NameLocalized:        r.NameLocalized,
		Description:          r.Description,
		DescriptionLocalized: r.DescriptionLocalized,
		Ingredients:          r.Ingredients,
		Steps:                r.Steps,
		Minutes:              r.Minutes,
		Servings:             r.Servings,
		Difficulty:           r.Difficulty,
		Tags:                 r.Tags,
		Provenance:           r.Provenance,
	}
}

func (m *RecipeMapper) ToEntities(recipes []*model.Recipe) []*entity.Recipe {
	entities := make([]*entity.Recipe, len(recipes))
	for i, r := range recipes {
		entities[i] = m.ToEntity(r)
	}
	return entities
}

func toJSONList(values []string) datatypes.JSON {
	if values == nil {
		values = []string{}
	}
	raw, _ := json.Marshal(values)
	return datatypes.JSON(raw)
}

func fromJSONList(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil
	}
	return values
}
