package mapper

import (
	"testing"
	"time"

	"ai-recipechat-be/internal/entity"
	"ai-recipechat-be/pkg/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEntity() *entity.Recipe {
	now := time.Now().Truncate(time.Second)
	return &entity.Recipe{
		Id:                   uuid.New(),
		Name:                 "Vegetable Fried Rice",
		NameLocalized:        "Nasi Goreng Sayur",
		Description:          "Weeknight fried rice.",
		DescriptionLocalized: "Nasi goreng cepat.",
		Ingredients:          []string{"rice", "egg", "carrot"},
		Steps:                []string{"Fry aromatics.", "Add rice."},
		Minutes:              20,
		Servings:             2,
		Difficulty:           "easy",
		Tags:                 []string{"quick", "vegetarian"},
		Provenance:           store.ProvenanceCorpus,
		Embedding:            []float32{0.1, 0.2, 0.3},
		CreatedAt:            now,
	}
}

func TestRecipeMapperRoundTrip(t *testing.T) {
	m := NewRecipeMapper()
	src := sampleEntity()

	got := m.ToEntity(m.ToModel(src))
	require.NotNil(t, got)

	assert.Equal(t, src.Id, got.Id)
	assert.Equal(t, src.Name, got.Name)
	assert.Equal(t, src.NameLocalized, got.NameLocalized)
	assert.Equal(t, src.Ingredients, got.Ingredients)
	assert.Equal(t, src.Steps, got.Steps)
	assert.Equal(t, src.Tags, got.Tags)
	assert.Equal(t, src.Embedding, got.Embedding)
	assert.Equal(t, src.Provenance, got.Provenance)
	assert.False(t, got.IsDeleted)
}

func TestRecipeMapperSoftDelete(t *testing.T) {
	m := NewRecipeMapper()
	src := sampleEntity()
	deleted := time.Now().Truncate(time.Second)
	src.DeletedAt = &deleted

	got := m.ToEntity(m.ToModel(src))
	require.NotNil(t, got)

	assert.True(t, got.IsDeleted)
	require.NotNil(t, got.DeletedAt)
	assert.Equal(t, deleted, *got.DeletedAt)
}

func TestToCandidateLeavesScoresToSearch(t *testing.T) {
	m := NewRecipeMapper()
	src := sampleEntity()

	cand := m.ToCandidate(src)

	assert.Equal(t, src.Id.String(), cand.ID)
	assert.Equal(t, src.NameLocalized, cand.NameLocalized)
	assert.Equal(t, src.Ingredients, cand.Ingredients)
	assert.Zero(t, cand.TextScore)
	assert.Zero(t, cand.VectorScore)
	assert.Zero(t, cand.CombinedScore)
	assert.Empty(t, cand.AllergyFlags)
}

func TestMapperNilSafety(t *testing.T) {
	m := NewRecipeMapper()
	assert.Nil(t, m.ToEntity(nil))
	assert.Nil(t, m.ToModel(nil))
}
