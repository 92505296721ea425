package dto

import (
	"time"

	"ai-recipechat-be/pkg/store"

	"github.com/google/uuid"
)

type ChatRequest struct {
	SessionId string `json:"session_id" validate:"required,max=64"`
	// Query may be empty; the pipeline answers with a clarification prompt
	// instead of rejecting the turn.
	Query     string   `json:"query" validate:"max=2000"`
	Allergies []string `json:"allergies,omitempty" validate:"max=20,dive,max=64"`

	Beginner        bool `json:"beginner,omitempty"`
	TimeConstrained bool `json:"time_constrained,omitempty"`
}

type RecipeSummaryDTO struct {
	Id            string   `json:"id"`
	Name          string   `json:"name"`
	NameLocalized string   `json:"name_localized,omitempty"`
	Description   string   `json:"description,omitempty"`
	Minutes       int      `json:"minutes,omitempty"`
	Difficulty    string   `json:"difficulty,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	Provenance    string   `json:"provenance"`
	Score         float64  `json:"score"`
}

type RecipeDTO struct {
	Id            string   `json:"id"`
	Name          string   `json:"name"`
	NameLocalized string   `json:"name_localized,omitempty"`
	Description   string   `json:"description,omitempty"`
	Ingredients   []string `json:"ingredients"`
	Steps         []string `json:"steps"`
	Minutes       int      `json:"minutes"`
	Servings      int      `json:"servings"`
	Difficulty    string   `json:"difficulty"`
	Tags          []string `json:"tags,omitempty"`
	Provenance    string   `json:"provenance"`
}

type ChatResponse struct {
	SessionId  string             `json:"session_id"`
	Reply      string             `json:"reply"`
	Intent     string             `json:"intent"`
	Confidence float64            `json:"confidence"`
	Branch     string             `json:"branch,omitempty"`
	Degraded   bool               `json:"degraded,omitempty"`
	Allergies  []string           `json:"allergies,omitempty"`
	Candidates []RecipeSummaryDTO `json:"candidates,omitempty"`
	Generated  *RecipeDTO         `json:"generated,omitempty"`
	TimingsMs  map[string]int64   `json:"timings_ms,omitempty"`
}

type TurnDTO struct {
	Query     string    `json:"query"`
	Response  string    `json:"response"`
	RecipeId  string    `json:"recipe_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type GetHistoryResponse struct {
	SessionId string    `json:"session_id"`
	Turns     []TurnDTO `json:"turns"`
}

// PublishEmbedRecipeMessage is the indexing queue payload.
type PublishEmbedRecipeMessage struct {
	RecipeId uuid.UUID `json:"recipe_id"`
}

func ToRecipeSummaryDTO(c *store.RecipeCandidate) RecipeSummaryDTO {
	return RecipeSummaryDTO{
		Id:            c.ID,
		Name:          c.Name,
		NameLocalized: c.NameLocalized,
		Description:   c.Description,
		Minutes:       c.Minutes,
		Difficulty:    c.Difficulty,
		Tags:          c.Tags,
		Provenance:    c.Provenance,
		Score:         c.CombinedScore,
	}
}

func ToRecipeDTO(c *store.RecipeCandidate) *RecipeDTO {
	if c == nil {
		return nil
	}
	return &RecipeDTO{
		Id:            c.ID,
		Name:          c.Name,
		NameLocalized: c.NameLocalized,
		Description:   c.Description,
		Ingredients:   c.Ingredients,
		Steps:         c.Steps,
		Minutes:       c.Minutes,
		Servings:      c.Servings,
		Difficulty:    c.Difficulty,
		Tags:          c.Tags,
		Provenance:    c.Provenance,
	}
}
