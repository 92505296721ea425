package store

import "time"

// RecipeCandidate is a search hit flowing through the pipeline. Scores are
// filled in stages: VectorScore/TextScore by the backend, CombinedScore by the
// hybrid ranker, SafetyScore by the allergen filter.
type RecipeCandidate struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	NameLocalized        string   `json:"name_localized"`
	Description          string   `json:"description"`
	DescriptionLocalized string   `json:"description_localized"`
	Ingredients          []string `json:"ingredients"`
	Steps                []string `json:"steps"`
	Minutes              int      `json:"minutes"`
	Servings             int      `json:"servings"`
	Difficulty           string   `json:"difficulty"`
	Tags                 []string `json:"tags"`
	AllergyFlags         []string `json:"allergy_flags"`
	SafetyScore          float64  `json:"safety_score"`
	TextScore            float64  `json:"text_score"`
	VectorScore          float64  `json:"vector_score"`
	CombinedScore        float64  `json:"combined_score"`
	Provenance           string   `json:"provenance"`
}

// Provenance markers for candidates and generated recipes.
const (
	ProvenanceCorpus    = "corpus"
	ProvenanceGenerated = "ai_generated"
)

// ConversationTurn is one completed exchange in a session. Append-only; the
// workflow consults it for follow-up detection but never rewrites it.
type ConversationTurn struct {
	Query     string    `json:"query"`
	Response  string    `json:"response"`
	Entities  []string  `json:"entities"`
	RecipeID  string    `json:"recipe_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is the in-memory workflow session shared across turns: what was
// discussed last, so follow-ups like "more tips" have something to bind to.
type Session struct {
	ID            string           `json:"id"`
	UserID        string           `json:"user_id"`
	LastQuery     string           `json:"last_query"`
	LastRecipe    *RecipeCandidate `json:"last_recipe"`
	LastEntities  []string         `json:"last_entities"`
	LastIntent    string           `json:"last_intent"`
	LastRespondAt time.Time        `json:"last_respond_at"`
}

// UserProfile carries the flags the tip engine keys on. Loaded from the
// request, never inferred.
type UserProfile struct {
	Beginner        bool `json:"beginner"`
	TimeConstrained bool `json:"time_constrained"`
	HasAllergies    bool `json:"has_allergies"`
}
