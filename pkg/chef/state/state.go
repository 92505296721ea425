package state

import (
	"time"

	"ai-recipechat-be/pkg/chef/extract"
	"ai-recipechat-be/pkg/store"
)

// Intent is the classified primary intention of a query.
type Intent string

const (
	IntentRecipeSearch         Intent = "recipe_search"
	IntentRecipeDetail         Intent = "recipe_detail"
	IntentIngredientSubstitute Intent = "ingredient_substitute"
	IntentCookingAdvice        Intent = "cooking_advice"
	IntentNutritionalInfo      Intent = "nutritional_info"
	IntentGeneralChat          Intent = "general_chat"
)

// IntentResult is the classifier output threaded through the graph.
type IntentResult struct {
	Primary    Intent  `json:"primary"`
	Secondary  Intent  `json:"secondary,omitempty"`
	Confidence float64 `json:"confidence"`
}

// NodeID identifies a node in the workflow graph.
type NodeID string

const (
	NodeStart               NodeID = "start"
	NodeIntentAnalysis      NodeID = "intent_analysis"
	NodeRecipeSearch        NodeID = "recipe_search"
	NodeCookingHelp         NodeID = "cooking_help"
	NodeGeneralChat         NodeID = "general_chat"
	NodeResponseIntegration NodeID = "response_integration"
	NodeEnd                 NodeID = "end"
)

// RouteIntent maps a classified intent to the next node after intent_analysis.
// Anything unrecognized routes to general_chat so the graph has no dead end.
func RouteIntent(intent Intent) NodeID {
	switch intent {
	case IntentRecipeSearch, IntentRecipeDetail:
		return NodeRecipeSearch
	case IntentCookingAdvice, IntentIngredientSubstitute, IntentNutritionalInfo:
		return NodeCookingHelp
	default:
		return NodeGeneralChat
	}
}

// SearchFilters are the numeric/enum constraints the retrieval engine applies.
type SearchFilters struct {
	MaxMinutes int      `json:"max_minutes,omitempty"`
	Difficulty string   `json:"difficulty,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

// GraphState is the per-request record threaded node to node. Created at
// request entry, patched via Merge, discarded after the response is emitted.
// Exactly one of Generated / non-empty Candidates / neither decides the
// response branch.
type GraphState struct {
	Query     string `json:"query"`
	UserID    string `json:"user_id,omitempty"`
	SessionID string `json:"session_id,omitempty"`

	Allergies       []string         `json:"allergies,omitempty"`
	ExclusionTokens []string         `json:"exclusion_tokens,omitempty"`
	Entities        []extract.Entity `json:"entities,omitempty"`
	Intent          IntentResult     `json:"intent"`
	Filters         SearchFilters    `json:"filters"`

	Candidates []store.RecipeCandidate `json:"candidates,omitempty"`
	Generated  *store.RecipeCandidate  `json:"generated,omitempty"`
	Response   string                  `json:"response,omitempty"`

	Profile store.UserProfile `json:"profile"`

	Metadata map[string]any `json:"metadata"`
}

// New creates the initial state for a request.
func New(query, userID, sessionID string) *GraphState {
	return &GraphState{
		Query:     query,
		UserID:    userID,
		SessionID: sessionID,
		Metadata:  map[string]any{},
	}
}

// Patch is a partial state update returned by a node. Nil / zero fields leave
// the current state untouched; Metadata entries are shallow-merged.
type Patch struct {
	Allergies       []string
	ExclusionTokens []string
	Entities        []extract.Entity
	Intent          *IntentResult
	Filters         *SearchFilters
	Candidates      []store.RecipeCandidate
	CandidatesSet   bool // distinguishes "no update" from "searched, found nothing"
	Generated       *store.RecipeCandidate
	Response        string
	Metadata        map[string]any
}

// Merge applies a patch: last-write-wins for scalars that are set,
// shallow-merge for metadata. Untouched fields are never modified, so merging
// the same patch twice is idempotent.
func Merge(s *GraphState, p *Patch) {
	if p == nil {
		return
	}
	if p.Allergies != nil {
		s.Allergies = p.Allergies
	}
	if p.ExclusionTokens != nil {
		s.ExclusionTokens = p.ExclusionTokens
	}
	if p.Entities != nil {
		s.Entities = p.Entities
	}
	if p.Intent != nil {
		s.Intent = *p.Intent
	}
	if p.Filters != nil {
		s.Filters = *p.Filters
	}
	if p.CandidatesSet {
		s.Candidates = p.Candidates
	}
	if p.Generated != nil {
		s.Generated = p.Generated
	}
	if p.Response != "" {
		s.Response = p.Response
	}
	if p.Metadata != nil {
		if s.Metadata == nil {
			s.Metadata = map[string]any{}
		}
		for k, v := range p.Metadata {
			s.Metadata[k] = v
		}
	}
}

// RecordTiming stores a per-node duration under metadata["timings"].
func (s *GraphState) RecordTiming(node NodeID, d time.Duration) {
	if s.Metadata == nil {
		s.Metadata = map[string]any{}
	}
	timings, _ := s.Metadata["timings"].(map[string]int64)
	if timings == nil {
		timings = map[string]int64{}
		s.Metadata["timings"] = timings
	}
	timings[string(node)] = d.Milliseconds()
}

// RecordError flags a node failure in metadata without aborting the request.
func (s *GraphState) RecordError(node NodeID, err error) {
	if s.Metadata == nil {
		s.Metadata = map[string]any{}
	}
	errs, _ := s.Metadata["errors"].(map[string]string)
	if errs == nil {
		errs = map[string]string{}
		s.Metadata["errors"] = errs
	}
	errs[string(node)] = err.Error()
}
