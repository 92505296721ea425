package search

import (
	"strings"

	"ai-recipechat-be/pkg/chef/state"
)

// FieldWeight assigns a lexical match weight to one recipe text field.
type FieldWeight struct {
	Field  string  `json:"field"`
	Weight float64 `json:"weight"`
}

// DefaultFieldWeights ranks the localized name highest, per retrieval policy.
func DefaultFieldWeights() []FieldWeight {
	return []FieldWeight{
		{Field: "name_localized", Weight: 3.0},
		{Field: "name", Weight: 2.0},
		{Field: "description_localized", Weight: 1.5},
		{Field: "description", Weight: 1.0},
		{Field: "ingredients", Weight: 1.0},
		{Field: "tags", Weight: 0.5},
	}
}

// QuerySpec is the compound query handed to the search backend:
// MUST (weighted fuzzy text, or match-all), FILTER (numeric/enum constraints),
// MUST_NOT (allergen patterns), plus an optional vector for hybrid mode.
type QuerySpec struct {
	Terms    []string      `json:"terms"`
	MatchAll bool          `json:"match_all"`
	Fields   []FieldWeight `json:"fields"`

	Filter state.SearchFilters `json:"filter"`

	ExcludeTokens []string `json:"exclude_tokens"`

	Vector []float32 `json:"vector,omitempty"`
	Limit  int       `json:"limit"`
}

// BuildQuery assembles the compound spec from the pipeline state. With no
// usable text terms the MUST clause degrades to match-all instead of failing.
func BuildQuery(st *state.GraphState, limit int) QuerySpec {
	terms := queryTerms(st)

	spec := QuerySpec{
		Terms:         terms,
		MatchAll:      len(terms) == 0,
		Fields:        DefaultFieldWeights(),
		Filter:        st.Filters,
		ExcludeTokens: st.ExclusionTokens,
		Limit:         limit,
	}
	return spec
}

// queryTerms prefers extracted entity values (canonical, already
// deduplicated); when extraction found nothing it falls back to the raw query
// split into words.
func queryTerms(st *state.GraphState) []string {
	var terms []string
	for _, ent := range st.Entities {
		terms = append(terms, ent.Value)
	}
	if len(terms) > 0 {
		return terms
	}

	for _, w := range strings.Fields(strings.ToLower(st.Query)) {
		w = strings.Trim(w, ".,!?:;\"'")
		if len(w) >= 3 {
			terms = append(terms, w)
		}
	}
	return terms
}
