package response

import (
	"strings"
	"testing"

	"ai-recipechat-be/pkg/chef/extract"
	"ai-recipechat-be/pkg/chef/state"
	"ai-recipechat-be/pkg/store"
)

func testRecipe(id, name string) *store.RecipeCandidate {
	return &store.RecipeCandidate{
		ID:          id,
		Name:        name,
		Description: "A test dish. Very tasty.",
		Ingredients: []string{"rice", "egg"},
		Steps:       []string{"Cook rice.", "Fry egg.", "Combine.", "Serve."},
		Minutes:     25,
		Servings:    2,
		Difficulty:  "easy",
	}
}

func TestComposeBranchPriority(t *testing.T) {
	c := NewComposer(extract.NewExtractor(extract.DefaultDictionary(), nil, nil), nil)

	prior := testRecipe("r1", "Fried Rice")
	generated := testRecipe("g1", "Invented Bowl")
	generated.Provenance = store.ProvenanceGenerated

	tests := []struct {
		name       string
		st         *state.GraphState
		session    *store.Session
		wantBranch string
	}{
		{
			name: "follow-up wins over everything",
			st: &state.GraphState{
				Query:      "tell me more about that recipe",
				Intent:     state.IntentResult{Primary: state.IntentRecipeDetail},
				Generated:  generated,
				Candidates: []store.RecipeCandidate{*testRecipe("c1", "Other")},
			},
			session:    &store.Session{LastRecipe: prior},
			wantBranch: BranchFollowUp,
		},
		{
			name: "generated beats candidates",
			st: &state.GraphState{
				Query:      "something with rice",
				Generated:  generated,
				Candidates: []store.RecipeCandidate{*testRecipe("c1", "Other")},
			},
			wantBranch: BranchGenerated,
		},
		{
			name: "candidates when no generation",
			st: &state.GraphState{
				Query:      "something with rice",
				Candidates: []store.RecipeCandidate{*testRecipe("c1", "Other")},
			},
			wantBranch: BranchCandidates,
		},
		{
			name:       "guidance when nothing else",
			st:         &state.GraphState{Query: "something with dragonfruit"},
			wantBranch: BranchGuidance,
		},
		{
			name: "detail intent without prior recipe is not a follow-up",
			st: &state.GraphState{
				Query:  "tell me more about that recipe",
				Intent: state.IntentResult{Primary: state.IntentRecipeDetail},
			},
			session:    &store.Session{},
			wantBranch: BranchGuidance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Compose(tt.st, tt.session)
			if got.Branch != tt.wantBranch {
				t.Errorf("Branch = %q, want %q", got.Branch, tt.wantBranch)
			}
			if got.Reply == "" {
				t.Error("Reply must never be empty")
			}
		})
	}
}

func TestComposeEmptyQueryClarifies(t *testing.T) {
	c := NewComposer(nil, nil)

	got := c.Compose(&state.GraphState{Query: "   "}, nil)
	if got.Branch != BranchGuidance {
		t.Fatalf("Branch = %q, want guidance", got.Branch)
	}
	if got.Reply != ClarifyEmptyQuery {
		t.Errorf("Reply = %q, want clarification prompt", got.Reply)
	}
}

func TestComposeGeneratedCardMentionsProvenance(t *testing.T) {
	c := NewComposer(nil, nil)

	generated := testRecipe("g1", "Invented Bowl")
	generated.Provenance = store.ProvenanceGenerated

	got := c.Compose(&state.GraphState{Query: "x", Generated: generated}, nil)
	if !strings.Contains(got.Reply, "created for you just now") {
		t.Error("generated card must disclose it is not a library recipe")
	}

	corpus := testRecipe("c1", "Fried Rice")
	got = c.Compose(&state.GraphState{Query: "x", Generated: corpus}, nil)
	if strings.Contains(got.Reply, "created for you just now") {
		t.Error("corpus recipe must not carry the generated disclaimer")
	}
}

func TestComposeCandidateSummaryTopThree(t *testing.T) {
	c := NewComposer(nil, nil)

	st := &state.GraphState{
		Query: "rice dishes",
		Candidates: []store.RecipeCandidate{
			*testRecipe("1", "First"),
			*testRecipe("2", "Second"),
			*testRecipe("3", "Third"),
			*testRecipe("4", "Fourth"),
		},
	}

	got := c.Compose(st, nil)
	for _, name := range []string{"First", "Second", "Third"} {
		if !strings.Contains(got.Reply, name) {
			t.Errorf("summary missing %q", name)
		}
	}
	if strings.Contains(got.Reply, "Fourth") {
		t.Error("summary should stop at three candidates")
	}
}

func TestComposeTipsFollowProfile(t *testing.T) {
	c := NewComposer(nil, nil)

	st := &state.GraphState{
		Query:      "rice",
		Candidates: []store.RecipeCandidate{*testRecipe("1", "First")},
		Profile:    store.UserProfile{Beginner: true},
	}

	got := c.Compose(st, nil)
	if !strings.Contains(got.Reply, "Tips for you") {
		t.Error("beginner profile should produce tips")
	}

	st.Profile = store.UserProfile{}
	got = c.Compose(st, nil)
	if strings.Contains(got.Reply, "Tips for you") {
		t.Error("empty profile should produce no tips section")
	}
}

func TestComposeSubstituteHints(t *testing.T) {
	c := NewComposer(extract.NewExtractor(extract.DefaultDictionary(), nil, nil), nil)

	st := &state.GraphState{
		Query:     "no idea what to cook",
		Allergies: []string{"dairy"},
	}

	got := c.Compose(st, nil)
	if !strings.Contains(got.Reply, "Instead of dairy") {
		t.Errorf("guidance for a dairy allergy should surface substitutes, got:\n%s", got.Reply)
	}
}
