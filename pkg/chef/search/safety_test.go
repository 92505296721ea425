package search

import (
	"testing"

	"ai-recipechat-be/pkg/chef/extract"
	"ai-recipechat-be/pkg/store"
)

func TestAnnotateSafety(t *testing.T) {
	dict := extract.DefaultDictionary()

	candidates := []store.RecipeCandidate{
		{ID: "clean", Ingredients: []string{"rice", "chicken", "garlic"}},
		{ID: "dairy", Ingredients: []string{"200g Butter", "flour"}},
	}

	annotated := AnnotateSafety(candidates, dict)

	if len(annotated[0].AllergyFlags) != 0 {
		t.Errorf("clean recipe flagged: %v", annotated[0].AllergyFlags)
	}
	if annotated[0].SafetyScore != 0 {
		t.Errorf("clean SafetyScore = %f, want 0", annotated[0].SafetyScore)
	}

	// Butter is dairy, flour is gluten.
	flags := annotated[1].AllergyFlags
	if len(flags) != 2 {
		t.Fatalf("flags = %v, want dairy and gluten", flags)
	}
	if annotated[1].SafetyScore <= annotated[0].SafetyScore {
		t.Error("flagged recipe must carry higher risk than clean one")
	}
}

func TestFilterExcluded(t *testing.T) {
	candidates := []store.RecipeCandidate{
		{ID: "safe", Name: "Veggie Bowl", Ingredients: []string{"rice", "carrot"}},
		{ID: "unsafe", Name: "Pad Thai", Ingredients: []string{"rice noodles", "Peanuts, crushed"}},
	}

	filtered := FilterExcluded(candidates, []string{"peanut"}, nil)

	if len(filtered) != 1 || filtered[0].ID != "safe" {
		t.Fatalf("filtered = %v, want only 'safe'", ids(filtered))
	}
}

func TestFilterExcludedNoTokens(t *testing.T) {
	candidates := []store.RecipeCandidate{{ID: "a"}, {ID: "b"}}
	filtered := FilterExcluded(candidates, nil, nil)
	if len(filtered) != 2 {
		t.Errorf("no tokens must pass everything through, got %v", ids(filtered))
	}
}
