package intent

import (
	"testing"

	"ai-recipechat-be/pkg/chef/extract"
	"ai-recipechat-be/pkg/chef/state"
)

func TestClassify(t *testing.T) {
	c := NewClassifier(nil)

	tests := []struct {
		name        string
		query       string
		wantPrimary state.Intent
	}{
		{
			name:        "recipe search",
			query:       "recommend a dinner recipe",
			wantPrimary: state.IntentRecipeSearch,
		},
		{
			name:        "substitute",
			query:       "what can I substitute for butter",
			wantPrimary: state.IntentIngredientSubstitute,
		},
		{
			name:        "cooking advice",
			query:       "how long should I rest a steak",
			wantPrimary: state.IntentCookingAdvice,
		},
		{
			name:        "nutrition",
			query:       "how many calories in fried rice",
			wantPrimary: state.IntentNutritionalInfo,
		},
		{
			name:        "detail follow-up",
			query:       "tell me more about that recipe",
			wantPrimary: state.IntentRecipeDetail,
		},
		{
			name:        "no match falls to general chat",
			query:       "hello there",
			wantPrimary: state.IntentGeneralChat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.query, nil)
			if got.Primary != tt.wantPrimary {
				t.Errorf("Classify(%q).Primary = %q, want %q", tt.query, got.Primary, tt.wantPrimary)
			}
			if got.Confidence <= 0 || got.Confidence > 1.0 {
				t.Errorf("Classify(%q).Confidence = %f out of range", tt.query, got.Confidence)
			}
		})
	}
}

func TestClassifyUnknownFloor(t *testing.T) {
	c := NewClassifier(nil)

	got := c.Classify("xyzzy", nil)
	if got.Primary != state.IntentGeneralChat {
		t.Fatalf("Primary = %q, want general_chat", got.Primary)
	}
	if got.Confidence != 0.3 {
		t.Errorf("Confidence = %f, want the 0.3 floor", got.Confidence)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	c := NewClassifier(nil)

	first := c.Classify("how to make pasta", nil)
	for i := 0; i < 10; i++ {
		got := c.Classify("how to make pasta", nil)
		if got != first {
			t.Fatalf("run %d: %+v != %+v", i, got, first)
		}
	}
}

func TestClassifyTieBreaksTowardSearch(t *testing.T) {
	c := NewClassifier(nil)

	// "tip" alone scores cooking_advice 0.4+0.4(tips? no) -- craft a tie via
	// entity boosts instead: a bare ingredient gives recipe_search 0.1 and
	// nothing else, so equal-zero pattern scores resolve to search.
	entities := []extract.Entity{{Type: extract.CategoryIngredient, Value: "chicken"}}
	got := c.Classify("chicken", entities)
	if got.Primary != state.IntentRecipeSearch {
		t.Errorf("Primary = %q, want recipe_search on entity-only signal", got.Primary)
	}
}

func TestClassifyEntityBoosts(t *testing.T) {
	c := NewClassifier(nil)

	bare := c.Classify("recommend something", nil)
	boosted := c.Classify("recommend something", []extract.Entity{
		{Type: extract.CategoryCuisine, Value: "italian"},
	})

	if boosted.Primary != state.IntentRecipeSearch {
		t.Fatalf("Primary = %q, want recipe_search", boosted.Primary)
	}
	if boosted.Confidence <= bare.Confidence {
		t.Errorf("cuisine entity should raise confidence: %f <= %f", boosted.Confidence, bare.Confidence)
	}
}
