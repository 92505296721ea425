package extract

import (
	"reflect"
	"testing"
)

func TestAllergiesTriggerGating(t *testing.T) {
	e := NewExtractor(DefaultDictionary(), nil, nil)

	tests := []struct {
		name     string
		query    string
		declared []string
		want     []string
	}{
		{
			name:  "trigger plus pattern",
			query: "I'm allergic to peanuts, what can I cook?",
			want:  []string{"peanut"},
		},
		{
			name:  "pattern without trigger is ignored",
			query: "give me a tofu stir fry recipe",
			want:  nil,
		},
		{
			name:  "trigger without pattern is ignored",
			query: "I have allergies, suggest something",
			want:  nil,
		},
		{
			// Soy sauce is both a soy product and a wheat product.
			name:  "soy sauce maps to soy and gluten",
			query: "something without soy sauce please",
			want:  []string{"gluten", "soy"},
		},
		{
			name:     "declared allergies merge without trigger",
			query:    "dinner ideas",
			declared: []string{"Dairy"},
			want:     []string{"dairy"},
		},
		{
			name:     "declared normalizes pattern to allergen name",
			query:    "dinner ideas",
			declared: []string{"butter"},
			want:     []string{"dairy"},
		},
		{
			name:  "multiple allergens in one query",
			query: "avoid shrimp and milk",
			want:  []string{"dairy", "shellfish"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Allergies(tt.query, tt.declared)
			if len(got) != len(tt.want) {
				t.Fatalf("Allergies(%q) = %v, want %v", tt.query, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Allergies(%q)[%d] = %q, want %q", tt.query, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestAllergiesCustomTriggers(t *testing.T) {
	e := NewExtractor(DefaultDictionary(), []string{"skip the"}, nil)

	if got := e.Allergies("skip the peanuts", nil); len(got) != 1 || got[0] != "peanut" {
		t.Errorf("custom trigger: got %v, want [peanut]", got)
	}
	// Default trigger no longer applies.
	if got := e.Allergies("allergic to peanuts", nil); len(got) != 0 {
		t.Errorf("default trigger should be replaced, got %v", got)
	}
}

func TestEntitiesDedupeAndConfidence(t *testing.T) {
	e := NewExtractor(DefaultDictionary(), nil, nil)

	// "chicken" appears twice; only one entity must survive.
	entities := e.Entities("chicken recipe with grilled chicken")

	var chicken *Entity
	for i := range entities {
		if entities[i].Value == "chicken" {
			if chicken != nil {
				t.Fatal("duplicate chicken entity")
			}
			chicken = &entities[i]
		}
	}
	if chicken == nil {
		t.Fatal("chicken not extracted")
	}
	if chicken.Type != CategoryIngredient {
		t.Errorf("chicken type = %q, want %q", chicken.Type, CategoryIngredient)
	}
	// Ingredient plus method means the co-occurrence bonus applies.
	if chicken.Confidence <= baseConfidence {
		t.Errorf("confidence %f should exceed base with co-occurrence", chicken.Confidence)
	}
	if chicken.Confidence > 1.0 {
		t.Errorf("confidence %f exceeds cap", chicken.Confidence)
	}
}

func TestEntitiesDeterministicOrder(t *testing.T) {
	e := NewExtractor(DefaultDictionary(), nil, nil)

	first := e.Entities("grilled chicken with rice, italian style")
	for i := 0; i < 5; i++ {
		again := e.Entities("grilled chicken with rice, italian style")
		if len(again) != len(first) {
			t.Fatalf("run %d: length %d != %d", i, len(again), len(first))
		}
		for j := range again {
			if !reflect.DeepEqual(again[j], first[j]) {
				t.Fatalf("run %d: entity %d differs: %+v vs %+v", i, j, again[j], first[j])
			}
		}
	}
}

func TestExclusionTokens(t *testing.T) {
	e := NewExtractor(DefaultDictionary(), nil, nil)

	tokens := e.ExclusionTokens([]string{"soy"})

	want := map[string]bool{"soy": true, "tofu": true, "soy sauce": true}
	for w := range want {
		found := false
		for _, tok := range tokens {
			if tok == w {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("token %q missing from %v", w, tokens)
		}
	}
}

func TestContainsTokenWordBoundary(t *testing.T) {
	if containsToken("the price of rice", "ice") {
		t.Error("'ice' must not match inside 'price' or 'rice'")
	}
	if !containsToken("a bowl of rice", "rice") {
		t.Error("'rice' should match as a whole word")
	}
	if !containsToken("add soy sauce now", "soy sauce") {
		t.Error("multi-word pattern should match")
	}
}
