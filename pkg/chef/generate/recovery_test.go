package generate

import (
	"testing"
)

const validRecipeJSON = `{
	"name": "Lemon Pasta",
	"description": "Bright weeknight pasta.",
	"ingredients": ["200g spaghetti", "1 lemon", "olive oil"],
	"steps": ["Boil pasta.", "Toss with lemon and oil."],
	"minutes": 20,
	"servings": 2,
	"difficulty": "easy",
	"tags": ["pasta", "quick"]
}`

func TestRecoverRecipe(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantNil bool
	}{
		{
			name: "clean json",
			raw:  validRecipeJSON,
		},
		{
			name: "json wrapped in prose",
			raw:  "Sure! Here is your recipe:\n" + validRecipeJSON + "\nEnjoy!",
		},
		{
			name: "json inside code fences",
			raw:  "```json\n" + validRecipeJSON + "\n```",
		},
		{
			name:    "truncated output",
			raw:     validRecipeJSON[:len(validRecipeJSON)-10],
			wantNil: true,
		},
		{
			name:    "no json at all",
			raw:     "I cannot produce a recipe right now.",
			wantNil: true,
		},
		{
			name:    "empty string",
			raw:     "",
			wantNil: true,
		},
		{
			name:    "missing name",
			raw:     `{"description": "x", "ingredients": ["a"], "steps": ["b"]}`,
			wantNil: true,
		},
		{
			name:    "empty ingredients",
			raw:     `{"name": "X", "description": "x", "ingredients": [], "steps": ["b"]}`,
			wantNil: true,
		},
		{
			name:    "wrong types",
			raw:     `{"name": "X", "description": "x", "ingredients": "not a list", "steps": ["b"]}`,
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RecoverRecipe(tt.raw)
			if tt.wantNil {
				if got != nil {
					t.Fatalf("RecoverRecipe() = %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("RecoverRecipe() = nil, want recipe")
			}
			if got.Name != "Lemon Pasta" {
				t.Errorf("Name = %q", got.Name)
			}
			if len(got.Ingredients) != 3 || len(got.Steps) != 2 {
				t.Errorf("ingredients/steps = %d/%d, want 3/2", len(got.Ingredients), len(got.Steps))
			}
			// Localized name defaults to the primary name when absent.
			if got.NameLocalized != "Lemon Pasta" {
				t.Errorf("NameLocalized = %q", got.NameLocalized)
			}
		})
	}
}

func TestRecoverRecipeBracesInsideStrings(t *testing.T) {
	raw := `{"name": "Braced {Dish}", "description": "uses \"quotes\" and } inside",
		"ingredients": ["a"], "steps": ["mix { well }"]}`

	got := RecoverRecipe(raw)
	if got == nil {
		t.Fatal("balanced-block scan must survive braces inside string values")
	}
	if got.Name != "Braced {Dish}" {
		t.Errorf("Name = %q", got.Name)
	}
}

func TestApplyDefaults(t *testing.T) {
	r := RecoverRecipe(`{"name": "X", "description": "d", "ingredients": ["a"], "steps": ["b"], "difficulty": "impossible"}`)
	if r == nil {
		t.Fatal("unexpected nil")
	}
	applyDefaults(r)

	if r.Minutes != DefaultMinutes {
		t.Errorf("Minutes = %d, want %d", r.Minutes, DefaultMinutes)
	}
	if r.Servings != DefaultServings {
		t.Errorf("Servings = %d, want %d", r.Servings, DefaultServings)
	}
	if r.Difficulty != DefaultDifficulty {
		t.Errorf("Difficulty = %q, want %q", r.Difficulty, DefaultDifficulty)
	}
}
