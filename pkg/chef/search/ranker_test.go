package search

import (
	"testing"

	"ai-recipechat-be/pkg/store"
)

func TestRankCombinedScore(t *testing.T) {
	cfg := DefaultRankConfig()
	cfg.SafetyFirst = false

	candidates := []store.RecipeCandidate{
		{ID: "a", VectorScore: 0.5, TextScore: 0.5},
		{ID: "b", VectorScore: 1.0, TextScore: 0.0},
		{ID: "c", VectorScore: 0.0, TextScore: 1.0},
	}

	ranked := Rank(candidates, cfg)
	if len(ranked) != 3 {
		t.Fatalf("len = %d, want 3", len(ranked))
	}

	// 0.6*vector + 0.4*text: b=0.6, a=0.5, c=0.4
	wantOrder := []string{"b", "a", "c"}
	for i, id := range wantOrder {
		if ranked[i].ID != id {
			t.Errorf("position %d = %q, want %q", i, ranked[i].ID, id)
		}
	}
	if ranked[0].CombinedScore != 0.6 {
		t.Errorf("b combined = %f, want 0.6", ranked[0].CombinedScore)
	}
}

func TestRankMinScoreCut(t *testing.T) {
	cfg := DefaultRankConfig()

	candidates := []store.RecipeCandidate{
		{ID: "keep", VectorScore: 0.2},
		{ID: "drop", VectorScore: 0.01, TextScore: 0.01},
	}

	ranked := Rank(candidates, cfg)
	if len(ranked) != 1 || ranked[0].ID != "keep" {
		t.Fatalf("ranked = %v, want only 'keep'", ids(ranked))
	}
}

func TestRankSafetyFirst(t *testing.T) {
	cfg := DefaultRankConfig()

	candidates := []store.RecipeCandidate{
		{ID: "risky-relevant", VectorScore: 1.0, TextScore: 1.0, SafetyScore: 0.3, AllergyFlags: []string{"dairy", "egg"}},
		{ID: "safe-weak", VectorScore: 0.2, TextScore: 0.2, SafetyScore: 0.0},
		{ID: "safe-strong", VectorScore: 0.8, TextScore: 0.8, SafetyScore: 0.0},
	}

	ranked := Rank(candidates, cfg)

	// Safer recipes lead regardless of relevance; relevance orders within the
	// same risk level.
	wantOrder := []string{"safe-strong", "safe-weak", "risky-relevant"}
	for i, id := range wantOrder {
		if ranked[i].ID != id {
			t.Fatalf("order = %v, want %v", ids(ranked), wantOrder)
		}
	}
}

func TestRankInvalidWeightsFallBack(t *testing.T) {
	cfg := RankConfig{VectorWeight: 0.9, TextWeight: 0.9, MinScore: 0.05, SafetyFirst: false}

	candidates := []store.RecipeCandidate{{ID: "a", VectorScore: 1.0}}
	ranked := Rank(candidates, cfg)

	if len(ranked) != 1 {
		t.Fatal("candidate lost")
	}
	// Defaults applied: 0.6*1.0
	if ranked[0].CombinedScore != 0.6 {
		t.Errorf("combined = %f, want default-weighted 0.6", ranked[0].CombinedScore)
	}
}

func TestRankVectorWeightMonotonic(t *testing.T) {
	// Raising the vector weight while holding the text weight fixed must never
	// push a vector-dominant candidate below a text-dominant one once it leads.
	vectorLeads := false
	for _, vw := range []float64{0.0, 0.2, 0.4, 0.6} {
		cfg := RankConfig{VectorWeight: vw, TextWeight: 0.3, MinScore: 0, SafetyFirst: false}

		ranked := Rank([]store.RecipeCandidate{
			{ID: "text-heavy", VectorScore: 0.1, TextScore: 0.9},
			{ID: "vector-heavy", VectorScore: 0.9, TextScore: 0.1},
		}, cfg)
		if len(ranked) != 2 {
			t.Fatalf("vectorWeight %.1f: candidate lost: %v", vw, ids(ranked))
		}

		leads := ranked[0].ID == "vector-heavy"
		if vectorLeads && !leads {
			t.Fatalf("vectorWeight %.1f: vector-heavy fell behind after leading at a lower weight", vw)
		}
		if leads {
			vectorLeads = true
		}
	}
	if !vectorLeads {
		t.Fatal("vector-heavy never took the lead as vectorWeight grew")
	}
}

func ids(cs []store.RecipeCandidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}
	return out
}
