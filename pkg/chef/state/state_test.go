package state

import (
	"errors"
	"testing"
	"time"

	"ai-recipechat-be/pkg/store"
)

func TestRouteIntent(t *testing.T) {
	tests := []struct {
		intent Intent
		want   NodeID
	}{
		{IntentRecipeSearch, NodeRecipeSearch},
		{IntentRecipeDetail, NodeRecipeSearch},
		{IntentCookingAdvice, NodeCookingHelp},
		{IntentIngredientSubstitute, NodeCookingHelp},
		{IntentNutritionalInfo, NodeCookingHelp},
		{IntentGeneralChat, NodeGeneralChat},
		{Intent("bogus"), NodeGeneralChat},
	}
	for _, tt := range tests {
		if got := RouteIntent(tt.intent); got != tt.want {
			t.Errorf("RouteIntent(%q) = %q, want %q", tt.intent, got, tt.want)
		}
	}
}

func TestMergeLastWriteWins(t *testing.T) {
	st := New("query", "u1", "s1")

	Merge(st, &Patch{
		Intent:    &IntentResult{Primary: IntentRecipeSearch, Confidence: 0.8},
		Allergies: []string{"peanut"},
	})
	Merge(st, &Patch{
		Intent: &IntentResult{Primary: IntentGeneralChat, Confidence: 0.3},
	})

	if st.Intent.Primary != IntentGeneralChat {
		t.Errorf("Intent = %q, last write must win", st.Intent.Primary)
	}
	// Untouched field survives the second merge.
	if len(st.Allergies) != 1 || st.Allergies[0] != "peanut" {
		t.Errorf("Allergies = %v, must be preserved", st.Allergies)
	}
}

func TestMergeCandidatesSet(t *testing.T) {
	st := New("q", "", "")
	st.Candidates = []store.RecipeCandidate{{ID: "stale"}}

	// Without the flag, a nil Candidates slice means "no update".
	Merge(st, &Patch{})
	if len(st.Candidates) != 1 {
		t.Fatal("unflagged patch must not touch candidates")
	}

	// With the flag, an empty result is a real result.
	Merge(st, &Patch{CandidatesSet: true})
	if st.Candidates != nil {
		t.Errorf("Candidates = %v, want cleared", st.Candidates)
	}
}

func TestMergeIdempotent(t *testing.T) {
	st := New("q", "", "")
	p := &Patch{
		Response:  "hello",
		Allergies: []string{"soy"},
		Metadata:  map[string]any{"k": "v"},
	}

	Merge(st, p)
	before := *st
	Merge(st, p)

	if st.Response != before.Response || len(st.Allergies) != 1 || st.Metadata["k"] != "v" {
		t.Error("merging the same patch twice must not change the state")
	}
}

func TestMergeNilPatch(t *testing.T) {
	st := New("q", "", "")
	Merge(st, nil)
	if st.Query != "q" {
		t.Error("nil patch must be a no-op")
	}
}

func TestRecordTimingAndError(t *testing.T) {
	st := New("q", "", "")

	st.RecordTiming(NodeIntentAnalysis, 42*time.Millisecond)
	st.RecordError(NodeRecipeSearch, errors.New("backend down"))

	timings := st.Metadata["timings"].(map[string]int64)
	if timings["intent_analysis"] != 42 {
		t.Errorf("timing = %d, want 42", timings["intent_analysis"])
	}
	errs := st.Metadata["errors"].(map[string]string)
	if errs["recipe_search"] != "backend down" {
		t.Errorf("error = %q", errs["recipe_search"])
	}
}
