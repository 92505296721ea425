package response

import (
	"fmt"
	"log"
	"strings"

	"ai-recipechat-be/pkg/chef/extract"
	"ai-recipechat-be/pkg/chef/state"
	"ai-recipechat-be/pkg/store"
)

// Branch names recorded in response metadata.
const (
	BranchFollowUp   = "follow_up"
	BranchGenerated  = "generated_recipe"
	BranchCandidates = "candidate_summary"
	BranchGuidance   = "no_results_guidance"
)

const topSummaryCount = 3

// Composer turns the final pipeline state into one response string. Branching
// is strict priority: follow-up, generated recipe, candidates, guidance.
type Composer struct {
	extractor *extract.Extractor
	logger    *log.Logger
}

func NewComposer(extractor *extract.Extractor, logger *log.Logger) *Composer {
	return &Composer{
		extractor: extractor,
		logger:    logger,
	}
}

// Result is the composed response plus the branch that produced it.
type Result struct {
	Reply  string
	Branch string
}

// Compose picks the response branch. session may be nil (no prior turns).
func (c *Composer) Compose(st *state.GraphState, session *store.Session) Result {
	if c.isFollowUp(st, session) {
		return Result{
			Reply:  c.composeFollowUp(st, session),
			Branch: BranchFollowUp,
		}
	}

	if st.Generated != nil {
		return Result{
			Reply:  c.composeRecipeCard(st, st.Generated),
			Branch: BranchGenerated,
		}
	}

	if len(st.Candidates) > 0 {
		return Result{
			Reply:  c.composeCandidateSummary(st),
			Branch: BranchCandidates,
		}
	}

	return Result{
		Reply:  c.composeGuidance(st),
		Branch: BranchGuidance,
	}
}

// A follow-up needs both signals: a detail-type query AND a prior recipe in
// the session to bind it to. Either alone falls through to a fresh branch.
func (c *Composer) isFollowUp(st *state.GraphState, session *store.Session) bool {
	if session == nil || session.LastRecipe == nil {
		return false
	}
	if st.Intent.Primary == state.IntentRecipeDetail {
		return true
	}
	lower := strings.ToLower(st.Query)
	for _, marker := range []string{"more tips", "tell me more", "more detail", "what about that", "the previous"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func (c *Composer) composeFollowUp(st *state.GraphState, session *store.Session) string {
	recipe := session.LastRecipe

	var b strings.Builder
	b.WriteString(fmt.Sprintf("More on %s:\n\n", displayName(recipe)))

	if len(recipe.Steps) > 0 {
		b.WriteString("Key steps to get right:\n")
		steps := recipe.Steps
		if len(steps) > 3 {
			steps = steps[:3]
		}
		for i, step := range steps {
			b.WriteString(fmt.Sprintf("%d. %s\n", i+1, step))
		}
		b.WriteString("\n")
	}

	if recipe.Minutes > 0 {
		b.WriteString(fmt.Sprintf("Plan for about %d minutes", recipe.Minutes))
		if recipe.Difficulty != "" {
			b.WriteString(fmt.Sprintf(" (%s difficulty)", recipe.Difficulty))
		}
		b.WriteString(".\n")
	}

	c.appendTips(&b, st)
	c.appendSubstituteHints(&b, st)

	return b.String()
}

func (c *Composer) composeRecipeCard(st *state.GraphState, recipe *store.RecipeCandidate) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("# %s\n\n", displayName(recipe)))
	if recipe.Description != "" {
		b.WriteString(recipe.Description)
		b.WriteString("\n\n")
	}

	b.WriteString(fmt.Sprintf("Serves %d · about %d minutes · %s\n\n",
		recipe.Servings, recipe.Minutes, recipe.Difficulty))

	b.WriteString("Ingredients:\n")
	for _, ing := range recipe.Ingredients {
		b.WriteString(fmt.Sprintf("- %s\n", ing))
	}
	b.WriteString("\nSteps:\n")
	for i, step := range recipe.Steps {
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, step))
	}

	if recipe.Provenance == store.ProvenanceGenerated {
		b.WriteString("\nThis recipe was created for you just now rather than taken from the library, so treat quantities as a starting point.\n")
	}

	if len(st.Allergies) > 0 {
		b.WriteString(fmt.Sprintf("\nChecked against your allergies: %s.\n", strings.Join(st.Allergies, ", ")))
	}

	c.appendTips(&b, st)

	return b.String()
}

func (c *Composer) composeCandidateSummary(st *state.GraphState) string {
	var b strings.Builder
	b.WriteString("Here's what I found:\n\n")

	n := len(st.Candidates)
	if n > topSummaryCount {
		n = topSummaryCount
	}
	for i := 0; i < n; i++ {
		cand := st.Candidates[i]
		b.WriteString(fmt.Sprintf("%d. %s", i+1, displayName(&cand)))
		if cand.Minutes > 0 {
			b.WriteString(fmt.Sprintf(" — %d min", cand.Minutes))
		}
		if cand.Difficulty != "" {
			b.WriteString(fmt.Sprintf(", %s", cand.Difficulty))
		}
		b.WriteString("\n")
		if cand.DescriptionLocalized != "" {
			b.WriteString(fmt.Sprintf("   %s\n", firstSentence(cand.DescriptionLocalized)))
		} else if cand.Description != "" {
			b.WriteString(fmt.Sprintf("   %s\n", firstSentence(cand.Description)))
		}
	}

	if len(st.Allergies) > 0 {
		b.WriteString(fmt.Sprintf("\nAll of these avoid: %s.\n", strings.Join(st.Allergies, ", ")))
	}
	b.WriteString("\nAsk for any of them by name and I'll walk you through it.\n")

	c.appendTips(&b, st)

	return b.String()
}

func (c *Composer) composeGuidance(st *state.GraphState) string {
	if strings.TrimSpace(st.Query) == "" {
		return ClarifyEmptyQuery
	}

	var b strings.Builder
	b.WriteString("I didn't find a matching recipe, so let me suggest a different angle:\n\n")

	suggested := false
	for _, ent := range st.Entities {
		switch ent.Type {
		case extract.CategoryIngredient:
			b.WriteString(fmt.Sprintf("- Try a broader search like \"easy %s recipes\".\n", ent.Value))
			suggested = true
		case extract.CategoryCuisine:
			b.WriteString(fmt.Sprintf("- Ask for \"%s classics\" and pick from there.\n", ent.Value))
			suggested = true
		}
	}
	if !suggested {
		b.WriteString("- Name one main ingredient you have on hand.\n")
		b.WriteString("- Or tell me a cuisine you're in the mood for.\n")
	}

	b.WriteString("\nI can also invent a recipe from scratch if you give me an ingredient to build around.\n")

	c.appendSubstituteHints(&b, st)
	c.appendTips(&b, st)

	return b.String()
}

func (c *Composer) appendTips(b *strings.Builder, st *state.GraphState) {
	tips := PersonalizationTips(st.Profile)
	if len(tips) == 0 {
		return
	}
	b.WriteString("\nTips for you:\n")
	for _, tip := range tips {
		b.WriteString(fmt.Sprintf("- %s\n", tip))
	}
}

// For declared allergies, surface the reference data's substitutes. Advisory
// only.
func (c *Composer) appendSubstituteHints(b *strings.Builder, st *state.GraphState) {
	if c.extractor == nil {
		return
	}
	for _, allergy := range st.Allergies {
		subs := c.extractor.Substitutes(allergy)
		if len(subs) > 0 {
			b.WriteString(fmt.Sprintf("\nInstead of %s you can usually use: %s.\n",
				allergy, strings.Join(subs, ", ")))
		}
	}
}

func displayName(r *store.RecipeCandidate) string {
	if r.NameLocalized != "" {
		return r.NameLocalized
	}
	return r.Name
}

func firstSentence(s string) string {
	if idx := strings.IndexAny(s, ".!?"); idx > 0 && idx < len(s)-1 {
		return s[:idx+1]
	}
	return s
}
