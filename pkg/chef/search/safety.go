package search

import (
	"log"
	"strings"

	"ai-recipechat-be/pkg/chef/extract"
	"ai-recipechat-be/pkg/store"
)

// AnnotateSafety fills AllergyFlags and SafetyScore on each candidate from
// the allergen reference data. SafetyScore is an allergen-risk estimate in
// [0,1]: 0 means no known allergen appears in the ingredient text.
func AnnotateSafety(candidates []store.RecipeCandidate, dict *extract.Dictionary) []store.RecipeCandidate {
	total := len(dict.Allergens)
	if total == 0 {
		return candidates
	}

	for i := range candidates {
		text := ingredientText(&candidates[i])
		var flags []string
		for _, rec := range dict.Allergens {
			for _, pattern := range rec.Patterns {
				if strings.Contains(text, strings.ToLower(pattern)) {
					flags = append(flags, rec.Name)
					break
				}
			}
		}
		candidates[i].AllergyFlags = flags
		candidates[i].SafetyScore = float64(len(flags)) / float64(total)
	}
	return candidates
}

// FilterExcluded is the defense-in-depth post-filter: any candidate whose
// ingredient text still lexically contains a declared allergy token is dropped
// client-side, even though the backend already applied MUST_NOT. This is a
// correctness invariant, not an optimization.
func FilterExcluded(candidates []store.RecipeCandidate, exclusionTokens []string, logger *log.Logger) []store.RecipeCandidate {
	if len(exclusionTokens) == 0 {
		return candidates
	}

	safe := make([]store.RecipeCandidate, 0, len(candidates))
	for _, c := range candidates {
		text := ingredientText(&c)
		excluded := false
		for _, token := range exclusionTokens {
			if strings.Contains(text, token) {
				excluded = true
				if logger != nil {
					logger.Printf("[SAFETY] Dropped %q: ingredient text matches %q", c.Name, token)
				}
				break
			}
		}
		if !excluded {
			safe = append(safe, c)
		}
	}
	return safe
}

func ingredientText(c *store.RecipeCandidate) string {
	var b strings.Builder
	for _, ing := range c.Ingredients {
		b.WriteString(strings.ToLower(ing))
		b.WriteByte('\n')
	}
	return b.String()
}
