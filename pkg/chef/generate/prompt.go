package generate

import (
	"fmt"
	"strings"

	"ai-recipechat-be/pkg/store"
)

// Token-budget controls for the reference block.
const (
	maxReferenceCandidates  = 3
	maxReferenceIngredients = 5
)

// BuildPrompt assembles the single generation prompt: a hard allergy
// exclusion list, up to three truncated reference recipes, and the required
// output schema with no surrounding prose.
func BuildPrompt(query string, allergies []string, references []store.RecipeCandidate) string {
	var prompt strings.Builder

	prompt.WriteString("You are a professional chef creating a single new recipe.\n\n")

	prompt.WriteString("<request>\n")
	prompt.WriteString(query)
	prompt.WriteString("\n</request>\n\n")

	if len(allergies) > 0 {
		prompt.WriteString("<hard_exclusions>\n")
		prompt.WriteString("The user is allergic to the following. The recipe MUST NOT contain them in any form:\n")
		for _, a := range allergies {
			prompt.WriteString(fmt.Sprintf("- %s\n", a))
		}
		prompt.WriteString("</hard_exclusions>\n\n")
	}

	if len(references) > 0 {
		prompt.WriteString("<reference_recipes>\n")
		prompt.WriteString("Use these only as inspiration for style and proportions:\n")
		n := len(references)
		if n > maxReferenceCandidates {
			n = maxReferenceCandidates
		}
		for i := 0; i < n; i++ {
			ref := references[i]
			prompt.WriteString(fmt.Sprintf("\n%d. %s\n", i+1, ref.Name))
			ingredients := ref.Ingredients
			if len(ingredients) > maxReferenceIngredients {
				ingredients = ingredients[:maxReferenceIngredients]
			}
			for _, ing := range ingredients {
				prompt.WriteString(fmt.Sprintf("   - %s\n", ing))
			}
		}
		prompt.WriteString("</reference_recipes>\n\n")
	}

	prompt.WriteString("Respond with ONLY valid JSON matching exactly this schema:\n")
	prompt.WriteString("{\n")
	prompt.WriteString("  \"name\": \"recipe name\",\n")
	prompt.WriteString("  \"name_localized\": \"localized recipe name\",\n")
	prompt.WriteString("  \"description\": \"one paragraph\",\n")
	prompt.WriteString("  \"ingredients\": [\"quantity ingredient\"],\n")
	prompt.WriteString("  \"steps\": [\"step\"],\n")
	prompt.WriteString("  \"minutes\": 30,\n")
	prompt.WriteString("  \"servings\": 2,\n")
	prompt.WriteString("  \"difficulty\": \"easy|medium|hard\",\n")
	prompt.WriteString("  \"tags\": [\"tag\"]\n")
	prompt.WriteString("}")

	return prompt.String()
}
