package response

import "ai-recipechat-be/pkg/store"

// PersonalizationTips is a deterministic rule set keyed on profile flags.
// Intentionally not model output: the same profile always gets the same tips.
func PersonalizationTips(profile store.UserProfile) []string {
	var tips []string
	if profile.Beginner {
		tips = append(tips,
			"Read the whole recipe before you start, and prep every ingredient first.",
			"Taste as you go; seasoning is easier to add than to remove.",
		)
	}
	if profile.TimeConstrained {
		tips = append(tips,
			"Batch the chopping: cut everything for the week in one session.",
			"High heat and a hot pan cut cooking time more than skipping steps does.",
		)
	}
	if profile.HasAllergies {
		tips = append(tips,
			"Double-check packaged ingredient labels; allergens hide in sauces and stocks.",
		)
	}
	return tips
}
