package intent

import (
	"log"
	"strings"

	"ai-recipechat-be/pkg/chef/extract"
	"ai-recipechat-be/pkg/chef/state"
)

// No pattern match never fails classification; it degrades to general_chat
// with this confidence floor.
const unknownConfidenceFloor = 0.3

type weightedPattern struct {
	pattern string
	weight  float64
}

// Classifier scores candidate intents from weighted pattern hits plus entity
// presence boosts. Pure and deterministic: identical input, identical output.
type Classifier struct {
	patterns map[state.Intent][]weightedPattern
	logger   *log.Logger
}

// NewClassifier builds the classifier with its built-in pattern table.
func NewClassifier(logger *log.Logger) *Classifier {
	return &Classifier{
		patterns: map[state.Intent][]weightedPattern{
			state.IntentRecipeSearch: {
				{"recipe", 0.5},
				{"recipes", 0.5},
				{"recommend", 0.4},
				{"suggest", 0.4},
				{"how to make", 0.5},
				{"how do i make", 0.5},
				{"what can i cook", 0.5},
				{"what should i cook", 0.5},
				{"dish", 0.3},
				{"meal", 0.3},
				{"dinner", 0.3},
				{"lunch", 0.3},
				{"breakfast", 0.3},
				{"cook", 0.2},
			},
			state.IntentRecipeDetail: {
				{"more detail", 0.6},
				{"tell me more", 0.6},
				{"more tips", 0.6},
				{"the steps", 0.4},
				{"instructions", 0.4},
				{"that recipe", 0.5},
				{"this recipe", 0.5},
				{"previous", 0.4},
			},
			state.IntentIngredientSubstitute: {
				{"substitute", 0.7},
				{"substitution", 0.7},
				{"replace", 0.5},
				{"instead of", 0.5},
				{"alternative to", 0.5},
				{"swap", 0.4},
			},
			state.IntentCookingAdvice: {
				{"how long", 0.5},
				{"how do i", 0.3},
				{"what temperature", 0.6},
				{"tip", 0.4},
				{"tips", 0.4},
				{"technique", 0.5},
				{"why does", 0.4},
				{"how to", 0.2},
				{"advice", 0.5},
			},
			state.IntentNutritionalInfo: {
				{"calorie", 0.6},
				{"calories", 0.6},
				{"nutrition", 0.7},
				{"nutritional", 0.7},
				{"protein", 0.5},
				{"carbs", 0.5},
				{"healthy", 0.4},
				{"macros", 0.6},
			},
		},
		logger: logger,
	}
}

// Classify scores every candidate intent. Primary is the highest non-zero
// score with ties broken toward recipe_search, the documented safe default.
// Confidence is capped at 1.0. Zero matches yield general_chat at the floor.
func (c *Classifier) Classify(query string, entities []extract.Entity) state.IntentResult {
	lower := strings.ToLower(query)

	scores := make(map[state.Intent]float64, len(c.patterns))
	for intent, patterns := range c.patterns {
		for _, wp := range patterns {
			if strings.Contains(lower, wp.pattern) {
				scores[intent] += wp.weight
			}
		}
	}

	applyEntityBoosts(scores, entities)

	primary, secondary := rank(scores)
	if primary == "" {
		if c.logger != nil {
			c.logger.Printf("[INTENT] No pattern match, defaulting to general_chat")
		}
		return state.IntentResult{
			Primary:    state.IntentGeneralChat,
			Confidence: unknownConfidenceFloor,
		}
	}

	confidence := scores[primary]
	if confidence > 1.0 {
		confidence = 1.0
	}

	if c.logger != nil {
		c.logger.Printf("[INTENT] %s (confidence %.2f, secondary %s)", primary, confidence, secondary)
	}

	return state.IntentResult{
		Primary:    primary,
		Secondary:  secondary,
		Confidence: confidence,
	}
}

// Entity presence nudges related intents: dietary entities suggest a
// nutrition question, ingredients and cuisines suggest a search, methods
// suggest technique advice.
func applyEntityBoosts(scores map[state.Intent]float64, entities []extract.Entity) {
	for _, ent := range entities {
		switch ent.Type {
		case extract.CategoryDietary:
			scores[state.IntentNutritionalInfo] += 0.2
		case extract.CategoryIngredient:
			scores[state.IntentRecipeSearch] += 0.1
		case extract.CategoryCuisine:
			scores[state.IntentRecipeSearch] += 0.15
		case extract.CategoryCookingMethod:
			scores[state.IntentCookingAdvice] += 0.1
		}
	}
}

// rank picks the top two intents. Iteration over a fixed candidate order keeps
// the result deterministic; recipe_search first so equal scores resolve to it.
func rank(scores map[state.Intent]float64) (primary, secondary state.Intent) {
	order := []state.Intent{
		state.IntentRecipeSearch,
		state.IntentRecipeDetail,
		state.IntentIngredientSubstitute,
		state.IntentCookingAdvice,
		state.IntentNutritionalInfo,
	}

	var best, second float64
	for _, intent := range order {
		score := scores[intent]
		if score <= 0 {
			continue
		}
		if score > best {
			second = best
			secondary = primary
			best = score
			primary = intent
		} else if score > second {
			second = score
			secondary = intent
		}
	}
	return primary, secondary
}
