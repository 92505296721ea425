package generate

import (
	"encoding/json"
	"strings"

	"ai-recipechat-be/pkg/store"
)

// recipePayload is the wire shape the model is asked to emit.
type recipePayload struct {
	Name          string   `json:"name"`
	NameLocalized string   `json:"name_localized"`
	Description   string   `json:"description"`
	Ingredients   []string `json:"ingredients"`
	Steps         []string `json:"steps"`
	Minutes       int      `json:"minutes"`
	Servings      int      `json:"servings"`
	Difficulty    string   `json:"difficulty"`
	Tags          []string `json:"tags"`
}

// RecoverRecipe scans raw model output for the first balanced {...} block,
// strips code-fence markers, and deserializes it. Returns nil for anything
// malformed: truncated JSON, wrong types, missing required fields. Never
// panics, never returns an error — a nil result is the recoverable outcome
// the caller's fallback handles.
func RecoverRecipe(raw string) *store.RecipeCandidate {
	block := firstBalancedBlock(stripFences(raw))
	if block == "" {
		return nil
	}

	var payload recipePayload
	if err := json.Unmarshal([]byte(block), &payload); err != nil {
		return nil
	}

	if payload.Name == "" || payload.Description == "" {
		return nil
	}
	if len(payload.Ingredients) == 0 || len(payload.Steps) == 0 {
		return nil
	}
	if payload.NameLocalized == "" {
		payload.NameLocalized = payload.Name
	}

	return &store.RecipeCandidate{
		Name:          payload.Name,
		NameLocalized: payload.NameLocalized,
		Description:   payload.Description,
		Ingredients:   payload.Ingredients,
		Steps:         payload.Steps,
		Minutes:       payload.Minutes,
		Servings:      payload.Servings,
		Difficulty:    payload.Difficulty,
		Tags:          payload.Tags,
	}
}

func stripFences(raw string) string {
	if !strings.Contains(raw, "```") {
		return raw
	}
	var b strings.Builder
	for _, line := range strings.Split(raw, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// firstBalancedBlock returns the first top-level {...} block, tracking string
// literals and escapes so braces inside values don't break the balance count.
func firstBalancedBlock(raw string) string {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return raw[start : i+1]
				}
			}
		}
	}
	// Never closed: truncated output.
	return ""
}
