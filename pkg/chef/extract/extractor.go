package extract

import (
	"log"
	"sort"
	"strings"
)

// Confidence model: every dictionary hit starts at baseConfidence, longer
// surface forms earn a small bonus, and hits that co-occur with another
// category in the same query earn a context bonus. Capped at 1.0.
const (
	baseConfidence     = 0.6
	lengthBonusPerWord = 0.05
	maxLengthBonus     = 0.15
	coOccurrenceBonus  = 0.1
)

// DefaultAllergyTriggers are the phrases that must co-occur with an allergen
// pattern before it enters the allergy set. A bare ingredient mention is never
// enough. The heuristic is unverified policy; deployments override it via
// config, not by editing this list.
func DefaultAllergyTriggers() []string {
	return []string{
		"allergic to",
		"allergy",
		"allergies",
		"intolerant to",
		"exclude",
		"without",
		"no ",
		"free of",
		"can't eat",
		"cannot eat",
		"avoid",
	}
}

// Extractor finds entities and declared allergies in free-text queries.
type Extractor struct {
	dict     *Dictionary
	triggers []string
	logger   *log.Logger
}

// NewExtractor creates an extractor over shared read-only reference data.
// triggers may be nil to use the default allergy trigger policy.
func NewExtractor(dict *Dictionary, triggers []string, logger *log.Logger) *Extractor {
	if triggers == nil {
		triggers = DefaultAllergyTriggers()
	}
	return &Extractor{
		dict:     dict,
		triggers: triggers,
		logger:   logger,
	}
}

// Entities scans the query against every keyword category. Hits are
// deduplicated by (type, canonical value), keeping the highest confidence.
func (e *Extractor) Entities(query string) []Entity {
	lower := strings.ToLower(query)

	type key struct{ typ, val string }
	best := make(map[key]Entity)
	categoriesHit := make(map[string]bool)

	for category, groups := range e.dict.Keywords {
		for _, group := range groups {
			surface, ok := matchGroup(lower, group)
			if !ok {
				continue
			}
			conf := baseConfidence + lengthBonus(surface)
			k := key{typ: category, val: group.Canonical}
			if existing, found := best[k]; !found || conf > existing.Confidence {
				best[k] = Entity{
					Type:       category,
					Value:      group.Canonical,
					Confidence: conf,
					Synonyms:   group.Synonyms,
				}
			}
			categoriesHit[category] = true
		}
	}

	// Context bonus: a hit is more trustworthy when another category also
	// matched (e.g. "grilled" next to "chicken").
	multiCategory := len(categoriesHit) > 1
	entities := make([]Entity, 0, len(best))
	for _, ent := range best {
		if multiCategory {
			ent.Confidence += coOccurrenceBonus
		}
		if ent.Confidence > 1.0 {
			ent.Confidence = 1.0
		}
		entities = append(entities, ent)
	}

	// Deterministic order: by type then value
	sort.Slice(entities, func(i, j int) bool {
		if entities[i].Type != entities[j].Type {
			return entities[i].Type < entities[j].Type
		}
		return entities[i].Value < entities[j].Value
	})

	if e.logger != nil && len(entities) > 0 {
		e.logger.Printf("[EXTRACT] %d entities from query", len(entities))
	}

	return entities
}

// Allergies returns the allergen names the user explicitly declared. Detection
// requires a trigger phrase somewhere in the query AND an allergen pattern;
// either alone yields nothing. Declared allergies passed in from the profile
// are merged in as-is.
func (e *Extractor) Allergies(query string, declared []string) []string {
	lower := strings.ToLower(query)

	set := make(map[string]bool)
	for _, d := range declared {
		d = strings.ToLower(strings.TrimSpace(d))
		if d == "" {
			continue
		}
		if rec := e.dict.AllergenByName(d); rec != nil {
			set[rec.Name] = true
		} else {
			set[d] = true
		}
	}

	if e.hasTrigger(lower) {
		for _, rec := range e.dict.Allergens {
			for _, pattern := range rec.Patterns {
				if containsToken(lower, pattern) {
					set[rec.Name] = true
					break
				}
			}
			// The allergen name itself counts as a pattern ("soy allergy").
			if containsToken(lower, rec.Name) {
				set[rec.Name] = true
			}
		}
	}

	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)

	if e.logger != nil && len(out) > 0 {
		e.logger.Printf("[EXTRACT] Allergy set: %v", out)
	}

	return out
}

// ExclusionTokens expands the allergy set into the lexical tokens the safety
// filter scans for: the allergen name plus every trigger pattern. Advisory
// cross-contamination text is NOT included unless the contaminated item is
// itself a declared allergen.
func (e *Extractor) ExclusionTokens(allergies []string) []string {
	seen := make(map[string]bool)
	var tokens []string

	add := func(t string) {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" && !seen[t] {
			seen[t] = true
			tokens = append(tokens, t)
		}
	}

	for _, name := range allergies {
		add(name)
		if rec := e.dict.AllergenByName(name); rec != nil {
			for _, p := range rec.Patterns {
				add(p)
			}
		}
	}

	return tokens
}

// Substitutes returns suggested replacements for a declared allergy, if the
// reference data has any.
func (e *Extractor) Substitutes(allergy string) []string {
	if rec := e.dict.AllergenByName(allergy); rec != nil {
		return rec.Substitutes
	}
	return nil
}

func (e *Extractor) hasTrigger(lower string) bool {
	for _, trigger := range e.triggers {
		if strings.Contains(lower, trigger) {
			return true
		}
	}
	return false
}

func matchGroup(lower string, group KeywordGroup) (string, bool) {
	// Prefer the longest matching surface form for the length bonus.
	var matched string
	if containsToken(lower, group.Canonical) {
		matched = group.Canonical
	}
	for _, syn := range group.Synonyms {
		if len(syn) > len(matched) && containsToken(lower, strings.ToLower(syn)) {
			matched = strings.ToLower(syn)
		}
	}
	return matched, matched != ""
}

func lengthBonus(surface string) float64 {
	words := len(strings.Fields(surface))
	bonus := float64(words) * lengthBonusPerWord
	if bonus > maxLengthBonus {
		return maxLengthBonus
	}
	return bonus
}

// containsToken is a word-boundary-aware substring check, so "rice" does not
// match "price". Multi-word patterns fall back to plain substring.
func containsToken(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	if strings.Contains(needle, " ") || strings.Contains(needle, "-") {
		return strings.Contains(haystack, needle)
	}
	idx := 0
	for {
		i := strings.Index(haystack[idx:], needle)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(needle)
		beforeOK := start == 0 || !isWordChar(haystack[start-1])
		afterOK := end == len(haystack) || !isWordChar(haystack[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}
