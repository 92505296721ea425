package search

import (
	"sort"

	"ai-recipechat-be/pkg/store"
)

// RankConfig controls hybrid score combination and sort precedence.
type RankConfig struct {
	VectorWeight float64
	TextWeight   float64
	MinScore     float64
	SafetyFirst  bool
}

// DefaultRankConfig returns the documented defaults: 0.6 vector / 0.4 text,
// safety-first ordering.
func DefaultRankConfig() RankConfig {
	return RankConfig{
		VectorWeight: 0.6,
		TextWeight:   0.4,
		MinScore:     0.05,
		SafetyFirst:  true,
	}
}

// Validate enforces the weight invariants (both >= 0, sum <= 1). Invalid
// weights fall back to the defaults rather than erroring; ranking misconfig
// must never take a request down.
func (c RankConfig) Validate() RankConfig {
	if c.VectorWeight < 0 || c.TextWeight < 0 || c.VectorWeight+c.TextWeight > 1 {
		def := DefaultRankConfig()
		def.MinScore = c.MinScore
		def.SafetyFirst = c.SafetyFirst
		return def
	}
	return c
}

// Rank computes combined = vectorWeight*vectorSim + textWeight*textScore for
// every candidate, drops anything below MinScore, and sorts.
//
// SafetyFirst precedence: ascending allergen risk, then ascending allergen
// count, then descending relevance. Otherwise relevance leads and the safety
// keys break ties.
func Rank(candidates []store.RecipeCandidate, cfg RankConfig) []store.RecipeCandidate {
	cfg = cfg.Validate()

	ranked := make([]store.RecipeCandidate, 0, len(candidates))
	for _, c := range candidates {
		c.CombinedScore = cfg.VectorWeight*c.VectorScore + cfg.TextWeight*c.TextScore
		if c.CombinedScore < cfg.MinScore {
			continue
		}
		ranked = append(ranked, c)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if cfg.SafetyFirst {
			if a.SafetyScore != b.SafetyScore {
				return a.SafetyScore < b.SafetyScore
			}
			if len(a.AllergyFlags) != len(b.AllergyFlags) {
				return len(a.AllergyFlags) < len(b.AllergyFlags)
			}
			return a.CombinedScore > b.CombinedScore
		}
		if a.CombinedScore != b.CombinedScore {
			return a.CombinedScore > b.CombinedScore
		}
		if a.SafetyScore != b.SafetyScore {
			return a.SafetyScore < b.SafetyScore
		}
		return len(a.AllergyFlags) < len(b.AllergyFlags)
	})

	return ranked
}
