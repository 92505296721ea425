package specification

import (
	"strings"

	"gorm.io/gorm"
)

// ByMaxMinutes keeps recipes at or under a total time budget. Zero rows
// (unknown time) stay in; only known-too-long recipes drop out.
type ByMaxMinutes struct {
	Minutes int
}

func (s ByMaxMinutes) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("minutes = 0 OR minutes <= ?", s.Minutes)
}

// ByDifficulty filters on the difficulty enum.
type ByDifficulty struct {
	Difficulty string
}

func (s ByDifficulty) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("difficulty = ?", s.Difficulty)
}

// ByAnyTag matches recipes carrying at least one of the tags. Tags are stored
// as a jsonb string array. The OR branches compile into one parenthesized
// expression; a bare .Or chain would escape the surrounding AND clauses and
// bypass the soft-delete and allergen exclusion conditions.
type ByAnyTag struct {
	Tags []string
}

func (s ByAnyTag) Apply(db *gorm.DB) *gorm.DB {
	cond, args := s.clause()
	if cond == "" {
		return db
	}
	return db.Where(cond, args...)
}

func (s ByAnyTag) clause() (string, []interface{}) {
	if len(s.Tags) == 0 {
		return "", nil
	}
	conds := make([]string, len(s.Tags))
	args := make([]interface{}, len(s.Tags))
	for i, tag := range s.Tags {
		conds[i] = "tags @> ?"
		args[i] = `["` + tag + `"]`
	}
	return "(" + strings.Join(conds, " OR ") + ")", args
}

// ByProvenance filters on origin: "corpus" or "ai_generated".
type ByProvenance struct {
	Provenance string
}

func (s ByProvenance) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("provenance = ?", s.Provenance)
}

// ExcludeIngredientTokens drops recipes whose ingredient text mentions any of
// the tokens. This is the hard MUST_NOT clause of the allergen filter.
type ExcludeIngredientTokens struct {
	Tokens []string
}

func (s ExcludeIngredientTokens) Apply(db *gorm.DB) *gorm.DB {
	for _, token := range s.Tokens {
		db = db.Where("ingredients::text NOT ILIKE ?", "%"+token+"%")
	}
	return db
}
