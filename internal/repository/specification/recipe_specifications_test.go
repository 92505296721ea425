package specification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByAnyTagClauseIsGrouped(t *testing.T) {
	cond, args := ByAnyTag{Tags: []string{"vegan", "gluten-free"}}.clause()

	// The whole OR chain must stay inside one parenthesized expression so the
	// exclusion and soft-delete clauses ANDed around it keep applying to every
	// branch.
	assert.Equal(t, "(tags @> ? OR tags @> ?)", cond)
	require.Len(t, args, 2)
	assert.Equal(t, `["vegan"]`, args[0])
	assert.Equal(t, `["gluten-free"]`, args[1])
}

func TestByAnyTagSingle(t *testing.T) {
	cond, args := ByAnyTag{Tags: []string{"quick"}}.clause()

	assert.Equal(t, "(tags @> ?)", cond)
	require.Len(t, args, 1)
	assert.Equal(t, `["quick"]`, args[0])
}

func TestByAnyTagEmpty(t *testing.T) {
	cond, args := ByAnyTag{}.clause()

	assert.Empty(t, cond)
	assert.Nil(t, args)
}
