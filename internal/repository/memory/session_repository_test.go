package memory

import (
	"fmt"
	"sync"
	"testing"

	"ai-recipechat-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepositorySaveStoresSnapshot(t *testing.T) {
	r := NewSessionRepository()

	s := &store.Session{ID: "s1", LastQuery: "first"}
	r.Save(s)
	s.LastQuery = "mutated after save"

	got, found := r.Get("s1")
	require.True(t, found)
	assert.Equal(t, "first", got.LastQuery)
}

func TestSessionRepositoryGetReturnsIndependentCopies(t *testing.T) {
	r := NewSessionRepository()
	r.Save(&store.Session{ID: "s1", LastQuery: "original", LastIntent: "recipe_search"})

	a, found := r.Get("s1")
	require.True(t, found)
	b, found := r.Get("s1")
	require.True(t, found)
	assert.NotSame(t, a, b)

	a.LastQuery = "changed on a"
	assert.Equal(t, "original", b.LastQuery)

	stored, _ := r.Get("s1")
	assert.Equal(t, "original", stored.LastQuery)
}

func TestSessionRepositoryConcurrentTurns(t *testing.T) {
	r := NewSessionRepository()
	r.Save(&store.Session{ID: "s1"})

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			s, ok := r.Get("s1")
			if !ok {
				s = &store.Session{ID: "s1"}
			}
			s.LastQuery = fmt.Sprintf("turn %d", n)
			s.LastEntities = []string{"chicken"}
			s.LastRecipe = &store.RecipeCandidate{ID: fmt.Sprintf("r%d", n)}
			r.Save(s)
		}(i)
	}
	wg.Wait()

	got, found := r.Get("s1")
	require.True(t, found)
	assert.NotEmpty(t, got.LastQuery)
	require.NotNil(t, got.LastRecipe)
	assert.Equal(t, []string{"chicken"}, got.LastEntities)
}
