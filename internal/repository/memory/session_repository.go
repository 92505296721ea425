package memory

import (
	"time"

	"ai-recipechat-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	// Create a cache with a default expiration time of 1 hour, and which
	// purges expired items every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

// Save stores a snapshot of the session. Concurrent turns on the same
// session each work on their own copy; the last Save wins.
func (r *SessionRepository) Save(session *store.Session) {
	snapshot := *session
	r.cache.Set(session.ID, &snapshot, cache.DefaultExpiration)
}

// Get returns a copy of the stored session. Callers may mutate it freely;
// nothing is visible to other requests until they Save.
func (r *SessionRepository) Get(sessionID string) (*store.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		session := *(x.(*store.Session))
		return &session, true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
