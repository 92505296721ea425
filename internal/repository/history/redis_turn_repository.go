package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ai-recipechat-be/pkg/store"

	"github.com/redis/go-redis/v9"
)

// RedisTurnRepository keeps a bounded per-session conversation log in a Redis
// list: newest turn at the head, trimmed to maxTurns, expiring with the
// session TTL.
type RedisTurnRepository struct {
	client   *redis.Client
	prefix   string
	maxTurns int64
	ttl      time.Duration
}

func NewRedisTurnRepository(client *redis.Client, prefix string, maxTurns int, ttl time.Duration) *RedisTurnRepository {
	if maxTurns <= 0 {
		maxTurns = 20
	}
	return &RedisTurnRepository{
		client:   client,
		prefix:   prefix,
		maxTurns: int64(maxTurns),
		ttl:      ttl,
	}
}

func (r *RedisTurnRepository) key(sessionID string) string {
	return r.prefix + ":" + sessionID
}

// Append pushes a turn and trims the list to the retention window.
func (r *RedisTurnRepository) Append(ctx context.Context, sessionID string, turn *store.ConversationTurn) error {
	raw, err := json.Marshal(turn)
	if err != nil {
		return fmt.Errorf("marshal turn: %w", err)
	}

	key := r.key(sessionID)
	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, key, raw)
	pipe.LTrim(ctx, key, 0, r.maxTurns-1)
	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append turn: %w", err)
	}
	return nil
}

// Recent returns up to limit turns, newest first.
func (r *RedisTurnRepository) Recent(ctx context.Context, sessionID string, limit int) ([]*store.ConversationTurn, error) {
	if limit <= 0 || int64(limit) > r.maxTurns {
		limit = int(r.maxTurns)
	}

	raws, err := r.client.LRange(ctx, r.key(sessionID), 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("read turns: %w", err)
	}

	turns := make([]*store.ConversationTurn, 0, len(raws))
	for _, raw := range raws {
		var turn store.ConversationTurn
		if err := json.Unmarshal([]byte(raw), &turn); err != nil {
			continue
		}
		turns = append(turns, &turn)
	}
	return turns, nil
}

// Clear drops the whole session log.
func (r *RedisTurnRepository) Clear(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, r.key(sessionID)).Err()
}
