package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront/pkg/redis"
)

type snapshotStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(sessionID string) string
}

type redisRepository struct {
	store snapshotStore
	ttl   time.Duration
}

// NewRedisRepository stores snapshots as JSON under the session's cart key.
// Every save refreshes the TTL so active carts do not expire.
func NewRedisRepository(store snapshotStore, ttl time.Duration) (Repository, error) {
	if store == nil {
		return nil, fmt.Errorf("redis store required")
	}
	return &redisRepository{store: store, ttl: ttl}, nil
}

func (r *redisRepository) Load(ctx context.Context, sessionID string) (*Snapshot, error) {
	raw, err := r.store.Get(ctx, r.store.CartKey(sessionID))
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cart snapshot: %w", err)
	}
	var snapshot Snapshot
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		return nil, fmt.Errorf("decode cart snapshot: %w", err)
	}
	return &snapshot, nil
}

func (r *redisRepository) Save(ctx context.Context, sessionID string, snapshot Snapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode cart snapshot: %w", err)
	}
	if err := r.store.Set(ctx, r.store.CartKey(sessionID), string(payload), r.ttl); err != nil {
		return fmt.Errorf("set cart snapshot: %w", err)
	}
	return nil
}

func (r *redisRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.store.Del(ctx, r.store.CartKey(sessionID)); err != nil {
		return fmt.Errorf("delete cart snapshot: %w", err)
	}
	return nil
}
