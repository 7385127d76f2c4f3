// internal/advisor/session/redis.go
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"pump-advisor/internal/models"
)

const DefaultKeyPrefix = "advisor:session:"

// RedisStore keeps each session as a JSON string and indexes ids by last
// access time in a sorted set so idle sessions can be swept in one range.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	clock  Clock
}

func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration, clock Clock) *RedisStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	if clock == nil {
		clock = SystemClock
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl, clock: clock}
}

func (r *RedisStore) key(id string) string {
	return r.prefix + id
}

// indexKey sits outside the per-session key space.
func (r *RedisStore) indexKey() string {
	return strings.TrimSuffix(r.prefix, ":") + "s:index"
}

func (r *RedisStore) Get(ctx context.Context, id string) (*models.Session, error) {
	raw, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session %s: %w", id, err)
	}

	var s models.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	if s.Expired(r.clock(), r.ttl) {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (r *RedisStore) Save(ctx context.Context, s *models.Session) error {
	s.Touch(r.clock())
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", s.ID, err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		// the key expiry backs up the sweeper in case it is not running
		pipe.Set(ctx, r.key(s.ID), raw, r.ttl)
		pipe.ZAdd(ctx, r.indexKey(), redis.Z{Score: float64(s.LastAccess.Unix()), Member: s.ID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save session %s: %w", s.ID, err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.key(id))
		pipe.ZRem(ctx, r.indexKey(), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis delete session %s: %w", id, err)
	}
	return nil
}

// EvictExpired removes every session whose last access is at or before
// now minus the TTL.
func (r *RedisStore) EvictExpired(ctx context.Context, now time.Time) (int, error) {
	cutoff := now.Add(-r.ttl).Unix()
	ids, err := r.client.ZRangeByScore(ctx, r.indexKey(), &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(cutoff, 10),
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("redis scan session index: %w", err)
	}

	for _, id := range ids {
		if err := r.Delete(ctx, id); err != nil {
			return 0, err
		}
	}
	return len(ids), nil
}

func (r *RedisStore) Count(ctx context.Context) (int, error) {
	n, err := r.client.ZCard(ctx, r.indexKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("redis count sessions: %w", err)
	}
	return int(n), nil
}
