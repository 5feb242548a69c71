package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	id "neuroportal/pkg/domain"
	"neuroportal/pkg/platform/sentinel"
)

// RedisStore persists wizard snapshots in Redis with a TTL, so abandoned
// application and payment flows expire on their own.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore constructs the store. TTL must be positive: an unbounded
// wizard session would accumulate abandoned flows forever.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		panic("wizard: redis store requires a positive TTL")
	}
	return &RedisStore{client: client, ttl: ttl}
}

func redisKey(sessionID id.SessionID) string {
	return "wizard:session:" + sessionID.String()
}

func (s *RedisStore) Save(ctx context.Context, sessionID id.SessionID, state State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal wizard state: %w", err)
	}
	if err := s.client.Set(ctx, redisKey(sessionID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("save wizard state: %w", err)
	}
	return nil
}

func (s *RedisStore) Find(ctx context.Context, sessionID id.SessionID) (State, error) {
	payload, err := s.client.Get(ctx, redisKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return State{}, sentinel.ErrNotFound
		}
		return State{}, fmt.Errorf("find wizard state: %w", err)
	}

	var state State
	if err := json.Unmarshal(payload, &state); err != nil {
		return State{}, fmt.Errorf("unmarshal wizard state: %w", err)
	}
	return state, nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID id.SessionID) error {
	if err := s.client.Del(ctx, redisKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete wizard state: %w", err)
	}
	return nil
}
