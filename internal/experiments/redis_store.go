package experiments

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const assignmentKeyPrefix = "ab:assignment:"

// RedisAssignmentStore persists visitor assignments in Redis so they survive
// process restarts and are shared across instances. A zero TTL keeps
// assignments for the lifetime of the visitor identity.
type RedisAssignmentStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisAssignmentStore(client *redis.Client, ttl time.Duration) *RedisAssignmentStore {
	return &RedisAssignmentStore{client: client, ttl: ttl}
}

func (s *RedisAssignmentStore) Get(ctx context.Context, visitorID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	val, err := s.client.Get(ctx, assignmentKeyPrefix+visitorID).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (s *RedisAssignmentStore) Set(ctx context.Context, visitorID, variant string) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	// SetNX so a concurrent first contact from another instance cannot
	// overwrite an assignment that just landed; losing the race is fine,
	// the existing assignment stays.
	return s.client.SetNX(ctx, assignmentKeyPrefix+visitorID, variant, s.ttl).Err()
}
