package session

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound indicates the session is absent, expired or unreadable.
var ErrNotFound = errors.New("session not found")

const keyPrefix = "session:v1:"

// Stored values must look like passport codes; anything else is treated
// as corruption and cleared.
var storedCodePattern = regexp.MustCompile(`^ALT[A-Z0-9]{1,10}$`)

// Store caches the passport code behind an opaque session token. Save
// overwrites and restarts the expiry clock; Load after expiry reports
// absence.
type Store interface {
	Save(ctx context.Context, token, code string) error
	Load(ctx context.Context, token string) (string, error)
	Clear(ctx context.Context, token string) error
}

// RedisStore keeps sessions in Redis with a fixed TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore builds a Redis-backed session store.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Save stores the code under the token, resetting the TTL.
func (s *RedisStore) Save(ctx context.Context, token, code string) error {
	return s.client.Set(ctx, keyPrefix+token, code, s.ttl).Err()
}

// Load returns the code for a live session. Corrupted entries are
// cleared and reported as absent.
func (s *RedisStore) Load(ctx context.Context, token string) (string, error) {
	code, err := s.client.Get(ctx, keyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", err
	}
	if !storedCodePattern.MatchString(code) {
		s.client.Del(ctx, keyPrefix+token)
		return "", ErrNotFound
	}
	return code, nil
}

// Clear removes the session unconditionally.
func (s *RedisStore) Clear(ctx context.Context, token string) error {
	return s.client.Del(ctx, keyPrefix+token).Err()
}
