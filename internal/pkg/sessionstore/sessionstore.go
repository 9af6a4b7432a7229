// Package sessionstore remembers revoked session token ids until they expire.
package sessionstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store records revoked session ids
type Store interface {
	// Revoke marks id as revoked until expiresAt
	Revoke(ctx context.Context, id string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, id string) (bool, error)
}

// MemoryStore keeps revocations in process memory
type MemoryStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

// NewMemoryStore creates an empty in-process store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		revoked: map[string]time.Time{},
		now:     time.Now,
	}
}

// Revoke marks id as revoked until expiresAt
func (s *MemoryStore) Revoke(_ context.Context, id string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	// drop entries whose tokens have expired anyway
	for k, exp := range s.revoked {
		if !exp.After(now) {
			delete(s.revoked, k)
		}
	}
	if expiresAt.After(now) {
		s.revoked[id] = expiresAt
	}
	return nil
}

// IsRevoked reports whether id was revoked and has not yet expired
func (s *MemoryStore) IsRevoked(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.revoked[id]
	return ok && exp.After(s.now()), nil
}

// RedisKeyPrefix prefixes every revocation key
const RedisKeyPrefix = "session:revoked:"

// RedisStore keeps revocations in redis with a TTL matching the token lifetime
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisStore creates a store on an existing client
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		now:    time.Now,
	}
}

// Revoke marks id as revoked until expiresAt
func (s *RedisStore) Revoke(ctx context.Context, id string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, RedisKeyPrefix+id, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// IsRevoked reports whether id was revoked and has not yet expired
func (s *RedisStore) IsRevoked(ctx context.Context, id string) (bool, error) {
	n, err := s.client.Exists(ctx, RedisKeyPrefix+id).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check session revocation: %w", err)
	}
	return n > 0, nil
}
