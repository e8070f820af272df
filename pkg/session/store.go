package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store persists session data by id.
type Store interface {
	// Load returns the data saved under id, or (nil, nil) when there is none.
	Load(ctx context.Context, id string) (map[string]any, error)
	Save(ctx context.Context, id string, data map[string]any, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// ------------------- Memory -------------------

type memoryEntry struct {
	raw       []byte
	expiresAt time.Time
}

// MemoryStore keeps sessions in process memory. Data round-trips through JSON
// so values read back have the same types as from RedisStore.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry), now: time.Now}
}

func (s *MemoryStore) Load(_ context.Context, id string) (map[string]any, error) {
	s.mu.Lock()
	entry, ok := s.entries[id]
	if ok && s.now().After(entry.expiresAt) {
		delete(s.entries, id)
		ok = false
	}
	s.mu.Unlock()

	if !ok {
		return nil, nil
	}
	return decode(entry.raw)
}

func (s *MemoryStore) Save(_ context.Context, id string, data map[string]any, ttl time.Duration) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("session: marshal: %w", err)
	}

	s.mu.Lock()
	s.entries[id] = memoryEntry{raw: raw, expiresAt: s.now().Add(ttl)}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
	return nil
}

// Evict drops expired sessions and reports how many went. Load already
// ignores them; Evict reclaims the memory of ids nobody asks for again.
func (s *MemoryStore) Evict() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	now := s.now()
	for id, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, id)
			n++
		}
	}
	return n
}

// Len reports how many unexpired sessions are held.
func (s *MemoryStore) Len() int {
	s.Evict()

	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// ------------------- Redis -------------------

// RedisStore keeps sessions in Redis under "storefront:session:<id>" with the
// session TTL as key expiry.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

// ConnectRedis opens a client and verifies it with a ping.
func ConnectRedis(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("session: redis ping: %w", err)
	}
	return rdb, nil
}

func redisKey(id string) string { return "storefront:session:" + id }

func (s *RedisStore) Load(ctx context.Context, id string) (map[string]any, error) {
	raw, err := s.rdb.Get(ctx, redisKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: redis get: %w", err)
	}
	return decode(raw)
}

func (s *RedisStore) Save(ctx context.Context, id string, data map[string]any, ttl time.Duration) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("session: marshal: %w", err)
	}
	if err := s.rdb.Set(ctx, redisKey(id), raw, ttl).Err(); err != nil {
		return fmt.Errorf("session: redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, redisKey(id)).Err(); err != nil {
		return fmt.Errorf("session: redis del: %w", err)
	}
	return nil
}

func decode(raw []byte) (map[string]any, error) {
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("session: unmarshal: %w", err)
	}
	return data, nil
}
