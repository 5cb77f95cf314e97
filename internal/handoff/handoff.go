package handoff

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dharmasatrya/trainbooking/internal/models"
)

const DefaultTTL = 30 * time.Minute

var ErrNotFound = errors.New("checkout not found")

// Payload carries a cart from the seat map to checkout. It is readable only
// by the session that created it.
type Payload struct {
	SessionID string          `json:"sessionId"`
	Checkout  models.Checkout `json:"checkout"`
	CreatedAt time.Time       `json:"createdAt"`
}

type Store interface {
	Put(ctx context.Context, p Payload) (string, error)
	Get(ctx context.Context, sessionID, id string) (Payload, error)
	Delete(ctx context.Context, id string) error
}

func newID() string {
	return uuid.NewString()
}

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func redisKey(id string) string {
	return "handoff:" + id
}

func (s *RedisStore) Put(ctx context.Context, p Payload) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	id := newID()
	if err := s.client.Set(ctx, redisKey(id), data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store checkout: %w", err)
	}
	return id, nil
}

func (s *RedisStore) Get(ctx context.Context, sessionID, id string) (Payload, error) {
	data, err := s.client.Get(ctx, redisKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Payload{}, ErrNotFound
	}
	if err != nil {
		return Payload{}, fmt.Errorf("load checkout: %w", err)
	}

	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return Payload{}, fmt.Errorf("decode checkout: %w", err)
	}
	if p.SessionID != sessionID {
		return Payload{}, ErrNotFound
	}
	return p, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, redisKey(id)).Err()
}

type memoryEntry struct {
	payload   Payload
	expiresAt time.Time
}

type MemoryStore struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]memoryEntry
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

func (s *MemoryStore) Put(_ context.Context, p Payload) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, id)
		}
	}

	id := newID()
	s.entries[id] = memoryEntry{payload: p, expiresAt: now.Add(s.ttl)}
	return id, nil
}

func (s *MemoryStore) Get(_ context.Context, sessionID, id string) (Payload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok || !s.now().Before(e.expiresAt) || e.payload.SessionID != sessionID {
		return Payload{}, ErrNotFound
	}
	return e.payload, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, id)
	return nil
}
