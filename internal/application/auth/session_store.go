package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	SessionRedisPrefix = "session:"
	SessionMaxAge      = 24 * time.Hour
)

// SessionStore keeps session tokens and the principal each one belongs to.
type SessionStore interface {
	Create(ctx context.Context, p Principal) (string, error)
	Lookup(ctx context.Context, token string) (*Principal, error)
	Destroy(ctx context.Context, token string) error
}

// RedisSessionStore stores sessions under "session:<token>" with a TTL.
type RedisSessionStore struct {
	Rdb *redis.Client
	TTL time.Duration
}

func (r *RedisSessionStore) ttl() time.Duration {
	if r.TTL <= 0 {
		return SessionMaxAge
	}
	return r.TTL
}

func (r *RedisSessionStore) Create(ctx context.Context, p Principal) (string, error) {
	token := uuid.New().String()
	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	if err := r.Rdb.Set(ctx, SessionRedisPrefix+token, b, r.ttl()).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (r *RedisSessionStore) Lookup(ctx context.Context, token string) (*Principal, error) {
	b, err := r.Rdb.Get(ctx, SessionRedisPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	var p Principal
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &p, nil
}

func (r *RedisSessionStore) Destroy(ctx context.Context, token string) error {
	return r.Rdb.Del(ctx, SessionRedisPrefix+token).Err()
}

// MemorySessionStore keeps sessions in process memory. Sessions do not survive a
// restart and are not shared between instances.
type MemorySessionStore struct {
	TTL time.Duration

	mu       sync.Mutex
	sessions map[string]memorySession
	now      func() time.Time
}

type memorySession struct {
	principal Principal
	expires   time.Time
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	if ttl <= 0 {
		ttl = SessionMaxAge
	}
	return &MemorySessionStore{TTL: ttl, sessions: make(map[string]memorySession), now: time.Now}
}

func (m *MemorySessionStore) Create(_ context.Context, p Principal) (string, error) {
	token := uuid.New().String()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[token] = memorySession{principal: p, expires: m.now().Add(m.TTL)}
	return token, nil
}

func (m *MemorySessionStore) Lookup(_ context.Context, token string) (*Principal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if m.now().After(s.expires) {
		delete(m.sessions, token)
		return nil, ErrSessionNotFound
	}
	p := s.principal
	return &p, nil
}

func (m *MemorySessionStore) Destroy(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}
