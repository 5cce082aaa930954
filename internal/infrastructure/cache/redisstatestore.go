package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/candor-hq/candor/internal/shared/biztime"
)

// ErrStateNotFound is returned for unknown, expired or already used states.
var ErrStateNotFound = errors.New("state not found or expired")

// StateInfo stores state-related information for OAuth flow
type StateInfo struct {
	CodeVerifier string    `json:"code_verifier"`
	CreatedAt    time.Time `json:"created_at"`
}

// StateStore keeps OAuth state and PKCE verifiers between the redirect and
// the callback. VerifyAndGet consumes the state.
type StateStore interface {
	Set(ctx context.Context, state string, codeVerifier string) error
	VerifyAndGet(ctx context.Context, state string) (*StateInfo, error)
}

// RedisStateStore provides Redis-based state storage for OAuth flows
type RedisStateStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStateStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStateStore {
	return &RedisStateStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (s *RedisStateStore) Set(ctx context.Context, state string, codeVerifier string) error {
	data, err := encodeState(state, codeVerifier)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, s.prefix+state, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store state in redis: %w", err)
	}
	return nil
}

// VerifyAndGet uses GETDEL so a state can be redeemed once.
func (s *RedisStateStore) VerifyAndGet(ctx context.Context, state string) (*StateInfo, error) {
	if state == "" {
		return nil, errors.New("state cannot be empty")
	}

	data, err := s.client.GetDel(ctx, s.prefix+state).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrStateNotFound
		}
		return nil, fmt.Errorf("failed to retrieve state from redis: %w", err)
	}

	var info StateInfo
	if err := json.Unmarshal([]byte(data), &info); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state info: %w", err)
	}
	return &info, nil
}

func encodeState(state, codeVerifier string) ([]byte, error) {
	if state == "" {
		return nil, errors.New("state cannot be empty")
	}
	if codeVerifier == "" {
		return nil, errors.New("code_verifier cannot be empty")
	}
	data, err := json.Marshal(StateInfo{
		CodeVerifier: codeVerifier,
		CreatedAt:    biztime.NowUTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal state info: %w", err)
	}
	return data, nil
}

// MemoryStateStore is a single-process StateStore for deployments without
// Redis. States do not survive a restart.
type MemoryStateStore struct {
	mu     sync.Mutex
	ttl    time.Duration
	states map[string]StateInfo
}

func NewMemoryStateStore(ttl time.Duration) *MemoryStateStore {
	return &MemoryStateStore{
		ttl:    ttl,
		states: make(map[string]StateInfo),
	}
}

func (s *MemoryStateStore) Set(_ context.Context, state string, codeVerifier string) error {
	if _, err := encodeState(state, codeVerifier); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := biztime.NowUTC()
	for k, v := range s.states {
		if now.Sub(v.CreatedAt) > s.ttl {
			delete(s.states, k)
		}
	}
	s.states[state] = StateInfo{CodeVerifier: codeVerifier, CreatedAt: now}
	return nil
}

func (s *MemoryStateStore) VerifyAndGet(_ context.Context, state string) (*StateInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, ok := s.states[state]
	if !ok {
		return nil, ErrStateNotFound
	}
	delete(s.states, state)
	if biztime.NowUTC().Sub(info.CreatedAt) > s.ttl {
		return nil, ErrStateNotFound
	}
	return &info, nil
}
