package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/candor-hq/candor/internal/shared/logger"
)

const (
	issueKeyPrefix      = "candor:issue:"
	issueTokenKeyPrefix = "candor:issue:token:"
	defaultIssueTTL     = 5 * time.Minute
)

// IssueCache holds one JSON document per issue, addressable by issue id or by
// the fingerprint of its tracking token. Raw tokens are never stored.
type IssueCache interface {
	// GetByFingerprint decodes the cached document into dst and reports a hit.
	GetByFingerprint(ctx context.Context, fingerprint string, dst any) (bool, error)
	Set(ctx context.Context, issueID, fingerprint string, v any) error
	Invalidate(ctx context.Context, issueID string) error
}

// RedisIssueCache implements IssueCache with two string keys per issue:
// candor:issue:{id} holds the document, candor:issue:token:{fp} holds the id.
type RedisIssueCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Interface
}

func NewRedisIssueCache(client *redis.Client, ttl time.Duration, log logger.Interface) *RedisIssueCache {
	if ttl <= 0 {
		ttl = defaultIssueTTL
	}
	return &RedisIssueCache{
		client: client,
		ttl:    ttl,
		logger: log,
	}
}

func issueKey(issueID string) string {
	return issueKeyPrefix + issueID
}

func issueTokenKey(fingerprint string) string {
	return issueTokenKeyPrefix + fingerprint
}

// jitteredTTL spreads expiry over [ttl, ttl*1.25) so entries written together
// do not expire together.
func (c *RedisIssueCache) jitteredTTL() time.Duration {
	return c.ttl + time.Duration(rand.Int64N(int64(c.ttl/4)+1))
}

func (c *RedisIssueCache) GetByFingerprint(ctx context.Context, fingerprint string, dst any) (bool, error) {
	issueID, err := c.client.Get(ctx, issueTokenKey(fingerprint)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read token key from cache: %w", err)
	}

	data, err := c.client.Get(ctx, issueKey(issueID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read issue from cache: %w", err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		// A document we cannot decode is treated as a miss and dropped.
		c.logger.Warnw("discarding undecodable cache entry", "issue_id", issueID, "error", err)
		_ = c.client.Del(ctx, issueKey(issueID)).Err()
		return false, nil
	}
	return true, nil
}

func (c *RedisIssueCache) Set(ctx context.Context, issueID, fingerprint string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal issue for cache: %w", err)
	}

	ttl := c.jitteredTTL()
	pipe := c.client.TxPipeline()
	pipe.Set(ctx, issueKey(issueID), data, ttl)
	if fingerprint != "" {
		pipe.Set(ctx, issueTokenKey(fingerprint), issueID, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to write issue to cache: %w", err)
	}
	return nil
}

// Invalidate drops the document. The token key is left to expire; a lookup
// through it misses once the document is gone.
func (c *RedisIssueCache) Invalidate(ctx context.Context, issueID string) error {
	if err := c.client.Del(ctx, issueKey(issueID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate issue cache: %w", err)
	}
	return nil
}

// NoopIssueCache is used when Redis is not configured. Every read misses.
type NoopIssueCache struct{}

func NewNoopIssueCache() NoopIssueCache {
	return NoopIssueCache{}
}

func (NoopIssueCache) GetByFingerprint(context.Context, string, any) (bool, error) { return false, nil }
func (NoopIssueCache) Set(context.Context, string, string, any) error              { return nil }
func (NoopIssueCache) Invalidate(context.Context, string) error                    { return nil }
