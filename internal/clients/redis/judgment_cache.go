// Package redis holds the judgment cache. The cache is strictly an
// accelerator: every operation degrades to a miss when redis is down or
// unconfigured, and no cache failure ever reaches a caller as an error.
package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/overruled/mocktrial-backend/internal/logger"
	"github.com/overruled/mocktrial-backend/internal/types"
)

// JudgmentTTL is how long a cached judgment lives without invalidation.
const JudgmentTTL = 3600 * time.Second

const keyNamespace = "mocktrial:judgment:"

type JudgmentCache interface {
	// Get returns the cached judgment for the case, or nil on any miss,
	// including redis being unreachable.
	Get(ctx context.Context, caseID string) *types.Judgment
	// Set stores the judgment under the case key with JudgmentTTL.
	Set(ctx context.Context, caseID string, j *types.Judgment)
	// Delete invalidates the case key. Callers must persist the new
	// judgment before invalidating; a failed delete is logged, never
	// raised, because a stale read beats losing the computed result.
	Delete(ctx context.Context, caseID string)
}

type judgmentCache struct {
	log *logger.Logger
	rdb *goredis.Client
}

// NewJudgmentCache connects to REDIS_ADDR. It returns an error only for a
// hard misconfiguration; callers typically fall back to NewNopCache.
func NewJudgmentCache(log *logger.Logger) (JudgmentCache, error) {
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &judgmentCache{
		log: log.With("service", "JudgmentCache"),
		rdb: rdb,
	}, nil
}

// CacheKey derives the namespaced, deterministic key for a case.
func CacheKey(caseID string) string {
	sum := sha256.Sum256([]byte(caseID))
	return keyNamespace + hex.EncodeToString(sum[:])
}

func (c *judgmentCache) Get(ctx context.Context, caseID string) *types.Judgment {
	raw, err := c.rdb.Get(ctx, CacheKey(caseID)).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("Cache get failed, treating as miss", "case_id", caseID, "error", err)
		}
		return nil
	}
	var j types.Judgment
	if err := json.Unmarshal(raw, &j); err != nil {
		c.log.Warn("Cache entry corrupt, treating as miss", "case_id", caseID, "error", err)
		return nil
	}
	return &j
}

func (c *judgmentCache) Set(ctx context.Context, caseID string, j *types.Judgment) {
	raw, err := json.Marshal(j)
	if err != nil {
		c.log.Warn("Cache marshal failed, skipping set", "case_id", caseID, "error", err)
		return
	}
	if err := c.rdb.Set(ctx, CacheKey(caseID), raw, JudgmentTTL).Err(); err != nil {
		c.log.Warn("Cache set failed", "case_id", caseID, "error", err)
	}
}

func (c *judgmentCache) Delete(ctx context.Context, caseID string) {
	if err := c.rdb.Del(ctx, CacheKey(caseID)).Err(); err != nil {
		c.log.Warn("Cache invalidation failed", "case_id", caseID, "error", err)
	}
}

// nopCache is the always-miss cache used when redis is unconfigured or
// unreachable at startup.
type nopCache struct{}

func NewNopCache() JudgmentCache { return nopCache{} }

func (nopCache) Get(ctx context.Context, caseID string) *types.Judgment  { return nil }
func (nopCache) Set(ctx context.Context, caseID string, j *types.Judgment) {}
func (nopCache) Delete(ctx context.Context, caseID string)                 {}
