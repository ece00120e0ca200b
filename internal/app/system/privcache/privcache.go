// internal/app/system/privcache/privcache.go

// Package privcache caches section-privilege lookups.
//
// Privileges change rarely but are fetched on every search, once per
// distinct (course, section) pair in the results. A short-TTL cache in
// front of the instructors collection keeps repeated searches from
// re-reading the same documents. With a Redis address configured the
// cache is shared across instances; otherwise a process-local map is
// used.
package privcache

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/mdrews/courselens/internal/domain/models"
	"go.uber.org/zap"
)

// DefaultTTL bounds how stale a cached privilege can be. Privilege edits
// show up in search results within this window.
const DefaultTTL = 2 * time.Minute

// Cache stores effective privileges keyed by instructor, course, and
// section. Implementations are safe for concurrent use. Misses and
// backend hiccups are reported as "not found"; the caller falls back to
// the instructors store.
type Cache interface {
	Get(ctx context.Context, email, courseID, section string) (models.InstructorPrivilege, bool)
	Set(ctx context.Context, email, courseID, section string, priv models.InstructorPrivilege)
}

func key(email, courseID, section string) string {
	return strings.Join([]string{"priv", email, courseID, section}, ":")
}

/*─────────────────────────────────────────────────────────────────────────────*
| Redis-backed cache                                                          |
*─────────────────────────────────────────────────────────────────────────────*/

type redisCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

// NewRedis builds a cache on an existing Redis client. A ttl of 0 uses
// DefaultTTL.
func NewRedis(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &redisCache{rdb: rdb, ttl: ttl, log: logger}
}

func (c *redisCache) Get(ctx context.Context, email, courseID, section string) (models.InstructorPrivilege, bool) {
	raw, err := c.rdb.Get(ctx, key(email, courseID, section)).Result()
	if err == redis.Nil {
		return models.InstructorPrivilege{}, false
	}
	if err != nil {
		c.log.Warn("privilege cache read failed", zap.Error(err))
		return models.InstructorPrivilege{}, false
	}

	var priv models.InstructorPrivilege
	if err := json.Unmarshal([]byte(raw), &priv); err != nil {
		c.log.Warn("privilege cache decode failed", zap.Error(err))
		return models.InstructorPrivilege{}, false
	}
	return priv, true
}

func (c *redisCache) Set(ctx context.Context, email, courseID, section string, priv models.InstructorPrivilege) {
	raw, err := json.Marshal(priv)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key(email, courseID, section), raw, c.ttl).Err(); err != nil {
		c.log.Warn("privilege cache write failed", zap.Error(err))
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Process-local cache                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

type memoryEntry struct {
	priv      models.InstructorPrivilege
	expiresAt time.Time
}

type memoryCache struct {
	ttl time.Duration

	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemory builds a process-local cache. Entries expire lazily on read.
func NewMemory(ttl time.Duration) Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &memoryCache{ttl: ttl, entries: make(map[string]memoryEntry)}
}

func (c *memoryCache) Get(_ context.Context, email, courseID, section string) (models.InstructorPrivilege, bool) {
	k := key(email, courseID, section)

	c.mu.RLock()
	e, ok := c.entries[k]
	c.mu.RUnlock()
	if !ok {
		return models.InstructorPrivilege{}, false
	}
	if time.Now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, k)
		c.mu.Unlock()
		return models.InstructorPrivilege{}, false
	}
	return e.priv, true
}

func (c *memoryCache) Set(_ context.Context, email, courseID, section string, priv models.InstructorPrivilege) {
	c.mu.Lock()
	c.entries[key(email, courseID, section)] = memoryEntry{
		priv:      priv,
		expiresAt: time.Now().Add(c.ttl),
	}
	c.mu.Unlock()
}
