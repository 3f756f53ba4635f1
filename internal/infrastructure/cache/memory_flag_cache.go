package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/salespulse/backend/internal/domain/featureflag"
)

// MemoryFlagCache implements featureflag.FlagCache with in-process
// storage. It serves as the L1 tier in front of Redis, or as the only
// tier in single-instance deployments.
type MemoryFlagCache struct {
	teams   sync.Map // map[uuid.UUID]*teamEntry
	config  featureflag.CacheConfig
	logger  *zap.Logger
	stopCh  chan struct{}
	stopped int32

	hits   int64
	misses int64
}

// teamEntry wraps a team's cached flag set with its expiration time.
type teamEntry struct {
	flags     []*featureflag.Flag
	expiresAt time.Time
}

func (e *teamEntry) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// MemoryFlagCacheOption is a functional option for configuring the cache.
type MemoryFlagCacheOption func(*MemoryFlagCache)

// WithMemoryConfig sets the cache configuration.
func WithMemoryConfig(config featureflag.CacheConfig) MemoryFlagCacheOption {
	return func(c *MemoryFlagCache) {
		c.config = config
	}
}

// WithMemoryLogger sets the logger for the cache.
func WithMemoryLogger(logger *zap.Logger) MemoryFlagCacheOption {
	return func(c *MemoryFlagCache) {
		c.logger = logger
	}
}

// NewMemoryFlagCache creates an in-memory flag cache and starts its
// background cleanup goroutine.
func NewMemoryFlagCache(opts ...MemoryFlagCacheOption) *MemoryFlagCache {
	cache := &MemoryFlagCache{
		config: featureflag.DefaultCacheConfig(),
		logger: zap.NewNop(),
		stopCh: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(cache)
	}

	go cache.cleanupExpired()

	return cache
}

// GetTeam returns a team's cached flag set.
func (c *MemoryFlagCache) GetTeam(ctx context.Context, teamID uuid.UUID) ([]*featureflag.Flag, bool, error) {
	if value, ok := c.teams.Load(teamID); ok {
		entry := value.(*teamEntry)
		if !entry.isExpired() {
			atomic.AddInt64(&c.hits, 1)
			return entry.flags, true, nil
		}
		c.teams.Delete(teamID)
	}

	atomic.AddInt64(&c.misses, 1)
	return nil, false, nil
}

// SetTeam stores a team's flag set. A zero ttl uses the configured TTL.
func (c *MemoryFlagCache) SetTeam(ctx context.Context, teamID uuid.UUID, flags []*featureflag.Flag, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.config.TTL
	}
	if flags == nil {
		flags = []*featureflag.Flag{}
	}

	c.teams.Store(teamID, &teamEntry{
		flags:     flags,
		expiresAt: time.Now().Add(ttl),
	})
	return nil
}

// InvalidateTeam drops a team's entry.
func (c *MemoryFlagCache) InvalidateTeam(ctx context.Context, teamID uuid.UUID) error {
	c.teams.Delete(teamID)
	return nil
}

// Stats returns hit and miss counts since startup.
func (c *MemoryFlagCache) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

// Stop terminates the cleanup goroutine. Safe to call more than once.
func (c *MemoryFlagCache) Stop() {
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
}

// cleanupExpired periodically removes expired entries so teams that go
// quiet do not pin memory until their next request.
func (c *MemoryFlagCache) cleanupExpired() {
	interval := c.config.CleanupInterval
	if interval <= 0 {
		interval = featureflag.DefaultCacheConfig().CleanupInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			removed := 0
			c.teams.Range(func(key, value any) bool {
				if value.(*teamEntry).isExpired() {
					c.teams.Delete(key)
					removed++
				}
				return true
			})
			if removed > 0 {
				c.logger.Debug("flag cache cleanup", zap.Int("removed", removed))
			}
		}
	}
}

var _ featureflag.FlagCache = (*MemoryFlagCache)(nil)
