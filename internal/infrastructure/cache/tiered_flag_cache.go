package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/salespulse/backend/internal/domain/featureflag"
)

// TieredFlagCache layers a local in-memory cache over Redis.
// L1 answers most reads; L2 shares state across instances; Pub/Sub
// invalidation keeps remote L1s from serving stale flags after a
// change on another instance.
type TieredFlagCache struct {
	l1          *MemoryFlagCache
	l2          *RedisFlagCache
	invalidator *RedisFlagInvalidator
	config      featureflag.CacheConfig
	logger      *zap.Logger

	l1Hits int64
	l2Hits int64
	misses int64
}

// TieredFlagCacheOption is a functional option for configuring the cache.
type TieredFlagCacheOption func(*TieredFlagCache)

// WithTieredConfig sets the cache configuration.
func WithTieredConfig(config featureflag.CacheConfig) TieredFlagCacheOption {
	return func(c *TieredFlagCache) {
		c.config = config
	}
}

// WithTieredLogger sets the logger for the cache.
func WithTieredLogger(logger *zap.Logger) TieredFlagCacheOption {
	return func(c *TieredFlagCache) {
		c.logger = logger
	}
}

// NewTieredFlagCache creates a tiered flag cache.
func NewTieredFlagCache(
	l1 *MemoryFlagCache,
	l2 *RedisFlagCache,
	invalidator *RedisFlagInvalidator,
	opts ...TieredFlagCacheOption,
) *TieredFlagCache {
	cache := &TieredFlagCache{
		l1:          l1,
		l2:          l2,
		invalidator: invalidator,
		config:      featureflag.DefaultCacheConfig(),
		logger:      zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache
}

// StartInvalidationListener subscribes to the invalidation channel and
// drops L1 entries for teams changed on other instances. It returns
// after starting the subscriber goroutine.
func (c *TieredFlagCache) StartInvalidationListener(ctx context.Context) {
	go func() {
		err := c.invalidator.Subscribe(ctx, func(teamID uuid.UUID) {
			if err := c.l1.InvalidateTeam(ctx, teamID); err != nil {
				c.logger.Warn("L1 invalidation failed",
					zap.String("team_id", teamID.String()),
					zap.Error(err))
			}
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			c.logger.Error("flag invalidation listener stopped", zap.Error(err))
		}
	}()
}

// GetTeam reads through L1 then L2, promoting L2 hits into L1.
func (c *TieredFlagCache) GetTeam(ctx context.Context, teamID uuid.UUID) ([]*featureflag.Flag, bool, error) {
	flags, ok, err := c.l1.GetTeam(ctx, teamID)
	if err == nil && ok {
		atomic.AddInt64(&c.l1Hits, 1)
		return flags, true, nil
	}

	flags, ok, err = c.l2.GetTeam(ctx, teamID)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		atomic.AddInt64(&c.misses, 1)
		return nil, false, nil
	}

	atomic.AddInt64(&c.l2Hits, 1)
	if err := c.l1.SetTeam(ctx, teamID, flags, c.config.TTL); err != nil {
		c.logger.Warn("L1 promotion failed",
			zap.String("team_id", teamID.String()),
			zap.Error(err))
	}
	return flags, true, nil
}

// SetTeam writes both tiers. An L1 failure is logged but not fatal; L2
// is the tier other instances depend on.
func (c *TieredFlagCache) SetTeam(ctx context.Context, teamID uuid.UUID, flags []*featureflag.Flag, ttl time.Duration) error {
	if err := c.l1.SetTeam(ctx, teamID, flags, ttl); err != nil {
		c.logger.Warn("L1 write failed",
			zap.String("team_id", teamID.String()),
			zap.Error(err))
	}
	return c.l2.SetTeam(ctx, teamID, flags, ttl)
}

// InvalidateTeam clears both tiers and notifies other instances.
func (c *TieredFlagCache) InvalidateTeam(ctx context.Context, teamID uuid.UUID) error {
	if err := c.l1.InvalidateTeam(ctx, teamID); err != nil {
		c.logger.Warn("L1 invalidation failed",
			zap.String("team_id", teamID.String()),
			zap.Error(err))
	}
	if err := c.l2.InvalidateTeam(ctx, teamID); err != nil {
		return err
	}
	if err := c.invalidator.Publish(ctx, teamID); err != nil {
		// Remote L1s still expire by TTL, so a missed broadcast only
		// delays convergence.
		c.logger.Warn("invalidation broadcast failed",
			zap.String("team_id", teamID.String()),
			zap.Error(err))
	}
	return nil
}

// Stats returns per-tier hit counts since startup.
func (c *TieredFlagCache) Stats() (l1Hits, l2Hits, misses int64) {
	return atomic.LoadInt64(&c.l1Hits), atomic.LoadInt64(&c.l2Hits), atomic.LoadInt64(&c.misses)
}

// Close stops the listener and releases both tiers.
func (c *TieredFlagCache) Close() error {
	err := c.invalidator.Close()
	if l2Err := c.l2.Close(); err == nil {
		err = l2Err
	}
	c.l1.Stop()
	return err
}

var _ featureflag.FlagCache = (*TieredFlagCache)(nil)
