package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/salespulse/backend/internal/domain/featureflag"
	"github.com/salespulse/backend/internal/domain/identity"
	"github.com/salespulse/backend/internal/infrastructure/config"
)

// RedisFlagCache implements featureflag.FlagCache on Redis, sharing
// flag state across instances as the L2 tier.
type RedisFlagCache struct {
	client     *redis.Client
	ownsClient bool
	config     featureflag.CacheConfig
	logger     *zap.Logger
}

// flagRecord is the wire form of a cached flag. Only the fields
// evaluation reads are carried; entity metadata stays in the database.
type flagRecord struct {
	Feature       featureflag.Feature    `json:"feature"`
	Enabled       bool                   `json:"enabled"`
	RoleOverrides map[identity.Role]bool `json:"role_overrides,omitempty"`
}

// RedisFlagCacheOption is a functional option for configuring the cache.
type RedisFlagCacheOption func(*RedisFlagCache)

// WithRedisConfig sets the cache configuration.
func WithRedisConfig(config featureflag.CacheConfig) RedisFlagCacheOption {
	return func(c *RedisFlagCache) {
		c.config = config
	}
}

// WithRedisLogger sets the logger for the cache.
func WithRedisLogger(logger *zap.Logger) RedisFlagCacheOption {
	return func(c *RedisFlagCache) {
		c.logger = logger
	}
}

// NewRedisFlagCache connects to Redis and returns a flag cache that
// owns its client.
func NewRedisFlagCache(cfg config.RedisConfig, opts ...RedisFlagCacheOption) (*RedisFlagCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	cache := &RedisFlagCache{
		client:     client,
		ownsClient: true,
		config:     featureflag.DefaultCacheConfig(),
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache, nil
}

// NewRedisFlagCacheWithClient creates a cache on an existing client.
// The caller retains ownership of the client.
func NewRedisFlagCacheWithClient(client *redis.Client, opts ...RedisFlagCacheOption) *RedisFlagCache {
	cache := &RedisFlagCache{
		client:     client,
		ownsClient: false,
		config:     featureflag.DefaultCacheConfig(),
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache
}

func (c *RedisFlagCache) teamKey(teamID uuid.UUID) string {
	return "flags:team:" + teamID.String()
}

// GetTeam returns a team's cached flag set.
func (c *RedisFlagCache) GetTeam(ctx context.Context, teamID uuid.UUID) ([]*featureflag.Flag, bool, error) {
	data, err := c.client.Get(ctx, c.teamKey(teamID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get flags from Redis: %w", err)
	}

	var records []flagRecord
	if err := json.Unmarshal(data, &records); err != nil {
		// A corrupt entry is treated as a miss and dropped.
		c.logger.Warn("discarding unreadable flag cache entry",
			zap.String("team_id", teamID.String()),
			zap.Error(err))
		c.client.Del(ctx, c.teamKey(teamID))
		return nil, false, nil
	}

	flags := make([]*featureflag.Flag, 0, len(records))
	for _, r := range records {
		flags = append(flags, &featureflag.Flag{
			Feature:       r.Feature,
			Enabled:       r.Enabled,
			RoleOverrides: r.RoleOverrides,
		})
	}
	return flags, true, nil
}

// SetTeam stores a team's flag set. A zero ttl uses the configured TTL.
func (c *RedisFlagCache) SetTeam(ctx context.Context, teamID uuid.UUID, flags []*featureflag.Flag, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.config.TTL
	}

	records := make([]flagRecord, 0, len(flags))
	for _, f := range flags {
		records = append(records, flagRecord{
			Feature:       f.Feature,
			Enabled:       f.Enabled,
			RoleOverrides: f.RoleOverrides,
		})
	}

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal flags: %w", err)
	}

	if err := c.client.Set(ctx, c.teamKey(teamID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set flags in Redis: %w", err)
	}
	return nil
}

// InvalidateTeam drops a team's entry.
func (c *RedisFlagCache) InvalidateTeam(ctx context.Context, teamID uuid.UUID) error {
	if err := c.client.Del(ctx, c.teamKey(teamID)).Err(); err != nil {
		return fmt.Errorf("failed to delete flags from Redis: %w", err)
	}
	return nil
}

// Close releases the Redis client when this cache owns it.
func (c *RedisFlagCache) Close() error {
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}

var _ featureflag.FlagCache = (*RedisFlagCache)(nil)
