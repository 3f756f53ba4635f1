package cache

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/salespulse/backend/internal/domain/featureflag"
	"github.com/salespulse/backend/internal/infrastructure/config"
)

// FlagCacheFactory builds the flag cache for the configured topology:
// tiered over Redis when Redis is reachable, in-memory otherwise.
type FlagCacheFactory struct {
	redisConfig           config.RedisConfig
	cacheConfig           featureflag.CacheConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// FlagCacheFactoryOption is a functional option for configuring the factory.
type FlagCacheFactoryOption func(*FlagCacheFactory)

// WithFactoryLogger sets the logger for the factory and its caches.
func WithFactoryLogger(logger *zap.Logger) FlagCacheFactoryOption {
	return func(f *FlagCacheFactory) {
		f.logger = logger
	}
}

// WithFactoryCacheConfig sets the cache configuration.
func WithFactoryCacheConfig(cfg featureflag.CacheConfig) FlagCacheFactoryOption {
	return func(f *FlagCacheFactory) {
		f.cacheConfig = cfg
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory
// cache when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) FlagCacheFactoryOption {
	return func(f *FlagCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewFlagCacheFactory creates a factory.
func NewFlagCacheFactory(cfg config.RedisConfig, opts ...FlagCacheFactoryOption) *FlagCacheFactory {
	f := &FlagCacheFactory{
		redisConfig:           cfg,
		cacheConfig:           featureflag.DefaultCacheConfig(),
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Create builds the flag cache. The returned cache is ready for use;
// tiered caches have their invalidation listener started by the caller.
func (f *FlagCacheFactory) Create() (featureflag.FlagCache, error) {
	memory := NewMemoryFlagCache(
		WithMemoryConfig(f.cacheConfig),
		WithMemoryLogger(f.logger),
	)

	if f.redisConfig.Host == "" {
		f.logger.Info("Redis not configured, using in-memory flag cache")
		return memory, nil
	}

	redisCache, err := NewRedisFlagCache(f.redisConfig,
		WithRedisConfig(f.cacheConfig),
		WithRedisLogger(f.logger),
	)
	if err != nil {
		if !f.allowInMemoryFallback {
			memory.Stop()
			return nil, fmt.Errorf("failed to create Redis flag cache: %w", err)
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory flag cache",
			zap.Error(err))
		return memory, nil
	}

	invalidator, err := NewRedisFlagInvalidator(f.redisConfig,
		WithInvalidatorChannel(f.cacheConfig.PubSubChannel),
		WithInvalidatorLogger(f.logger),
	)
	if err != nil {
		_ = redisCache.Close()
		if !f.allowInMemoryFallback {
			memory.Stop()
			return nil, fmt.Errorf("failed to create flag invalidator: %w", err)
		}
		f.logger.Warn("Redis Pub/Sub unavailable, falling back to in-memory flag cache",
			zap.Error(err))
		return memory, nil
	}

	f.logger.Info("using tiered flag cache",
		zap.String("redis", fmt.Sprintf("%s:%d", f.redisConfig.Host, f.redisConfig.Port)))
	return NewTieredFlagCache(memory, redisCache, invalidator,
		WithTieredConfig(f.cacheConfig),
		WithTieredLogger(f.logger),
	), nil
}
