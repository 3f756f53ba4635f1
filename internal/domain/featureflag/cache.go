package featureflag

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// FlagCache caches a team's full flag set. Evaluation happens on every
// gated request, so reads go through the cache and mutations invalidate
// the team's entry.
type FlagCache interface {
	// GetTeam returns the cached flag set for a team. ok is false on a
	// miss; a team with no configured flags caches an empty slice.
	GetTeam(ctx context.Context, teamID uuid.UUID) (flags []*Flag, ok bool, err error)
	SetTeam(ctx context.Context, teamID uuid.UUID, flags []*Flag, ttl time.Duration) error
	InvalidateTeam(ctx context.Context, teamID uuid.UUID) error
}

// CacheConfig controls flag cache behavior.
type CacheConfig struct {
	TTL             time.Duration
	CleanupInterval time.Duration
	PubSubChannel   string
}

// DefaultCacheConfig returns the cache defaults. A short TTL keeps
// flag changes visible within seconds even without invalidation.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		TTL:             30 * time.Second,
		CleanupInterval: time.Minute,
		PubSubChannel:   "featureflags:invalidate",
	}
}
