package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/salespulse/backend/internal/domain/featureflag"
	"github.com/salespulse/backend/internal/infrastructure/config"
)

const defaultCloseTimeout = 5 * time.Second

// RedisFlagInvalidator broadcasts team-level flag invalidations over
// Redis Pub/Sub so every instance drops its L1 entry when a flag
// changes anywhere. The payload is just the team's UUID.
type RedisFlagInvalidator struct {
	client     *redis.Client
	ownsClient bool
	channel    string
	logger     *zap.Logger
	cancelFn   context.CancelFunc
	doneCh     chan struct{}
	doneOnce   sync.Once
	mu         sync.Mutex
	isRunning  bool
}

// RedisFlagInvalidatorOption is a functional option for configuring the invalidator.
type RedisFlagInvalidatorOption func(*RedisFlagInvalidator)

// WithInvalidatorChannel sets the Pub/Sub channel name.
func WithInvalidatorChannel(channel string) RedisFlagInvalidatorOption {
	return func(i *RedisFlagInvalidator) {
		i.channel = channel
	}
}

// WithInvalidatorLogger sets the logger for the invalidator.
func WithInvalidatorLogger(logger *zap.Logger) RedisFlagInvalidatorOption {
	return func(i *RedisFlagInvalidator) {
		i.logger = logger
	}
}

// NewRedisFlagInvalidator connects to Redis and returns an invalidator
// that owns its client.
func NewRedisFlagInvalidator(cfg config.RedisConfig, opts ...RedisFlagInvalidatorOption) (*RedisFlagInvalidator, error) {
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

	invalidator := &RedisFlagInvalidator{
		client:     client,
		ownsClient: true,
		channel:    featureflag.DefaultCacheConfig().PubSubChannel,
		logger:     zap.NewNop(),
		doneCh:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(invalidator)
	}

	return invalidator, nil
}

// NewRedisFlagInvalidatorWithClient creates an invalidator on an
// existing client. The caller retains ownership of the client.
func NewRedisFlagInvalidatorWithClient(client *redis.Client, opts ...RedisFlagInvalidatorOption) *RedisFlagInvalidator {
	invalidator := &RedisFlagInvalidator{
		client:     client,
		ownsClient: false,
		channel:    featureflag.DefaultCacheConfig().PubSubChannel,
		logger:     zap.NewNop(),
		doneCh:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(invalidator)
	}

	return invalidator
}

// Publish broadcasts a team invalidation to all subscribers.
func (i *RedisFlagInvalidator) Publish(ctx context.Context, teamID uuid.UUID) error {
	if err := i.client.Publish(ctx, i.channel, teamID.String()).Err(); err != nil {
		i.logger.Error("failed to publish flag invalidation",
			zap.String("channel", i.channel),
			zap.String("team_id", teamID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to publish invalidation: %w", err)
	}
	return nil
}

// Subscribe listens for invalidations and invokes the callback for
// each one. It blocks, so call it in a goroutine.
func (i *RedisFlagInvalidator) Subscribe(ctx context.Context, callback func(teamID uuid.UUID)) error {
	i.mu.Lock()
	if i.isRunning {
		i.mu.Unlock()
		return fmt.Errorf("subscription already running")
	}
	i.isRunning = true
	i.mu.Unlock()

	subCtx, cancel := context.WithCancel(ctx)
	i.mu.Lock()
	i.cancelFn = cancel
	i.mu.Unlock()

	pubsub := i.client.Subscribe(subCtx, i.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(subCtx); err != nil {
		i.mu.Lock()
		i.isRunning = false
		i.mu.Unlock()
		return fmt.Errorf("failed to subscribe to channel: %w", err)
	}

	i.logger.Info("subscribed to flag invalidation channel",
		zap.String("channel", i.channel))

	ch := pubsub.Channel()

	for {
		select {
		case <-subCtx.Done():
			i.mu.Lock()
			i.isRunning = false
			i.mu.Unlock()
			i.markDone()
			return subCtx.Err()
		case msg, ok := <-ch:
			if !ok {
				i.logger.Warn("flag invalidation channel closed")
				i.mu.Lock()
				i.isRunning = false
				i.mu.Unlock()
				i.markDone()
				return nil
			}

			teamID, err := uuid.Parse(msg.Payload)
			if err != nil {
				i.logger.Error("unparseable flag invalidation payload",
					zap.String("payload", msg.Payload),
					zap.Error(err))
				continue
			}
			callback(teamID)
		}
	}
}

func (i *RedisFlagInvalidator) markDone() {
	i.doneOnce.Do(func() {
		close(i.doneCh)
	})
}

// Close stops the subscription and releases the client when owned.
func (i *RedisFlagInvalidator) Close() error {
	i.mu.Lock()
	cancelFn := i.cancelFn
	i.mu.Unlock()

	if cancelFn != nil {
		cancelFn()
		select {
		case <-i.doneCh:
		case <-time.After(defaultCloseTimeout):
			i.logger.Warn("timeout waiting for subscription to stop")
		}
	}

	if i.ownsClient {
		return i.client.Close()
	}
	return nil
}
