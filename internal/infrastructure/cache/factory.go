package cache

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/labstock/backend/internal/domain/shared"
	"github.com/labstock/backend/internal/infrastructure/config"
)

// IdempotencyStoreFactory creates idempotency stores based on configuration
type IdempotencyStoreFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// IdempotencyStoreFactoryOption is a functional option for configuring the factory
type IdempotencyStoreFactoryOption func(*IdempotencyStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) IdempotencyStoreFactoryOption {
	return func(f *IdempotencyStoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory store
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) IdempotencyStoreFactoryOption {
	return func(f *IdempotencyStoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewIdempotencyStoreFactory creates a new factory
func NewIdempotencyStoreFactory(cfg config.RedisConfig, opts ...IdempotencyStoreFactoryOption) *IdempotencyStoreFactory {
	f := &IdempotencyStoreFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateStore creates an idempotency store. When useRedis is set it attempts a
// Redis-backed store first, falling back to in-memory if allowed.
func (f *IdempotencyStoreFactory) CreateStore(useRedis bool) (shared.IdempotencyStore, error) {
	if !useRedis {
		f.logger.Info("using in-memory idempotency store")
		return NewInMemoryIdempotencyStore(), nil
	}

	store, err := NewRedisIdempotencyStore(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	if err != nil {
		if !f.allowInMemoryFallback {
			return nil, fmt.Errorf("redis idempotency store unavailable: %w", err)
		}
		f.logger.Warn("redis unavailable, falling back to in-memory idempotency store",
			zap.Error(err),
		)
		return NewInMemoryIdempotencyStore(), nil
	}

	f.logger.Info("using redis idempotency store",
		zap.String("host", f.redisConfig.Host),
		zap.Int("port", f.redisConfig.Port),
	)
	return store, nil
}
