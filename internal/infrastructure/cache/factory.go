package cache

import (
	"context"
	"fmt"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewIdempotencyStore picks the store for the checkout submit lock.
// Redis is preferred; when it is unreachable the in-memory store is used if
// cfg.RedisFallback allows it.
func NewIdempotencyStore(ctx context.Context, redisCfg config.RedisConfig, cfg config.IdempotencyConfig, logger *zap.Logger) (shared.IdempotencyStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if cfg.InMemoryOnly {
		logger.Info("using in-memory idempotency store")
		return NewInMemoryIdempotencyStore(cfg.CleanupPeriod), nil
	}

	store, err := NewRedisIdempotencyStore(ctx, redisCfg, cfg.KeyPrefix)
	if err == nil {
		logger.Info("using Redis idempotency store", zap.String("addr", redisCfg.Addr()))
		return store, nil
	}

	if !cfg.RedisFallback {
		return nil, fmt.Errorf("redis required for idempotency but unavailable: %w", err)
	}

	logger.Warn("Redis unavailable, falling back to in-memory idempotency store; "+
		"duplicate submissions are only caught per instance",
		zap.Error(err),
	)
	return NewInMemoryIdempotencyStore(cfg.CleanupPeriod), nil
}
