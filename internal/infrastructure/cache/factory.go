package cache

import (
	"go.uber.org/zap"

	"github.com/reseller/backoffice/internal/domain/shared"
	"github.com/reseller/backoffice/internal/infrastructure/config"
)

// NewIdempotencyStore builds the store used to deduplicate marketplace
// webhook deliveries. When Redis is enabled it is tried first; on failure
// the store falls back to in-memory with a warning, since a single-operator
// deployment usually runs one instance anyway.
func NewIdempotencyStore(cfg config.RedisConfig, logger *zap.Logger) shared.IdempotencyStore {
	if logger == nil {
		logger = zap.NewNop()
	}

	if !cfg.Enabled {
		logger.Info("using in-memory webhook idempotency store")
		return NewInMemoryIdempotencyStore()
	}

	store, err := NewRedisIdempotencyStore(RedisOptions{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err == nil {
		logger.Info("using Redis webhook idempotency store",
			zap.String("host", cfg.Host),
			zap.Int("port", cfg.Port),
		)
		return store
	}

	logger.Warn("Redis unavailable, falling back to in-memory idempotency store. "+
		"Duplicate webhook deliveries may be processed twice across instances.",
		zap.Error(err),
	)
	return NewInMemoryIdempotencyStore()
}
