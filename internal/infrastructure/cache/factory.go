package cache

import (
	"time"

	"go.uber.org/zap"

	appfiscal "github.com/dukahub/backend/internal/application/fiscal"
	"github.com/dukahub/backend/internal/infrastructure/config"
)

// TenantLockerFactory creates tenant lockers based on configuration
type TenantLockerFactory struct {
	redisConfig           config.RedisConfig
	lockTTL               time.Duration
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// TenantLockerFactoryOption is a functional option for configuring the factory
type TenantLockerFactoryOption func(*TenantLockerFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) TenantLockerFactoryOption {
	return func(f *TenantLockerFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to an in-memory locker
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) TenantLockerFactoryOption {
	return func(f *TenantLockerFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewTenantLockerFactory creates a new factory
func NewTenantLockerFactory(cfg config.RedisConfig, lockTTL time.Duration, opts ...TenantLockerFactoryOption) *TenantLockerFactory {
	f := &TenantLockerFactory{
		redisConfig:           cfg,
		lockTTL:               lockTTL,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateLocker creates a tenant locker. It tries Redis first and falls back
// to the in-memory locker when Redis is not reachable and fallback is allowed.
func (f *TenantLockerFactory) CreateLocker() (appfiscal.TenantLocker, error) {
	locker, err := NewRedisTenantLocker(f.redisConfig, f.lockTTL, WithLockerLogger(f.logger))
	if err == nil {
		f.logger.Info("Using Redis tenant locker",
			zap.String("addr", f.redisConfig.Addr()),
			zap.Duration("lock_ttl", f.lockTTL),
		)
		return locker, nil
	}

	if !f.allowInMemoryFallback {
		return nil, err
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory tenant locker",
		zap.Error(err),
	)
	return NewInMemoryTenantLocker(), nil
}
