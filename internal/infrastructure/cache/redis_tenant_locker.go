package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appfiscal "github.com/dukahub/backend/internal/application/fiscal"
	"github.com/dukahub/backend/internal/infrastructure/config"
)

// lockKeyPrefix namespaces fiscal submission locks in Redis
const lockKeyPrefix = "fiscal:zreport:lock:"

// RedisTenantLocker provides per-tenant mutual exclusion for Z-Report
// submission across process instances. The lock is advisory; the database
// claim remains the authoritative idempotency guard, so losing Redis only
// costs coordination, never correctness.
type RedisTenantLocker struct {
	client     *redis.Client
	ownsClient bool
	locker     *redislock.Client
	ttl        time.Duration
	logger     *zap.Logger
}

// RedisTenantLockerOption is a functional option for configuring the locker
type RedisTenantLockerOption func(*RedisTenantLocker)

// WithLockerLogger sets the logger for the locker
func WithLockerLogger(logger *zap.Logger) RedisTenantLockerOption {
	return func(l *RedisTenantLocker) {
		l.logger = logger
	}
}

// NewRedisTenantLocker creates a new Redis-backed tenant locker.
// The TTL bounds how long a crashed submitter can hold a tenant hostage.
func NewRedisTenantLocker(cfg config.RedisConfig, ttl time.Duration, opts ...RedisTenantLockerOption) (*RedisTenantLocker, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	locker := &RedisTenantLocker{
		client:     client,
		ownsClient: true,
		locker:     redislock.New(client),
		ttl:        ttl,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(locker)
	}
	return locker, nil
}

// NewRedisTenantLockerWithClient wraps an existing Redis client without
// taking ownership of it
func NewRedisTenantLockerWithClient(client *redis.Client, ttl time.Duration, opts ...RedisTenantLockerOption) *RedisTenantLocker {
	locker := &RedisTenantLocker{
		client:     client,
		ownsClient: false,
		locker:     redislock.New(client),
		ttl:        ttl,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(locker)
	}
	return locker
}

// Lock obtains the submission lock for a tenant. Returns ErrLockHeld when
// another submitter already holds it; the returned release function is safe
// to call exactly once.
func (l *RedisTenantLocker) Lock(ctx context.Context, tenantID uuid.UUID) (func(), error) {
	lock, err := l.locker.Obtain(ctx, lockKeyPrefix+tenantID.String(), l.ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, appfiscal.ErrLockHeld
	}
	if err != nil {
		return nil, fmt.Errorf("failed to obtain tenant lock: %w", err)
	}

	release := func() {
		// The lock expires on its own; a failed release only delays reuse
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := lock.Release(releaseCtx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.logger.Warn("Failed to release tenant lock",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err),
			)
		}
	}
	return release, nil
}

// Close closes the underlying Redis client if the locker owns it
func (l *RedisTenantLocker) Close() error {
	if l.ownsClient {
		return l.client.Close()
	}
	return nil
}

// Ensure RedisTenantLocker implements the TenantLocker interface
var _ appfiscal.TenantLocker = (*RedisTenantLocker)(nil)
