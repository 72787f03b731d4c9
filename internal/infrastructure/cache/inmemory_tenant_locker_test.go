package cache

import (
	"context"
	"sync"
	"testing"

	appfiscal "github.com/dukahub/backend/internal/application/fiscal"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryTenantLockerMutualExclusion(t *testing.T) {
	locker := NewInMemoryTenantLocker()
	ctx := context.Background()
	tenantID := uuid.New()

	release, err := locker.Lock(ctx, tenantID)
	require.NoError(t, err)

	_, err = locker.Lock(ctx, tenantID)
	assert.ErrorIs(t, err, appfiscal.ErrLockHeld)

	// Other tenants are independent
	otherRelease, err := locker.Lock(ctx, uuid.New())
	require.NoError(t, err)
	otherRelease()

	release()

	release2, err := locker.Lock(ctx, tenantID)
	require.NoError(t, err)
	release2()
}

func TestInMemoryTenantLockerReleaseIsIdempotent(t *testing.T) {
	locker := NewInMemoryTenantLocker()
	ctx := context.Background()
	tenantID := uuid.New()

	release, err := locker.Lock(ctx, tenantID)
	require.NoError(t, err)

	release()
	release() // Second call must not unlock someone else's claim

	holdRelease, err := locker.Lock(ctx, tenantID)
	require.NoError(t, err)
	defer holdRelease()

	_, err = locker.Lock(ctx, tenantID)
	assert.ErrorIs(t, err, appfiscal.ErrLockHeld)
}

func TestInMemoryTenantLockerConcurrentAcquire(t *testing.T) {
	locker := NewInMemoryTenantLocker()
	ctx := context.Background()
	tenantID := uuid.New()

	const workers = 16
	var wg sync.WaitGroup
	var mu sync.Mutex
	acquired := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := locker.Lock(ctx, tenantID); err == nil {
				mu.Lock()
				acquired++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, acquired)
}
