package cache

import (
	"context"
	"sync"

	"github.com/google/uuid"

	appfiscal "github.com/dukahub/backend/internal/application/fiscal"
)

// InMemoryTenantLocker provides per-tenant mutual exclusion within a single
// process. Suitable for single-instance deployments and testing.
// WARNING: in-memory locks do not coordinate across process instances; in a
// distributed deployment the database claim is the only duplicate guard.
type InMemoryTenantLocker struct {
	mu   sync.Mutex
	held map[uuid.UUID]struct{}
}

// NewInMemoryTenantLocker creates a new in-memory tenant locker
func NewInMemoryTenantLocker() *InMemoryTenantLocker {
	return &InMemoryTenantLocker{held: make(map[uuid.UUID]struct{})}
}

// Lock obtains the submission lock for a tenant
func (l *InMemoryTenantLocker) Lock(_ context.Context, tenantID uuid.UUID) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, taken := l.held[tenantID]; taken {
		return nil, appfiscal.ErrLockHeld
	}
	l.held[tenantID] = struct{}{}

	var once sync.Once
	release := func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, tenantID)
			l.mu.Unlock()
		})
	}
	return release, nil
}

// Ensure InMemoryTenantLocker implements the TenantLocker interface
var _ appfiscal.TenantLocker = (*InMemoryTenantLocker)(nil)
