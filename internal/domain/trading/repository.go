package trading

import (
	"context"
	"time"

	"github.com/dukahub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// StockSessionRepository defines the interface for stock session persistence.
// Save must enforce the one-session-per-(tenant, trading date) invariant and
// return shared.ErrSessionConflict on violation.
type StockSessionRepository interface {
	// FindByID finds a session by ID within a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*StockSession, error)

	// FindByDate finds the session for a trading day, if any
	FindByDate(ctx context.Context, tenantID uuid.UUID, tradingDate time.Time) (*StockSession, error)

	// FindOpen finds the currently open session for a tenant, if any
	FindOpen(ctx context.Context, tenantID uuid.UUID) (*StockSession, error)

	// FindAll finds sessions for a tenant matching the filter
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]StockSession, error)

	// Save creates or updates a session together with its sub-sessions and
	// adjustments
	Save(ctx context.Context, session *StockSession) error

	// Count counts sessions for a tenant
	Count(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

// DailySummaryRepository defines the interface for daily summary persistence
type DailySummaryRepository interface {
	// FindBySessionID finds the summary for a session
	FindBySessionID(ctx context.Context, tenantID, sessionID uuid.UUID) (*DailySummary, error)

	// FindByDate finds the summary for a trading day
	FindByDate(ctx context.Context, tenantID uuid.UUID, tradingDate time.Time) (*DailySummary, error)

	// Save creates or updates a summary; at most one may exist per session
	Save(ctx context.Context, summary *DailySummary) error
}
