package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ReceiptRepository defines the interface for receipt persistence
type ReceiptRepository interface {
	// FindByID finds a receipt by ID within a tenant
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Receipt, error)

	// FindActiveByIssueDateRange finds honored (active) receipts whose issue
	// date falls within [from, to], with items preloaded, ordered by receipt
	// number so downstream aggregation is deterministic
	FindActiveByIssueDateRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]Receipt, error)

	// Save creates or updates a receipt
	Save(ctx context.Context, receipt *Receipt) error
}
