package trading

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SnapshotLine is one product position captured in a stock snapshot
type SnapshotLine struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// LineValue returns quantity x unit price for this position
func (l SnapshotLine) LineValue() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// StockSnapshot is an ordered stock valuation at a point in time
type StockSnapshot []SnapshotLine

// Value returns the total valuation of the snapshot
func (s StockSnapshot) Value() decimal.Decimal {
	total := decimal.Zero
	for _, line := range s {
		total = total.Add(line.LineValue())
	}
	return total
}

// StockSnapshotProvider values a tenant's current inventory.
// Implementations must be pure reads of inventory state.
type StockSnapshotProvider interface {
	CurrentSnapshot(ctx context.Context, tenantID uuid.UUID) (StockSnapshot, error)
}
