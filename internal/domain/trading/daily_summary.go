package trading

import (
	"time"

	"github.com/dukahub/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DailySummary is the finalized report record for a closed session, 1:1 with
// the session and effectively immutable after creation. The PDF path is the
// only field annotated after the fact, once the external renderer has
// produced the printable artifact.
type DailySummary struct {
	shared.TenantAggregateRoot
	SessionID         uuid.UUID
	TradingDate       time.Time
	OpeningStockValue decimal.Decimal
	ClosingStockValue decimal.Decimal
	TotalRevenue      decimal.Decimal
	TotalReceipts     int
	ValueOfGoodsSold  decimal.Decimal
	Variance          decimal.Decimal
	PDFPath           string
}

// NewDailySummary builds the summary for a closed session from its
// reconciliation result
func NewDailySummary(session *StockSession, rec Reconciliation) (*DailySummary, error) {
	if session.IsOpen() {
		return nil, shared.ErrInvalidState
	}

	return &DailySummary{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(session.TenantID),
		SessionID:           session.ID,
		TradingDate:         session.TradingDate,
		OpeningStockValue:   rec.OpeningValue,
		ClosingStockValue:   rec.ClosingValue,
		TotalRevenue:        session.TotalRevenue,
		TotalReceipts:       session.TotalReceipts,
		ValueOfGoodsSold:    rec.ValueOfGoodsSold,
		Variance:            rec.Variance,
	}, nil
}

// AttachPDF records the rendered report's file path
func (d *DailySummary) AttachPDF(path string) {
	d.PDFPath = path
	d.UpdatedAt = time.Now()
}
