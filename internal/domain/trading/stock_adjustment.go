package trading

import (
	"strings"

	"github.com/dukahub/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AdjustmentType classifies a manual stock correction
type AdjustmentType string

const (
	AdjustmentTypeAddition   AdjustmentType = "addition"
	AdjustmentTypeRemoval    AdjustmentType = "removal"
	AdjustmentTypeCorrection AdjustmentType = "correction"
)

// IsValid checks if the adjustment type is known
func (t AdjustmentType) IsValid() bool {
	switch t {
	case AdjustmentTypeAddition, AdjustmentTypeRemoval, AdjustmentTypeCorrection:
		return true
	}
	return false
}

// AdjustmentRequest carries the inputs for recording a stock adjustment
type AdjustmentRequest struct {
	SubSessionID *uuid.UUID
	ProductID    uuid.UUID
	OldQuantity  decimal.Decimal
	NewQuantity  decimal.Decimal
	Type         AdjustmentType
	AdjustedByID uuid.UUID
	AdjustedBy   string
	Notes        string
}

// StockAdjustment is a manual correction to inventory recorded during a
// session. Immutable once created; always tied to exactly one session.
type StockAdjustment struct {
	shared.BaseEntity
	SessionID    uuid.UUID
	SubSessionID *uuid.UUID
	ProductID    uuid.UUID
	OldQuantity  decimal.Decimal
	NewQuantity  decimal.Decimal
	Type         AdjustmentType
	AdjustedByID uuid.UUID
	AdjustedBy   string
	Notes        string
}

func newStockAdjustment(sessionID uuid.UUID, req AdjustmentRequest) (*StockAdjustment, error) {
	if req.ProductID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if !req.Type.IsValid() {
		return nil, shared.NewDomainError("INVALID_ADJUSTMENT_TYPE", "Adjustment type must be addition, removal or correction")
	}
	if req.AdjustedByID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ADJUSTER", "Adjusted-by user ID cannot be empty")
	}
	if strings.TrimSpace(req.Notes) == "" {
		return nil, shared.NewDomainError("NOTES_REQUIRED", "Adjustment notes are required")
	}

	return &StockAdjustment{
		BaseEntity:   shared.NewBaseEntity(),
		SessionID:    sessionID,
		SubSessionID: req.SubSessionID,
		ProductID:    req.ProductID,
		OldQuantity:  req.OldQuantity,
		NewQuantity:  req.NewQuantity,
		Type:         req.Type,
		AdjustedByID: req.AdjustedByID,
		AdjustedBy:   req.AdjustedBy,
		Notes:        req.Notes,
	}, nil
}

// QuantityDelta returns new minus old quantity
func (a *StockAdjustment) QuantityDelta() decimal.Decimal {
	return a.NewQuantity.Sub(a.OldQuantity)
}
