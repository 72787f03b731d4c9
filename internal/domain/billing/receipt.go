package billing

import (
	"time"

	"github.com/dukahub/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceiptStatus represents the status of a receipt
type ReceiptStatus string

const (
	ReceiptStatusActive    ReceiptStatus = "active"
	ReceiptStatusVoided    ReceiptStatus = "voided"
	ReceiptStatusCancelled ReceiptStatus = "cancelled"
)

// IsHonored returns true for receipts that count toward fiscal reporting.
// Voided and cancelled receipts are excluded as a hard filter: the tax
// authority must only see honored transactions.
func (s ReceiptStatus) IsHonored() bool {
	return s == ReceiptStatusActive
}

// ReceiptItem is one line on a receipt
type ReceiptItem struct {
	shared.BaseEntity
	ReceiptID   uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
}

// Receipt is a financial document issued at the point of sale. Only the
// fields the fiscal pipeline reads live here; generic order/checkout flow is
// handled elsewhere.
type Receipt struct {
	shared.TenantAggregateRoot
	ReceiptNumber string
	FiscalNumber  string // Externally assigned receipt verification number, if any
	SessionID     *uuid.UUID
	IssueDate     time.Time
	Status        ReceiptStatus
	CustomerName  string
	PaymentMethod string
	Subtotal      decimal.Decimal
	TaxAmount     decimal.Decimal
	TotalAmount   decimal.Decimal
	Items         []ReceiptItem
}

// Void marks the receipt as voided with immediate effect on aggregation
func (r *Receipt) Void() error {
	if r.Status != ReceiptStatusActive {
		return shared.ErrInvalidState
	}
	r.Status = ReceiptStatusVoided
	r.UpdatedAt = time.Now()
	return nil
}

// CustomerLabel returns the customer name, defaulting to the walk-in label
// used on printed fiscal reports
func (r *Receipt) CustomerLabel() string {
	if r.CustomerName == "" {
		return "Walk-in Customer"
	}
	return r.CustomerName
}
