package trading

import (
	"time"

	"github.com/dukahub/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant for StockSession
const AggregateTypeStockSession = "StockSession"

// StockSession event type constants
const (
	EventTypeStockSessionOpened      = "StockSessionOpened"
	EventTypeStockSessionClosed      = "StockSessionClosed"
	EventTypeSubSessionOpened        = "SubSessionOpened"
	EventTypeSubSessionClosed        = "SubSessionClosed"
	EventTypeStockAdjustmentRecorded = "StockAdjustmentRecorded"
)

// StockSessionOpenedEvent is raised when a trading day is opened
type StockSessionOpenedEvent struct {
	shared.BaseDomainEvent
	SessionID         uuid.UUID       `json:"session_id"`
	TradingDate       time.Time       `json:"trading_date"`
	OpeningStockValue decimal.Decimal `json:"opening_stock_value"`
	OpenedByID        uuid.UUID       `json:"opened_by_id"`
}

// NewStockSessionOpenedEvent creates a new StockSessionOpenedEvent
func NewStockSessionOpenedEvent(s *StockSession) *StockSessionOpenedEvent {
	return &StockSessionOpenedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeStockSessionOpened, AggregateTypeStockSession, s.ID, s.TenantID),
		SessionID:         s.ID,
		TradingDate:       s.TradingDate,
		OpeningStockValue: s.OpeningStockValue,
		OpenedByID:        s.OpenedByID,
	}
}

// EventType returns the event type name
func (e *StockSessionOpenedEvent) EventType() string {
	return EventTypeStockSessionOpened
}

// StockSessionClosedEvent is raised when a trading day is closed
type StockSessionClosedEvent struct {
	shared.BaseDomainEvent
	SessionID         uuid.UUID       `json:"session_id"`
	TradingDate       time.Time       `json:"trading_date"`
	ClosingStockValue decimal.Decimal `json:"closing_stock_value"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalReceipts     int             `json:"total_receipts"`
}

// NewStockSessionClosedEvent creates a new StockSessionClosedEvent
func NewStockSessionClosedEvent(s *StockSession) *StockSessionClosedEvent {
	return &StockSessionClosedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeStockSessionClosed, AggregateTypeStockSession, s.ID, s.TenantID),
		SessionID:         s.ID,
		TradingDate:       s.TradingDate,
		ClosingStockValue: s.ClosingStockValue,
		TotalRevenue:      s.TotalRevenue,
		TotalReceipts:     s.TotalReceipts,
	}
}

// EventType returns the event type name
func (e *StockSessionClosedEvent) EventType() string {
	return EventTypeStockSessionClosed
}

// SubSessionOpenedEvent is raised when a shift starts under a session
type SubSessionOpenedEvent struct {
	shared.BaseDomainEvent
	SessionID    uuid.UUID `json:"session_id"`
	SubSessionID uuid.UUID `json:"sub_session_id"`
	OpenedByID   uuid.UUID `json:"opened_by_id"`
}

// NewSubSessionOpenedEvent creates a new SubSessionOpenedEvent
func NewSubSessionOpenedEvent(s *StockSession, sub *SubSession) *SubSessionOpenedEvent {
	return &SubSessionOpenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSubSessionOpened, AggregateTypeStockSession, s.ID, s.TenantID),
		SessionID:       s.ID,
		SubSessionID:    sub.ID,
		OpenedByID:      sub.OpenedByID,
	}
}

// EventType returns the event type name
func (e *SubSessionOpenedEvent) EventType() string {
	return EventTypeSubSessionOpened
}

// SubSessionClosedEvent is raised when a shift ends
type SubSessionClosedEvent struct {
	shared.BaseDomainEvent
	SessionID    uuid.UUID `json:"session_id"`
	SubSessionID uuid.UUID `json:"sub_session_id"`
}

// NewSubSessionClosedEvent creates a new SubSessionClosedEvent
func NewSubSessionClosedEvent(s *StockSession, sub *SubSession) *SubSessionClosedEvent {
	return &SubSessionClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSubSessionClosed, AggregateTypeStockSession, s.ID, s.TenantID),
		SessionID:       s.ID,
		SubSessionID:    sub.ID,
	}
}

// EventType returns the event type name
func (e *SubSessionClosedEvent) EventType() string {
	return EventTypeSubSessionClosed
}

// StockAdjustmentRecordedEvent is raised when a manual correction is recorded
type StockAdjustmentRecordedEvent struct {
	shared.BaseDomainEvent
	SessionID    uuid.UUID       `json:"session_id"`
	AdjustmentID uuid.UUID       `json:"adjustment_id"`
	ProductID    uuid.UUID       `json:"product_id"`
	Delta        decimal.Decimal `json:"delta"`
	Type         AdjustmentType  `json:"type"`
}

// NewStockAdjustmentRecordedEvent creates a new StockAdjustmentRecordedEvent
func NewStockAdjustmentRecordedEvent(s *StockSession, a *StockAdjustment) *StockAdjustmentRecordedEvent {
	return &StockAdjustmentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjustmentRecorded, AggregateTypeStockSession, s.ID, s.TenantID),
		SessionID:       s.ID,
		AdjustmentID:    a.ID,
		ProductID:       a.ProductID,
		Delta:           a.QuantityDelta(),
		Type:            a.Type,
	}
}

// EventType returns the event type name
func (e *StockAdjustmentRecordedEvent) EventType() string {
	return EventTypeStockAdjustmentRecorded
}
