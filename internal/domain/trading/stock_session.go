package trading

import (
	"time"

	"github.com/dukahub/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockSessionStatus represents the status of a stock session
type StockSessionStatus string

const (
	StockSessionStatusOpen   StockSessionStatus = "OPEN"
	StockSessionStatusClosed StockSessionStatus = "CLOSED"
)

// IsValid checks if the status is a valid StockSessionStatus
func (s StockSessionStatus) IsValid() bool {
	return s == StockSessionStatusOpen || s == StockSessionStatusClosed
}

// String returns the string representation of StockSessionStatus
func (s StockSessionStatus) String() string {
	return string(s)
}

// StockSession represents one tenant's trading day, bounded by an opening and
// a closing stock snapshot. It is the aggregate root for the daily lifecycle:
// sub-sessions and adjustments attach to it, and closing it is the single
// transition that makes the day immutable for reporting.
type StockSession struct {
	shared.TenantAggregateRoot
	TradingDate       time.Time // Date-only; unique per tenant
	Status            StockSessionStatus
	OpenedAt          time.Time
	ClosedAt          *time.Time
	OpenedByID        uuid.UUID
	OpenedByName      string
	OpeningSnapshot   StockSnapshot
	ClosingSnapshot   StockSnapshot
	OpeningStockValue decimal.Decimal
	ClosingStockValue decimal.Decimal
	TotalRevenue      decimal.Decimal
	TotalReceipts     int
	SubSessions       []SubSession
	Adjustments       []StockAdjustment
}

// NewStockSession opens a session for the given trading day with the opening
// snapshot already captured. Uniqueness per (tenant, date) is enforced by the
// repository; the constructor only normalizes and validates its inputs.
func NewStockSession(tenantID uuid.UUID, tradingDate time.Time, openedByID uuid.UUID, openedByName string, opening StockSnapshot) (*StockSession, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if openedByID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OPENER", "Opened-by user ID cannot be empty")
	}

	now := time.Now()
	session := &StockSession{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		TradingDate:         canonicalDay(tradingDate),
		Status:              StockSessionStatusOpen,
		OpenedAt:            now,
		OpenedByID:          openedByID,
		OpenedByName:        openedByName,
		OpeningSnapshot:     opening,
		OpeningStockValue:   opening.Value(),
		TotalRevenue:        decimal.Zero,
	}

	session.AddDomainEvent(NewStockSessionOpenedEvent(session))

	return session, nil
}

// IsOpen returns true if the session can still accept sub-sessions and
// adjustments
func (s *StockSession) IsOpen() bool {
	return s.Status == StockSessionStatusOpen
}

// OpenSubSession starts a shift under this session
func (s *StockSession) OpenSubSession(openedByID uuid.UUID, openedByName string, snapshot StockSnapshot) (*SubSession, error) {
	if !s.IsOpen() {
		return nil, shared.ErrInvalidState
	}
	if openedByID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OPENER", "Opened-by user ID cannot be empty")
	}

	sub := newSubSession(s.ID, openedByID, openedByName, snapshot)
	s.SubSessions = append(s.SubSessions, *sub)
	s.UpdatedAt = time.Now()

	s.AddDomainEvent(NewSubSessionOpenedEvent(s, sub))

	return sub, nil
}

// CloseSubSession ends the shift with the given ID
func (s *StockSession) CloseSubSession(subSessionID uuid.UUID) (*SubSession, error) {
	if !s.IsOpen() {
		return nil, shared.ErrInvalidState
	}
	for i := range s.SubSessions {
		if s.SubSessions[i].ID == subSessionID {
			if err := s.SubSessions[i].close(); err != nil {
				return nil, err
			}
			s.UpdatedAt = time.Now()
			s.AddDomainEvent(NewSubSessionClosedEvent(s, &s.SubSessions[i]))
			return &s.SubSessions[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

// RecordAdjustment attaches a manual stock correction to the session.
// Rejected once the session is closed; the day is immutable from then on.
func (s *StockSession) RecordAdjustment(req AdjustmentRequest) (*StockAdjustment, error) {
	if !s.IsOpen() {
		return nil, shared.ErrSessionClosed
	}

	adj, err := newStockAdjustment(s.ID, req)
	if err != nil {
		return nil, err
	}

	s.Adjustments = append(s.Adjustments, *adj)
	s.UpdatedAt = time.Now()

	s.AddDomainEvent(NewStockAdjustmentRecordedEvent(s, adj))

	return adj, nil
}

// Close captures the closing snapshot, records the day's revenue, and marks
// the session CLOSED. Any sub-session still active is closed with the
// session. Calling Close on a closed session is an invalid state transition.
func (s *StockSession) Close(closing StockSnapshot, totalRevenue decimal.Decimal, totalReceipts int) error {
	if !s.IsOpen() {
		return shared.ErrInvalidState
	}

	now := time.Now()
	for i := range s.SubSessions {
		if s.SubSessions[i].Status == SubSessionStatusActive {
			_ = s.SubSessions[i].close()
		}
	}

	s.ClosingSnapshot = closing
	s.ClosingStockValue = closing.Value()
	s.TotalRevenue = totalRevenue
	s.TotalReceipts = totalReceipts
	s.Status = StockSessionStatusClosed
	s.ClosedAt = &now
	s.UpdatedAt = now

	s.AddDomainEvent(NewStockSessionClosedEvent(s))

	return nil
}

// Reconcile computes expected-vs-actual stock value for a closed session
func (s *StockSession) Reconcile(sold []SoldLine) (Reconciliation, error) {
	if s.IsOpen() {
		return Reconciliation{}, shared.ErrInvalidState
	}
	return Reconcile(s.OpeningStockValue, s.ClosingStockValue, sold), nil
}

func canonicalDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
