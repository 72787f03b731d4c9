package trading

import (
	"time"

	"github.com/dukahub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SubSessionStatus represents the status of a sub-session
type SubSessionStatus string

const (
	SubSessionStatusActive SubSessionStatus = "ACTIVE"
	SubSessionStatusClosed SubSessionStatus = "CLOSED"
)

// SubSession is a shift segment nested inside a stock session, e.g. one
// cashier's shift between handoffs. Many sub-sessions can exist per session;
// they only attach while the parent is open.
type SubSession struct {
	shared.BaseEntity
	SessionID     uuid.UUID
	Status        SubSessionStatus
	OpenedAt      time.Time
	ClosedAt      *time.Time
	OpenedByID    uuid.UUID
	OpenedByName  string
	StockSnapshot StockSnapshot
}

func newSubSession(sessionID, openedByID uuid.UUID, openedByName string, snapshot StockSnapshot) *SubSession {
	now := time.Now()
	return &SubSession{
		BaseEntity:    shared.NewBaseEntity(),
		SessionID:     sessionID,
		Status:        SubSessionStatusActive,
		OpenedAt:      now,
		OpenedByID:    openedByID,
		OpenedByName:  openedByName,
		StockSnapshot: snapshot,
	}
}

// IsActive returns true while the shift is running
func (ss *SubSession) IsActive() bool {
	return ss.Status == SubSessionStatusActive
}

func (ss *SubSession) close() error {
	if !ss.IsActive() {
		return shared.ErrInvalidState
	}
	now := time.Now()
	ss.Status = SubSessionStatusClosed
	ss.ClosedAt = &now
	ss.UpdatedAt = now
	return nil
}
