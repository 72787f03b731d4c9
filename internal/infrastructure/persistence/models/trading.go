package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dukahub/backend/internal/domain/trading"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SnapshotJSON stores a stock snapshot as a JSON column
type SnapshotJSON []trading.SnapshotLine

// Value implements driver.Valuer
func (s SnapshotJSON) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (s *SnapshotJSON) Scan(value any) error {
	if value == nil {
		*s = nil
		return nil
	}
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("unsupported snapshot column type %T", value)
	}
	if len(b) == 0 {
		*s = nil
		return nil
	}
	return json.Unmarshal(b, s)
}

// StockSessionModel is the persistence model for the StockSession aggregate
type StockSessionModel struct {
	TenantAggregateModel
	// The (tenant_id, trading_date) pair is unique; the index is created by
	// the migrations
	TradingDate       time.Time                  `gorm:"type:date;not null;index"`
	Status            trading.StockSessionStatus `gorm:"type:varchar(20);not null;index"`
	OpenedAt          time.Time                  `gorm:"not null"`
	ClosedAt          *time.Time
	OpenedByID        uuid.UUID       `gorm:"type:uuid;not null"`
	OpenedByName      string          `gorm:"type:varchar(200)"`
	OpeningSnapshot   SnapshotJSON    `gorm:"type:jsonb"`
	ClosingSnapshot   SnapshotJSON    `gorm:"type:jsonb"`
	OpeningStockValue decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	ClosingStockValue decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TotalRevenue      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TotalReceipts     int             `gorm:"not null;default:0"`

	SubSessions []SubSessionModel      `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
	Adjustments []StockAdjustmentModel `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (StockSessionModel) TableName() string {
	return "stock_sessions"
}

// ToDomain converts the persistence model to a domain StockSession aggregate
func (m *StockSessionModel) ToDomain() *trading.StockSession {
	session := &trading.StockSession{
		TradingDate:       m.TradingDate,
		Status:            m.Status,
		OpenedAt:          m.OpenedAt,
		ClosedAt:          m.ClosedAt,
		OpenedByID:        m.OpenedByID,
		OpenedByName:      m.OpenedByName,
		OpeningSnapshot:   trading.StockSnapshot(m.OpeningSnapshot),
		ClosingSnapshot:   trading.StockSnapshot(m.ClosingSnapshot),
		OpeningStockValue: m.OpeningStockValue,
		ClosingStockValue: m.ClosingStockValue,
		TotalRevenue:      m.TotalRevenue,
		TotalReceipts:     m.TotalReceipts,
	}
	m.PopulateTenantAggregateRoot(&session.TenantAggregateRoot)

	session.SubSessions = make([]trading.SubSession, len(m.SubSessions))
	for i := range m.SubSessions {
		session.SubSessions[i] = *m.SubSessions[i].ToDomain()
	}
	session.Adjustments = make([]trading.StockAdjustment, len(m.Adjustments))
	for i := range m.Adjustments {
		session.Adjustments[i] = *m.Adjustments[i].ToDomain()
	}
	return session
}

// FromDomain populates the persistence model from a domain StockSession
func (m *StockSessionModel) FromDomain(s *trading.StockSession) {
	m.FromDomainTenantAggregateRoot(s.TenantAggregateRoot)
	m.TradingDate = s.TradingDate
	m.Status = s.Status
	m.OpenedAt = s.OpenedAt
	m.ClosedAt = s.ClosedAt
	m.OpenedByID = s.OpenedByID
	m.OpenedByName = s.OpenedByName
	m.OpeningSnapshot = SnapshotJSON(s.OpeningSnapshot)
	m.ClosingSnapshot = SnapshotJSON(s.ClosingSnapshot)
	m.OpeningStockValue = s.OpeningStockValue
	m.ClosingStockValue = s.ClosingStockValue
	m.TotalRevenue = s.TotalRevenue
	m.TotalReceipts = s.TotalReceipts

	m.SubSessions = make([]SubSessionModel, len(s.SubSessions))
	for i := range s.SubSessions {
		m.SubSessions[i].FromDomain(&s.SubSessions[i])
	}
	m.Adjustments = make([]StockAdjustmentModel, len(s.Adjustments))
	for i := range s.Adjustments {
		m.Adjustments[i].FromDomain(&s.Adjustments[i])
	}
}

// StockSessionModelFromDomain creates a new persistence model from a domain StockSession
func StockSessionModelFromDomain(s *trading.StockSession) *StockSessionModel {
	m := &StockSessionModel{}
	m.FromDomain(s)
	return m
}

// SubSessionModel is the persistence model for the SubSession entity
type SubSessionModel struct {
	BaseModel
	SessionID     uuid.UUID                `gorm:"type:uuid;not null;index"`
	Status        trading.SubSessionStatus `gorm:"type:varchar(20);not null"`
	OpenedAt      time.Time                `gorm:"not null"`
	ClosedAt      *time.Time
	OpenedByID    uuid.UUID    `gorm:"type:uuid;not null"`
	OpenedByName  string       `gorm:"type:varchar(200)"`
	StockSnapshot SnapshotJSON `gorm:"type:jsonb"`
}

// TableName returns the table name for GORM
func (SubSessionModel) TableName() string {
	return "sub_sessions"
}

// ToDomain converts the persistence model to a domain SubSession
func (m *SubSessionModel) ToDomain() *trading.SubSession {
	return &trading.SubSession{
		BaseEntity:    m.BaseModel.ToDomain(),
		SessionID:     m.SessionID,
		Status:        m.Status,
		OpenedAt:      m.OpenedAt,
		ClosedAt:      m.ClosedAt,
		OpenedByID:    m.OpenedByID,
		OpenedByName:  m.OpenedByName,
		StockSnapshot: trading.StockSnapshot(m.StockSnapshot),
	}
}

// FromDomain populates the persistence model from a domain SubSession
func (m *SubSessionModel) FromDomain(ss *trading.SubSession) {
	m.FromDomainBaseEntity(ss.BaseEntity)
	m.SessionID = ss.SessionID
	m.Status = ss.Status
	m.OpenedAt = ss.OpenedAt
	m.ClosedAt = ss.ClosedAt
	m.OpenedByID = ss.OpenedByID
	m.OpenedByName = ss.OpenedByName
	m.StockSnapshot = SnapshotJSON(ss.StockSnapshot)
}

// StockAdjustmentModel is the persistence model for the StockAdjustment entity
type StockAdjustmentModel struct {
	BaseModel
	SessionID    uuid.UUID              `gorm:"type:uuid;not null;index"`
	SubSessionID *uuid.UUID             `gorm:"type:uuid;index"`
	ProductID    uuid.UUID              `gorm:"type:uuid;not null;index"`
	OldQuantity  decimal.Decimal        `gorm:"type:decimal(18,3);not null;default:0"`
	NewQuantity  decimal.Decimal        `gorm:"type:decimal(18,3);not null;default:0"`
	Type         trading.AdjustmentType `gorm:"type:varchar(20);not null"`
	AdjustedByID uuid.UUID              `gorm:"type:uuid;not null"`
	AdjustedBy   string                 `gorm:"type:varchar(200)"`
	Notes        string                 `gorm:"type:text;not null"`
}

// TableName returns the table name for GORM
func (StockAdjustmentModel) TableName() string {
	return "stock_adjustments"
}

// ToDomain converts the persistence model to a domain StockAdjustment
func (m *StockAdjustmentModel) ToDomain() *trading.StockAdjustment {
	return &trading.StockAdjustment{
		BaseEntity:   m.BaseModel.ToDomain(),
		SessionID:    m.SessionID,
		SubSessionID: m.SubSessionID,
		ProductID:    m.ProductID,
		OldQuantity:  m.OldQuantity,
		NewQuantity:  m.NewQuantity,
		Type:         m.Type,
		AdjustedByID: m.AdjustedByID,
		AdjustedBy:   m.AdjustedBy,
		Notes:        m.Notes,
	}
}

// FromDomain populates the persistence model from a domain StockAdjustment
func (m *StockAdjustmentModel) FromDomain(a *trading.StockAdjustment) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.SessionID = a.SessionID
	m.SubSessionID = a.SubSessionID
	m.ProductID = a.ProductID
	m.OldQuantity = a.OldQuantity
	m.NewQuantity = a.NewQuantity
	m.Type = a.Type
	m.AdjustedByID = a.AdjustedByID
	m.AdjustedBy = a.AdjustedBy
	m.Notes = a.Notes
}

// DailySummaryModel is the persistence model for the DailySummary aggregate
type DailySummaryModel struct {
	TenantAggregateModel
	SessionID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	TradingDate       time.Time       `gorm:"type:date;not null;index"`
	OpeningStockValue decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	ClosingStockValue decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TotalRevenue      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TotalReceipts     int             `gorm:"not null;default:0"`
	ValueOfGoodsSold  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Variance          decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	PDFPath           string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (DailySummaryModel) TableName() string {
	return "daily_summaries"
}

// ToDomain converts the persistence model to a domain DailySummary
func (m *DailySummaryModel) ToDomain() *trading.DailySummary {
	summary := &trading.DailySummary{
		SessionID:         m.SessionID,
		TradingDate:       m.TradingDate,
		OpeningStockValue: m.OpeningStockValue,
		ClosingStockValue: m.ClosingStockValue,
		TotalRevenue:      m.TotalRevenue,
		TotalReceipts:     m.TotalReceipts,
		ValueOfGoodsSold:  m.ValueOfGoodsSold,
		Variance:          m.Variance,
		PDFPath:           m.PDFPath,
	}
	m.PopulateTenantAggregateRoot(&summary.TenantAggregateRoot)
	return summary
}

// FromDomain populates the persistence model from a domain DailySummary
func (m *DailySummaryModel) FromDomain(d *trading.DailySummary) {
	m.FromDomainTenantAggregateRoot(d.TenantAggregateRoot)
	m.SessionID = d.SessionID
	m.TradingDate = d.TradingDate
	m.OpeningStockValue = d.OpeningStockValue
	m.ClosingStockValue = d.ClosingStockValue
	m.TotalRevenue = d.TotalRevenue
	m.TotalReceipts = d.TotalReceipts
	m.ValueOfGoodsSold = d.ValueOfGoodsSold
	m.Variance = d.Variance
	m.PDFPath = d.PDFPath
}

// DailySummaryModelFromDomain creates a new persistence model from a domain DailySummary
func DailySummaryModelFromDomain(d *trading.DailySummary) *DailySummaryModel {
	m := &DailySummaryModel{}
	m.FromDomain(d)
	return m
}
