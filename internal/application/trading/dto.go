package trading

import (
	"time"

	"github.com/dukahub/backend/internal/domain/trading"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OpenSessionRequest carries the inputs for opening a trading day
type OpenSessionRequest struct {
	TradingDate  *time.Time
	OpenedByID   uuid.UUID
	OpenedByName string
}

// OpenSubSessionRequest carries the inputs for starting a shift
type OpenSubSessionRequest struct {
	OpenedByID   uuid.UUID
	OpenedByName string
}

// RecordAdjustmentRequest carries the inputs for a manual stock correction
type RecordAdjustmentRequest struct {
	SubSessionID *uuid.UUID
	ProductID    uuid.UUID
	OldQuantity  decimal.Decimal
	NewQuantity  decimal.Decimal
	Type         trading.AdjustmentType
	AdjustedByID uuid.UUID
	AdjustedBy   string
	Notes        string
}

// SnapshotLineResponse is one product position in a snapshot response
type SnapshotLineResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineValue   decimal.Decimal `json:"line_value"`
}

// SubSessionResponse is the API representation of a shift
type SubSessionResponse struct {
	ID           uuid.UUID  `json:"id"`
	SessionID    uuid.UUID  `json:"session_id"`
	Status       string     `json:"status"`
	OpenedAt     time.Time  `json:"opened_at"`
	ClosedAt     *time.Time `json:"closed_at,omitempty"`
	OpenedByID   uuid.UUID  `json:"opened_by_id"`
	OpenedByName string     `json:"opened_by_name"`
}

// SessionResponse is the API representation of a stock session
type SessionResponse struct {
	ID                uuid.UUID              `json:"id"`
	TenantID          uuid.UUID              `json:"tenant_id"`
	TradingDate       time.Time              `json:"trading_date"`
	Status            string                 `json:"status"`
	OpenedAt          time.Time              `json:"opened_at"`
	ClosedAt          *time.Time             `json:"closed_at,omitempty"`
	OpenedByName      string                 `json:"opened_by_name"`
	OpeningStockValue decimal.Decimal        `json:"opening_stock_value"`
	ClosingStockValue decimal.Decimal        `json:"closing_stock_value"`
	TotalRevenue      decimal.Decimal        `json:"total_revenue"`
	TotalReceipts     int                    `json:"total_receipts"`
	OpeningSnapshot   []SnapshotLineResponse `json:"opening_snapshot,omitempty"`
	ClosingSnapshot   []SnapshotLineResponse `json:"closing_snapshot,omitempty"`
	SubSessions       []SubSessionResponse   `json:"sub_sessions,omitempty"`
}

// SummaryResponse is the API representation of a daily summary
type SummaryResponse struct {
	SessionID         uuid.UUID       `json:"session_id"`
	TradingDate       time.Time       `json:"trading_date"`
	OpeningStockValue decimal.Decimal `json:"opening_stock_value"`
	ClosingStockValue decimal.Decimal `json:"closing_stock_value"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalReceipts     int             `json:"total_receipts"`
	ValueOfGoodsSold  decimal.Decimal `json:"value_of_goods_sold"`
	Variance          decimal.Decimal `json:"variance"`
	PDFPath           string          `json:"pdf_path,omitempty"`
}

// ToSnapshotLineResponses converts a snapshot to its API representation
func ToSnapshotLineResponses(snapshot trading.StockSnapshot) []SnapshotLineResponse {
	lines := make([]SnapshotLineResponse, len(snapshot))
	for i, l := range snapshot {
		lines[i] = SnapshotLineResponse{
			ProductID:   l.ProductID,
			ProductCode: l.ProductCode,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			LineValue:   l.LineValue(),
		}
	}
	return lines
}

// ToSubSessionResponse converts a sub-session to its API representation
func ToSubSessionResponse(ss *trading.SubSession) SubSessionResponse {
	return SubSessionResponse{
		ID:           ss.ID,
		SessionID:    ss.SessionID,
		Status:       string(ss.Status),
		OpenedAt:     ss.OpenedAt,
		ClosedAt:     ss.ClosedAt,
		OpenedByID:   ss.OpenedByID,
		OpenedByName: ss.OpenedByName,
	}
}

// ToSessionResponse converts a session to its API representation
func ToSessionResponse(s *trading.StockSession) SessionResponse {
	subs := make([]SubSessionResponse, len(s.SubSessions))
	for i := range s.SubSessions {
		subs[i] = ToSubSessionResponse(&s.SubSessions[i])
	}
	return SessionResponse{
		ID:                s.ID,
		TenantID:          s.TenantID,
		TradingDate:       s.TradingDate,
		Status:            string(s.Status),
		OpenedAt:          s.OpenedAt,
		ClosedAt:          s.ClosedAt,
		OpenedByName:      s.OpenedByName,
		OpeningStockValue: s.OpeningStockValue,
		ClosingStockValue: s.ClosingStockValue,
		TotalRevenue:      s.TotalRevenue,
		TotalReceipts:     s.TotalReceipts,
		OpeningSnapshot:   ToSnapshotLineResponses(s.OpeningSnapshot),
		ClosingSnapshot:   ToSnapshotLineResponses(s.ClosingSnapshot),
		SubSessions:       subs,
	}
}

// ToSummaryResponse converts a daily summary to its API representation
func ToSummaryResponse(d *trading.DailySummary) SummaryResponse {
	return SummaryResponse{
		SessionID:         d.SessionID,
		TradingDate:       d.TradingDate,
		OpeningStockValue: d.OpeningStockValue,
		ClosingStockValue: d.ClosingStockValue,
		TotalRevenue:      d.TotalRevenue,
		TotalReceipts:     d.TotalReceipts,
		ValueOfGoodsSold:  d.ValueOfGoodsSold,
		Variance:          d.Variance,
		PDFPath:           d.PDFPath,
	}
}
