package trading

import (
	"context"
	"time"

	"github.com/dukahub/backend/internal/domain/billing"
	"github.com/dukahub/backend/internal/domain/shared"
	"github.com/dukahub/backend/internal/domain/trading"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReportRenderer produces the printable daily summary artifact. It is an
// optional collaborator: when absent or failing, the close still succeeds and
// the summary is stored without a PDF path.
type ReportRenderer interface {
	RenderDailySummary(ctx context.Context, session *trading.StockSession, summary *trading.DailySummary) (string, error)
}

// SessionService provides application services for the daily trading
// lifecycle: opening and closing sessions, shifts, and stock adjustments
type SessionService struct {
	sessionRepo trading.StockSessionRepository
	summaryRepo trading.DailySummaryRepository
	snapshots   trading.StockSnapshotProvider
	receiptRepo billing.ReceiptRepository
	renderer    ReportRenderer
	eventBus    shared.EventBus
}

// NewSessionService creates a new SessionService. renderer and eventBus may
// be nil.
func NewSessionService(
	sessionRepo trading.StockSessionRepository,
	summaryRepo trading.DailySummaryRepository,
	snapshots trading.StockSnapshotProvider,
	receiptRepo billing.ReceiptRepository,
	renderer ReportRenderer,
	eventBus shared.EventBus,
) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		summaryRepo: summaryRepo,
		snapshots:   snapshots,
		receiptRepo: receiptRepo,
		renderer:    renderer,
		eventBus:    eventBus,
	}
}

// ===================== Query Methods =====================

// GetByID retrieves a session by ID
func (s *SessionService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*SessionResponse, error) {
	session, err := s.sessionRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	response := ToSessionResponse(session)
	return &response, nil
}

// GetOpen retrieves the currently open session for a tenant
func (s *SessionService) GetOpen(ctx context.Context, tenantID uuid.UUID) (*SessionResponse, error) {
	session, err := s.sessionRepo.FindOpen(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	response := ToSessionResponse(session)
	return &response, nil
}

// List retrieves a paginated list of sessions
func (s *SessionService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]SessionResponse, int64, error) {
	total, err := s.sessionRepo.Count(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}

	sessions, err := s.sessionRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]SessionResponse, len(sessions))
	for i := range sessions {
		responses[i] = ToSessionResponse(&sessions[i])
	}
	return responses, total, nil
}

// GetSummary retrieves the daily summary for a closed session
func (s *SessionService) GetSummary(ctx context.Context, tenantID, sessionID uuid.UUID) (*SummaryResponse, error) {
	summary, err := s.summaryRepo.FindBySessionID(ctx, tenantID, sessionID)
	if err != nil {
		return nil, err
	}

	response := ToSummaryResponse(summary)
	return &response, nil
}

// ===================== Command Methods =====================

// OpenSession opens the trading day, capturing the opening stock snapshot.
// The trading date defaults to today; at most one session may exist per
// tenant and day, which the repository enforces on save.
func (s *SessionService) OpenSession(ctx context.Context, tenantID uuid.UUID, req OpenSessionRequest) (*SessionResponse, error) {
	if open, err := s.sessionRepo.FindOpen(ctx, tenantID); err == nil && open != nil {
		return nil, shared.ErrSessionConflict
	}

	tradingDate := time.Now()
	if req.TradingDate != nil {
		tradingDate = *req.TradingDate
	}

	snapshot, err := s.snapshots.CurrentSnapshot(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	session, err := trading.NewStockSession(tenantID, tradingDate, req.OpenedByID, req.OpenedByName, snapshot)
	if err != nil {
		return nil, err
	}

	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, session)

	response := ToSessionResponse(session)
	return &response, nil
}

// OpenSubSession starts a shift under an open session
func (s *SessionService) OpenSubSession(ctx context.Context, tenantID, sessionID uuid.UUID, req OpenSubSessionRequest) (*SubSessionResponse, error) {
	session, err := s.sessionRepo.FindByID(ctx, tenantID, sessionID)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.snapshots.CurrentSnapshot(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	sub, err := session.OpenSubSession(req.OpenedByID, req.OpenedByName, snapshot)
	if err != nil {
		return nil, err
	}

	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, session)

	response := ToSubSessionResponse(sub)
	return &response, nil
}

// CloseSubSession ends a shift
func (s *SessionService) CloseSubSession(ctx context.Context, tenantID, sessionID, subSessionID uuid.UUID) (*SubSessionResponse, error) {
	session, err := s.sessionRepo.FindByID(ctx, tenantID, sessionID)
	if err != nil {
		return nil, err
	}

	sub, err := session.CloseSubSession(subSessionID)
	if err != nil {
		return nil, err
	}

	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, session)

	response := ToSubSessionResponse(sub)
	return &response, nil
}

// RecordAdjustment attaches a manual stock correction to an open session
func (s *SessionService) RecordAdjustment(ctx context.Context, tenantID, sessionID uuid.UUID, req RecordAdjustmentRequest) (*SessionResponse, error) {
	session, err := s.sessionRepo.FindByID(ctx, tenantID, sessionID)
	if err != nil {
		return nil, err
	}

	_, err = session.RecordAdjustment(trading.AdjustmentRequest{
		SubSessionID: req.SubSessionID,
		ProductID:    req.ProductID,
		OldQuantity:  req.OldQuantity,
		NewQuantity:  req.NewQuantity,
		Type:         req.Type,
		AdjustedByID: req.AdjustedByID,
		AdjustedBy:   req.AdjustedBy,
		Notes:        req.Notes,
	})
	if err != nil {
		return nil, err
	}

	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, session)

	response := ToSessionResponse(session)
	return &response, nil
}

// CloseSession closes the trading day: captures the closing snapshot, totals
// the day's honored receipts, reconciles expected against counted stock value
// and stores the daily summary. Closing is terminal; a second close returns
// an invalid state error.
func (s *SessionService) CloseSession(ctx context.Context, tenantID, sessionID uuid.UUID) (*SummaryResponse, error) {
	session, err := s.sessionRepo.FindByID(ctx, tenantID, sessionID)
	if err != nil {
		return nil, err
	}

	closing, err := s.snapshots.CurrentSnapshot(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	revenue, receiptCount, sold, err := s.daySales(ctx, tenantID, session.TradingDate)
	if err != nil {
		return nil, err
	}

	if err := session.Close(closing, revenue, receiptCount); err != nil {
		return nil, err
	}

	rec, err := session.Reconcile(sold)
	if err != nil {
		return nil, err
	}

	summary, err := trading.NewDailySummary(session, rec)
	if err != nil {
		return nil, err
	}

	// PDF rendering is best effort; the close must not fail on it
	if s.renderer != nil {
		if path, err := s.renderer.RenderDailySummary(ctx, session, summary); err == nil {
			summary.AttachPDF(path)
		}
	}

	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}
	if err := s.summaryRepo.Save(ctx, summary); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, session)

	response := ToSummaryResponse(summary)
	return &response, nil
}

// daySales totals the honored receipts issued on the trading day and maps
// their items to sold lines for reconciliation
func (s *SessionService) daySales(ctx context.Context, tenantID uuid.UUID, tradingDate time.Time) (revenue decimal.Decimal, count int, sold []trading.SoldLine, err error) {
	from := tradingDate
	to := from.AddDate(0, 0, 1).Add(-time.Nanosecond)

	receipts, err := s.receiptRepo.FindActiveByIssueDateRange(ctx, tenantID, from, to)
	if err != nil {
		return decimal.Zero, 0, nil, err
	}

	revenue = decimal.Zero
	for i := range receipts {
		revenue = revenue.Add(receipts[i].TotalAmount)
		for _, item := range receipts[i].Items {
			sold = append(sold, trading.SoldLine{
				ProductID:    item.ProductID,
				QuantitySold: item.Quantity,
				UnitPrice:    item.UnitPrice,
			})
		}
	}
	return revenue, len(receipts), sold, nil
}

func (s *SessionService) publishEvents(ctx context.Context, session *trading.StockSession) {
	if s.eventBus == nil {
		return
	}

	for _, event := range session.GetDomainEvents() {
		_ = s.eventBus.Publish(ctx, event)
	}
	session.ClearDomainEvents()
}
