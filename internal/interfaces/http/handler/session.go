package handler

import (
	"context"
	"time"

	apptrading "github.com/dukahub/backend/internal/application/trading"
	"github.com/dukahub/backend/internal/domain/shared"
	"github.com/dukahub/backend/internal/domain/trading"
	"github.com/dukahub/backend/internal/interfaces/http/dto"
	"github.com/dukahub/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// dateLayout is the wire format for date-only values
const dateLayout = "2006-01-02"

// TradingService is the application surface the session endpoints depend on
type TradingService interface {
	OpenSession(ctx context.Context, tenantID uuid.UUID, req apptrading.OpenSessionRequest) (*apptrading.SessionResponse, error)
	CloseSession(ctx context.Context, tenantID, sessionID uuid.UUID) (*apptrading.SummaryResponse, error)
	OpenSubSession(ctx context.Context, tenantID, sessionID uuid.UUID, req apptrading.OpenSubSessionRequest) (*apptrading.SubSessionResponse, error)
	CloseSubSession(ctx context.Context, tenantID, sessionID, subSessionID uuid.UUID) (*apptrading.SubSessionResponse, error)
	RecordAdjustment(ctx context.Context, tenantID, sessionID uuid.UUID, req apptrading.RecordAdjustmentRequest) (*apptrading.SessionResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*apptrading.SessionResponse, error)
	GetOpen(ctx context.Context, tenantID uuid.UUID) (*apptrading.SessionResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]apptrading.SessionResponse, int64, error)
	GetSummary(ctx context.Context, tenantID, sessionID uuid.UUID) (*apptrading.SummaryResponse, error)
}

// SessionHandler exposes the trading day lifecycle over HTTP
type SessionHandler struct {
	BaseHandler
	service TradingService
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(service TradingService) *SessionHandler {
	return &SessionHandler{service: service}
}

// RegisterRoutes registers the trading session routes
func (h *SessionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sessions := rg.Group("/trading/sessions")
	sessions.Use(middleware.RequireTenant())

	sessions.POST("", h.Open)
	sessions.GET("", h.List)
	sessions.GET("/open", h.GetOpen)
	sessions.GET("/:id", h.Get)
	sessions.POST("/:id/close", h.Close)
	sessions.GET("/:id/summary", h.GetSummary)
	sessions.POST("/:id/sub-sessions", h.OpenSubSession)
	sessions.POST("/:id/sub-sessions/:subId/close", h.CloseSubSession)
	sessions.POST("/:id/adjustments", h.RecordAdjustment)
}

// OpenSessionRequest is the request body for opening a trading day
type OpenSessionRequest struct {
	TradingDate  string    `json:"trading_date"` // YYYY-MM-DD, defaults to today
	OpenedByID   uuid.UUID `json:"opened_by_id" binding:"required"`
	OpenedByName string    `json:"opened_by_name" binding:"required"`
}

// Open opens the trading day for the tenant
func (h *SessionHandler) Open(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}

	var req OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	appReq := apptrading.OpenSessionRequest{
		OpenedByID:   req.OpenedByID,
		OpenedByName: req.OpenedByName,
	}
	if req.TradingDate != "" {
		day, err := time.Parse(dateLayout, req.TradingDate)
		if err != nil {
			h.BadRequest(c, err)
			return
		}
		appReq.TradingDate = &day
	}

	session, err := h.service.OpenSession(c.Request.Context(), tenantID, appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, session)
}

// Close closes the trading day and returns the daily summary
func (h *SessionHandler) Close(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	sessionID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	summary, err := h.service.CloseSession(c.Request.Context(), tenantID, sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// OpenSubSessionRequest is the request body for starting a shift
type OpenSubSessionRequest struct {
	OpenedByID   uuid.UUID `json:"opened_by_id" binding:"required"`
	OpenedByName string    `json:"opened_by_name" binding:"required"`
}

// OpenSubSession starts a shift under an open session
func (h *SessionHandler) OpenSubSession(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	sessionID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req OpenSubSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	sub, err := h.service.OpenSubSession(c.Request.Context(), tenantID, sessionID, apptrading.OpenSubSessionRequest{
		OpenedByID:   req.OpenedByID,
		OpenedByName: req.OpenedByName,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, sub)
}

// CloseSubSession ends a shift
func (h *SessionHandler) CloseSubSession(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	sessionID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	subSessionID, ok := h.pathUUID(c, "subId")
	if !ok {
		return
	}

	sub, err := h.service.CloseSubSession(c.Request.Context(), tenantID, sessionID, subSessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sub)
}

// RecordAdjustmentRequest is the request body for a manual stock correction
type RecordAdjustmentRequest struct {
	SubSessionID *uuid.UUID      `json:"sub_session_id"`
	ProductID    uuid.UUID       `json:"product_id" binding:"required"`
	OldQuantity  decimal.Decimal `json:"old_quantity"`
	NewQuantity  decimal.Decimal `json:"new_quantity"`
	Type         string          `json:"type" binding:"required"`
	AdjustedByID uuid.UUID       `json:"adjusted_by_id" binding:"required"`
	AdjustedBy   string          `json:"adjusted_by" binding:"required"`
	Notes        string          `json:"notes" binding:"required"`
}

// RecordAdjustment attaches a manual stock correction to an open session
func (h *SessionHandler) RecordAdjustment(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	sessionID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req RecordAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	session, err := h.service.RecordAdjustment(c.Request.Context(), tenantID, sessionID, apptrading.RecordAdjustmentRequest{
		SubSessionID: req.SubSessionID,
		ProductID:    req.ProductID,
		OldQuantity:  req.OldQuantity,
		NewQuantity:  req.NewQuantity,
		Type:         trading.AdjustmentType(req.Type),
		AdjustedByID: req.AdjustedByID,
		AdjustedBy:   req.AdjustedBy,
		Notes:        req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, session)
}

// Get retrieves a session by ID
func (h *SessionHandler) Get(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	sessionID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	session, err := h.service.GetByID(c.Request.Context(), tenantID, sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, session)
}

// GetOpen retrieves the tenant's currently open session
func (h *SessionHandler) GetOpen(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}

	session, err := h.service.GetOpen(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, session)
}

// List retrieves a paginated list of sessions
func (h *SessionHandler) List(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}

	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err)
		return
	}
	filter := req.ToFilter()

	sessions, total, err := h.service.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, sessions, dto.NewMeta(filter.Page, filter.PageSize, total))
}

// GetSummary retrieves the daily summary for a closed session
func (h *SessionHandler) GetSummary(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	sessionID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	summary, err := h.service.GetSummary(c.Request.Context(), tenantID, sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}
