package handler

import (
	"context"
	"net/http"
	"time"

	appfiscal "github.com/dukahub/backend/internal/application/fiscal"
	"github.com/dukahub/backend/internal/domain/fiscal"
	"github.com/dukahub/backend/internal/interfaces/http/dto"
	"github.com/dukahub/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BatchSubmitter runs the Z-Report batch across all tenants
type BatchSubmitter interface {
	SubmitForAllTenants(ctx context.Context, day *time.Time) (*appfiscal.BatchResult, error)
}

// TenantSubmitter submits the Z-Report for a single tenant
type TenantSubmitter interface {
	SubmitForTenant(ctx context.Context, tenantID uuid.UUID, day *time.Time) (*appfiscal.SubmissionResult, error)
}

// ReportBuilder aggregates a tenant's receipts into a Z-Report without
// submitting it
type ReportBuilder interface {
	DefaultReportDate() time.Time
	BuildZReport(ctx context.Context, tenantID uuid.UUID, day time.Time) (*fiscal.ZReport, error)
}

// SchedulerControl exposes the cron scheduler's status and manual trigger.
// Nil when the scheduler is disabled.
type SchedulerControl interface {
	TriggerManualRun(ctx context.Context) error
	GetStatus() map[string]any
}

// FiscalHandler exposes Z-Report submission and the batch scheduler over HTTP
type FiscalHandler struct {
	BaseHandler
	batch      BatchSubmitter
	submitter  TenantSubmitter
	aggregator ReportBuilder
	scheduler  SchedulerControl
}

// NewFiscalHandler creates a new FiscalHandler. scheduler may be nil.
func NewFiscalHandler(batch BatchSubmitter, submitter TenantSubmitter, aggregator ReportBuilder, scheduler SchedulerControl) *FiscalHandler {
	return &FiscalHandler{
		batch:      batch,
		submitter:  submitter,
		aggregator: aggregator,
		scheduler:  scheduler,
	}
}

// RegisterRoutes registers the fiscal routes
func (h *FiscalHandler) RegisterRoutes(rg *gin.RouterGroup) {
	zreports := rg.Group("/fiscal/zreports")
	zreports.POST("/run", h.RunBatch)
	zreports.POST("/tenants/:id", h.SubmitForTenant)
	zreports.GET("/preview", middleware.RequireTenant(), h.Preview)

	scheduler := rg.Group("/fiscal/scheduler")
	scheduler.GET("/status", h.SchedulerStatus)
	scheduler.POST("/run", h.TriggerScheduler)
}

// RunBatchRequest optionally overrides the report day for a manual batch run
type RunBatchRequest struct {
	Date string `json:"date"` // YYYY-MM-DD, defaults to yesterday
}

// parseOptionalDate parses the optional YYYY-MM-DD body date, writing a 400
// on malformed input
func (h *FiscalHandler) parseOptionalDate(c *gin.Context, raw string) (*time.Time, bool) {
	if raw == "" {
		return nil, true
	}
	day, err := time.Parse(dateLayout, raw)
	if err != nil {
		h.BadRequest(c, err)
		return nil, false
	}
	return &day, true
}

// RunBatch runs the Z-Report submission batch for every active tenant
func (h *FiscalHandler) RunBatch(c *gin.Context) {
	var req RunBatchRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, err)
			return
		}
	}
	day, ok := h.parseOptionalDate(c, req.Date)
	if !ok {
		return
	}

	result, err := h.batch.SubmitForAllTenants(c.Request.Context(), day)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// SubmitForTenant submits the Z-Report for one tenant. Skips are reported
// in the result body, not as errors.
func (h *FiscalHandler) SubmitForTenant(c *gin.Context) {
	tenantID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req RunBatchRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, err)
			return
		}
	}
	day, ok := h.parseOptionalDate(c, req.Date)
	if !ok {
		return
	}

	result, err := h.submitter.SubmitForTenant(c.Request.Context(), tenantID, day)
	if err != nil && result == nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Preview aggregates the tenant's Z-Report for a day without submitting it
func (h *FiscalHandler) Preview(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}

	day := h.aggregator.DefaultReportDate()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			h.BadRequest(c, err)
			return
		}
		day = parsed
	}

	report, err := h.aggregator.BuildZReport(c.Request.Context(), tenantID, day)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// SchedulerStatus reports the cron scheduler's state
func (h *FiscalHandler) SchedulerStatus(c *gin.Context) {
	if h.scheduler == nil {
		h.Success(c, gin.H{"enabled": false})
		return
	}
	h.Success(c, h.scheduler.GetStatus())
}

// TriggerScheduler starts a manual batch run through the scheduler
func (h *FiscalHandler) TriggerScheduler(c *gin.Context) {
	if h.scheduler == nil {
		c.JSON(http.StatusServiceUnavailable,
			dto.NewErrorResponseWithRequestID(dto.ErrCodeInvalidState, "scheduler is not enabled", h.requestID(c)))
		return
	}

	if err := h.scheduler.TriggerManualRun(c.Request.Context()); err != nil {
		c.JSON(http.StatusConflict,
			dto.NewErrorResponseWithRequestID(dto.ErrCodeConflict, err.Error(), h.requestID(c)))
		return
	}

	c.JSON(http.StatusAccepted, dto.NewSuccessResponse(gin.H{"status": "triggered"}))
}
