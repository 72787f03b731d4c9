package fiscal

import (
	"context"
	"errors"
	"time"

	"github.com/dukahub/backend/internal/domain/fiscal"
	"github.com/dukahub/backend/internal/domain/identity"
	"github.com/dukahub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ErrLockHeld is returned by a TenantLocker when another submitter currently
// holds the tenant's lock
var ErrLockHeld = errors.New("fiscal: tenant submission lock held")

// TenantLocker serializes concurrent submissions for the same tenant across
// processes. It is an optional collaborator layered on top of the database
// claim, which remains the idempotency authority: when the locker is absent
// or unreachable, submission proceeds on the claim alone.
type TenantLocker interface {
	// Lock acquires the tenant's submission lock and returns a release
	// function. Returns ErrLockHeld when the lock is already taken.
	Lock(ctx context.Context, tenantID uuid.UUID) (func(), error)
}

// SubmissionService submits Z-Reports to the tax authority, exactly once per
// tenant and day
type SubmissionService struct {
	tenantRepo identity.TenantRepository
	aggregator *AggregationService
	gateway    fiscal.Gateway
	locker     TenantLocker
	eventBus   shared.EventBus
}

// NewSubmissionService creates a new SubmissionService. locker and eventBus
// may be nil.
func NewSubmissionService(
	tenantRepo identity.TenantRepository,
	aggregator *AggregationService,
	gateway fiscal.Gateway,
	locker TenantLocker,
	eventBus shared.EventBus,
) *SubmissionService {
	return &SubmissionService{
		tenantRepo: tenantRepo,
		aggregator: aggregator,
		gateway:    gateway,
		locker:     locker,
		eventBus:   eventBus,
	}
}

// SubmitForTenant runs the full submission pipeline for one tenant: resolve
// the report day (yesterday when day is nil), skip tenants that are inactive,
// unverified or already reported, claim the day, aggregate, submit, and
// record the authority's counter. A failed submission releases the claim so
// the next scheduled run retries; skips never return an error.
func (s *SubmissionService) SubmitForTenant(ctx context.Context, tenantID uuid.UUID, day *time.Time) (*SubmissionResult, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	reportDate := s.aggregator.DefaultReportDate()
	if day != nil {
		reportDate = identity.CanonicalDay(*day)
	}

	result := &SubmissionResult{
		TenantID:   tenant.ID,
		TenantCode: tenant.Code,
		ReportDate: reportDate,
	}

	if !tenant.IsActive() {
		result.Status = SubmissionStatusSkipped
		result.Reason = "tenant is not active"
		return result, nil
	}
	if !tenant.FiscalVerified() {
		result.Status = SubmissionStatusSkipped
		result.Reason = "fiscal integration not verified"
		return result, nil
	}
	if tenant.HasReportedFor(reportDate) {
		result.Status = SubmissionStatusSkipped
		result.Reason = "z-report already submitted for this day"
		return result, nil
	}

	if s.locker != nil {
		release, err := s.locker.Lock(ctx, tenant.ID)
		switch {
		case err == nil:
			defer release()
		case errors.Is(err, ErrLockHeld):
			result.Status = SubmissionStatusSkipped
			result.Reason = "submission already in progress"
			return result, nil
		default:
			// Locker unreachable; the database claim below still guarantees
			// at-most-once
		}
	}

	prior := tenant.LastReportedOn()
	claimed, err := s.tenantRepo.ClaimZReportDate(ctx, tenant.ID, reportDate)
	if err != nil {
		result.Status = SubmissionStatusFailed
		result.Reason = err.Error()
		return result, err
	}
	if !claimed {
		result.Status = SubmissionStatusSkipped
		result.Reason = "z-report already submitted for this day"
		return result, nil
	}

	report, err := s.aggregator.BuildZReport(ctx, tenant.ID, reportDate)
	if err != nil {
		result.Status = SubmissionStatusFailed
		result.Reason = s.releaseClaim(ctx, tenant.ID, reportDate, prior, err)
		return result, err
	}

	result.TotalSales = report.TotalSales
	result.TotalTax = report.TotalTax
	result.TotalInvoices = report.TotalInvoices

	creds := fiscal.Credentials{TIN: tenant.Fiscal.TIN, VFDSerial: tenant.Fiscal.VFDSerial}
	ack, err := s.gateway.SubmitZReport(ctx, creds, report)
	if err != nil {
		result.Status = SubmissionStatusFailed
		result.Reason = s.releaseClaim(ctx, tenant.ID, reportDate, prior, err)
		return result, err
	}

	if err := s.tenantRepo.RecordZReportResult(ctx, tenant.ID, reportDate, ack.GlobalCounter); err != nil {
		// The authority accepted the report; the claim stays so the day is
		// not submitted twice
		result.Status = SubmissionStatusFailed
		result.Reason = err.Error()
		return result, err
	}

	tenant.RecordZReportSubmission(reportDate, ack.GlobalCounter)
	s.publishEvents(ctx, tenant)

	result.Status = SubmissionStatusSubmitted
	result.GlobalCounter = ack.GlobalCounter
	return result, nil
}

// releaseClaim rolls the day's claim back after a failed submission and
// returns the reason to report. When the rollback itself fails the claim
// stays on the failed day and later runs will skip it, so the rollback
// failure is folded into the reason for the operator to act on.
func (s *SubmissionService) releaseClaim(ctx context.Context, tenantID uuid.UUID, day time.Time, prior *time.Time, cause error) string {
	if err := s.tenantRepo.ReleaseZReportDate(ctx, tenantID, day, prior, cause.Error()); err != nil {
		return cause.Error() + "; claim release failed, day stays marked as submitted: " + err.Error()
	}
	return cause.Error()
}

func (s *SubmissionService) publishEvents(ctx context.Context, tenant *identity.Tenant) {
	if s.eventBus == nil {
		return
	}

	for _, event := range tenant.GetDomainEvents() {
		_ = s.eventBus.Publish(ctx, event)
	}
	tenant.ClearDomainEvents()
}
