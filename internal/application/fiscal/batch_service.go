package fiscal

import (
	"context"
	"fmt"
	"time"

	"github.com/dukahub/backend/internal/domain/identity"
)

// BatchService runs the Z-Report submission over every fiscally eligible
// tenant. One tenant's failure, or panic, never stops the rest of the batch.
type BatchService struct {
	tenantRepo identity.TenantRepository
	submitter  *SubmissionService
	clock      Clock
}

// NewBatchService creates a new BatchService. A nil clock falls back to the
// system clock.
func NewBatchService(tenantRepo identity.TenantRepository, submitter *SubmissionService, clock Clock) *BatchService {
	if clock == nil {
		clock = SystemClock()
	}
	return &BatchService{
		tenantRepo: tenantRepo,
		submitter:  submitter,
		clock:      clock,
	}
}

// SubmitForAllTenants submits the Z-Report for every active tenant with a
// verified fiscal integration, for the given day (yesterday when day is nil).
// Already-reported tenants appear in the result as skips. The batch stops
// early only when ctx is cancelled.
func (s *BatchService) SubmitForAllTenants(ctx context.Context, day *time.Time) (*BatchResult, error) {
	runDate := identity.CanonicalDay(s.clock.Now().AddDate(0, 0, -1))
	if day != nil {
		runDate = identity.CanonicalDay(*day)
	}

	tenants, err := s.tenantRepo.FindFiscalEligible(ctx)
	if err != nil {
		return nil, err
	}

	result := &BatchResult{
		RunDate:   runDate,
		StartedAt: s.clock.Now(),
	}

	for i := range tenants {
		if ctx.Err() != nil {
			result.Duration = s.clock.Now().Sub(result.StartedAt)
			return result, ctx.Err()
		}
		result.add(s.submitOne(ctx, &tenants[i], runDate))
	}

	result.Duration = s.clock.Now().Sub(result.StartedAt)
	return result, nil
}

// submitOne isolates a single tenant's submission, converting panics into
// failed results
func (s *BatchService) submitOne(ctx context.Context, tenant *identity.Tenant, day time.Time) (res SubmissionResult) {
	defer func() {
		if r := recover(); r != nil {
			res = SubmissionResult{
				TenantID:   tenant.ID,
				TenantCode: tenant.Code,
				ReportDate: day,
				Status:     SubmissionStatusFailed,
				Reason:     fmt.Sprintf("panic: %v", r),
			}
		}
	}()

	out, err := s.submitter.SubmitForTenant(ctx, tenant.ID, &day)
	if out != nil {
		if err != nil && out.Reason == "" {
			out.Reason = err.Error()
		}
		return *out
	}
	return SubmissionResult{
		TenantID:   tenant.ID,
		TenantCode: tenant.Code,
		ReportDate: day,
		Status:     SubmissionStatusFailed,
		Reason:     err.Error(),
	}
}
