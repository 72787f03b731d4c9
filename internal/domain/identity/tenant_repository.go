package identity

import (
	"context"
	"time"

	"github.com/dukahub/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TenantRepository defines the interface for tenant persistence
type TenantRepository interface {
	// FindByID finds a tenant by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)

	// FindByCode finds a tenant by its unique code
	FindByCode(ctx context.Context, code string) (*Tenant, error)

	// FindAll finds all tenants matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Tenant, error)

	// FindActive finds all active tenants
	FindActive(ctx context.Context, filter shared.Filter) ([]Tenant, error)

	// FindFiscalEligible finds active tenants whose fiscal integration is
	// verified, i.e. the population of the daily Z-Report batch
	FindFiscalEligible(ctx context.Context) ([]Tenant, error)

	// Save creates or updates a tenant
	Save(ctx context.Context, tenant *Tenant) error

	// ClaimZReportDate atomically claims the given report day for the tenant.
	// The claim succeeds only if no submission for that day (or a later one)
	// has been recorded yet; it returns false when another submitter already
	// holds or completed the day. This is the single conditional write that
	// closes the check-then-act window between reading LastZReportDate and
	// persisting a submission.
	ClaimZReportDate(ctx context.Context, tenantID uuid.UUID, day time.Time) (bool, error)

	// ReleaseZReportDate releases a previously acquired claim after a failed
	// submission, restoring the pre-claim date (read by the caller before
	// claiming) so the next scheduled run can retry. The restore is guarded on
	// the claimed day still being held, and records the error text.
	ReleaseZReportDate(ctx context.Context, tenantID uuid.UUID, claimedDay time.Time, prior *time.Time, submissionErr string) error

	// RecordZReportResult persists the outcome of a successful submission
	// (global counter + last report date) for a claimed day
	RecordZReportResult(ctx context.Context, tenantID uuid.UUID, day time.Time, globalCounter int64) error

	// Delete deletes a tenant
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts tenants matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByCode checks if a tenant with the given code exists
	ExistsByCode(ctx context.Context, code string) (bool, error)
}
