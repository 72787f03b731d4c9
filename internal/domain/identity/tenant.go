package identity

import (
	"strings"
	"time"

	"github.com/dukahub/backend/internal/domain/shared"
)

// TenantStatus represents the status of a tenant
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusInactive  TenantStatus = "inactive"
	TenantStatusSuspended TenantStatus = "suspended" // Suspended due to payment/violation issues
)

// FiscalConfig holds a tenant's tax-authority integration state.
// LastZReportDate and CurrentGlobalCounter are only mutated by a successful
// Z-Report submission; together they act as the idempotency marker.
type FiscalConfig struct {
	TIN                  string     `json:"tin"`                    // Taxpayer identification number
	VFDSerial            string     `json:"vfd_serial"`             // Virtual fiscal device serial number
	TRAVerified          bool       `json:"tra_verified"`           // Set once the device registration is verified
	CurrentGlobalCounter int64      `json:"current_global_counter"` // Monotonic counter assigned by the authority
	LastZReportDate      *time.Time `json:"last_zreport_date"`      // Date-only, see LastReportedOn
	LastSubmissionError  string     `json:"last_submission_error"`
}

// Tenant represents a tenant/organization in the multi-tenant system
// It is the aggregate root for tenant-related operations
type Tenant struct {
	shared.BaseAggregateRoot
	Code         string       `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name         string       `gorm:"type:varchar(200);not null"`
	Status       TenantStatus `gorm:"type:varchar(20);not null;default:'active'"`
	ContactName  string       `gorm:"type:varchar(100)"`
	ContactPhone string       `gorm:"type:varchar(50)"`
	ContactEmail string       `gorm:"type:varchar(200)"`
	Address      string       `gorm:"type:text"`
	Currency     string       `gorm:"type:varchar(10);not null;default:'TZS'"`
	Timezone     string       `gorm:"type:varchar(50);not null;default:'Africa/Dar_es_Salaam'"`
	Fiscal       FiscalConfig `gorm:"embedded;embeddedPrefix:fiscal_"`
	Notes        string       `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Tenant) TableName() string {
	return "tenants"
}

// NewTenant creates a new tenant with required fields
func NewTenant(code, name string) (*Tenant, error) {
	if err := validateTenantCode(code); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_TENANT_NAME", "Tenant name cannot be empty")
	}

	tenant := &Tenant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Status:            TenantStatusActive,
		Currency:          "TZS",
		Timezone:          "Africa/Dar_es_Salaam",
	}

	tenant.AddDomainEvent(NewTenantCreatedEvent(tenant))

	return tenant, nil
}

// IsActive returns true if the tenant can trade
func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}

// FiscalVerified reports whether the tenant has a complete, verified fiscal
// integration. An unverified tenant is skipped by the submission batch, never
// treated as an error.
func (t *Tenant) FiscalVerified() bool {
	return t.Fiscal.TRAVerified && t.Fiscal.TIN != "" && t.Fiscal.VFDSerial != ""
}

// ConfigureFiscal sets the tenant's fiscal credentials. Verification is reset
// until the device registration is confirmed against the authority.
func (t *Tenant) ConfigureFiscal(tin, vfdSerial string) error {
	if strings.TrimSpace(tin) == "" {
		return shared.NewDomainError("INVALID_TIN", "Taxpayer identification number cannot be empty")
	}
	if strings.TrimSpace(vfdSerial) == "" {
		return shared.NewDomainError("INVALID_VFD_SERIAL", "Fiscal device serial cannot be empty")
	}
	t.Fiscal.TIN = tin
	t.Fiscal.VFDSerial = vfdSerial
	t.Fiscal.TRAVerified = false
	t.UpdatedAt = time.Now()
	return nil
}

// MarkFiscalVerified flags the fiscal integration as verified
func (t *Tenant) MarkFiscalVerified() error {
	if t.Fiscal.TIN == "" || t.Fiscal.VFDSerial == "" {
		return shared.ErrFiscalNotConfigured
	}
	t.Fiscal.TRAVerified = true
	t.UpdatedAt = time.Now()
	return nil
}

// LastReportedOn returns the calendar day of the last successful Z-Report
// submission, truncated to midnight UTC so comparisons are canonical and
// never depend on locale formatting.
func (t *Tenant) LastReportedOn() *time.Time {
	if t.Fiscal.LastZReportDate == nil {
		return nil
	}
	d := CanonicalDay(*t.Fiscal.LastZReportDate)
	return &d
}

// HasReportedFor reports whether a Z-Report was already submitted for day
func (t *Tenant) HasReportedFor(day time.Time) bool {
	last := t.LastReportedOn()
	return last != nil && last.Equal(CanonicalDay(day))
}

// RecordZReportSubmission records a successful submission for day with the
// counter returned by the authority
func (t *Tenant) RecordZReportSubmission(day time.Time, globalCounter int64) {
	d := CanonicalDay(day)
	t.Fiscal.LastZReportDate = &d
	t.Fiscal.CurrentGlobalCounter = globalCounter
	t.Fiscal.LastSubmissionError = ""
	t.UpdatedAt = time.Now()
	t.AddDomainEvent(NewTenantZReportSubmittedEvent(t, d, globalCounter))
}

// CanonicalDay strips the time component, normalizing to midnight UTC
func CanonicalDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func validateTenantCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_TENANT_CODE", "Tenant code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_TENANT_CODE", "Tenant code cannot exceed 50 characters")
	}
	for _, c := range code {
		if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-' || c == '_') {
			return shared.NewDomainError("INVALID_TENANT_CODE", "Tenant code may only contain letters, digits, hyphen and underscore")
		}
	}
	return nil
}
