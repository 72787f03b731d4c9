package identity

import (
	"time"

	"github.com/dukahub/backend/internal/domain/shared"
)

// Aggregate type constant for Tenant
const AggregateTypeTenant = "Tenant"

// Tenant event type constants
const (
	EventTypeTenantCreated          = "TenantCreated"
	EventTypeTenantZReportSubmitted = "TenantZReportSubmitted"
)

// TenantCreatedEvent is raised when a tenant is created
type TenantCreatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewTenantCreatedEvent creates a new TenantCreatedEvent
func NewTenantCreatedEvent(t *Tenant) *TenantCreatedEvent {
	return &TenantCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTenantCreated, AggregateTypeTenant, t.ID, t.ID),
		Code:            t.Code,
		Name:            t.Name,
	}
}

// EventType returns the event type name
func (e *TenantCreatedEvent) EventType() string {
	return EventTypeTenantCreated
}

// TenantZReportSubmittedEvent is raised when a tenant's daily Z-Report is
// accepted by the tax authority
type TenantZReportSubmittedEvent struct {
	shared.BaseDomainEvent
	ReportDate    time.Time `json:"report_date"`
	GlobalCounter int64     `json:"global_counter"`
}

// NewTenantZReportSubmittedEvent creates a new TenantZReportSubmittedEvent
func NewTenantZReportSubmittedEvent(t *Tenant, reportDate time.Time, globalCounter int64) *TenantZReportSubmittedEvent {
	return &TenantZReportSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTenantZReportSubmitted, AggregateTypeTenant, t.ID, t.ID),
		ReportDate:      reportDate,
		GlobalCounter:   globalCounter,
	}
}

// EventType returns the event type name
func (e *TenantZReportSubmittedEvent) EventType() string {
	return EventTypeTenantZReportSubmitted
}
