package models

import (
	"time"

	"github.com/dukahub/backend/internal/domain/identity"
)

// TenantModel is the persistence model for the Tenant aggregate. The fiscal
// columns share the fiscal_ prefix; fiscal_last_zreport_date is the
// idempotency marker written only by the claim/record path.
type TenantModel struct {
	AggregateModel
	Code         string                `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name         string                `gorm:"type:varchar(200);not null"`
	Status       identity.TenantStatus `gorm:"type:varchar(20);not null;default:'active'"`
	ContactName  string                `gorm:"type:varchar(100)"`
	ContactPhone string                `gorm:"type:varchar(50)"`
	ContactEmail string                `gorm:"type:varchar(200)"`
	Address      string                `gorm:"type:text"`
	Currency     string                `gorm:"type:varchar(10);not null;default:'TZS'"`
	Timezone     string                `gorm:"type:varchar(50);not null;default:'Africa/Dar_es_Salaam'"`
	Notes        string                `gorm:"type:text"`

	FiscalTIN                  string     `gorm:"column:fiscal_tin;type:varchar(20)"`
	FiscalVFDSerial            string     `gorm:"column:fiscal_vfd_serial;type:varchar(50)"`
	FiscalTRAVerified          bool       `gorm:"column:fiscal_tra_verified;not null;default:false"`
	FiscalCurrentGlobalCounter int64      `gorm:"column:fiscal_current_global_counter;not null;default:0"`
	FiscalLastZReportDate      *time.Time `gorm:"column:fiscal_last_zreport_date"`
	FiscalLastSubmissionError  string     `gorm:"column:fiscal_last_submission_error;type:text"`
}

// TableName returns the table name for GORM
func (TenantModel) TableName() string {
	return "tenants"
}

// ToDomain converts the persistence model to a domain Tenant aggregate
func (m *TenantModel) ToDomain() *identity.Tenant {
	tenant := &identity.Tenant{
		Code:         m.Code,
		Name:         m.Name,
		Status:       m.Status,
		ContactName:  m.ContactName,
		ContactPhone: m.ContactPhone,
		ContactEmail: m.ContactEmail,
		Address:      m.Address,
		Currency:     m.Currency,
		Timezone:     m.Timezone,
		Notes:        m.Notes,
		Fiscal: identity.FiscalConfig{
			TIN:                  m.FiscalTIN,
			VFDSerial:            m.FiscalVFDSerial,
			TRAVerified:          m.FiscalTRAVerified,
			CurrentGlobalCounter: m.FiscalCurrentGlobalCounter,
			LastZReportDate:      m.FiscalLastZReportDate,
			LastSubmissionError:  m.FiscalLastSubmissionError,
		},
	}
	m.PopulateAggregateRoot(&tenant.BaseAggregateRoot)
	return tenant
}

// FromDomain populates the persistence model from a domain Tenant aggregate
func (m *TenantModel) FromDomain(t *identity.Tenant) {
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	m.Code = t.Code
	m.Name = t.Name
	m.Status = t.Status
	m.ContactName = t.ContactName
	m.ContactPhone = t.ContactPhone
	m.ContactEmail = t.ContactEmail
	m.Address = t.Address
	m.Currency = t.Currency
	m.Timezone = t.Timezone
	m.Notes = t.Notes
	m.FiscalTIN = t.Fiscal.TIN
	m.FiscalVFDSerial = t.Fiscal.VFDSerial
	m.FiscalTRAVerified = t.Fiscal.TRAVerified
	m.FiscalCurrentGlobalCounter = t.Fiscal.CurrentGlobalCounter
	m.FiscalLastZReportDate = t.Fiscal.LastZReportDate
	m.FiscalLastSubmissionError = t.Fiscal.LastSubmissionError
}

// TenantModelFromDomain creates a new persistence model from a domain Tenant
func TenantModelFromDomain(t *identity.Tenant) *TenantModel {
	m := &TenantModel{}
	m.FromDomain(t)
	return m
}
