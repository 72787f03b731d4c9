package fiscal

import (
	"time"

	"github.com/shopspring/decimal"
)

// ZReportLine is one honored receipt summarized for the tax authority
type ZReportLine struct {
	ReceiptNumber string          `json:"receipt_number"`
	FiscalNumber  string          `json:"fiscal_number,omitempty"`
	IssuedAt      time.Time       `json:"issued_at"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentMethod string          `json:"payment_method"`
	CustomerLabel string          `json:"customer_label"`
}

// ZReport is the end-of-day aggregated sales/tax summary for one tenant and
// one calendar day, analogous to a cash register's "Z" reading. Built only
// from honored receipts; aggregation over unmodified data is reproducible.
type ZReport struct {
	ReportDate    time.Time       `json:"report_date"`
	TotalSales    decimal.Decimal `json:"total_sales"`
	TotalTax      decimal.Decimal `json:"total_tax"`
	TotalInvoices int             `json:"total_invoices"`
	Lines         []ZReportLine   `json:"lines"`
}

// IsEmpty returns true when no honored receipts were issued on the day.
// Empty days are still reportable; the authority expects a zero reading.
func (z *ZReport) IsEmpty() bool {
	return z.TotalInvoices == 0
}

// Credentials identify a tenant's registered fiscal device
type Credentials struct {
	TIN       string `json:"tin"`
	VFDSerial string `json:"vfd_serial"`
}

// SubmissionAck is the authority's acknowledgement of an accepted report
type SubmissionAck struct {
	GlobalCounter int64          `json:"global_counter"`
	Data          map[string]any `json:"data,omitempty"`
}
