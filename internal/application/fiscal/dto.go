package fiscal

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Submission outcome statuses. Skips are normal control flow (unverified
// tenant, day already reported); only genuine submission problems are
// failures.
const (
	SubmissionStatusSubmitted = "submitted"
	SubmissionStatusSkipped   = "skipped"
	SubmissionStatusFailed    = "failed"
)

// SubmissionResult is the outcome of one tenant's Z-Report submission
type SubmissionResult struct {
	TenantID      uuid.UUID       `json:"tenant_id"`
	TenantCode    string          `json:"tenant_code"`
	ReportDate    time.Time       `json:"report_date"`
	Status        string          `json:"status"`
	Reason        string          `json:"reason,omitempty"`
	GlobalCounter int64           `json:"global_counter,omitempty"`
	TotalSales    decimal.Decimal `json:"total_sales"`
	TotalTax      decimal.Decimal `json:"total_tax"`
	TotalInvoices int             `json:"total_invoices"`
}

// Submitted returns true when the report was accepted by the authority
func (r *SubmissionResult) Submitted() bool {
	return r.Status == SubmissionStatusSubmitted
}

// BatchResult summarizes one run of the daily submission batch
type BatchResult struct {
	RunDate   time.Time          `json:"run_date"`
	StartedAt time.Time          `json:"started_at"`
	Duration  time.Duration      `json:"duration"`
	Total     int                `json:"total"`
	Submitted int                `json:"submitted"`
	Skipped   int                `json:"skipped"`
	Failed    int                `json:"failed"`
	Results   []SubmissionResult `json:"results"`
}

func (b *BatchResult) add(r SubmissionResult) {
	b.Total++
	switch r.Status {
	case SubmissionStatusSubmitted:
		b.Submitted++
	case SubmissionStatusSkipped:
		b.Skipped++
	default:
		b.Failed++
	}
	b.Results = append(b.Results, r)
}
