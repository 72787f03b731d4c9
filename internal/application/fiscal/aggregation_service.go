package fiscal

import (
	"context"
	"time"

	"github.com/dukahub/backend/internal/domain/billing"
	"github.com/dukahub/backend/internal/domain/fiscal"
	"github.com/dukahub/backend/internal/domain/identity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregationService builds Z-Reports from a tenant's receipts. Aggregation
// reads honored receipts only and never mutates them, so building the same
// day twice yields the same report.
type AggregationService struct {
	receiptRepo billing.ReceiptRepository
	clock       Clock
}

// NewAggregationService creates a new AggregationService. A nil clock falls
// back to the system clock.
func NewAggregationService(receiptRepo billing.ReceiptRepository, clock Clock) *AggregationService {
	if clock == nil {
		clock = SystemClock()
	}
	return &AggregationService{
		receiptRepo: receiptRepo,
		clock:       clock,
	}
}

// DefaultReportDate returns the day the daily batch reports on: yesterday,
// since the batch runs after midnight for the day that just ended.
func (s *AggregationService) DefaultReportDate() time.Time {
	return identity.CanonicalDay(s.clock.Now().AddDate(0, 0, -1))
}

// BuildZReport aggregates the tenant's honored receipts for the given day
// into a Z-Report. Days without sales produce an empty, still reportable
// report.
func (s *AggregationService) BuildZReport(ctx context.Context, tenantID uuid.UUID, day time.Time) (*fiscal.ZReport, error) {
	day = identity.CanonicalDay(day)
	from := day
	to := day.AddDate(0, 0, 1).Add(-time.Nanosecond)

	receipts, err := s.receiptRepo.FindActiveByIssueDateRange(ctx, tenantID, from, to)
	if err != nil {
		return nil, err
	}

	report := &fiscal.ZReport{
		ReportDate: day,
		TotalSales: decimal.Zero,
		TotalTax:   decimal.Zero,
	}

	for i := range receipts {
		r := &receipts[i]
		// The repository already filters on status; guard anyway so a voided
		// receipt can never leak into a report
		if !r.Status.IsHonored() {
			continue
		}

		report.TotalSales = report.TotalSales.Add(r.TotalAmount)
		report.TotalTax = report.TotalTax.Add(r.TaxAmount)
		report.TotalInvoices++
		report.Lines = append(report.Lines, fiscal.ZReportLine{
			ReceiptNumber: r.ReceiptNumber,
			FiscalNumber:  r.FiscalNumber,
			IssuedAt:      r.IssueDate,
			Subtotal:      r.Subtotal,
			TaxAmount:     r.TaxAmount,
			TotalAmount:   r.TotalAmount,
			PaymentMethod: r.PaymentMethod,
			CustomerLabel: r.CustomerLabel(),
		})
	}

	return report, nil
}
