package fiscal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	domainfiscal "github.com/dukahub/backend/internal/domain/fiscal"
)

// maxTRAResponseSize limits the response body size to prevent memory exhaustion
const maxTRAResponseSize = 1 * 1024 * 1024 // 1MB max response

// TRAAdapter implements the fiscal Gateway against the TRA virtual fiscal
// device API. Transport failures and timeouts surface as ErrUnavailable so
// callers can retry on the next scheduled run; authority refusals surface as
// ErrRejected and are not retryable with the same payload.
type TRAAdapter struct {
	config     *TRAConfig
	httpClient *http.Client
}

// NewTRAAdapter creates a new TRA adapter with the given configuration
func NewTRAAdapter(config *TRAConfig) (*TRAAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &TRAAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// SubmitZReport submits the end-of-day report under the tenant's credentials
func (a *TRAAdapter) SubmitZReport(ctx context.Context, creds domainfiscal.Credentials, report *domainfiscal.ZReport) (*domainfiscal.SubmissionAck, error) {
	payload := buildZReportRequest(creds, report)

	respBody, err := a.doRequest(ctx, "/api/v1/zreports", payload)
	if err != nil {
		return nil, err
	}

	var resp traSubmitResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", domainfiscal.ErrUnavailable, err)
	}

	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: %d - %s", domainfiscal.ErrRejected, resp.Code, resp.Message)
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("%w: acknowledgement missing data", domainfiscal.ErrUnavailable)
	}

	ack := &domainfiscal.SubmissionAck{
		GlobalCounter: resp.Data.GlobalCounter,
		Data:          resp.Data.Extra,
	}
	if resp.Data.ZNum != "" {
		if ack.Data == nil {
			ack.Data = make(map[string]any)
		}
		ack.Data["znum"] = resp.Data.ZNum
	}
	return ack, nil
}

func buildZReportRequest(creds domainfiscal.Credentials, report *domainfiscal.ZReport) *traZReportRequest {
	req := &traZReportRequest{
		TIN:       creds.TIN,
		VFDSerial: creds.VFDSerial,
		ZNumDate:  report.ReportDate.Format("2006-01-02"),
		DailyAmt:  report.TotalSales,
		VATAmt:    report.TotalTax,
		RCTCount:  report.TotalInvoices,
		Lines:     make([]traZReportLine, 0, len(report.Lines)),
	}
	for _, line := range report.Lines {
		req.Lines = append(req.Lines, traZReportLine{
			RCTNum:     line.ReceiptNumber,
			RCTVNum:    line.FiscalNumber,
			IssuedAt:   line.IssuedAt.Format(time.RFC3339),
			NetAmount:  line.Subtotal,
			TaxAmount:  line.TaxAmount,
			GrossTotal: line.TotalAmount,
			PmtType:    line.PaymentMethod,
			Customer:   line.CustomerLabel,
		})
	}
	return req
}

// doRequest performs an HTTP request to the TRA API
func (a *TRAAdapter) doRequest(ctx context.Context, path string, payload any) ([]byte, error) {
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("tra: failed to marshal request: %w", err)
	}

	url := a.config.BaseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("tra: failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.config.APIKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainfiscal.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTRAResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", domainfiscal.ErrUnavailable, err)
	}

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("%w: HTTP %d", domainfiscal.ErrUnavailable, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d: %s", domainfiscal.ErrRejected, resp.StatusCode, bytes.TrimSpace(body))
	}
	return body, nil
}

// Ensure TRAAdapter implements the fiscal Gateway interface
var _ domainfiscal.Gateway = (*TRAAdapter)(nil)
