package fiscal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainfiscal "github.com/dukahub/backend/internal/domain/fiscal"
)

// ---------------------------------------------------------------------------
// Config Tests
// ---------------------------------------------------------------------------

func TestTRAConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *TRAConfig
		wantErr error
	}{
		{
			name:    "valid config",
			config:  &TRAConfig{APIKey: "test_api_key"},
			wantErr: nil,
		},
		{
			name:    "missing api key",
			config:  &TRAConfig{},
			wantErr: ErrTRAConfigMissingAPIKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				// Check defaults are set
				assert.Equal(t, TRAProductionAPIURL, tt.config.BaseURL)
				assert.True(t, tt.config.TimeoutSeconds > 0)
			}
		})
	}
}

func TestTRAConfig_SandboxDefault(t *testing.T) {
	config := &TRAConfig{APIKey: "test_api_key", IsSandbox: true}
	require.NoError(t, config.Validate())
	assert.Equal(t, TRASandboxAPIURL, config.BaseURL)
}

// ---------------------------------------------------------------------------
// Adapter Tests
// ---------------------------------------------------------------------------

func testZReport() *domainfiscal.ZReport {
	return &domainfiscal.ZReport{
		ReportDate:    time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
		TotalSales:    decimal.RequireFromString("16500"),
		TotalTax:      decimal.RequireFromString("2970"),
		TotalInvoices: 2,
		Lines: []domainfiscal.ZReportLine{
			{
				ReceiptNumber: "R-0001",
				IssuedAt:      time.Date(2026, 8, 24, 9, 15, 0, 0, time.UTC),
				Subtotal:      decimal.RequireFromString("3690"),
				TaxAmount:     decimal.RequireFromString("810"),
				TotalAmount:   decimal.RequireFromString("4500"),
				PaymentMethod: "cash",
				CustomerLabel: "Walk-in Customer",
			},
			{
				ReceiptNumber: "R-0002",
				IssuedAt:      time.Date(2026, 8, 24, 14, 2, 0, 0, time.UTC),
				Subtotal:      decimal.RequireFromString("9840"),
				TaxAmount:     decimal.RequireFromString("2160"),
				TotalAmount:   decimal.RequireFromString("12000"),
				PaymentMethod: "mpesa",
				CustomerLabel: "Mama Ntilie Catering",
			},
		},
	}
}

func testCreds() domainfiscal.Credentials {
	return domainfiscal.Credentials{TIN: "123456789", VFDSerial: "10TZ100101"}
}

func newTestAdapter(t *testing.T, serverURL string) *TRAAdapter {
	t.Helper()
	adapter, err := NewTRAAdapter(&TRAConfig{APIKey: "test_api_key", BaseURL: serverURL})
	require.NoError(t, err)
	return adapter
}

func TestSubmitZReportSuccess(t *testing.T) {
	var received traZReportRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/zreports", r.URL.Path)
		assert.Equal(t, "Bearer test_api_key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		json.NewEncoder(w).Encode(traSubmitResponse{
			Code:    traCodeSuccess,
			Message: "SUCCESS",
			Data:    &traSubmitData{GlobalCounter: 42, ZNum: "20260824"},
		})
	}))
	defer server.Close()

	adapter := newTestAdapter(t, server.URL)
	ack, err := adapter.SubmitZReport(context.Background(), testCreds(), testZReport())
	require.NoError(t, err)

	assert.EqualValues(t, 42, ack.GlobalCounter)
	assert.Equal(t, "20260824", ack.Data["znum"])

	assert.Equal(t, "123456789", received.TIN)
	assert.Equal(t, "10TZ100101", received.VFDSerial)
	assert.Equal(t, "2026-08-24", received.ZNumDate)
	assert.Equal(t, 2, received.RCTCount)
	require.Len(t, received.Lines, 2)
	assert.Equal(t, "R-0001", received.Lines[0].RCTNum)
	assert.Equal(t, "mpesa", received.Lines[1].PmtType)
}

func TestSubmitZReportRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(traSubmitResponse{Code: 107, Message: "INVALID TIN"})
	}))
	defer server.Close()

	adapter := newTestAdapter(t, server.URL)
	_, err := adapter.SubmitZReport(context.Background(), testCreds(), testZReport())
	assert.ErrorIs(t, err, domainfiscal.ErrRejected)
	assert.Contains(t, err.Error(), "INVALID TIN")
}

func TestSubmitZReportClientError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer server.Close()

	adapter := newTestAdapter(t, server.URL)
	_, err := adapter.SubmitZReport(context.Background(), testCreds(), testZReport())
	assert.ErrorIs(t, err, domainfiscal.ErrRejected)
}

func TestSubmitZReportServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer server.Close()

	adapter := newTestAdapter(t, server.URL)
	_, err := adapter.SubmitZReport(context.Background(), testCreds(), testZReport())
	assert.ErrorIs(t, err, domainfiscal.ErrUnavailable)
}

func TestSubmitZReportTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // Closed before use; every request fails at the transport

	adapter := newTestAdapter(t, server.URL)
	_, err := adapter.SubmitZReport(context.Background(), testCreds(), testZReport())
	assert.ErrorIs(t, err, domainfiscal.ErrUnavailable)
}

func TestSubmitZReportMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	adapter := newTestAdapter(t, server.URL)
	_, err := adapter.SubmitZReport(context.Background(), testCreds(), testZReport())
	assert.ErrorIs(t, err, domainfiscal.ErrUnavailable)
}
