package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{"api code passes through", ErrCodeNotFound, ErrCodeNotFound},
		{"not found", "NOT_FOUND", ErrCodeNotFound},
		{"session conflict", "SESSION_CONFLICT", ErrCodeConflict},
		{"session closed", "SESSION_CLOSED", ErrCodeInvalidState},
		{"invalid state", "INVALID_STATE", ErrCodeInvalidState},
		{"invalid input", "INVALID_INPUT", ErrCodeValidation},
		{"fiscal not configured", "FISCAL_NOT_CONFIGURED", ErrCodeBusinessRule},
		{"unmapped domain code", "INVALID_TENANT_CODE", ErrCodeBusinessRule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeErrorCode(tt.code))
		})
	}
}

func TestGetHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, GetHTTPStatus(ErrCodeNotFound))
	assert.Equal(t, http.StatusConflict, GetHTTPStatus(ErrCodeConflict))
	assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus(ErrCodeInvalidState))
	assert.Equal(t, http.StatusBadGateway, GetHTTPStatus(ErrCodeUpstream))
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus("ERR_SOMETHING_NEW"))
}

func TestListRequestToFilter(t *testing.T) {
	req := ListRequest{Page: 0, PageSize: 500, OrderDir: "sideways", Search: "soda"}
	filter := req.ToFilter()

	assert.Equal(t, 1, filter.Page)
	assert.Equal(t, 100, filter.PageSize)
	assert.Equal(t, "desc", filter.OrderDir)
	assert.Equal(t, "soda", filter.Search)
}

func TestNewMeta(t *testing.T) {
	meta := NewMeta(2, 20, 45)
	assert.Equal(t, 3, meta.TotalPages)
	assert.Equal(t, int64(45), meta.Total)
}
