package dto

import (
	"net/http"
	"strings"
)

// API error codes returned in the response envelope
const (
	ErrCodeUnknown      = "ERR_UNKNOWN"
	ErrCodeInternal     = "ERR_INTERNAL"
	ErrCodeValidation   = "ERR_VALIDATION"
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeNotFound     = "ERR_NOT_FOUND"
	ErrCodeAlreadyExist = "ERR_ALREADY_EXISTS"
	ErrCodeConflict     = "ERR_CONFLICT"
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
	ErrCodeUpstream     = "ERR_UPSTREAM_UNAVAILABLE"
)

// ErrorCodeHTTPStatus maps API error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:      http.StatusInternalServerError,
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeAlreadyExist: http.StatusConflict,
	ErrCodeConflict:     http.StatusConflict,
	ErrCodeInvalidState: http.StatusUnprocessableEntity,
	ErrCodeBusinessRule: http.StatusUnprocessableEntity,
	ErrCodeUpstream:     http.StatusBadGateway,
}

// GetHTTPStatus returns the HTTP status for an API error code, defaulting
// to 500 for unrecognized codes
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainErrorCodes maps domain error codes onto API error codes. Domain
// codes not listed here surface as business rule violations.
var domainErrorCodes = map[string]string{
	"NOT_FOUND":             ErrCodeNotFound,
	"ALREADY_EXISTS":        ErrCodeAlreadyExist,
	"INVALID_INPUT":         ErrCodeValidation,
	"CONCURRENCY_CONFLICT":  ErrCodeConflict,
	"INVALID_STATE":         ErrCodeInvalidState,
	"SESSION_CONFLICT":      ErrCodeConflict,
	"SESSION_CLOSED":        ErrCodeInvalidState,
	"FISCAL_NOT_CONFIGURED": ErrCodeBusinessRule,
}

// NormalizeErrorCode converts a domain error code into an API error code.
// Codes already in the ERR_ namespace pass through unchanged.
func NormalizeErrorCode(code string) string {
	if strings.HasPrefix(code, "ERR_") {
		return code
	}
	if mapped, ok := domainErrorCodes[code]; ok {
		return mapped
	}
	return ErrCodeBusinessRule
}
