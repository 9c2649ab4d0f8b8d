package dto

import (
	"net/http"
	"strings"
)

// Error codes returned by the API.
// Format: ERR_<CATEGORY>_<DESCRIPTION>
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"

	ErrCodeValidation = "ERR_VALIDATION"

	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"

	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
	ErrCodeJobRunning          = "ERR_JOB_RUNNING"

	ErrCodeInvalidState = "ERR_INVALID_STATE"
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"

	ErrCodeBadRequest     = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput   = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON    = "ERR_INVALID_JSON"
	ErrCodeRequestTooLong = "ERR_REQUEST_TOO_LARGE"
	ErrCodeRateLimited    = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps API error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation: http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeJobRunning:          http.StatusConflict,

	ErrCodeInvalidState: http.StatusUnprocessableEntity,
	ErrCodeBusinessRule: http.StatusUnprocessableEntity,

	ErrCodeBadRequest:     http.StatusBadRequest,
	ErrCodeInvalidInput:   http.StatusBadRequest,
	ErrCodeInvalidJSON:    http.StatusBadRequest,
	ErrCodeRequestTooLong: http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:    http.StatusTooManyRequests,
}

// DomainErrorCodeMapping maps domain error codes to API error codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_STATE":        ErrCodeInvalidState,
	"UNAUTHORIZED":         ErrCodeUnauthorized,
	"INVALID_CREDENTIALS":  ErrCodeUnauthorized,
	"ACCESS_DENIED":        ErrCodeForbidden,
	"ACCOUNT_DEACTIVATED":  ErrCodeForbidden,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
	"JOB_RUNNING":          ErrCodeJobRunning,
	"PRICELIST_RECURSION":  ErrCodeBusinessRule,
	"INVALID_MODEL":        ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to its API code.
// Unmapped codes are returned unchanged.
func NormalizeErrorCode(code string) string {
	if mapped, ok := DomainErrorCodeMapping[code]; ok {
		return mapped
	}
	return code
}

// GetHTTPStatus returns the status for an API or domain error code.
// Unmapped domain validation codes (INVALID_*, *_REQUIRED) are 422,
// anything else unknown is 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[NormalizeErrorCode(code)]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") || strings.HasSuffix(code, "_REQUIRED") {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
