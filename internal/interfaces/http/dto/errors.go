package dto

import (
	"net/http"
	"strings"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes not listed here fall back to 500.
var ErrorCodeHTTPStatus = map[string]int{
	"NOT_FOUND":      http.StatusNotFound,
	"ALREADY_EXISTS": http.StatusConflict,
	"UNAUTHORIZED":   http.StatusUnauthorized,
	"FORBIDDEN":      http.StatusForbidden,

	"INVALID_INPUT":    http.StatusBadRequest,
	"BAD_REQUEST":      http.StatusBadRequest,
	"VALIDATION_ERROR": http.StatusBadRequest,
	"MALFORMED_FEED":   http.StatusBadRequest,

	// business rule violations -> 422
	"INVALID_STATE":       http.StatusUnprocessableEntity,
	"INVALID_TRANSITION":  http.StatusUnprocessableEntity,
	"DUPLICATE_LINE_ITEM": http.StatusUnprocessableEntity,
	"ITEM_INACTIVE":       http.StatusUnprocessableEntity,
	"ITEM_NOT_FOUND":      http.StatusUnprocessableEntity,
	"EMPTY_CART":          http.StatusUnprocessableEntity,
	"INVALID_QUANTITY":    http.StatusUnprocessableEntity,
	"MISSING_REFERENCE":   http.StatusUnprocessableEntity,
	"DUPLICATE_REFERENCE": http.StatusUnprocessableEntity,

	"SYNC_IN_PROGRESS":     http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,

	"SYNC_TIMEOUT":   http.StatusGatewayTimeout,
	"INTERNAL_ERROR": http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unlisted INVALID_* codes (the domain constructors' rejection family) map
// to 400; anything else unknown maps to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
