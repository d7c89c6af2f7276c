package dto

import "net/http"

// Error codes shared by the HTTP layer. Domain errors carry their own
// codes; the ones below are produced by handlers and middleware.
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeInvalidJSON  = "INVALID_JSON"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Lifecycle violations (INVALID_STATE) map to 409: the request was
// well-formed but conflicts with the version's current status, and a
// retry after refreshing state can succeed.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal: http.StatusInternalServerError,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:          http.StatusBadRequest,
	ErrCodeValidation:          http.StatusBadRequest,
	ErrCodeInvalidJSON:         http.StatusBadRequest,
	"INVALID_INPUT":            http.StatusBadRequest,
	"INVALID_PAGE_TYPE":        http.StatusBadRequest,
	"INVALID_CONFIGURATION":    http.StatusBadRequest,
	"INVALID_VERSION":          http.StatusBadRequest,
	"INVALID_VERSION_NUMBER":   http.StatusBadRequest,
	"INVALID_NAME":             http.StatusBadRequest,
	"INVALID_SLUG":             http.StatusBadRequest,
	"INVALID_CODE":             http.StatusBadRequest,
	"INVALID_LABEL":            http.StatusBadRequest,
	"INVALID_OPTIONS":          http.StatusBadRequest,
	"INVALID_INPUT_TYPE":       http.StatusBadRequest,
	"INVALID_PARENT":           http.StatusBadRequest,
	"INVALID_KEY":              http.StatusBadRequest,
	"INVALID_WEIGHT":           http.StatusBadRequest,
	"INVALID_VARIANT":          http.StatusBadRequest,
	"INVALID_VARIANTS":         http.StatusBadRequest,
	"INVALID_VISITOR":          http.StatusBadRequest,
	"INVALID_INTERACTION_TYPE": http.StatusBadRequest,
	"INVALID_SESSION":          http.StatusBadRequest,
	"INVALID_COORDINATES":      http.StatusBadRequest,
	"INVALID_VIEWPORT":         http.StatusBadRequest,
	"INVALID_RETENTION":        http.StatusBadRequest,
	"INVALID_SHOP_DOMAIN":      http.StatusBadRequest,
	"INVALID_SCOPES":           http.StatusBadRequest,
	"INVALID_TOKEN":            http.StatusBadRequest,
	"INVALID_PRICE":            http.StatusBadRequest,
	"MAX_DEPTH_EXCEEDED":       http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	// Resource errors
	ErrCodeNotFound:        http.StatusNotFound,
	"VARIANT_NOT_FOUND":    http.StatusNotFound,
	"ALREADY_EXISTS":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,

	// Lifecycle and business conflicts -> 409 Conflict
	"INVALID_STATE":       http.StatusConflict,
	"ALREADY_ACTIVE":      http.StatusConflict,
	"ALREADY_INACTIVE":    http.StatusConflict,
	"HAS_CHILDREN":        http.StatusConflict,
	"DUPLICATE_VARIANT":   http.StatusConflict,
	"EXPERIMENT_CONFLICT": http.StatusConflict,

	// Ingestion limits
	"BATCH_TOO_LARGE":        http.StatusRequestEntityTooLarge,
	"SESSION_LIMIT_EXCEEDED": http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
