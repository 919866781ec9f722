package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Common errors
var (
	ErrNotFound           = &AppError{Code: http.StatusNotFound, Message: "Resource not found"}
	ErrUnauthorized       = &AppError{Code: http.StatusUnauthorized, Message: "Unauthorized"}
	ErrForbidden          = &AppError{Code: http.StatusForbidden, Message: "Forbidden"}
	ErrBadRequest         = &AppError{Code: http.StatusBadRequest, Message: "Bad request"}
	ErrInternalServer     = &AppError{Code: http.StatusInternalServerError, Message: "Internal server error"}
	ErrConflict           = &AppError{Code: http.StatusConflict, Message: "Resource already exists"}
	ErrUnprocessable      = &AppError{Code: http.StatusUnprocessableEntity, Message: "Unprocessable entity"}
	ErrInvalidCredentials = &AppError{Code: http.StatusUnauthorized, Message: "Invalid email or password"}
	ErrTokenExpired       = &AppError{Code: http.StatusUnauthorized, Message: "Token has expired"}
	ErrInvalidToken       = &AppError{Code: http.StatusUnauthorized, Message: "Invalid token"}
)

// Ledger invariant violations. These are always rejected synchronously and
// never partially applied.
var (
	// ErrEmptyVoucher rejects a voucher created with no entries.
	ErrEmptyVoucher = &AppError{Code: http.StatusUnprocessableEntity, Message: "Voucher must contain at least one debit and one credit entry"}

	// ErrAlreadySyncing rejects a sync request while another run is in
	// progress. Requests are rejected, never queued.
	ErrAlreadySyncing = &AppError{Code: http.StatusConflict, Message: "Sync already in progress"}
)

// NewUnbalancedVoucherError reports a broken double-entry invariant, naming
// the difference between the two sides in paise.
func NewUnbalancedVoucherError(debitTotal, creditTotal int64) *AppError {
	diff := debitTotal - creditTotal
	if diff < 0 {
		diff = -diff
	}
	return &AppError{
		Code: http.StatusUnprocessableEntity,
		Message: fmt.Sprintf("Voucher is unbalanced: debit and credit totals differ by %d paise (debit %d, credit %d)",
			diff, debitTotal, creditTotal),
	}
}

// NewOverAllocationError reports an allocation exceeding what the invoice or
// the payment can still absorb.
func NewOverAllocationError(requested, available int64, against string) *AppError {
	return &AppError{
		Code: http.StatusUnprocessableEntity,
		Message: fmt.Sprintf("Allocation of %d paise exceeds the %s's remaining %d paise",
			requested, against, available),
	}
}

// ExternalTransportError wraps a connection or parse failure against the
// external bookkeeping system. A transport failure fails the whole sync run.
type ExternalTransportError struct {
	Op  string
	Err error
}

func (e *ExternalTransportError) Error() string {
	return fmt.Sprintf("external system %s failed: %v", e.Op, e.Err)
}

func (e *ExternalTransportError) Unwrap() error {
	return e.Err
}

// NewTransportError wraps err as an ExternalTransportError for operation op.
func NewTransportError(op string, err error) *ExternalTransportError {
	return &ExternalTransportError{Op: op, Err: err}
}

// IsTransportError checks if an error is an ExternalTransportError
func IsTransportError(err error) bool {
	var te *ExternalTransportError
	return errors.As(err, &te)
}

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: resource + " not found",
	}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

// NewUnprocessableError creates an unprocessable entity error with a custom message
func NewUnprocessableError(message string) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: message,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: err.Error(),
	}
}
