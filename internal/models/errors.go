package models

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorCode represents standardized error codes
type ErrorCode string

const (
	// Ledger validation errors
	ErrorCodeInvalidAmount       ErrorCode = "INVALID_AMOUNT"
	ErrorCodeInsufficientBalance ErrorCode = "INSUFFICIENT_BALANCE"
	ErrorCodeTransactionFailed   ErrorCode = "TRANSACTION_FAILED"

	// Provider errors
	ErrorCodeProviderUnavailable ErrorCode = "PROVIDER_UNAVAILABLE"
	ErrorCodeRateLimitExceeded   ErrorCode = "RATE_LIMIT_EXCEEDED"
	ErrorCodeDecodeFailed        ErrorCode = "DECODE_FAILED"
	ErrorCodeNotFound            ErrorCode = "NOT_FOUND"

	// Validation errors
	ErrorCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	ErrorCodeInvalidToken   ErrorCode = "INVALID_TOKEN_ADDRESS"
	ErrorCodeMalformedJSON  ErrorCode = "MALFORMED_JSON"

	// Internal errors
	ErrorCodeStorageError  ErrorCode = "STORAGE_ERROR"
	ErrorCodeInternalError ErrorCode = "INTERNAL_ERROR"
)

// ErrorDetail represents detailed error information
type ErrorDetail struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

// ErrorResponse represents the standardized error response format
type ErrorResponse struct {
	Error     ErrorDetail `json:"error"`
	Timestamp time.Time   `json:"timestamp"`
}

// HTTPStatusCode returns the appropriate HTTP status code for each error type
func (e ErrorCode) HTTPStatusCode() int {
	switch e {
	case ErrorCodeInvalidAmount, ErrorCodeInvalidRequest, ErrorCodeInvalidToken, ErrorCodeMalformedJSON:
		return http.StatusBadRequest
	case ErrorCodeInsufficientBalance:
		return http.StatusUnprocessableEntity
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case ErrorCodeProviderUnavailable, ErrorCodeDecodeFailed, ErrorCodeTransactionFailed:
		return http.StatusBadGateway
	case ErrorCodeStorageError, ErrorCodeInternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// NewErrorResponse creates a new error response with timestamp
func NewErrorResponse(code ErrorCode, message, details string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
		Timestamp: time.Now().UTC(),
	}
}

// AppError represents an application error with context
type AppError struct {
	Code       ErrorCode
	Message    string
	Details    string
	Cause      error
	StatusCode int
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is reports whether target carries the same error code, so callers can
// match taxonomy members with errors.Is regardless of the wrapped cause.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: code.HTTPStatusCode(),
	}
}

// NewAppErrorWithCause creates a new application error with underlying cause
func NewAppErrorWithCause(code ErrorCode, message string, cause error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		Cause:      cause,
		StatusCode: code.HTTPStatusCode(),
	}
}

// NewAppErrorWithDetails creates a new application error with details
func NewAppErrorWithDetails(code ErrorCode, message, details string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		Details:    details,
		StatusCode: code.HTTPStatusCode(),
	}
}

// Sentinel instances for errors.Is matching on ledger and provider failures.
var (
	ErrInvalidAmount       = NewAppError(ErrorCodeInvalidAmount, "Amount must be a positive number")
	ErrInsufficientBalance = NewAppError(ErrorCodeInsufficientBalance, "Insufficient balance")
	ErrNotFound            = NewAppError(ErrorCodeNotFound, "Token not found in provider response")
	ErrRateLimited         = NewAppError(ErrorCodeRateLimitExceeded, "Rate limit exceeded")
)

// Common error constructors for specific scenarios

// NewInvalidAmountError creates a validation error for a rejected amount
func NewInvalidAmountError(details string) *AppError {
	return NewAppErrorWithDetails(ErrorCodeInvalidAmount, "Amount must be a positive number", details)
}

// NewInsufficientBalanceError creates an insufficient-balance error
func NewInsufficientBalanceError(symbol string, have, want float64) *AppError {
	return NewAppErrorWithDetails(
		ErrorCodeInsufficientBalance,
		"Insufficient balance",
		fmt.Sprintf("%s: have %.9f, need %.9f", symbol, have, want),
	)
}

// NewTransactionFailedError wraps a provider failure during a purchase
func NewTransactionFailedError(cause error) *AppError {
	return NewAppErrorWithCause(ErrorCodeTransactionFailed, "Transaction failed", cause)
}

// NewProviderError creates a transport-layer provider error
func NewProviderError(message string, cause error) *AppError {
	return NewAppErrorWithCause(ErrorCodeProviderUnavailable, message, cause)
}

// NewDecodeError creates a response-decoding error
func NewDecodeError(message string, cause error) *AppError {
	return NewAppErrorWithCause(ErrorCodeDecodeFailed, message, cause)
}

// NewStorageError creates a persistence error
func NewStorageError(message string, cause error) *AppError {
	return NewAppErrorWithCause(ErrorCodeStorageError, message, cause)
}

// errorLogger is the subset of the logging API HandleError needs.
type errorLogger interface {
	Error(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
}

// HandleError converts any error to the standard error response and writes
// it. Non-AppError values map to a generic internal error.
func HandleError(c *gin.Context, err error, log errorLogger) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = NewAppErrorWithCause(ErrorCodeInternalError, "Internal server error", err)
	}

	fields := []zap.Field{
		zap.String("error_code", string(appErr.Code)),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
	}
	if appErr.Cause != nil {
		fields = append(fields, zap.Error(appErr.Cause))
	}

	if log != nil {
		if appErr.StatusCode >= http.StatusInternalServerError {
			log.Error(appErr.Message, fields...)
		} else {
			log.Warn(appErr.Message, fields...)
		}
	}

	c.AbortWithStatusJSON(appErr.StatusCode, NewErrorResponse(appErr.Code, appErr.Message, appErr.Details))
}
