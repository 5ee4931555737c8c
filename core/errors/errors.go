package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/lib/pq"
)

type ErrorCode string

const (
	ErrInternalServer             ErrorCode = "INTERNAL_SERVER"
	ErrInvalidInput               ErrorCode = "INVALID_INPUT"
	ErrInvalidRequestData         ErrorCode = "INVALID_REQUEST_DATA"
	ErrValidationFailed           ErrorCode = "VALIDATION_FAILED"
	ErrUnauthorized               ErrorCode = "UNAUTHORIZED"
	ErrForbidden                  ErrorCode = "FORBIDDEN"
	ErrTokenExpired               ErrorCode = "TOKEN_EXPIRED"
	ErrInvalidTokenFormat         ErrorCode = "INVALID_TOKEN_FORMAT"
	ErrMissingAuthorizationHeader ErrorCode = "MISSING_AUTHORIZATION_HEADER"
	ErrNotFound                   ErrorCode = "NOT_FOUND"
	ErrAlreadyExists              ErrorCode = "ALREADY_EXISTS"
	ErrStateConflict              ErrorCode = "STATE_CONFLICT"
	ErrConcurrencyConflict        ErrorCode = "CONCURRENCY_CONFLICT"
	ErrGetFailed                  ErrorCode = "GET_FAILED"
	ErrCreateFailed               ErrorCode = "CREATE_FAILED"
	ErrUpdateFailed               ErrorCode = "UPDATE_FAILED"
	ErrDeleteFailed               ErrorCode = "DELETE_FAILED"
)

// Postgres SQLSTATE codes mapped by FromDB.
const (
	pqUniqueViolation      = "23505"
	pqCheckViolation       = "23514"
	pqExclusionViolation   = "23P01"
	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
	pqForeignKeyViolation  = "23503"
)

// FieldError is a single field-level validation message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type AppError struct {
	Code    ErrorCode    `json:"code"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
	Err     error        `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the caller may safely retry the same request.
func (e *AppError) Retryable() bool {
	return e != nil && e.Code == ErrConcurrencyConflict
}

func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func New(code ErrorCode, message string) *AppError {
	return NewAppError(code, message, nil)
}

// NewValidationError builds a VALIDATION_FAILED error carrying field messages.
func NewValidationError(fields []FieldError) *AppError {
	return &AppError{
		Code:    ErrValidationFailed,
		Message: "validation failed",
		Fields:  fields,
	}
}

// Is reports whether err is an *AppError with the given code.
func Is(err error, code ErrorCode) bool {
	var ae *AppError
	if stderrors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}

// FromDB converts a storage error into an AppError, translating the
// Postgres constraint violations this service relies on.
func FromDB(err error, message string) *AppError {
	if err == nil {
		return nil
	}
	var ae *AppError
	if stderrors.As(err, &ae) {
		return ae
	}
	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqUniqueViolation:
			return NewAppError(ErrAlreadyExists, message+": already exists", err)
		case pqExclusionViolation, pqSerializationFailure, pqDeadlockDetected:
			return NewAppError(ErrConcurrencyConflict, message+": conflicting concurrent change, retry", err)
		case pqCheckViolation:
			return NewAppError(ErrStateConflict, message+": constraint violated", err)
		case pqForeignKeyViolation:
			return NewAppError(ErrNotFound, message+": referenced record not found", err)
		}
	}
	return NewAppError(ErrInternalServer, message, err)
}
