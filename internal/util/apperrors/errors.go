package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Code string

const (
	CodeNotFound            Code = "NOT_FOUND"
	CodeDuplicateMembership Code = "DUPLICATE_MEMBERSHIP"
	CodeInvalidReference    Code = "INVALID_REFERENCE"
	CodeInvalidCredentials  Code = "INVALID_CREDENTIALS"
	CodeUnauthenticated     Code = "UNAUTHENTICATED"
	CodePermissionDenied    Code = "PERMISSION_DENIED"
	CodeValidationFailed    Code = "VALIDATION_FAILED"
	CodeStoreFailure        Code = "STORE_FAILURE"
)

// Error is the typed failure surfaced by services. errors.Is matches two
// errors with the same code, so the sentinels below can be used as targets.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`

	cause error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.Code == e.Code
}

var (
	ErrNotFound            = &Error{Code: CodeNotFound, Message: "not found"}
	ErrDuplicateMembership = &Error{Code: CodeDuplicateMembership, Message: "member already in project"}
	ErrInvalidReference    = &Error{Code: CodeInvalidReference, Message: "invalid reference"}
	ErrInvalidCredentials  = &Error{Code: CodeInvalidCredentials, Message: "invalid email or password"}
	ErrUnauthenticated     = &Error{Code: CodeUnauthenticated, Message: "no authenticated user found"}
	ErrPermissionDenied    = &Error{Code: CodePermissionDenied, Message: "insufficient permissions"}
	ErrValidationFailed    = &Error{Code: CodeValidationFailed, Message: "validation failed"}
	ErrStoreFailure        = &Error{Code: CodeStoreFailure, Message: "store failure"}
)

func NotFound(entity string, id string) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf("%s not found: %s", entity, id)}
}

func DuplicateMembership() *Error {
	return &Error{Code: CodeDuplicateMembership, Message: "member already in project"}
}

func InvalidReference(message string) *Error {
	return &Error{Code: CodeInvalidReference, Message: message}
}

// InvalidCredentials is identical for an unknown email and a wrong password.
func InvalidCredentials() *Error {
	return &Error{Code: CodeInvalidCredentials, Message: "invalid email or password"}
}

func Unauthenticated() *Error {
	return &Error{Code: CodeUnauthenticated, Message: "no authenticated user found"}
}

func PermissionDenied(message string) *Error {
	return &Error{Code: CodePermissionDenied, Message: message}
}

func Validation(field string, message string) *Error {
	return &Error{Code: CodeValidationFailed, Message: message, Field: field}
}

func StoreFailure(operation string, err error) *Error {
	return &Error{
		Code:    CodeStoreFailure,
		Message: fmt.Sprintf("failed to %s: %v", operation, err),
		cause:   err,
	}
}

// FromStore passes typed errors through and wraps anything else as a
// store failure. A nil err stays nil.
func FromStore(operation string, err error) error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}

	return StoreFailure(operation, err)
}

func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}

	return CodeStoreFailure
}

func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeDuplicateMembership:
		return http.StatusConflict
	case CodeInvalidReference:
		return http.StatusUnprocessableEntity
	case CodeInvalidCredentials, CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodePermissionDenied:
		return http.StatusForbidden
	case CodeValidationFailed:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Respond writes err as a JSON error body with the status matching its code.
func Respond(ctx *gin.Context, err error) {
	status := HTTPStatus(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "Internal server error"
	}

	ctx.JSON(status, gin.H{"error": message, "code": CodeOf(err)})
}
