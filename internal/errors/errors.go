package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError represents a domain-specific error with a code and message
type DomainError struct {
	Code    string
	Message string
	Err     error // underlying error for wrapping
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is and errors.As
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is lets a wrapped DomainError match its predefined sentinel by code.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with domain error context
func WrapError(domainErr *DomainError, err error) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Err:     err,
	}
}

// Predefined domain errors
var (
	// Credential errors. Unknown email and wrong password share one error so
	// responses cannot be used for account enumeration.
	ErrInvalidCredentials = NewDomainError("INVALID_CREDENTIALS", "invalid email or password")
	ErrEmailExists        = NewDomainError("EMAIL_EXISTS", "email already exists")
	ErrUsernameExists     = NewDomainError("USERNAME_EXISTS", "username already exists")
	ErrUserNotFound       = NewDomainError("USER_NOT_FOUND", "user not found")

	// Token and session errors
	ErrServerMisconfigured = NewDomainError("SERVER_MISCONFIGURED", "server configuration error")
	ErrMissingToken        = NewDomainError("MISSING_TOKEN", "missing token")
	ErrInvalidToken        = NewDomainError("INVALID_TOKEN", "invalid token")
	ErrTokenExpired        = NewDomainError("TOKEN_EXPIRED", "token expired")
	ErrSecurityBreach      = NewDomainError("SECURITY_BREACH", "token reuse detected, all sessions have been invalidated")
	ErrLoggedOut           = NewDomainError("LOGGED_OUT", "user is logged out, please login again")

	// Resource errors
	ErrPostNotFound    = NewDomainError("POST_NOT_FOUND", "post not found")
	ErrCommentNotFound = NewDomainError("COMMENT_NOT_FOUND", "comment not found")
	ErrAlreadyLiked    = NewDomainError("ALREADY_LIKED", "post already liked")
	ErrForbidden       = NewDomainError("FORBIDDEN", "not the owner of this resource")

	// Validation errors
	ErrInvalidInput = NewDomainError("INVALID_INPUT", "invalid input")

	// System errors
	ErrInternal = NewDomainError("INTERNAL_ERROR", "internal server error")
)

// IsDomainError checks if an error is a domain error
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// GetDomainError extracts the domain error from an error
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// ToHTTPStatus maps domain errors to HTTP status codes
// This should only be used in the handler/presentation layer
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErrorToHTTPStatus(domainErr)
	}

	// Default to internal server error for unknown errors
	return http.StatusInternalServerError
}

func domainErrorToHTTPStatus(err *DomainError) int {
	switch err.Code {
	// 400 Bad Request
	case "INVALID_INPUT", "ALREADY_LIKED":
		return http.StatusBadRequest

	// 401 Unauthorized
	case "INVALID_CREDENTIALS", "MISSING_TOKEN", "INVALID_TOKEN",
		"TOKEN_EXPIRED", "SECURITY_BREACH", "LOGGED_OUT":
		return http.StatusUnauthorized

	// 403 Forbidden
	case "FORBIDDEN":
		return http.StatusForbidden

	// 404 Not Found
	case "USER_NOT_FOUND", "POST_NOT_FOUND", "COMMENT_NOT_FOUND":
		return http.StatusNotFound

	// 409 Conflict
	case "EMAIL_EXISTS", "USERNAME_EXISTS":
		return http.StatusConflict

	// 500 Internal Server Error (default)
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorMessage safely extracts error message
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}

	return err.Error()
}
