package models

import (
	"errors"
	"fmt"
)

// ==============================================
// CUSTOM ERROR TYPES
// ==============================================

// AppError represents a structured application error
type AppError struct {
	Code    string // Error code for client
	Message string // Human-readable message
	Err     error  // Underlying error (for logging)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError
func NewAppError(code, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ==============================================
// PREDEFINED ERRORS
// ==============================================

// User/Auth Errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidLanguage    = errors.New("invalid language")
	ErrPasswordNotSet     = errors.New("account has no password login")
)

// OTP Errors
var (
	ErrOTPNotFound = errors.New("invalid verification code")
	ErrOTPExpired  = errors.New("verification code has expired")
)

// Token Errors
var (
	ErrTokenMissing = errors.New("missing token")
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Payment Errors
var (
	ErrSignatureInvalid = errors.New("payment signature verification failed")
	ErrPaymentUpstream  = errors.New("payment provider request failed")
)

// Email Errors
var (
	ErrEmailDelivery = errors.New("failed to send verification email")
)

// ==============================================
// ERROR CODES (for API responses)
// ==============================================
const (
	// Auth error codes
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeUserExists         = "USER_EXISTS"
	ErrCodeMissingToken       = "MISSING_TOKEN"
	ErrCodeInvalidToken       = "INVALID_TOKEN"
	ErrCodeExpiredToken       = "EXPIRED_TOKEN"
	ErrCodeAccountNotFound    = "ACCOUNT_NOT_FOUND"

	// OTP error codes
	ErrCodeOTPExpired = "OTP_EXPIRED"
	ErrCodeOTPInvalid = "OTP_INVALID"

	// Payment error codes
	ErrCodeSignatureInvalid = "SIGNATURE_INVALID"
	ErrCodePaymentUpstream  = "PAYMENT_UPSTREAM"

	// Generic error codes
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeInternalError    = "INTERNAL_ERROR"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeForbidden        = "FORBIDDEN"
)

// ==============================================
// HELPER FUNCTIONS
// ==============================================

// IsAuthError checks if error is authentication-related (maps to 401)
func IsAuthError(err error) bool {
	return errors.Is(err, ErrTokenMissing) ||
		errors.Is(err, ErrTokenInvalid) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrUserNotFound)
}

// IsValidationError checks if error is validation-related (maps to 400)
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidEmail) ||
		errors.Is(err, ErrInvalidLanguage) ||
		errors.Is(err, ErrOTPNotFound) ||
		errors.Is(err, ErrOTPExpired) ||
		errors.Is(err, ErrSignatureInvalid)
}
