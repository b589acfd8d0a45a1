package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/camprep/identity/internal/models"
)

// respondError sends an error JSON response with a stable client message
func respondError(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error":   code,
		"message": message,
	})
}

// respondServiceError maps service errors to HTTP responses. Internal detail
// never reaches the client; unexpected errors are logged and reported as a
// generic 500.
func respondServiceError(c *gin.Context, err error) {
	statusCode, code, message := mapServiceError(err)
	if statusCode == http.StatusInternalServerError {
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	respondError(c, statusCode, code, message)
}

// mapServiceError maps service errors to status codes and stable messages
func mapServiceError(err error) (int, string, string) {
	switch {
	// Validation errors (400 Bad Request)
	case errors.Is(err, models.ErrOTPNotFound):
		return http.StatusBadRequest, models.ErrCodeOTPInvalid, "Invalid verification code"
	case errors.Is(err, models.ErrOTPExpired):
		return http.StatusBadRequest, models.ErrCodeOTPExpired, "Verification code has expired"
	case errors.Is(err, models.ErrInvalidLanguage):
		return http.StatusBadRequest, models.ErrCodeValidationFailed, "Invalid language"
	case errors.Is(err, models.ErrUserAlreadyExists):
		return http.StatusBadRequest, models.ErrCodeUserExists, "User already exists"
	case errors.Is(err, models.ErrSignatureInvalid):
		return http.StatusBadRequest, models.ErrCodeSignatureInvalid, "Payment verification failed"

	// Authentication errors (401 Unauthorized)
	case errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized, models.ErrCodeInvalidCredentials, "Invalid credentials"
	case errors.Is(err, models.ErrUserNotFound):
		return http.StatusUnauthorized, models.ErrCodeAccountNotFound, "User not found. Please login again."

	// Upstream collaborator failures (500, re-wrapped with stable messages)
	case errors.Is(err, models.ErrEmailDelivery):
		return http.StatusInternalServerError, models.ErrCodeInternalError, "Failed to send verification email"
	case errors.Is(err, models.ErrPaymentUpstream):
		return http.StatusInternalServerError, models.ErrCodePaymentUpstream, "Failed to create payment order"

	// Default (500 Internal Server Error)
	default:
		return http.StatusInternalServerError, models.ErrCodeInternalError, "Server error"
	}
}
