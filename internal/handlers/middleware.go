package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/camprep/identity/internal/auth"
	"github.com/camprep/identity/internal/models"
	"github.com/camprep/identity/internal/repository"
)

// contextUserKey is the gin context key the authenticated account lives under
const contextUserKey = "currentUser"

// UserLoader resolves a token's account id to a live account
type UserLoader interface {
	GetUserByID(ctx context.Context, userID int) (*models.User, error)
}

// ==============================================
// AUTH MIDDLEWARE
// ==============================================

type AuthMiddleware struct {
	users     UserLoader
	jwtSecret string
}

func NewAuthMiddleware(users UserLoader, jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{users: users, jwtSecret: jwtSecret}
}

// RequireAuth extracts the bearer token, validates it and loads the account.
// A token whose account no longer exists is rejected; a valid identity is
// attached to the request context for downstream handlers.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			abortError(c, http.StatusUnauthorized, models.ErrCodeMissingToken, "Not authorized to access this route. Please login.")
			return
		}

		userID, err := auth.ValidateJWT(token, m.jwtSecret)
		if err != nil {
			code := models.ErrCodeInvalidToken
			if errors.Is(err, models.ErrTokenExpired) {
				code = models.ErrCodeExpiredToken
			}
			abortError(c, http.StatusUnauthorized, code, "Token is invalid or has expired. Please login again.")
			return
		}

		user, err := m.users.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				abortError(c, http.StatusUnauthorized, models.ErrCodeAccountNotFound, "User not found. Please login again.")
				return
			}
			abortError(c, http.StatusInternalServerError, models.ErrCodeInternalError, "Authentication error")
			return
		}

		c.Set(contextUserKey, user)
		c.Next()
	}
}

// RequirePremium gates premium-only routes. Runs after RequireAuth.
// Entitlement is recomputed from the expiry on every request; 403 is distinct
// from 401 and explicitly reports isPremium false.
func (m *AuthMiddleware) RequirePremium() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			abortError(c, http.StatusUnauthorized, models.ErrCodeUnauthorized, "Please login first")
			return
		}

		if !user.IsPremiumActive() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success":   false,
				"error":     models.ErrCodeForbidden,
				"message":   "This feature requires a premium subscription. Please upgrade to continue.",
				"isPremium": false,
			})
			return
		}

		c.Next()
	}
}

// ==============================================
// HELPER FUNCTIONS
// ==============================================

// CurrentUser returns the account attached by RequireAuth, or nil
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(contextUserKey)
	if !exists {
		return nil
	}

	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}

func extractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}

	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}

	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}

func abortError(c *gin.Context, statusCode int, code, message string) {
	c.AbortWithStatusJSON(statusCode, gin.H{
		"success": false,
		"error":   code,
		"message": message,
	})
}
