package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/camprep/identity/internal/models"
)

// TokenExpirationTime is how long a session token is valid (30 days)
const TokenExpirationTime = 30 * 24 * time.Hour

// Claims represents JWT claims
type Claims struct {
	UserID int `json:"user_id"`
	jwt.RegisteredClaims
}

// GenerateJWT mints a signed session token for a user.
// Fails closed when no signing secret is configured.
func GenerateJWT(userID int, secret string) (string, int, error) {
	if secret == "" {
		return "", 0, errors.New("jwt secret is not configured")
	}

	now := time.Now()
	expirationTime := now.Add(TokenExpirationTime)

	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", 0, err
	}

	expiresIn := int(TokenExpirationTime.Seconds())
	return tokenString, expiresIn, nil
}

// ValidateJWT verifies signature and expiry and returns the user ID.
// Returns models.ErrTokenExpired for a structurally valid but lapsed token
// and models.ErrTokenInvalid for anything else (bad signature, malformed).
func ValidateJWT(tokenString, secret string) (int, error) {
	if secret == "" {
		return 0, errors.New("jwt secret is not configured")
	}

	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, models.ErrTokenExpired
		}
		return 0, models.ErrTokenInvalid
	}

	if !token.Valid {
		return 0, models.ErrTokenInvalid
	}

	return claims.UserID, nil
}
