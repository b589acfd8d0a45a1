package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camprep/identity/internal/auth"
	"github.com/camprep/identity/internal/models"
	"github.com/camprep/identity/internal/repository"
)

const testJWTSecret = "handler-test-secret"

// ==============================================
// MOCK USER LOADER
// ==============================================

type MockUserLoader struct {
	GetUserByIDFunc func(ctx context.Context, userID int) (*models.User, error)
}

func (m *MockUserLoader) GetUserByID(ctx context.Context, userID int) (*models.User, error) {
	if m.GetUserByIDFunc != nil {
		return m.GetUserByIDFunc(ctx, userID)
	}
	return nil, repository.ErrUserNotFound
}

func newAuthTestRouter(loader UserLoader, premiumOnly bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	mw := NewAuthMiddleware(loader, testJWTSecret)

	r := gin.New()
	group := r.Group("/protected")
	group.Use(mw.RequireAuth())
	if premiumOnly {
		group.Use(mw.RequirePremium())
	}
	group.GET("", func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no user in context"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": user.ID})
	})
	return r
}

func doRequest(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ==============================================
// REQUIRE AUTH TESTS
// ==============================================

func TestRequireAuth_MissingToken(t *testing.T) {
	r := newAuthTestRouter(&MockUserLoader{}, false)

	w := doRequest(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), models.ErrCodeMissingToken)
}

func TestRequireAuth_MalformedHeader(t *testing.T) {
	r := newAuthTestRouter(&MockUserLoader{}, false)

	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), models.ErrCodeMissingToken)
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	r := newAuthTestRouter(&MockUserLoader{}, false)

	w := doRequest(r, "garbage.token.value")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), models.ErrCodeInvalidToken)
}

func TestRequireAuth_ValidTokenLoadsUser(t *testing.T) {
	loader := &MockUserLoader{
		GetUserByIDFunc: func(ctx context.Context, userID int) (*models.User, error) {
			return &models.User{ID: userID, Email: "a@x.com"}, nil
		},
	}
	r := newAuthTestRouter(loader, false)

	token, _, err := auth.GenerateJWT(42, testJWTSecret)
	require.NoError(t, err)

	w := doRequest(r, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":42`)
}

func TestRequireAuth_AccountNoLongerExists(t *testing.T) {
	r := newAuthTestRouter(&MockUserLoader{}, false)

	token, _, err := auth.GenerateJWT(42, testJWTSecret)
	require.NoError(t, err)

	w := doRequest(r, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), models.ErrCodeAccountNotFound)
}

// ==============================================
// REQUIRE PREMIUM TESTS
// ==============================================

func TestRequirePremium_InactiveGets403(t *testing.T) {
	loader := &MockUserLoader{
		GetUserByIDFunc: func(ctx context.Context, userID int) (*models.User, error) {
			return &models.User{ID: userID}, nil
		},
	}
	r := newAuthTestRouter(loader, true)

	token, _, err := auth.GenerateJWT(1, testJWTSecret)
	require.NoError(t, err)

	w := doRequest(r, token)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), `"isPremium":false`)
}

func TestRequirePremium_LapsedExpiryGets403(t *testing.T) {
	// Stored flag still true but the expiry has passed; the gate recomputes
	loader := &MockUserLoader{
		GetUserByIDFunc: func(ctx context.Context, userID int) (*models.User, error) {
			return &models.User{
				ID:            userID,
				IsPremium:     true,
				PremiumExpiry: sql.NullTime{Time: time.Now().Add(-time.Minute), Valid: true},
			}, nil
		},
	}
	r := newAuthTestRouter(loader, true)

	token, _, err := auth.GenerateJWT(1, testJWTSecret)
	require.NoError(t, err)

	w := doRequest(r, token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequirePremium_ActivePasses(t *testing.T) {
	loader := &MockUserLoader{
		GetUserByIDFunc: func(ctx context.Context, userID int) (*models.User, error) {
			return &models.User{
				ID:            userID,
				IsPremium:     true,
				PremiumExpiry: sql.NullTime{Time: time.Now().Add(time.Hour), Valid: true},
			}, nil
		},
	}
	r := newAuthTestRouter(loader, true)

	token, _, err := auth.GenerateJWT(1, testJWTSecret)
	require.NoError(t, err)

	w := doRequest(r, token)
	assert.Equal(t, http.StatusOK, w.Code)
}
