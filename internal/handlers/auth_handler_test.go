package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camprep/identity/internal/api/dto"
	"github.com/camprep/identity/internal/auth"
	"github.com/camprep/identity/internal/models"
)

// ==============================================
// MOCK AUTH SERVICE
// ==============================================

type MockAuthService struct {
	SignupFunc         func(ctx context.Context, req dto.SignupRequest) (*dto.AuthResponse, error)
	LoginFunc          func(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
	LoginStartFunc     func(ctx context.Context, req dto.LoginStartRequest) (*dto.LoginStartResponse, error)
	LoginVerifyFunc    func(ctx context.Context, req dto.LoginVerifyRequest) (*dto.AuthResponse, error)
	UpdateLanguageFunc func(ctx context.Context, userID int, language string) error
}

func (m *MockAuthService) Signup(ctx context.Context, req dto.SignupRequest) (*dto.AuthResponse, error) {
	if m.SignupFunc != nil {
		return m.SignupFunc(ctx, req)
	}
	return &dto.AuthResponse{Success: true, Token: "t", User: &dto.UserDTO{ID: 1}}, nil
}

func (m *MockAuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, req)
	}
	return &dto.AuthResponse{Success: true, Token: "t", User: &dto.UserDTO{ID: 1}}, nil
}

func (m *MockAuthService) LoginStart(ctx context.Context, req dto.LoginStartRequest) (*dto.LoginStartResponse, error) {
	if m.LoginStartFunc != nil {
		return m.LoginStartFunc(ctx, req)
	}
	return &dto.LoginStartResponse{Success: true, Message: "sent", ExpiresIn: 600}, nil
}

func (m *MockAuthService) LoginVerify(ctx context.Context, req dto.LoginVerifyRequest) (*dto.AuthResponse, error) {
	if m.LoginVerifyFunc != nil {
		return m.LoginVerifyFunc(ctx, req)
	}
	return &dto.AuthResponse{Success: true, Token: "t", User: &dto.UserDTO{ID: 1}}, nil
}

func (m *MockAuthService) UpdateLanguage(ctx context.Context, userID int, language string) error {
	if m.UpdateLanguageFunc != nil {
		return m.UpdateLanguageFunc(ctx, userID, language)
	}
	return nil
}

func newAuthRouter(svc AuthService, loader UserLoader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	mw := NewAuthMiddleware(loader, testJWTSecret)
	NewAuthHandler(svc).RegisterRoutes(r, mw)
	return r
}

func postJSON(r *gin.Engine, path string, body any, token string) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ==============================================
// LOGIN START TESTS
// ==============================================

func TestLoginStartEndpoint(t *testing.T) {
	r := newAuthRouter(&MockAuthService{}, &MockUserLoader{})

	w := postJSON(r, "/api/auth/login/start", gin.H{"email": "a@x.com"}, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"expires_in":600`)
}

func TestLoginStartEndpoint_MissingEmail(t *testing.T) {
	r := newAuthRouter(&MockAuthService{}, &MockUserLoader{})

	w := postJSON(r, "/api/auth/login/start", gin.H{}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginStartEndpoint_DeliveryFailure(t *testing.T) {
	svc := &MockAuthService{
		LoginStartFunc: func(ctx context.Context, req dto.LoginStartRequest) (*dto.LoginStartResponse, error) {
			return nil, models.ErrEmailDelivery
		},
	}
	r := newAuthRouter(svc, &MockUserLoader{})

	w := postJSON(r, "/api/auth/login/start", gin.H{"email": "a@x.com"}, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	// Stable message, no internal detail
	assert.Contains(t, w.Body.String(), "Failed to send verification email")
}

// ==============================================
// LOGIN VERIFY TESTS
// ==============================================

func TestLoginVerifyEndpoint(t *testing.T) {
	svc := &MockAuthService{
		LoginVerifyFunc: func(ctx context.Context, req dto.LoginVerifyRequest) (*dto.AuthResponse, error) {
			assert.Equal(t, "a@x.com", req.Email)
			assert.Equal(t, "482913", req.Code)
			return &dto.AuthResponse{
				Success: true,
				Token:   "jwt-token",
				User:    &dto.UserDTO{ID: 1, Email: "a@x.com", IsPremium: false},
			}, nil
		},
	}
	r := newAuthRouter(svc, &MockUserLoader{})

	w := postJSON(r, "/api/auth/login/verify", gin.H{"email": "a@x.com", "code": "482913"}, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"token":"jwt-token"`)
	assert.Contains(t, w.Body.String(), `"isPremium":false`)
}

func TestLoginVerifyEndpoint_BadCodeFormat(t *testing.T) {
	r := newAuthRouter(&MockAuthService{}, &MockUserLoader{})

	// Too short and non-numeric both fail binding before the service runs
	w := postJSON(r, "/api/auth/login/verify", gin.H{"email": "a@x.com", "code": "12ab"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginVerifyEndpoint_WrongCode(t *testing.T) {
	svc := &MockAuthService{
		LoginVerifyFunc: func(ctx context.Context, req dto.LoginVerifyRequest) (*dto.AuthResponse, error) {
			return nil, models.ErrOTPNotFound
		},
	}
	r := newAuthRouter(svc, &MockUserLoader{})

	w := postJSON(r, "/api/auth/login/verify", gin.H{"email": "a@x.com", "code": "000000"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), models.ErrCodeOTPInvalid)
}

func TestLoginVerifyEndpoint_ExpiredCode(t *testing.T) {
	svc := &MockAuthService{
		LoginVerifyFunc: func(ctx context.Context, req dto.LoginVerifyRequest) (*dto.AuthResponse, error) {
			return nil, models.ErrOTPExpired
		},
	}
	r := newAuthRouter(svc, &MockUserLoader{})

	w := postJSON(r, "/api/auth/login/verify", gin.H{"email": "a@x.com", "code": "482913"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), models.ErrCodeOTPExpired)
}

// ==============================================
// ME / LANGUAGE TESTS
// ==============================================

func TestMeEndpoint(t *testing.T) {
	loader := &MockUserLoader{
		GetUserByIDFunc: func(ctx context.Context, userID int) (*models.User, error) {
			return &models.User{ID: userID, Name: "Asha", Email: "a@x.com", Language: models.LanguageEnglish}, nil
		},
	}
	r := newAuthRouter(&MockAuthService{}, loader)

	token, _, err := auth.GenerateJWT(9, testJWTSecret)
	require.NoError(t, err)

	req, _ := http.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"email":"a@x.com"`)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestMeEndpoint_NoToken(t *testing.T) {
	r := newAuthRouter(&MockAuthService{}, &MockUserLoader{})

	req, _ := http.NewRequest(http.MethodGet, "/api/auth/me", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateLanguageEndpoint_InvalidEnum(t *testing.T) {
	loader := &MockUserLoader{
		GetUserByIDFunc: func(ctx context.Context, userID int) (*models.User, error) {
			return &models.User{ID: userID}, nil
		},
	}
	svc := &MockAuthService{
		UpdateLanguageFunc: func(ctx context.Context, userID int, language string) error {
			return models.ErrInvalidLanguage
		},
	}
	r := newAuthRouter(svc, loader)

	token, _, err := auth.GenerateJWT(9, testJWTSecret)
	require.NoError(t, err)

	raw, _ := json.Marshal(gin.H{"language": "klingon"})
	req, _ := http.NewRequest(http.MethodPut, "/api/auth/language", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid language")
}

func TestUpdateLanguageEndpoint(t *testing.T) {
	loader := &MockUserLoader{
		GetUserByIDFunc: func(ctx context.Context, userID int) (*models.User, error) {
			return &models.User{ID: userID}, nil
		},
	}

	var got string
	svc := &MockAuthService{
		UpdateLanguageFunc: func(ctx context.Context, userID int, language string) error {
			got = language
			return nil
		},
	}
	r := newAuthRouter(svc, loader)

	token, _, err := auth.GenerateJWT(9, testJWTSecret)
	require.NoError(t, err)

	raw, _ := json.Marshal(gin.H{"language": "tamil"})
	req, _ := http.NewRequest(http.MethodPut, "/api/auth/language", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tamil", got)
}

// ==============================================
// SIGNUP / LOGIN TESTS
// ==============================================

func TestSignupEndpoint(t *testing.T) {
	r := newAuthRouter(&MockAuthService{}, &MockUserLoader{})

	w := postJSON(r, "/api/auth/signup", gin.H{
		"name":     "Asha",
		"email":    "a@x.com",
		"password": "secret123",
	}, "")
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestSignupEndpoint_DuplicateEmail(t *testing.T) {
	svc := &MockAuthService{
		SignupFunc: func(ctx context.Context, req dto.SignupRequest) (*dto.AuthResponse, error) {
			return nil, models.ErrUserAlreadyExists
		},
	}
	r := newAuthRouter(svc, &MockUserLoader{})

	w := postJSON(r, "/api/auth/signup", gin.H{
		"name":     "Asha",
		"email":    "a@x.com",
		"password": "secret123",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), models.ErrCodeUserExists)
}

func TestLoginEndpoint_InvalidCredentials(t *testing.T) {
	svc := &MockAuthService{
		LoginFunc: func(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
			return nil, models.ErrInvalidCredentials
		},
	}
	r := newAuthRouter(svc, &MockUserLoader{})

	w := postJSON(r, "/api/auth/login", gin.H{"email": "a@x.com", "password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), models.ErrCodeInvalidCredentials)
}
