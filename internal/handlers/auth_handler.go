package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/camprep/identity/internal/api/dto"
	"github.com/camprep/identity/internal/models"
)

// ==============================================
// SERVICE INTERFACE (for testing)
// ==============================================

type AuthService interface {
	Signup(ctx context.Context, req dto.SignupRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
	LoginStart(ctx context.Context, req dto.LoginStartRequest) (*dto.LoginStartResponse, error)
	LoginVerify(ctx context.Context, req dto.LoginVerifyRequest) (*dto.AuthResponse, error)
	UpdateLanguage(ctx context.Context, userID int, language string) error
}

// ==============================================
// HANDLER (HTTP Layer ONLY)
// ==============================================

type AuthHandler struct {
	service AuthService
}

func NewAuthHandler(service AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// ==============================================
// ENDPOINTS
// ==============================================

// Signup handles POST /api/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, models.ErrCodeValidationFailed, "Please provide all fields")
		return
	}

	resp, err := h.service.Signup(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, models.ErrCodeValidationFailed, "Please provide email and password")
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// LoginStart handles POST /api/auth/login/start
func (h *AuthHandler) LoginStart(c *gin.Context) {
	var req dto.LoginStartRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, models.ErrCodeValidationFailed, "Please provide a valid email")
		return
	}

	resp, err := h.service.LoginStart(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// LoginVerify handles POST /api/auth/login/verify
func (h *AuthHandler) LoginVerify(c *gin.Context) {
	var req dto.LoginVerifyRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, models.ErrCodeValidationFailed, "Please provide a valid email and 6-digit code")
		return
	}

	resp, err := h.service.LoginVerify(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		respondError(c, http.StatusUnauthorized, models.ErrCodeUnauthorized, "Please login first")
		return
	}

	c.JSON(http.StatusOK, dto.MeResponse{
		Success: true,
		User:    publicUserToDTO(user),
	})
}

// UpdateLanguage handles PUT /api/auth/language
func (h *AuthHandler) UpdateLanguage(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		respondError(c, http.StatusUnauthorized, models.ErrCodeUnauthorized, "Please login first")
		return
	}

	var req dto.UpdateLanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, models.ErrCodeValidationFailed, "Please provide a language")
		return
	}

	if err := h.service.UpdateLanguage(c.Request.Context(), user.ID, req.Language); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UpdateLanguageResponse{
		Success:  true,
		Message:  "Language updated",
		Language: req.Language,
	})
}

// ==============================================
// ROUTES
// ==============================================

// RegisterRoutes registers auth routes; mw guards the protected ones
func (h *AuthHandler) RegisterRoutes(router *gin.Engine, mw *AuthMiddleware) {
	group := router.Group("/api/auth")
	{
		group.POST("/signup", h.Signup)
		group.POST("/login", h.Login)
		group.POST("/login/start", h.LoginStart)
		group.POST("/login/verify", h.LoginVerify)
	}

	protected := router.Group("/api/auth")
	protected.Use(mw.RequireAuth())
	{
		protected.GET("/me", h.Me)
		protected.PUT("/language", h.UpdateLanguage)
	}
}

// ==============================================
// HELPER FUNCTIONS
// ==============================================

func publicUserToDTO(user *models.User) *dto.UserDTO {
	pu := user.ToPublic()
	d := &dto.UserDTO{
		ID:        pu.ID,
		Name:      pu.Name,
		Email:     pu.Email,
		Language:  pu.Language,
		IsPremium: pu.IsPremium,
	}

	if pu.PremiumExpiry != nil {
		expiry := pu.PremiumExpiry.Format(time.RFC3339)
		d.PremiumExpiry = &expiry
	}

	return d
}
