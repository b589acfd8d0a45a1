package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/camprep/identity/internal/api/dto"
	"github.com/camprep/identity/internal/models"
)

// ==============================================
// SERVICE INTERFACE (for testing)
// ==============================================

type PaymentService interface {
	CreateOrder(ctx context.Context, userID int) (*dto.CreateOrderResponse, error)
	VerifyAndActivate(ctx context.Context, userID int, req dto.VerifyPaymentRequest) (*dto.VerifyPaymentResponse, error)
	GetStatus(user *models.User) *dto.PaymentStatusResponse
}

// ==============================================
// HANDLER (HTTP Layer ONLY)
// ==============================================

type PaymentHandler struct {
	service PaymentService
}

func NewPaymentHandler(service PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// ==============================================
// ENDPOINTS
// ==============================================

// CreateOrder handles POST /api/payment/create-order
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		respondError(c, http.StatusUnauthorized, models.ErrCodeUnauthorized, "Please login first")
		return
	}

	resp, err := h.service.CreateOrder(c.Request.Context(), user.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// VerifyPayment handles POST /api/payment/verify
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		respondError(c, http.StatusUnauthorized, models.ErrCodeUnauthorized, "Please login first")
		return
	}

	var req dto.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, models.ErrCodeValidationFailed, "Missing payment details")
		return
	}

	resp, err := h.service.VerifyAndActivate(c.Request.Context(), user.ID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Status handles GET /api/payment/status
func (h *PaymentHandler) Status(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		respondError(c, http.StatusUnauthorized, models.ErrCodeUnauthorized, "Please login first")
		return
	}

	c.JSON(http.StatusOK, h.service.GetStatus(user))
}

// ==============================================
// ROUTES
// ==============================================

// RegisterRoutes registers payment routes, all behind authentication
func (h *PaymentHandler) RegisterRoutes(router *gin.Engine, mw *AuthMiddleware) {
	group := router.Group("/api/payment")
	group.Use(mw.RequireAuth())
	{
		group.POST("/create-order", h.CreateOrder)
		group.POST("/verify", h.VerifyPayment)
		group.GET("/status", h.Status)
	}
}
