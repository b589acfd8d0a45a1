package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/camprep/identity/internal/api/dto"
	"github.com/camprep/identity/internal/models"
	"github.com/camprep/identity/internal/payment"
)

// ==============================================
// COLLABORATOR INTERFACES (for testing)
// ==============================================

// PaymentProvider is the external charge-intent collaborator
type PaymentProvider interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (*payment.Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
	KeyID() string
}

type SubscriptionRepositoryInterface interface {
	ActivatePremium(ctx context.Context, sub *models.Subscription) (time.Time, bool, error)
	GetSubscriptionsByUserID(ctx context.Context, userID int) ([]models.Subscription, error)
}

// ==============================================
// PAYMENT SERVICE
// ==============================================

type PaymentService struct {
	provider PaymentProvider
	subRepo  SubscriptionRepositoryInterface
	amount   int64 // plan price in minor units
}

func NewPaymentService(provider PaymentProvider, subRepo SubscriptionRepositoryInterface, amount int64) *PaymentService {
	return &PaymentService{
		provider: provider,
		subRepo:  subRepo,
		amount:   amount,
	}
}

// ==============================================
// CREATE ORDER
// ==============================================

func (s *PaymentService) CreateOrder(ctx context.Context, userID int) (*dto.CreateOrderResponse, error) {
	receipt := fmt.Sprintf("receipt_%s", uuid.NewString())
	notes := map[string]string{
		"userId": fmt.Sprintf("%d", userID),
		"plan":   "Premium Monthly",
	}

	order, err := s.provider.CreateOrder(ctx, s.amount, models.PremiumCurrency, receipt, notes)
	if err != nil {
		log.Printf("create order failed for user %d: %v", userID, err)
		return nil, fmt.Errorf("%w: %w", models.ErrPaymentUpstream, err)
	}

	return &dto.CreateOrderResponse{
		Success:  true,
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		KeyID:    s.provider.KeyID(),
	}, nil
}

// ==============================================
// VERIFY & ACTIVATE
// ==============================================

// VerifyAndActivate checks the provider signature and, only on a match,
// activates the entitlement. The signature check completes strictly before
// any write; a mismatch leaves both the ledger and the account untouched.
// Replays of an already-completed order return the original expiry.
func (s *PaymentService) VerifyAndActivate(ctx context.Context, userID int, req dto.VerifyPaymentRequest) (*dto.VerifyPaymentResponse, error) {
	if !s.provider.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		return nil, models.ErrSignatureInvalid
	}

	now := time.Now()
	sub := &models.Subscription{
		UserID:      userID,
		OrderID:     req.OrderID,
		PaymentID:   req.PaymentID,
		Signature:   req.Signature,
		Amount:      s.amount,
		Status:      models.SubscriptionStatusCompleted,
		ActivatedAt: now,
		ExpiresAt:   now.AddDate(0, 0, models.PremiumDurationDays),
	}

	expiry, replayed, err := s.subRepo.ActivatePremium(ctx, sub)
	if err != nil {
		return nil, fmt.Errorf("failed to activate premium: %w", err)
	}

	message := "Premium activated successfully"
	if replayed {
		message = "Payment already verified"
	}

	return &dto.VerifyPaymentResponse{
		Success:    true,
		Message:    message,
		IsPremium:  true,
		ExpiryDate: expiry.Format(time.RFC3339),
	}, nil
}

// ==============================================
// STATUS
// ==============================================

// GetStatus reports the current entitlement, recomputed from the expiry on
// every call; the stored flag is never trusted on its own.
func (s *PaymentService) GetStatus(user *models.User) *dto.PaymentStatusResponse {
	resp := &dto.PaymentStatusResponse{
		Success:   true,
		IsPremium: user.IsPremiumActive(),
		DaysLeft:  user.PremiumDaysLeft(),
	}

	if user.PremiumExpiry.Valid {
		expiry := user.PremiumExpiry.Time.Format(time.RFC3339)
		resp.ExpiryDate = &expiry
	}

	return resp
}
