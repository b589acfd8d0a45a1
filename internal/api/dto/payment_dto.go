package dto

// ==============================================
// PAYMENT REQUEST DTOs
// ==============================================

// VerifyPaymentRequest - Provider callback fields from the checkout flow
type VerifyPaymentRequest struct {
	OrderID   string `json:"orderId" binding:"required"`
	PaymentID string `json:"paymentId" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

// ==============================================
// PAYMENT RESPONSE DTOs
// ==============================================

// CreateOrderResponse
type CreateOrderResponse struct {
	Success  bool   `json:"success"`
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"` // minor units (paise)
	Currency string `json:"currency"`
	KeyID    string `json:"keyId"`
}

// VerifyPaymentResponse
type VerifyPaymentResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	IsPremium  bool   `json:"isPremium"`
	ExpiryDate string `json:"expiryDate"` // ISO 8601
}

// PaymentStatusResponse
type PaymentStatusResponse struct {
	Success    bool    `json:"success"`
	IsPremium  bool    `json:"isPremium"`
	ExpiryDate *string `json:"expiryDate,omitempty"` // ISO 8601
	DaysLeft   int     `json:"daysLeft"`
}
