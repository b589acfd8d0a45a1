package dto

// ==============================================
// AUTH REQUEST DTOs
// ==============================================

// SignupRequest - Password-based registration
type SignupRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	Language string `json:"language" binding:"omitempty,oneof=english tamil mixed"`
}

// LoginRequest - Email + password login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginStartRequest - Request an OTP for passwordless login
type LoginStartRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// LoginVerifyRequest - Redeem an OTP for a session token
type LoginVerifyRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6,numeric"`
}

// UpdateLanguageRequest
type UpdateLanguageRequest struct {
	Language string `json:"language" binding:"required"`
}

// ==============================================
// AUTH RESPONSE DTOs
// ==============================================

// AuthResponse - Returned by signup, login and login/verify
type AuthResponse struct {
	Success bool     `json:"success"`
	Token   string   `json:"token"`
	User    *UserDTO `json:"user"`
}

// LoginStartResponse - Deliberately identical for known and unknown emails
type LoginStartResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ExpiresIn int    `json:"expires_in"` // seconds until the OTP expires
}

// MeResponse
type MeResponse struct {
	Success bool     `json:"success"`
	User    *UserDTO `json:"user"`
}

// UpdateLanguageResponse
type UpdateLanguageResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Language string `json:"language"`
}

// ==============================================
// SUPPORTING DTOs
// ==============================================

// UserDTO - Safe user representation (never includes the password hash)
type UserDTO struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Language      string  `json:"language"`
	IsPremium     bool    `json:"isPremium"`
	PremiumExpiry *string `json:"premiumExpiryDate,omitempty"` // ISO 8601
}
