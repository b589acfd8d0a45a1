package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/camprep/identity/internal/api/dto"
	"github.com/camprep/identity/internal/auth"
	"github.com/camprep/identity/internal/models"
	"github.com/camprep/identity/internal/repository"
)

// ==============================================
// REPOSITORY INTERFACES (for testing)
// ==============================================

type UserRepositoryInterface interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, userID int) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLanguage(ctx context.Context, userID int, language string) error
}

type OTPRepositoryInterface interface {
	CreateOTP(ctx context.Context, otp *models.OTPCode) error
	ConsumeOTP(ctx context.Context, email, code string) error
	DeleteExpiredOTPs(ctx context.Context) (int64, error)
}

// EmailSender is the external delivery collaborator
type EmailSender interface {
	SendOTP(ctx context.Context, to, code string) error
}

// ==============================================
// AUTH SERVICE
// ==============================================

type AuthService struct {
	userRepo  UserRepositoryInterface
	otpRepo   OTPRepositoryInterface
	email     EmailSender
	jwtSecret string
}

func NewAuthService(
	userRepo UserRepositoryInterface,
	otpRepo OTPRepositoryInterface,
	email EmailSender,
	jwtSecret string,
) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		otpRepo:   otpRepo,
		email:     email,
		jwtSecret: jwtSecret,
	}
}

// ==============================================
// SIGNUP (password path)
// ==============================================

func (s *AuthService) Signup(ctx context.Context, req dto.SignupRequest) (*dto.AuthResponse, error) {
	// 1. Check if email already exists
	existing, err := s.userRepo.GetUserByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, models.ErrUserAlreadyExists
	}

	// 2. Hash password
	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// 3. Create user
	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: sql.NullString{String: passwordHash, Valid: true},
		Language:     req.Language,
	}

	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserAlreadyExists) {
			return nil, models.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// 4. Issue session token
	token, _, err := auth.GenerateJWT(user.ID, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &dto.AuthResponse{
		Success: true,
		Token:   token,
		User:    userToDTO(user),
	}, nil
}

// ==============================================
// LOGIN (password path)
// ==============================================

// Login is a direct, stateless comparison against the stored hash. Unknown
// email, missing password path and wrong password all surface the same error.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.HasPassword() {
		return nil, models.ErrInvalidCredentials
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash.String) {
		return nil, models.ErrInvalidCredentials
	}

	token, _, err := auth.GenerateJWT(user.ID, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &dto.AuthResponse{
		Success: true,
		Token:   token,
		User:    userToDTO(user),
	}, nil
}

// ==============================================
// LOGIN START (OTP path)
// ==============================================

// LoginStart issues a fresh OTP and emails it. The success response is
// identical for known and unknown emails, so the endpoint leaks no account
// enumeration signal. A delivery failure is an error: no code reaches the
// user without it.
func (s *AuthService) LoginStart(ctx context.Context, req dto.LoginStartRequest) (*dto.LoginStartResponse, error) {
	code, err := auth.GenerateOTP()
	if err != nil {
		return nil, fmt.Errorf("failed to generate OTP: %w", err)
	}

	otp := &models.OTPCode{
		Email:     req.Email,
		Code:      code,
		ExpiresAt: time.Now().Add(models.OTPExpiryMinutes * time.Minute),
	}

	if err := s.otpRepo.CreateOTP(ctx, otp); err != nil {
		return nil, fmt.Errorf("failed to create OTP: %w", err)
	}

	if err := s.email.SendOTP(ctx, otp.Email, code); err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrEmailDelivery, err)
	}

	return &dto.LoginStartResponse{
		Success:   true,
		Message:   "Verification code sent to your email",
		ExpiresIn: models.OTPExpiryMinutes * 60,
	}, nil
}

// ==============================================
// LOGIN VERIFY (OTP path)
// ==============================================

// LoginVerify consumes the code, provisions the account on first login and
// mints a session token.
func (s *AuthService) LoginVerify(ctx context.Context, req dto.LoginVerifyRequest) (*dto.AuthResponse, error) {
	if err := s.otpRepo.ConsumeOTP(ctx, req.Email, req.Code); err != nil {
		switch {
		case errors.Is(err, repository.ErrOTPNotFound):
			return nil, models.ErrOTPNotFound
		case errors.Is(err, repository.ErrOTPExpired):
			return nil, models.ErrOTPExpired
		default:
			return nil, fmt.Errorf("failed to verify OTP: %w", err)
		}
	}

	user, err := s.userRepo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("failed to get user: %w", err)
		}
		user, err = s.provisionUser(ctx, req.Email)
		if err != nil {
			return nil, err
		}
	}

	token, _, err := auth.GenerateJWT(user.ID, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &dto.AuthResponse{
		Success: true,
		Token:   token,
		User:    userToDTO(user),
	}, nil
}

// provisionUser creates an account for an email seen for the first time.
// Name defaults to the email's local part; no password path is set.
func (s *AuthService) provisionUser(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{
		Name:     models.NameFromEmail(email),
		Email:    email,
		Language: models.LanguageEnglish,
	}

	err := s.userRepo.CreateUser(ctx, user)
	if err == nil {
		return user, nil
	}

	// Lost a provisioning race: the account exists now, use it.
	if errors.Is(err, repository.ErrUserAlreadyExists) {
		return s.userRepo.GetUserByEmail(ctx, email)
	}

	return nil, fmt.Errorf("failed to provision user: %w", err)
}

// ==============================================
// LANGUAGE
// ==============================================

func (s *AuthService) UpdateLanguage(ctx context.Context, userID int, language string) error {
	if !models.IsValidLanguage(language) {
		return models.ErrInvalidLanguage
	}

	if err := s.userRepo.UpdateLanguage(ctx, userID, language); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.ErrUserNotFound
		}
		return fmt.Errorf("failed to update language: %w", err)
	}

	return nil
}

// ==============================================
// OTP CLEANUP
// ==============================================

// SweepExpiredOTPs removes lapsed codes; called periodically from main
func (s *AuthService) SweepExpiredOTPs(ctx context.Context) (int64, error) {
	return s.otpRepo.DeleteExpiredOTPs(ctx)
}

// ==============================================
// HELPER FUNCTIONS
// ==============================================

func userToDTO(user *models.User) *dto.UserDTO {
	d := &dto.UserDTO{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Language:  user.Language,
		IsPremium: user.IsPremiumActive(),
	}

	if user.PremiumExpiry.Valid {
		expiry := user.PremiumExpiry.Time.Format(time.RFC3339)
		d.PremiumExpiry = &expiry
	}

	return d
}
