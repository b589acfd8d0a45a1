package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/camprep/identity/internal/models"
)

// ==============================================
// ERRORS
// ==============================================

var (
	// ErrOTPNotFound covers both a wrong code and an already-consumed one.
	// The two cases are deliberately indistinguishable to the caller.
	ErrOTPNotFound = errors.New("OTP not found")
	ErrOTPExpired  = errors.New("OTP has expired")
)

// ==============================================
// OTP REPOSITORY
// ==============================================

type OTPRepository struct {
	db *pgxpool.Pool
}

func NewOTPRepository(db *pgxpool.Pool) *OTPRepository {
	return &OTPRepository{db: db}
}

// ==============================================
// ISSUE OTP
// ==============================================

// CreateOTP stores a fresh code for the email, superseding any outstanding
// unconsumed codes. The delete and insert run in one transaction, so at most
// one unconsumed, unexpired code exists per email at any commit point.
func (r *OTPRepository) CreateOTP(ctx context.Context, otp *models.OTPCode) error {
	otp.Email = strings.ToLower(strings.TrimSpace(otp.Email))

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		DELETE FROM otp_codes
		WHERE email = $1 AND used_at IS NULL
	`, otp.Email)
	if err != nil {
		return fmt.Errorf("failed to supersede outstanding OTPs: %w", err)
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO otp_codes (email, code, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, otp.Email, otp.Code, otp.ExpiresAt).Scan(&otp.ID, &otp.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create OTP: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit OTP: %w", err)
	}

	return nil
}

// ==============================================
// CONSUME OTP
// ==============================================

// ConsumeOTP atomically marks the matching unconsumed code as used.
// The compare-and-set on used_at guarantees that of two concurrent verify
// calls with the same code, exactly one succeeds. Expired codes are rejected
// even when the value matches; consuming them anyway is harmless since they
// can never verify again.
func (r *OTPRepository) ConsumeOTP(ctx context.Context, email, code string) error {
	query := `
		UPDATE otp_codes
		SET used_at = now()
		WHERE email = $1 AND code = $2 AND used_at IS NULL
		RETURNING expires_at
	`

	var expiresAt time.Time
	err := r.db.QueryRow(ctx, query, strings.ToLower(strings.TrimSpace(email)), code).Scan(&expiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrOTPNotFound
		}
		return fmt.Errorf("failed to consume OTP: %w", err)
	}

	if !time.Now().Before(expiresAt) {
		return ErrOTPExpired
	}

	return nil
}

// ==============================================
// CLEANUP
// ==============================================

// DeleteExpiredOTPs removes codes past their expiry to bound table growth.
// Not correctness-critical: expired rows are rejected even if left in place.
func (r *OTPRepository) DeleteExpiredOTPs(ctx context.Context) (int64, error) {
	query := `
		DELETE FROM otp_codes
		WHERE expires_at < now()
	`

	tag, err := r.db.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired OTPs: %w", err)
	}

	return tag.RowsAffected(), nil
}
