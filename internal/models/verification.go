package models

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// ==============================================
// OTP CODE MODEL
// ==============================================

type OTPCode struct {
	ID        int64            `db:"id"`
	Email     string           `db:"email"`
	Code      string           `db:"code"` // 6-digit numeric
	ExpiresAt time.Time        `db:"expires_at"`
	UsedAt    pgtype.Timestamp `db:"used_at"`
	CreatedAt time.Time        `db:"created_at"`
}

func (o *OTPCode) IsExpired() bool {
	return !time.Now().Before(o.ExpiresAt)
}

func (o *OTPCode) IsUsed() bool {
	return o.UsedAt.Valid
}

// ==============================================
// OTP CONFIGURATION
// ==============================================
const (
	OTPLength        = 6  // 6-digit OTP
	OTPExpiryMinutes = 10 // OTP expires in 10 minutes
)
