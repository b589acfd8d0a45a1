package models

import (
	"database/sql"
	"strings"
	"time"
)

// ==============================================
// USER MODEL (Database mapping)
// ==============================================

// Supported study languages
const (
	LanguageEnglish = "english"
	LanguageTamil   = "tamil"
	LanguageMixed   = "mixed"
)

// IsValidLanguage reports whether lang is one of the supported languages
func IsValidLanguage(lang string) bool {
	switch lang {
	case LanguageEnglish, LanguageTamil, LanguageMixed:
		return true
	}
	return false
}

// User represents a student account
type User struct {
	ID            int            `db:"id"`
	Name          string         `db:"name"`
	Email         string         `db:"email"`         // unique, stored lowercase
	PasswordHash  sql.NullString `db:"password_hash"` // NULL for OTP-only accounts
	Language      string         `db:"language"`
	IsPremium     bool           `db:"is_premium"`
	PremiumExpiry sql.NullTime   `db:"premium_expiry"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

// PublicUser is the safe version to return to clients (no sensitive fields)
type PublicUser struct {
	ID            int        `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Language      string     `json:"language"`
	IsPremium     bool       `json:"isPremium"`
	PremiumExpiry *time.Time `json:"premiumExpiryDate,omitempty"`
}

// ToPublic converts User to PublicUser (removes sensitive fields).
// IsPremium is recomputed from the expiry, never copied from the stored flag.
func (u *User) ToPublic() *PublicUser {
	pu := &PublicUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Language:  u.Language,
		IsPremium: u.IsPremiumActive(),
	}

	if u.PremiumExpiry.Valid {
		pu.PremiumExpiry = &u.PremiumExpiry.Time
	}

	return pu
}

// HasPassword checks if the account has a password login path
func (u *User) HasPassword() bool {
	return u.PasswordHash.Valid && u.PasswordHash.String != ""
}

// IsPremiumActive reports whether the premium entitlement is active right now.
// The stored flag alone is only a cache hint; the expiry is authoritative.
func (u *User) IsPremiumActive() bool {
	if !u.IsPremium {
		return false
	}
	if !u.PremiumExpiry.Valid {
		return false
	}
	return time.Now().Before(u.PremiumExpiry.Time)
}

// PremiumDaysLeft returns whole days until the entitlement lapses (0 if inactive)
func (u *User) PremiumDaysLeft() int {
	if !u.IsPremiumActive() {
		return 0
	}
	left := time.Until(u.PremiumExpiry.Time)
	return int((left + 24*time.Hour - time.Nanosecond) / (24 * time.Hour))
}

// NameFromEmail derives a display name from the email's local part,
// used when provisioning an account on first OTP login
func NameFromEmail(email string) string {
	local := email
	if i := strings.Index(email, "@"); i >= 0 {
		local = email[:i]
	}
	if local == "" {
		return "Student"
	}
	return local
}
