package models

import "time"

// ==============================================
// SUBSCRIPTION MODEL
// ==============================================

// Subscription statuses
const (
	SubscriptionStatusPending   = "pending"
	SubscriptionStatusCompleted = "completed"
	SubscriptionStatusFailed    = "failed"
)

// Premium plan parameters
const (
	PremiumDurationDays = 30
	PremiumCurrency     = "INR"
)

// Subscription is an append-only audit record of a completed payment.
// Rows are immutable once written; the account's premium expiry is copied
// from the latest completed row, never derived by scanning history.
type Subscription struct {
	ID          int64     `db:"id"`
	UserID      int       `db:"user_id"`
	OrderID     string    `db:"order_id"`
	PaymentID   string    `db:"payment_id"`
	Signature   string    `db:"signature"`
	Amount      int64     `db:"amount"` // minor currency units (paise)
	Status      string    `db:"status"`
	ActivatedAt time.Time `db:"activated_at"`
	ExpiresAt   time.Time `db:"expires_at"`
	CreatedAt   time.Time `db:"created_at"`
}
