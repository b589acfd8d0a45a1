package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/camprep/identity/internal/models"
)

// ==============================================
// SUBSCRIPTION REPOSITORY
// ==============================================

type SubscriptionRepository struct {
	db *pgxpool.Pool
}

func NewSubscriptionRepository(db *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// ==============================================
// ACTIVATE PREMIUM
// ==============================================

// ActivatePremium writes the immutable subscription audit row and copies its
// expiry onto the user's account, in one transaction. The unique constraint
// on (order_id, payment_id) makes replays idempotent: a duplicate call
// returns the expiry granted by the first one and performs no account write.
func (r *SubscriptionRepository) ActivatePremium(ctx context.Context, sub *models.Subscription) (time.Time, bool, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO subscriptions (user_id, order_id, payment_id, signature, amount, status, activated_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (order_id, payment_id) DO NOTHING
		RETURNING id, created_at
	`,
		sub.UserID,
		sub.OrderID,
		sub.PaymentID,
		sub.Signature,
		sub.Amount,
		sub.Status,
		sub.ActivatedAt,
		sub.ExpiresAt,
	).Scan(&sub.ID, &sub.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Replay of an already-completed order: hand back the original
			// expiry without extending anything.
			var existing time.Time
			err = tx.QueryRow(ctx, `
				SELECT expires_at FROM subscriptions
				WHERE order_id = $1 AND payment_id = $2
			`, sub.OrderID, sub.PaymentID).Scan(&existing)
			if err != nil {
				return time.Time{}, false, fmt.Errorf("failed to load existing subscription: %w", err)
			}
			return existing, true, nil
		}
		return time.Time{}, false, fmt.Errorf("failed to create subscription: %w", err)
	}

	tag, err := tx.Exec(ctx, `
		UPDATE users
		SET is_premium = true, premium_expiry = $1, updated_at = now()
		WHERE id = $2
	`, sub.ExpiresAt, sub.UserID)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to update premium status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return time.Time{}, false, ErrUserNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return time.Time{}, false, fmt.Errorf("failed to commit activation: %w", err)
	}

	return sub.ExpiresAt, false, nil
}

// ==============================================
// HISTORY
// ==============================================

// GetSubscriptionsByUserID returns the renewal history, newest first
func (r *SubscriptionRepository) GetSubscriptionsByUserID(ctx context.Context, userID int) ([]models.Subscription, error) {
	query := `
		SELECT id, user_id, order_id, payment_id, signature, amount, status, activated_at, expires_at, created_at
		FROM subscriptions
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []models.Subscription
	for rows.Next() {
		var s models.Subscription
		if err := rows.Scan(
			&s.ID,
			&s.UserID,
			&s.OrderID,
			&s.PaymentID,
			&s.Signature,
			&s.Amount,
			&s.Status,
			&s.ActivatedAt,
			&s.ExpiresAt,
			&s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		subs = append(subs, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subscriptions: %w", err)
	}

	return subs, nil
}
