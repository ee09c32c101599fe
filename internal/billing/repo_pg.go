package billing

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

type PGRepo struct {
	DB *sql.DB
}

const subscriptionColumns = `id, user_id, user_email, status, stripe_customer_id, trial_end, created_at, updated_at`

func (r *PGRepo) GetByUserID(ctx context.Context, userID string) (Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE user_id = $1`
	s, err := scanSubscription(r.DB.QueryRowContext(ctx, query, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return Subscription{}, ErrNotFound
	}
	return s, err
}

func (r *PGRepo) Upsert(ctx context.Context, s Subscription) (Subscription, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	query := `
INSERT INTO subscriptions (id, user_id, user_email, status, stripe_customer_id, trial_end, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, now(), now())
ON CONFLICT (user_id) DO UPDATE SET
    status = EXCLUDED.status,
    trial_end = EXCLUDED.trial_end,
    user_email = COALESCE(NULLIF(EXCLUDED.user_email, ''), subscriptions.user_email),
    stripe_customer_id = COALESCE(NULLIF(EXCLUDED.stripe_customer_id, ''), subscriptions.stripe_customer_id),
    updated_at = now()
RETURNING ` + subscriptionColumns
	return scanSubscription(r.DB.QueryRowContext(ctx, query,
		s.ID,
		s.UserID,
		s.UserEmail,
		string(s.Status),
		s.StripeCustomerID,
		s.TrialEnd,
	))
}

func (r *PGRepo) ExpireByCustomer(ctx context.Context, customerID string) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE subscriptions SET status = $2, updated_at = now() WHERE stripe_customer_id = $1`,
		customerID, string(StatusExpired))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubscription(row rowScanner) (Subscription, error) {
	var (
		s        Subscription
		status   string
		trialEnd sql.NullTime
	)
	if err := row.Scan(&s.ID, &s.UserID, &s.UserEmail, &status, &s.StripeCustomerID, &trialEnd, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return Subscription{}, err
	}
	s.Status = Status(status)
	if trialEnd.Valid {
		t := trialEnd.Time
		s.TrialEnd = &t
	}
	return s, nil
}
