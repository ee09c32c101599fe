package billing

import "context"

// Repo persists subscriptions.
type Repo interface {
	GetByUserID(ctx context.Context, userID string) (Subscription, error)
	// Upsert inserts or replaces the subscription for s.UserID. An empty StripeCustomerID or
	// UserEmail keeps the stored value.
	Upsert(ctx context.Context, s Subscription) (Subscription, error)
	// ExpireByCustomer marks every subscription of a provider customer expired.
	ExpireByCustomer(ctx context.Context, customerID string) (int64, error)
}
