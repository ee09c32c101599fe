package billing

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type MemoryRepo struct {
	mu     sync.RWMutex
	byUser map[string]Subscription
	now    func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byUser: make(map[string]Subscription), now: time.Now}
}

func (r *MemoryRepo) GetByUserID(ctx context.Context, userID string) (Subscription, error) {
	if err := ctx.Err(); err != nil {
		return Subscription{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byUser[userID]
	if !ok {
		return Subscription{}, ErrNotFound
	}
	return s, nil
}

func (r *MemoryRepo) Upsert(ctx context.Context, s Subscription) (Subscription, error) {
	if err := ctx.Err(); err != nil {
		return Subscription{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now().UTC()
	existing, ok := r.byUser[s.UserID]
	if ok {
		s.ID = existing.ID
		s.CreatedAt = existing.CreatedAt
		if s.StripeCustomerID == "" {
			s.StripeCustomerID = existing.StripeCustomerID
		}
		if s.UserEmail == "" {
			s.UserEmail = existing.UserEmail
		}
	} else {
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		s.CreatedAt = now
	}
	s.UpdatedAt = now
	r.byUser[s.UserID] = s
	return s, nil
}

func (r *MemoryRepo) ExpireByCustomer(ctx context.Context, customerID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for userID, s := range r.byUser {
		if s.StripeCustomerID != "" && s.StripeCustomerID == customerID {
			s.Status = StatusExpired
			s.UpdatedAt = r.now().UTC()
			r.byUser[userID] = s
			n++
		}
	}
	return n, nil
}
