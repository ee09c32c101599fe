package admin

import (
	"context"
	"errors"
	"strings"

	"resume-tailor/internal/billing"
	"resume-tailor/internal/shared/apperr"
	"resume-tailor/internal/users"
)

// UserLookup resolves the target of an override.
type UserLookup interface {
	GetByID(ctx context.Context, userID string) (users.User, error)
}

// StatusSetter applies a subscription override.
type StatusSetter interface {
	SetStatus(ctx context.Context, userID, email string, status billing.Status) (billing.Subscription, error)
}

type Service struct {
	Directory Directory
	Users     UserLookup
	Billing   StatusSetter
}

func (s *Service) ListUsers(ctx context.Context) ([]UserRow, error) {
	return s.Directory.ListUsers(ctx)
}

// SetSubscription overrides the target user's subscription status.
func (s *Service) SetSubscription(ctx context.Context, req SetSubscriptionRequest) (billing.Subscription, error) {
	target := strings.TrimSpace(req.TargetUserID)
	status := billing.Status(strings.ToLower(strings.TrimSpace(req.NewStatus)))
	if target == "" || status == "" {
		return billing.Subscription{}, apperr.Validation("targetUserId and newStatus are required")
	}
	if !status.Valid() {
		return billing.Subscription{}, apperr.Validation("newStatus must be one of trialing, active, canceled, expired")
	}
	user, err := s.Users.GetByID(ctx, target)
	if errors.Is(err, users.ErrNotFound) {
		return billing.Subscription{}, apperr.NotFound("User not found")
	}
	if err != nil {
		return billing.Subscription{}, err
	}
	return s.Billing.SetStatus(ctx, user.ID, user.Email, status)
}
