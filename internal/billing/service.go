package billing

import (
	"context"
	"errors"
	"strings"
	"time"

	"resume-tailor/internal/shared/apperr"
	"resume-tailor/internal/shared/telemetry"
)

// AdminGrantPeriod is how long an admin-granted active subscription lasts.
const AdminGrantPeriod = 365 * 24 * time.Hour

// Gateway is the payment provider.
type Gateway interface {
	CheckoutConfigured() bool
	WebhookConfigured() bool
	CheckoutURL(ctx context.Context, userID, email string) (string, error)
	ParseEvent(payload []byte, signature string) (Event, error)
}

type Service struct {
	Repo    Repo
	Gateway Gateway
	Now     func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Subscription returns the user's subscription, or nil when none exists.
func (s *Service) Subscription(ctx context.Context, userID string) (*Subscription, error) {
	sub, err := s.Repo.GetByUserID(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// Checkout starts a hosted checkout and returns its URL.
func (s *Service) Checkout(ctx context.Context, userID, email string) (string, error) {
	if s.Gateway == nil || !s.Gateway.CheckoutConfigured() {
		return "", apperr.Configuration("payments are not configured")
	}
	url, err := s.Gateway.CheckoutURL(ctx, userID, email)
	if err != nil {
		return "", apperr.Wrap(apperr.KindUpstream, "failed to start checkout", err)
	}
	telemetry.Info("billing.checkout_created", map[string]any{"user_id": userID})
	return url, nil
}

// HandleWebhook verifies and applies a provider event. Nothing is written unless the
// signature checks out.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if s.Gateway == nil || !s.Gateway.WebhookConfigured() {
		return apperr.Configuration("payment webhook secret is not configured")
	}
	if strings.TrimSpace(signature) == "" {
		return apperr.Validation("missing Stripe-Signature header")
	}
	evt, err := s.Gateway.ParseEvent(payload, signature)
	if err != nil {
		telemetry.Warn("billing.webhook_rejected", map[string]any{"error": err.Error()})
		if errors.Is(err, ErrInvalidSignature) {
			return apperr.Wrap(apperr.KindValidation, "webhook signature verification failed", err)
		}
		return apperr.Wrap(apperr.KindValidation, "malformed webhook payload", err)
	}

	switch evt.Type {
	case EventCheckoutCompleted:
		if evt.UserID == "" {
			telemetry.Warn("billing.checkout_without_user", map[string]any{"event_id": evt.ID})
			return nil
		}
		_, err := s.Repo.Upsert(ctx, Subscription{
			UserID:           evt.UserID,
			UserEmail:        evt.Email,
			Status:           StatusActive,
			StripeCustomerID: evt.CustomerID,
			TrialEnd:         nil,
		})
		if err != nil {
			return err
		}
		telemetry.Info("billing.subscription_activated", map[string]any{"user_id": evt.UserID, "event_id": evt.ID})
	case EventSubscriptionDeleted:
		if evt.CustomerID == "" {
			return nil
		}
		n, err := s.Repo.ExpireByCustomer(ctx, evt.CustomerID)
		if err != nil {
			return err
		}
		telemetry.Info("billing.subscription_expired", map[string]any{"customer_id": evt.CustomerID, "rows": n, "event_id": evt.ID})
	default:
		telemetry.Info("billing.event_ignored", map[string]any{"type": string(evt.Type), "event_id": evt.ID})
	}
	return nil
}

// SetStatus overrides a user's subscription. Active grants AdminGrantPeriod from now,
// canceled and expired end access immediately, trialing keeps the stored trial end.
// A missing row is created.
func (s *Service) SetStatus(ctx context.Context, userID, email string, status Status) (Subscription, error) {
	if strings.TrimSpace(userID) == "" {
		return Subscription{}, apperr.Validation("targetUserId is required")
	}
	if !status.Valid() {
		return Subscription{}, apperr.Validation("newStatus must be one of trialing, active, canceled, expired")
	}
	now := s.now()
	next := Subscription{UserID: userID, UserEmail: email, Status: status}
	switch status {
	case StatusActive:
		end := now.Add(AdminGrantPeriod)
		next.TrialEnd = &end
	case StatusCanceled, StatusExpired:
		next.TrialEnd = &now
	case StatusTrialing:
		current, err := s.Repo.GetByUserID(ctx, userID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return Subscription{}, err
		}
		next.TrialEnd = current.TrialEnd
	}
	saved, err := s.Repo.Upsert(ctx, next)
	if err != nil {
		return Subscription{}, err
	}
	telemetry.Info("billing.admin_override", map[string]any{"user_id": userID, "status": string(status)})
	return saved, nil
}
