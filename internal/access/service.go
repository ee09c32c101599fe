package access

import (
	"context"
	"math"
	"time"

	"resume-tailor/internal/auth"
	"resume-tailor/internal/billing"
	"resume-tailor/internal/resumes"
	"resume-tailor/internal/shared/metrics"
)

// ResumeLookup finds a resume by public slug. A missing resume is (nil, nil).
type ResumeLookup interface {
	GetBySlug(ctx context.Context, slug string) (*resumes.Resume, error)
}

// SubscriptionLookup returns a user's subscription or nil.
type SubscriptionLookup interface {
	Subscription(ctx context.Context, userID string) (*billing.Subscription, error)
}

// ProfileDates returns when a user's first profile was created, or nil.
type ProfileDates interface {
	EarliestCreatedAt(ctx context.Context, userID string) (*time.Time, error)
}

type Service struct {
	Resumes       ResumeLookup
	Subscriptions SubscriptionLookup
	Profiles      ProfileDates
	Now           func() time.Time
}

// Decision is the resolved gate plus the resume when one was found.
type Decision struct {
	Visibility Visibility
	Resume     *resumes.Resume
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Resolve evaluates the gate for slug. It is recomputed on every call.
func (s *Service) Resolve(ctx context.Context, slug string) (Decision, error) {
	resume, err := s.Resumes.GetBySlug(ctx, slug)
	if err != nil {
		return Decision{}, err
	}
	if resume == nil || !resume.IsActive {
		metrics.IncPublicAccess(string(NotFound))
		return Decision{Visibility: NotFound}, nil
	}
	sub, err := s.Subscriptions.Subscription(ctx, resume.UserID)
	if err != nil {
		return Decision{}, err
	}
	start, err := s.Profiles.EarliestCreatedAt(ctx, resume.UserID)
	if err != nil {
		return Decision{}, err
	}
	v := ResolveVisibility(resume, sub, start, s.now())
	metrics.IncPublicAccess(string(v))
	return Decision{Visibility: v, Resume: resume}, nil
}

// TrialStatus summarises the caller's trial for /me. The window starts at the first profile,
// or at account creation before any profile exists.
func (s *Service) TrialStatus(ctx context.Context, userID string, accountCreatedAt time.Time) (auth.TrialStatus, error) {
	sub, err := s.Subscriptions.Subscription(ctx, userID)
	if err != nil {
		return auth.TrialStatus{}, err
	}
	start, err := s.Profiles.EarliestCreatedAt(ctx, userID)
	if err != nil {
		return auth.TrialStatus{}, err
	}
	if sub.IsActive() {
		return auth.TrialStatus{SubscriptionStatus: string(sub.Status), TrialEndsAt: sub.TrialEnd}, nil
	}

	end := TrialEnd(accountCreatedAt, start)
	out := auth.TrialStatus{TrialEndsAt: &end, DaysLeft: daysLeft(end, s.now())}
	switch {
	case sub != nil:
		out.SubscriptionStatus = string(sub.Status)
	case out.DaysLeft > 0:
		out.SubscriptionStatus = string(billing.StatusTrialing)
	default:
		out.SubscriptionStatus = string(billing.StatusExpired)
	}
	return out, nil
}

func daysLeft(end, now time.Time) int {
	remaining := end.Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int(math.Ceil(remaining.Hours() / 24))
}
