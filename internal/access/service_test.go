package access

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-tailor/internal/billing"
	"resume-tailor/internal/resumes"
)

type stubResumes map[string]*resumes.Resume

func (s stubResumes) GetBySlug(ctx context.Context, slug string) (*resumes.Resume, error) {
	return s[slug], nil
}

type stubSubs map[string]*billing.Subscription

func (s stubSubs) Subscription(ctx context.Context, userID string) (*billing.Subscription, error) {
	return s[userID], nil
}

type stubProfiles map[string]time.Time

func (s stubProfiles) EarliestCreatedAt(ctx context.Context, userID string) (*time.Time, error) {
	if t, ok := s[userID]; ok {
		return &t, nil
	}
	return nil, nil
}

var now = time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)

func newAccessService() *Service {
	day := 24 * time.Hour
	return &Service{
		Resumes: stubResumes{
			"fresh":  {ID: "r1", UserID: "trial-user", IsActive: true, PublicLinkSlug: "fresh", CreatedAt: now},
			"lapsed": {ID: "r2", UserID: "lapsed-user", IsActive: true, PublicLinkSlug: "lapsed", CreatedAt: now},
			"paid":   {ID: "r3", UserID: "paid-user", IsActive: true, PublicLinkSlug: "paid", CreatedAt: now.Add(-90 * day)},
			"off":    {ID: "r4", UserID: "paid-user", IsActive: false, PublicLinkSlug: "off", CreatedAt: now},
		},
		Subscriptions: stubSubs{"paid-user": {UserID: "paid-user", Status: billing.StatusActive}},
		Profiles: stubProfiles{
			"trial-user":  now.Add(-2 * day),
			"lapsed-user": now.Add(-20 * day),
		},
		Now: func() time.Time { return now },
	}
}

func TestResolveUsesEarliestProfileNotResumeDate(t *testing.T) {
	svc := newAccessService()
	cases := map[string]Visibility{
		"fresh":   Visible,
		"lapsed":  Gated,
		"paid":    Visible,
		"off":     NotFound,
		"missing": NotFound,
	}
	for slug, want := range cases {
		d, err := svc.Resolve(context.Background(), slug)
		require.NoError(t, err)
		assert.Equal(t, want, d.Visibility, slug)
	}
}

func TestTrialStatus(t *testing.T) {
	svc := newAccessService()
	ctx := context.Background()

	st, err := svc.TrialStatus(ctx, "trial-user", now.Add(-100*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "trialing", st.SubscriptionStatus)
	assert.Equal(t, 12, st.DaysLeft)

	st, err = svc.TrialStatus(ctx, "lapsed-user", now)
	require.NoError(t, err)
	assert.Equal(t, "expired", st.SubscriptionStatus)
	assert.Zero(t, st.DaysLeft)

	st, err = svc.TrialStatus(ctx, "paid-user", now)
	require.NoError(t, err)
	assert.Equal(t, "active", st.SubscriptionStatus)

	st, err = svc.TrialStatus(ctx, "new-user", now.Add(-36*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 13, st.DaysLeft, "account creation starts the window before any profile")
}
