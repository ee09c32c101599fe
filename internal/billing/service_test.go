package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-tailor/internal/shared/apperr"
)

type fakeGateway struct {
	checkoutOK bool
	webhookOK  bool
	url        string
	event      Event
	parseErr   error
	checkouts  []string
}

func (f *fakeGateway) CheckoutConfigured() bool { return f.checkoutOK }
func (f *fakeGateway) WebhookConfigured() bool  { return f.webhookOK }

func (f *fakeGateway) CheckoutURL(ctx context.Context, userID, email string) (string, error) {
	f.checkouts = append(f.checkouts, userID)
	return f.url, nil
}

func (f *fakeGateway) ParseEvent(payload []byte, signature string) (Event, error) {
	return f.event, f.parseErr
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newService(gw *fakeGateway) (*Service, *MemoryRepo) {
	repo := NewMemoryRepo()
	return &Service{Repo: repo, Gateway: gw, Now: func() time.Time { return fixedNow }}, repo
}

func TestCheckout(t *testing.T) {
	gw := &fakeGateway{checkoutOK: true, url: "https://checkout.stripe.com/c/pay/cs_1"}
	svc, _ := newService(gw)

	url, err := svc.Checkout(context.Background(), "u1", "a@b.co")
	require.NoError(t, err)
	assert.Equal(t, gw.url, url)
	assert.Equal(t, []string{"u1"}, gw.checkouts)

	gw.checkoutOK = false
	_, err = svc.Checkout(context.Background(), "u1", "")
	assert.ErrorIs(t, err, apperr.ErrConfiguration)
}

func TestWebhookCheckoutCompletedActivates(t *testing.T) {
	gw := &fakeGateway{webhookOK: true, event: Event{ID: "evt_1", Type: EventCheckoutCompleted, UserID: "u1", CustomerID: "cus_1", Email: "a@b.co"}}
	svc, repo := newService(gw)
	trialEnd := fixedNow.Add(48 * time.Hour)
	_, err := repo.Upsert(context.Background(), Subscription{UserID: "u1", Status: StatusTrialing, TrialEnd: &trialEnd})
	require.NoError(t, err)

	require.NoError(t, svc.HandleWebhook(context.Background(), []byte(`{}`), "t=1,v1=x"))

	sub, err := repo.GetByUserID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, StatusActive, sub.Status)
	assert.Equal(t, "cus_1", sub.StripeCustomerID)
	assert.Equal(t, "a@b.co", sub.UserEmail)
	assert.Nil(t, sub.TrialEnd)
}

func TestWebhookSubscriptionDeletedExpires(t *testing.T) {
	gw := &fakeGateway{webhookOK: true, event: Event{Type: EventSubscriptionDeleted, CustomerID: "cus_1"}}
	svc, repo := newService(gw)
	_, _ = repo.Upsert(context.Background(), Subscription{UserID: "u1", Status: StatusActive, StripeCustomerID: "cus_1"})
	_, _ = repo.Upsert(context.Background(), Subscription{UserID: "u2", Status: StatusActive, StripeCustomerID: "cus_2"})

	require.NoError(t, svc.HandleWebhook(context.Background(), []byte(`{}`), "sig"))

	u1, _ := repo.GetByUserID(context.Background(), "u1")
	u2, _ := repo.GetByUserID(context.Background(), "u2")
	assert.Equal(t, StatusExpired, u1.Status)
	assert.Equal(t, StatusActive, u2.Status)
}

func TestWebhookRejectsBeforeMutation(t *testing.T) {
	gw := &fakeGateway{webhookOK: true, parseErr: ErrInvalidSignature, event: Event{Type: EventCheckoutCompleted, UserID: "u1"}}
	svc, repo := newService(gw)

	err := svc.HandleWebhook(context.Background(), []byte(`{}`), "bad")
	require.ErrorIs(t, err, apperr.ErrValidation)
	_, err = repo.GetByUserID(context.Background(), "u1")
	assert.ErrorIs(t, err, ErrNotFound)

	err = svc.HandleWebhook(context.Background(), []byte(`{}`), "")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	gw.webhookOK = false
	err = svc.HandleWebhook(context.Background(), []byte(`{}`), "sig")
	assert.ErrorIs(t, err, apperr.ErrConfiguration)
}

func TestWebhookIgnoresOtherEvents(t *testing.T) {
	gw := &fakeGateway{webhookOK: true, event: Event{Type: "invoice.payment_failed"}}
	svc, _ := newService(gw)
	assert.NoError(t, svc.HandleWebhook(context.Background(), []byte(`{}`), "sig"))
}

func TestSetStatusRules(t *testing.T) {
	svc, repo := newService(&fakeGateway{})
	ctx := context.Background()

	active, err := svc.SetStatus(ctx, "u1", "a@b.co", StatusActive)
	require.NoError(t, err)
	require.NotNil(t, active.TrialEnd)
	assert.True(t, active.TrialEnd.Equal(fixedNow.Add(365*24*time.Hour)))

	trialing, err := svc.SetStatus(ctx, "u1", "", StatusTrialing)
	require.NoError(t, err)
	require.NotNil(t, trialing.TrialEnd)
	assert.True(t, trialing.TrialEnd.Equal(*active.TrialEnd), "trialing keeps the stored window")
	assert.Equal(t, "a@b.co", trialing.UserEmail)

	canceled, err := svc.SetStatus(ctx, "u1", "", StatusCanceled)
	require.NoError(t, err)
	assert.True(t, canceled.TrialEnd.Equal(fixedNow))

	fresh, err := svc.SetStatus(ctx, "u2", "", StatusTrialing)
	require.NoError(t, err)
	assert.Nil(t, fresh.TrialEnd)
	_, err = repo.GetByUserID(ctx, "u2")
	assert.NoError(t, err, "missing row is created")

	_, err = svc.SetStatus(ctx, "u1", "", Status("gold"))
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = svc.SetStatus(ctx, "", "", StatusActive)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestSubscriptionNilWhenMissing(t *testing.T) {
	svc, _ := newService(&fakeGateway{})
	sub, err := svc.Subscription(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, sub)
	assert.False(t, sub.IsActive())
}

type brokenRepo struct{ *MemoryRepo }

func (brokenRepo) ExpireByCustomer(context.Context, string) (int64, error) {
	return 0, errors.New("db down")
}

func TestWebhookStoreFailureSurfaces(t *testing.T) {
	gw := &fakeGateway{webhookOK: true, event: Event{Type: EventSubscriptionDeleted, CustomerID: "cus_1"}}
	svc := &Service{Repo: brokenRepo{NewMemoryRepo()}, Gateway: gw}
	assert.Error(t, svc.HandleWebhook(context.Background(), []byte(`{}`), "sig"))
}
