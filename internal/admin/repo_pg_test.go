package admin

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"resume-tailor/internal/billing"
)

func TestPGDirectoryListUsers(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	created := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	trialEnd := created.Add(14 * 24 * time.Hour)
	rows := sqlmock.NewRows([]string{
		"id", "email", "full_name", "created_at",
		"sub_id", "user_email", "status", "stripe_customer_id", "trial_end", "sub_created", "sub_updated",
	}).
		AddRow("u2", "b@example.com", "B", created, "s1", "b@example.com", "trialing", nil, trialEnd, created, created).
		AddRow("u1", "a@example.com", "A", created.Add(-time.Hour), nil, nil, nil, nil, nil, nil, nil)
	mock.ExpectQuery("FROM users u\\s+LEFT JOIN subscriptions").WillReturnRows(rows)

	got, err := (&PGDirectory{DB: db}).ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	sub := got[0].Subscription
	if sub == nil || sub.Status != billing.StatusTrialing || sub.TrialEnd == nil || !sub.TrialEnd.Equal(trialEnd) {
		t.Fatalf("unexpected subscription %+v", sub)
	}
	if sub.UserID != "u2" {
		t.Fatalf("subscription user id = %q", sub.UserID)
	}
	if got[1].Subscription != nil {
		t.Fatalf("expected no subscription for u1, got %+v", got[1].Subscription)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
