package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoUpsertReturnsStoredID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("new-id", "a@example.com", "Ada", "").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("existing-id", created))

	repo := &PGRepo{DB: db}
	got, err := repo.UpsertByEmail(context.Background(), User{ID: "new-id", Email: "a@example.com", FullName: "Ada"})
	if err != nil {
		t.Fatalf("UpsertByEmail: %v", err)
	}
	if got.ID != "existing-id" || !got.CreatedAt.Equal(created) {
		t.Fatalf("unexpected user %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("SELECT id, email, full_name, picture_url, created_at").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	repo := &PGRepo{DB: db}
	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestServiceUpsertKeepsIdentityByEmail(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	first, err := svc.UpsertFromAuth(ctx, " Ada@Example.com ", "Ada", "")
	if err != nil {
		t.Fatalf("UpsertFromAuth: %v", err)
	}
	second, err := svc.UpsertFromAuth(ctx, "ada@example.com", "Ada Lovelace", "pic")
	if err != nil {
		t.Fatalf("UpsertFromAuth: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected same id, got %s and %s", first.ID, second.ID)
	}
	if second.FullName != "Ada Lovelace" || first.Email != "ada@example.com" {
		t.Fatalf("unexpected user %+v", second)
	}
	if _, err := svc.UpsertFromAuth(ctx, "", "x", ""); err == nil {
		t.Fatalf("expected email required")
	}
}
