package resumes

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func sampleResume() (Resume, Records) {
	pid := "p1"
	res := Resume{ID: "r1", UserID: "u1", ProfileID: &pid, JobTitle: "Go", PublicLinkSlug: "abcDEF123_", IsActive: true}
	return res, recordsFor(res)
}

func TestCreateWithRecordsCommits(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	res, rec := sampleResume()
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO resumes").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO job_posts").
		WithArgs(rec.JobPost.ID, "u1", "r1", "Go", DefaultCompany, "").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO resume_versions").
		WithArgs(rec.Version.ID, "r1", 1, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO shared_links").
		WithArgs(rec.Link.ID, "r1", "abcDEF123_", true).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	repo := &PGRepo{DB: db}
	if err := repo.CreateWithRecords(context.Background(), res, rec); err != nil {
		t.Fatalf("CreateWithRecords: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCreateWithRecordsRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	res, rec := sampleResume()
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO resumes").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO job_posts").WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	repo := &PGRepo{DB: db}
	if err := repo.CreateWithRecords(context.Background(), res, rec); err == nil {
		t.Fatalf("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCreateMapsUniqueViolation(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	res, _ := sampleResume()
	mock.ExpectExec("INSERT INTO resumes").
		WithArgs("r1", "u1", "p1", "Go", "", sqlmock.AnyArg(), "abcDEF123_", true).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	repo := &PGRepo{DB: db}
	if err := repo.Create(context.Background(), res); !errors.Is(err, ErrSlugTaken) {
		t.Fatalf("expected ErrSlugTaken, got %v", err)
	}
}

func TestGetBySlugNullProfile(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "user_id", "profile_id", "job_title", "job_description", "content", "public_link_slug", "is_active", "created_at"}).
		AddRow("r1", "u1", nil, "Go", "", []byte(`{"name":"J"}`), "abc", true, time.Now())
	mock.ExpectQuery("FROM resumes WHERE public_link_slug").WithArgs("abc").WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	got, err := repo.GetBySlug(context.Background(), "abc")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if got.ProfileID != nil {
		t.Fatalf("expected nil profile id")
	}
	if got.Content.Name != "J" {
		t.Fatalf("content not decoded: %+v", got.Content)
	}
}

func TestSetActiveMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE resumes SET is_active").
		WithArgs("r1", "u1", false).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	repo := &PGRepo{DB: db}
	if _, err := repo.SetActive(context.Background(), "u1", "r1", false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
