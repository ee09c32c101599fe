package resumes

import (
	"context"
	"database/sql"
	"errors"

	"resume-tailor/internal/shared/storage/db"
)

type PGRepo struct {
	DB *sql.DB
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const resumeColumns = `id, user_id, profile_id, job_title, job_description, content, public_link_slug, is_active, created_at`

func (r *PGRepo) Create(ctx context.Context, res Resume) error {
	return insertResume(ctx, r.DB, res)
}

func (r *PGRepo) CreateJobPost(ctx context.Context, jp JobPost) error {
	return insertJobPost(ctx, r.DB, jp)
}

func (r *PGRepo) CreateVersion(ctx context.Context, v Version) error {
	return insertVersion(ctx, r.DB, v)
}

func (r *PGRepo) CreateSharedLink(ctx context.Context, l SharedLink) error {
	return insertSharedLink(ctx, r.DB, l)
}

func (r *PGRepo) CreateWithRecords(ctx context.Context, res Resume, rec Records) error {
	return db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		if err := insertResume(ctx, tx, res); err != nil {
			return err
		}
		if err := insertJobPost(ctx, tx, rec.JobPost); err != nil {
			return err
		}
		if err := insertVersion(ctx, tx, rec.Version); err != nil {
			return err
		}
		return insertSharedLink(ctx, tx, rec.Link)
	})
}

func insertResume(ctx context.Context, ex execer, res Resume) error {
	const query = `
INSERT INTO resumes (id, user_id, profile_id, job_title, job_description, content, public_link_slug, is_active, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())`
	_, err := ex.ExecContext(ctx, query,
		res.ID,
		res.UserID,
		res.ProfileID,
		res.JobTitle,
		res.JobDescription,
		res.Content,
		res.PublicLinkSlug,
		res.IsActive,
	)
	if db.IsUniqueViolation(err) {
		return ErrSlugTaken
	}
	return err
}

func insertJobPost(ctx context.Context, ex execer, jp JobPost) error {
	_, err := ex.ExecContext(ctx,
		`INSERT INTO job_posts (id, user_id, resume_id, title, company, description) VALUES ($1, $2, $3, $4, $5, $6)`,
		jp.ID, jp.UserID, jp.ResumeID, jp.Title, jp.Company, jp.Description)
	return err
}

func insertVersion(ctx context.Context, ex execer, v Version) error {
	_, err := ex.ExecContext(ctx,
		`INSERT INTO resume_versions (id, resume_id, version_number, content) VALUES ($1, $2, $3, $4)`,
		v.ID, v.ResumeID, v.VersionNumber, v.Content)
	return err
}

func insertSharedLink(ctx context.Context, ex execer, l SharedLink) error {
	_, err := ex.ExecContext(ctx,
		`INSERT INTO shared_links (id, resume_id, slug, is_active) VALUES ($1, $2, $3, $4)`,
		l.ID, l.ResumeID, l.Slug, l.IsActive)
	if db.IsUniqueViolation(err) {
		return ErrSlugTaken
	}
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, userID, id string) (Resume, error) {
	query := `SELECT ` + resumeColumns + ` FROM resumes WHERE id = $1 AND user_id = $2`
	res, err := scanResume(r.DB.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return Resume{}, ErrNotFound
	}
	return res, err
}

func (r *PGRepo) GetBySlug(ctx context.Context, slug string) (Resume, error) {
	query := `SELECT ` + resumeColumns + ` FROM resumes WHERE public_link_slug = $1`
	res, err := scanResume(r.DB.QueryRowContext(ctx, query, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return Resume{}, ErrNotFound
	}
	return res, err
}

func (r *PGRepo) List(ctx context.Context, userID string) ([]Resume, error) {
	query := `SELECT ` + resumeColumns + ` FROM resumes WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Resume, 0)
	for rows.Next() {
		res, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *PGRepo) SetActive(ctx context.Context, userID, id string, active bool) (Resume, error) {
	var out Resume
	err := db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		query := `UPDATE resumes SET is_active = $3 WHERE id = $1 AND user_id = $2 RETURNING ` + resumeColumns
		res, err := scanResume(tx.QueryRowContext(ctx, query, id, userID, active))
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE shared_links SET is_active = $2 WHERE resume_id = $1`, id, active); err != nil {
			return err
		}
		out = res
		return nil
	})
	if errors.Is(err, sql.ErrNoRows) {
		return Resume{}, ErrNotFound
	}
	return out, err
}

func (r *PGRepo) Delete(ctx context.Context, userID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM resumes WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResume(row rowScanner) (Resume, error) {
	var (
		res       Resume
		profileID sql.NullString
	)
	err := row.Scan(
		&res.ID,
		&res.UserID,
		&profileID,
		&res.JobTitle,
		&res.JobDescription,
		&res.Content,
		&res.PublicLinkSlug,
		&res.IsActive,
		&res.CreatedAt,
	)
	if err != nil {
		return Resume{}, err
	}
	if profileID.Valid {
		res.ProfileID = &profileID.String
	}
	return res, nil
}
