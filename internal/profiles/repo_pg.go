package profiles

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type PGRepo struct {
	DB *sql.DB
}

const profileColumns = `id, user_id, full_name, headline, summary, source, source_document_key, content, version, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, p Profile) error {
	const query = `
INSERT INTO profiles (id, user_id, full_name, headline, summary, raw_source, source, source_document_key, content, version, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 1, now(), now())`
	_, err := r.DB.ExecContext(ctx, query,
		p.ID,
		p.UserID,
		p.FullName,
		p.Headline,
		p.Summary,
		p.RawSource,
		string(p.Source),
		p.SourceDocumentKey,
		p.Content,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, userID, id string) (Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1 AND user_id = $2`
	p, err := scanProfile(r.DB.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return Profile{}, ErrNotFound
	}
	return p, err
}

func (r *PGRepo) List(ctx context.Context, userID string) ([]Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, p Profile, expectedVersion int) (Profile, error) {
	query := `
UPDATE profiles
SET headline = $4, summary = $5, content = $6, version = version + 1, updated_at = now()
WHERE id = $1 AND user_id = $2 AND version = $3
RETURNING ` + profileColumns
	updated, err := scanProfile(r.DB.QueryRowContext(ctx, query, p.ID, p.UserID, expectedVersion, p.Headline, p.Summary, p.Content))
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Profile{}, err
	}
	// Zero rows: either the profile is gone or the version moved on.
	var version int
	err = r.DB.QueryRowContext(ctx, `SELECT version FROM profiles WHERE id = $1 AND user_id = $2`, p.ID, p.UserID).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return Profile{}, ErrNotFound
	}
	if err != nil {
		return Profile{}, err
	}
	return Profile{}, ErrVersionConflict
}

func (r *PGRepo) Delete(ctx context.Context, userID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1 AND user_id = $2`, id, userID)
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

func (r *PGRepo) EarliestCreatedAt(ctx context.Context, userID string) (*time.Time, error) {
	var created sql.NullTime
	err := r.DB.QueryRowContext(ctx, `SELECT MIN(created_at) FROM profiles WHERE user_id = $1`, userID).Scan(&created)
	if err != nil {
		return nil, err
	}
	if !created.Valid {
		return nil, nil
	}
	return &created.Time, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (Profile, error) {
	var (
		p      Profile
		source string
	)
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.FullName,
		&p.Headline,
		&p.Summary,
		&source,
		&p.SourceDocumentKey,
		&p.Content,
		&p.Version,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return Profile{}, err
	}
	p.Source = Source(source)
	return p, nil
}
