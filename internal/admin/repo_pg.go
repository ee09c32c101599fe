package admin

import (
	"context"
	"database/sql"

	"resume-tailor/internal/billing"
)

// PGDirectory reads the listing with a single left join.
type PGDirectory struct {
	DB *sql.DB
}

func (d *PGDirectory) ListUsers(ctx context.Context) ([]UserRow, error) {
	const query = `
SELECT u.id, u.email, u.full_name, u.created_at,
       s.id, s.user_email, s.status, s.stripe_customer_id, s.trial_end, s.created_at, s.updated_at
FROM users u
LEFT JOIN subscriptions s ON s.user_id = u.id
ORDER BY u.created_at DESC`
	rows, err := d.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]UserRow, 0)
	for rows.Next() {
		var (
			row                              UserRow
			subID, email, status, customer   sql.NullString
			trialEnd, subCreated, subUpdated sql.NullTime
		)
		if err := rows.Scan(&row.ID, &row.Email, &row.FullName, &row.CreatedAt,
			&subID, &email, &status, &customer, &trialEnd, &subCreated, &subUpdated); err != nil {
			return nil, err
		}
		if subID.Valid {
			sub := &billing.Subscription{
				ID:               subID.String,
				UserID:           row.ID,
				UserEmail:        email.String,
				Status:           billing.Status(status.String),
				StripeCustomerID: customer.String,
				CreatedAt:        subCreated.Time,
				UpdatedAt:        subUpdated.Time,
			}
			if trialEnd.Valid {
				t := trialEnd.Time
				sub.TrialEnd = &t
			}
			row.Subscription = sub
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
