package admin

import (
	"context"
	"errors"

	"resume-tailor/internal/billing"
	"resume-tailor/internal/users"
)

// Directory lists users merged with their subscriptions, newest first.
type Directory interface {
	ListUsers(ctx context.Context) ([]UserRow, error)
}

// MemoryDirectory joins the in-memory user and subscription repos.
type MemoryDirectory struct {
	Users         users.Repo
	Subscriptions billing.Repo
}

func (d *MemoryDirectory) ListUsers(ctx context.Context) ([]UserRow, error) {
	list, err := d.Users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]UserRow, 0, len(list))
	for _, u := range list {
		row := UserRow{ID: u.ID, Email: u.Email, FullName: u.FullName, CreatedAt: u.CreatedAt}
		sub, err := d.Subscriptions.GetByUserID(ctx, u.ID)
		switch {
		case err == nil:
			row.Subscription = &sub
		case !errors.Is(err, billing.ErrNotFound):
			return nil, err
		}
		out = append(out, row)
	}
	return out, nil
}
