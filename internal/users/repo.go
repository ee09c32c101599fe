package users

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("user not found")

type Repo interface {
	// UpsertByEmail inserts the user or refreshes name/picture for an existing email,
	// returning the stored row.
	UpsertByEmail(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, userID string) (User, error)
	// List returns all users, newest first.
	List(ctx context.Context) ([]User, error)
}
