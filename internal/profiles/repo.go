package profiles

import (
	"context"
	"time"
)

type Repo interface {
	Create(ctx context.Context, p Profile) error
	GetByID(ctx context.Context, userID, id string) (Profile, error)
	List(ctx context.Context, userID string) ([]Profile, error)
	// Update writes p only if the stored version equals expectedVersion, bumping the version.
	Update(ctx context.Context, p Profile, expectedVersion int) (Profile, error)
	Delete(ctx context.Context, userID, id string) error
	// EarliestCreatedAt returns the user's oldest profile creation time, or nil.
	EarliestCreatedAt(ctx context.Context, userID string) (*time.Time, error)
}
