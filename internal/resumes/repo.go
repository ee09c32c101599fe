package resumes

import "context"

// Repo persists resumes and their auxiliary records.
type Repo interface {
	// Create inserts a resume. A slug collision returns ErrSlugTaken.
	Create(ctx context.Context, r Resume) error
	CreateJobPost(ctx context.Context, jp JobPost) error
	CreateVersion(ctx context.Context, v Version) error
	CreateSharedLink(ctx context.Context, l SharedLink) error
	// CreateWithRecords inserts a resume and its records atomically.
	CreateWithRecords(ctx context.Context, r Resume, rec Records) error

	GetByID(ctx context.Context, userID, id string) (Resume, error)
	GetBySlug(ctx context.Context, slug string) (Resume, error)
	List(ctx context.Context, userID string) ([]Resume, error)
	SetActive(ctx context.Context, userID, id string, active bool) (Resume, error)
	Delete(ctx context.Context, userID, id string) error
}
