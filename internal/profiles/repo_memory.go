package profiles

import (
	"context"
	"sort"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu       sync.RWMutex
	profiles map[string]Profile
	now      func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{profiles: make(map[string]Profile), now: time.Now}
}

func (r *MemoryRepo) Create(ctx context.Context, p Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	if p.Version == 0 {
		p.Version = 1
	}
	r.profiles[p.ID] = p
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID, id string) (Profile, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[id]
	if !ok || p.UserID != userID {
		return Profile{}, ErrNotFound
	}
	return p, nil
}

func (r *MemoryRepo) List(ctx context.Context, userID string) ([]Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Profile, 0)
	for _, p := range r.profiles {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepo) Update(ctx context.Context, p Profile, expectedVersion int) (Profile, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.profiles[p.ID]
	if !ok || current.UserID != p.UserID {
		return Profile{}, ErrNotFound
	}
	if current.Version != expectedVersion {
		return Profile{}, ErrVersionConflict
	}
	current.Headline = p.Headline
	current.Summary = p.Summary
	current.Content = p.Content
	current.Version++
	current.UpdatedAt = r.now().UTC()
	r.profiles[p.ID] = current
	return current, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, userID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok || p.UserID != userID {
		return ErrNotFound
	}
	delete(r.profiles, id)
	return nil
}

func (r *MemoryRepo) EarliestCreatedAt(ctx context.Context, userID string) (*time.Time, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var earliest *time.Time
	for _, p := range r.profiles {
		if p.UserID != userID {
			continue
		}
		if earliest == nil || p.CreatedAt.Before(*earliest) {
			created := p.CreatedAt
			earliest = &created
		}
	}
	return earliest, nil
}
