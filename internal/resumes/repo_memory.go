package resumes

import (
	"context"
	"sort"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu       sync.RWMutex
	resumes  map[string]Resume
	jobPosts map[string]JobPost
	versions map[string]Version
	links    map[string]SharedLink
	now      func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		resumes:  make(map[string]Resume),
		jobPosts: make(map[string]JobPost),
		versions: make(map[string]Version),
		links:    make(map[string]SharedLink),
		now:      time.Now,
	}
}

func (r *MemoryRepo) Create(ctx context.Context, res Resume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insertResume(res)
}

func (r *MemoryRepo) insertResume(res Resume) error {
	for _, existing := range r.resumes {
		if existing.PublicLinkSlug == res.PublicLinkSlug {
			return ErrSlugTaken
		}
	}
	if res.CreatedAt.IsZero() {
		res.CreatedAt = r.now().UTC()
	}
	r.resumes[res.ID] = res
	return nil
}

func (r *MemoryRepo) CreateJobPost(ctx context.Context, jp JobPost) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobPosts[jp.ID] = jp
	return nil
}

func (r *MemoryRepo) CreateVersion(ctx context.Context, v Version) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.versions[v.ID] = v
	return nil
}

func (r *MemoryRepo) CreateSharedLink(ctx context.Context, l SharedLink) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.links {
		if existing.Slug == l.Slug {
			return ErrSlugTaken
		}
	}
	r.links[l.ID] = l
	return nil
}

func (r *MemoryRepo) CreateWithRecords(ctx context.Context, res Resume, rec Records) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.links {
		if existing.Slug == rec.Link.Slug {
			return ErrSlugTaken
		}
	}
	if err := r.insertResume(res); err != nil {
		return err
	}
	r.jobPosts[rec.JobPost.ID] = rec.JobPost
	r.versions[rec.Version.ID] = rec.Version
	r.links[rec.Link.ID] = rec.Link
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID, id string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.resumes[id]
	if !ok || res.UserID != userID {
		return Resume{}, ErrNotFound
	}
	return res, nil
}

func (r *MemoryRepo) GetBySlug(ctx context.Context, slug string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, res := range r.resumes {
		if res.PublicLinkSlug == slug {
			return res, nil
		}
	}
	return Resume{}, ErrNotFound
}

func (r *MemoryRepo) List(ctx context.Context, userID string) ([]Resume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Resume, 0)
	for _, res := range r.resumes {
		if res.UserID == userID {
			out = append(out, res)
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepo) SetActive(ctx context.Context, userID, id string, active bool) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.resumes[id]
	if !ok || res.UserID != userID {
		return Resume{}, ErrNotFound
	}
	res.IsActive = active
	r.resumes[id] = res
	for lid, l := range r.links {
		if l.ResumeID == id {
			l.IsActive = active
			r.links[lid] = l
		}
	}
	return res, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, userID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.resumes[id]
	if !ok || res.UserID != userID {
		return ErrNotFound
	}
	delete(r.resumes, id)
	for k, jp := range r.jobPosts {
		if jp.ResumeID == id {
			delete(r.jobPosts, k)
		}
	}
	for k, v := range r.versions {
		if v.ResumeID == id {
			delete(r.versions, k)
		}
	}
	for k, l := range r.links {
		if l.ResumeID == id {
			delete(r.links, k)
		}
	}
	return nil
}

// counts reports how many auxiliary rows exist for a resume. Test helper.
func (r *MemoryRepo) counts(resumeID string) (jobPosts, versions, links int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, jp := range r.jobPosts {
		if jp.ResumeID == resumeID {
			jobPosts++
		}
	}
	for _, v := range r.versions {
		if v.ResumeID == resumeID {
			versions++
		}
	}
	for _, l := range r.links {
		if l.ResumeID == resumeID {
			links++
		}
	}
	return
}
