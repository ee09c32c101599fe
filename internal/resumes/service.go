package resumes

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-tailor/internal/llm"
	"resume-tailor/internal/profiles"
	"resume-tailor/internal/resumedoc"
	"resume-tailor/internal/shared/apperr"
	"resume-tailor/internal/shared/metrics"
	"resume-tailor/internal/shared/telemetry"
	"resume-tailor/internal/shared/util"
)

const (
	maxSlugAttempts  = 3
	jobTitleMaxRunes = 100
)

// ProfileReader loads a caller-owned profile.
type ProfileReader interface {
	Get(ctx context.Context, userID, id string) (profiles.Profile, error)
}

type Service struct {
	Repo     Repo
	Profiles ProfileReader
	LLM      llm.Client
	// StrictVersioning writes the resume and its records in one transaction. When false the
	// records are written after the resume and failures are only logged.
	StrictVersioning bool
	NewSlug          func() (string, error)
}

// Tailor rewrites a profile against a job description and publishes the result.
func (s *Service) Tailor(ctx context.Context, userID string, in CreateInput) (Resume, error) {
	profileID := strings.TrimSpace(in.ProfileID)
	if profileID == "" {
		return Resume{}, apperr.Validation("profileId is required")
	}
	profile, err := s.Profiles.Get(ctx, userID, profileID)
	if err != nil {
		return Resume{}, err
	}

	jd := util.MarkdownFromHTML(in.JobDescription)
	doc, err := s.rewrite(ctx, profile.Content, jd)
	if err != nil {
		return Resume{}, err
	}

	res := Resume{
		ID:             uuid.NewString(),
		UserID:         userID,
		ProfileID:      &profile.ID,
		JobTitle:       jobTitle(jd),
		JobDescription: jd,
		Content:        doc,
		IsActive:       true,
	}
	// The model call is the expensive part; finish the writes even if the client went away.
	persisted, err := s.persist(context.WithoutCancel(ctx), res)
	if err != nil {
		metrics.IncTailor("persist_error")
		return Resume{}, err
	}
	metrics.IncTailor("ok")
	telemetry.Info("resumes.tailored", map[string]any{
		"user_id":    userID,
		"profile_id": profile.ID,
		"resume_id":  persisted.ID,
		"strict":     s.StrictVersioning,
	})
	return persisted, nil
}

// jobTitle is the first line of the description without markdown heading or bold markers.
func jobTitle(jd string) string {
	line := strings.TrimSpace(strings.TrimLeft(util.FirstLine(jd), "#"))
	for _, mark := range []string{"**", "__"} {
		if len(line) > 2*len(mark) && strings.HasPrefix(line, mark) && strings.HasSuffix(line, mark) {
			line = strings.TrimSpace(line[len(mark) : len(line)-len(mark)])
		}
	}
	return util.TruncateRunes(line, jobTitleMaxRunes)
}

func (s *Service) rewrite(ctx context.Context, base resumedoc.Document, jd string) (resumedoc.Document, error) {
	if s.LLM == nil {
		return resumedoc.Document{}, apperr.Configuration("language model is not configured")
	}
	docJSON, err := json.Marshal(base)
	if err != nil {
		return resumedoc.Document{}, apperr.Wrap(apperr.KindInternal, "encode profile", err)
	}
	out, err := s.LLM.Complete(ctx, llm.Request{
		System:      llm.OptimizePrompt(),
		User:        llm.OptimizeUserMessage(jd, docJSON),
		Temperature: llm.OptimizeTemperature,
		JSON:        true,
	})
	if err != nil {
		if errors.Is(err, llm.ErrNotConfigured) {
			metrics.IncTailor("configuration_error")
			return resumedoc.Document{}, apperr.Wrap(apperr.KindConfiguration, "language model is not configured", err)
		}
		metrics.IncTailor("llm_error")
		return resumedoc.Document{}, apperr.Wrap(apperr.KindTailoring, "failed to optimize resume", err)
	}
	doc, err := resumedoc.Parse([]byte(out))
	if err != nil {
		metrics.IncTailor("invalid_output")
		telemetry.Warn("resumes.invalid_output", map[string]any{"error": err.Error()})
		return resumedoc.Document{}, apperr.Wrap(apperr.KindTailoring, "failed to optimize resume", err)
	}
	doc.FillMissing(base, resumedoc.TopLevelKeys([]byte(out)))
	return doc, nil
}

func (s *Service) persist(ctx context.Context, res Resume) (Resume, error) {
	newSlug := s.NewSlug
	if newSlug == nil {
		newSlug = NewSlug
	}
	for attempt := 1; attempt <= maxSlugAttempts; attempt++ {
		slug, err := newSlug()
		if err != nil {
			return Resume{}, apperr.Wrap(apperr.KindInternal, "generate slug", err)
		}
		res.PublicLinkSlug = slug
		rec := recordsFor(res)

		if s.StrictVersioning {
			err = s.Repo.CreateWithRecords(ctx, res, rec)
		} else {
			err = s.Repo.Create(ctx, res)
		}
		if errors.Is(err, ErrSlugTaken) {
			telemetry.Warn("resumes.slug_collision", map[string]any{"attempt": attempt})
			continue
		}
		if err != nil {
			return Resume{}, apperr.Wrap(apperr.KindInternal, "save resume", err)
		}
		if !s.StrictVersioning {
			s.writeRecords(ctx, rec)
		}
		saved, err := s.Repo.GetByID(ctx, res.UserID, res.ID)
		if err != nil {
			// The row is committed; answer with what was written.
			telemetry.Warn("resumes.reread_failed", map[string]any{"resume_id": res.ID, "error": err.Error()})
			res.CreatedAt = time.Now().UTC()
			return res, nil
		}
		return saved, nil
	}
	return Resume{}, apperr.New(apperr.KindInternal, "could not allocate a unique public link")
}

func recordsFor(res Resume) Records {
	return Records{
		JobPost: JobPost{
			ID:          uuid.NewString(),
			UserID:      res.UserID,
			ResumeID:    res.ID,
			Title:       res.JobTitle,
			Company:     DefaultCompany,
			Description: res.JobDescription,
		},
		Version: Version{
			ID:            uuid.NewString(),
			ResumeID:      res.ID,
			VersionNumber: 1,
			Content:       res.Content,
		},
		Link: SharedLink{
			ID:       uuid.NewString(),
			ResumeID: res.ID,
			Slug:     res.PublicLinkSlug,
			IsActive: true,
		},
	}
}

// writeRecords stores the auxiliary rows one by one. A failure loses audit history only.
func (s *Service) writeRecords(ctx context.Context, rec Records) {
	steps := []struct {
		name string
		fn   func() error
	}{
		{"job_post", func() error { return s.Repo.CreateJobPost(ctx, rec.JobPost) }},
		{"resume_version", func() error { return s.Repo.CreateVersion(ctx, rec.Version) }},
		{"shared_link", func() error { return s.Repo.CreateSharedLink(ctx, rec.Link) }},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			telemetry.Warn("resumes.record_failed", map[string]any{
				"record":    step.name,
				"resume_id": rec.Version.ResumeID,
				"error":     err.Error(),
			})
		}
	}
}

func (s *Service) Get(ctx context.Context, userID, id string) (Resume, error) {
	res, err := s.Repo.GetByID(ctx, userID, id)
	if errors.Is(err, ErrNotFound) {
		return Resume{}, apperr.NotFound("Resume not found")
	}
	return res, err
}

// GetBySlug looks up a resume by public slug without an ownership check.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*Resume, error) {
	res, err := s.Repo.GetBySlug(ctx, slug)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]Resume, error) {
	return s.Repo.List(ctx, userID)
}

// SetActive toggles public visibility of a resume.
func (s *Service) SetActive(ctx context.Context, userID, id string, active bool) (Resume, error) {
	res, err := s.Repo.SetActive(ctx, userID, id, active)
	if errors.Is(err, ErrNotFound) {
		return Resume{}, apperr.NotFound("Resume not found")
	}
	return res, err
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	err := s.Repo.Delete(ctx, userID, id)
	if errors.Is(err, ErrNotFound) {
		return apperr.NotFound("Resume not found")
	}
	return err
}
