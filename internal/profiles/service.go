package profiles

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-tailor/internal/extract"
	"resume-tailor/internal/resumedoc"
	"resume-tailor/internal/scraper"
	"resume-tailor/internal/shared/apperr"
	"resume-tailor/internal/shared/metrics"
	"resume-tailor/internal/shared/storage/object"
	"resume-tailor/internal/shared/telemetry"
)

// Structurer converts profile source text into a resume document.
type Structurer interface {
	Structure(ctx context.Context, source string) (resumedoc.Document, error)
}

// ProfileScraper fetches a public profile record.
type ProfileScraper interface {
	Configured() bool
	ScrapeProfile(ctx context.Context, profileURL string) (json.RawMessage, error)
}

// linkedInProfileURL accepts https://linkedin.com/in/<handle>, optional country subdomain or www.
var linkedInProfileURL = regexp.MustCompile(`(?i)^https?://([a-z]{2,3}\.)?(www\.)?linkedin\.com/in/[^/?#]+/?`)

const scraperUnavailableMessage = "We could not fetch this profile automatically. Paste your profile text using the manual option instead."

// ImportInput carries exactly one of URL or Text.
type ImportInput struct {
	URL  string `json:"profileUrl"`
	Text string `json:"profileText"`
}

// Document is an uploaded resume file.
type Document struct {
	FileName    string
	ContentType string
	Data        []byte
}

type Service struct {
	Repo       Repo
	Structurer Structurer
	Scraper    ProfileScraper
	Store      object.Store
}

// Import ingests a profile from a LinkedIn URL or pasted text.
func (s *Service) Import(ctx context.Context, userID string, in ImportInput) (Profile, error) {
	url := strings.TrimSpace(in.URL)
	text := strings.TrimSpace(in.Text)
	switch {
	case url != "" && text != "":
		return Profile{}, apperr.Validation("provide either a profile URL or profile text, not both")
	case url == "" && text == "":
		return Profile{}, apperr.Validation("no URL or text provided")
	case url != "":
		return s.importURL(ctx, userID, url)
	default:
		return s.ingest(ctx, userID, SourceText, text, "")
	}
}

func (s *Service) importURL(ctx context.Context, userID, url string) (Profile, error) {
	if !linkedInProfileURL.MatchString(url) {
		return Profile{}, apperr.Validation("profile URL must be a LinkedIn profile link (linkedin.com/in/...)")
	}
	if s.Scraper == nil || !s.Scraper.Configured() {
		metrics.IncIngest(string(SourceLinkedIn), "configuration_error")
		return Profile{}, apperr.Configuration("profile scraping is not configured")
	}
	record, err := s.Scraper.ScrapeProfile(ctx, url)
	if err != nil {
		telemetry.Warn("profiles.scrape_failed", map[string]any{"user_id": userID, "error": err.Error()})
		switch {
		case errors.Is(err, scraper.ErrUnavailable):
			metrics.IncIngest(string(SourceLinkedIn), "retryable")
			return Profile{}, apperr.Wrap(apperr.KindRetryableIngestion, scraperUnavailableMessage, err)
		case errors.Is(err, scraper.ErrNotConfigured):
			metrics.IncIngest(string(SourceLinkedIn), "configuration_error")
			return Profile{}, apperr.Wrap(apperr.KindConfiguration, "profile scraping is not configured", err)
		case errors.Is(err, context.Canceled):
			return Profile{}, err
		default:
			metrics.IncIngest(string(SourceLinkedIn), "error")
			return Profile{}, apperr.Wrap(apperr.KindUpstream, "failed to fetch profile", err)
		}
	}
	return s.ingest(ctx, userID, SourceLinkedIn, compactJSON(record), "")
}

// ImportDocument ingests an uploaded PDF or DOCX resume. The original file is kept in the
// object store and its key recorded on the profile.
func (s *Service) ImportDocument(ctx context.Context, userID string, doc Document) (Profile, error) {
	if len(doc.Data) == 0 {
		return Profile{}, apperr.Validation("file is empty")
	}
	if len(doc.Data) > extract.MaxUploadBytes {
		return Profile{}, apperr.Validation("file exceeds the 10 MB limit")
	}
	if !extract.IsSupported(doc.ContentType, doc.FileName, doc.Data) {
		return Profile{}, apperr.Validation("only PDF and DOCX files are supported")
	}
	text, err := extract.Text(ctx, doc.Data, doc.ContentType, doc.FileName)
	if err != nil {
		metrics.IncIngest(string(SourcePDF), "unreadable")
		return Profile{}, apperr.Wrap(apperr.KindUnreadableDocument, "could not read any text from this document", err)
	}

	var key string
	if s.Store != nil {
		obj, err := s.Store.Put(ctx, userID, doc.FileName, doc.ContentType, bytes.NewReader(doc.Data))
		if err != nil {
			return Profile{}, apperr.Wrap(apperr.KindInternal, "failed to store document", err)
		}
		key = obj.Key
	}
	p, err := s.ingest(ctx, userID, SourcePDF, text, key)
	if err != nil && key != "" {
		if delErr := s.Store.Delete(context.WithoutCancel(ctx), key); delErr != nil {
			telemetry.Warn("profiles.document_cleanup_failed", map[string]any{"key": key, "error": delErr.Error()})
		}
	}
	return p, err
}

// CreateManual builds a profile from hand-entered blocks without calling the model.
func (s *Service) CreateManual(ctx context.Context, userID, email string, in ManualInput) (Profile, error) {
	if strings.TrimSpace(in.Summary) == "" {
		return Profile{}, apperr.Validation("summary is required")
	}
	doc := BuildManualDocument(in, email)
	p := Profile{
		ID:        uuid.NewString(),
		UserID:    userID,
		FullName:  doc.Name,
		Headline:  doc.Headline,
		Summary:   doc.Summary,
		Source:    SourceManual,
		RawSource: in.Summary,
		Content:   doc,
		Version:   1,
	}
	if p.Headline == "" {
		p.Headline = "Manual CV"
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		return Profile{}, err
	}
	metrics.IncIngest(string(SourceManual), "ok")
	return s.Repo.GetByID(ctx, userID, p.ID)
}

func (s *Service) ingest(ctx context.Context, userID string, source Source, raw, documentKey string) (Profile, error) {
	doc, err := s.Structurer.Structure(ctx, raw)
	if err != nil {
		metrics.IncIngest(string(source), string(apperr.KindOf(err)))
		return Profile{}, err
	}
	name := doc.Name
	if name == "" {
		name = "Unknown"
	}
	p := Profile{
		ID:                uuid.NewString(),
		UserID:            userID,
		FullName:          name,
		Headline:          doc.Headline,
		Summary:           doc.Summary,
		Source:            source,
		SourceDocumentKey: documentKey,
		RawSource:         raw,
		Content:           doc,
		Version:           1,
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		metrics.IncIngest(string(source), "error")
		return Profile{}, err
	}
	metrics.IncIngest(string(source), "ok")
	telemetry.Info("profiles.ingested", map[string]any{"user_id": userID, "profile_id": p.ID, "source": string(source)})
	return s.Repo.GetByID(ctx, userID, p.ID)
}

func (s *Service) Get(ctx context.Context, userID, id string) (Profile, error) {
	p, err := s.Repo.GetByID(ctx, userID, id)
	if errors.Is(err, ErrNotFound) {
		return Profile{}, apperr.NotFound("Profile not found")
	}
	return p, err
}

func (s *Service) List(ctx context.Context, userID string) ([]Profile, error) {
	return s.Repo.List(ctx, userID)
}

// Update applies a settings patch. A stale version yields a conflict rather than silently
// overwriting a concurrent edit.
func (s *Service) Update(ctx context.Context, userID, id string, patch Patch) (Profile, error) {
	if patch.Version <= 0 {
		return Profile{}, apperr.Validation("version is required")
	}
	if patch.Headline == nil && patch.Summary == nil {
		return Profile{}, apperr.Validation("nothing to update")
	}
	current, err := s.Get(ctx, userID, id)
	if err != nil {
		return Profile{}, err
	}
	next := current
	if patch.Headline != nil {
		next.Headline = strings.TrimSpace(*patch.Headline)
		next.Content.Headline = next.Headline
	}
	if patch.Summary != nil {
		next.Summary = strings.TrimSpace(*patch.Summary)
		next.Content.Summary = next.Summary
	}
	updated, err := s.Repo.Update(ctx, next, patch.Version)
	switch {
	case errors.Is(err, ErrNotFound):
		return Profile{}, apperr.NotFound("Profile not found")
	case errors.Is(err, ErrVersionConflict):
		return Profile{}, apperr.Wrap(apperr.KindConflict, "profile was changed elsewhere, reload and try again", err)
	case err != nil:
		return Profile{}, err
	}
	return updated, nil
}

// Delete removes a profile and its stored source document.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	p, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperr.NotFound("Profile not found")
		}
		return err
	}
	if p.SourceDocumentKey != "" && s.Store != nil {
		if err := s.Store.Delete(ctx, p.SourceDocumentKey); err != nil {
			telemetry.Warn("profiles.document_delete_failed", map[string]any{"profile_id": id, "error": err.Error()})
		}
	}
	return nil
}

// EarliestCreatedAt returns when the user's first profile was created.
func (s *Service) EarliestCreatedAt(ctx context.Context, userID string) (*time.Time, error) {
	return s.Repo.EarliestCreatedAt(ctx, userID)
}

func compactJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
