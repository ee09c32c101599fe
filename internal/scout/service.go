// Package scout proxies job and people searches to the scraping actors
// and coerces their loosely shaped items into typed results.
package scout

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"resume-tailor/internal/scraper"
	"resume-tailor/internal/shared/apperr"
	"resume-tailor/internal/shared/metrics"
	"resume-tailor/internal/shared/telemetry"
)

// Searcher is the subset of the scraper client used here.
type Searcher interface {
	Configured() bool
	SearchJobs(ctx context.Context, query, location string) ([]json.RawMessage, error)
	SearchPeople(ctx context.Context, query, location string) ([]json.RawMessage, error)
}

type Service struct {
	Scraper Searcher
}

func NewService(s Searcher) *Service {
	return &Service{Scraper: s}
}

// Search runs req against the matching actor. At most scraper.SearchLimit results are returned.
func (s *Service) Search(ctx context.Context, req Request) ([]Result, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, apperr.Validation("Search query is required")
	}
	kind := SearchType(strings.ToLower(strings.TrimSpace(string(req.Type))))
	if kind != SearchJobs && kind != SearchPeople {
		return nil, apperr.Validation("Invalid search type")
	}
	if s.Scraper == nil || !s.Scraper.Configured() {
		metrics.IncScout(string(kind), "configuration_error")
		return nil, apperr.Configuration("scraper api token is missing")
	}

	var (
		items []json.RawMessage
		err   error
	)
	if kind == SearchJobs {
		items, err = s.Scraper.SearchJobs(ctx, query, req.Location)
	} else {
		items, err = s.Scraper.SearchPeople(ctx, query, req.Location)
	}
	if errors.Is(err, scraper.ErrNoData) {
		// An empty dataset is a search with no hits.
		metrics.IncScout(string(kind), "empty")
		return []Result{}, nil
	}
	if err != nil {
		return nil, s.searchError(kind, err)
	}

	results := make([]Result, 0, len(items))
	for _, raw := range items {
		if len(results) == scraper.SearchLimit {
			break
		}
		if kind == SearchJobs {
			if job, ok := coerceJob(raw); ok {
				results = append(results, job)
			}
			continue
		}
		if person, ok := coercePerson(raw); ok {
			results = append(results, person)
		}
	}
	metrics.IncScout(string(kind), "ok")
	telemetry.Info("scout.search", map[string]any{
		"type":    string(kind),
		"items":   len(items),
		"results": len(results),
	})
	return results, nil
}

func (s *Service) searchError(kind SearchType, err error) error {
	switch {
	case errors.Is(err, scraper.ErrNotConfigured):
		metrics.IncScout(string(kind), "configuration_error")
		return apperr.Wrap(apperr.KindConfiguration, "scraper api token is missing", err)
	case errors.Is(err, scraper.ErrUnavailable):
		metrics.IncScout(string(kind), "unavailable")
		return apperr.Wrap(apperr.KindUpstream, "search provider is unavailable, try again later", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		metrics.IncScout(string(kind), "timeout")
		return apperr.Wrap(apperr.KindUpstream, "search timed out", err)
	}
	metrics.IncScout(string(kind), "error")
	telemetry.Error("scout.search_failed", map[string]any{"type": string(kind), "error": err.Error()})
	return apperr.Wrap(apperr.KindUpstream, "Failed to fetch data", err)
}
