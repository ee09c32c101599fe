// Package structuring turns free-form profile text into a resume document via the language model.
package structuring

import (
	"context"
	"errors"
	"strings"

	"resume-tailor/internal/llm"
	"resume-tailor/internal/resumedoc"
	"resume-tailor/internal/shared/apperr"
	"resume-tailor/internal/shared/telemetry"
)

// Service structures raw profile sources.
type Service struct {
	LLM llm.Client
}

// New returns a structuring service.
func New(client llm.Client) *Service {
	return &Service{LLM: client}
}

// Structure converts source text (pasted, scraped JSON, or extracted from a document) into a
// validated, normalized document. Malformed model output is not repaired or retried.
func (s *Service) Structure(ctx context.Context, source string) (resumedoc.Document, error) {
	if strings.TrimSpace(source) == "" {
		return resumedoc.Document{}, apperr.Validation("profile source is empty")
	}
	raw, err := s.LLM.Complete(ctx, llm.Request{
		System:      llm.ParsePrompt(),
		User:        source,
		Temperature: llm.ParseTemperature,
		JSON:        true,
	})
	if err != nil {
		if errors.Is(err, llm.ErrNotConfigured) {
			return resumedoc.Document{}, apperr.Wrap(apperr.KindConfiguration, "language model is not configured", err)
		}
		telemetry.Error("structuring.llm_failed", map[string]any{"error": err.Error()})
		return resumedoc.Document{}, apperr.Wrap(apperr.KindStructuring, "failed to parse profile", err)
	}

	doc, err := resumedoc.Parse([]byte(raw))
	if err != nil {
		telemetry.Warn("structuring.invalid_output", map[string]any{"error": err.Error()})
		return resumedoc.Document{}, apperr.Wrap(apperr.KindStructuring, "failed to parse profile", err)
	}
	return doc, nil
}
