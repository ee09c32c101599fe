// Package access decides whether a published resume may be shown and serves public pages.
package access

import (
	"time"

	"resume-tailor/internal/billing"
	"resume-tailor/internal/resumes"
)

// TrialPeriod is how long an account may publish without a subscription.
const TrialPeriod = 14 * 24 * time.Hour

// Visibility is the outcome of a public access check.
type Visibility string

const (
	NotFound Visibility = "not_found"
	Gated    Visibility = "gated"
	Visible  Visibility = "visible"
)

// ResolveVisibility applies the publish gate. The trial starts at profileCreatedAt when known,
// otherwise at the resume's creation, and is open while now is strictly before its end.
func ResolveVisibility(resume *resumes.Resume, sub *billing.Subscription, profileCreatedAt *time.Time, now time.Time) Visibility {
	if resume == nil || !resume.IsActive {
		return NotFound
	}
	if sub.IsActive() {
		return Visible
	}
	if now.Before(TrialEnd(resume.CreatedAt, profileCreatedAt)) {
		return Visible
	}
	return Gated
}

// TrialEnd returns the end of the trial window.
func TrialEnd(fallbackStart time.Time, start *time.Time) time.Time {
	if start != nil {
		return start.Add(TrialPeriod)
	}
	return fallbackStart.Add(TrialPeriod)
}
