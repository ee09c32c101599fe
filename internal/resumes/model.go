package resumes

import (
	"time"

	"resume-tailor/internal/resumedoc"
)

// DefaultCompany labels job posts whose employer is not known.
const DefaultCompany = "TBD"

// Resume is a profile tailored to one job description, published under PublicLinkSlug.
type Resume struct {
	ID             string             `json:"id"`
	UserID         string             `json:"userId"`
	ProfileID      *string            `json:"profileId"`
	JobTitle       string             `json:"jobTitle"`
	JobDescription string             `json:"jobDescription"`
	Content        resumedoc.Document `json:"content"`
	PublicLinkSlug string             `json:"publicLinkSlug"`
	IsActive       bool               `json:"isActive"`
	CreatedAt      time.Time          `json:"createdAt"`
}

// JobPost records the job description a resume was tailored against.
type JobPost struct {
	ID          string
	UserID      string
	ResumeID    string
	Title       string
	Company     string
	Description string
}

// Version is a snapshot of a resume's content.
type Version struct {
	ID            string
	ResumeID      string
	VersionNumber int
	Content       resumedoc.Document
}

// SharedLink maps a public slug to a resume.
type SharedLink struct {
	ID       string
	ResumeID string
	Slug     string
	IsActive bool
}

// Records are the auxiliary rows written alongside a new resume.
type Records struct {
	JobPost JobPost
	Version Version
	Link    SharedLink
}

// CreateInput is the tailoring request body.
type CreateInput struct {
	ProfileID      string `json:"profileId"`
	JobDescription string `json:"jobDescription"`
}
