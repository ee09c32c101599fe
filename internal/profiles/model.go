package profiles

import (
	"time"

	"resume-tailor/internal/resumedoc"
)

// Source records how a profile was ingested.
type Source string

const (
	SourceLinkedIn Source = "linkedin"
	SourceText     Source = "text"
	SourcePDF      Source = "pdf"
	SourceManual   Source = "manual"
)

// Profile is a user's base resume. A user may hold several.
type Profile struct {
	ID                string             `json:"id"`
	UserID            string             `json:"userId"`
	FullName          string             `json:"fullName"`
	Headline          string             `json:"headline"`
	Summary           string             `json:"summary"`
	Source            Source             `json:"source"`
	SourceDocumentKey string             `json:"sourceDocumentKey,omitempty"`
	RawSource         string             `json:"-"`
	Content           resumedoc.Document `json:"content"`
	Version           int                `json:"version"`
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
}

// Patch is a partial settings update guarded by the version the client last read.
type Patch struct {
	Headline *string `json:"headline"`
	Summary  *string `json:"summary"`
	Version  int     `json:"version"`
}

// ManualInput is hand-entered resume data, structured without the language model.
type ManualInput struct {
	FullName   string `json:"fullName"`
	Headline   string `json:"headline"`
	Summary    string `json:"summary"`
	Experience string `json:"experience"`
	Education  string `json:"education"`
	Skills     string `json:"skills"`
}
