// Package resumedoc defines the structured resume document shared by profiles and tailored
// resumes, and the schema every LLM output must satisfy.
package resumedoc

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// PresentSentinel marks an experience entry that has not ended.
const PresentSentinel = "Present"

// Document is the structured resume.
type Document struct {
	Name       string       `json:"name"`
	Headline   string       `json:"headline"`
	Email      string       `json:"email"`
	Phone      string       `json:"phone"`
	Location   string       `json:"location"`
	LinkedIn   string       `json:"linkedin"`
	Summary    string       `json:"summary"`
	Experience []Experience `json:"experience"`
	Education  []Education  `json:"education"`
	Skills     []string     `json:"skills"`
}

// Experience is one employment entry. Bullets keep insertion order.
type Experience struct {
	Title     string   `json:"title"`
	Company   string   `json:"company"`
	Location  string   `json:"location,omitempty"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	Bullets   []string `json:"bullets"`
}

// IsCurrent reports whether the entry ends with the "present" sentinel.
func (e Experience) IsCurrent() bool {
	return strings.EqualFold(strings.TrimSpace(e.EndDate), PresentSentinel)
}

// Education is one education entry.
type Education struct {
	Degree string `json:"degree"`
	School string `json:"school"`
	Year   string `json:"year"`
	Grade  string `json:"gpa,omitempty"`
}

// Normalize guarantees every list is non-nil and trims whitespace, so the serialized document
// always carries the required top-level arrays.
func (d *Document) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Headline = strings.TrimSpace(d.Headline)
	d.Email = strings.TrimSpace(d.Email)
	d.Phone = strings.TrimSpace(d.Phone)
	d.Location = strings.TrimSpace(d.Location)
	d.LinkedIn = strings.TrimSpace(d.LinkedIn)
	d.Summary = strings.TrimSpace(d.Summary)
	if d.Experience == nil {
		d.Experience = []Experience{}
	}
	for i := range d.Experience {
		exp := &d.Experience[i]
		exp.Title = strings.TrimSpace(exp.Title)
		exp.Company = strings.TrimSpace(exp.Company)
		exp.Location = strings.TrimSpace(exp.Location)
		exp.StartDate = strings.TrimSpace(exp.StartDate)
		exp.EndDate = strings.TrimSpace(exp.EndDate)
		if exp.IsCurrent() {
			exp.EndDate = PresentSentinel
		}
		exp.Bullets = compact(exp.Bullets)
	}
	if d.Education == nil {
		d.Education = []Education{}
	}
	for i := range d.Education {
		ed := &d.Education[i]
		ed.Degree = strings.TrimSpace(ed.Degree)
		ed.School = strings.TrimSpace(ed.School)
		ed.Year = strings.TrimSpace(ed.Year)
		ed.Grade = strings.TrimSpace(ed.Grade)
	}
	d.Skills = compact(d.Skills)
}

func compact(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Value stores the document as JSONB.
func (d Document) Value() (driver.Value, error) {
	d.Normalize()
	return json.Marshal(d)
}

// Scan loads the document from a JSONB column.
func (d *Document) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*d = Document{}
		d.Normalize()
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("resumedoc: cannot scan %T", src)
	}
	var out Document
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("resumedoc: %w", err)
	}
	out.Normalize()
	*d = out
	return nil
}

// ErrInvalidDocument is returned when raw JSON does not satisfy the resume schema.
var ErrInvalidDocument = errors.New("invalid resume document")
