package resumedoc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// schemaJSON is the fixed target shape sent to (and enforced on) the language model.
const schemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "name": {"type": ["string", "null"]},
    "headline": {"type": ["string", "null"]},
    "email": {"type": ["string", "null"]},
    "phone": {"type": ["string", "null"]},
    "location": {"type": ["string", "null"]},
    "linkedin": {"type": ["string", "null"]},
    "summary": {"type": ["string", "null"]},
    "experience": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "title": {"type": ["string", "null"]},
          "company": {"type": ["string", "null"]},
          "location": {"type": ["string", "null"]},
          "start_date": {"type": ["string", "null"]},
          "end_date": {"type": ["string", "null"]},
          "bullets": {"type": "array", "items": {"type": "string"}}
        }
      }
    },
    "education": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "degree": {"type": ["string", "null"]},
          "school": {"type": ["string", "null"]},
          "year": {"type": ["string", "number", "null"]},
          "gpa": {"type": ["string", "number", "null"]}
        }
      }
    },
    "skills": {"type": "array", "items": {"type": "string"}}
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(schemaJSON)

// compiledSchema is built once; the schema is a constant so a failure here is a programming error.
var compiledSchema = mustCompile()

func mustCompile() *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(schemaLoader)
	if err != nil {
		panic(fmt.Sprintf("resumedoc: compile schema: %v", err))
	}
	return s
}

// Validate checks raw JSON against the resume schema.
func Validate(raw []byte) error {
	res, err := compiledSchema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidDocument, strings.Join(msgs, "; "))
}

// Parse validates raw model output and decodes it into a normalized Document.
func Parse(raw []byte) (Document, error) {
	raw = bytes.TrimSpace(stripCodeFence(raw))
	if len(raw) == 0 || raw[0] != '{' {
		return Document{}, fmt.Errorf("%w: expected a JSON object", ErrInvalidDocument)
	}
	if err := Validate(raw); err != nil {
		return Document{}, err
	}
	var loose looseDocument
	if err := json.Unmarshal(raw, &loose); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	doc := loose.toDocument()
	doc.Normalize()
	return doc, nil
}

// TopLevelKeys returns the keys present in a raw JSON object.
func TopLevelKeys(raw []byte) map[string]bool {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(bytes.TrimSpace(stripCodeFence(raw)), &m); err != nil {
		return nil
	}
	keys := make(map[string]bool, len(m))
	for k, v := range m {
		if string(v) != "null" {
			keys[k] = true
		}
	}
	return keys
}

// SchemaJSON exposes the target schema for prompts.
func SchemaJSON() string { return schemaJSON }

// stripCodeFence tolerates models that wrap JSON in a markdown fence despite instructions.
func stripCodeFence(raw []byte) []byte {
	trimmed := bytes.TrimSpace(raw)
	if !bytes.HasPrefix(trimmed, []byte("```")) {
		return trimmed
	}
	trimmed = bytes.TrimPrefix(trimmed, []byte("```"))
	if nl := bytes.IndexByte(trimmed, '\n'); nl >= 0 {
		trimmed = trimmed[nl+1:]
	}
	return bytes.TrimSuffix(bytes.TrimSpace(trimmed), []byte("```"))
}

// looseDocument accepts nulls and numeric years before coercing into Document.
type looseDocument struct {
	Name       *string           `json:"name"`
	Headline   *string           `json:"headline"`
	Email      *string           `json:"email"`
	Phone      *string           `json:"phone"`
	Location   *string           `json:"location"`
	LinkedIn   *string           `json:"linkedin"`
	Summary    *string           `json:"summary"`
	Experience []looseExperience `json:"experience"`
	Education  []looseEducation  `json:"education"`
	Skills     []string          `json:"skills"`
}

type looseExperience struct {
	Title     *string  `json:"title"`
	Company   *string  `json:"company"`
	Location  *string  `json:"location"`
	StartDate *string  `json:"start_date"`
	EndDate   *string  `json:"end_date"`
	Bullets   []string `json:"bullets"`
}

type looseEducation struct {
	Degree *string          `json:"degree"`
	School *string          `json:"school"`
	Year   *json.RawMessage `json:"year"`
	Grade  *json.RawMessage `json:"gpa"`
}

func (l looseDocument) toDocument() Document {
	doc := Document{
		Name:     str(l.Name),
		Headline: str(l.Headline),
		Email:    str(l.Email),
		Phone:    str(l.Phone),
		Location: str(l.Location),
		LinkedIn: str(l.LinkedIn),
		Summary:  str(l.Summary),
		Skills:   l.Skills,
	}
	for _, e := range l.Experience {
		doc.Experience = append(doc.Experience, Experience{
			Title:     str(e.Title),
			Company:   str(e.Company),
			Location:  str(e.Location),
			StartDate: str(e.StartDate),
			EndDate:   str(e.EndDate),
			Bullets:   e.Bullets,
		})
	}
	for _, e := range l.Education {
		doc.Education = append(doc.Education, Education{
			Degree: str(e.Degree),
			School: str(e.School),
			Year:   scalar(e.Year),
			Grade:  scalar(e.Grade),
		})
	}
	return doc
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func scalar(raw *json.RawMessage) string {
	if raw == nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(*raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(*raw, &n); err == nil {
		return n.String()
	}
	return ""
}
