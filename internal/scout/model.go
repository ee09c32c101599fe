package scout

import (
	"encoding/json"
	"fmt"
	"strings"

	"resume-tailor/internal/shared/util"
)

// SearchType selects the actor a query is routed to.
type SearchType string

const (
	SearchJobs   SearchType = "jobs"
	SearchPeople SearchType = "people"
)

// Request is the body of POST /scout.
type Request struct {
	Query    string     `json:"query"`
	Type     SearchType `json:"type"`
	Location string     `json:"location,omitempty"`
}

// Result is either a JobResult or a PersonResult.
type Result interface {
	resultKind() string
}

type JobResult struct {
	Kind        string `json:"kind"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
	PostedAt    string `json:"postedAt,omitempty"`
}

func (JobResult) resultKind() string { return "job" }

type PersonResult struct {
	Kind     string `json:"kind"`
	Name     string `json:"name"`
	Headline string `json:"headline"`
	Location string `json:"location,omitempty"`
	URL      string `json:"url"`
}

func (PersonResult) resultKind() string { return "person" }

// Candidate keys differ between actor versions; the first non-empty one wins.
var (
	jobTitleKeys       = []string{"title", "jobTitle", "position", "name"}
	jobCompanyKeys     = []string{"companyName", "company", "company_name", "organization"}
	jobLocationKeys    = []string{"location", "jobLocation", "place", "formattedLocation"}
	jobURLKeys         = []string{"jobUrl", "link", "url", "applyUrl", "jobPostingUrl"}
	jobDescriptionKeys = []string{"descriptionHtml", "description", "descriptionText", "jobDescription"}
	jobPostedKeys      = []string{"postedAt", "publishedAt", "postedTime", "listedAt", "datePosted"}

	personNameKeys     = []string{"fullName", "name", "title"}
	personHeadlineKeys = []string{"headline", "occupation", "subtitle", "summary", "jobTitle"}
	personLocationKeys = []string{"location", "geoLocationName", "addressWithCountry"}
	personURLKeys      = []string{"profileUrl", "linkedinUrl", "url", "navigationUrl", "link"}
)

func coerceJob(raw json.RawMessage) (JobResult, bool) {
	item, ok := decodeItem(raw)
	if !ok {
		return JobResult{}, false
	}
	job := JobResult{
		Kind:        "job",
		Title:       firstString(item, jobTitleKeys),
		Company:     firstString(item, jobCompanyKeys),
		Location:    firstString(item, jobLocationKeys),
		URL:         firstString(item, jobURLKeys),
		Description: util.MarkdownFromHTML(firstString(item, jobDescriptionKeys)),
		PostedAt:    firstString(item, jobPostedKeys),
	}
	if job.Company == "" {
		job.Company = nestedString(item, "company", "name")
	}
	if job.Title == "" && job.URL == "" {
		return JobResult{}, false
	}
	return job, true
}

func coercePerson(raw json.RawMessage) (PersonResult, bool) {
	item, ok := decodeItem(raw)
	if !ok {
		return PersonResult{}, false
	}
	person := PersonResult{
		Kind:     "person",
		Name:     firstString(item, personNameKeys),
		Headline: firstString(item, personHeadlineKeys),
		Location: firstString(item, personLocationKeys),
		URL:      firstString(item, personURLKeys),
	}
	if person.Name == "" {
		first, last := firstString(item, []string{"firstName"}), firstString(item, []string{"lastName"})
		person.Name = strings.TrimSpace(first + " " + last)
	}
	if person.Name == "" && person.URL == "" {
		return PersonResult{}, false
	}
	return person, true
}

func decodeItem(raw json.RawMessage) (map[string]any, bool) {
	var item map[string]any
	if err := json.Unmarshal(raw, &item); err != nil || item == nil {
		return nil, false
	}
	return item, true
}

func firstString(item map[string]any, keys []string) string {
	for _, key := range keys {
		if s := stringValue(item[key]); s != "" {
			return s
		}
	}
	return ""
}

func nestedString(item map[string]any, key, inner string) string {
	obj, ok := item[key].(map[string]any)
	if !ok {
		return ""
	}
	return stringValue(obj[inner])
}

// stringValue accepts strings and numbers; objects and arrays are ignored.
func stringValue(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	case json.Number:
		return t.String()
	}
	return ""
}
