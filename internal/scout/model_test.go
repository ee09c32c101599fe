package scout

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoerceJobCandidateKeys(t *testing.T) {
	raw := json.RawMessage(`{
		"jobTitle": "Backend Engineer",
		"company": {"name": "Acme"},
		"formattedLocation": "Berlin",
		"link": "https://example.com/jobs/1",
		"descriptionHtml": "<p>Build <strong>APIs</strong></p>",
		"listedAt": 1735689600000
	}`)
	job, ok := coerceJob(raw)
	assert.True(t, ok)
	assert.Equal(t, "job", job.Kind)
	assert.Equal(t, "Backend Engineer", job.Title)
	assert.Equal(t, "Acme", job.Company)
	assert.Equal(t, "Berlin", job.Location)
	assert.Equal(t, "https://example.com/jobs/1", job.URL)
	assert.Contains(t, job.Description, "**APIs**")
	assert.NotContains(t, job.Description, "<p>")
	assert.Equal(t, "1735689600000", job.PostedAt)
}

func TestCoerceDropsItemsWithoutIdentity(t *testing.T) {
	_, ok := coerceJob(json.RawMessage(`{"companyName": "Acme", "location": "Remote"}`))
	assert.False(t, ok)
	_, ok = coercePerson(json.RawMessage(`{"headline": "Engineer"}`))
	assert.False(t, ok)
	_, ok = coerceJob(json.RawMessage(`["not", "an", "object"]`))
	assert.False(t, ok)

	job, ok := coerceJob(json.RawMessage(`{"url": "https://example.com/j"}`))
	assert.True(t, ok)
	assert.Empty(t, job.Title)
}

func TestCoercePersonNameFallback(t *testing.T) {
	person, ok := coercePerson(json.RawMessage(`{
		"firstName": "Ada",
		"lastName": "Lovelace",
		"occupation": "Analyst",
		"profileUrl": "https://linkedin.com/in/ada"
	}`))
	assert.True(t, ok)
	assert.Equal(t, PersonResult{
		Kind:     "person",
		Name:     "Ada Lovelace",
		Headline: "Analyst",
		URL:      "https://linkedin.com/in/ada",
	}, person)
}

func TestStringValueIgnoresComposites(t *testing.T) {
	item := map[string]any{"title": []any{"x"}, "name": map[string]any{}, "position": "Lead"}
	assert.Equal(t, "Lead", firstString(item, jobTitleKeys))
	assert.Equal(t, "2.5", stringValue(2.5))
}
