package scraper

import (
	"context"
	"encoding/json"
	"strings"
)

// SearchLimit caps scout searches.
const SearchLimit = 5

// ScrapeProfile returns the scraped profile record for a LinkedIn profile URL.
func (c *Client) ScrapeProfile(ctx context.Context, profileURL string) (json.RawMessage, error) {
	items, err := c.Run(ctx, c.actors.profile, map[string]any{
		"profileUrls": []string{profileURL},
	}, 1)
	if err != nil {
		return nil, err
	}
	return items[0], nil
}

// SearchJobs returns raw job posting items for a keyword query.
func (c *Client) SearchJobs(ctx context.Context, query, location string) ([]json.RawMessage, error) {
	input := map[string]any{
		"searchKeywords": []string{query},
		"limit":          SearchLimit,
	}
	if loc := strings.TrimSpace(location); loc != "" {
		input["location"] = loc
	}
	return c.Run(ctx, c.actors.jobs, input, SearchLimit)
}

// SearchPeople returns raw people search items for a query.
func (c *Client) SearchPeople(ctx context.Context, query, location string) ([]json.RawMessage, error) {
	input := map[string]any{
		"searchQuery": query,
		"searchType":  "people",
		"limit":       SearchLimit,
	}
	if loc := strings.TrimSpace(location); loc != "" {
		input["location"] = loc
	}
	return c.Run(ctx, c.actors.people, input, SearchLimit)
}
