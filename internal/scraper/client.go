// Package scraper runs hosted scraping actors (Apify) and returns their dataset items.
package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"resume-tailor/internal/shared/telemetry"
)

var (
	// ErrNotConfigured is returned when no API token is set.
	ErrNotConfigured = errors.New("scraper api token is not configured")
	// ErrUnavailable covers quota exhaustion, paid/expired actors, missing actors and empty results.
	// Callers should steer the user to a manual path rather than retry.
	ErrUnavailable = errors.New("scraper unavailable")
	// ErrNoData is the empty-dataset case of ErrUnavailable.
	ErrNoData = fmt.Errorf("%w: no data retrieved, the source may have blocked the request", ErrUnavailable)
)

// Options configures the client.
type Options struct {
	BaseURL string
	Token   string
	// Timeout bounds a whole actor run including polling.
	Timeout      time.Duration
	PollInterval time.Duration
	MaxPoll      time.Duration
	HTTPClient   *http.Client

	ProfileActor string
	JobsActor    string
	PeopleActor  string
}

// Client talks to the Apify v2 REST API.
type Client struct {
	baseURL      string
	token        string
	timeout      time.Duration
	pollInterval time.Duration
	maxPoll      time.Duration
	http         *http.Client
	actors       actors
}

type actors struct {
	profile string
	jobs    string
	people  string
}

// New builds a client. A blank token yields a client whose calls return ErrNotConfigured.
func New(opts Options) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
		token:        strings.TrimSpace(opts.Token),
		timeout:      opts.Timeout,
		pollInterval: opts.PollInterval,
		maxPoll:      opts.MaxPoll,
		http:         opts.HTTPClient,
		actors: actors{
			profile: opts.ProfileActor,
			jobs:    opts.JobsActor,
			people:  opts.PeopleActor,
		},
	}
	if c.baseURL == "" {
		c.baseURL = "https://api.apify.com"
	}
	if c.timeout <= 0 {
		c.timeout = 120 * time.Second
	}
	if c.pollInterval <= 0 {
		c.pollInterval = time.Second
	}
	if c.maxPoll <= 0 {
		c.maxPoll = 10 * time.Second
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 30 * time.Second}
	}
	return c
}

// Configured reports whether an API token is present.
func (c *Client) Configured() bool {
	return c != nil && c.token != ""
}

type runEnvelope struct {
	Data struct {
		ID               string `json:"id"`
		Status           string `json:"status"`
		StatusMessage    string `json:"statusMessage"`
		DefaultDatasetID string `json:"defaultDatasetId"`
	} `json:"data"`
}

type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Run starts actor with input, waits for it to finish, and returns up to limit dataset items
// (limit <= 0 means all). The request context cancels polling.
func (c *Client) Run(ctx context.Context, actor string, input any, limit int) ([]json.RawMessage, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	started := time.Now()
	run, err := c.startRun(ctx, actor, input)
	if err != nil {
		return nil, err
	}
	run, err = c.waitForRun(ctx, run)
	if err != nil {
		return nil, err
	}
	items, err := c.datasetItems(ctx, run.Data.DefaultDatasetID, limit)
	if err != nil {
		return nil, err
	}
	telemetry.Info("scraper.run.complete", map[string]any{
		"actor":       actor,
		"run_id":      run.Data.ID,
		"items":       len(items),
		"duration_ms": time.Since(started).Milliseconds(),
	})
	if len(items) == 0 {
		return nil, ErrNoData
	}
	return items, nil
}

func (c *Client) startRun(ctx context.Context, actor string, input any) (runEnvelope, error) {
	payload, err := json.Marshal(input)
	if err != nil {
		return runEnvelope{}, fmt.Errorf("encode actor input: %w", err)
	}
	endpoint := c.endpoint("/v2/acts/"+url.PathEscape(actorPath(actor))+"/runs", nil)
	var run runEnvelope
	if err := c.do(ctx, http.MethodPost, endpoint, payload, &run); err != nil {
		return runEnvelope{}, fmt.Errorf("start actor %s: %w", actor, err)
	}
	if run.Data.ID == "" {
		return runEnvelope{}, fmt.Errorf("start actor %s: missing run id", actor)
	}
	return run, nil
}

func (c *Client) waitForRun(ctx context.Context, run runEnvelope) (runEnvelope, error) {
	if run.Data.Status == "SUCCEEDED" {
		return run, nil
	}
	endpoint := c.endpoint("/v2/actor-runs/"+url.PathEscape(run.Data.ID), nil)

	operation := func() (runEnvelope, error) {
		var current runEnvelope
		if err := c.do(ctx, http.MethodGet, endpoint, nil, &current); err != nil {
			if errors.Is(err, ErrUnavailable) {
				return runEnvelope{}, backoff.Permanent(err)
			}
			return runEnvelope{}, err
		}
		switch current.Data.Status {
		case "SUCCEEDED":
			return current, nil
		case "FAILED", "ABORTED", "TIMED-OUT":
			return runEnvelope{}, backoff.Permanent(classifyMessage(0, fmt.Sprintf("actor run %s: %s", strings.ToLower(current.Data.Status), current.Data.StatusMessage)))
		default:
			return runEnvelope{}, fmt.Errorf("actor run %s", strings.ToLower(current.Data.Status))
		}
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.pollInterval
	bo.MaxInterval = c.maxPoll
	done, err := backoff.Retry(ctx, operation, backoff.WithBackOff(bo), backoff.WithMaxElapsedTime(c.timeout))
	if err != nil {
		return runEnvelope{}, fmt.Errorf("wait for run %s: %w", run.Data.ID, err)
	}
	return done, nil
}

func (c *Client) datasetItems(ctx context.Context, datasetID string, limit int) ([]json.RawMessage, error) {
	if datasetID == "" {
		return nil, fmt.Errorf("%w: run has no dataset", ErrUnavailable)
	}
	query := url.Values{"format": {"json"}, "clean": {"true"}}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	endpoint := c.endpoint("/v2/datasets/"+url.PathEscape(datasetID)+"/items", query)
	var items []json.RawMessage
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &items); err != nil {
		return nil, fmt.Errorf("dataset %s: %w", datasetID, err)
	}
	return items, nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	if query == nil {
		query = url.Values{}
	}
	query.Set("token", c.token)
	return c.baseURL + path + "?" + query.Encode()
}

func (c *Client) do(ctx context.Context, method, endpoint string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		var apiErr apiError
		msg := strings.TrimSpace(string(raw))
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error.Message != "" {
			msg = apiErr.Error.Message
		}
		return classifyMessage(resp.StatusCode, msg)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Actor ids may be given as "user/name"; the REST path uses "user~name".
func actorPath(actor string) string {
	return strings.ReplaceAll(strings.TrimSpace(actor), "/", "~")
}

var unavailableMarkers = []string{
	"paid actor",
	"free trial has expired",
	"not found",
	"monthly usage",
	"usage limit",
	"exceeded",
}

func classifyMessage(status int, msg string) error {
	switch status {
	case http.StatusPaymentRequired, http.StatusForbidden, http.StatusNotFound:
		return fmt.Errorf("%w: status %d: %s", ErrUnavailable, status, msg)
	}
	lower := strings.ToLower(msg)
	for _, marker := range unavailableMarkers {
		if strings.Contains(lower, marker) {
			return fmt.Errorf("%w: %s", ErrUnavailable, msg)
		}
	}
	if status > 0 {
		return fmt.Errorf("status %d: %s", status, msg)
	}
	return errors.New(msg)
}
