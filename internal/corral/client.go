// Package corral talks to the Corral scheduling backend: the JSON schedule
// API, the server-rendered job edit partials, and the form-encoded save
// endpoint.
package corral

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Fetcher is the read side of the Corral API. Implemented by *Client; fakes
// implement it in tests.
type Fetcher interface {
	FetchSchedule(ctx context.Context) ([]JobSummary, error)
	FetchEditPartial(ctx context.Context, jobID string) (string, error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

// Client talks to the Corral HTTP backend.
type Client struct {
	baseURL     *url.URL
	http        *http.Client
	userAgent   string
	partialPath string
	savePath    string
}

const (
	defaultBaseURL     = "127.0.0.1:8053"
	defaultUserAgent   = "hitch/0.1"
	defaultPartialPath = "/jobs/edit"
	defaultSavePath    = "/jobs/save"
	requestTimeout     = 5 * time.Second

	// triggerHeader carries the backend's structured save notification,
	// a JSON payload such as {"jobSaved":{"jobId":42}}.
	triggerHeader = "HX-Trigger"
)

// NewClient builds a Client for the given base address. Paths fall back to
// the Corral defaults when blank.
func NewClient(base, partialPath, savePath string) (*Client, error) {
	u, err := parseBaseURL(base)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(partialPath) == "" {
		partialPath = defaultPartialPath
	}
	if strings.TrimSpace(savePath) == "" {
		savePath = defaultSavePath
	}
	return &Client{
		baseURL:     u,
		http:        &http.Client{Timeout: requestTimeout},
		userAgent:   defaultUserAgent,
		partialPath: partialPath,
		savePath:    savePath,
	}, nil
}

// SavePath returns the configured save endpoint, the fallback when a form
// declares no action of its own.
func (c *Client) SavePath() string {
	return c.savePath
}

// FetchSchedule retrieves the current job list.
func (c *Client) FetchSchedule(ctx context.Context) ([]JobSummary, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	rel := &url.URL{Path: "/api/jobs"}
	req, err := c.newRequest(ctx, http.MethodGet, rel, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("api /api/jobs returned status %d", resp.StatusCode)
	}
	var payload ScheduleResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return payload.Jobs, nil
}

// FetchEditPartial retrieves the HTML fragment for a job's edit form. An
// empty jobID fetches the blank new-job form.
func (c *Client) FetchEditPartial(ctx context.Context, jobID string) (string, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	rel := &url.URL{Path: c.partialPath}
	if jobID != "" {
		rel.RawQuery = url.Values{"job_id": {jobID}}.Encode()
	}
	req, err := c.newRequest(ctx, http.MethodGet, rel, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "text/html")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("partial %s returned status %d", c.partialPath, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	return string(body), nil
}

// submitResponse is the raw material the gateway normalizes.
type submitResponse struct {
	Status  int
	Body    string
	Trigger string
}

// submit POSTs form-encoded values to the given action path. Exactly one
// request per call; HTTP error statuses are returned as data, not errors.
func (c *Client) submit(ctx context.Context, action string, values url.Values) (*submitResponse, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	rel, err := url.Parse(action)
	if err != nil {
		return nil, fmt.Errorf("parse action %q: %w", action, err)
	}
	body := strings.NewReader(values.Encode())
	req, err := c.newRequest(ctx, http.MethodPost, rel, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return &submitResponse{
		Status:  resp.StatusCode,
		Body:    string(raw),
		Trigger: resp.Header.Get(triggerHeader),
	}, nil
}

func (c *Client) newRequest(ctx context.Context, method string, rel *url.URL, body io.Reader) (*http.Request, error) {
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	return req, nil
}

func parseBaseURL(base string) (*url.URL, error) {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base_url %q: %w", base, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
