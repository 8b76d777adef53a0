package corral

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" {
		t.Fatalf("scheme = %q, want http", u.Scheme)
	}
	if u.Host != defaultBaseURL {
		t.Fatalf("host = %q, want %q", u.Host, defaultBaseURL)
	}

	u, err = parseBaseURL("http://example.com:1234/path?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func TestClient_FetchScheduleAndPartial(t *testing.T) {
	t.Parallel()

	var gotPartialQuery url.Values
	var gotUserAgent string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		switch r.URL.Path {
		case "/api/jobs":
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(ScheduleResponse{Jobs: []JobSummary{{ID: 7, CustomerName: "Acme"}}})
		case "/jobs/edit":
			gotPartialQuery = r.URL.Query()
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<form hx-post="/jobs/save"></form>`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, "", "")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	jobs, err := c.FetchSchedule(ctx)
	if err != nil {
		t.Fatalf("FetchSchedule returned error: %v", err)
	}
	if len(jobs) != 1 || jobs[0].ID != 7 {
		t.Fatalf("FetchSchedule jobs = %#v, want 1 job id=7", jobs)
	}

	partial, err := c.FetchEditPartial(ctx, "7")
	if err != nil {
		t.Fatalf("FetchEditPartial returned error: %v", err)
	}
	if !strings.Contains(partial, "hx-post") {
		t.Fatalf("FetchEditPartial body = %q, want form fragment", partial)
	}
	if gotPartialQuery.Get("job_id") != "7" {
		t.Fatalf("partial query = %v, want job_id=7", gotPartialQuery)
	}

	// Blank jobID means the new-job form: no query at all.
	_, err = c.FetchEditPartial(ctx, "")
	if err != nil {
		t.Fatalf("FetchEditPartial(blank) returned error: %v", err)
	}
	if gotPartialQuery.Get("job_id") != "" {
		t.Fatalf("blank fetch query = %v, want no job_id", gotPartialQuery)
	}

	if gotUserAgent == "" || !strings.HasPrefix(gotUserAgent, "hitch/") {
		t.Fatalf("User-Agent = %q, want hitch/*", gotUserAgent)
	}
}

func TestClient_HTTPErrorAndDecodeError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/jobs":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("{not-json"))
		case "/jobs/edit":
			http.Error(w, "nope", http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, "", "")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = c.FetchSchedule(context.Background())
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("FetchSchedule error = %v, want decode response error", err)
	}

	_, err = c.FetchEditPartial(context.Background(), "7")
	if err == nil || !strings.Contains(err.Error(), "returned status 500") {
		t.Fatalf("FetchEditPartial error = %v, want status 500 error", err)
	}
}
