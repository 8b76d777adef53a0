package corral

import (
	"context"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/tparrish/hitch/internal/form"
)

// Gateway is the single entry point for persisting a job form. It never
// returns a Go error and never panics across its boundary: every outcome,
// including transport failures, is folded into SaveResult.
type Gateway struct {
	client *Client
}

func NewGateway(client *Client) *Gateway {
	return &Gateway{client: client}
}

// jobIDPattern matches the hidden identifier field in a rendered partial.
var jobIDPattern = regexp.MustCompile(`name="job_id"\s+value="(\d+)"`)

// Save validates and submits the form. With required fields missing no
// network I/O happens in either mode; the caller decides whether the
// failure blocks (manual) or stays silent (autosave). Otherwise exactly one
// request is issued to the form-declared action, falling back to the
// configured save path. On success the form is rebaselined and the
// server-assigned job ID extracted via a three-tier fallback: the trigger
// header payload, the form's own hidden job_id field, then a scan of the
// raw response body.
func (g *Gateway) Save(ctx context.Context, f *form.Form, mode SaveMode) SaveResult {
	missing := f.MissingRequired()
	if len(missing) > 0 {
		return SaveResult{
			Successful:    false,
			Reason:        ReasonMissingRequired,
			MissingFields: missing,
		}
	}

	action := f.Action
	if strings.TrimSpace(action) == "" {
		action = g.client.SavePath()
	}

	resp, err := g.client.submit(ctx, action, f.Values())
	if err != nil {
		return SaveResult{Successful: false, Reason: ReasonTransport}
	}
	if resp.Status < 200 || resp.Status > 299 {
		return SaveResult{
			Successful:   false,
			Status:       resp.Status,
			ResponseHTML: resp.Body,
			Reason:       ReasonHTTP,
		}
	}

	jobID := extractJobID(resp, f)
	if jobID == "" {
		return SaveResult{
			Successful:   false,
			Status:       resp.Status,
			ResponseHTML: resp.Body,
			Reason:       ReasonNoJobID,
		}
	}

	f.Rebaseline()
	return SaveResult{
		Successful:   true,
		JobID:        jobID,
		Status:       resp.Status,
		ResponseHTML: resp.Body,
	}
}

func extractJobID(resp *submitResponse, f *form.Form) string {
	if id := jobIDFromTrigger(resp.Trigger); id != "" {
		return id
	}
	if field := f.Lookup("job_id"); field != nil {
		if id := strings.TrimSpace(field.Value); id != "" {
			return id
		}
	}
	if m := jobIDPattern.FindStringSubmatch(resp.Body); m != nil {
		return m[1]
	}
	return ""
}

// jobIDFromTrigger decodes the {"jobSaved":{"jobId":N}} trigger payload.
// The backend has emitted the ID both as a number and as a string, so both
// are accepted.
func jobIDFromTrigger(trigger string) string {
	if strings.TrimSpace(trigger) == "" {
		return ""
	}
	var payload struct {
		JobSaved *struct {
			JobID json.RawMessage `json:"jobId"`
		} `json:"jobSaved"`
	}
	if err := json.Unmarshal([]byte(trigger), &payload); err != nil {
		return ""
	}
	if payload.JobSaved == nil || len(payload.JobSaved.JobID) == 0 {
		return ""
	}
	raw := payload.JobSaved.JobID
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return strings.TrimSpace(asString)
	}
	var asNumber int64
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return strconv.FormatInt(asNumber, 10)
	}
	return ""
}
