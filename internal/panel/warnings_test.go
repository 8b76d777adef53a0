package panel

import (
	"context"
	"strings"
	"testing"

	"github.com/tparrish/hitch/internal/corral"
	"github.com/tparrish/hitch/internal/form"
	"github.com/tparrish/hitch/internal/prefs"
)

const pastStartPartial = `<form hx-post="/jobs/save">
<input type="hidden" name="job_id" value="41">
<input type="text" name="business_name" value="Acme Hauling">
<input type="datetime-local" name="start_dt" value="2026-03-01T09:00">
<input type="datetime-local" name="end_dt" value="2026-03-02T17:00">
<select name="calendar"><option value="north" selected>North</option></select>
</form>`

const longSpanPartial = `<form hx-post="/jobs/save">
<input type="hidden" name="job_id" value="42">
<input type="text" name="business_name" value="Acme Hauling">
<input type="datetime-local" name="start_dt" value="2026-04-01T09:00">
<input type="datetime-local" name="end_dt" value="2026-06-15T17:00">
<select name="calendar"><option value="north" selected>North</option></select>
</form>`

func TestDateWarningFiresOncePerJob(t *testing.T) {
	c, _, _ := newTestController(t, &fakeGateway{}, &fakeLoader{fragment: pastStartPartial})

	notice, err := c.Open(context.Background(), "41")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if notice == nil || !strings.Contains(notice.Text, "past") {
		t.Fatalf("notice = %v, want past-start warning", notice)
	}
	c.Close()

	notice, err = c.Open(context.Background(), "41")
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	if notice != nil {
		t.Fatalf("notice = %v, want nil on second open", notice)
	}
}

func TestLongSpanWarning(t *testing.T) {
	c, _, _ := newTestController(t, &fakeGateway{}, &fakeLoader{fragment: longSpanPartial})

	notice, err := c.Open(context.Background(), "42")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if notice == nil || !strings.Contains(notice.Text, "spans") {
		t.Fatalf("notice = %v, want long-span warning", notice)
	}
}

func TestNormalDatesNoWarning(t *testing.T) {
	c, _, _ := newTestController(t, &fakeGateway{}, &fakeLoader{fragment: jobPartial})

	notice, err := c.Open(context.Background(), "41")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if notice != nil {
		t.Fatalf("notice = %v, want nil for ordinary dates", notice)
	}
}

func TestWarningFlagMigratesOnPromotion(t *testing.T) {
	gw := &fakeGateway{result: corral.SaveResult{Successful: true, JobID: "88"}}
	c, _, _ := newTestController(t, gw, &fakeLoader{fragment: newJobPartial})

	if _, err := c.Open(context.Background(), ""); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	f := c.Form()
	f.SetValue(form.FieldBusinessName, "Acme Hauling")
	f.SetValue(form.FieldStartDT, "2026-03-01T09:00")
	f.SetValue(form.FieldEndDT, "2026-03-02T17:00")
	f.SetValue(form.FieldCalendar, "north")

	notice := c.Save()(context.Background())
	if notice == nil || !strings.Contains(notice.Text, "past") {
		t.Fatalf("notice = %v, want past-start warning", notice)
	}

	// After promotion the flag lives under the job id, so saving again
	// stays quiet.
	if notice := c.Save()(context.Background()); notice != nil && notice.Blocking {
		t.Fatalf("second save blocked: %v", notice)
	}
	c.mu.Lock()
	seen := c.prefs.SeenWarning(prefs.WarnPastStart, "88")
	c.mu.Unlock()
	if !seen {
		t.Fatal("warning flag should be recorded under the job id")
	}
}
