package panel

import (
	"time"

	"github.com/tparrish/hitch/internal/form"
	"github.com/tparrish/hitch/internal/prefs"
)

// datetime-local values as the backend renders them.
const dtLayout = "2006-01-02T15:04"

const (
	farFutureHorizon = 365 * 24 * time.Hour
	longSpanHorizon  = 30 * 24 * time.Hour
)

// dateWarning checks the form's schedule dates against the unusual-date
// rules and returns the first warning not yet shown for this record.
// Each warning fires at most once per record: draft-token flags follow the
// record to its job id on promotion.
func (c *Controller) dateWarning() *Notice {
	c.mu.Lock()
	f := c.form
	key := c.state.CurrentJobID
	if key == "" {
		key = c.state.CurrentDraftID
	}
	c.mu.Unlock()
	if f == nil || key == "" {
		return nil
	}

	start, startOK := fieldTime(f, form.FieldStartDT)
	end, endOK := fieldTime(f, form.FieldEndDT)
	now := c.now()

	var kind prefs.WarningKind
	var text string
	switch {
	case startOK && start.Before(now):
		kind, text = prefs.WarnPastStart, "Heads up: this job starts in the past"
	case startOK && start.After(now.Add(farFutureHorizon)):
		kind, text = prefs.WarnFarFuture, "Heads up: this job starts more than a year out"
	case startOK && endOK && end.Sub(start) > longSpanHorizon:
		kind, text = prefs.WarnLongSpan, "Heads up: this job spans more than 30 days"
	default:
		return nil
	}

	c.mu.Lock()
	if c.prefs.SeenWarning(kind, key) {
		c.mu.Unlock()
		return nil
	}
	c.prefs.MarkWarningSeen(kind, key)
	snapshot := c.prefs
	path := c.prefsPath
	c.mu.Unlock()

	_ = prefs.Save(path, snapshot)
	return &Notice{Text: text}
}

func fieldTime(f *form.Form, name string) (time.Time, bool) {
	field := f.Lookup(name)
	if field == nil || field.Value == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(dtLayout, field.Value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
