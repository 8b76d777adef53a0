package panel

import (
	"context"

	"github.com/tparrish/hitch/internal/corral"
	"github.com/tparrish/hitch/internal/form"
	"github.com/tparrish/hitch/internal/prefs"
	"github.com/tparrish/hitch/internal/workspace"
)

// Close hides the panel immediately and decides what happens to the record:
//
//   - required fields missing: the record is discarded, any draft entry is
//     removed, nothing is sent to the backend
//   - clean: nothing to save, the workspace entry is removed
//   - dirty: a background autosave runs after the panel is already closed;
//     failure leaves an unsaved workspace entry carrying the edits
//
// A form restored from cached unsaved edits counts as dirty: its content
// was never accepted by the backend. Close is never cancellable by a save
// failure.
func (c *Controller) Close() Effect {
	c.mu.Lock()
	if !c.state.IsOpen || c.form == nil {
		c.mu.Unlock()
		return nil
	}
	f := c.form
	jobID := c.state.CurrentJobID
	draftID := c.state.CurrentDraftID
	restored := c.restored
	c.hideLocked()
	c.mu.Unlock()
	c.commitGeometry()

	switch {
	case f.HasMissingRequired():
		c.discard(jobID, draftID)
		return nil
	case !f.IsDirty() && !restored:
		c.discard(jobID, draftID)
		return nil
	default:
		return func(ctx context.Context) *Notice {
			res := c.gateway.Save(ctx, f, corral.SaveAutosave)
			if res.Successful {
				c.discard(firstNonEmpty(jobID, res.JobID), draftID)
				c.notifySaved(res.JobID, metaFromForm(f))
				return nil
			}
			c.stash(f, jobID, draftID, res)
			return &Notice{Text: "Changes not saved; kept in workspace"}
		}
	}
}

// Escape is the keyboard close. Same policy as Close.
func (c *Controller) Escape() Effect { return c.Close() }

// Minimize hides the panel and keeps the record in the workspace:
//
//   - required fields missing: no network at all, the form is cached
//     verbatim as a draft entry for later restoration
//   - persisted and clean: the entry just stays minimized
//   - persisted and dirty (or restored from cached unsaved edits), or a
//     new record: a background autosave runs;
//     success updates or promotes the entry, failure marks it unsaved with
//     the edits cached
//
// The panel is already hidden by the time any network I/O starts.
func (c *Controller) Minimize() Effect {
	c.mu.Lock()
	if !c.state.IsOpen || c.form == nil {
		c.mu.Unlock()
		return nil
	}
	f := c.form
	jobID := c.state.CurrentJobID
	draftID := c.state.CurrentDraftID
	restored := c.restored
	c.hideLocked()
	c.mu.Unlock()
	c.commitGeometry()

	if f.HasMissingRequired() {
		c.stash(f, jobID, draftID, corral.SaveResult{})
		return nil
	}

	if jobID != "" {
		entry := workspace.Entry{
			ID:   jobID,
			Kind: workspace.Persisted,
			Meta: metaFromForm(f),
		}
		// An unsaved marker and its cached edits only clear when a save
		// succeeds, not when the entry is rewritten on minimize.
		if prev, ok := c.store.Get(jobID); ok {
			entry.Unsaved = prev.Unsaved
			entry.CachedHTML = prev.CachedHTML
		}
		c.store.Put(entry)
		if !f.IsDirty() && !restored {
			return nil
		}
		return func(ctx context.Context) *Notice {
			res := c.gateway.Save(ctx, f, corral.SaveAutosave)
			if res.Successful {
				c.store.SetMeta(jobID, metaFromForm(f))
				c.store.SetUnsaved(jobID, false, "")
				c.notifySaved(jobID, metaFromForm(f))
				return nil
			}
			c.stash(f, jobID, "", res)
			return &Notice{Text: "Changes not saved; will retry on reopen"}
		}
	}

	// New record: try to persist it, fall back to a local draft.
	return func(ctx context.Context) *Notice {
		res := c.gateway.Save(ctx, f, corral.SaveAutosave)
		if res.Successful {
			c.adopt(f, draftID, res.JobID)
			c.notifySaved(res.JobID, metaFromForm(f))
			return nil
		}
		c.minimizeAsDraft(f, draftID, res)
		return &Notice{Text: "Job not saved; kept as draft"}
	}
}

// Save is the explicit manual save. The panel stays open. Missing required
// fields block with a field list; transport and backend failures surface as
// notices without disturbing the form.
func (c *Controller) Save() Effect {
	c.mu.Lock()
	if !c.state.IsOpen || c.form == nil {
		c.mu.Unlock()
		return nil
	}
	f := c.form
	draftID := c.state.CurrentDraftID
	c.mu.Unlock()

	if missing := f.MissingRequired(); len(missing) > 0 {
		blocked := &Notice{
			Text:          "Required fields missing",
			Blocking:      true,
			MissingFields: missing,
		}
		return func(context.Context) *Notice { return blocked }
	}

	return func(ctx context.Context) *Notice {
		res := c.gateway.Save(ctx, f, corral.SaveManual)
		if !res.Successful {
			return &Notice{Text: saveFailureText(res)}
		}

		c.mu.Lock()
		c.state.CurrentJobID = res.JobID
		c.state.CurrentDraftID = ""
		c.restored = false
		c.mu.Unlock()
		c.commitGeometry()

		c.adopt(f, draftID, res.JobID)
		c.notifySaved(res.JobID, metaFromForm(f))
		return c.dateWarning()
	}
}

func saveFailureText(res corral.SaveResult) string {
	switch res.Reason {
	case corral.ReasonTransport:
		return "Save failed: backend unreachable"
	case corral.ReasonHTTP:
		return "Save rejected by backend"
	case corral.ReasonNoJobID:
		return "Save response missing job id"
	default:
		return "Save failed"
	}
}

// hideLocked clears the visible-form state. Caller holds c.mu.
func (c *Controller) hideLocked() {
	c.state.IsOpen = false
	c.state.CurrentJobID = ""
	c.state.CurrentDraftID = ""
	c.form = nil
	c.restored = false
}

// discard removes whatever workspace entry tracked the record and notifies
// collaborators the record left the session.
func (c *Controller) discard(jobID, draftID string) {
	if draftID != "" {
		c.store.Remove(draftID)
	}
	if jobID != "" {
		c.store.Remove(jobID)
		c.notifyClosed(jobID)
	}
}

// stash records a failed save so the edits survive: the entry is marked
// unsaved and carries the serialized form for restoration on reopen.
func (c *Controller) stash(f *form.Form, jobID, draftID string, res corral.SaveResult) {
	cached, err := f.Serialize()
	if err != nil && res.ResponseHTML != "" {
		cached = res.ResponseHTML
	}
	if jobID != "" {
		c.store.Put(workspace.Entry{
			ID:         jobID,
			Kind:       workspace.Persisted,
			Meta:       metaFromForm(f),
			Unsaved:    true,
			CachedHTML: cached,
		})
		return
	}
	c.minimizeAsDraft(f, draftID, res)
}

// minimizeAsDraft caches the form under the session draft token, reusing
// an existing draft entry's slot when one survives in the store.
func (c *Controller) minimizeAsDraft(f *form.Form, draftID string, res corral.SaveResult) {
	if draftID == "" {
		draftID = workspace.NewDraftID()
	}
	cached, err := f.Serialize()
	if err != nil && res.ResponseHTML != "" {
		cached = res.ResponseHTML
	}
	c.store.Put(workspace.Entry{
		ID:         draftID,
		Kind:       workspace.Draft,
		Meta:       metaFromForm(f),
		Unsaved:    true,
		CachedHTML: cached,
	})
}

// adopt settles a newly assigned job id: the draft entry (when present) is
// promoted in place, keeping its workspace position, and any per-draft
// warning flags migrate to the job id so warnings stay once-per-job.
func (c *Controller) adopt(f *form.Form, draftID, jobID string) {
	meta := metaFromForm(f)
	if draftID != "" {
		if err := c.store.Promote(draftID, jobID, meta); err == nil {
			c.migrateWarnings(draftID, jobID)
			return
		}
	}
	c.store.Put(workspace.Entry{ID: jobID, Kind: workspace.Persisted, Meta: meta})
	if draftID != "" {
		c.migrateWarnings(draftID, jobID)
	}
}

func (c *Controller) migrateWarnings(draftID, jobID string) {
	c.mu.Lock()
	changed := c.prefs.MigrateWarnings(draftID, jobID)
	snapshot := c.prefs
	path := c.prefsPath
	c.mu.Unlock()
	if changed {
		_ = prefs.Save(path, snapshot)
	}
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

var _ Gateway = (*corral.Gateway)(nil)
