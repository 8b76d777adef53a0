// Package panel owns the floating job panel: its visibility, geometry, the
// form it is editing, and the open/close/minimize transitions with their
// save-before-close and draft-promotion policies.
//
// Transitions apply their UI effect first and reconcile workspace
// bookkeeping afterward: a failed background save never reopens the panel
// or blocks the user. Failures leave an unsaved marker in the workspace and
// a transient notice instead.
package panel

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/tparrish/hitch/internal/corral"
	"github.com/tparrish/hitch/internal/form"
	"github.com/tparrish/hitch/internal/prefs"
	"github.com/tparrish/hitch/internal/workspace"
)

// Position is the panel's floating anchor in cells.
type Position struct{ X, Y int }

// Size is the panel's rendered size in cells.
type Size struct{ W, H int }

// State is the panel's observable state. CurrentJobID and CurrentDraftID
// are mutually exclusive: a loaded persisted job clears the draft token and
// promotion clears it permanently.
type State struct {
	IsOpen   bool
	Docked   bool
	Position Position
	Size     Size

	// CurrentJobID is the persisted record loaded into the panel, empty
	// for a new/unsaved record.
	CurrentJobID string
	// CurrentDraftID is the session token tracking an unsaved record,
	// assigned when a new-job form opens.
	CurrentDraftID string
}

// Gateway persists a job form. Satisfied by *corral.Gateway.
type Gateway interface {
	Save(ctx context.Context, f *form.Form, mode corral.SaveMode) corral.SaveResult
}

// Loader fetches job edit partials. Satisfied by *corral.Client.
type Loader interface {
	FetchEditPartial(ctx context.Context, jobID string) (string, error)
}

// Collaborator is the capability interface peripheral views (the schedule
// and calendar surfaces) register to hear about panel outcomes, instead of
// the panel reaching into them.
type Collaborator interface {
	JobSaved(jobID string, meta workspace.Meta)
	JobClosed(jobID string)
}

// Notice is a user-visible message produced by a transition. Blocking
// notices come only from manual saves; everything else is a transient
// toast.
type Notice struct {
	Text          string
	Blocking      bool
	MissingFields []string
}

// Effect is the deferred portion of a transition: the background save and
// its workspace bookkeeping. The UI runs it off the event loop; tests run
// it inline. A nil Effect means the transition finished synchronously.
type Effect func(ctx context.Context) *Notice

// Options configure a Controller. Everything the controller touches is
// injected here; there are no package-level singletons.
type Options struct {
	Gateway   Gateway
	Loader    Loader
	Workspace *workspace.Store
	Prefs     prefs.Prefs
	PrefsPath string
	Now       func() time.Time // nil uses time.Now
}

// Controller is the panel state machine. One instance per session. Its
// methods are safe to call from the UI loop and from effect goroutines,
// but callers must not start a new save while one is in flight.
type Controller struct {
	mu sync.Mutex

	gateway       Gateway
	loader        Loader
	store         *workspace.Store
	prefs         prefs.Prefs
	prefsPath     string
	now           func() time.Time
	collaborators []Collaborator

	state State
	form  *form.Form

	// restored marks a form rebuilt from cached unsaved HTML. Its edits
	// were never accepted by the backend, so it needs a save even when
	// tracking reads clean after Track's baseline.
	restored bool
}

func NewController(opts Options) *Controller {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	c := &Controller{
		gateway:   opts.Gateway,
		loader:    opts.Loader,
		store:     opts.Workspace,
		prefs:     opts.Prefs,
		prefsPath: opts.PrefsPath,
		now:       now,
	}
	// Geometry and dock state are usable immediately; the open panel
	// itself comes back through RestoreSession once a loader can fetch
	// its form.
	c.state.Docked = opts.Prefs.Panel.Docked
	c.state.Position = Position{X: opts.Prefs.Panel.X, Y: opts.Prefs.Panel.Y}
	c.state.Size = Size{W: opts.Prefs.Panel.W, H: opts.Prefs.Panel.H}
	return c
}

// Register adds a collaborator. Not safe to call after effects start.
func (c *Controller) Register(col Collaborator) {
	c.collaborators = append(c.collaborators, col)
}

// State returns a copy of the current panel state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Form returns the live form, nil when the panel has never been opened.
// The UI mutates field values through it between transitions.
func (c *Controller) Form() *form.Form {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

// Open loads a job into the panel and shows it. An empty jobID opens the
// blank new-job form and assigns a session draft token. Reopening a job
// whose workspace entry holds unsaved cached HTML restores from the cache
// (sanitized) instead of the backend, so failed-save edits are not lost.
// The returned Notice carries a first-time date warning, when any.
func (c *Controller) Open(ctx context.Context, jobID string) (*Notice, error) {
	fragment, fromCache, err := c.loadFragment(ctx, jobID)
	if err != nil {
		return nil, err
	}
	f, err := form.Parse(fragment)
	if err != nil {
		return nil, fmt.Errorf("parse job partial: %w", err)
	}
	f.Track()

	c.mu.Lock()
	c.form = f
	c.state.IsOpen = true
	c.restored = fromCache
	if jobID != "" {
		c.state.CurrentJobID = jobID
		c.state.CurrentDraftID = ""
		entry := workspace.Entry{
			ID:      jobID,
			Kind:    workspace.Persisted,
			Meta:    metaFromForm(f),
			Unsaved: fromCache,
		}
		// The cached edits stay recoverable until a save succeeds.
		if fromCache {
			if prev, ok := c.store.Get(jobID); ok {
				entry.CachedHTML = prev.CachedHTML
			}
		}
		c.store.Put(entry)
	} else {
		c.state.CurrentJobID = ""
		c.state.CurrentDraftID = workspace.NewDraftID()
	}
	c.mu.Unlock()

	c.commitGeometry()
	return c.dateWarning(), nil
}

// OpenDraft restores a minimized draft entry into the panel.
func (c *Controller) OpenDraft(ctx context.Context, draftID string) (*Notice, error) {
	entry, ok := c.store.Get(draftID)
	if !ok || entry.Kind != workspace.Draft {
		return nil, fmt.Errorf("no draft %s in workspace", draftID)
	}
	fragment, err := form.Sanitize(entry.CachedHTML)
	if err != nil {
		return nil, fmt.Errorf("restore draft: %w", err)
	}
	f, err := form.Parse(fragment)
	if err != nil {
		return nil, fmt.Errorf("restore draft: %w", err)
	}
	f.Track()

	c.mu.Lock()
	c.form = f
	c.state.IsOpen = true
	c.state.CurrentJobID = ""
	c.state.CurrentDraftID = draftID
	// A cached draft was never accepted by the backend.
	c.restored = true
	c.mu.Unlock()

	c.commitGeometry()
	return c.dateWarning(), nil
}

// RestoreSession reopens the job that was on screen when the previous
// session ended, when the persisted panel state says it was open. Drafts
// are session-scoped and cannot come back; an empty persisted job id is a
// no-op.
func (c *Controller) RestoreSession(ctx context.Context) (*Notice, error) {
	c.mu.Lock()
	open := c.prefs.Panel.Open
	jobID := c.prefs.Panel.JobID
	c.mu.Unlock()
	if !open || jobID == "" {
		return nil, nil
	}
	return c.Open(ctx, jobID)
}

func (c *Controller) loadFragment(ctx context.Context, jobID string) (fragment string, fromCache bool, err error) {
	if jobID != "" {
		if entry, ok := c.store.Get(jobID); ok && entry.Unsaved && entry.CachedHTML != "" {
			cleaned, err := form.Sanitize(entry.CachedHTML)
			if err == nil {
				return cleaned, true, nil
			}
			// Unusable cache: fall through to a fresh fetch.
		}
	}
	fragment, err = c.loader.FetchEditPartial(ctx, jobID)
	if err != nil {
		return "", false, fmt.Errorf("load job partial: %w", err)
	}
	return fragment, false, nil
}

// Nudge moves the floating panel and commits the geometry.
func (c *Controller) Nudge(dx, dy int) {
	c.mu.Lock()
	if c.state.Docked {
		c.mu.Unlock()
		return
	}
	c.state.Position.X += dx
	c.state.Position.Y += dy
	c.mu.Unlock()
	c.commitGeometry()
}

// ToggleDock flips between the docked and floating presentation.
func (c *Controller) ToggleDock() {
	c.mu.Lock()
	c.state.Docked = !c.state.Docked
	c.mu.Unlock()
	c.commitGeometry()
}

// commitGeometry persists the panel blob. Best effort: prefs are UI
// conveniences and a failed write only costs them.
func (c *Controller) commitGeometry() {
	c.mu.Lock()
	c.prefs.Panel = prefs.Panel{
		Open:   c.state.IsOpen,
		JobID:  c.state.CurrentJobID,
		Docked: c.state.Docked,
		X:      c.state.Position.X,
		Y:      c.state.Position.Y,
		W:      c.state.Size.W,
		H:      c.state.Size.H,
	}
	snapshot := c.prefs
	path := c.prefsPath
	c.mu.Unlock()

	if err := prefs.Save(path, snapshot); err != nil {
		log.Printf("persist panel prefs: %v", err)
	}
}

func (c *Controller) notifySaved(jobID string, meta workspace.Meta) {
	for _, col := range c.collaborators {
		col.JobSaved(jobID, meta)
	}
}

func (c *Controller) notifyClosed(jobID string) {
	for _, col := range c.collaborators {
		col.JobClosed(jobID)
	}
}

func metaFromForm(f *form.Form) workspace.Meta {
	meta := workspace.Meta{}
	if field := f.Lookup(form.FieldBusinessName); field != nil {
		meta.CustomerName = strings.TrimSpace(field.Value)
	}
	if field := f.Lookup("trailer_color"); field != nil {
		meta.TrailerColor = field.Value
	}
	if field := f.Lookup(form.FieldCalendar); field != nil {
		for _, opt := range field.Options {
			if opt.Selected {
				meta.CalendarColor = opt.Color
				break
			}
		}
	}
	return meta
}
