package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tparrish/hitch/internal/config"
	"github.com/tparrish/hitch/internal/panel"
	"github.com/tparrish/hitch/internal/prefs"
	"github.com/tparrish/hitch/internal/state"
	"github.com/tparrish/hitch/internal/workspace"
)

// filterDebounce is the trailing-edge delay before a typed schedule filter
// takes effect. Every keystroke restarts the window; only the final value
// is applied.
const filterDebounce = 300 * time.Millisecond

// noticeTTL is how long a transient notice stays on screen.
const noticeTTL = 4 * time.Second

// Options configures the UI.
type Options struct {
	Context    context.Context
	Controller *panel.Controller
	Store      *state.Store
	Workspace  *workspace.Store
	Config     *config.Config
	PollTick   time.Duration
	ThemeName  string
	PrefsPath  string
}

// notice is a transient message shown under the header.
type notice struct {
	seq      int
	text     string
	danger   bool
	blocking bool
	fields   []string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx        context.Context
	controller *panel.Controller
	store      *state.Store
	workspace  *workspace.Store
	config     *config.Config
	prefsPath  string
	pollTick   time.Duration
	keys       keyMap

	// UI state
	theme  Theme
	width  int
	height int
	ready  bool

	// Data state
	snapshot    state.Snapshot
	lastUpdated time.Time

	// Schedule state
	selectedRow   int
	filterInput   textinput.Model
	filterFocused bool
	filterQuery   string
	filterGen     int

	// Workspace bar state
	workspaceIdx int

	// Panel state
	fieldIdx int
	editor   textinput.Model

	// Notices
	notices   []notice
	noticeSeq int

	// Help overlay
	showHelp bool

	// A transition is in flight; panel keys are ignored until it lands.
	busy bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = time.Second
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Nightfox"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	filter := textinput.New()
	filter.Placeholder = "Filter by customer..."
	filter.CharLimit = 60

	editor := textinput.New()
	editor.CharLimit = 200

	return Model{
		ctx:         ctx,
		controller:  opts.Controller,
		store:       opts.Store,
		workspace:   opts.Workspace,
		config:      opts.Config,
		prefsPath:   prefsPath,
		pollTick:    pollTick,
		keys:        DefaultKeyMap(),
		theme:       GetTheme(themeName),
		filterInput: filter,
		editor:      editor,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(m.pollTick),
	}
	// Fetch snapshot immediately on start
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.clampSelection()
		return m, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd(m.pollTick)}
		if m.store != nil {
			cmds = append(cmds, fetchSnapshotCmd(m.store))
		}
		return m, tea.Batch(cmds...)

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.lastUpdated = time.Now()
		m.clampSelection()
		return m, nil

	case filterDebounceMsg:
		// Stale generations mean the user kept typing; only the last
		// keystroke's timer applies the filter.
		if int(msg) == m.filterGen {
			m.filterQuery = strings.TrimSpace(m.filterInput.Value())
			m.clampSelection()
		}
		return m, nil

	case panelOpenedMsg:
		m.busy = false
		if msg.err != nil {
			return m.pushNotice("Could not open job: "+msg.err.Error(), true)
		}
		m.syncPanelForm()
		if msg.notice != nil {
			return m.pushPanelNotice(msg.notice)
		}
		return m, nil

	case effectDoneMsg:
		m.busy = false
		m.syncPanelForm()
		if msg.notice != nil {
			return m.pushPanelNotice(msg.notice)
		}
		return m, nil

	case noticeExpireMsg:
		m.expireNotice(int(msg))
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	return m.renderMain()
}

// handleKey routes keyboard input by mode: help overlay, filter entry,
// open panel, then the schedule.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.filterFocused {
		return m.handleFilterKey(msg)
	}

	if m.controller != nil && m.controller.State().IsOpen {
		return m.handlePanelKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.saveThemePref()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		if m.store != nil {
			return m, fetchSnapshotCmd(m.store)
		}
		return m, nil

	case key.Matches(msg, m.keys.Filter):
		m.filterFocused = true
		m.filterInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.NewJob):
		m.busy = true
		return m, openJobCmd(m.ctx, m.controller, "")

	case key.Matches(msg, m.keys.OpenJob):
		if job := m.selectedJob(); job != nil {
			m.busy = true
			return m, openJobCmd(m.ctx, m.controller, formatJobID(job.ID))
		}
		return m, nil

	case key.Matches(msg, m.keys.WorkspacePrev):
		m.moveWorkspaceSelection(-1)
		return m, nil

	case key.Matches(msg, m.keys.WorkspaceNext):
		m.moveWorkspaceSelection(1)
		return m, nil

	case key.Matches(msg, m.keys.WorkspaceOpen):
		if entry := m.selectedWorkspaceEntry(); entry != nil {
			m.busy = true
			return m, openEntryCmd(m.ctx, m.controller, *entry)
		}
		return m, nil
	}

	return m.handleScheduleKey(msg)
}

// handleFilterKey processes keyboard input while the filter line is focused.
func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filterFocused = false
		m.filterInput.Blur()
		m.filterInput.SetValue("")
		m.filterGen++
		m.filterQuery = ""
		m.clampSelection()
		return m, nil

	case "enter":
		// Apply immediately without waiting for the debounce window.
		m.filterFocused = false
		m.filterInput.Blur()
		m.filterGen++
		m.filterQuery = strings.TrimSpace(m.filterInput.Value())
		m.clampSelection()
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.filterGen++
	return m, tea.Batch(cmd, filterDebounceCmd(m.filterGen))
}

// handleScheduleKey processes navigation in the schedule table.
func (m Model) handleScheduleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	jobs := m.visibleJobs()
	if len(jobs) == 0 {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Down):
		if m.selectedRow < len(jobs)-1 {
			m.selectedRow++
		}
	case key.Matches(msg, m.keys.Up):
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case key.Matches(msg, m.keys.Top):
		m.selectedRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selectedRow = len(jobs) - 1
	}

	return m, nil
}

// saveThemePref persists the theme choice without touching the rest of the
// prefs blob.
func (m *Model) saveThemePref() {
	if m.prefsPath == "" {
		return
	}
	current, _ := prefs.Load(m.prefsPath)
	current.Theme = m.theme.Name
	_ = prefs.Save(m.prefsPath, current)
}

// pushNotice adds a transient notice and schedules its expiry.
func (m Model) pushNotice(text string, danger bool) (tea.Model, tea.Cmd) {
	m.noticeSeq++
	m.notices = append(m.notices, notice{seq: m.noticeSeq, text: text, danger: danger})
	return m, expireNoticeCmd(m.noticeSeq)
}

// pushPanelNotice converts a controller notice. Blocking notices stay until
// dismissed by the next keypress; transient ones expire on their own.
func (m Model) pushPanelNotice(n *panel.Notice) (tea.Model, tea.Cmd) {
	m.noticeSeq++
	m.notices = append(m.notices, notice{
		seq:      m.noticeSeq,
		text:     n.Text,
		danger:   n.Blocking,
		blocking: n.Blocking,
		fields:   n.MissingFields,
	})
	if n.Blocking {
		return m, nil
	}
	return m, expireNoticeCmd(m.noticeSeq)
}

func (m *Model) expireNotice(seq int) {
	kept := m.notices[:0]
	for _, n := range m.notices {
		if n.seq != seq {
			kept = append(kept, n)
		}
	}
	m.notices = kept
}

// dismissBlockingNotices drops blocking notices; called on the next panel
// keypress so a validation message never wedges the form.
func (m *Model) dismissBlockingNotices() {
	kept := m.notices[:0]
	for _, n := range m.notices {
		if !n.blocking {
			kept = append(kept, n)
		}
	}
	m.notices = kept
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	if len(m.notices) > 0 {
		b.WriteString(m.renderNotices())
		b.WriteString("\n")
	}
	b.WriteString(m.renderContent())
	b.WriteString("\n")
	b.WriteString(m.renderWorkspaceBar())

	return b.String()
}

// renderContent renders the schedule, splitting with the docked panel or
// overlaying the floating one.
func (m Model) renderContent() string {
	st := m.controller.State()
	contentHeight := m.contentHeight()

	if !st.IsOpen {
		return m.renderSchedule(m.width, contentHeight)
	}

	if st.Docked {
		panelWidth := st.Size.W
		if panelWidth < 36 {
			panelWidth = 36
		}
		if panelWidth > m.width/2 {
			panelWidth = m.width / 2
		}
		schedule := m.renderSchedule(m.width-panelWidth, contentHeight)
		panelBox := m.renderPanel(panelWidth, contentHeight)
		return joinHorizontal(schedule, panelBox)
	}

	base := m.renderSchedule(m.width, contentHeight)
	panelBox := m.renderPanel(st.Size.W, st.Size.H)
	return overlayAt(base, panelBox, st.Position.X, st.Position.Y, m.width, contentHeight)
}

// contentHeight is the rows left for the main area: header, command bar,
// notices and the workspace bar take the rest.
func (m Model) contentHeight() int {
	h := m.height - 3 - len(m.notices)
	if h < 3 {
		h = 3
	}
	return h
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type filterDebounceMsg int

type noticeExpireMsg int

type panelOpenedMsg struct {
	notice *panel.Notice
	err    error
}

type effectDoneMsg struct {
	notice *panel.Notice
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func filterDebounceCmd(gen int) tea.Cmd {
	return tea.Tick(filterDebounce, func(time.Time) tea.Msg {
		return filterDebounceMsg(gen)
	})
}

func expireNoticeCmd(seq int) tea.Cmd {
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return noticeExpireMsg(seq)
	})
}

func openJobCmd(ctx context.Context, c *panel.Controller, jobID string) tea.Cmd {
	return func() tea.Msg {
		n, err := c.Open(ctx, jobID)
		return panelOpenedMsg{notice: n, err: err}
	}
}

func openEntryCmd(ctx context.Context, c *panel.Controller, entry workspace.Entry) tea.Cmd {
	return func() tea.Msg {
		var (
			n   *panel.Notice
			err error
		)
		if entry.Kind == workspace.Draft {
			n, err = c.OpenDraft(ctx, entry.ID)
		} else {
			n, err = c.Open(ctx, entry.ID)
		}
		return panelOpenedMsg{notice: n, err: err}
	}
}

func runEffectCmd(ctx context.Context, eff panel.Effect) tea.Cmd {
	if eff == nil {
		return nil
	}
	return func() tea.Msg {
		return effectDoneMsg{notice: eff(ctx)}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
