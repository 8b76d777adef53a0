package ui

import (
	"testing"

	"github.com/tparrish/hitch/internal/corral"
	"github.com/tparrish/hitch/internal/panel"
	"github.com/tparrish/hitch/internal/state"
	"github.com/tparrish/hitch/internal/workspace"
)

func newTestModel(t *testing.T, jobs []corral.JobSummary) Model {
	t.Helper()
	store := &state.Store{}
	store.Update(jobs, nil)
	m := New(Options{
		Controller: panel.NewController(panel.Options{Workspace: workspace.NewStore()}),
		Store:      store,
		Workspace:  workspace.NewStore(),
		PrefsPath:  t.TempDir() + "/prefs.toml",
	})
	m.snapshot = store.Snapshot()
	m.width = 120
	m.height = 40
	m.ready = true
	return m
}

var testJobs = []corral.JobSummary{
	{ID: 3, CustomerName: "Carter Marine", StartDT: "2026-03-22T08:00", Status: "pending"},
	{ID: 1, CustomerName: "Acme Hauling", StartDT: "2026-03-20T09:00", Status: "confirmed"},
	{ID: 2, CustomerName: "Blue Ridge Rentals", StartDT: "2026-03-21T10:00", Status: "active"},
}

func TestVisibleJobsSortedByStart(t *testing.T) {
	m := newTestModel(t, testJobs)

	jobs := m.visibleJobs()
	if len(jobs) != 3 {
		t.Fatalf("visibleJobs() = %d jobs, want 3", len(jobs))
	}
	if jobs[0].ID != 1 || jobs[1].ID != 2 || jobs[2].ID != 3 {
		t.Fatalf("job order = [%d %d %d], want [1 2 3]", jobs[0].ID, jobs[1].ID, jobs[2].ID)
	}
}

func TestVisibleJobsFilterByCustomer(t *testing.T) {
	m := newTestModel(t, testJobs)
	m.filterQuery = "blue"

	jobs := m.visibleJobs()
	if len(jobs) != 1 {
		t.Fatalf("filtered jobs = %d, want 1", len(jobs))
	}
	if jobs[0].CustomerName != "Blue Ridge Rentals" {
		t.Fatalf("filtered job = %q, want Blue Ridge Rentals", jobs[0].CustomerName)
	}
}

func TestFilterDebounceIgnoresStaleGenerations(t *testing.T) {
	m := newTestModel(t, testJobs)
	m.filterInput.SetValue("carter")
	m.filterGen = 5

	// A timer from an earlier keystroke fires late: nothing applies.
	updated, _ := m.Update(filterDebounceMsg(3))
	m = updated.(Model)
	if m.filterQuery != "" {
		t.Fatalf("filterQuery = %q, want empty for stale generation", m.filterQuery)
	}

	// The final keystroke's timer applies the value.
	updated, _ = m.Update(filterDebounceMsg(5))
	m = updated.(Model)
	if m.filterQuery != "carter" {
		t.Fatalf("filterQuery = %q, want %q", m.filterQuery, "carter")
	}
	if len(m.visibleJobs()) != 1 {
		t.Fatalf("visible jobs = %d, want 1 after filter applies", len(m.visibleJobs()))
	}
}

func TestClampSelectionAfterFilter(t *testing.T) {
	m := newTestModel(t, testJobs)
	m.selectedRow = 2
	m.filterQuery = "acme"
	m.clampSelection()

	if m.selectedRow != 0 {
		t.Fatalf("selectedRow = %d, want 0 after narrowing filter", m.selectedRow)
	}
}

func TestFormatScheduleTime(t *testing.T) {
	if got := formatScheduleTime("2026-03-20T09:00"); got != "Mar 20 09:00" {
		t.Fatalf("formatScheduleTime = %q, want %q", got, "Mar 20 09:00")
	}
	if got := formatScheduleTime("garbage"); got != "—" {
		t.Fatalf("formatScheduleTime(garbage) = %q, want placeholder", got)
	}
}
