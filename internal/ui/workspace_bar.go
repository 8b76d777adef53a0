package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tparrish/hitch/internal/workspace"
)

// moveWorkspaceSelection shifts the workspace bar highlight, wrapping.
func (m *Model) moveWorkspaceSelection(delta int) {
	entries := m.workspace.List()
	if len(entries) == 0 {
		m.workspaceIdx = 0
		return
	}
	m.workspaceIdx = (m.workspaceIdx + delta + len(entries)) % len(entries)
}

// selectedWorkspaceEntry returns the highlighted entry, nil when the bar is
// empty.
func (m *Model) selectedWorkspaceEntry() *workspace.Entry {
	entries := m.workspace.List()
	if len(entries) == 0 {
		return nil
	}
	if m.workspaceIdx >= len(entries) {
		m.workspaceIdx = len(entries) - 1
	}
	entry := entries[m.workspaceIdx]
	return &entry
}

// renderWorkspaceBar renders the bottom bar of open and minimized jobs.
// Each entry shows its calendar color chip, customer name, and an unsaved
// marker. Entries keep their insertion order, drafts included.
func (m Model) renderWorkspaceBar() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)

	entries := m.workspace.List()
	if len(entries) == 0 {
		return styles.Footer.Width(m.width).Render(
			bg.Render("workspace empty", styles.FaintText))
	}

	parts := make([]string, 0, len(entries))
	for i, entry := range entries {
		parts = append(parts, m.renderWorkspaceChip(entry, i == m.workspaceIdx, bg))
	}

	return styles.Footer.Width(m.width).Render(bg.Join(parts, "  "))
}

func (m Model) renderWorkspaceChip(entry workspace.Entry, selected bool, bg BgStyle) string {
	styles := m.theme.Styles()

	chipColor := entry.Meta.CalendarColor
	if chipColor == "" {
		chipColor = m.theme.Faint
	}
	chip := bg.Render("■", lipgloss.NewStyle().Foreground(lipgloss.Color(chipColor)))

	name := entry.Meta.CustomerName
	if name == "" {
		name = ternary(entry.Kind == workspace.Draft, "New Job", "Job "+entry.ID)
	}
	name = truncate(name, 18)

	nameStyle := styles.MutedText
	if selected {
		nameStyle = styles.Text.Bold(true).Underline(true)
	}

	out := chip + bg.Space() + bg.Render(name, nameStyle)
	if entry.Unsaved {
		out += bg.Render("●", styles.WarningText)
	}
	return out
}
