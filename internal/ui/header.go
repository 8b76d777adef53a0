package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the top status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)

	parts := []string{
		bg.Render("hitch", styles.Logo),
	}

	switch {
	case m.snapshot.IsOffline():
		parts = append(parts,
			bg.Render("CORRAL OFFLINE", styles.DangerText.Bold(true)),
			bg.Render("Retrying "+m.serverAddr(), styles.WarningText))
	case m.snapshot.LastError != nil:
		parts = append(parts, bg.Render("● reconnecting", styles.WarningText))
	case m.snapshot.LastUpdated.IsZero():
		parts = append(parts, bg.Render("Connecting to "+m.serverAddr(), styles.WarningText))
	default:
		parts = append(parts, bg.Render("● connected", styles.SuccessText))
		parts = append(parts, bg.Render(fmt.Sprintf("%d jobs", len(m.snapshot.Jobs)), styles.MutedText))
	}

	if !m.lastUpdated.IsZero() {
		parts = append(parts, bg.Render(m.lastUpdated.Format("15:04:05"), styles.FaintText))
	}

	if unsaved := m.unsavedCount(); unsaved > 0 {
		parts = append(parts, bg.Render(fmt.Sprintf("%d unsaved", unsaved), styles.WarningText.Bold(true)))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// serverAddr is the Corral address shown while not connected.
func (m Model) serverAddr() string {
	if m.config == nil || strings.TrimSpace(m.config.BaseURL) == "" {
		return "Corral"
	}
	return m.config.BaseURL
}

func (m Model) unsavedCount() int {
	count := 0
	for _, entry := range m.workspace.List() {
		if entry.Unsaved {
			count++
		}
	}
	return count
}

// renderCommandBar renders the contextual key hint line.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles()

	var hints string
	switch {
	case m.filterFocused:
		hints = "enter apply · esc clear"
	case m.controller.State().IsOpen:
		hints = "tab fields · ctrl+s save · ctrl+b minimize · ctrl+g dock · esc close"
	default:
		hints = "enter open · n new · / filter · [ ] o workspace · T theme · ? help · q quit"
	}

	return styles.Footer.Width(m.width).Render(hints)
}

// renderNotices renders transient and blocking messages, newest last.
func (m Model) renderNotices() string {
	styles := m.theme.Styles()

	var lines []string
	for _, n := range m.notices {
		text := n.text
		if len(n.fields) > 0 {
			labels := make([]string, 0, len(n.fields))
			for _, f := range n.fields {
				labels = append(labels, titleCase(f))
			}
			text += ": " + strings.Join(labels, ", ")
		}
		style := styles.WarningText
		if n.danger {
			style = styles.DangerText
		}
		lines = append(lines, lipgloss.NewStyle().
			Width(m.width).
			Render(style.Render("⚠ "+truncate(text, m.width-3))))
	}
	return strings.Join(lines, "\n")
}
