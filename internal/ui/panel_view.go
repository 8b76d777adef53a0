package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tparrish/hitch/internal/form"
)

// skippedFieldTypes are form controls the panel never presents for editing.
var skippedFieldTypes = map[string]struct{}{
	"hidden": {},
	"submit": {},
	"button": {},
	"image":  {},
	"reset":  {},
}

// editableFields returns the form fields the panel presents, in document
// order.
func (m *Model) editableFields() []*form.Field {
	f := m.controller.Form()
	if f == nil {
		return nil
	}
	fields := make([]*form.Field, 0, len(f.Fields))
	for _, field := range f.Fields {
		if _, skip := skippedFieldTypes[field.Type]; skip {
			continue
		}
		fields = append(fields, field)
	}
	return fields
}

// syncPanelForm resets field focus after the panel's form changes.
func (m *Model) syncPanelForm() {
	m.fieldIdx = 0
	m.loadEditor()
}

// loadEditor seeds the text editor from the focused field. Non-text fields
// (selects, checkboxes) are edited in place and leave the editor blurred.
func (m *Model) loadEditor() {
	m.editor.Blur()
	fields := m.editableFields()
	if m.fieldIdx >= len(fields) {
		return
	}
	field := fields[m.fieldIdx]
	if isTextField(field) {
		m.editor.SetValue(field.Value)
		m.editor.CursorEnd()
		m.editor.Focus()
	}
}

func isTextField(field *form.Field) bool {
	if len(field.Options) > 0 {
		return false
	}
	return field.Type != "checkbox" && field.Type != "radio"
}

// commitEditor writes the editor's text back into the form before any
// transition or focus move.
func (m *Model) commitEditor() {
	fields := m.editableFields()
	if m.fieldIdx >= len(fields) {
		return
	}
	field := fields[m.fieldIdx]
	if isTextField(field) && m.editor.Focused() {
		m.controller.Form().SetValue(field.Name, m.editor.Value())
	}
}

// handlePanelKey processes keyboard input while the job panel is open.
func (m Model) handlePanelKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.dismissBlockingNotices()

	if m.busy {
		// A save or close is in flight; swallow input until it lands.
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Escape):
		m.commitEditor()
		m.editor.Blur()
		eff := m.controller.Escape()
		if eff == nil {
			return m, nil
		}
		m.busy = true
		return m, runEffectCmd(m.ctx, eff)

	case key.Matches(msg, m.keys.Save):
		m.commitEditor()
		eff := m.controller.Save()
		if eff == nil {
			return m, nil
		}
		m.busy = true
		return m, runEffectCmd(m.ctx, eff)

	case key.Matches(msg, m.keys.Minimize):
		m.commitEditor()
		m.editor.Blur()
		eff := m.controller.Minimize()
		if eff == nil {
			return m, nil
		}
		m.busy = true
		return m, runEffectCmd(m.ctx, eff)

	case key.Matches(msg, m.keys.ToggleDock):
		m.controller.ToggleDock()
		return m, nil

	case key.Matches(msg, m.keys.NudgeLeft):
		m.controller.Nudge(-2, 0)
		return m, nil
	case key.Matches(msg, m.keys.NudgeRight):
		m.controller.Nudge(2, 0)
		return m, nil
	case key.Matches(msg, m.keys.NudgeUp):
		m.controller.Nudge(0, -1)
		return m, nil
	case key.Matches(msg, m.keys.NudgeDown):
		m.controller.Nudge(0, 1)
		return m, nil

	case key.Matches(msg, m.keys.NextField):
		m.moveField(1)
		return m, nil
	case key.Matches(msg, m.keys.PrevField):
		m.moveField(-1)
		return m, nil
	}

	fields := m.editableFields()
	if m.fieldIdx >= len(fields) {
		return m, nil
	}
	field := fields[m.fieldIdx]

	switch {
	case msg.String() == "enter":
		m.moveField(1)
		return m, nil

	case len(field.Options) > 0 && (msg.String() == "left" || msg.String() == "right"):
		m.cycleOption(field, msg.String() == "right")
		return m, nil

	case (field.Type == "checkbox" || field.Type == "radio") && msg.String() == " ":
		m.controller.Form().SetChecked(field.Name, !field.Checked)
		return m, nil
	}

	if isTextField(field) {
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}
	return m, nil
}

// moveField commits the current field and focuses the next/previous one,
// wrapping around.
func (m *Model) moveField(delta int) {
	fields := m.editableFields()
	if len(fields) == 0 {
		return
	}
	m.commitEditor()
	m.fieldIdx = (m.fieldIdx + delta + len(fields)) % len(fields)
	m.loadEditor()
}

// cycleOption steps a select field through its options.
func (m *Model) cycleOption(field *form.Field, forward bool) {
	if len(field.Options) == 0 {
		return
	}
	current := 0
	for i, opt := range field.Options {
		if opt.Value == field.Value {
			current = i
			break
		}
	}
	if forward {
		current = (current + 1) % len(field.Options)
	} else {
		current = (current - 1 + len(field.Options)) % len(field.Options)
	}
	m.controller.Form().SetValue(field.Name, field.Options[current].Value)
}

// renderPanel renders the job panel box.
func (m Model) renderPanel(width, height int) string {
	styles := m.theme.Styles()
	st := m.controller.State()
	f := m.controller.Form()
	if f == nil {
		return ""
	}

	title := "New Job"
	if st.CurrentJobID != "" {
		title = "Job #" + st.CurrentJobID
	}
	if f.IsDirty() {
		title += " *"
	}

	missing := map[string]bool{}
	for _, name := range f.MissingRequired() {
		missing[name] = true
	}

	fields := m.editableFields()
	var b strings.Builder
	for i, field := range fields {
		focused := i == m.fieldIdx
		b.WriteString(m.renderPanelField(field, focused, missing[field.Name], width-4))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	hints := "ctrl+s save · ctrl+b minimize · esc close"
	b.WriteString(styles.FaintText.Render(truncate(hints, width-4)))

	return m.renderTitledBox(title, b.String(), width, height, true)
}

// renderPanelField renders one labeled form row.
func (m Model) renderPanelField(field *form.Field, focused, missing bool, width int) string {
	styles := m.theme.Styles()

	label := titleCase(field.Name)
	if missing {
		label += " *"
	}
	var rendered string
	switch {
	case missing:
		rendered = styles.DangerText.Render(label)
	case focused:
		rendered = styles.AccentText.Bold(true).Render(label)
	default:
		rendered = styles.MutedText.Render(label)
	}

	var value string
	switch {
	case len(field.Options) > 0:
		value = m.renderSelectValue(field, focused)
	case field.Type == "checkbox" || field.Type == "radio":
		box := ternary(field.Checked, "[x]", "[ ]")
		value = styles.Text.Render(box)
		if focused {
			value += styles.FaintText.Render(" space toggles")
		}
	case focused:
		value = m.editor.View()
	default:
		value = styles.Text.Render(truncate(field.Value, width))
	}

	return rendered + "\n  " + value
}

// renderSelectValue renders a select field with its calendar color chip.
func (m Model) renderSelectValue(field *form.Field, focused bool) string {
	styles := m.theme.Styles()

	label := field.Value
	chip := ""
	for _, opt := range field.Options {
		if opt.Value == field.Value {
			if opt.Label != "" {
				label = opt.Label
			}
			if opt.Color != "" {
				chip = lipgloss.NewStyle().
					Foreground(lipgloss.Color(opt.Color)).
					Render("■ ")
			}
			break
		}
	}
	if label == "" {
		label = "(none)"
	}

	if focused {
		return styles.FaintText.Render("◂ ") + chip + styles.Text.Render(label) + styles.FaintText.Render(" ▸")
	}
	return chip + styles.Text.Render(label)
}
