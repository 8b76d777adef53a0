package ui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tparrish/hitch/internal/corral"
)

// scheduleTimeLayout matches the datetime-local values the backend renders.
const scheduleTimeLayout = "2006-01-02T15:04"

// visibleJobs returns schedule rows filtered by the applied query and
// sorted by start time.
func (m *Model) visibleJobs() []corral.JobSummary {
	jobs := make([]corral.JobSummary, 0, len(m.snapshot.Jobs))
	query := strings.ToLower(m.filterQuery)

	for _, job := range m.snapshot.Jobs {
		if query != "" && !strings.Contains(strings.ToLower(job.CustomerName), query) {
			continue
		}
		jobs = append(jobs, job)
	}

	sort.SliceStable(jobs, func(i, j int) bool {
		ti := parseScheduleTime(jobs[i].StartDT)
		tj := parseScheduleTime(jobs[j].StartDT)
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return jobs[i].ID < jobs[j].ID
	})

	return jobs
}

// selectedJob returns the currently highlighted row, nil when the list is
// empty.
func (m *Model) selectedJob() *corral.JobSummary {
	jobs := m.visibleJobs()
	if len(jobs) == 0 || m.selectedRow >= len(jobs) {
		return nil
	}
	return &jobs[m.selectedRow]
}

// clampSelection keeps the highlight inside the visible rows after filters
// or snapshots change.
func (m *Model) clampSelection() {
	count := len(m.visibleJobs())
	if count == 0 {
		m.selectedRow = 0
		return
	}
	if m.selectedRow >= count {
		m.selectedRow = count - 1
	}
}

// renderSchedule renders the job table pane.
func (m Model) renderSchedule(width, height int) string {
	styles := m.theme.Styles()
	jobs := m.visibleJobs()

	title := m.scheduleTitle(len(jobs))
	var content string

	if m.filterFocused {
		content = styles.AccentText.Render("/") + m.filterInput.View() + "\n"
	}

	if len(jobs) == 0 {
		empty := ternary(m.filterQuery != "", "No jobs match the filter", "No jobs scheduled")
		content += lipgloss.Place(width-2, height-3, lipgloss.Center, lipgloss.Center,
			styles.MutedText.Render(empty))
	} else {
		content += m.renderScheduleRows(jobs, width-4)
	}

	return m.renderTitledBox(title, content, width, height, !m.controller.State().IsOpen)
}

func (m Model) scheduleTitle(visible int) string {
	total := len(m.snapshot.Jobs)
	if m.filterQuery == "" {
		return fmt.Sprintf("Schedule (%d)", total)
	}
	return fmt.Sprintf("Schedule (%d/%d) /%s", visible, total, m.filterQuery)
}

// renderScheduleRows renders jobs as styled rows.
func (m Model) renderScheduleRows(jobs []corral.JobSummary, width int) string {
	var lines []string
	for i, job := range jobs {
		selected := i == m.selectedRow
		bgColor := ternary(selected, m.theme.SelectionBg, m.theme.SurfaceAlt)
		content := m.formatScheduleRow(job, width, bgColor, selected)
		line := lipgloss.NewStyle().
			Background(lipgloss.Color(bgColor)).
			Width(width).
			Render(content)
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// formatScheduleRow formats one job row.
// Format: "■ #ID Customer · Mar 20 09:00 Status"
func (m Model) formatScheduleRow(job corral.JobSummary, width int, bgColor string, selected bool) string {
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()

	chipColor := job.CalendarColor
	if chipColor == "" {
		chipColor = m.theme.Faint
	}
	chip := bg.Render("■", lipgloss.NewStyle().Foreground(lipgloss.Color(chipColor)))

	idStr := "#" + formatJobID(job.ID)
	when := formatScheduleTime(job.StartDT)
	status := titleCase(job.Status)

	nameWidth := width - len(idStr) - len(when) - len(status) - 9
	if nameWidth < 8 {
		nameWidth = 8
	}
	name := padRight(truncate(job.CustomerName, nameWidth), nameWidth)

	var idStyle, nameStyle, whenStyle, statusStyle lipgloss.Style
	if selected {
		selText := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		idStyle, nameStyle, whenStyle, statusStyle = selText, selText, selText, selText
	} else {
		idStyle = styles.MutedText
		nameStyle = styles.Text
		whenStyle = styles.FaintText
		statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(m.statusColor(job.Status)))
	}

	return chip + bg.Space() +
		bg.Render(idStr, idStyle) + bg.Space() +
		bg.Render(name, nameStyle) + bg.Render(" · ", whenStyle) +
		bg.Render(when, whenStyle) + bg.Space() +
		bg.Render(status, statusStyle)
}

func (m Model) statusColor(status string) string {
	status = strings.ToLower(strings.TrimSpace(status))
	if color, ok := m.theme.StatusColors[status]; ok {
		return color
	}
	return m.theme.Text
}

// renderTitledBox renders content in a box with the title embedded in the
// top border: ┌─── Title ───┐
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	borderColorStr := ternary(focused, m.theme.BorderFocus, m.theme.Border)
	bgColorStr := ternary(focused, m.theme.FocusBg, m.theme.SurfaceAlt)

	bg := NewBgStyle(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColorStr))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := width - 2
	titleLen := len(title)
	leftPad := (innerWidth - titleLen - 2) / 2
	if leftPad < 0 {
		leftPad = 0
	}
	rightPad := innerWidth - titleLen - 2 - leftPad
	if rightPad < 0 {
		rightPad = 0
	}

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).Background(lipgloss.Color(bgColorStr))

	contentLines := strings.Split(content, "\n")
	boxHeight := height - 2

	var paddedLines []string
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		paddedLines = append(paddedLines,
			bg.Render("│", borderStyle)+
				contentStyle.Render(line)+
				bg.Render("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(paddedLines, "\n") + "\n" + bottomBorder
}

// formatJobID renders a numeric job identifier the way the backend expects
// it in URLs and form fields.
func formatJobID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func parseScheduleTime(value string) time.Time {
	t, err := time.Parse(scheduleTimeLayout, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

// formatScheduleTime renders a start time compactly for table rows.
func formatScheduleTime(value string) string {
	t := parseScheduleTime(value)
	if t.IsZero() {
		return "—"
	}
	return t.Format("Jan 2 15:04")
}
