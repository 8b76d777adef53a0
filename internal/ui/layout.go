package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// joinHorizontal places two rendered panes side by side, top-aligned.
func joinHorizontal(left, right string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

// overlayAt draws box over base at cell position (x, y), clamped to the
// given bounds. Lines under the box are split on display width so the
// floating panel reads as a true overlay.
func overlayAt(base, box string, x, y, width, height int) string {
	baseLines := strings.Split(base, "\n")
	boxLines := strings.Split(box, "\n")

	boxWidth := lipgloss.Width(box)
	boxHeight := len(boxLines)

	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	if x+boxWidth > width {
		x = width - boxWidth
		if x < 0 {
			x = 0
		}
	}
	if y+boxHeight > height {
		y = height - boxHeight
		if y < 0 {
			y = 0
		}
	}

	for i, boxLine := range boxLines {
		row := y + i
		if row >= len(baseLines) {
			break
		}
		under := baseLines[row]
		left := ansi.Truncate(under, x, "")
		leftWidth := lipgloss.Width(left)
		if leftWidth < x {
			left += strings.Repeat(" ", x-leftWidth)
		}
		right := ansi.TruncateLeft(under, x+lipgloss.Width(boxLine), "")
		baseLines[row] = left + boxLine + right
	}

	return strings.Join(baseLines, "\n")
}
