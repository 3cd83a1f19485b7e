package components

import (
	"strings"

	"github.com/theirongolddev/stackcost/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Panes names the builder's panes in focus order.
var Panes = []string{"Categories", "Apps", "Stack"}

// PaneVisualWidth returns the rendered width of one pane label, including padding.
func PaneVisualWidth(name string) int {
	return lipgloss.Width(name) + 2
}

// RenderPaneBar renders the pane selector with the focused pane highlighted.
func RenderPaneBar(activeIdx, width int) string {
	t := theme.Active

	activeStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.SurfaceHover).
		Bold(true).
		Padding(0, 1)

	inactiveStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Padding(0, 1)

	sepStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	parts := make([]string, 0, len(Panes))
	for i, name := range Panes {
		if i == activeIdx {
			parts = append(parts, activeStyle.Render(name))
		} else {
			parts = append(parts, inactiveStyle.Render(name))
		}
	}

	bar := strings.Join(parts, sepStyle.Render("│"))
	return lipgloss.NewStyle().Width(width).Render(bar)
}

// PaneAtX returns the pane index under column x of the pane bar, or -1.
func PaneAtX(x int) int {
	pos := 0
	for i, name := range Panes {
		w := PaneVisualWidth(name)
		if x >= pos && x < pos+w {
			return i
		}
		pos += w + 1 // separator
	}
	return -1
}
