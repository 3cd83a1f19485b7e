package components

import (
	"strings"

	"github.com/theirongolddev/stackcost/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar: a message on the left and
// the help hint on the right. warn colors the message.
func RenderStatusBar(width int, message, help string, warn bool) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Width(width)

	msgStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	if warn {
		msgStyle = msgStyle.Foreground(t.Orange)
	}

	left := " " + msgStyle.Render(message)
	right := help + " "

	// Pad middle
	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return style.Render(left + strings.Repeat(" ", padding) + right)
}
