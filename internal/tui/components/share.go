package components

import (
	"fmt"

	"github.com/theirongolddev/stackcost/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ShareBar renders a category's share of the total as a solid bar followed
// by the percentage.
func ShareBar(share float64, barWidth int) string {
	t := theme.Active

	if share < 0 {
		share = 0
	}
	if share > 1 {
		share = 1
	}
	if barWidth < 4 {
		barWidth = 4
	}

	bar := progress.New(
		progress.WithSolidFill(string(t.Green)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	pctStyle := lipgloss.NewStyle().Foreground(t.Green).Bold(true)

	return bar.ViewAs(share) + " " + pctStyle.Render(fmt.Sprintf("%3.0f%%", share*100))
}
