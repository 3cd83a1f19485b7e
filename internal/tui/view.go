package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/stackcost/internal/cli"
	"github.com/theirongolddev/stackcost/internal/model"
	"github.com/theirongolddev/stackcost/internal/pipeline"
	"github.com/theirongolddev/stackcost/internal/tui/components"
	"github.com/theirongolddev/stackcost/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if a.detailsForm != nil {
		t := theme.Active
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, a.detailsForm.View(),
			lipgloss.WithWhitespaceBackground(t.Background))
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}
	t := theme.Active
	msg := lipgloss.NewStyle().
		Foreground(t.Orange).
		Render(fmt.Sprintf("Terminal too narrow (%d cols), need %d+", a.width, minTerminalWidth))
	return lipgloss.Place(a.width, h, lipgloss.Center, lipgloss.Center, msg)
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	dimStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	h := a.help
	h.ShowAll = true

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")
	b.WriteString(h.View(keys))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	cw := a.contentWidth()
	q := a.sess.Quote()

	bar := components.RenderPaneBar(a.focus, cw)
	metrics := a.renderMetrics(q, cw)
	status := a.renderStatus(cw)

	paneH := a.height - lipgloss.Height(bar) - lipgloss.Height(metrics) - lipgloss.Height(status)
	if paneH < 6 {
		paneH = 6
	}

	widths := components.LayoutRow(cw, len(components.Panes))
	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		a.renderCategories(widths[paneCategories], paneH, q),
		a.renderApps(widths[paneApps], paneH),
		a.renderStack(widths[paneStack], paneH, q),
	)

	body := strings.Join([]string{bar, panes, metrics}, "\n")
	body = truncateHeight(padHeight(body, a.height-1), a.height-1)
	return fillLinesWithBackground(body+"\n"+status, cw, t.Background)
}

func (a App) renderMetrics(q model.Quote, w int) string {
	total := components.Metric{
		Label: "Total (" + q.Cycle.Label() + ")",
		Value: cli.FormatMoney(q.Total, q.Currency),
	}
	if q.Degraded {
		total.Note = "1:1"
	}

	top := "—"
	if len(q.Subtotals) > 0 {
		best := q.Subtotals[0]
		for _, s := range q.Subtotals[1:] {
			if s.Cost.GreaterThan(best.Cost) {
				best = s
			}
		}
		top = best.Name
	}

	return components.MetricCardRow([]components.Metric{
		total,
		{Label: "Apps", Value: strconv.Itoa(len(q.Lines))},
		{Label: "Currency", Value: q.Currency},
		{Label: "Top category", Value: top},
	}, w)
}

func (a App) renderStatus(w int) string {
	msg := a.status
	hint := a.help.ShortHelpView(keys.ShortHelp())
	if lipgloss.Width(msg)+lipgloss.Width(hint)+4 > w {
		hint = "? help"
	}
	msg = truncStr(msg, w-lipgloss.Width(hint)-4)
	if a.exporting {
		msg = a.spinner.View() + " Exporting report..."
	}
	return components.RenderStatusBar(w, msg, hint, a.warn)
}

func (a App) renderCategories(w, h int, q model.Quote) string {
	names := a.categoryNames()
	inner := components.CardInnerWidth(w)
	visible := h - 3 // border and title

	counts := make(map[string]int, len(q.Subtotals))
	for _, s := range q.Subtotals {
		counts[s.Name] = s.Apps
	}
	for _, l := range q.Lines {
		if !l.CategoryKnown {
			counts[otherCategory]++
		}
	}

	var rows []string
	start, end := listWindow(len(names), a.catCursor, visible)
	for i := start; i < end; i++ {
		right := ""
		if n := counts[names[i]]; n > 0 {
			right = strconv.Itoa(n)
		}
		rows = append(rows, a.renderRow(names[i], right, inner, i == a.catCursor, a.focus == paneCategories, false))
	}
	if len(names) == 0 {
		rows = append(rows, mutedText("No categories"))
	}

	return components.Pane("Categories", strings.Join(rows, "\n"), w, h, a.focus == paneCategories)
}

func (a App) renderApps(w, h int) string {
	apps := a.currentApps()
	inner := components.CardInnerWidth(w)
	visible := h - 3
	cur := a.sess.Currency()
	cycle := a.sess.Cycle()
	rt := a.sess.Rates()
	sel := a.sess.Selection()

	var rows []string
	start, end := listWindow(len(apps), a.appCursor, visible)
	for i := start; i < end; i++ {
		app := apps[i]
		mark := "  "
		if sel.Contains(app.ID) {
			mark = "✓ "
		}
		cost := cli.FormatMoney(pipeline.LineItem(app, cycle, cur, rt), cur)
		rows = append(rows, a.renderRow(mark+app.Name, cost, inner, i == a.appCursor, a.focus == paneApps, sel.Contains(app.ID)))
	}
	if len(apps) == 0 {
		rows = append(rows, mutedText("No apps in this category"))
	}

	title := "Apps"
	names := a.categoryNames()
	if a.catCursor < len(names) {
		title = "Apps · " + names[a.catCursor]
	}
	return components.Pane(title, strings.Join(rows, "\n"), w, h, a.focus == paneApps)
}

func (a App) renderStack(w, h int, q model.Quote) string {
	inner := components.CardInnerWidth(w)
	visible := h - 3

	if q.Empty() {
		return components.Pane("Stack", mutedText("Nothing selected yet"), w, h, a.focus == paneStack)
	}

	// Lines get the room the category breakdown leaves.
	breakdown := len(q.Subtotals) + 1
	lineRows := visible - breakdown
	if lineRows < visible/2 {
		lineRows = visible / 2
	}

	var rows []string
	start, end := listWindow(len(q.Lines), a.stackCursor, lineRows)
	for i := start; i < end; i++ {
		l := q.Lines[i]
		name := l.Name
		if !l.CategoryKnown {
			name += " *"
		}
		rows = append(rows, a.renderRow(name, cli.FormatMoney(l.Cost, q.Currency), inner, i == a.stackCursor, a.focus == paneStack, false))
	}

	if len(q.Subtotals) > 0 {
		rows = append(rows, mutedText(strings.Repeat("─", inner)))
		barW := inner / 3
		labelW := inner - barW - 6
		for _, s := range q.Subtotals {
			label := fmt.Sprintf("%-*s", labelW, truncStr(s.Name, labelW))
			rows = append(rows, mutedText(label)+" "+components.ShareBar(pipeline.Share(s.Cost, q.Total), barW))
		}
	}

	return components.Pane("Stack", truncateHeight(strings.Join(rows, "\n"), visible), w, h, a.focus == paneStack)
}

// renderRow lays out one list row with left text and right-aligned value.
func (a App) renderRow(left, right string, w int, cursor, focused, selected bool) string {
	t := theme.Active

	rightW := lipgloss.Width(right)
	left = truncStr(left, w-rightW-1)
	gap := w - lipgloss.Width(left) - rightW
	if gap < 1 {
		gap = 1
	}

	style := lipgloss.NewStyle().Foreground(t.TextPrimary)
	valueStyle := lipgloss.NewStyle().Foreground(t.Green)
	if selected {
		style = style.Foreground(t.Accent)
	}
	if cursor && focused {
		style = style.Background(t.SurfaceHover).Bold(true)
		valueStyle = valueStyle.Background(t.SurfaceHover)
	}

	return style.Render(left+strings.Repeat(" ", gap)) + valueStyle.Render(right)
}

func mutedText(s string) string {
	return lipgloss.NewStyle().Foreground(theme.Active.TextMuted).Render(s)
}

// listWindow returns the [start, end) range of n rows that keeps cursor visible.
func listWindow(n, cursor, visible int) (int, int) {
	if visible < 1 {
		visible = 1
	}
	if n <= visible {
		return 0, n
	}
	start := cursor - visible + 1
	if start < 0 {
		start = 0
	}
	end := start + visible
	if end > n {
		end = n
		start = n - visible
	}
	return start, end
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	padding := strings.Repeat("\n", h-len(lines))
	return s + padding
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}
