package components

import (
	"strings"
	"testing"

	"github.com/theirongolddev/stackcost/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRowSumsToTotal(t *testing.T) {
	for _, tc := range []struct{ total, n int }{{100, 3}, {81, 3}, {7, 4}, {180, 4}} {
		widths := LayoutRow(tc.total, tc.n)
		if len(widths) != tc.n {
			t.Fatalf("LayoutRow(%d, %d) returned %d widths", tc.total, tc.n, len(widths))
		}
		sum := 0
		for _, w := range widths {
			sum += w
		}
		if sum != tc.total {
			t.Errorf("LayoutRow(%d, %d) sums to %d", tc.total, tc.n, sum)
		}
		if widths[0]-widths[tc.n-1] > 1 {
			t.Errorf("LayoutRow(%d, %d) = %v, widths differ by more than 1", tc.total, tc.n, widths)
		}
	}
	if LayoutRow(10, 0) != nil {
		t.Error("LayoutRow with n=0 should be nil")
	}
}

func TestPaneHasExactOuterSize(t *testing.T) {
	theme.SetActive("flexoki-dark")

	for _, focused := range []bool{false, true} {
		out := Pane("Apps", "Docs\nDraw", 30, 10, focused)
		lines := strings.Split(out, "\n")
		if len(lines) != 10 {
			t.Errorf("focused=%v: height %d, want 10", focused, len(lines))
		}
		for i, line := range lines {
			if w := lipgloss.Width(line); w != 30 {
				t.Errorf("focused=%v line %d: width %d, want 30", focused, i, w)
			}
		}
	}
}

func TestMetricCardRowWidth(t *testing.T) {
	theme.SetActive("flexoki-dark")

	row := MetricCardRow([]Metric{
		{Label: "Total (Monthly)", Value: "$29.00", Note: "1:1"},
		{Label: "Apps", Value: "2"},
		{Label: "Currency", Value: "USD"},
	}, 90)
	for i, line := range strings.Split(row, "\n") {
		if w := lipgloss.Width(line); w != 90 {
			t.Errorf("line %d: width %d, want 90", i, w)
		}
	}
	if !strings.Contains(row, "$29.00") || !strings.Contains(row, "1:1") {
		t.Errorf("metric row missing value or note:\n%s", row)
	}
}

func TestShareBarClampsAndLabels(t *testing.T) {
	theme.SetActive("flexoki-dark")

	for _, tc := range []struct {
		share float64
		want  string
	}{
		{0.5, "50%"},
		{-1, "0%"},
		{2, "100%"},
	} {
		out := ShareBar(tc.share, 10)
		if !strings.Contains(out, tc.want) {
			t.Errorf("ShareBar(%v) = %q, want it to contain %q", tc.share, out, tc.want)
		}
		if !strings.Contains(out, "\x1b[") {
			t.Errorf("ShareBar(%v) has no ANSI styling", tc.share)
		}
	}
}

func TestPaneAtXMatchesRenderedBar(t *testing.T) {
	theme.SetActive("flexoki-dark")

	pos := 0
	for i, name := range Panes {
		w := PaneVisualWidth(name)
		if got := PaneAtX(pos + w/2); got != i {
			t.Errorf("PaneAtX(%d) = %d, want %d", pos+w/2, got, i)
		}
		pos += w + 1
	}
	if got := PaneAtX(pos + 50); got != -1 {
		t.Errorf("PaneAtX past the bar = %d, want -1", got)
	}

	bar := RenderPaneBar(1, 80)
	plain := stripANSI(bar)
	idx := strings.Index(plain, "Apps")
	if idx < 0 {
		t.Fatalf("pane bar missing Apps: %q", plain)
	}
	col := lipgloss.Width(plain[:idx])
	if got := PaneAtX(col); got != 1 {
		t.Errorf("PaneAtX at rendered Apps column %d = %d, want 1", col, got)
	}
}

func TestStatusBarFillsWidth(t *testing.T) {
	theme.SetActive("flexoki-dark")

	out := RenderStatusBar(60, "Added Docs", "? help", false)
	if w := lipgloss.Width(out); w != 60 {
		t.Errorf("status bar width %d, want 60", w)
	}
	if !strings.Contains(out, "Added Docs") || !strings.Contains(out, "? help") {
		t.Errorf("status bar missing text: %q", out)
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEsc = true
		case inEsc:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEsc = false
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
