package cli

import (
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestParseIDs(t *testing.T) {
	got, err := ParseIDs(" 3, 1,,2 ")
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got, []int{3, 1, 2}) {
		t.Errorf("ParseIDs = %v", got)
	}
	if _, err := ParseIDs("1,x"); err == nil {
		t.Error("expected error for non-integer id")
	}
	if FormatIDs(got) != "3,1,2" {
		t.Errorf("FormatIDs = %q", FormatIDs(got))
	}
}

func TestFormatNumber(t *testing.T) {
	for n, want := range map[int64]string{0: "0", 999: "999", 1000: "1,000", -1234567: "-1,234,567"} {
		if got := FormatNumber(n); got != want {
			t.Errorf("FormatNumber(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("Productivity", 6); got != "Produ…" {
		t.Errorf("Truncate = %q", got)
	}
	if got := Truncate("Docs", 10); got != "Docs" {
		t.Errorf("Truncate short = %q", got)
	}
}

func TestRenderTableAlignsWideRunes(t *testing.T) {
	out := RenderTable(Table{
		Headers:  []string{"App", "Category", "Cost"},
		Rows:     [][]string{{"Docs", "Productivity", "€9.00"}, {"---"}, {"Total", "", "€29.00"}},
		LeftCols: 2,
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	width := lipgloss.Width(lines[0])
	for i, l := range lines {
		if lipgloss.Width(l) != width {
			t.Errorf("line %d width %d, want %d: %q", i, lipgloss.Width(l), width, l)
		}
	}
}

func TestRenderShareBar(t *testing.T) {
	out := RenderShareBar(0.25, 8)
	if !strings.Contains(out, "25.0%") {
		t.Errorf("bar = %q", out)
	}
	if got := strings.Count(out, "█"); got != 2 {
		t.Errorf("filled = %d, want 2", got)
	}
}
