// Package theme defines color themes for the stack builder.
package theme

import (
	"strings"

	"github.com/theirongolddev/stackcost/internal/catalog"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color roles used throughout the TUI.
type Theme struct {
	Name         string
	Background   lipgloss.Color // Main app background
	Surface      lipgloss.Color // Pane backgrounds
	SurfaceHover lipgloss.Color // Selected row
	Border       lipgloss.Color // Unfocused pane borders
	BorderAccent lipgloss.Color // Focused pane border
	TextDim      lipgloss.Color // Hints, disabled
	TextMuted    lipgloss.Color // Labels, metadata
	TextPrimary  lipgloss.Color // Primary content text
	Accent       lipgloss.Color // Active states, totals
	AccentBright lipgloss.Color
	Green        lipgloss.Color // Costs
	Orange       lipgloss.Color // Warnings
	Red          lipgloss.Color
}

// Active is the currently selected theme.
var Active = FlexokiDark

// FlexokiDark is the default theme - warm, paper-inspired dark theme.
var FlexokiDark = Theme{
	Name:         "flexoki-dark",
	Background:   lipgloss.Color("#100F0F"),
	Surface:      lipgloss.Color("#1C1B1A"),
	SurfaceHover: lipgloss.Color("#282726"),
	Border:       lipgloss.Color("#403E3C"),
	BorderAccent: lipgloss.Color("#3AA99F"),
	TextDim:      lipgloss.Color("#575653"),
	TextMuted:    lipgloss.Color("#878580"),
	TextPrimary:  lipgloss.Color("#FFFCF0"),
	Accent:       lipgloss.Color("#3AA99F"),
	AccentBright: lipgloss.Color("#5BC8BE"),
	Green:        lipgloss.Color("#879A39"),
	Orange:       lipgloss.Color("#DA702C"),
	Red:          lipgloss.Color("#D14D41"),
}

// CatppuccinMocha is a warm pastel theme with soft, soothing colors.
var CatppuccinMocha = Theme{
	Name:         "catppuccin-mocha",
	Background:   lipgloss.Color("#1E1E2E"),
	Surface:      lipgloss.Color("#313244"),
	SurfaceHover: lipgloss.Color("#45475A"),
	Border:       lipgloss.Color("#585B70"),
	BorderAccent: lipgloss.Color("#89B4FA"),
	TextDim:      lipgloss.Color("#6C7086"),
	TextMuted:    lipgloss.Color("#A6ADC8"),
	TextPrimary:  lipgloss.Color("#CDD6F4"),
	Accent:       lipgloss.Color("#89B4FA"),
	AccentBright: lipgloss.Color("#B4D0FB"),
	Green:        lipgloss.Color("#A6E3A1"),
	Orange:       lipgloss.Color("#FAB387"),
	Red:          lipgloss.Color("#F38BA8"),
}

// TokyoNight is a cool blue/purple theme.
var TokyoNight = Theme{
	Name:         "tokyo-night",
	Background:   lipgloss.Color("#1A1B26"),
	Surface:      lipgloss.Color("#24283B"),
	SurfaceHover: lipgloss.Color("#343A52"),
	Border:       lipgloss.Color("#565F89"),
	BorderAccent: lipgloss.Color("#7AA2F7"),
	TextDim:      lipgloss.Color("#565F89"),
	TextMuted:    lipgloss.Color("#A9B1D6"),
	TextPrimary:  lipgloss.Color("#C0CAF5"),
	Accent:       lipgloss.Color("#7AA2F7"),
	AccentBright: lipgloss.Color("#A9C1FF"),
	Green:        lipgloss.Color("#9ECE6A"),
	Orange:       lipgloss.Color("#FF9E64"),
	Red:          lipgloss.Color("#F7768E"),
}

// Terminal uses ANSI 16 colors only - maximum compatibility.
var Terminal = Theme{
	Name:         "terminal",
	Background:   lipgloss.Color("0"),
	Surface:      lipgloss.Color("0"),
	SurfaceHover: lipgloss.Color("8"),
	Border:       lipgloss.Color("8"),
	BorderAccent: lipgloss.Color("6"),
	TextDim:      lipgloss.Color("8"),
	TextMuted:    lipgloss.Color("7"),
	TextPrimary:  lipgloss.Color("15"),
	Accent:       lipgloss.Color("6"),
	AccentBright: lipgloss.Color("14"),
	Green:        lipgloss.Color("2"),
	Orange:       lipgloss.Color("3"),
	Red:          lipgloss.Color("1"),
}

// All built-in themes.
var All = []Theme{FlexokiDark, CatppuccinMocha, TokyoNight, Terminal}

// FromCatalog adapts a catalog brand theme onto the FlexokiDark base.
// The dark scheme is used; empty colors keep the base value.
func FromCatalog(ct catalog.Theme) Theme {
	t := FlexokiDark
	t.Name = ct.Name
	if c := strings.TrimSpace(ct.Dark.Primary); c != "" {
		t.Accent = lipgloss.Color(c)
		t.BorderAccent = lipgloss.Color(c)
	}
	if c := strings.TrimSpace(ct.Dark.Secondary); c != "" {
		t.AccentBright = lipgloss.Color(c)
	}
	return t
}

// Lookup finds a built-in theme by name, then a catalog theme (case-insensitive).
func Lookup(name string, catalogThemes []catalog.Theme) (Theme, bool) {
	for _, t := range All {
		if t.Name == name {
			return t, true
		}
	}
	for _, ct := range catalogThemes {
		if strings.EqualFold(ct.Name, name) {
			return FromCatalog(ct), true
		}
	}
	return Theme{}, false
}

// ByName returns a built-in theme by its name, defaulting to FlexokiDark.
func ByName(name string) Theme {
	if t, ok := Lookup(name, nil); ok {
		return t
	}
	return FlexokiDark
}

// SetActive sets the active theme by name, consulting catalog themes after the
// built-ins. Unknown names select FlexokiDark.
func SetActive(name string, catalogThemes ...catalog.Theme) {
	if t, ok := Lookup(name, catalogThemes); ok {
		Active = t
		return
	}
	Active = FlexokiDark
}

// Names lists built-in theme names followed by catalog theme names.
func Names(catalogThemes []catalog.Theme) []string {
	out := make([]string, 0, len(All)+len(catalogThemes))
	for _, t := range All {
		out = append(out, t.Name)
	}
	for _, ct := range catalogThemes {
		out = append(out, ct.Name)
	}
	return out
}
