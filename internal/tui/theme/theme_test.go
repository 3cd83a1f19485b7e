package theme

import (
	"testing"

	"github.com/theirongolddev/stackcost/internal/catalog"

	"github.com/charmbracelet/lipgloss"
)

var ocean = catalog.Theme{
	Name: "Ocean",
	Dark: catalog.ThemeColors{Primary: "#0077be", Secondary: "#00a8e8"},
}

func TestSetActive(t *testing.T) {
	defer func() { Active = FlexokiDark }()

	SetActive("tokyo-night")
	if Active.Name != "tokyo-night" {
		t.Errorf("Active = %s, want tokyo-night", Active.Name)
	}

	SetActive("ocean", ocean)
	if Active.Name != "Ocean" || Active.Accent != lipgloss.Color("#0077be") {
		t.Errorf("catalog theme not applied: %+v", Active)
	}
	if Active.Background != FlexokiDark.Background {
		t.Errorf("catalog theme should keep the base background, got %s", Active.Background)
	}

	SetActive("nope")
	if Active.Name != FlexokiDark.Name {
		t.Errorf("unknown theme selected %s, want the default", Active.Name)
	}
}

func TestFromCatalogKeepsBaseForEmptyColors(t *testing.T) {
	th := FromCatalog(catalog.Theme{Name: "plain"})
	if th.Accent != FlexokiDark.Accent || th.AccentBright != FlexokiDark.AccentBright {
		t.Errorf("empty colors changed the accent: %+v", th)
	}
}

func TestNames(t *testing.T) {
	names := Names([]catalog.Theme{ocean})
	if len(names) != len(All)+1 || names[len(names)-1] != "Ocean" {
		t.Errorf("Names = %v", names)
	}
	if ByName("missing").Name != FlexokiDark.Name {
		t.Error("ByName should fall back to flexoki-dark")
	}
}
