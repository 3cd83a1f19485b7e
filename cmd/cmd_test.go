package cmd

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/theirongolddev/stackcost/internal/catalog"
	"github.com/theirongolddev/stackcost/internal/config"
	"github.com/theirongolddev/stackcost/internal/report"

	"github.com/spf13/cobra"
)

const testCatalog = `{
  "config": {
    "apis": {"pieChart": "https://charts.example/{labels}/{values}"},
    "currencies": {"supported": ["USD"], "default": "USD"},
    "themes": [{"name": "Ocean", "fontFamily": "Georgia", "light": {"primary": "#0077be"}}]
  },
  "categories": [{"name": "Productivity"}],
  "apps": [{"id": 1, "name": "Docs", "category": "Productivity", "cost": {"monthly": 10, "yearly": 100, "currency": "USD"}}]
}`

func testCatalogT(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Parse([]byte(testCatalog))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return cat
}

func withConfig(t *testing.T, cfg config.Config) {
	t.Helper()
	prev := appConfig
	appConfig = cfg
	t.Cleanup(func() { appConfig = prev })
}

func TestFilterDetachArg(t *testing.T) {
	got := filterDetachArg([]string{"serve", "--detach", "--addr", ":9000", "--detach=true"})
	want := []string{"serve", "--addr", ":9000"}
	if !slices.Equal(got, want) {
		t.Errorf("filterDetachArg = %v, want %v", got, want)
	}
}

func TestNewChartSource(t *testing.T) {
	cat := testCatalogT(t)

	cfg := config.DefaultConfig()
	withConfig(t, cfg)
	rc, ok := newChartSource(cat, false).(*report.RemoteChart)
	if !ok {
		t.Fatalf("default renderer = %T, want *report.RemoteChart", newChartSource(cat, false))
	}
	if rc.URLTemplate != "https://charts.example/{labels}/{values}" {
		t.Errorf("URLTemplate = %q, want the catalog template", rc.URLTemplate)
	}

	if _, ok := newChartSource(cat, true).(report.LocalChart); !ok {
		t.Error("local flag should select report.LocalChart")
	}

	cfg.APIs.ChartURL = "https://override.example/{labels}"
	cfg.Report.ChartFallbackLocal = true
	withConfig(t, cfg)
	fb, ok := newChartSource(cat, false).(report.FallbackChart)
	if !ok {
		t.Fatalf("fallback config = %T, want report.FallbackChart", newChartSource(cat, false))
	}
	if p, _ := fb.Primary.(*report.RemoteChart); p == nil || p.URLTemplate != cfg.APIs.ChartURL {
		t.Errorf("fallback primary = %#v, want the configured chart URL", fb.Primary)
	}

	cfg.APIs.ChartRenderer = "local"
	withConfig(t, cfg)
	if _, ok := newChartSource(cat, false).(report.LocalChart); !ok {
		t.Error("chart_renderer = local should select report.LocalChart")
	}
}

func TestReportStyle(t *testing.T) {
	cat := testCatalogT(t)

	cfg := config.DefaultConfig()
	cfg.Appearance.Theme = "ocean"
	withConfig(t, cfg)
	style := reportStyle(cat)
	if style.Accent != "#0077be" || style.Font != "Georgia" {
		t.Errorf("reportStyle = %+v", style)
	}

	cfg.Appearance.Theme = "flexoki-dark"
	withConfig(t, cfg)
	if style := reportStyle(cat); style != (report.HTMLStyle{}) {
		t.Errorf("unknown catalog theme gave %+v, want defaults", style)
	}
}

// editableCatalog writes testCatalog to a temp file and points --catalog at it.
func editableCatalog(t *testing.T) (string, *cobra.Command) {
	t.Helper()
	withConfig(t, config.DefaultConfig())
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte(testCatalog), 0o600); err != nil {
		t.Fatal(err)
	}
	prevCatalog, prevOut := flagCatalog, flagCatalogOut
	flagCatalog, flagCatalogOut = path, ""
	t.Cleanup(func() { flagCatalog, flagCatalogOut = prevCatalog, prevOut })

	c := &cobra.Command{}
	c.SetContext(context.Background())
	return path, c
}

func reloadCatalog(t *testing.T, path string) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load edited catalog: %v", err)
	}
	return cat
}

func TestCatalogThemeCommands(t *testing.T) {
	path, c := editableCatalog(t)

	if err := runCatalogAddTheme(c, []string{"Forest"}); err != nil {
		t.Fatalf("add-theme: %v", err)
	}
	th, ok := reloadCatalog(t, path).Theme("forest")
	if !ok {
		t.Fatal("theme Forest not written")
	}
	if th.FontFamily != flagThemeFont || th.Dark.Primary != flagThemeDarkPrimary {
		t.Errorf("theme = %+v", th)
	}

	if err := runCatalogRemoveTheme(c, []string{"Ocean"}); err != nil {
		t.Fatalf("remove-theme: %v", err)
	}
	if _, ok := reloadCatalog(t, path).Theme("Ocean"); ok {
		t.Error("theme Ocean still present")
	}
	if err := runCatalogRemoveTheme(c, []string{"Ocean"}); err == nil {
		t.Error("removing an absent theme should fail")
	}
}

func TestCatalogRemoveCategoryAndTemplate(t *testing.T) {
	path, c := editableCatalog(t)

	prevApps := flagTemplateApps
	flagTemplateApps = "1"
	t.Cleanup(func() { flagTemplateApps = prevApps })
	if err := runCatalogAddTemplate(c, []string{"Solo"}); err != nil {
		t.Fatalf("add-template: %v", err)
	}
	if err := runCatalogRemoveTemplate(c, []string{"solo"}); err != nil {
		t.Fatalf("remove-template: %v", err)
	}
	if got := len(reloadCatalog(t, path).Templates()); got != 0 {
		t.Errorf("templates = %d after remove, want 0", got)
	}

	if err := runCatalogRemoveCategory(c, []string{"Productivity"}); err != nil {
		t.Fatalf("remove-category: %v", err)
	}
	cat := reloadCatalog(t, path)
	if _, ok := cat.Category("Productivity"); ok {
		t.Error("category still present")
	}
	if app, ok := cat.App(1); !ok || app.Category != "Productivity" {
		t.Errorf("app 1 = %+v, %v; want kept with its dangling category", app, ok)
	}
}

func TestCatalogSetCurrencies(t *testing.T) {
	path, c := editableCatalog(t)

	prevSup, prevDef := flagCurrenciesSupported, flagCurrenciesDefault
	t.Cleanup(func() { flagCurrenciesSupported, flagCurrenciesDefault = prevSup, prevDef })

	flagCurrenciesSupported, flagCurrenciesDefault = "usd, eur", ""
	if err := runCatalogSetCurrencies(c, nil); err != nil {
		t.Fatalf("set-currencies: %v", err)
	}
	cur := reloadCatalog(t, path).Currencies()
	if !slices.Equal(cur.Supported, []string{"USD", "EUR"}) || cur.Default != "USD" {
		t.Errorf("currencies = %+v", cur)
	}

	flagCurrenciesDefault = "GBP"
	if err := runCatalogSetCurrencies(c, nil); !catalog.IsMalformed(err) {
		t.Errorf("default outside supported: got %v, want malformed", err)
	}
}
