package cmd

import (
	"fmt"

	"github.com/theirongolddev/stackcost/internal/catalog"
	"github.com/theirongolddev/stackcost/internal/config"
	"github.com/theirongolddev/stackcost/internal/tui"
	"github.com/theirongolddev/stackcost/internal/tui/theme"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(c *cobra.Command, _ []string) error {
	cfg := appConfig

	vals := &tui.SetupValues{
		Catalog:       catalogSource(),
		Currency:      cfg.General.Currency,
		Cycle:         cfg.General.Cycle,
		Theme:         cfg.Appearance.Theme,
		PreparerName:  cfg.Preparer.Name,
		PreparerAddr:  cfg.Preparer.Address,
		Logo:          cfg.Preparer.Logo,
		ChartRenderer: cfg.APIs.ChartRenderer,
	}

	// The catalog supplies currency and theme choices when it loads.
	var currencies []string
	var catalogThemes []catalog.Theme
	if cat, err := catalog.Load(c.Context(), vals.Catalog, catalog.WithGetter(newGetter())); err == nil {
		cur := cat.Currencies()
		currencies = cur.Supported
		if vals.Currency == "" {
			vals.Currency = cur.Default
		}
		catalogThemes = cat.Themes()
	} else if !flagQuiet {
		fmt.Printf("  Could not load catalog %s: %v\n", vals.Catalog, err)
	}

	form := tui.NewSetupForm(vals, currencies, theme.Names(catalogThemes))
	if err := form.Run(); err != nil {
		return fmt.Errorf("setup form: %w", err)
	}

	cfg.General.Catalog = vals.Catalog
	cfg.General.Currency = vals.Currency
	cfg.General.Cycle = vals.Cycle
	cfg.Appearance.Theme = vals.Theme
	cfg.Preparer.Name = vals.PreparerName
	cfg.Preparer.Address = vals.PreparerAddr
	cfg.Preparer.Logo = vals.Logo
	cfg.APIs.ChartRenderer = vals.ChartRenderer

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Println("  Run `stackcost setup` anytime to reconfigure.")
	fmt.Println()

	return nil
}
