// Package cmd implements the stackcost CLI commands.
package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/theirongolddev/stackcost/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := appConfig

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Catalog:  %s\n", cfg.General.Catalog)
	fmt.Printf("    Currency: %s\n", orDefault(cfg.General.Currency, "catalog default"))
	fmt.Printf("    Cycle:    %s\n", cfg.General.Cycle)
	fmt.Println()

	fmt.Println("  [APIs]")
	fmt.Printf("    Rates URL:        %s\n", orDefault(cfg.APIs.RatesURL, "from catalog"))
	fmt.Printf("    Chart URL:        %s\n", orDefault(cfg.APIs.ChartURL, "from catalog"))
	fmt.Printf("    Icon search URL:  %s\n", orDefault(cfg.APIs.IconSearchURL, "from catalog"))
	fmt.Printf("    Chart renderer:   %s\n", cfg.APIs.ChartRenderer)
	fmt.Printf("    Timeout:          %ds\n", cfg.APIs.TimeoutSec)
	fmt.Printf("    Requests/sec:     %g\n", cfg.APIs.RequestsPerSec)
	fmt.Println()

	fmt.Println("  [Preparer]")
	fmt.Printf("    Name:    %s\n", orDefault(cfg.Preparer.Name, "not set"))
	fmt.Printf("    Address: %s\n", orDefault(cfg.Preparer.Address, "not set"))
	fmt.Printf("    Logo:    %s\n", orDefault(cfg.Preparer.Logo, "none"))
	fmt.Println()

	fmt.Println("  [Report]")
	fmt.Printf("    Output dir:          %s\n", orDefault(cfg.Report.OutputDir, "."))
	fmt.Printf("    Format:              %s\n", cfg.Report.Format)
	fmt.Printf("    Local chart fallback: %v\n", cfg.Report.ChartFallbackLocal)
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address:    %s\n", cfg.Server.Addr)
	fmt.Printf("    Rate limit: %g/s (burst %d)\n", cfg.Server.RateLimit, cfg.Server.Burst)
	fmt.Println()

	fmt.Println("  [Store]")
	fmt.Printf("    Path: %s\n", config.StorePath(cfg))
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Printf("    Log level: %s\n", cfg.Log.Level)

	if len(cfg.Pricing.Overrides) > 0 {
		fmt.Println()
		fmt.Println("  [Pricing overrides]")
		ids := make([]string, 0, len(cfg.Pricing.Overrides))
		for id := range cfg.Pricing.Overrides {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			fmt.Printf("    app %s: %s\n", id, describeOverride(cfg.Pricing.Overrides[id]))
		}
	}

	return nil
}

func describeOverride(o config.AppPricingOverride) string {
	var parts []string
	if o.Monthly != nil {
		parts = append(parts, fmt.Sprintf("monthly %g", *o.Monthly))
	}
	if o.Yearly != nil {
		parts = append(parts, fmt.Sprintf("yearly %g", *o.Yearly))
	}
	if o.Currency != "" {
		parts = append(parts, "in "+strings.ToUpper(o.Currency))
	}
	return strings.Join(parts, ", ")
}
