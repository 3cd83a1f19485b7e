package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/stackcost/internal/catalog"
	"github.com/theirongolddev/stackcost/internal/cli"
	"github.com/theirongolddev/stackcost/internal/remote"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	flagCatalogOut string

	flagAppID          int
	flagAppName        string
	flagAppDescription string
	flagAppCategory    string
	flagAppIcon        string
	flagAppMonthly     string
	flagAppYearly      string
	flagAppCurrency    string

	flagCategoryDescription string
	flagCategoryIcon        string

	flagTemplateApps string

	flagThemeFont           string
	flagThemeLightPrimary   string
	flagThemeLightSecondary string
	flagThemeDarkPrimary    string
	flagThemeDarkSecondary  string

	flagCurrenciesSupported string
	flagCurrenciesDefault   string
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect and edit the app catalog",
}

var catalogShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List categories and apps",
	RunE:  runCatalogShow,
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the catalog and report dangling references",
	RunE:  runCatalogValidate,
}

var catalogTemplatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List templates with their apps and totals",
	RunE:  runCatalogTemplates,
}

var catalogAddAppCmd = &cobra.Command{
	Use:   "add-app",
	Short: "Add an app (or replace one with --id)",
	RunE:  runCatalogAddApp,
}

var catalogRemoveAppCmd = &cobra.Command{
	Use:   "remove-app ID",
	Short: "Remove an app and drop it from every template",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogRemoveApp,
}

var catalogAddCategoryCmd = &cobra.Command{
	Use:   "add-category NAME",
	Short: "Add or replace a category",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogAddCategory,
}

var catalogAddTemplateCmd = &cobra.Command{
	Use:   "add-template NAME",
	Short: "Add or replace a template",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogAddTemplate,
}

var catalogRemoveCategoryCmd = &cobra.Command{
	Use:   "remove-category NAME",
	Short: "Remove a category (its apps become uncategorized)",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogRemoveCategory,
}

var catalogRemoveTemplateCmd = &cobra.Command{
	Use:   "remove-template NAME",
	Short: "Remove a template",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogRemoveTemplate,
}

var catalogAddThemeCmd = &cobra.Command{
	Use:   "add-theme NAME",
	Short: "Add or replace a theme",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogAddTheme,
}

var catalogRemoveThemeCmd = &cobra.Command{
	Use:   "remove-theme NAME",
	Short: "Remove a theme",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogRemoveTheme,
}

var catalogSetCurrenciesCmd = &cobra.Command{
	Use:   "set-currencies",
	Short: "Replace the supported currencies and the default",
	RunE:  runCatalogSetCurrencies,
}

var catalogEditCmds = []*cobra.Command{
	catalogAddAppCmd, catalogRemoveAppCmd,
	catalogAddCategoryCmd, catalogRemoveCategoryCmd,
	catalogAddTemplateCmd, catalogRemoveTemplateCmd,
	catalogAddThemeCmd, catalogRemoveThemeCmd,
	catalogSetCurrenciesCmd,
}

func init() {
	for _, c := range catalogEditCmds {
		c.Flags().StringVarP(&flagCatalogOut, "out", "o", "", "Write the edited catalog here (default: overwrite the local source)")
	}

	catalogAddAppCmd.Flags().IntVar(&flagAppID, "id", 0, "Replace the app with this id (default: assign the next id)")
	catalogAddAppCmd.Flags().StringVar(&flagAppName, "name", "", "App name")
	catalogAddAppCmd.Flags().StringVar(&flagAppDescription, "description", "", "App description")
	catalogAddAppCmd.Flags().StringVar(&flagAppCategory, "category", "", "Category name")
	catalogAddAppCmd.Flags().StringVar(&flagAppIcon, "icon", "", "Icon id (see `stackcost icons search`)")
	catalogAddAppCmd.Flags().StringVar(&flagAppMonthly, "monthly", "0", "Monthly price")
	catalogAddAppCmd.Flags().StringVar(&flagAppYearly, "yearly", "0", "Yearly price")
	catalogAddAppCmd.Flags().StringVar(&flagAppCurrency, "price-currency", "", "Price currency (default: catalog default)")
	_ = catalogAddAppCmd.MarkFlagRequired("name")

	catalogAddCategoryCmd.Flags().StringVar(&flagCategoryDescription, "description", "", "Category description")
	catalogAddCategoryCmd.Flags().StringVar(&flagCategoryIcon, "icon", "", "Icon id")

	catalogAddTemplateCmd.Flags().StringVar(&flagTemplateApps, "apps", "", "Comma-separated app ids")
	_ = catalogAddTemplateCmd.MarkFlagRequired("apps")

	// Defaults match the theme the catalog editor creates.
	catalogAddThemeCmd.Flags().StringVar(&flagThemeFont, "font", "sans-serif", "Font family")
	catalogAddThemeCmd.Flags().StringVar(&flagThemeLightPrimary, "light-primary", "#000000", "Light scheme primary color")
	catalogAddThemeCmd.Flags().StringVar(&flagThemeLightSecondary, "light-secondary", "#cccccc", "Light scheme secondary color")
	catalogAddThemeCmd.Flags().StringVar(&flagThemeDarkPrimary, "dark-primary", "#ffffff", "Dark scheme primary color")
	catalogAddThemeCmd.Flags().StringVar(&flagThemeDarkSecondary, "dark-secondary", "#333333", "Dark scheme secondary color")

	catalogSetCurrenciesCmd.Flags().StringVar(&flagCurrenciesSupported, "supported", "", "Comma-separated currency codes (e.g. USD,EUR)")
	catalogSetCurrenciesCmd.Flags().StringVar(&flagCurrenciesDefault, "default", "", "Default currency (default: first supported)")
	_ = catalogSetCurrenciesCmd.MarkFlagRequired("supported")

	catalogCmd.AddCommand(catalogShowCmd, catalogValidateCmd, catalogTemplatesCmd)
	catalogCmd.AddCommand(catalogEditCmds...)
	rootCmd.AddCommand(catalogCmd)
}

func runCatalogShow(c *cobra.Command, _ []string) error {
	sess, err := loadSession(c.Context())
	if err != nil {
		return err
	}
	cat := sess.Catalog()

	fmt.Println()
	fmt.Println(cli.RenderTitle("CATALOG"))
	fmt.Println()

	rows := make([][]string, 0, len(cat.Apps())+len(cat.Categories()))
	seen := make(map[string]bool)
	for _, category := range cat.Categories() {
		seen[category.Name] = true
		label := category.Name
		for _, app := range cat.AppsInCategory(category.Name) {
			rows = append(rows, appRow(app, label))
			label = ""
		}
	}
	for _, app := range cat.Apps() {
		if !seen[app.Category] {
			rows = append(rows, appRow(app, app.Category+" *"))
		}
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers:  []string{"Category", "ID", "App", "Monthly", "Yearly"},
		Rows:     rows,
		LeftCols: 3,
	}))
	fmt.Println()

	cur := cat.Currencies()
	fmt.Println(cli.RenderKV("Source", cat.Source(), 12))
	fmt.Println(cli.RenderKV("Currencies", strings.Join(cur.Supported, ", ")+"  (default "+cur.Default+")", 12))
	fmt.Println(cli.RenderKV("Templates", strconv.Itoa(len(cat.Templates())), 12))
	fmt.Println()
	return nil
}

func appRow(app catalog.App, category string) []string {
	return []string{
		cli.Truncate(category, 22),
		strconv.Itoa(app.ID),
		cli.Truncate(app.Name, 28),
		cli.FormatMoney(app.Cost.Monthly, app.Cost.Currency),
		cli.FormatMoney(app.Cost.Yearly, app.Cost.Currency),
	}
}

func runCatalogValidate(c *cobra.Command, _ []string) error {
	cat, err := catalog.Load(c.Context(), catalogSource(), catalog.WithGetter(newGetter()))
	if err != nil {
		return err
	}

	var warnings []string
	for _, app := range cat.Apps() {
		if _, ok := cat.Category(app.Category); !ok {
			warnings = append(warnings, fmt.Sprintf("app %d %q: category %q is not defined", app.ID, app.Name, app.Category))
		}
		if !cat.Currencies().Supports(app.Cost.Currency) {
			warnings = append(warnings, fmt.Sprintf("app %d %q: currency %s is not in the supported list", app.ID, app.Name, app.Cost.Currency))
		}
	}
	for _, t := range cat.Templates() {
		for _, id := range t.AppIDs {
			if _, ok := cat.App(id); !ok {
				warnings = append(warnings, fmt.Sprintf("template %q: app %d does not exist", t.Name, id))
			}
		}
	}

	fmt.Printf("  %s: %d apps, %d categories, %d templates\n",
		cat.Source(), len(cat.Apps()), len(cat.Categories()), len(cat.Templates()))
	for _, w := range warnings {
		fmt.Println(cli.RenderWarning(w))
	}
	if len(warnings) == 0 {
		fmt.Println("  OK")
	}
	return nil
}

func runCatalogTemplates(c *cobra.Command, _ []string) error {
	sess, err := loadSession(c.Context())
	if err != nil {
		return err
	}
	templates := sess.Catalog().Templates()
	if len(templates) == 0 {
		fmt.Println("\n  No templates in this catalog.")
		return nil
	}

	rows := make([][]string, 0, len(templates))
	for _, t := range templates {
		if err := sess.ApplyTemplate(t.Name); err != nil {
			return err
		}
		q := sess.Quote()
		names := make([]string, 0, len(q.Lines))
		for _, l := range q.Lines {
			names = append(names, l.Name)
		}
		rows = append(rows, []string{
			t.Name,
			cli.Truncate(strings.Join(names, ", "), 40),
			cli.FormatMoney(q.Total, q.Currency),
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:    fmt.Sprintf("Templates  %s  %s", sess.Currency(), sess.Cycle().Label()),
		Headers:  []string{"Template", "Apps", "Total"},
		Rows:     rows,
		LeftCols: 2,
	}))
	fmt.Println()
	return nil
}

func runCatalogAddApp(c *cobra.Command, _ []string) error {
	return editCatalog(c, func(cat *catalog.Catalog) (*catalog.Catalog, string, error) {
		monthly, err := decimal.NewFromString(flagAppMonthly)
		if err != nil {
			return nil, "", fmt.Errorf("invalid --monthly %q", flagAppMonthly)
		}
		yearly, err := decimal.NewFromString(flagAppYearly)
		if err != nil {
			return nil, "", fmt.Errorf("invalid --yearly %q", flagAppYearly)
		}
		if monthly.IsNegative() || yearly.IsNegative() {
			return nil, "", errors.New("prices must not be negative")
		}
		cur := flagAppCurrency
		if cur == "" {
			cur = cat.Currencies().Default
		}

		app := catalog.App{
			ID:          flagAppID,
			Name:        flagAppName,
			Description: flagAppDescription,
			Category:    flagAppCategory,
			Icon:        flagAppIcon,
			Cost:        catalog.Cost{Monthly: monthly, Yearly: yearly, Currency: cat.Currencies().Canonical(cur)},
		}
		id := app.ID
		if id == 0 {
			id = cat.NextID()
		}
		next, err := cat.WithApp(app)
		if err != nil {
			return nil, "", err
		}
		return next, fmt.Sprintf("app %d %q", id, app.Name), nil
	})
}

func runCatalogRemoveApp(c *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid app id %q", args[0])
	}
	return editCatalog(c, func(cat *catalog.Catalog) (*catalog.Catalog, string, error) {
		next, err := cat.WithoutApp(id)
		return next, fmt.Sprintf("removed app %d", id), err
	})
}

func runCatalogAddCategory(c *cobra.Command, args []string) error {
	return editCatalog(c, func(cat *catalog.Catalog) (*catalog.Catalog, string, error) {
		next, err := cat.WithCategory(catalog.Category{
			Name:        strings.TrimSpace(args[0]),
			Description: flagCategoryDescription,
			Icon:        flagCategoryIcon,
		})
		return next, fmt.Sprintf("category %q", args[0]), err
	})
}

func runCatalogAddTemplate(c *cobra.Command, args []string) error {
	ids, err := cli.ParseIDs(flagTemplateApps)
	if err != nil {
		return err
	}
	return editCatalog(c, func(cat *catalog.Catalog) (*catalog.Catalog, string, error) {
		for _, id := range ids {
			if _, ok := cat.App(id); !ok {
				return nil, "", fmt.Errorf("no app with id %d", id)
			}
		}
		next, err := cat.WithTemplate(catalog.Template{Name: strings.TrimSpace(args[0]), AppIDs: ids})
		return next, fmt.Sprintf("template %q (%d apps)", args[0], len(ids)), err
	})
}

func runCatalogRemoveCategory(c *cobra.Command, args []string) error {
	return editCatalog(c, func(cat *catalog.Catalog) (*catalog.Catalog, string, error) {
		name := strings.TrimSpace(args[0])
		orphaned := len(cat.AppsInCategory(name))
		next, err := cat.WithoutCategory(name)
		what := fmt.Sprintf("removed category %q", name)
		if orphaned > 0 {
			what += fmt.Sprintf(" (%d apps now uncategorized)", orphaned)
		}
		return next, what, err
	})
}

func runCatalogRemoveTemplate(c *cobra.Command, args []string) error {
	return editCatalog(c, func(cat *catalog.Catalog) (*catalog.Catalog, string, error) {
		next, err := cat.WithoutTemplate(strings.TrimSpace(args[0]))
		return next, fmt.Sprintf("removed template %q", args[0]), err
	})
}

func runCatalogAddTheme(c *cobra.Command, args []string) error {
	return editCatalog(c, func(cat *catalog.Catalog) (*catalog.Catalog, string, error) {
		next, err := cat.WithTheme(catalog.Theme{
			Name:       strings.TrimSpace(args[0]),
			FontFamily: flagThemeFont,
			Light:      catalog.ThemeColors{Primary: flagThemeLightPrimary, Secondary: flagThemeLightSecondary},
			Dark:       catalog.ThemeColors{Primary: flagThemeDarkPrimary, Secondary: flagThemeDarkSecondary},
		})
		return next, fmt.Sprintf("theme %q", args[0]), err
	})
}

func runCatalogRemoveTheme(c *cobra.Command, args []string) error {
	return editCatalog(c, func(cat *catalog.Catalog) (*catalog.Catalog, string, error) {
		next, err := cat.WithoutTheme(strings.TrimSpace(args[0]))
		return next, fmt.Sprintf("removed theme %q", args[0]), err
	})
}

func runCatalogSetCurrencies(c *cobra.Command, _ []string) error {
	var supported []string
	for _, code := range strings.Split(flagCurrenciesSupported, ",") {
		if code = strings.ToUpper(strings.TrimSpace(code)); code != "" {
			supported = append(supported, code)
		}
	}
	if len(supported) == 0 {
		return errors.New("--supported needs at least one currency")
	}
	def := strings.ToUpper(strings.TrimSpace(flagCurrenciesDefault))
	if def == "" {
		def = supported[0]
	}
	return editCatalog(c, func(cat *catalog.Catalog) (*catalog.Catalog, string, error) {
		next, err := cat.WithCurrencies(catalog.CurrencyConfig{Supported: supported, Default: def})
		return next, fmt.Sprintf("currencies %s (default %s)", strings.Join(supported, ", "), def), err
	})
}

// editCatalog loads the catalog, applies edit, and writes the result to --out
// or back over a local source.
func editCatalog(c *cobra.Command, edit func(*catalog.Catalog) (*catalog.Catalog, string, error)) error {
	src := catalogSource()
	out := flagCatalogOut
	if out == "" {
		if remote.IsURL(src) {
			return fmt.Errorf("catalog %s is remote; pass --out to save the edited copy", src)
		}
		out = src
	}

	cat, err := catalog.Load(c.Context(), src, catalog.WithGetter(newGetter()))
	if err != nil {
		return err
	}
	next, what, err := edit(cat)
	if err != nil {
		return err
	}
	if err := next.WriteFile(out); err != nil {
		return err
	}
	fmt.Printf("  Saved %s to %s\n", what, out)
	return nil
}
