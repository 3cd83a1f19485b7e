package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/theirongolddev/stackcost/internal/catalog"
	"github.com/theirongolddev/stackcost/internal/icons"

	"github.com/spf13/cobra"
)

var iconsCmd = &cobra.Command{
	Use:   "icons",
	Short: "Search the icon service for catalog entries",
}

var iconsSearchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "List icon ids matching a query",
	Args:  cobra.ExactArgs(1),
	RunE:  runIconsSearch,
}

var iconsURLCmd = &cobra.Command{
	Use:   "url ICON|APP_ID",
	Short: "Print the image URL for an icon id or a catalog app",
	Args:  cobra.ExactArgs(1),
	RunE:  runIconsURL,
}

func init() {
	iconsCmd.AddCommand(iconsSearchCmd, iconsURLCmd)
	rootCmd.AddCommand(iconsCmd)
}

// iconClient loads the catalog for its icon URLs; config overrides win.
func iconClient(c *cobra.Command) (*icons.Client, *catalog.Catalog, error) {
	cat, err := catalog.Load(c.Context(), catalogSource(), catalog.WithGetter(newGetter()))
	if err != nil {
		return nil, nil, err
	}
	client := &icons.Client{
		Getter:      newGetter(),
		SearchURL:   cat.APIs().IconSearch,
		RetrieveURL: cat.APIs().IconRetrieve,
	}
	if appConfig.APIs.IconSearchURL != "" {
		client.SearchURL = appConfig.APIs.IconSearchURL
	}
	if appConfig.APIs.IconRetrieveURL != "" {
		client.RetrieveURL = appConfig.APIs.IconRetrieveURL
	}
	return client, cat, nil
}

func runIconsSearch(c *cobra.Command, args []string) error {
	client, _, err := iconClient(c)
	if err != nil {
		return err
	}
	ids, err := client.Search(c.Context(), args[0])
	if errors.Is(err, icons.ErrQueryTooShort) {
		return fmt.Errorf("query %q is too short (need %d+ characters)", args[0], icons.MinQueryLen)
	}
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Printf("  No icons match %q\n", args[0])
		return nil
	}
	for _, id := range ids {
		fmt.Printf("  %-32s %s\n", id, client.URL(id))
	}
	return nil
}

func runIconsURL(c *cobra.Command, args []string) error {
	client, cat, err := iconClient(c)
	if err != nil {
		return err
	}
	icon := args[0]
	if id, err := strconv.Atoi(icon); err == nil {
		app, ok := cat.App(id)
		if !ok {
			return fmt.Errorf("no app with id %d", id)
		}
		if app.Icon == "" {
			return fmt.Errorf("app %d %q has no icon", id, app.Name)
		}
		icon = app.Icon
	}
	fmt.Println(client.URL(icon))
	return nil
}
