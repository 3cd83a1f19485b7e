package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/theirongolddev/stackcost/internal/catalog"
	"github.com/theirongolddev/stackcost/internal/config"
	"github.com/theirongolddev/stackcost/internal/logger"
	"github.com/theirongolddev/stackcost/internal/report"
	"github.com/theirongolddev/stackcost/internal/session"
	"github.com/theirongolddev/stackcost/internal/tui"
	"github.com/theirongolddev/stackcost/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var (
	flagTUISaveDir    string
	flagTUILocalChart bool
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Build a stack interactively",
	RunE:  runTUI,
}

func init() {
	tuiCmd.Flags().StringVar(&flagTUISaveDir, "save-dir", ".", "Directory for saved snapshot files")
	tuiCmd.Flags().BoolVar(&flagTUILocalChart, "local-chart", false, "Render report charts locally")
	addStackSourceFlags(tuiCmd)
	addDetailsFlags(tuiCmd)
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(c *cobra.Command, _ []string) error {
	flagQuiet = true
	if err := os.MkdirAll(config.CacheDir(), 0o750); err == nil {
		logger.InitTo(logLevel(), config.Production(), filepath.Join(config.CacheDir(), "stackcost-tui.log"))
	}
	sess, err := loadStack(c.Context())
	if err != nil {
		return err
	}
	applyDetails(sess)

	cat := sess.Catalog()
	theme.SetActive(appConfig.Appearance.Theme, cat.Themes()...)

	// Force TrueColor profile so all background styling produces ANSI codes
	lipgloss.SetColorProfile(termenv.TrueColor)

	format, err := report.ParseFormat(appConfig.Report.Format)
	if err != nil {
		return err
	}

	opts, err := sessionOptions()
	if err != nil {
		return err
	}
	reload := func(ctx context.Context) (*catalog.Catalog, error) {
		return session.LoadCatalog(ctx, opts)
	}
	app := tui.NewApp(sess, tui.Options{
		Generator:     report.NewGenerator(newChartSource(cat, flagTUILocalChart), logger.Get()),
		Style:         reportStyle(cat),
		Format:        format,
		OutDir:        appConfig.Report.OutputDir,
		SaveDir:       flagTUISaveDir,
		LogoPath:      appConfig.Preparer.Logo,
		ReloadCatalog: reload,
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
