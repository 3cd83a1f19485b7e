package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/theirongolddev/stackcost/internal/logger"
	"github.com/theirongolddev/stackcost/internal/report"
	"github.com/theirongolddev/stackcost/internal/tui"

	"github.com/spf13/cobra"
)

var (
	flagReportOutDir      string
	flagReportFormat      string
	flagReportLogo        string
	flagReportInteractive bool
	flagReportLocalChart  bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export the stack as an HTML or text report",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&flagReportOutDir, "out-dir", "o", "", "Directory to write the report (default from config, then .)")
	reportCmd.Flags().StringVar(&flagReportFormat, "format", "", "Report format: html or text (default from config)")
	reportCmd.Flags().StringVar(&flagReportLogo, "logo", "", "Logo image for the header (default from config)")
	reportCmd.Flags().BoolVarP(&flagReportInteractive, "interactive", "i", false, "Fill in report details with a form")
	reportCmd.Flags().BoolVar(&flagReportLocalChart, "local-chart", false, "Render the pie chart locally instead of calling the chart service")
	addStackSourceFlags(reportCmd)
	addDetailsFlags(reportCmd)
	rootCmd.AddCommand(reportCmd)
}

func runReport(c *cobra.Command, _ []string) error {
	format := flagReportFormat
	if format == "" {
		format = appConfig.Report.Format
	}
	f, err := report.ParseFormat(format)
	if err != nil {
		return err
	}

	sess, err := loadStack(c.Context())
	if err != nil {
		return err
	}
	if sess.Selection().Len() == 0 {
		return errors.New("no apps selected; use --apps, --template, --load, --link, or --stored")
	}
	applyDetails(sess)

	if flagReportInteractive {
		vals := tui.DetailsFrom(sess.Details())
		if err := tui.NewDetailsForm(vals).Run(); err != nil {
			return fmt.Errorf("details form: %w", err)
		}
		sess.SetDetails(vals.Details())
	}

	rc := sess.ReportContext()
	rc.LogoPath = flagReportLogo
	if rc.LogoPath == "" {
		rc.LogoPath = appConfig.Preparer.Logo
	}

	dir := flagReportOutDir
	if dir == "" {
		dir = appConfig.Report.OutputDir
	}

	cat := sess.Catalog()
	gen := report.NewGenerator(newChartSource(cat, flagReportLocalChart), logger.Get())

	start := time.Now()
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Generating report for %d apps...\n", sess.Selection().Len())
	}
	doc := gen.Generate(c.Context(), sess.Apps(), rc, cat, sess.Rates())
	path, err := report.Export(dir, doc, f, reportStyle(cat))
	if err != nil {
		return err
	}

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Done in %s\n", time.Since(start).Round(time.Millisecond))
	}
	fmt.Printf("  Report: %s\n", path)
	if len(doc.Chart()) == 0 {
		fmt.Println("  (chart omitted)")
	}
	return nil
}
