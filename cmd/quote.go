package cmd

import (
	"fmt"
	"strconv"

	"github.com/theirongolddev/stackcost/internal/cli"
	"github.com/theirongolddev/stackcost/internal/model"
	"github.com/theirongolddev/stackcost/internal/pipeline"

	"github.com/spf13/cobra"
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Price a stack in the display currency",
	RunE:  runQuote,
}

func init() {
	addStackSourceFlags(quoteCmd)
	rootCmd.AddCommand(quoteCmd)
}

func runQuote(c *cobra.Command, _ []string) error {
	sess, err := loadStack(c.Context())
	if err != nil {
		return err
	}

	q := sess.Quote()
	if q.Empty() {
		fmt.Println("\n  No apps selected. Use --apps, --template, --load, --link, or --stored.")
		return nil
	}
	printQuote(q)
	return nil
}

func printQuote(q model.Quote) {
	cur := q.Currency

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("TECH STACK  %s  %s", cur, q.Cycle.Label())))
	fmt.Println()

	rows := make([][]string, 0, len(q.Lines)+2)
	for _, l := range q.Lines {
		category := l.Category
		if !l.CategoryKnown {
			category += " *"
		}
		rows = append(rows, []string{
			strconv.Itoa(l.AppID),
			cli.Truncate(l.Name, 28),
			cli.Truncate(category, 22),
			cli.FormatMoney(l.Source, l.SourceCurrency),
			cli.FormatMoney(l.Cost, cur),
		})
	}
	rows = append(rows, []string{"---"})
	rows = append(rows, []string{"", "TOTAL", "", "", cli.FormatMoney(q.Total, cur)})

	fmt.Print(cli.RenderTable(cli.Table{
		Title:    "Line Items",
		Headers:  []string{"ID", "App", "Category", "List Price", "Cost"},
		Rows:     rows,
		LeftCols: 3,
	}))

	if len(q.Subtotals) > 0 {
		subRows := make([][]string, 0, len(q.Subtotals))
		for _, s := range q.Subtotals {
			subRows = append(subRows, []string{
				s.Name,
				strconv.Itoa(s.Apps),
				cli.FormatMoney(s.Cost, cur),
				cli.RenderShareBar(pipeline.Share(s.Cost, q.Total), 16),
			})
		}
		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "By Category",
			Headers: []string{"Category", "Apps", "Subtotal", "Share"},
			Rows:    subRows,
		}))
	}

	fmt.Println()
	fmt.Println(cli.RenderTotal(fmt.Sprintf("Total (%s)", q.Cycle.Label()), cli.FormatMoney(q.Total, cur)))
	if !q.Uncategorized.IsZero() {
		fmt.Println(cli.RenderMuted(fmt.Sprintf("  * %s from apps outside any catalog category is in the total but no subtotal",
			cli.FormatMoney(q.Uncategorized, cur))))
	}
	if q.Degraded {
		fmt.Println(cli.RenderWarning("Exchange rates unavailable; amounts use 1:1 parity"))
	}
	fmt.Println()
}
