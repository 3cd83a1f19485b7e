package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/stackcost/internal/cli"
	"github.com/theirongolddev/stackcost/internal/currency"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Show the exchange-rate table in use",
	RunE:  runRates,
}

func init() {
	rootCmd.AddCommand(ratesCmd)
}

func runRates(c *cobra.Command, _ []string) error {
	sess, err := loadSession(c.Context())
	if err != nil {
		return err
	}
	rt := sess.Rates()
	supported := sess.Catalog().Currencies().Supported

	rows := make([][]string, 0, len(supported))
	for _, code := range supported {
		rate := "missing (1:1)"
		if rt.Has(code) {
			rate = rt.Rate(code).String()
		}
		rows = append(rows, []string{
			code,
			cli.FormatMoney(currency.Convert(decimal.NewFromInt(1), code, sess.Currency(), rt), sess.Currency()),
			rate,
		})
	}

	title := "Rates vs " + strings.ToUpper(rt.Base)
	if !rt.FetchedAt.IsZero() {
		title += "  " + rt.FetchedAt.Local().Format(time.DateTime)
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   title,
		Headers: []string{"Currency", "1 unit in " + sess.Currency(), "Rate"},
		Rows:    rows,
	}))
	if rt.Degraded {
		fmt.Println(cli.RenderWarning("Rate source unavailable; every rate is 1"))
	}
	fmt.Println()
	return nil
}
