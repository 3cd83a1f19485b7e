package cmd

import (
	"github.com/theirongolddev/stackcost/internal/session"

	"github.com/spf13/cobra"
)

// Report text flags shared by report and stack save/store.
var (
	flagPreparer        string
	flagPreparerAddress string
	flagClient          string
	flagClientAddress   string
	flagNotes           string
)

func addDetailsFlags(c *cobra.Command) {
	c.Flags().StringVar(&flagPreparer, "preparer", "", "Preparer name (default from config)")
	c.Flags().StringVar(&flagPreparerAddress, "preparer-address", "", "Preparer address")
	c.Flags().StringVar(&flagClient, "client", "", "Client business name")
	c.Flags().StringVar(&flagClientAddress, "client-address", "", "Client address")
	c.Flags().StringVar(&flagNotes, "notes", "", "Notes printed at the end of the report")
}

// applyDetails fills empty preparer fields from config, then lets any
// non-empty flag override what a restored snapshot carried.
func applyDetails(sess *session.Session) {
	d := sess.Details()
	if d.PreparerName == "" {
		d.PreparerName = appConfig.Preparer.Name
	}
	if d.PreparerAddress == "" {
		d.PreparerAddress = appConfig.Preparer.Address
	}
	for _, o := range []struct {
		flag string
		dst  *string
	}{
		{flagPreparer, &d.PreparerName},
		{flagPreparerAddress, &d.PreparerAddress},
		{flagClient, &d.ClientName},
		{flagClientAddress, &d.ClientAddress},
		{flagNotes, &d.Notes},
	} {
		if o.flag != "" {
			*o.dst = o.flag
		}
	}
	sess.SetDetails(d)
}
