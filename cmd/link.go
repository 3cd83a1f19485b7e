package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/stackcost/internal/cli"
	"github.com/theirongolddev/stackcost/internal/snapshot"

	"github.com/spf13/cobra"
)

var flagLinkBase string

var linkCmd = &cobra.Command{
	Use:   "link",
	Short: "Encode and open share links",
}

var linkEncodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Print a share link for the stack",
	RunE:  runLinkEncode,
}

var linkOpenCmd = &cobra.Command{
	Use:   "open QUERY",
	Short: "Price the stack in a share link or query string",
	Args:  cobra.ExactArgs(1),
	RunE:  runLinkOpen,
}

func init() {
	addStackSourceFlags(linkEncodeCmd)
	linkEncodeCmd.Flags().StringVar(&flagLinkBase, "base", "", "Base URL to append the query to")
	linkCmd.AddCommand(linkEncodeCmd, linkOpenCmd)
	rootCmd.AddCommand(linkCmd)
}

func runLinkEncode(c *cobra.Command, _ []string) error {
	sess, err := loadStack(c.Context())
	if err != nil {
		return err
	}

	var out string
	if flagLinkBase != "" {
		out, err = snapshot.ShareURL(flagLinkBase, sess.Selection().IDs())
	} else {
		out, err = sess.ShareLink()
	}
	if errors.Is(err, snapshot.ErrEmptySelection) {
		return errors.New("nothing to share: select at least one app")
	}
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func runLinkOpen(c *cobra.Command, args []string) error {
	sess, err := loadSession(c.Context())
	if err != nil {
		return err
	}
	unique := make(map[int]bool)
	for _, id := range snapshot.DecodeLink(args[0]) {
		unique[id] = true
	}
	requested := len(unique)
	kept := sess.OpenLink(args[0])
	if kept < requested {
		fmt.Println(cli.RenderMuted(fmt.Sprintf("  %d of %d ids in the link are not in this catalog", requested-kept, requested)))
	}

	q := sess.Quote()
	if q.Empty() {
		fmt.Println("\n  The link has no apps from this catalog.")
		return nil
	}
	printQuote(q)
	return nil
}
