package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/theirongolddev/stackcost/internal/cli"
	"github.com/theirongolddev/stackcost/internal/session"

	"github.com/spf13/cobra"
)

// Stack-source flags shared by quote, report, link encode, and stack save.
var (
	flagApps     string
	flagTemplate string
	flagLoad     string
	flagLink     string
	flagStored   string
)

func addStackSourceFlags(c *cobra.Command) {
	c.Flags().StringVar(&flagApps, "apps", "", "Comma-separated app ids, in order (e.g. 1,2)")
	c.Flags().StringVar(&flagTemplate, "template", "", "Start from a catalog template")
	c.Flags().StringVar(&flagLoad, "load", "", "Restore a snapshot file")
	c.Flags().StringVar(&flagLink, "link", "", "Restore a share link or query (stack=1,2)")
	c.Flags().StringVar(&flagStored, "stored", "", "Restore a stack from the local store")
	c.MarkFlagsMutuallyExclusive("load", "link", "stored")
}

// applyStackSource fills the session selection from the stack-source flags.
// A snapshot, share link, or stored stack comes first; --template replaces the
// selection; --apps appends to it.
func applyStackSource(ctx context.Context, sess *session.Session) error {
	switch {
	case flagLoad != "":
		data, err := os.ReadFile(flagLoad) //nolint:gosec // path is chosen by the local user
		if err != nil {
			return fmt.Errorf("reading snapshot: %w", err)
		}
		if err := sess.Restore(data); err != nil {
			return err
		}
	case flagLink != "":
		sess.OpenLink(flagLink)
	case flagStored != "":
		st, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()
		snap, err := st.LoadStack(ctx, flagStored)
		if err != nil {
			return fmt.Errorf("loading stack %q: %w", flagStored, err)
		}
		sess.RestoreSnapshot(snap)
	}

	if flagTemplate != "" {
		if err := sess.ApplyTemplate(flagTemplate); err != nil {
			return err
		}
	}

	if flagApps != "" {
		ids, err := cli.ParseIDs(flagApps)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if err := sess.Add(id); err != nil {
				return err
			}
		}
	}
	return nil
}

// loadStack is loadSession followed by applyStackSource.
func loadStack(ctx context.Context) (*session.Session, error) {
	sess, err := loadSession(ctx)
	if err != nil {
		return nil, err
	}
	if err := applyStackSource(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}
