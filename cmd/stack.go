package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/theirongolddev/stackcost/internal/cli"
	"github.com/theirongolddev/stackcost/internal/config"
	"github.com/theirongolddev/stackcost/internal/snapshot"
	"github.com/theirongolddev/stackcost/internal/store"

	"github.com/spf13/cobra"
)

var stackCmd = &cobra.Command{
	Use:   "stack",
	Short: "Save, restore, and manage stacks",
}

var stackSaveCmd = &cobra.Command{
	Use:   "save FILE|DIR",
	Short: "Write the stack to a snapshot file",
	Long:  "Write the stack to a snapshot file. When the argument is a directory the file is named <Client>_Tech_Stack.json.",
	Args:  cobra.ExactArgs(1),
	RunE:  runStackSave,
}

var stackLoadCmd = &cobra.Command{
	Use:   "load FILE",
	Short: "Restore a snapshot file and price it",
	Args:  cobra.ExactArgs(1),
	RunE:  runStackLoad,
}

var stackStoreCmd = &cobra.Command{
	Use:   "store NAME",
	Short: "Save the stack in the local store",
	Args:  cobra.ExactArgs(1),
	RunE:  runStackStore,
}

var stackListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored stacks",
	RunE:  runStackList,
}

var stackDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete a stored stack",
	Args:  cobra.ExactArgs(1),
	RunE:  runStackDelete,
}

func init() {
	for _, c := range []*cobra.Command{stackSaveCmd, stackStoreCmd} {
		addStackSourceFlags(c)
		addDetailsFlags(c)
	}
	stackCmd.AddCommand(stackSaveCmd, stackLoadCmd, stackStoreCmd, stackListCmd, stackDeleteCmd)
	rootCmd.AddCommand(stackCmd)
}

func runStackSave(c *cobra.Command, args []string) error {
	sess, err := loadStack(c.Context())
	if err != nil {
		return err
	}
	applyDetails(sess)

	snap := sess.Snapshot()
	data, err := snapshot.Serialize(snap)
	if err != nil {
		return err
	}

	path := args[0]
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		path = filepath.Join(path, snapshot.Filename(snap.ClientName, "json"))
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	fmt.Printf("  Saved %d apps to %s\n", len(snap.TechStackIDs), path)
	return nil
}

func runStackLoad(c *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0]) //nolint:gosec // path is chosen by the local user
	if err != nil {
		return fmt.Errorf("reading snapshot: %w", err)
	}
	sess, err := loadSession(c.Context())
	if err != nil {
		return err
	}
	if err := sess.Restore(data); err != nil {
		return err
	}

	d := sess.Details()
	fmt.Println()
	if d.ClientName != "" {
		fmt.Println(cli.RenderKV("Client", d.ClientName, 10))
	}
	if d.PreparerName != "" {
		fmt.Println(cli.RenderKV("Preparer", d.PreparerName, 10))
	}
	if d.Notes != "" {
		fmt.Println(cli.RenderKV("Notes", cli.Truncate(d.Notes, 60), 10))
	}

	q := sess.Quote()
	if q.Empty() {
		fmt.Println("\n  Snapshot has no apps from this catalog.")
		return nil
	}
	printQuote(q)
	return nil
}

func openStore() (*store.Store, error) {
	return store.Open(config.StorePath(appConfig))
}

func runStackStore(c *cobra.Command, args []string) error {
	sess, err := loadStack(c.Context())
	if err != nil {
		return err
	}
	applyDetails(sess)

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	snap := sess.Snapshot()
	if err := st.SaveStack(c.Context(), args[0], snap); err != nil {
		return err
	}
	fmt.Printf("  Stored %q (%d apps)\n", args[0], len(snap.TechStackIDs))
	return nil
}

func runStackList(c *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	stacks, err := st.ListStacks(c.Context())
	if err != nil {
		return err
	}
	if len(stacks) == 0 {
		fmt.Println("\n  No stored stacks. Save one with `stackcost stack store NAME`.")
		return nil
	}

	rows := make([][]string, 0, len(stacks))
	for _, s := range stacks {
		rows = append(rows, []string{
			s.Name,
			cli.Truncate(s.Client, 28),
			strconv.Itoa(s.Apps),
			s.UpdatedAt.Local().Format(time.DateTime),
		})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:    "Stored Stacks",
		Headers:  []string{"Name", "Client", "Apps", "Updated"},
		Rows:     rows,
		LeftCols: 2,
	}))
	fmt.Println()
	return nil
}

func runStackDelete(c *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if err := st.DeleteStack(c.Context(), args[0]); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no stored stack named %q", args[0])
		}
		return err
	}
	fmt.Printf("  Deleted %q\n", args[0])
	return nil
}
