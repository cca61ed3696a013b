package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/autokosten/autokosten-cli/internal/format"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Manage the saved comparison list",
	Long:  "Lists, removes, or clears saved calculations. The list holds at most six entries and is ordered by net monthly cost.",
}

var compareListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved comparisons, cheapest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		list, err := st.ListComparisons(ctx)
		if err != nil {
			return err
		}
		format.WriteComparisons(os.Stdout, list)
		return nil
	},
}

var compareRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove one comparison by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.RemoveComparison(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "Verwijderd.")
		return nil
	},
}

var compareClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all saved comparisons",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		n, err := st.ClearComparisons(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "%d vergelijking(en) verwijderd.\n", n)
		return nil
	},
}

func init() {
	compareCmd.AddCommand(compareListCmd, compareRemoveCmd, compareClearCmd)
	rootCmd.AddCommand(compareCmd)
}
