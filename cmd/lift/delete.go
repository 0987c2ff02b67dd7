// ABOUTME: CLI commands for completing and deleting workout entries.
// ABOUTME: Both accept a full UUID or a unique ID prefix.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var doneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Toggle an entry's completion",
	Long: `Mark a workout entry as done, or undo it if it is already done.

EXAMPLES:

  lift done abc12345    # Mark done
  lift done abc12345    # Run again to mark not done`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := repo.ToggleEntryCompletion(args[0])
		if err != nil {
			return fmt.Errorf("failed to toggle entry: %w", err)
		}

		out := cmd.OutOrStdout()
		if e.IsCompleted {
			color.New(color.FgGreen).Fprintf(out, "✓ Completed %s\n", e.Name)
		} else {
			color.New(color.FgYellow).Fprintf(out, "○ Reopened %s\n", e.Name)
		}
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a workout entry",
	Long: `Delete a workout entry by its ID or ID prefix.

You can use either the full UUID or just the first few characters (prefix).
The ID prefix is shown in the first column of 'lift list' output.

CAUTION:

  This permanently deletes the entry. There is no undo.
  If the prefix matches multiple entries, an error is returned.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := repo.GetEntry(args[0])
		if err != nil {
			return fmt.Errorf("entry not found: %w", err)
		}

		if err := repo.DeleteEntry(e.ID.String()); err != nil {
			return fmt.Errorf("failed to delete entry: %w", err)
		}

		color.New(color.FgYellow).Fprintf(cmd.OutOrStdout(), "✗ Deleted %s %s\n", faint.Sprint(shortID(e.ID.String())), e.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(deleteCmd)
}
