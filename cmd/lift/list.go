// ABOUTME: CLI command for listing workout entries, plus shared output helpers.
// ABOUTME: Entries are shown newest first with an 8-character ID prefix.
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var listLimit int

var faint = color.New(color.Faint)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List workout entries",
	Long: `List recent workout entries.

OUTPUT FORMAT:

  Each line shows: ID  DATE  [x]  NAME  SETSxREPS @ WEIGHT  (NOTES)

  The ID is an 8-character prefix you can use with done and delete.

EXAMPLES:

  lift list          # Show last 20 entries
  lift list -n 50    # Show last 50 entries`,
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := repo.ListEntries(listLimit)
		if err != nil {
			return fmt.Errorf("failed to list entries: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, "No entries found.")
			return nil
		}

		for _, e := range entries {
			notes := ""
			if e.Notes != "" {
				notes = faint.Sprintf(" (%s)", truncate(e.Notes, 30))
			}
			fmt.Fprintf(out, "%s %s %s %s %s%s\n",
				faint.Sprint(shortID(e.ID.String())),
				faint.Sprint(e.CreatedAt.Local().Format("2006-01-02 15:04")),
				checkbox(e.IsCompleted),
				padRight(e.Name, 24),
				formatVolume(e.Sets, e.Reps, e.Weight),
				notes)
		}
		return nil
	},
}

func shortID(id string) string {
	if len(id) < 8 {
		return id
	}
	return id[:8]
}

func checkbox(done bool) string {
	if done {
		return color.New(color.FgGreen).Sprint("[x]")
	}
	return "[ ]"
}

// formatVolume renders "4x8 @ 135", omitting whatever parts are empty.
func formatVolume(sets, reps, weight string) string {
	var b strings.Builder
	switch {
	case sets != "" && reps != "":
		b.WriteString(sets + "x" + reps)
	case sets != "":
		b.WriteString(sets + " sets")
	case reps != "":
		b.WriteString(reps + " reps")
	}
	if weight != "" {
		if b.Len() > 0 {
			b.WriteString(" @ ")
		}
		b.WriteString(weight)
	}
	return b.String()
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02 15:04",
		"2006-01-02T15:04",
		"2006-01-02",
		time.RFC3339,
	}
	for _, f := range formats {
		if t, err := time.ParseInLocation(f, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format")
}

func init() {
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 20, "max number of results")
	rootCmd.AddCommand(listCmd)
}
