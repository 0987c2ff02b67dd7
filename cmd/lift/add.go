// ABOUTME: CLI command for adding standalone workout entries.
// ABOUTME: Sets, reps, and weight are free text so "6-8" and "bodyweight" work.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/lift/internal/models"
	"github.com/spf13/cobra"
)

var (
	addSets   string
	addReps   string
	addWeight string
	addNotes  string
	addAt     string
)

var addCmd = &cobra.Command{
	Use:     "add <name>",
	Aliases: []string{"a"},
	Short:   "Add a workout entry",
	Long: `Add a standalone workout entry.

Examples:
  lift add "Bench Press" --sets 4 --reps 8 --weight 135
  lift add Squat -s 5 -r 5 -w "225 lb" --notes "belt on top set"
  lift add "Pull-ups" --reps 6-8 --at "2025-01-31 07:00"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e := models.NewWorkoutEntry(strings.Join(args, " "), addSets, addReps, addWeight, addNotes)

		if addAt != "" {
			t, err := parseTime(addAt)
			if err != nil {
				return fmt.Errorf("invalid timestamp: %s", addAt)
			}
			e.WithCreatedAt(t)
		}

		if err := repo.CreateEntry(e); err != nil {
			return fmt.Errorf("failed to create entry: %w", err)
		}

		out := cmd.OutOrStdout()
		color.New(color.FgGreen).Fprintf(out, "✓ Added %s\n", e.Name)
		fmt.Fprintf(out, "  %s %s\n", faint.Sprint(shortID(e.ID.String())), formatVolume(e.Sets, e.Reps, e.Weight))
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&addSets, "sets", "s", "", "number of sets")
	addCmd.Flags().StringVarP(&addReps, "reps", "r", "", "reps per set")
	addCmd.Flags().StringVarP(&addWeight, "weight", "w", "", "weight used")
	addCmd.Flags().StringVar(&addNotes, "notes", "", "notes for the entry")
	addCmd.Flags().StringVar(&addAt, "at", "", "timestamp (YYYY-MM-DD HH:MM)")
	rootCmd.AddCommand(addCmd)
}
