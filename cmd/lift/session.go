// ABOUTME: CLI commands for workout sessions and their exercises.
// ABOUTME: Exercise positions are 1-based here and converted for storage.
package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/lift/internal/catalog"
	"github.com/harperreed/lift/internal/models"
	"github.com/spf13/cobra"
)

var (
	sessionTemplate string
	sessionLimit    int

	exSets   string
	exReps   string
	exWeight string
	exNotes  string
)

var sessionCmd = &cobra.Command{
	Use:     "session",
	Aliases: []string{"s"},
	Short:   "Manage workout sessions",
	Long: `Track workout sessions made of ordered exercises.

WORKFLOW:

  1. Start a session:      lift session new --template "PUSH A"
  2. Review it:            lift session show abc123
  3. Tick off exercises:   lift session check def456
  4. Log what you lifted:  lift session set def456 8 135
  5. Finish the session:   lift session done abc123

Progress is the share of exercises checked off; finishing the session
does not change it.`,
}

var sessionNewCmd = &cobra.Command{
	Use:   "new [name]",
	Short: "Start a new session",
	Long: `Start a new session, empty or seeded from a template.

Examples:
  lift session new "Leg Day"
  lift session new --template "LEGS A"
  lift session new "Monday" --template "PUSH A"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.Join(args, " ")

		var s *models.WorkoutSession
		if sessionTemplate != "" {
			tmpl, ok := catalog.Get(sessionTemplate)
			if !ok {
				return fmt.Errorf("unknown template: %s (see 'lift template list')", sessionTemplate)
			}
			s = models.NewSessionFromTemplate(tmpl)
			if strings.TrimSpace(name) != "" {
				s.Name = strings.TrimSpace(name)
			}
		} else {
			s = models.NewWorkoutSession(name)
		}

		if err := repo.CreateSession(s); err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}

		out := cmd.OutOrStdout()
		color.New(color.FgGreen).Fprintf(out, "✓ Started %s\n", s.Name)
		fmt.Fprintf(out, "  ID: %s\n", shortID(s.ID.String()))
		if len(s.Exercises) > 0 {
			fmt.Fprintf(out, "  Exercises: %d\n", len(s.Exercises))
		}
		return nil
	},
}

var sessionListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		sessions, err := repo.ListSessions(sessionLimit)
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(sessions) == 0 {
			fmt.Fprintln(out, "No sessions found.")
			return nil
		}

		for _, s := range sessions {
			p := models.Progress(s)
			fmt.Fprintf(out, "%s %s %s %s %d/%d (%d%%)\n",
				faint.Sprint(shortID(s.ID.String())),
				faint.Sprint(s.DateCreated.Local().Format("2006-01-02 15:04")),
				checkbox(s.IsCompleted),
				padRight(s.Name, 20),
				p.Completed, p.Total, p.Percent())
		}
		return nil
	},
}

var sessionShowCmd = &cobra.Command{
	Use:   "show <session>",
	Short: "Show a session with its exercises",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := repo.GetSession(args[0])
		if err != nil {
			return fmt.Errorf("failed to get session: %w", err)
		}
		return printSession(cmd.OutOrStdout(), s)
	},
}

var sessionAddCmd = &cobra.Command{
	Use:   "add <session> <name>",
	Short: "Append an exercise to a session",
	Long: `Append an exercise to the end of a session.

Examples:
  lift session add abc123 "Face Pulls" --sets 3 --reps 15
  lift session add abc123 Dips -s 3 -r 10 -w bodyweight`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ex := models.NewWorkoutExercise(strings.Join(args[1:], " "), exSets, exReps, exWeight, exNotes)
		if err := repo.AddExercise(args[0], ex); err != nil {
			return fmt.Errorf("failed to add exercise: %w", err)
		}

		out := cmd.OutOrStdout()
		color.New(color.FgGreen).Fprintf(out, "✓ Added %s at position %d\n", ex.Name, ex.Position+1)
		fmt.Fprintf(out, "  %s %s\n", faint.Sprint(shortID(ex.ID.String())), formatVolume(ex.Sets, ex.Reps, ex.Weight))
		return nil
	},
}

var sessionRemoveCmd = &cobra.Command{
	Use:   "remove <session> <position>",
	Short: "Remove the exercise at a position (1-based)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		position, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid position: %s", args[1])
		}

		removed, err := repo.RemoveExercise(args[0], position-1)
		if err != nil {
			return fmt.Errorf("failed to remove exercise: %w", models.OneBasedIndex(err))
		}

		color.New(color.FgYellow).Fprintf(cmd.OutOrStdout(), "✗ Removed %s\n", removed.Name)
		return nil
	},
}

var sessionDoneCmd = &cobra.Command{
	Use:   "done <session>",
	Short: "Toggle a session's completion",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := repo.ToggleSessionCompletion(args[0])
		if err != nil {
			return fmt.Errorf("failed to toggle session: %w", err)
		}

		out := cmd.OutOrStdout()
		if s.IsCompleted {
			color.New(color.FgGreen).Fprintf(out, "✓ Finished %s\n", s.Name)
		} else {
			color.New(color.FgYellow).Fprintf(out, "○ Reopened %s\n", s.Name)
		}
		return nil
	},
}

var sessionCheckCmd = &cobra.Command{
	Use:   "check <exercise>",
	Short: "Toggle an exercise's completion",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ex, err := repo.ToggleExerciseCompletion(args[0])
		if err != nil {
			return fmt.Errorf("failed to toggle exercise: %w", err)
		}

		s, err := repo.GetExerciseSession(ex.ID.String())
		if err != nil {
			return fmt.Errorf("failed to load session: %w", err)
		}
		p := models.Progress(s)

		out := cmd.OutOrStdout()
		if ex.IsCompleted {
			color.New(color.FgGreen).Fprintf(out, "✓ %s done\n", ex.Name)
		} else {
			color.New(color.FgYellow).Fprintf(out, "○ %s not done\n", ex.Name)
		}
		fmt.Fprintf(out, "  %s: %d/%d (%d%%)\n", s.Name, p.Completed, p.Total, p.Percent())
		return nil
	},
}

var sessionSetCmd = &cobra.Command{
	Use:   "set <exercise> <reps> <weight>",
	Short: "Log a completed set",
	Long: `Log the reps and weight of a set you just finished.

Examples:
  lift session set def456 8 135
  lift session set def456 12 0      # bodyweight`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		reps, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid reps: %s", args[1])
		}
		weight, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("invalid weight: %s", args[2])
		}

		ex, err := repo.GetExercise(args[0])
		if err != nil {
			return fmt.Errorf("failed to get exercise: %w", err)
		}

		sl := models.NewSetLog(ex.ID, reps, weight)
		if err := repo.LogSet(sl); err != nil {
			return fmt.Errorf("failed to log set: %w", err)
		}

		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ %s set %d: %d x %s\n",
			ex.Name, sl.SetNumber, sl.Reps, formatWeight(sl.Weight))
		return nil
	},
}

var sessionDeleteCmd = &cobra.Command{
	Use:     "delete <session>",
	Aliases: []string{"rm"},
	Short:   "Delete a session with its exercises and sets",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := repo.GetSession(args[0])
		if err != nil {
			return fmt.Errorf("session not found: %w", err)
		}

		if err := repo.DeleteSession(s.ID.String()); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}

		color.New(color.FgYellow).Fprintf(cmd.OutOrStdout(), "✗ Deleted %s %s\n", faint.Sprint(shortID(s.ID.String())), s.Name)
		return nil
	},
}

func printSession(out io.Writer, s *models.WorkoutSession) error {
	p := models.Progress(s)

	color.New(color.Bold).Fprintf(out, "%s %s\n", checkbox(s.IsCompleted), s.Name)
	fmt.Fprintf(out, "  ID: %s\n", s.ID.String())
	fmt.Fprintf(out, "  Started: %s\n", s.DateCreated.Local().Format("2006-01-02 15:04"))
	fmt.Fprintf(out, "  Progress: %d/%d (%d%%)\n", p.Completed, p.Total, p.Percent())

	if len(s.Exercises) == 0 {
		fmt.Fprintln(out, "\n  No exercises.")
		return nil
	}

	fmt.Fprintln(out)
	for _, ex := range s.Exercises {
		fmt.Fprintf(out, "  %2d. %s %s %s %s\n",
			ex.Position+1,
			checkbox(ex.IsCompleted),
			faint.Sprint(shortID(ex.ID.String())),
			padRight(ex.Name, 28),
			formatVolume(ex.Sets, ex.Reps, ex.Weight))
		if ex.Notes != "" {
			fmt.Fprintf(out, "        %s\n", faint.Sprint(ex.Notes))
		}

		logs, err := repo.ListSetLogs(ex.ID)
		if err != nil {
			return fmt.Errorf("failed to list sets: %w", err)
		}
		for _, sl := range logs {
			fmt.Fprintf(out, "        set %d: %d x %s\n", sl.SetNumber, sl.Reps, formatWeight(sl.Weight))
		}
	}
	return nil
}

func formatWeight(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}

func init() {
	sessionNewCmd.Flags().StringVarP(&sessionTemplate, "template", "t", "", "seed exercises from a template")
	sessionListCmd.Flags().IntVarP(&sessionLimit, "limit", "n", 20, "max number of results")

	sessionAddCmd.Flags().StringVarP(&exSets, "sets", "s", "", "number of sets")
	sessionAddCmd.Flags().StringVarP(&exReps, "reps", "r", "", "reps per set")
	sessionAddCmd.Flags().StringVarP(&exWeight, "weight", "w", "", "weight used")
	sessionAddCmd.Flags().StringVar(&exNotes, "notes", "", "notes for the exercise")

	sessionCmd.AddCommand(sessionNewCmd)
	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionAddCmd)
	sessionCmd.AddCommand(sessionRemoveCmd)
	sessionCmd.AddCommand(sessionDoneCmd)
	sessionCmd.AddCommand(sessionCheckCmd)
	sessionCmd.AddCommand(sessionSetCmd)
	sessionCmd.AddCommand(sessionDeleteCmd)
	rootCmd.AddCommand(sessionCmd)
}
