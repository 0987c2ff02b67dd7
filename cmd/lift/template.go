// ABOUTME: CLI commands for browsing the built-in workout templates.
// ABOUTME: Templates are read-only; use 'session new --template' to start one.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/lift/internal/catalog"
	"github.com/harperreed/lift/internal/models"
	"github.com/spf13/cobra"
)

var templateCategory string

var templateCmd = &cobra.Command{
	Use:         "template",
	Aliases:     []string{"t"},
	Short:       "Browse workout templates",
	Annotations: map[string]string{skipStorage: "true"},
}

var templateListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List templates",
	Long: `List the built-in templates.

FILTERING:

  --category matches a category ("Upper Body", "Lower Body") or a split
  name ("push", "pull", "legs"). Matching ignores case.

EXAMPLES:

  lift template list
  lift template list --category push
  lift template list -c "lower body"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var templates []models.Template
		if templateCategory == "" {
			templates = catalog.List()
		} else {
			for t := range catalog.FindByCategory(templateCategory) {
				templates = append(templates, t)
			}
		}

		out := cmd.OutOrStdout()
		if len(templates) == 0 {
			fmt.Fprintf(out, "No templates match %q. Categories: %s\n",
				templateCategory, strings.Join(catalog.Categories(), ", "))
			return nil
		}

		for _, t := range templates {
			fmt.Fprintf(out, "%s %s %d exercises\n",
				padRight(t.Name, 8),
				faint.Sprint(padRight(t.Category, 12)),
				len(t.Exercises))
		}
		return nil
	},
}

var templateShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a template's exercises",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.Join(args, " ")
		t, ok := catalog.Get(name)
		if !ok {
			return fmt.Errorf("unknown template: %s", name)
		}

		out := cmd.OutOrStdout()
		color.New(color.Bold).Fprintf(out, "%s\n", t.Name)
		fmt.Fprintf(out, "  Category: %s\n", t.Category)

		printSteps := func(title string, steps []models.TemplateExercise) {
			if len(steps) == 0 {
				return
			}
			fmt.Fprintf(out, "\n  %s\n", title)
			for _, e := range steps {
				line := fmt.Sprintf("    %s %s", padRight(e.Name, 32), formatVolume(e.Sets, e.Reps, ""))
				if e.Notes != "" {
					line += faint.Sprintf("  (%s)", e.Notes)
				}
				fmt.Fprintln(out, line)
			}
		}
		printSteps("Warm-up", t.Warmups())
		printSteps("Main", t.MainExercises())
		return nil
	},
}

func init() {
	templateListCmd.Flags().StringVarP(&templateCategory, "category", "c", "", "filter by category or split")
	templateCmd.AddCommand(templateListCmd)
	templateCmd.AddCommand(templateShowCmd)
	rootCmd.AddCommand(templateCmd)
}
