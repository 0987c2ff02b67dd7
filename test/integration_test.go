// ABOUTME: Integration tests for lift CLI.
// ABOUTME: Builds the binary and runs a full workflow against both backends.
package test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func buildLift(t *testing.T) string {
	t.Helper()

	projectRoot, _ := filepath.Abs("..")
	liftBinary := filepath.Join(t.TempDir(), "lift")

	buildCmd := exec.Command("go", "build", "-o", liftBinary, "./cmd/lift")
	buildCmd.Dir = projectRoot
	if output, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build: %v\n%s", err, output)
	}
	return liftBinary
}

func TestFullWorkflow(t *testing.T) {
	liftBinary := buildLift(t)

	for _, backend := range []string{"sqlite", "badger"} {
		t.Run(backend, func(t *testing.T) {
			dataDir := t.TempDir()
			configDir := t.TempDir()

			run := func(args ...string) (string, error) {
				fullArgs := append([]string{"--backend", backend, "--data-dir", dataDir}, args...)
				cmd := exec.Command(liftBinary, fullArgs...)
				cmd.Env = append(os.Environ(), "XDG_CONFIG_HOME="+configDir, "NO_COLOR=1")
				output, err := cmd.CombinedOutput()
				return string(output), err
			}

			output, err := run("add", "Bench Press", "--sets", "4", "--reps", "8", "--weight", "135")
			if err != nil {
				t.Fatalf("Failed to add entry: %v\n%s", err, output)
			}
			if !strings.Contains(output, "Added Bench Press") {
				t.Errorf("Expected 'Added Bench Press' in output, got: %s", output)
			}

			output, err = run("list")
			if err != nil {
				t.Fatalf("Failed to list: %v\n%s", err, output)
			}
			if !strings.Contains(output, "4x8 @ 135") {
				t.Errorf("Expected '4x8 @ 135' in list output, got: %s", output)
			}

			output, err = run("session", "new", "Leg Day")
			if err != nil {
				t.Fatalf("Failed to start session: %v\n%s", err, output)
			}
			sessionID := idFromOutput(t, output)

			output, err = run("session", "add", sessionID, "Squat", "--sets", "5", "--reps", "5")
			if err != nil {
				t.Fatalf("Failed to add exercise: %v\n%s", err, output)
			}
			if !strings.Contains(output, "at position 1") {
				t.Errorf("Expected 'at position 1' in output, got: %s", output)
			}

			output, err = run("session", "show", sessionID)
			if err != nil {
				t.Fatalf("Failed to show session: %v\n%s", err, output)
			}
			if !strings.Contains(output, "Progress: 0/1 (0%)") {
				t.Errorf("Expected empty progress in output, got: %s", output)
			}

			output, err = run("template", "list")
			if err != nil {
				t.Fatalf("Failed to list templates: %v\n%s", err, output)
			}
			if !strings.Contains(output, "PULL A") {
				t.Errorf("Expected 'PULL A' in template list, got: %s", output)
			}
		})
	}
}

// idFromOutput extracts the value of the "ID: " line printed by create commands.
func idFromOutput(t *testing.T, output string) string {
	t.Helper()
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if id, ok := strings.CutPrefix(line, "ID: "); ok {
			return id
		}
	}
	t.Fatalf("no ID in output: %s", output)
	return ""
}
