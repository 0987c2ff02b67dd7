// ABOUTME: Tests for export and import functionality.
// ABOUTME: Covers JSON round trips, YAML and Markdown rendering, and version checks.
package storage

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/lift/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// seedExportData fills repo with one completed entry and a session with logged sets.
func seedExportData(t *testing.T, repo Repository) *models.WorkoutSession {
	t.Helper()

	e := models.NewWorkoutEntry("Farmer Carry", "3", "40 m", "32 kg", "grip work")
	require.NoError(t, repo.CreateEntry(e))
	_, err := repo.ToggleEntryCompletion(e.ID.String())
	require.NoError(t, err)
	require.NoError(t, repo.CreateEntry(models.NewWorkoutEntry("Plank", "3", "60 s", "", "")))

	s := seedSession(t, repo, "LEGS A", "Back Squat", "Leg Press", "Calf Raise")
	_, err = repo.ToggleExerciseCompletion(s.Exercises[0].ID.String())
	require.NoError(t, err)
	require.NoError(t, repo.LogSet(models.NewSetLog(s.Exercises[0].ID, 5, 100)))
	require.NoError(t, repo.LogSet(models.NewSetLog(s.Exercises[0].ID, 5, 102.5)))

	return s
}

func TestGetAllData(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		seedExportData(t, repo)

		data, err := repo.GetAllData()
		require.NoError(t, err)
		assert.Equal(t, ExportVersion, data.Version)
		assert.Equal(t, "lift", data.Tool)
		assert.Len(t, data.Entries, 2)
		require.Len(t, data.Sessions, 1)
		require.Len(t, data.Sessions[0].Exercises, 3)
		assert.Len(t, data.Sessions[0].Exercises[0].SetLogs, 2)
		assert.Empty(t, data.Sessions[0].Exercises[1].SetLogs)
	})
}

func TestExportImportJSONRoundTrip(t *testing.T) {
	forEachBackend(t, func(t *testing.T, src Repository) {
		s := seedExportData(t, src)

		raw, err := ExportJSON(src)
		require.NoError(t, err)

		var decoded ExportData
		require.NoError(t, json.Unmarshal(raw, &decoded))
		assert.Equal(t, "lift", decoded.Tool)

		for _, dst := range []Repository{setupTestDB(t), setupTestBadger(t)} {
			require.NoError(t, ImportJSON(dst, raw))

			entries, err := dst.ListEntries(0)
			require.NoError(t, err)
			assert.Len(t, entries, 2)

			got, err := dst.GetSession(s.ID.String())
			require.NoError(t, err)
			assert.Equal(t, []string{"Back Squat", "Leg Press", "Calf Raise"}, exerciseNames(got))
			assert.True(t, got.Exercises[0].IsCompleted)
			assert.Equal(t, 1, models.Progress(got).Completed)

			logs, err := dst.ListSetLogs(s.Exercises[0].ID)
			require.NoError(t, err)
			require.Len(t, logs, 2)
			assert.InDelta(t, 102.5, logs[1].Weight, 1e-9)

			var completed *models.WorkoutEntry
			for _, e := range entries {
				if e.Name == "Farmer Carry" {
					completed = e
				}
			}
			require.NotNil(t, completed)
			assert.True(t, completed.IsCompleted)
			assert.NotNil(t, completed.CompletedAt)
		}
	})
}

func TestImportIsAllOrNothing(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		existing := models.NewWorkoutEntry("Bench Press", "", "", "", "")
		require.NoError(t, repo.CreateEntry(existing))

		fresh := models.NewWorkoutEntry("Row", "", "", "", "")
		session := models.NewWorkoutSession("Pull Day")
		session.Append(models.NewWorkoutExercise("Pull-up", "", "", "", ""))

		err := repo.ImportData(&ExportData{
			Version:  ExportVersion,
			Entries:  []*models.WorkoutEntry{fresh, existing},
			Sessions: []*models.WorkoutSession{session},
		})
		require.Error(t, err)

		entries, err := repo.ListEntries(0)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
		sessions, err := repo.ListSessions(0)
		require.NoError(t, err)
		assert.Empty(t, sessions)

		// A bad set log deep in the data aborts before anything is written.
		ex := &session.Exercises[0]
		ex.SetLogs = []models.SetLog{*models.NewSetLog(ex.ID, 5, 100), *models.NewSetLog(ex.ID, -1, 100)}
		err = repo.ImportData(&ExportData{
			Version:  ExportVersion,
			Entries:  []*models.WorkoutEntry{fresh},
			Sessions: []*models.WorkoutSession{session},
		})
		assert.ErrorIs(t, err, models.ErrValidation)

		entries, err = repo.ListEntries(0)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
		sessions, err = repo.ListSessions(0)
		require.NoError(t, err)
		assert.Empty(t, sessions)
	})
}

func TestImportJSONRejectsBadInput(t *testing.T) {
	repo := setupTestDB(t)

	if err := ImportJSON(repo, []byte("{not json")); err == nil {
		t.Error("expected error for malformed JSON")
	}
	if err := ImportJSON(repo, []byte(`{"version":"9.9","tool":"lift"}`)); err == nil {
		t.Error("expected error for unsupported version")
	}
}

func TestExportYAML(t *testing.T) {
	repo := setupTestDB(t)
	seedExportData(t, repo)

	raw, err := ExportYAML(repo)
	if err != nil {
		t.Fatalf("ExportYAML failed: %v", err)
	}

	var doc struct {
		Tool     string `yaml:"tool"`
		Entries  []map[string]any
		Sessions []struct {
			Name      string `yaml:"name"`
			Progress  string `yaml:"progress"`
			Exercises []struct {
				Name   string   `yaml:"name"`
				Logged []string `yaml:"logged"`
			} `yaml:"exercises"`
		} `yaml:"sessions"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("exported YAML does not parse: %v", err)
	}

	if doc.Tool != "lift" {
		t.Errorf("tool = %q, want lift", doc.Tool)
	}
	if len(doc.Entries) != 2 {
		t.Errorf("expected 2 entries, got %d", len(doc.Entries))
	}
	if len(doc.Sessions) != 1 || doc.Sessions[0].Progress != "1/3" {
		t.Fatalf("unexpected sessions: %+v", doc.Sessions)
	}
	logged := doc.Sessions[0].Exercises[0].Logged
	if len(logged) != 2 || logged[1] != "5 x 102.5" {
		t.Errorf("logged = %v", logged)
	}
}

func TestExportMarkdown(t *testing.T) {
	repo := setupTestDB(t)
	seedExportData(t, repo)

	md, err := ExportMarkdown(repo, nil)
	if err != nil {
		t.Fatalf("ExportMarkdown failed: %v", err)
	}

	for _, want := range []string{
		"# Lift Export",
		"## Entries",
		"Farmer Carry",
		"## LEGS A",
		"1/3 exercises done (33%)",
		"| 1 | Back Squat |",
		"5x100, 5x102.5",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestExportMarkdownSince(t *testing.T) {
	repo := setupTestDB(t)

	old := models.NewWorkoutEntry("Ancient Lift", "", "", "", "").WithCreatedAt(time.Now().AddDate(0, -1, 0))
	if err := repo.CreateEntry(old); err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}
	if err := repo.CreateEntry(models.NewWorkoutEntry("Fresh Lift", "", "", "", "")); err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}

	since := time.Now().Add(-24 * time.Hour)
	md, err := ExportMarkdown(repo, &since)
	if err != nil {
		t.Fatalf("ExportMarkdown failed: %v", err)
	}
	if strings.Contains(md, "Ancient Lift") {
		t.Error("expected old entry to be filtered out")
	}
	if !strings.Contains(md, "Fresh Lift") {
		t.Error("expected recent entry to be included")
	}
}
