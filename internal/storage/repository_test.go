// ABOUTME: Contract tests for Repository implementations.
// ABOUTME: Every test runs against both the SQLite and Badger backends.
package storage

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/lift/internal/catalog"
	"github.com/harperreed/lift/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGetEntry(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		e := models.NewWorkoutEntry("Bench Press", "4", "8", "135 lb", "felt strong")
		require.NoError(t, repo.CreateEntry(e))

		got, err := repo.GetEntry(e.ID.String())
		require.NoError(t, err)
		assert.Equal(t, e.ID, got.ID)
		assert.Equal(t, "Bench Press", got.Name)
		assert.Equal(t, "4", got.Sets)
		assert.Equal(t, "8", got.Reps)
		assert.Equal(t, "135 lb", got.Weight)
		assert.Equal(t, "felt strong", got.Notes)
		assert.False(t, got.IsCompleted)
		assert.Nil(t, got.CompletedAt)
		assert.True(t, e.CreatedAt.Equal(got.CreatedAt), "created_at %v, stored %v", e.CreatedAt, got.CreatedAt)

		byPrefix, err := repo.GetEntry(e.ID.String()[:8])
		require.NoError(t, err)
		assert.Equal(t, e.ID, byPrefix.ID)
	})
}

func TestCreatedAtWithinCallWindow(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		for range 20 {
			start := time.Now()
			e := models.NewWorkoutEntry("Bench Press", "4", "8", "135", "")
			require.NoError(t, repo.CreateEntry(e))
			got, err := repo.GetEntry(e.ID.String())
			require.NoError(t, err)
			end := time.Now()

			assert.False(t, got.CreatedAt.Before(start), "created_at %v before start %v", got.CreatedAt, start)
			assert.False(t, got.CreatedAt.After(end), "created_at %v after end %v", got.CreatedAt, end)
		}
	})
}

func TestCreateEntryRejectsEmptyName(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		err := repo.CreateEntry(models.NewWorkoutEntry("   ", "3", "10", "", ""))
		assert.ErrorIs(t, err, models.ErrValidation)

		entries, err := repo.ListEntries(0)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestListEntriesOrderAndLimit(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		now := time.Now()
		oldest := models.NewWorkoutEntry("Squat", "", "", "", "").WithCreatedAt(now.Add(-2 * time.Hour))
		middle := models.NewWorkoutEntry("Row", "", "", "", "").WithCreatedAt(now.Add(-1 * time.Hour))
		newest := models.NewWorkoutEntry("Press", "", "", "", "").WithCreatedAt(now)

		for _, e := range []*models.WorkoutEntry{middle, newest, oldest} {
			require.NoError(t, repo.CreateEntry(e))
		}

		all, err := repo.ListEntries(0)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, []string{"Press", "Row", "Squat"}, []string{all[0].Name, all[1].Name, all[2].Name})

		limited, err := repo.ListEntries(2)
		require.NoError(t, err)
		require.Len(t, limited, 2)
		assert.Equal(t, newest.ID, limited[0].ID)
	})
}

func TestDeleteEntry(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		keep := models.NewWorkoutEntry("Curl", "", "", "", "")
		gone := models.NewWorkoutEntry("Dip", "", "", "", "")
		require.NoError(t, repo.CreateEntry(keep))
		require.NoError(t, repo.CreateEntry(gone))

		require.NoError(t, repo.DeleteEntry(gone.ID.String()))

		_, err := repo.GetEntry(gone.ID.String())
		assert.ErrorIs(t, err, models.ErrNotFound)
		assert.ErrorIs(t, repo.DeleteEntry(gone.ID.String()), models.ErrNotFound)
		assert.ErrorIs(t, repo.DeleteEntry(uuid.New().String()), models.ErrNotFound)

		entries, err := repo.ListEntries(0)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, keep.ID, entries[0].ID)
	})
}

func TestToggleEntryCompletion(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		e := models.NewWorkoutEntry("Deadlift", "1", "5", "315", "")
		require.NoError(t, repo.CreateEntry(e))

		toggled, err := repo.ToggleEntryCompletion(e.ID.String()[:8])
		require.NoError(t, err)
		assert.True(t, toggled.IsCompleted)
		require.NotNil(t, toggled.CompletedAt)

		stored, err := repo.GetEntry(e.ID.String())
		require.NoError(t, err)
		assert.True(t, stored.IsCompleted)
		require.NotNil(t, stored.CompletedAt)
		assert.WithinDuration(t, time.Now(), *stored.CompletedAt, 2*time.Second)

		toggled, err = repo.ToggleEntryCompletion(e.ID.String())
		require.NoError(t, err)
		assert.False(t, toggled.IsCompleted)
		assert.Nil(t, toggled.CompletedAt)

		_, err = repo.ToggleEntryCompletion(uuid.New().String())
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestPrefixResolution(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		a := models.NewWorkoutEntry("A", "", "", "", "")
		a.ID = uuid.MustParse("abcdef01-0000-4000-8000-000000000001")
		b := models.NewWorkoutEntry("B", "", "", "", "")
		b.ID = uuid.MustParse("abcdef01-0000-4000-8000-000000000002")
		require.NoError(t, repo.CreateEntry(a))
		require.NoError(t, repo.CreateEntry(b))

		_, err := repo.GetEntry("abcdef01")
		assert.ErrorIs(t, err, models.ErrAmbiguous)

		got, err := repo.GetEntry("abcdef01-0000-4000-8000-000000000002")
		require.NoError(t, err)
		assert.Equal(t, "B", got.Name)

		_, err = repo.GetEntry("ffffffff")
		assert.ErrorIs(t, err, models.ErrNotFound)

		_, err = repo.GetEntry("")
		assert.ErrorIs(t, err, models.ErrNotFound)

		for _, pattern := range []string{"%", "_", "abcdef0_", `\`} {
			_, err = repo.GetEntry(pattern)
			assert.ErrorIs(t, err, models.ErrNotFound, "prefix %q", pattern)
		}
		assert.ErrorIs(t, repo.DeleteEntry("%"), models.ErrNotFound)

		entries, err := repo.ListEntries(0)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})
}

func TestCreateSessionStartsEmpty(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		s := models.NewWorkoutSession("Monday")
		require.NoError(t, repo.CreateSession(s))

		got, err := repo.GetSession(s.ID.String())
		require.NoError(t, err)
		assert.Equal(t, "Monday", got.Name)
		assert.False(t, got.IsCompleted)
		assert.NotNil(t, got.Exercises)
		assert.Empty(t, got.Exercises)
		assert.WithinDuration(t, s.DateCreated, got.DateCreated, time.Second)

		err = repo.CreateSession(models.NewWorkoutSession(""))
		assert.ErrorIs(t, err, models.ErrValidation)

		sessions, err := repo.ListSessions(0)
		require.NoError(t, err)
		assert.Len(t, sessions, 1)
	})
}

func TestCreateSessionFromTemplate(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		tmpl, ok := catalog.Get("PUSH A")
		require.True(t, ok)

		s := models.NewSessionFromTemplate(tmpl)
		require.NoError(t, repo.CreateSession(s))

		got, err := repo.GetSession(s.ID.String())
		require.NoError(t, err)
		require.Len(t, got.Exercises, len(tmpl.Exercises))
		for i, ex := range got.Exercises {
			assert.Equal(t, tmpl.Exercises[i].Name, ex.Name)
			assert.Equal(t, tmpl.Exercises[i].Sets, ex.Sets)
			assert.Equal(t, i, ex.Position)
			assert.Equal(t, s.ID, ex.SessionID)
			assert.Empty(t, ex.Weight)
		}
	})
}

func TestCreateSessionWithInvalidExerciseIsAtomic(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		s := models.NewWorkoutSession("Broken")
		s.Append(models.NewWorkoutExercise("Squat", "", "", "", ""))
		s.Append(models.NewWorkoutExercise("", "", "", "", ""))

		assert.ErrorIs(t, repo.CreateSession(s), models.ErrValidation)

		sessions, err := repo.ListSessions(0)
		require.NoError(t, err)
		assert.Empty(t, sessions)
	})
}

func TestAddExercise(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		s := seedSession(t, repo, "Pull Day")

		first := models.NewWorkoutExercise("Pull-Ups", "4", "8", "", "")
		second := models.NewWorkoutExercise("Rows", "3", "12", "50 kg", "")
		require.NoError(t, repo.AddExercise(s.ID.String()[:8], first))
		require.NoError(t, repo.AddExercise(s.ID.String(), second))

		assert.Equal(t, s.ID, second.SessionID)
		assert.Equal(t, 1, second.Position)

		got, err := repo.GetSession(s.ID.String())
		require.NoError(t, err)
		assert.Equal(t, []string{"Pull-Ups", "Rows"}, exerciseNames(got))
		assert.Equal(t, "50 kg", got.Exercises[1].Weight)

		listed, err := repo.ListExercises(s.ID)
		require.NoError(t, err)
		require.Len(t, listed, 2)
		assert.Equal(t, first.ID, listed[0].ID)
	})
}

func TestAddExerciseErrors(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		missing := uuid.New()

		// Validation is reported even when the session does not exist.
		err := repo.AddExercise(missing.String(), models.NewWorkoutExercise("", "", "", "", ""))
		assert.ErrorIs(t, err, models.ErrValidation)

		err = repo.AddExercise(missing.String(), models.NewWorkoutExercise("Lunges", "", "", "", ""))
		assert.ErrorIs(t, err, models.ErrNotFound)

		orphans, err := repo.ListExercises(missing)
		require.NoError(t, err)
		assert.Empty(t, orphans)
	})
}

func TestRemoveExerciseShiftsPositions(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		s := seedSession(t, repo, "Legs", "A", "B", "C", "D")

		removed, err := repo.RemoveExercise(s.ID.String(), 1)
		require.NoError(t, err)
		assert.Equal(t, "B", removed.Name)

		got, err := repo.GetSession(s.ID.String())
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "C", "D"}, exerciseNames(got))
		for i, ex := range got.Exercises {
			assert.Equal(t, i, ex.Position)
		}

		_, err = repo.RemoveExercise(s.ID.String(), 2)
		require.NoError(t, err)
		_, err = repo.RemoveExercise(s.ID.String(), 0)
		require.NoError(t, err)

		got, err = repo.GetSession(s.ID.String())
		require.NoError(t, err)
		assert.Equal(t, []string{"C"}, exerciseNames(got))
		assert.Equal(t, 0, got.Exercises[0].Position)

		_, err = repo.GetExercise(removed.ID.String())
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestRemoveExerciseErrors(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		s := seedSession(t, repo, "Push", "Bench", "Dips")
		empty := seedSession(t, repo, "Empty")

		for _, pos := range []int{-1, 2, 10} {
			_, err := repo.RemoveExercise(s.ID.String(), pos)
			assert.ErrorIs(t, err, models.ErrIndex, "position %d", pos)
		}
		_, err := repo.RemoveExercise(empty.ID.String(), 0)
		assert.ErrorIs(t, err, models.ErrIndex)

		_, err = repo.RemoveExercise(uuid.New().String(), 0)
		assert.ErrorIs(t, err, models.ErrNotFound)

		got, err := repo.GetSession(s.ID.String())
		require.NoError(t, err)
		assert.Equal(t, []string{"Bench", "Dips"}, exerciseNames(got))
	})
}

func TestRemoveExerciseDropsSetLogs(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		s := seedSession(t, repo, "Push", "Bench", "Dips")
		bench := s.Exercises[0]
		require.NoError(t, repo.LogSet(models.NewSetLog(bench.ID, 8, 60)))

		_, err := repo.RemoveExercise(s.ID.String(), 0)
		require.NoError(t, err)

		logs, err := repo.ListSetLogs(bench.ID)
		require.NoError(t, err)
		assert.Empty(t, logs)
	})
}

func TestDeleteSessionCascades(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		s := seedSession(t, repo, "Doomed", "Squat", "Lunge")
		other := seedSession(t, repo, "Survivor", "Curl")

		squat := s.Exercises[0]
		require.NoError(t, repo.LogSet(models.NewSetLog(squat.ID, 5, 100)))
		require.NoError(t, repo.LogSet(models.NewSetLog(other.Exercises[0].ID, 12, 15)))

		require.NoError(t, repo.DeleteSession(s.ID.String()[:8]))

		_, err := repo.GetSession(s.ID.String())
		assert.ErrorIs(t, err, models.ErrNotFound)
		_, err = repo.GetExercise(squat.ID.String())
		assert.ErrorIs(t, err, models.ErrNotFound)

		exercises, err := repo.ListExercises(s.ID)
		require.NoError(t, err)
		assert.Empty(t, exercises)

		logs, err := repo.ListSetLogs(squat.ID)
		require.NoError(t, err)
		assert.Empty(t, logs)

		survivor, err := repo.GetSession(other.ID.String())
		require.NoError(t, err)
		assert.Len(t, survivor.Exercises, 1)
		otherLogs, err := repo.ListSetLogs(other.Exercises[0].ID)
		require.NoError(t, err)
		assert.Len(t, otherLogs, 1)

		assert.ErrorIs(t, repo.DeleteSession(s.ID.String()), models.ErrNotFound)
	})
}

func TestListSessionsOrder(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		now := time.Now()
		old := models.NewWorkoutSession("Old").WithDateCreated(now.Add(-48 * time.Hour))
		recent := models.NewWorkoutSession("Recent").WithDateCreated(now)
		recent.Append(models.NewWorkoutExercise("Bench", "", "", "", ""))
		require.NoError(t, repo.CreateSession(old))
		require.NoError(t, repo.CreateSession(recent))

		sessions, err := repo.ListSessions(0)
		require.NoError(t, err)
		require.Len(t, sessions, 2)
		assert.Equal(t, "Recent", sessions[0].Name)
		assert.Len(t, sessions[0].Exercises, 1)
		assert.Equal(t, "Old", sessions[1].Name)

		limited, err := repo.ListSessions(1)
		require.NoError(t, err)
		require.Len(t, limited, 1)
		assert.Equal(t, recent.ID, limited[0].ID)
	})
}

func TestToggleSessionCompletion(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		s := seedSession(t, repo, "Full Body", "Squat", "Bench")

		got, err := repo.ToggleSessionCompletion(s.ID.String())
		require.NoError(t, err)
		assert.True(t, got.IsCompleted)
		for _, ex := range got.Exercises {
			assert.False(t, ex.IsCompleted, "exercise %s", ex.Name)
		}
		assert.Equal(t, 0.0, models.Progress(got).Ratio)

		got, err = repo.ToggleSessionCompletion(s.ID.String())
		require.NoError(t, err)
		assert.False(t, got.IsCompleted)

		_, err = repo.ToggleSessionCompletion(uuid.New().String())
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestToggleExerciseCompletionDrivesProgress(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		s := seedSession(t, repo, "Arms", "Curl", "Skullcrusher", "Hammer", "Pushdown")

		for _, i := range []int{0, 2} {
			ex, err := repo.ToggleExerciseCompletion(s.Exercises[i].ID.String())
			require.NoError(t, err)
			assert.True(t, ex.IsCompleted)
		}

		got, err := repo.GetSession(s.ID.String())
		require.NoError(t, err)
		p := models.Progress(got)
		assert.Equal(t, 2, p.Completed)
		assert.Equal(t, 4, p.Total)
		assert.InDelta(t, 0.5, p.Ratio, 1e-9)

		ex, err := repo.ToggleExerciseCompletion(s.Exercises[0].ID.String())
		require.NoError(t, err)
		assert.False(t, ex.IsCompleted)
	})
}

func TestGetExerciseSession(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		s := seedSession(t, repo, "Back", "Row", "Shrug")

		owner, err := repo.GetExerciseSession(s.Exercises[1].ID.String())
		require.NoError(t, err)
		assert.Equal(t, s.ID, owner.ID)
		assert.Len(t, owner.Exercises, 2)

		_, err = repo.GetExerciseSession(uuid.New().String())
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestLogSet(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		s := seedSession(t, repo, "Squats", "Back Squat")
		exID := s.Exercises[0].ID

		for i, reps := range []int{5, 5, 3} {
			sl := models.NewSetLog(exID, reps, 100+float64(i)*2.5)
			require.NoError(t, repo.LogSet(sl))
			assert.Equal(t, i+1, sl.SetNumber)
		}

		logs, err := repo.ListSetLogs(exID)
		require.NoError(t, err)
		require.Len(t, logs, 3)
		for i, sl := range logs {
			assert.Equal(t, i+1, sl.SetNumber)
		}
		assert.Equal(t, 3, logs[2].Reps)
		assert.InDelta(t, 105.0, logs[2].Weight, 1e-9)

		assert.ErrorIs(t, repo.LogSet(models.NewSetLog(exID, -1, 100)), models.ErrValidation)
		assert.ErrorIs(t, repo.LogSet(models.NewSetLog(exID, 5, -1)), models.ErrValidation)
		assert.ErrorIs(t, repo.LogSet(models.NewSetLog(exID, 5, math.Inf(1))), models.ErrValidation)
		assert.ErrorIs(t, repo.LogSet(models.NewSetLog(exID, 5, math.Inf(-1))), models.ErrValidation)
		assert.ErrorIs(t, repo.LogSet(models.NewSetLog(exID, 5, math.NaN())), models.ErrValidation)
		assert.ErrorIs(t, repo.LogSet(models.NewSetLog(uuid.New(), 5, 100)), models.ErrNotFound)

		logs, err = repo.ListSetLogs(exID)
		require.NoError(t, err)
		assert.Len(t, logs, 3)
	})
}

func TestUniqueIdentities(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		seen := make(map[uuid.UUID]bool)
		for range 20 {
			e := models.NewWorkoutEntry("Plank", "", "", "", "")
			require.NoError(t, repo.CreateEntry(e))
			assert.False(t, seen[e.ID])
			seen[e.ID] = true
		}

		// Re-inserting an existing ID is rejected.
		var dup *models.WorkoutEntry
		for id := range seen {
			dup = models.NewWorkoutEntry("Plank", "", "", "", "")
			dup.ID = id
			break
		}
		assert.Error(t, repo.CreateEntry(dup))
	})
}
