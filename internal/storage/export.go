// ABOUTME: Export and import functionality for lift data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats over any Repository.
package storage

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/lift/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportVersion is the current export format version.
const ExportVersion = "1.0"

// ExportData represents the full export format for lift data.
// Sessions carry their exercises, and exercises carry their set logs.
type ExportData struct {
	Version    string                   `json:"version" yaml:"version"`
	ExportedAt time.Time                `json:"exported_at" yaml:"exported_at"`
	Tool       string                   `json:"tool" yaml:"tool"`
	Entries    []*models.WorkoutEntry   `json:"entries" yaml:"entries"`
	Sessions   []*models.WorkoutSession `json:"sessions" yaml:"sessions"`
}

// GetAllData retrieves all data for export.
func (d *DB) GetAllData() (*ExportData, error) {
	return collectAll(d)
}

// ImportData imports data from an export file in a single transaction.
// Any invalid or duplicate record aborts the import with nothing written.
func (d *DB) ImportData(data *ExportData) error {
	if err := validateImport(data); err != nil {
		return err
	}

	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, e := range data.Entries {
		if err := insertEntry(tx, e); err != nil {
			return fmt.Errorf("import entry: %w", err)
		}
	}
	for _, s := range data.Sessions {
		if err := insertSession(tx, s); err != nil {
			return fmt.Errorf("import session: %w", err)
		}
		for _, sl := range importSetLogs(s) {
			if _, err := insertSetLog(tx, sl); err != nil {
				return fmt.Errorf("import set log: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return nil
}

// collectAll reads every entry and session, populating set logs on each exercise.
func collectAll(r Repository) (*ExportData, error) {
	entries, err := r.ListEntries(0)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	sessions, err := r.ListSessions(0)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	for _, s := range sessions {
		for i := range s.Exercises {
			logs, err := r.ListSetLogs(s.Exercises[i].ID)
			if err != nil {
				return nil, fmt.Errorf("list set logs: %w", err)
			}
			for _, sl := range logs {
				s.Exercises[i].SetLogs = append(s.Exercises[i].SetLogs, *sl)
			}
		}
	}

	if entries == nil {
		entries = []*models.WorkoutEntry{}
	}
	if sessions == nil {
		sessions = []*models.WorkoutSession{}
	}

	return &ExportData{
		Version:    ExportVersion,
		ExportedAt: time.Now(),
		Tool:       "lift",
		Entries:    entries,
		Sessions:   sessions,
	}, nil
}

// validateImport checks every record before anything is written.
func validateImport(data *ExportData) error {
	for _, e := range data.Entries {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("import entry: %w", err)
		}
	}
	for _, s := range data.Sessions {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("import session: %w", err)
		}
		for _, sl := range importSetLogs(s) {
			if err := sl.Validate(); err != nil {
				return fmt.Errorf("import set log: %w", err)
			}
		}
	}
	return nil
}

// importSetLogs returns the set logs carried by a session's exercises, bound to their exercise.
func importSetLogs(s *models.WorkoutSession) []*models.SetLog {
	var logs []*models.SetLog
	for _, ex := range s.Exercises {
		for _, sl := range ex.SetLogs {
			sl.ExerciseID = ex.ID
			logs = append(logs, &sl)
		}
	}
	return logs
}

// ExportJSON exports all data as JSON.
func ExportJSON(r Repository) ([]byte, error) {
	data, err := r.GetAllData()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ExportYAML exports all data as YAML with short IDs, for reading rather than re-import.
func ExportYAML(r Repository) ([]byte, error) {
	data, err := r.GetAllData()
	if err != nil {
		return nil, err
	}

	yamlData := struct {
		Version    string        `yaml:"version"`
		ExportedAt string        `yaml:"exported_at"`
		Tool       string        `yaml:"tool"`
		Entries    []yamlEntry   `yaml:"entries"`
		Sessions   []yamlSession `yaml:"sessions"`
	}{
		Version:    data.Version,
		ExportedAt: data.ExportedAt.Format(time.RFC3339),
		Tool:       data.Tool,
		Entries:    make([]yamlEntry, 0, len(data.Entries)),
		Sessions:   make([]yamlSession, 0, len(data.Sessions)),
	}

	for _, e := range data.Entries {
		ye := yamlEntry{
			ID:        e.ID.String()[:8],
			Name:      e.Name,
			Sets:      e.Sets,
			Reps:      e.Reps,
			Weight:    e.Weight,
			Notes:     e.Notes,
			CreatedAt: e.CreatedAt.Format(time.RFC3339),
		}
		if e.CompletedAt != nil {
			ye.CompletedAt = e.CompletedAt.Format(time.RFC3339)
		}
		yamlData.Entries = append(yamlData.Entries, ye)
	}

	for _, s := range data.Sessions {
		p := models.Progress(s)
		ys := yamlSession{
			ID:          s.ID.String()[:8],
			Name:        s.Name,
			DateCreated: s.DateCreated.Format(time.RFC3339),
			Completed:   s.IsCompleted,
			Progress:    fmt.Sprintf("%d/%d", p.Completed, p.Total),
		}
		for _, ex := range s.Exercises {
			yx := yamlExercise{
				Name:      ex.Name,
				Sets:      ex.Sets,
				Reps:      ex.Reps,
				Weight:    ex.Weight,
				Notes:     ex.Notes,
				Completed: ex.IsCompleted,
			}
			for _, sl := range ex.SetLogs {
				yx.Logged = append(yx.Logged, fmt.Sprintf("%d x %g", sl.Reps, sl.Weight))
			}
			ys.Exercises = append(ys.Exercises, yx)
		}
		yamlData.Sessions = append(yamlData.Sessions, ys)
	}

	return yaml.Marshal(yamlData)
}

type yamlEntry struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Sets        string `yaml:"sets,omitempty"`
	Reps        string `yaml:"reps,omitempty"`
	Weight      string `yaml:"weight,omitempty"`
	Notes       string `yaml:"notes,omitempty"`
	CreatedAt   string `yaml:"created_at"`
	CompletedAt string `yaml:"completed_at,omitempty"`
}

type yamlSession struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name"`
	DateCreated string         `yaml:"date_created"`
	Completed   bool           `yaml:"completed"`
	Progress    string         `yaml:"progress"`
	Exercises   []yamlExercise `yaml:"exercises,omitempty"`
}

type yamlExercise struct {
	Name      string   `yaml:"name"`
	Sets      string   `yaml:"sets,omitempty"`
	Reps      string   `yaml:"reps,omitempty"`
	Weight    string   `yaml:"weight,omitempty"`
	Notes     string   `yaml:"notes,omitempty"`
	Completed bool     `yaml:"completed"`
	Logged    []string `yaml:"logged,omitempty"`
}

// ExportMarkdown exports entries and sessions as Markdown.
// When since is non-nil, only records created at or after it are included.
func ExportMarkdown(r Repository, since *time.Time) (string, error) {
	data, err := r.GetAllData()
	if err != nil {
		return "", err
	}

	include := func(t time.Time) bool {
		return since == nil || !t.Before(*since)
	}

	var sb strings.Builder
	now := time.Now()

	sb.WriteString(fmt.Sprintf("# Lift Export - %s\n\n", now.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	var entries []*models.WorkoutEntry
	for _, e := range data.Entries {
		if include(e.CreatedAt) {
			entries = append(entries, e)
		}
	}
	if len(entries) > 0 {
		sb.WriteString("## Entries\n\n")
		sb.WriteString("| Date | Exercise | Sets | Reps | Weight | Done |\n")
		sb.WriteString("|------|----------|------|------|--------|------|\n")
		for _, e := range entries {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s |\n",
				e.CreatedAt.Local().Format("2006-01-02 15:04"),
				e.Name, e.Sets, e.Reps, e.Weight, checkmark(e.IsCompleted)))
		}
		sb.WriteString("\n")
	}

	for _, s := range data.Sessions {
		if !include(s.DateCreated) {
			continue
		}
		p := models.Progress(s)
		sb.WriteString(fmt.Sprintf("## %s\n\n", s.Name))
		sb.WriteString(fmt.Sprintf("%s, %d/%d exercises done (%d%%)",
			s.DateCreated.Local().Format("2006-01-02 15:04"), p.Completed, p.Total, p.Percent()))
		if s.IsCompleted {
			sb.WriteString(", session complete")
		}
		sb.WriteString("\n\n")

		if len(s.Exercises) == 0 {
			continue
		}
		sb.WriteString("| # | Exercise | Sets | Reps | Weight | Done | Logged |\n")
		sb.WriteString("|---|----------|------|------|--------|------|--------|\n")
		for _, ex := range s.Exercises {
			var logged []string
			for _, sl := range ex.SetLogs {
				logged = append(logged, fmt.Sprintf("%dx%g", sl.Reps, sl.Weight))
			}
			sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s | %s | %s |\n",
				ex.Position+1, ex.Name, ex.Sets, ex.Reps, ex.Weight,
				checkmark(ex.IsCompleted), strings.Join(logged, ", ")))
		}
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

func checkmark(done bool) string {
	if done {
		return "x"
	}
	return ""
}

// ImportJSON imports data from JSON bytes.
func ImportJSON(r Repository, data []byte) error {
	var exportData ExportData
	if err := json.Unmarshal(data, &exportData); err != nil {
		return fmt.Errorf("unmarshal JSON: %w", err)
	}
	if exportData.Version != "" && exportData.Version != ExportVersion {
		return fmt.Errorf("unsupported export version %q", exportData.Version)
	}
	return r.ImportData(&exportData)
}
