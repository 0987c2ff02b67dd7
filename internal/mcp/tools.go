// ABOUTME: MCP tool implementations for workout entries, sessions, and templates.
// ABOUTME: Positions are 1-based at this boundary, matching the CLI.
package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/lift/internal/catalog"
	"github.com/harperreed/lift/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	// Entries
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_entry",
		Description: "Log a standalone exercise entry (name, sets, reps, weight, notes)",
	}, s.handleAddEntry)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_entries",
		Description: "List recent exercise entries, newest first",
	}, s.handleListEntries)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "toggle_entry",
		Description: "Mark an entry done, or undone if it was already done",
	}, s.handleToggleEntry)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_entry",
		Description: "Delete an entry by ID or ID prefix",
	}, s.handleDeleteEntry)

	// Sessions
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "create_session",
		Description: "Start a workout session, empty or seeded from a template such as PUSH A",
	}, s.handleCreateSession)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_sessions",
		Description: "List recent workout sessions with progress, newest first",
	}, s.handleListSessions)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_session",
		Description: "Get a session with its ordered exercises and logged sets",
	}, s.handleGetSession)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_exercise",
		Description: "Append an exercise to the end of a session",
	}, s.handleAddExercise)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "remove_exercise",
		Description: "Remove the exercise at a 1-based position from a session",
	}, s.handleRemoveExercise)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "toggle_session",
		Description: "Mark a whole session done or undone",
	}, s.handleToggleSession)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "toggle_exercise",
		Description: "Check off a session exercise, or uncheck it",
	}, s.handleToggleExercise)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_set",
		Description: "Record one performed set (reps and weight) for a session exercise",
	}, s.handleLogSet)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_session",
		Description: "Delete a session together with its exercises and logged sets",
	}, s.handleDeleteSession)

	// Templates
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_templates",
		Description: "List workout templates, optionally filtered by category or split (push, pull, legs)",
	}, s.handleListTemplates)
}

// Tool input/output types

type addEntryInput struct {
	Name   string `json:"name" jsonschema:"Exercise name"`
	Sets   string `json:"sets,omitempty" jsonschema:"Number of sets, free text"`
	Reps   string `json:"reps,omitempty" jsonschema:"Reps per set, free text such as 8-12"`
	Weight string `json:"weight,omitempty" jsonschema:"Weight used, free text such as 135 lb"`
	Notes  string `json:"notes,omitempty" jsonschema:"Optional notes"`
}

type entryOutput struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Sets        string `json:"sets"`
	Reps        string `json:"reps"`
	Weight      string `json:"weight"`
	Notes       string `json:"notes"`
	CreatedAt   string `json:"created_at"`
	CompletedAt string `json:"completed_at,omitempty"`
	IsCompleted bool   `json:"is_completed"`
	Message     string `json:"message,omitempty"`
}

type listInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type listEntriesOutput struct {
	Entries []entryOutput `json:"entries"`
	Count   int           `json:"count"`
}

type idInput struct {
	ID string `json:"id" jsonschema:"ID or unique ID prefix"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type createSessionInput struct {
	Name     string `json:"name,omitempty" jsonschema:"Session name; defaults to the template name"`
	Template string `json:"template,omitempty" jsonschema:"Template to seed exercises from, such as PUSH A"`
}

type exerciseOutput struct {
	ID          string         `json:"id"`
	SessionID   string         `json:"session_id"`
	Position    int            `json:"position"`
	Name        string         `json:"name"`
	Sets        string         `json:"sets"`
	Reps        string         `json:"reps"`
	Weight      string         `json:"weight"`
	Notes       string         `json:"notes"`
	IsCompleted bool           `json:"is_completed"`
	SetLogs     []setLogOutput `json:"set_logs"`
}

type sessionOutput struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	DateCreated string           `json:"date_created"`
	IsCompleted bool             `json:"is_completed"`
	Completed   int              `json:"completed"`
	Total       int              `json:"total"`
	Percent     int              `json:"percent"`
	Exercises   []exerciseOutput `json:"exercises"`
	Message     string           `json:"message,omitempty"`
}

type listSessionsOutput struct {
	Sessions []sessionOutput `json:"sessions"`
	Count    int             `json:"count"`
}

type addExerciseInput struct {
	SessionID string `json:"session_id" jsonschema:"Session ID or prefix"`
	Name      string `json:"name" jsonschema:"Exercise name"`
	Sets      string `json:"sets,omitempty" jsonschema:"Number of sets, free text"`
	Reps      string `json:"reps,omitempty" jsonschema:"Reps per set, free text"`
	Weight    string `json:"weight,omitempty" jsonschema:"Weight, free text"`
	Notes     string `json:"notes,omitempty" jsonschema:"Optional notes"`
}

type removeExerciseInput struct {
	SessionID string `json:"session_id" jsonschema:"Session ID or prefix"`
	Position  int    `json:"position" jsonschema:"1-based position of the exercise to remove"`
}

type logSetInput struct {
	ExerciseID string  `json:"exercise_id" jsonschema:"Exercise ID or prefix"`
	Reps       int     `json:"reps" jsonschema:"Reps performed"`
	Weight     float64 `json:"weight" jsonschema:"Weight lifted"`
}

type setLogOutput struct {
	ID        string  `json:"id"`
	SetNumber int     `json:"set_number"`
	Reps      int     `json:"reps"`
	Weight    float64 `json:"weight"`
	Message   string  `json:"message,omitempty"`
}

type listTemplatesInput struct {
	Category string `json:"category,omitempty" jsonschema:"Category (Upper Body, Lower Body) or split (push, pull, legs)"`
}

type templateOutput struct {
	Name      string                    `json:"name"`
	Category  string                    `json:"category"`
	Exercises []models.TemplateExercise `json:"exercises"`
}

type listTemplatesOutput struct {
	Templates []templateOutput `json:"templates"`
}

// Tool handlers

func (s *Server) handleAddEntry(ctx context.Context, req *mcp.CallToolRequest, input addEntryInput) (*mcp.CallToolResult, entryOutput, error) {
	e := models.NewWorkoutEntry(input.Name, input.Sets, input.Reps, input.Weight, input.Notes)
	if err := s.repo.CreateEntry(e); err != nil {
		return nil, entryOutput{}, fmt.Errorf("failed to add entry: %w", err)
	}

	out := toEntryOutput(e)
	out.Message = fmt.Sprintf("Added %s (ID: %s)", e.Name, shortID(e.ID.String()))
	return nil, out, nil
}

func (s *Server) handleListEntries(ctx context.Context, req *mcp.CallToolRequest, input listInput) (*mcp.CallToolResult, listEntriesOutput, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	entries, err := s.repo.ListEntries(input.Limit)
	if err != nil {
		return nil, listEntriesOutput{}, fmt.Errorf("failed to list entries: %w", err)
	}

	out := listEntriesOutput{Entries: make([]entryOutput, 0, len(entries))}
	for _, e := range entries {
		out.Entries = append(out.Entries, toEntryOutput(e))
	}
	out.Count = len(out.Entries)
	return nil, out, nil
}

func (s *Server) handleToggleEntry(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, entryOutput, error) {
	e, err := s.repo.ToggleEntryCompletion(input.ID)
	if err != nil {
		return nil, entryOutput{}, fmt.Errorf("failed to toggle entry: %w", err)
	}

	out := toEntryOutput(e)
	out.Message = fmt.Sprintf("%s marked %s", e.Name, doneWord(e.IsCompleted))
	return nil, out, nil
}

func (s *Server) handleDeleteEntry(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.repo.DeleteEntry(input.ID); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete entry: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Deleted entry: %s", input.ID)}, nil
}

func (s *Server) handleCreateSession(ctx context.Context, req *mcp.CallToolRequest, input createSessionInput) (*mcp.CallToolResult, sessionOutput, error) {
	var session *models.WorkoutSession
	if input.Template != "" {
		tmpl, ok := catalog.Get(input.Template)
		if !ok {
			return nil, sessionOutput{}, fmt.Errorf("unknown template: %s", input.Template)
		}
		session = models.NewSessionFromTemplate(tmpl)
		if strings.TrimSpace(input.Name) != "" {
			session.Name = strings.TrimSpace(input.Name)
		}
	} else {
		session = models.NewWorkoutSession(input.Name)
	}

	if err := s.repo.CreateSession(session); err != nil {
		return nil, sessionOutput{}, fmt.Errorf("failed to create session: %w", err)
	}

	out := s.toSessionOutput(session)
	out.Message = fmt.Sprintf("Started %s with %d exercises (ID: %s)",
		session.Name, len(session.Exercises), shortID(session.ID.String()))
	return nil, out, nil
}

func (s *Server) handleListSessions(ctx context.Context, req *mcp.CallToolRequest, input listInput) (*mcp.CallToolResult, listSessionsOutput, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	sessions, err := s.repo.ListSessions(input.Limit)
	if err != nil {
		return nil, listSessionsOutput{}, fmt.Errorf("failed to list sessions: %w", err)
	}

	out := listSessionsOutput{Sessions: make([]sessionOutput, 0, len(sessions))}
	for _, session := range sessions {
		so := toSessionSummary(session)
		out.Sessions = append(out.Sessions, so)
	}
	out.Count = len(out.Sessions)
	return nil, out, nil
}

func (s *Server) handleGetSession(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, sessionOutput, error) {
	session, err := s.repo.GetSession(input.ID)
	if err != nil {
		return nil, sessionOutput{}, fmt.Errorf("session not found: %w", err)
	}
	return nil, s.toSessionOutput(session), nil
}

func (s *Server) handleAddExercise(ctx context.Context, req *mcp.CallToolRequest, input addExerciseInput) (*mcp.CallToolResult, exerciseOutput, error) {
	ex := models.NewWorkoutExercise(input.Name, input.Sets, input.Reps, input.Weight, input.Notes)
	if err := s.repo.AddExercise(input.SessionID, ex); err != nil {
		return nil, exerciseOutput{}, fmt.Errorf("failed to add exercise: %w", err)
	}
	return nil, toExerciseOutput(*ex, nil), nil
}

func (s *Server) handleRemoveExercise(ctx context.Context, req *mcp.CallToolRequest, input removeExerciseInput) (*mcp.CallToolResult, simpleOutput, error) {
	removed, err := s.repo.RemoveExercise(input.SessionID, input.Position-1)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to remove exercise: %w", models.OneBasedIndex(err))
	}
	return nil, simpleOutput{
		Message: fmt.Sprintf("Removed %s from position %d", removed.Name, input.Position),
	}, nil
}

func (s *Server) handleToggleSession(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, sessionOutput, error) {
	session, err := s.repo.ToggleSessionCompletion(input.ID)
	if err != nil {
		return nil, sessionOutput{}, fmt.Errorf("failed to toggle session: %w", err)
	}

	out := s.toSessionOutput(session)
	out.Message = fmt.Sprintf("%s marked %s", session.Name, doneWord(session.IsCompleted))
	return nil, out, nil
}

func (s *Server) handleToggleExercise(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, exerciseOutput, error) {
	ex, err := s.repo.ToggleExerciseCompletion(input.ID)
	if err != nil {
		return nil, exerciseOutput{}, fmt.Errorf("failed to toggle exercise: %w", err)
	}
	return nil, toExerciseOutput(*ex, nil), nil
}

func (s *Server) handleLogSet(ctx context.Context, req *mcp.CallToolRequest, input logSetInput) (*mcp.CallToolResult, setLogOutput, error) {
	ex, err := s.repo.GetExercise(input.ExerciseID)
	if err != nil {
		return nil, setLogOutput{}, fmt.Errorf("exercise not found: %w", err)
	}

	sl := models.NewSetLog(ex.ID, input.Reps, input.Weight)
	if err := s.repo.LogSet(sl); err != nil {
		return nil, setLogOutput{}, fmt.Errorf("failed to log set: %w", err)
	}

	out := toSetLogOutput(sl)
	out.Message = fmt.Sprintf("%s set %d: %d x %g", ex.Name, sl.SetNumber, sl.Reps, sl.Weight)
	return nil, out, nil
}

func (s *Server) handleDeleteSession(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.repo.DeleteSession(input.ID); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete session: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Deleted session: %s", input.ID)}, nil
}

func (s *Server) handleListTemplates(ctx context.Context, req *mcp.CallToolRequest, input listTemplatesInput) (*mcp.CallToolResult, listTemplatesOutput, error) {
	out := listTemplatesOutput{Templates: []templateOutput{}}

	add := func(t models.Template) {
		out.Templates = append(out.Templates, templateOutput{Name: t.Name, Category: t.Category, Exercises: t.Exercises})
	}

	if input.Category == "" {
		for _, t := range catalog.List() {
			add(t)
		}
		return nil, out, nil
	}
	for t := range catalog.FindByCategory(input.Category) {
		add(t)
	}
	return nil, out, nil
}

// Conversions

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func doneWord(done bool) string {
	if done {
		return "done"
	}
	return "not done"
}

func toEntryOutput(e *models.WorkoutEntry) entryOutput {
	out := entryOutput{
		ID:          e.ID.String(),
		Name:        e.Name,
		Sets:        e.Sets,
		Reps:        e.Reps,
		Weight:      e.Weight,
		Notes:       e.Notes,
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
		IsCompleted: e.IsCompleted,
	}
	if e.CompletedAt != nil {
		out.CompletedAt = e.CompletedAt.Format(time.RFC3339)
	}
	return out
}

func toExerciseOutput(ex models.WorkoutExercise, logs []*models.SetLog) exerciseOutput {
	out := exerciseOutput{
		ID:          ex.ID.String(),
		SessionID:   ex.SessionID.String(),
		Position:    ex.Position + 1,
		Name:        ex.Name,
		Sets:        ex.Sets,
		Reps:        ex.Reps,
		Weight:      ex.Weight,
		Notes:       ex.Notes,
		IsCompleted: ex.IsCompleted,
		SetLogs:     make([]setLogOutput, 0, len(logs)),
	}
	for _, sl := range logs {
		out.SetLogs = append(out.SetLogs, toSetLogOutput(sl))
	}
	return out
}

func toSetLogOutput(sl *models.SetLog) setLogOutput {
	return setLogOutput{
		ID:        sl.ID.String(),
		SetNumber: sl.SetNumber,
		Reps:      sl.Reps,
		Weight:    sl.Weight,
	}
}

// toSessionSummary converts a session without loading set logs.
func toSessionSummary(session *models.WorkoutSession) sessionOutput {
	p := models.Progress(session)
	out := sessionOutput{
		ID:          session.ID.String(),
		Name:        session.Name,
		DateCreated: session.DateCreated.Format(time.RFC3339),
		IsCompleted: session.IsCompleted,
		Completed:   p.Completed,
		Total:       p.Total,
		Percent:     p.Percent(),
		Exercises:   make([]exerciseOutput, 0, len(session.Exercises)),
	}
	for _, ex := range session.Exercises {
		out.Exercises = append(out.Exercises, toExerciseOutput(ex, nil))
	}
	return out
}

// toSessionOutput converts a session and loads each exercise's set logs.
// A set log lookup failure is logged and leaves that exercise's logs empty.
func (s *Server) toSessionOutput(session *models.WorkoutSession) sessionOutput {
	out := toSessionSummary(session)
	for i, ex := range session.Exercises {
		logs, err := s.repo.ListSetLogs(ex.ID)
		if err != nil {
			s.log.Warn("list set logs failed", "exercise", ex.ID, "error", err)
			continue
		}
		out.Exercises[i] = toExerciseOutput(ex, logs)
	}
	return out
}
