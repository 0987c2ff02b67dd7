// ABOUTME: HTTP handlers for entries, sessions, exercises, set logs, and templates.
// ABOUTME: Domain errors map to 400, 404, 409, and 422; anything else is a 500.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/harperreed/lift/internal/catalog"
	"github.com/harperreed/lift/internal/models"
)

type entryRequest struct {
	Name   string `json:"name"`
	Sets   string `json:"sets"`
	Reps   string `json:"reps"`
	Weight string `json:"weight"`
	Notes  string `json:"notes"`
}

type sessionRequest struct {
	Name     string `json:"name"`
	Template string `json:"template"`
}

type setLogRequest struct {
	Reps   int     `json:"reps"`
	Weight float64 `json:"weight"`
}

// sessionResponse is a session with its derived progress inlined.
type sessionResponse struct {
	*models.WorkoutSession
	Progress models.SessionProgress `json:"progress"`
}

func newSessionResponse(s *models.WorkoutSession) sessionResponse {
	return sessionResponse{WorkoutSession: s, Progress: models.Progress(s)}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Entries

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	entries, err := s.repo.ListEntries(limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if entries == nil {
		entries = []*models.WorkoutEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	e := models.NewWorkoutEntry(req.Name, req.Sets, req.Reps, req.Weight, req.Notes)
	if err := s.repo.CreateEntry(e); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	e, err := s.repo.GetEntry(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.DeleteEntry(chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggleEntry(w http.ResponseWriter, r *http.Request) {
	e, err := s.repo.ToggleEntryCompletion(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// Sessions

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	sessions, err := s.repo.ListSessions(limit)
	if err != nil {
		s.writeError(w, err)
		return
	}

	out := make([]sessionResponse, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, newSessionResponse(session))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	session := models.NewWorkoutSession(req.Name)
	if req.Template != "" {
		tmpl, ok := catalog.Get(req.Template)
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown template: " + req.Template})
			return
		}
		session = models.NewSessionFromTemplate(tmpl)
		if name := strings.TrimSpace(req.Name); name != "" {
			session.Name = name
		}
	}

	if err := s.repo.CreateSession(session); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newSessionResponse(session))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.repo.GetSession(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSessionResponse(session))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.DeleteSession(chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggleSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.repo.ToggleSessionCompletion(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSessionResponse(session))
}

func (s *Server) handleSessionProgress(w http.ResponseWriter, r *http.Request) {
	session, err := s.repo.GetSession(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.Progress(session))
}

func (s *Server) handleAddExercise(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ex := models.NewWorkoutExercise(req.Name, req.Sets, req.Reps, req.Weight, req.Notes)
	if err := s.repo.AddExercise(chi.URLParam(r, "id"), ex); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ex)
}

// handleRemoveExercise takes a 0-based position, matching the position field in responses.
func (s *Server) handleRemoveExercise(w http.ResponseWriter, r *http.Request) {
	position, err := strconv.Atoi(chi.URLParam(r, "position"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "position must be an integer"})
		return
	}

	removed, err := s.repo.RemoveExercise(chi.URLParam(r, "id"), position)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, removed)
}

// Exercises

func (s *Server) handleGetExercise(w http.ResponseWriter, r *http.Request) {
	ex, err := s.repo.GetExercise(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ex)
}

func (s *Server) handleToggleExercise(w http.ResponseWriter, r *http.Request) {
	ex, err := s.repo.ToggleExerciseCompletion(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ex)
}

func (s *Server) handleListSets(w http.ResponseWriter, r *http.Request) {
	ex, err := s.repo.GetExercise(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	logs, err := s.repo.ListSetLogs(ex.ID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if logs == nil {
		logs = []*models.SetLog{}
	}
	writeJSON(w, http.StatusOK, logs)
}

func (s *Server) handleLogSet(w http.ResponseWriter, r *http.Request) {
	var req setLogRequest
	if !decodeBody(w, r, &req) {
		return
	}

	exerciseID, err := s.resolveExerciseID(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	sl := models.NewSetLog(exerciseID, req.Reps, req.Weight)
	if err := s.repo.LogSet(sl); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sl)
}

func (s *Server) resolveExerciseID(idOrPrefix string) (uuid.UUID, error) {
	ex, err := s.repo.GetExercise(idOrPrefix)
	if err != nil {
		return uuid.Nil, err
	}
	return ex.ID, nil
}

// Templates

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		writeJSON(w, http.StatusOK, catalog.List())
		return
	}

	templates := []models.Template{}
	for t := range catalog.FindByCategory(category) {
		templates = append(templates, t)
	}
	writeJSON(w, http.StatusOK, templates)
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	t, ok := catalog.Get(chi.URLParam(r, "name"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "template not found"})
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// Helpers

// writeError maps domain errors to HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrAmbiguous):
		status = http.StatusConflict
	case errors.Is(err, models.ErrIndex):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return false
	}
	return true
}

func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, errors.New("limit must be a non-negative integer")
	}
	return limit, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
