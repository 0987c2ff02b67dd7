// ABOUTME: MCP resource implementations for the lift workout store.
// ABOUTME: Provides lift://sessions/recent, lift://entries/recent, and lift://templates.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/lift/internal/catalog"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	recentSessionsURI = "lift://sessions/recent"
	recentEntriesURI  = "lift://entries/recent"
	templatesURI      = "lift://templates"
)

func (s *Server) registerResources() {
	// lift://sessions/recent - Last 10 sessions with progress
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         recentSessionsURI,
		Name:        "Recent Sessions",
		Description: "Last 10 workout sessions with exercises and completion progress",
		MIMEType:    "application/json",
	}, s.handleRecentSessionsResource)

	// lift://entries/recent - Last 20 standalone entries
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         recentEntriesURI,
		Name:        "Recent Entries",
		Description: "Last 20 standalone exercise entries",
		MIMEType:    "application/json",
	}, s.handleRecentEntriesResource)

	// lift://templates - The template catalog
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         templatesURI,
		Name:        "Workout Templates",
		Description: "Predefined push/pull/legs templates with warm-ups and main exercises",
		MIMEType:    "application/json",
	}, s.handleTemplatesResource)
}

// Resource handlers

func (s *Server) handleRecentSessionsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	sessions, err := s.repo.ListSessions(10)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	summaries := make([]sessionOutput, 0, len(sessions))
	for _, session := range sessions {
		summaries = append(summaries, toSessionSummary(session))
	}

	return jsonResource(recentSessionsURI, map[string]any{
		"generated_at": time.Now().Format(time.RFC3339),
		"sessions":     summaries,
		"count":        len(summaries),
	})
}

func (s *Server) handleRecentEntriesResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	entries, err := s.repo.ListEntries(20)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	out := make([]entryOutput, 0, len(entries))
	done := 0
	for _, e := range entries {
		out = append(out, toEntryOutput(e))
		if e.IsCompleted {
			done++
		}
	}

	return jsonResource(recentEntriesURI, map[string]any{
		"entries":   out,
		"count":     len(out),
		"completed": done,
	})
}

func (s *Server) handleTemplatesResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	type templateSummary struct {
		Name      string   `json:"name"`
		Category  string   `json:"category"`
		Warmups   []string `json:"warmups"`
		Exercises []string `json:"exercises"`
	}

	var templates []templateSummary
	for _, t := range catalog.List() {
		ts := templateSummary{Name: t.Name, Category: t.Category}
		for _, w := range t.Warmups() {
			ts.Warmups = append(ts.Warmups, w.Name)
		}
		for _, e := range t.MainExercises() {
			ts.Exercises = append(ts.Exercises, fmt.Sprintf("%s %sx%s", e.Name, e.Sets, e.Reps))
		}
		templates = append(templates, ts)
	}

	return jsonResource(templatesURI, map[string]any{
		"categories": catalog.Categories(),
		"templates":  templates,
	})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
