// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs a stdio-based MCP server for AI assistant integration.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/harperreed/lift/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server communicates via stdin/stdout. Add it to your assistant config:

  {
    "mcpServers": {
      "lift": { "command": "lift", "args": ["mcp"] }
    }
  }

AVAILABLE TOOLS:

  add_entry, list_entries, toggle_entry, delete_entry
  create_session, list_sessions, get_session, toggle_session, delete_session
  add_exercise, remove_exercise, toggle_exercise, log_set
  list_templates

Exercise positions are 1-based, as shown by get_session.

AVAILABLE RESOURCES:

  lift://sessions/recent    Recent sessions with progress
  lift://entries/recent     Recent entries
  lift://templates          Built-in templates`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(repo)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
