// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs a stdio MCP server exposing plan, record, and progress tools.
package main

import (
	"os/signal"
	"syscall"

	"github.com/harperreed/trainer/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server communicates via stdin/stdout and acts for the configured user.

CLAUDE DESKTOP CONFIGURATION:

  {
    "mcpServers": {
      "trainer": {
        "command": "trainer",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  generate_plan         Generate a workout plan, optionally saving it
  list_workouts         List saved workouts
  get_workout           Get a workout by id or prefix
  delete_workout        Delete a workout and its records
  record_performance    Check one performance against the record
  log_set               Log a set (weight, reps, and 1RM records)
  list_records          List personal records
  estimate_one_rep_max  Brzycki one-rep max estimate
  progress_summary      Week, month, or year summary
  get_streak            Consecutive training days
  list_exercises        Exercise catalog
  get_profile           Fitness profile
  set_profile           Update the fitness profile

AVAILABLE RESOURCES:

  trainer://records         Recent personal records
  trainer://stats           Streak and totals
  trainer://progress/week   This week's progress`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(svc, mcp.Options{UserID: userID, Logger: logger})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
