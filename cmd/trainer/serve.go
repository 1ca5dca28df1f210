// ABOUTME: CLI command for running the JSON HTTP API.
// ABOUTME: Serves coach operations and Prometheus metrics until interrupted.
package main

import (
	"os/signal"
	"syscall"

	"github.com/harperreed/trainer/internal/api"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the JSON HTTP API.

Requests act for the user in the X-Trainer-User header or the "user" query
parameter, falling back to the configured user. Prometheus metrics are
served at /metrics.

ENDPOINTS:

  POST   /api/workouts/generate    Generate (and optionally save) a plan
  GET    /api/workouts             List saved workouts
  GET    /api/workouts/{id}        Get a workout by id or prefix
  DELETE /api/workouts/{id}        Delete a workout and its records
  POST   /api/records              Check one performance
  GET    /api/records              List personal records
  POST   /api/sets                 Log a set
  GET    /api/one-rep-max          Estimate a one-rep max
  GET    /api/progress             Progress for week, month, or year
  GET    /api/stats                Streak, totals, and recent records
  GET    /api/exercises            Exercise catalog
  GET    /api/profile              Fitness profile
  PUT    /api/profile              Replace the fitness profile`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		addr := cfg.GetAddr()
		if serveAddr != "" {
			addr = serveAddr
		}

		server := api.NewServer(svc, api.Options{
			Addr:        addr,
			DefaultUser: userID,
			Logger:      logger,
			Metrics:     metricsManager,
			Gatherer:    promRegistry,
		})
		logger.Info("http api listening", "addr", addr, "backend", cfg.GetBackend())
		return server.Serve(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default 127.0.0.1:8080)")
	rootCmd.AddCommand(serveCmd)
}
