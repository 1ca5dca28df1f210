// ABOUTME: HTTP API server exposing the coach service as JSON over gorilla/mux.
// ABOUTME: Serves Prometheus metrics and a health check next to the API routes.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"github.com/harperreed/trainer/internal/coach"
	"github.com/harperreed/trainer/internal/logging"
	"github.com/harperreed/trainer/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// UserHeader selects the acting user; the "user" query parameter overrides it.
const UserHeader = "X-Trainer-User"

const shutdownTimeout = 10 * time.Second

type Options struct {
	Addr string
	// DefaultUser acts when a request names no user.
	DefaultUser string
	Logger      *log.Logger
	Metrics     *metrics.Manager
	// Gatherer backs /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
}

type Server struct {
	svc         *coach.Service
	addr        string
	defaultUser string
	logger      *log.Logger
	metrics     *metrics.Manager
	gatherer    prometheus.Gatherer
}

func NewServer(svc *coach.Service, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	m := opts.Metrics
	if m == nil {
		m = metrics.NewTestManager()
	}
	return &Server{
		svc:         svc,
		addr:        opts.Addr,
		defaultUser: opts.DefaultUser,
		logger:      logger,
		metrics:     m,
		gatherer:    opts.Gatherer,
	}
}

// Router builds the API routes with middleware applied.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/workouts/generate", s.handleGenerate).Methods(http.MethodPost).Name("generate-workout")
	api.HandleFunc("/workouts", s.handleListWorkouts).Methods(http.MethodGet).Name("list-workouts")
	api.HandleFunc("/workouts/{id}", s.handleGetWorkout).Methods(http.MethodGet).Name("get-workout")
	api.HandleFunc("/workouts/{id}", s.handleDeleteWorkout).Methods(http.MethodDelete).Name("delete-workout")
	api.HandleFunc("/records", s.handleRecordPerformance).Methods(http.MethodPost).Name("record-performance")
	api.HandleFunc("/records", s.handleListRecords).Methods(http.MethodGet).Name("list-records")
	api.HandleFunc("/sets", s.handleLogSet).Methods(http.MethodPost).Name("log-set")
	api.HandleFunc("/one-rep-max", s.handleOneRepMax).Methods(http.MethodGet).Name("one-rep-max")
	api.HandleFunc("/progress", s.handleProgress).Methods(http.MethodGet).Name("progress")
	api.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet).Name("stats")
	api.HandleFunc("/exercises", s.handleListExercises).Methods(http.MethodGet).Name("list-exercises")
	api.HandleFunc("/profile", s.handleGetProfile).Methods(http.MethodGet).Name("get-profile")
	api.HandleFunc("/profile", s.handlePutProfile).Methods(http.MethodPut).Name("put-profile")

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet).Name("healthz")

	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeErrorMessage(w, http.StatusNotFound, "no such route")
	})

	r.Use(PanicRecovery(s.logger, s.metrics))
	r.Use(LogRequest(s.logger))
	r.Use(RequestMetrics(s.metrics))

	return r
}

// Serve listens on the configured address until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener is Serve on an existing listener.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Minute,
		WriteTimeout:      time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", ln.Addr().String())
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
