// ABOUTME: Coach service composing storage with the planner, record tracker, and progress engines.
// ABOUTME: CLI, MCP, and HTTP hosts all go through this type.
package coach

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/trainer/internal/logging"
	"github.com/harperreed/trainer/internal/metrics"
	"github.com/harperreed/trainer/internal/records"
	"github.com/harperreed/trainer/internal/storage"
)

// Service is safe for concurrent use when its Repository is.
type Service struct {
	repo      storage.Repository
	tracker   *records.Tracker
	loc       *time.Location
	weekStart time.Weekday
	now       func() time.Time
	logger    *log.Logger
	metrics   *metrics.Manager
}

// Option configures a Service.
type Option func(*Service)

// WithLocation sets the time zone for day buckets, windows, and streaks.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithWeekStart sets the first day of a progress week.
func WithWeekStart(day time.Weekday) Option {
	return func(s *Service) { s.weekStart = day }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLogger(logger *log.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) { s.metrics = m }
}

// New creates a Service over repo. Defaults: local time, Sunday weeks, no logging.
func New(repo storage.Repository, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		loc:       time.Local,
		weekStart: time.Sunday,
		now:       time.Now,
		logger:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tracker = records.NewTracker(repo).WithClock(s.now)
	return s
}

// Location returns the configured time zone.
func (s *Service) Location() *time.Location {
	return s.loc
}

// Repository exposes the underlying store for export and migration.
func (s *Service) Repository() storage.Repository {
	return s.repo
}
