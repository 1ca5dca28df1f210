// ABOUTME: Route handlers translating HTTP requests into coach service calls.
// ABOUTME: The acting user comes from the user query parameter, the user header, or the server default.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/harperreed/trainer/internal/models"
	"github.com/harperreed/trainer/internal/progress"
	"github.com/harperreed/trainer/internal/records"
	"github.com/harperreed/trainer/internal/storage"
)

const maxBodyBytes = 1 << 20

type generateRequest struct {
	Profile *models.FitnessProfile `json:"profile,omitempty"`
	Persist bool                   `json:"persist"`
}

type performanceRequest struct {
	ExerciseID string            `json:"exercise_id"`
	MetricType models.MetricType `json:"metric_type"`
	Value      float64           `json:"value"`
	Unit       string            `json:"unit,omitempty"`
	WorkoutID  string            `json:"workout_id,omitempty"`
	AchievedAt time.Time         `json:"achieved_at,omitempty"`
}

type setRequest struct {
	ExerciseID string    `json:"exercise_id"`
	Weight     float64   `json:"weight"`
	Reps       int       `json:"reps"`
	Unit       string    `json:"unit,omitempty"`
	WorkoutID  string    `json:"workout_id,omitempty"`
	AchievedAt time.Time `json:"achieved_at,omitempty"`
}

type oneRepMaxResponse struct {
	Weight    float64 `json:"weight"`
	Reps      int     `json:"reps"`
	OneRepMax float64 `json:"one_rep_max"`
}

type statsResponse struct {
	Streak        int                      `json:"streak"`
	TotalWorkouts int                      `json:"total_workouts"`
	LastWorkout   *time.Time               `json:"last_workout,omitempty"`
	RecentRecords []*models.PersonalRecord `json:"recent_records"`
}

func (s *Server) userID(r *http.Request) string {
	if u := strings.TrimSpace(r.URL.Query().Get("user")); u != "" {
		return u
	}
	if u := strings.TrimSpace(r.Header.Get(UserHeader)); u != "" {
		return u
	}
	return s.defaultUser
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: decode body: %v", errBadRequest, err)
	}
	return nil
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	user := s.userID(r)
	if req.Profile != nil && req.Profile.UserID == "" {
		req.Profile.UserID = user
	}

	out, err := s.svc.GeneratePlan(r.Context(), user, req.Profile, req.Persist)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	status := http.StatusOK
	if out.Workout != nil {
		status = http.StatusCreated
	}
	writeJSON(w, status, out)
}

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := storage.WorkoutFilter{Category: q.Get("category")}

	var err error
	if filter.Since, err = s.parseDate(q.Get("since")); err != nil {
		s.writeError(w, r, err)
		return
	}
	if filter.Until, err = s.parseDate(q.Get("until")); err != nil {
		s.writeError(w, r, err)
		return
	}
	if filter.Limit, err = parseLimit(q.Get("limit")); err != nil {
		s.writeError(w, r, err)
		return
	}

	workouts, err := s.svc.Workouts(r.Context(), s.userID(r), filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, workouts)
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	workout, err := s.svc.Workout(r.Context(), s.userID(r), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, workout)
}

func (s *Server) handleDeleteWorkout(w http.ResponseWriter, r *http.Request) {
	if _, err := s.svc.DeleteWorkout(r.Context(), s.userID(r), mux.Vars(r)["id"]); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRecordPerformance(w http.ResponseWriter, r *http.Request) {
	var req performanceRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	user := s.userID(r)
	workoutID, err := s.svc.ResolveWorkoutID(r.Context(), user, req.WorkoutID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.svc.RecordPerformance(r.Context(), models.PerformanceEntry{
		UserID:     user,
		ExerciseID: req.ExerciseID,
		MetricType: req.MetricType,
		Value:      req.Value,
		Unit:       req.Unit,
		WorkoutID:  workoutID,
		AchievedAt: req.AchievedAt,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	recs, err := s.svc.Records(r.Context(), s.userID(r), r.URL.Query().Get("exercise"), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleLogSet(w http.ResponseWriter, r *http.Request) {
	var req setRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	user := s.userID(r)
	workoutID, err := s.svc.ResolveWorkoutID(r.Context(), user, req.WorkoutID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	results, err := s.svc.RecordSet(r.Context(), records.SetEntry{
		UserID:     user,
		ExerciseID: req.ExerciseID,
		Weight:     req.Weight,
		Reps:       req.Reps,
		Unit:       req.Unit,
		WorkoutID:  workoutID,
		AchievedAt: req.AchievedAt,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleOneRepMax(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	weight, err := strconv.ParseFloat(q.Get("weight"), 64)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: weight must be a number", errBadRequest))
		return
	}
	reps, err := strconv.Atoi(q.Get("reps"))
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: reps must be an integer", errBadRequest))
		return
	}

	estimate, err := s.svc.EstimateOneRepMax(weight, reps)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, oneRepMaxResponse{Weight: weight, Reps: reps, OneRepMax: estimate})
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	tf := progress.ParseTimeframe(r.URL.Query().Get("timeframe"))
	summary, err := s.svc.Progress(r.Context(), s.userID(r), tf)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	user := s.userID(r)
	stats, err := s.svc.Stats(r.Context(), user)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	recent, err := s.svc.RecentRecords(r.Context(), user, 0)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, statsResponse{
		Streak:        stats.Streak,
		TotalWorkouts: stats.TotalWorkouts,
		LastWorkout:   stats.LastWorkout,
		RecentRecords: recent,
	})
}

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	exercises, err := s.svc.Catalog(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, exercises)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Profile(r.Context(), s.userID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	var p models.FitnessProfile
	if err := decodeBody(w, r, &p); err != nil {
		s.writeError(w, r, err)
		return
	}
	p.UserID = s.userID(r)

	if err := s.svc.SaveProfile(r.Context(), &p); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, &p)
}

// parseDate reads a YYYY-MM-DD date as midnight in the service time zone.
func (s *Server) parseDate(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, v, s.svc.Location())
	if err != nil {
		return nil, fmt.Errorf("%w: date %q must be YYYY-MM-DD", errBadRequest, v)
	}
	return &t, nil
}

func parseLimit(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: limit must be a non-negative integer", errBadRequest)
	}
	return n, nil
}
