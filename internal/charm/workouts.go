// ABOUTME: Workout CRUD operations for Charm KV storage.
// ABOUTME: Handles cascade deletes manually since KV has no foreign keys.
package charm

import (
	"context"
	"fmt"
	"sort"

	"github.com/harperreed/trainer/internal/models"
	"github.com/harperreed/trainer/internal/storage"
)

// CreateWorkout stores a new workout, with its prescribed exercises, in the KV store.
func (c *Client) CreateWorkout(_ context.Context, w *models.Workout) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := marshalJSON(w)
	if err != nil {
		return fmt.Errorf("marshal workout: %w", err)
	}
	if err := c.setLocked(WorkoutPrefix+w.ID.String(), data); err != nil {
		return fmt.Errorf("create workout: %w", err)
	}
	c.syncIfEnabled()
	return nil
}

// GetWorkout retrieves a workout by ID or ID prefix.
func (c *Client) GetWorkout(_ context.Context, idOrPrefix string) (*models.Workout, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, data, err := c.resolveLocked(WorkoutPrefix, idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("get workout: %w", err)
	}

	workout, err := unmarshalJSON[models.Workout](data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal workout: %w", err)
	}

	return workout, nil
}

// ListWorkouts retrieves workouts matching filter.
// Results are sorted by CreatedAt descending (most recent first).
func (c *Client) ListWorkouts(_ context.Context, filter storage.WorkoutFilter) ([]*models.Workout, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	allData, err := c.listLocked(WorkoutPrefix)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}

	var workouts []*models.Workout
	for _, data := range allData {
		w, err := unmarshalJSON[models.Workout](data)
		if err != nil {
			continue
		}
		if filter.Matches(w) {
			workouts = append(workouts, w)
		}
	}

	sort.Slice(workouts, func(i, j int) bool {
		return workouts[i].CreatedAt.After(workouts[j].CreatedAt)
	})

	if filter.Limit > 0 && len(workouts) > filter.Limit {
		workouts = workouts[:filter.Limit]
	}

	return workouts, nil
}

// DeleteWorkout removes a workout and any records set in it (cascade delete).
func (c *Client) DeleteWorkout(_ context.Context, idOrPrefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	key, data, err := c.resolveLocked(WorkoutPrefix, idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete workout: %w", err)
	}
	w, err := unmarshalJSON[models.Workout](data)
	if err != nil {
		return fmt.Errorf("unmarshal workout: %w", err)
	}

	// Delete linked records first so a failure leaves the workout findable.
	records, err := c.listLocked(RecordPrefix)
	if err != nil {
		return fmt.Errorf("list records: %w", err)
	}
	for recordKey, recordData := range records {
		r, err := unmarshalJSON[models.PersonalRecord](recordData)
		if err != nil {
			continue
		}
		if r.WorkoutID != nil && *r.WorkoutID == w.ID {
			if err := c.deleteLocked(recordKey); err != nil {
				return fmt.Errorf("delete record %s: %w", extractID(recordKey, RecordPrefix), err)
			}
		}
	}

	if err := c.deleteLocked(key); err != nil {
		return fmt.Errorf("delete workout: %w", err)
	}
	c.syncIfEnabled()
	return nil
}
