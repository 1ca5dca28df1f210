// ABOUTME: Exercise catalog and fitness profile operations for Charm KV storage.
// ABOUTME: Exercises carry a position field since KV keys have no insertion order.
package charm

import (
	"context"
	"fmt"
	"sort"

	"github.com/harperreed/trainer/internal/models"
)

// storedExercise is the KV value for an exercise.
type storedExercise struct {
	models.Exercise
	Position int `json:"position"`
}

// SaveExercise appends a new exercise to the catalog or rewrites an existing one in place.
func (c *Client) SaveExercise(_ context.Context, e *models.Exercise) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	all, err := c.listExercisesLocked()
	if err != nil {
		return fmt.Errorf("save exercise: %w", err)
	}

	position := 0
	for _, s := range all {
		if s.ID == e.ID {
			position = s.Position
			break
		}
	}
	if position == 0 {
		for _, s := range all {
			position = max(position, s.Position)
		}
		position++
	}

	data, err := marshalJSON(storedExercise{Exercise: *e, Position: position})
	if err != nil {
		return fmt.Errorf("marshal exercise: %w", err)
	}
	if err := c.setLocked(ExercisePrefix+e.ID, data); err != nil {
		return fmt.Errorf("save exercise: %w", err)
	}
	c.syncIfEnabled()
	return nil
}

// GetExercise retrieves an exercise by its ID.
func (c *Client) GetExercise(_ context.Context, id string) (*models.Exercise, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := c.getLocked(ExercisePrefix+id, id)
	if err != nil {
		return nil, fmt.Errorf("get exercise: %w", err)
	}
	s, err := unmarshalJSON[storedExercise](data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal exercise: %w", err)
	}
	return &s.Exercise, nil
}

// ListExercises returns the whole catalog in insertion order.
func (c *Client) ListExercises(_ context.Context) ([]*models.Exercise, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	all, err := c.listExercisesLocked()
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}

	exercises := make([]*models.Exercise, 0, len(all))
	for _, s := range all {
		exercises = append(exercises, &s.Exercise)
	}
	return exercises, nil
}

// listExercisesLocked returns stored exercises sorted by position.
func (c *Client) listExercisesLocked() ([]*storedExercise, error) {
	values, err := c.listLocked(ExercisePrefix)
	if err != nil {
		return nil, err
	}

	all := make([]*storedExercise, 0, len(values))
	for _, data := range values {
		s, err := unmarshalJSON[storedExercise](data)
		if err != nil {
			continue
		}
		all = append(all, s)
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].Position != all[j].Position {
			return all[i].Position < all[j].Position
		}
		return all[i].ID < all[j].ID
	})
	return all, nil
}

// SaveProfile creates or replaces the profile for p.UserID.
func (c *Client) SaveProfile(_ context.Context, p *models.FitnessProfile) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := marshalJSON(p)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	if err := c.setLocked(ProfilePrefix+p.UserID, data); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	c.syncIfEnabled()
	return nil
}

// GetProfile retrieves the profile for userID.
func (c *Client) GetProfile(_ context.Context, userID string) (*models.FitnessProfile, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := c.getLocked(ProfilePrefix+userID, "profile "+userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	p, err := unmarshalJSON[models.FitnessProfile](data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}
	return p, nil
}

// ListProfiles returns every stored profile ordered by user ID.
func (c *Client) ListProfiles(_ context.Context) ([]*models.FitnessProfile, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	values, err := c.listLocked(ProfilePrefix)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	var profiles []*models.FitnessProfile
	for _, data := range values {
		p, err := unmarshalJSON[models.FitnessProfile](data)
		if err != nil {
			continue
		}
		profiles = append(profiles, p)
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].UserID < profiles[j].UserID })
	return profiles, nil
}
