// ABOUTME: Personal record operations for Charm KV storage.
// ABOUTME: The record compare-and-swap runs under the client's write lock.
package charm

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/harperreed/trainer/internal/models"
	"github.com/harperreed/trainer/internal/storage"
)

func recordKey(key models.RecordKey) string {
	return RecordPrefix + key.String()
}

// GetPersonalRecord retrieves the current record for key.
func (c *Client) GetPersonalRecord(_ context.Context, key models.RecordKey) (*models.PersonalRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.getRecordLocked(key)
}

func (c *Client) getRecordLocked(key models.RecordKey) (*models.PersonalRecord, error) {
	data, err := c.getLocked(recordKey(key), "record "+key.String())
	if err != nil {
		return nil, err
	}
	r, err := unmarshalJSON[models.PersonalRecord](data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal record: %w", err)
	}
	return r, nil
}

// ListPersonalRecords retrieves records matching filter, most recent first.
func (c *Client) ListPersonalRecords(_ context.Context, filter storage.RecordFilter) ([]*models.PersonalRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	values, err := c.listLocked(RecordPrefix)
	if err != nil {
		return nil, fmt.Errorf("list personal records: %w", err)
	}

	var out []*models.PersonalRecord
	for _, data := range values {
		r, err := unmarshalJSON[models.PersonalRecord](data)
		if err != nil {
			continue
		}
		if filter.Matches(r) {
			out = append(out, r)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.AchievedAt.Equal(b.AchievedAt) {
			return a.AchievedAt.After(b.AchievedAt)
		}
		if a.ExerciseID != b.ExerciseID {
			return a.ExerciseID < b.ExerciseID
		}
		return a.MetricType < b.MetricType
	})

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// SwapRecordIfGreater writes candidate when its key has no record or candidate
// strictly beats the stored value. An existing record keeps its ID.
func (c *Client) SwapRecordIfGreater(_ context.Context, candidate *models.PersonalRecord) (*models.RecordSwap, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev, err := c.getRecordLocked(candidate.RecordKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		prev = nil
	case err != nil:
		return nil, fmt.Errorf("read record %s: %w", candidate.RecordKey, err)
	}

	if prev != nil && candidate.Value <= prev.Value {
		return &models.RecordSwap{Previous: prev, Current: prev}, nil
	}

	next := *candidate
	if prev != nil {
		next.ID = prev.ID
	}
	data, err := marshalJSON(&next)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	if err := c.setLocked(recordKey(next.RecordKey), data); err != nil {
		return nil, fmt.Errorf("write record %s: %w", next.RecordKey, err)
	}
	c.syncIfEnabled()

	return &models.RecordSwap{Previous: prev, Current: &next, Swapped: true}, nil
}
