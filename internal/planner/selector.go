// ABOUTME: Exercise selection by target muscle group and available equipment.
// ABOUTME: First match wins in catalog order; no scoring or randomization.
package planner

import "github.com/harperreed/trainer/internal/models"

// SelectExercises returns up to count catalog entries that target muscle and
// need at least one of the available equipment tags. An empty result is not an error.
func SelectExercises(catalog []*models.Exercise, muscle string, equipment []string, count int) []*models.Exercise {
	if count <= 0 {
		return nil
	}

	available := models.EquipmentSet(equipment)
	var selected []*models.Exercise
	for _, e := range catalog {
		if !e.TargetsMuscle(muscle) || !e.UsesAnyEquipment(available) {
			continue
		}
		selected = append(selected, e)
		if len(selected) == count {
			break
		}
	}
	return selected
}

// EligibleExercises returns every catalog entry usable with the available equipment.
func EligibleExercises(catalog []*models.Exercise, equipment []string) []*models.Exercise {
	available := models.EquipmentSet(equipment)
	var eligible []*models.Exercise
	for _, e := range catalog {
		if e.UsesAnyEquipment(available) {
			eligible = append(eligible, e)
		}
	}
	return eligible
}
