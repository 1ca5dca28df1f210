// ABOUTME: Exercise definition model for the read-only exercise catalog.
// ABOUTME: Muscle groups and equipment are tag sets matched by the exercise selector.
package models

// Exercise is a catalog entry describing a single movement.
type Exercise struct {
	ID           string   `json:"id" yaml:"id"`
	Name         string   `json:"name" yaml:"name"`
	Description  string   `json:"description,omitempty" yaml:"description,omitempty"`
	Category     string   `json:"category" yaml:"category"`
	MuscleGroups []string `json:"muscle_groups" yaml:"muscle_groups"`
	Equipment    []string `json:"equipment" yaml:"equipment"`
	Difficulty   string   `json:"difficulty" yaml:"difficulty"`
}

// TargetsMuscle reports whether the exercise trains the given muscle group.
func (e *Exercise) TargetsMuscle(muscle string) bool {
	for _, m := range e.MuscleGroups {
		if m == muscle {
			return true
		}
	}
	return false
}

// UsesAnyEquipment reports whether any required equipment tag is available.
func (e *Exercise) UsesAnyEquipment(available map[string]struct{}) bool {
	for _, eq := range e.Equipment {
		if _, ok := available[eq]; ok {
			return true
		}
	}
	return false
}

// EquipmentSet builds a lookup set from equipment tags.
func EquipmentSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		set[t] = struct{}{}
	}
	return set
}
