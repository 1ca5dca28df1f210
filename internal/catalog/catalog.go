// ABOUTME: Built-in exercise catalog and catalog file loading.
// ABOUTME: Catalog files are YAML (or JSON) lists of exercise definitions.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/harperreed/trainer/internal/models"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type file struct {
	Exercises []*models.Exercise `yaml:"exercises"`
}

// Default returns a fresh copy of the built-in catalog.
func Default() []*models.Exercise {
	exercises, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("built-in catalog is invalid: %v", err))
	}
	return exercises
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) ([]*models.Exercise, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := Validate(f.Exercises); err != nil {
		return nil, err
	}
	return f.Exercises, nil
}

// LoadFile reads a catalog document from path.
func LoadFile(path string) ([]*models.Exercise, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Validate checks IDs are present and unique and that every exercise has a
// name and at least one muscle group and equipment tag. All problems are reported.
func Validate(exercises []*models.Exercise) error {
	var errs error
	seen := make(map[string]bool, len(exercises))

	for i, e := range exercises {
		if e == nil {
			errs = multierr.Append(errs, fmt.Errorf("exercise %d: empty entry", i+1))
			continue
		}
		e.ID = strings.TrimSpace(e.ID)
		switch {
		case e.ID == "":
			errs = multierr.Append(errs, fmt.Errorf("exercise %d: missing id", i+1))
		case seen[e.ID]:
			errs = multierr.Append(errs, fmt.Errorf("exercise %d: duplicate id %q", i+1, e.ID))
		}
		seen[e.ID] = true

		if strings.TrimSpace(e.Name) == "" {
			errs = multierr.Append(errs, fmt.Errorf("exercise %q: missing name", e.ID))
		}
		if len(e.MuscleGroups) == 0 {
			errs = multierr.Append(errs, fmt.Errorf("exercise %q: no muscle groups", e.ID))
		}
		if len(e.Equipment) == 0 {
			errs = multierr.Append(errs, fmt.Errorf("exercise %q: no equipment", e.ID))
		}
	}

	return errs
}
