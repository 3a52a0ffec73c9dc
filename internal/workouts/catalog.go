package workouts

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/agnivade/levenshtein"
	"gopkg.in/yaml.v3"
)

// ErrUnknownWorkout is returned by Find when no workout matches
var ErrUnknownWorkout = errors.New("unknown workout")

// catalogFile is the on-disk layout of a custom workouts file
type catalogFile struct {
	Workouts []IntervalPlan `yaml:"workouts"`
}

// Catalog holds the presets followed by any custom workouts
type Catalog struct {
	workouts []IntervalPlan
}

// NewCatalog creates a catalog of the presets plus custom.
// custom is assumed to be validated already.
func NewCatalog(custom []IntervalPlan) *Catalog {
	all := Presets()
	all = append(all, custom...)
	return &Catalog{workouts: all}
}

// LoadCatalog reads custom workouts from the YAML file at path.
// An empty path or a missing file yields the presets only.
func LoadCatalog(path string, limits SetupLimits) (*Catalog, error) {
	if path == "" {
		return NewCatalog(nil), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewCatalog(nil), nil
		}
		return nil, fmt.Errorf("read workouts file %s: %w", path, err)
	}

	return ParseCatalog(data, limits)
}

// ParseCatalog builds a catalog from YAML content
func ParseCatalog(data []byte, limits SetupLimits) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse workouts: %w", err)
	}

	seen := make(map[string]bool)
	for _, p := range Presets() {
		seen[strings.ToLower(p.Name)] = true
	}

	for i, plan := range file.Workouts {
		name := strings.TrimSpace(plan.Name)
		if name == "" {
			return nil, fmt.Errorf("workout #%d: %w: name is required", i+1, ErrInvalidPlan)
		}
		key := strings.ToLower(name)
		if seen[key] {
			return nil, fmt.Errorf("workout %q: %w: duplicate name", name, ErrInvalidPlan)
		}
		seen[key] = true

		if err := plan.Validate(limits); err != nil {
			return nil, fmt.Errorf("workout %q: %w", name, err)
		}
		file.Workouts[i].Name = name
	}

	return NewCatalog(file.Workouts), nil
}

// All returns every workout in display order
func (c *Catalog) All() []IntervalPlan {
	out := make([]IntervalPlan, len(c.workouts))
	copy(out, c.workouts)
	return out
}

// Find looks a workout up by name, ignoring case and surrounding space.
// A miss wraps ErrUnknownWorkout with the closest known name.
func (c *Catalog) Find(name string) (IntervalPlan, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, w := range c.workouts {
		if strings.ToLower(w.Name) == key {
			return w, nil
		}
	}

	if closest := c.closest(key); closest != "" {
		return IntervalPlan{}, fmt.Errorf("%w %q (did you mean %q?)", ErrUnknownWorkout, name, closest)
	}
	return IntervalPlan{}, fmt.Errorf("%w %q", ErrUnknownWorkout, name)
}

func (c *Catalog) closest(key string) string {
	best, bestDist := "", -1
	for _, w := range c.workouts {
		dist := levenshtein.ComputeDistance(key, strings.ToLower(w.Name))
		if bestDist < 0 || dist < bestDist {
			best, bestDist = w.Name, dist
		}
	}
	return best
}
