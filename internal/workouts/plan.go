package workouts

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidPlan is wrapped by every validation failure
var ErrInvalidPlan = errors.New("invalid workout plan")

// SetupLimits bounds what a rider can configure before starting a workout
type SetupLimits struct {
	CadenceMin  int
	CadenceMax  int
	CadenceStep int

	WorkMin   time.Duration
	WorkMax   time.Duration
	RestMin   time.Duration
	RestMax   time.Duration
	RoundsMin int
	RoundsMax int

	RideMin time.Duration
	RideMax time.Duration
}

// DefaultSetupLimits mirrors the setup screens' steppers
var DefaultSetupLimits = SetupLimits{
	CadenceMin:  60,
	CadenceMax:  140,
	CadenceStep: 5,
	WorkMin:     1 * time.Minute,
	WorkMax:     20 * time.Minute,
	RestMin:     1 * time.Minute,
	RestMax:     10 * time.Minute,
	RoundsMin:   1,
	RoundsMax:   20,
	RideMin:     1 * time.Minute,
	RideMax:     180 * time.Minute,
}

// StepCadence moves current by delta, stopping at the limits
func StepCadence(current, delta int, limits SetupLimits) int {
	next := current + delta
	if next < limits.CadenceMin {
		return limits.CadenceMin
	}
	if next > limits.CadenceMax {
		return limits.CadenceMax
	}
	return next
}

// IntervalPlan describes a work/rest interval workout
type IntervalPlan struct {
	Name         string        `yaml:"name"`
	Description  string        `yaml:"description,omitempty"`
	Difficulty   string        `yaml:"difficulty,omitempty"`
	WorkCadence  int           `yaml:"work_cadence"`
	WorkDuration time.Duration `yaml:"work"`
	RestCadence  int           `yaml:"rest_cadence"`
	RestDuration time.Duration `yaml:"rest"`
	Rounds       int           `yaml:"rounds"`
}

// TotalDuration is the length of the whole workout
func (p IntervalPlan) TotalDuration() time.Duration {
	return time.Duration(p.Rounds) * (p.WorkDuration + p.RestDuration)
}

// TotalLabel formats TotalDuration for the setup screen,
// e.g. "Total: 1h 5m" or "Total: 45 minutes"
func (p IntervalPlan) TotalLabel() string {
	totalMinutes := int(p.TotalDuration() / time.Minute)
	hours := totalMinutes / 60
	minutes := totalMinutes % 60
	if hours > 0 {
		return fmt.Sprintf("Total: %dh %dm", hours, minutes)
	}
	return fmt.Sprintf("Total: %d minutes", minutes)
}

// Validate checks the plan against limits
func (p IntervalPlan) Validate(limits SetupLimits) error {
	if err := checkCadence("work cadence", p.WorkCadence, limits); err != nil {
		return err
	}
	if err := checkCadence("rest cadence", p.RestCadence, limits); err != nil {
		return err
	}
	if err := checkDuration("work duration", p.WorkDuration, limits.WorkMin, limits.WorkMax); err != nil {
		return err
	}
	if err := checkDuration("rest duration", p.RestDuration, limits.RestMin, limits.RestMax); err != nil {
		return err
	}
	if p.Rounds < limits.RoundsMin || p.Rounds > limits.RoundsMax {
		return fmt.Errorf("%w: rounds %d outside %d-%d", ErrInvalidPlan, p.Rounds, limits.RoundsMin, limits.RoundsMax)
	}
	return nil
}

// TimedPlan describes a single countdown ride
type TimedPlan struct {
	Cadence  int
	Duration time.Duration
}

// Validate checks the plan against limits
func (p TimedPlan) Validate(limits SetupLimits) error {
	if err := checkCadence("cadence", p.Cadence, limits); err != nil {
		return err
	}
	return checkDuration("ride duration", p.Duration, limits.RideMin, limits.RideMax)
}

func checkCadence(name string, cadence int, limits SetupLimits) error {
	if cadence < limits.CadenceMin || cadence > limits.CadenceMax {
		return fmt.Errorf("%w: %s %d rpm outside %d-%d", ErrInvalidPlan, name, cadence, limits.CadenceMin, limits.CadenceMax)
	}
	return nil
}

func checkDuration(name string, d, lo, hi time.Duration) error {
	if d < lo || d > hi {
		return fmt.Errorf("%w: %s %v outside %v-%v", ErrInvalidPlan, name, d, lo, hi)
	}
	return nil
}
