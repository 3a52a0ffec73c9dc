package workouts

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepCadence(t *testing.T) {
	limits := DefaultSetupLimits

	assert.Equal(t, 95, StepCadence(90, 5, limits))
	assert.Equal(t, 85, StepCadence(90, -5, limits))
	assert.Equal(t, 140, StepCadence(140, 5, limits))
	assert.Equal(t, 60, StepCadence(60, -5, limits))
	assert.Equal(t, 140, StepCadence(138, 5, limits))
}

func TestIntervalPlan_TotalLabel(t *testing.T) {
	tests := []struct {
		name string
		plan IntervalPlan
		want string
	}{
		{"under an hour", IntervalPlan{WorkDuration: 10 * time.Minute, RestDuration: 5 * time.Minute, Rounds: 3}, "Total: 45 minutes"},
		{"exactly an hour", IntervalPlan{WorkDuration: 20 * time.Minute, RestDuration: 10 * time.Minute, Rounds: 2}, "Total: 1h 0m"},
		{"over an hour", IntervalPlan{WorkDuration: 5 * time.Minute, RestDuration: 2 * time.Minute, Rounds: 10}, "Total: 1h 10m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.plan.TotalLabel())
		})
	}
}

func TestIntervalPlan_Validate(t *testing.T) {
	valid := IntervalPlan{WorkCadence: 100, WorkDuration: 5 * time.Minute, RestCadence: 70, RestDuration: 2 * time.Minute, Rounds: 5}
	require.NoError(t, valid.Validate(DefaultSetupLimits))

	tests := []struct {
		name   string
		mutate func(*IntervalPlan)
	}{
		{"work cadence too low", func(p *IntervalPlan) { p.WorkCadence = 55 }},
		{"rest cadence too high", func(p *IntervalPlan) { p.RestCadence = 145 }},
		{"work too long", func(p *IntervalPlan) { p.WorkDuration = 21 * time.Minute }},
		{"rest too short", func(p *IntervalPlan) { p.RestDuration = 30 * time.Second }},
		{"no rounds", func(p *IntervalPlan) { p.Rounds = 0 }},
		{"too many rounds", func(p *IntervalPlan) { p.Rounds = 21 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := valid
			tt.mutate(&plan)
			assert.ErrorIs(t, plan.Validate(DefaultSetupLimits), ErrInvalidPlan)
		})
	}
}

func TestTimedPlan_Validate(t *testing.T) {
	assert.NoError(t, TimedPlan{Cadence: 90, Duration: 60 * time.Minute}.Validate(DefaultSetupLimits))
	assert.ErrorIs(t, TimedPlan{Cadence: 90, Duration: 181 * time.Minute}.Validate(DefaultSetupLimits), ErrInvalidPlan)
	assert.ErrorIs(t, TimedPlan{Cadence: 90, Duration: 0}.Validate(DefaultSetupLimits), ErrInvalidPlan)
	assert.ErrorIs(t, TimedPlan{Cadence: 150, Duration: time.Hour}.Validate(DefaultSetupLimits), ErrInvalidPlan)
}

func TestPresets(t *testing.T) {
	presets := Presets()
	require.Len(t, presets, 3)

	for _, p := range presets {
		assert.NoError(t, p.Validate(DefaultSetupLimits), p.Name)
	}

	tempo := presets[0]
	assert.Equal(t, "Tempo Blocks", tempo.Name)
	assert.Equal(t, 88, tempo.WorkCadence)
	assert.Equal(t, 600*time.Second, tempo.WorkDuration)
	assert.Equal(t, 70, tempo.RestCadence)
	assert.Equal(t, 300*time.Second, tempo.RestDuration)
	assert.Equal(t, 3, tempo.Rounds)
}

func TestCatalog_Find(t *testing.T) {
	c := NewCatalog(nil)

	plan, err := c.Find("  sweet SPOT ")
	require.NoError(t, err)
	assert.Equal(t, "Sweet Spot", plan.Name)

	_, err = c.Find("steddy state")
	assert.ErrorIs(t, err, ErrUnknownWorkout)
	assert.Contains(t, err.Error(), `did you mean "Steady State"`)
}

const customYAML = `
workouts:
  - name: Over-Unders
    difficulty: Hard
    work_cadence: 95
    work: 4m
    rest_cadence: 75
    rest: 2m
    rounds: 6
`

func TestParseCatalog(t *testing.T) {
	c, err := ParseCatalog([]byte(customYAML), DefaultSetupLimits)
	require.NoError(t, err)

	all := c.All()
	require.Len(t, all, 4)
	assert.Equal(t, "Over-Unders", all[3].Name)

	plan, err := c.Find("over-unders")
	require.NoError(t, err)
	assert.Equal(t, 4*time.Minute, plan.WorkDuration)
	assert.Equal(t, 2*time.Minute, plan.RestDuration)
	assert.Equal(t, 6, plan.Rounds)
	assert.Equal(t, "Total: 36 minutes", plan.TotalLabel())
}

func TestParseCatalog_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing name", "workouts:\n  - work_cadence: 90\n    work: 5m\n    rest_cadence: 70\n    rest: 2m\n    rounds: 2\n"},
		{"duplicate preset", "workouts:\n  - name: tempo blocks\n    work_cadence: 90\n    work: 5m\n    rest_cadence: 70\n    rest: 2m\n    rounds: 2\n"},
		{"out of limits", "workouts:\n  - name: Sprint\n    work_cadence: 160\n    work: 5m\n    rest_cadence: 70\n    rest: 2m\n    rounds: 2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.yaml), DefaultSetupLimits)
			assert.ErrorIs(t, err, ErrInvalidPlan)
		})
	}

	_, err := ParseCatalog([]byte("workouts: [unterminated"), DefaultSetupLimits)
	assert.Error(t, err)
}

func TestLoadCatalog(t *testing.T) {
	c, err := LoadCatalog("", DefaultSetupLimits)
	require.NoError(t, err)
	assert.Len(t, c.All(), 3)

	c, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"), DefaultSetupLimits)
	require.NoError(t, err)
	assert.Len(t, c.All(), 3)

	path := filepath.Join(t.TempDir(), "workouts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(customYAML), 0o644))
	c, err = LoadCatalog(path, DefaultSetupLimits)
	require.NoError(t, err)
	assert.Len(t, c.All(), 4)
}
