package trainer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lowaak/tempo-master/internal/session"
	"github.com/lowaak/tempo-master/internal/workouts"
)

func TestNewUIController_Panics(t *testing.T) {
	rig := newTestRig(t)

	assert.Panics(t, func() {
		NewUIController(NewUIControllerArg{Session: rig.session, Defaults: testDefaults, Logger: rig.logger})
	})
	assert.Panics(t, func() {
		NewUIController(NewUIControllerArg{Model: rig.model, Defaults: testDefaults, Logger: rig.logger})
	})
	assert.Panics(t, func() {
		NewUIController(NewUIControllerArg{Model: rig.model, Session: rig.session, Logger: rig.logger})
	})
}

func TestUIController_MenuStartsSessions(t *testing.T) {
	tests := []struct {
		index       int
		mode        session.Mode
		cadence     int
		remaining   time.Duration
		totalRounds int
	}{
		{0, session.ModeFreeRide, 90, 0, 0},
		{1, session.ModeTimed, 85, 30 * time.Minute, 0},
		{2, session.ModeInterval, 100, 5 * time.Minute, 5},
		{3, session.ModeInterval, 88, 10 * time.Minute, 3}, // Tempo Blocks
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			rig := newTestRig(t)

			rig.controller.OnMenuSelected(tt.index)

			state := rig.session.State()
			assert.True(t, state.Running)
			assert.Equal(t, tt.mode, state.Mode)
			assert.Equal(t, tt.cadence, state.Cadence)
			assert.Equal(t, tt.remaining, state.Remaining)
			assert.Equal(t, tt.totalRounds, state.TotalRounds)
			assert.Equal(t, UIModeRide, rig.model.GetUIState().Mode)
		})
	}
}

func TestUIController_InvalidMenuIndex(t *testing.T) {
	rig := newTestRig(t)

	rig.controller.OnMenuSelected(-1)
	rig.controller.OnMenuSelected(100)

	assert.False(t, rig.session.State().Running)
	assert.Equal(t, UIModeMenu, rig.model.GetUIState().Mode)
}

func TestUIController_RejectsInvalidPlans(t *testing.T) {
	rig := newTestRig(t)

	err := rig.controller.StartInterval(workouts.IntervalPlan{WorkCadence: 200, WorkDuration: time.Minute, RestCadence: 70, RestDuration: time.Minute, Rounds: 1})
	assert.ErrorIs(t, err, workouts.ErrInvalidPlan)

	err = rig.controller.StartTimed(workouts.TimedPlan{Cadence: 90, Duration: 0})
	assert.ErrorIs(t, err, workouts.ErrInvalidPlan)

	assert.Error(t, rig.controller.StartFreeRide(500))
	assert.False(t, rig.session.State().Running)
}

func TestUIController_Cadence(t *testing.T) {
	rig := newTestRig(t)
	require.NoError(t, rig.controller.StartFreeRide(90))

	rig.controller.IncreaseCadence()
	rig.controller.IncreaseCadence()
	assert.Equal(t, 100, rig.session.State().Cadence)

	rig.controller.DecreaseCadence()
	assert.Equal(t, 95, rig.session.State().Cadence)

	require.NoError(t, rig.controller.StartEntry(MenuEntry{Kind: MenuEntryIntervals, Plan: testDefaults.Intervals}))
	rig.controller.IncreaseCadence()
	assert.Equal(t, 100, rig.session.State().Cadence)
}

func TestUIController_PauseAndEnd(t *testing.T) {
	rig := newTestRig(t)
	rig.controller.OnMenuSelected(1)
	rig.source.FireN(10)

	rig.controller.TogglePause()
	assert.True(t, rig.session.State().Paused)
	rig.controller.TogglePause()
	assert.False(t, rig.session.State().Paused)

	rig.controller.EndSession()
	assert.False(t, rig.session.State().Running)
	assert.Equal(t, UIModeMenu, rig.model.GetUIState().Mode)
}

func TestUIController_ToggleDisplayStyle(t *testing.T) {
	rig := newTestRig(t)

	rig.controller.ToggleDisplayStyle()
	assert.Equal(t, DisplayStylePedal, rig.model.GetUIState().Style)
	rig.controller.ToggleDisplayStyle()
	assert.Equal(t, DisplayStyleBall, rig.model.GetUIState().Style)
}

func TestUIController_ModeAndEscape(t *testing.T) {
	rig := newTestRig(t)

	rig.controller.OnModeChange(UIModeRide)
	assert.Equal(t, UIModeRide, rig.model.GetUIState().Mode)

	closeChan := make(chan struct{}, 1)
	unregister := rig.model.ListenToCloseApplication(closeChan)
	defer unregister()

	rig.controller.OnEscapeKey()
	assert.Len(t, closeChan, 1)
}

func TestUIController_Shutdown(t *testing.T) {
	rig := newTestRig(t)
	rig.controller.OnMenuSelected(0)

	rig.controller.Shutdown()
	assert.False(t, rig.session.State().Running)
	assert.False(t, rig.source.Active())
}
