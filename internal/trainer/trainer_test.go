package trainer

import (
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lowaak/tempo-master/internal/session"
	"github.com/lowaak/tempo-master/internal/workouts"
)

var testDefaults = RideDefaults{
	Cadence:     90,
	CadenceStep: 5,
	Timed:       workouts.TimedPlan{Cadence: 85, Duration: 30 * time.Minute},
	Intervals: workouts.IntervalPlan{
		Name:         "Custom Intervals",
		WorkCadence:  100,
		WorkDuration: 5 * time.Minute,
		RestCadence:  70,
		RestDuration: 2 * time.Minute,
		Rounds:       5,
	},
}

type testRig struct {
	logger     *log.Logger
	source     *session.ManualTickSource
	session    *session.Controller
	logChan    chan string
	model      *UIModel
	controller *UIController
}

func newTestRig(t *testing.T) *testRig {
	t.Helper()
	logger := log.New(io.Discard, "", 0)
	source := session.NewManualTickSource()
	ctrl := session.NewController(session.NewControllerArg{TickSource: source, Logger: logger})

	logChan := make(chan string, 16)
	model := NewUIModel(NewUIModelArg{
		Summaries: ctrl,
		Menu:      BuildMenu(testDefaults, workouts.NewCatalog(nil)),
		Logger:    logger,
		UILogChan: logChan,
	})
	t.Cleanup(model.Shutdown)

	controller := NewUIController(NewUIControllerArg{
		Model:    model,
		Session:  ctrl,
		Defaults: testDefaults,
		Limits:   workouts.DefaultSetupLimits,
		Logger:   logger,
	})
	require.NotNil(t, controller)

	return &testRig{
		logger:     logger,
		source:     source,
		session:    ctrl,
		logChan:    logChan,
		model:      model,
		controller: controller,
	}
}
