package trainer

import (
	"fmt"
	"log"

	"github.com/lowaak/tempo-master/internal/session"
	"github.com/lowaak/tempo-master/internal/workouts"
)

// UIController handles UI events and turns them into session operations
type UIController struct {
	model    *UIModel
	session  *session.Controller
	defaults RideDefaults
	limits   workouts.SetupLimits
	logger   *log.Logger
}

// NewUIControllerArg holds the arguments for creating a new UIController
type NewUIControllerArg struct {
	Model    *UIModel
	Session  *session.Controller
	Defaults RideDefaults
	Limits   workouts.SetupLimits
	Logger   *log.Logger
}

// NewUIController creates a new UIController with the given dependencies
func NewUIController(args NewUIControllerArg) *UIController {
	if args.Model == nil {
		panic("UIController: model cannot be nil")
	}
	if args.Session == nil {
		panic("UIController: session cannot be nil")
	}
	if args.Logger == nil {
		panic("UIController: logger cannot be nil")
	}
	if args.Defaults.CadenceStep <= 0 {
		panic("UIController: cadence step must be positive")
	}

	return &UIController{
		model:    args.Model,
		session:  args.Session,
		defaults: args.Defaults,
		limits:   args.Limits,
		logger:   args.Logger,
	}
}

// OnEscapeKey handles when the Escape key is pressed
func (c *UIController) OnEscapeKey() {
	c.model.RequestCloseApplication()
}

// OnModeChange handles when the user requests a mode change
func (c *UIController) OnModeChange(mode UIMode) {
	if info, ok := GetUIModeInfo(mode); ok {
		c.logger.Printf("Switching to %s mode", info.DisplayName)
	}
	c.model.SetMode(mode)
}

// OnMenuSelected starts the session for the menu entry at index and shows the ride screen
func (c *UIController) OnMenuSelected(index int) {
	menu := c.model.GetMenu()
	if index < 0 || index >= len(menu) {
		c.logger.Printf("Invalid menu index: %d", index)
		return
	}

	entry := menu[index]
	c.logger.Printf("Menu selected: %s", entry.Title)
	if err := c.StartEntry(entry); err != nil {
		c.logger.Printf("Cannot start %s: %v", entry.Title, err)
		return
	}
	c.model.SetMode(UIModeRide)
}

// StartEntry validates and starts the session described by entry
func (c *UIController) StartEntry(entry MenuEntry) error {
	switch entry.Kind {
	case MenuEntryFreeRide:
		return c.StartFreeRide(c.defaults.Cadence)
	case MenuEntryTimedRide:
		return c.StartTimed(c.defaults.Timed)
	case MenuEntryIntervals, MenuEntryWorkout:
		return c.StartInterval(entry.Plan)
	default:
		return fmt.Errorf("unknown menu entry kind %d", entry.Kind)
	}
}

// StartFreeRide starts an open-ended ride at cadence
func (c *UIController) StartFreeRide(cadence int) error {
	limits := c.session.Limits()
	if cadence < limits.Min || cadence > limits.Max {
		return fmt.Errorf("cadence %d rpm outside %d-%d", cadence, limits.Min, limits.Max)
	}
	c.session.StartFreeRide(cadence)
	return nil
}

// StartTimed starts a timed ride from plan
func (c *UIController) StartTimed(plan workouts.TimedPlan) error {
	if err := plan.Validate(c.limits); err != nil {
		return err
	}
	c.session.StartTimed(plan.Cadence, plan.Duration)
	return nil
}

// StartInterval starts an interval workout from plan
func (c *UIController) StartInterval(plan workouts.IntervalPlan) error {
	if err := plan.Validate(c.limits); err != nil {
		return err
	}
	c.session.StartInterval(plan.WorkCadence, plan.WorkDuration, plan.RestCadence, plan.RestDuration, plan.Rounds)
	return nil
}

// TogglePause pauses or resumes the running session
func (c *UIController) TogglePause() {
	c.session.TogglePause()
}

// EndSession ends the session and returns to the menu
func (c *UIController) EndSession() {
	c.session.End()
	c.model.SetMode(UIModeMenu)
}

// IncreaseCadence raises the target cadence by the configured step
func (c *UIController) IncreaseCadence() {
	c.adjustCadence(c.defaults.CadenceStep)
}

// DecreaseCadence lowers the target cadence by the configured step
func (c *UIController) DecreaseCadence() {
	c.adjustCadence(-c.defaults.CadenceStep)
}

func (c *UIController) adjustCadence(delta int) {
	state := c.session.State()
	if state.Mode == session.ModeInterval && state.Running {
		c.logger.Printf("Cadence follows the interval phase")
		return
	}
	c.session.AdjustCadence(delta)
}

// ToggleDisplayStyle switches between the bouncing ball and the pedal rod
func (c *UIController) ToggleDisplayStyle() {
	style := DisplayStyleBall
	if c.model.GetUIState().Style == DisplayStyleBall {
		style = DisplayStylePedal
	}
	c.logger.Printf("Display style: %s", style)
	c.model.SetStyle(style)
}

// Shutdown ends any live session and stops its tick source
func (c *UIController) Shutdown() {
	c.session.Shutdown()
}
