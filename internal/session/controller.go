package session

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lowaak/tempo-master/internal/events"
)

// Controller owns the live workout session: its configuration, the tick
// source that advances it and the mode/phase state machine.
//
// Control operations are serialized by controlMu. The tick callback and the
// control operations both mutate state under mu. The tick source is always
// stopped or started with mu released, because stopping waits for an
// in-flight tick that may itself be waiting for mu.
type Controller struct {
	source TickSource
	limits CadenceLimits
	newID  func() string
	logger *log.Logger

	controlMu sync.Mutex

	mu    sync.RWMutex
	state State

	stateEvent   *events.StateEvent[State]
	summaryEvent *events.StateEvent[Summary]
}

// NewControllerArg holds the arguments for creating a new Controller
type NewControllerArg struct {
	TickSource TickSource
	Limits     CadenceLimits // Zero value selects DefaultCadenceLimits
	NewID      func() string // Session ID generator, defaults to uuid.NewString
	Logger     *log.Logger
}

// NewController creates an inert Controller
func NewController(args NewControllerArg) *Controller {
	if args.TickSource == nil {
		panic("SessionController: tick source cannot be nil")
	}
	if args.Logger == nil {
		panic("SessionController: logger cannot be nil")
	}

	limits := args.Limits
	if limits == (CadenceLimits{}) {
		limits = DefaultCadenceLimits
	}
	if limits.Min <= 0 || limits.Max < limits.Min {
		panic(fmt.Sprintf("SessionController: invalid cadence limits %d-%d", limits.Min, limits.Max))
	}

	newID := args.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	return &Controller{
		source:       args.TickSource,
		limits:       limits,
		newID:        newID,
		logger:       args.Logger,
		stateEvent:   events.NewStateEvent[State](true),
		summaryEvent: events.NewStateEvent[Summary](false),
	}
}

// Limits returns the cadence range used for free and timed rides
func (c *Controller) Limits() CadenceLimits {
	return c.limits
}

// State returns a snapshot of the current session
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// ListenToState registers a channel to receive a snapshot after every change.
// Returns a deregistration function that can be called to remove the listener
func (c *Controller) ListenToState(ch chan<- State) func() {
	return c.stateEvent.Listen(ch)
}

// OnStateChange registers a callback invoked after every change.
// The callback runs on the goroutine that made the change and must not call
// back into control operations.
func (c *Controller) OnStateChange(fn func(State)) func() {
	return c.stateEvent.OnNotify(fn)
}

// ListenToSummary registers a channel to receive a summary whenever a
// running session ends, completes or is replaced
func (c *Controller) ListenToSummary(ch chan<- Summary) func() {
	return c.summaryEvent.Listen(ch)
}

// StartFreeRide starts an open-ended ride at cadence.
// cadence must be positive; it is clamped into the controller's limits.
func (c *Controller) StartFreeRide(cadence int) {
	requirePositive("cadence", cadence)

	c.begin(State{
		Mode:    ModeFreeRide,
		Cadence: c.limits.clamp(cadence),
	})
}

// StartTimed starts a countdown ride of duration at cadence.
// duration is truncated to whole ticks and must be at least one tick.
func (c *Controller) StartTimed(cadence int, duration time.Duration) {
	requirePositive("cadence", cadence)
	duration = requireTicks("duration", duration)

	c.begin(State{
		Mode:      ModeTimed,
		Cadence:   c.limits.clamp(cadence),
		Remaining: duration,
	})
}

// StartInterval starts totalRounds rounds of a work phase followed by a rest phase
func (c *Controller) StartInterval(workCadence int, workDuration time.Duration, restCadence int, restDuration time.Duration, totalRounds int) {
	requirePositive("work cadence", workCadence)
	requirePositive("rest cadence", restCadence)
	requirePositive("total rounds", totalRounds)
	workDuration = requireTicks("work duration", workDuration)
	restDuration = requireTicks("rest duration", restDuration)

	c.begin(State{
		Mode:         ModeInterval,
		Cadence:      workCadence,
		Remaining:    workDuration,
		WorkCadence:  workCadence,
		RestCadence:  restCadence,
		WorkDuration: workDuration,
		RestDuration: restDuration,
		CurrentRound: 1,
		TotalRounds:  totalRounds,
		IsWorkPhase:  true,
	})
}

// begin replaces whatever session is live with initial and starts ticking
func (c *Controller) begin(initial State) {
	c.controlMu.Lock()
	defer c.controlMu.Unlock()

	// Tear down the previous tick source before installing the new session
	c.source.Stop()

	c.mu.Lock()
	previous := c.state
	initial.SessionID = c.newID()
	initial.Running = true
	c.state = initial
	c.mu.Unlock()

	if previous.Running {
		c.logger.Printf("SessionController: Session %s replaced before finishing", previous.SessionID)
		c.summaryEvent.Notify(summarize(previous, false))
	}

	c.logger.Printf("SessionController: Session %s started (%s, %d rpm)", initial.SessionID, initial.Mode, initial.Cadence)
	c.stateEvent.Notify(initial)
	c.source.Start(c.tick)
}

// TogglePause pauses a running session or resumes a paused one.
// Pausing freezes elapsed and remaining exactly; resuming does not catch up.
func (c *Controller) TogglePause() {
	c.controlMu.Lock()
	defer c.controlMu.Unlock()

	c.mu.RLock()
	running, paused := c.state.Running, c.state.Paused
	c.mu.RUnlock()

	if !running {
		c.logger.Printf("SessionController: Cannot pause - no session running")
		return
	}

	if !paused {
		c.source.Stop()

		c.mu.Lock()
		// The final tick may have ended the session while we waited for Stop
		if !c.state.Running {
			c.mu.Unlock()
			return
		}
		c.state.Paused = true
		snapshot := c.state
		c.mu.Unlock()

		c.logger.Printf("SessionController: Session %s paused at %v", snapshot.SessionID, snapshot.Elapsed)
		c.stateEvent.Notify(snapshot)
		return
	}

	c.mu.Lock()
	c.state.Paused = false
	snapshot := c.state
	c.mu.Unlock()

	c.logger.Printf("SessionController: Session %s resumed", snapshot.SessionID)
	c.stateEvent.Notify(snapshot)
	c.source.Start(c.tick)
}

// End stops the session and resets its clock. Calling End on a session that
// has already ended changes nothing.
func (c *Controller) End() {
	c.controlMu.Lock()
	defer c.controlMu.Unlock()

	c.source.Stop()

	c.mu.Lock()
	if isEnded(c.state) {
		c.mu.Unlock()
		return
	}
	wasRunning := c.state.Running
	summary := summarize(c.state, false)
	c.endLocked()
	snapshot := c.state
	c.mu.Unlock()

	if wasRunning {
		c.logger.Printf("SessionController: Session %s ended after %v", summary.SessionID, summary.Elapsed)
		c.summaryEvent.Notify(summary)
	}
	c.stateEvent.Notify(snapshot)
}

// AdjustCadence changes the target cadence by delta, clamped to the
// controller's limits. Interval sessions derive cadence from their phase,
// so the adjustment is rejected there, as it is when no session is running.
func (c *Controller) AdjustCadence(delta int) {
	c.controlMu.Lock()
	defer c.controlMu.Unlock()

	c.mu.Lock()
	if !c.state.Running {
		c.mu.Unlock()
		c.logger.Printf("SessionController: Cannot adjust cadence - no session running")
		return
	}
	if c.state.Mode == ModeInterval {
		c.mu.Unlock()
		c.logger.Printf("SessionController: Cannot adjust cadence - interval cadence follows the phase")
		return
	}

	cadence := c.limits.clamp(c.state.Cadence + delta)
	if cadence == c.state.Cadence {
		c.mu.Unlock()
		return
	}
	c.state.Cadence = cadence
	snapshot := c.state
	c.mu.Unlock()

	c.logger.Printf("SessionController: Cadence set to %d rpm", cadence)
	c.stateEvent.Notify(snapshot)
}

// Shutdown ends any live session and releases the tick source
func (c *Controller) Shutdown() {
	c.End()
	c.source.Shutdown()
}

// tick advances the session by one TickInterval. It is the tick source's
// callback and returns false once the source should stop.
func (c *Controller) tick() bool {
	c.mu.Lock()

	if !c.state.Running || c.state.Paused {
		c.mu.Unlock()
		return false
	}

	var summary *Summary
	phaseChanged := false
	s := &c.state
	s.Elapsed += TickInterval

	switch s.Mode {
	case ModeTimed:
		s.Remaining -= TickInterval
		if s.Remaining <= 0 {
			done := summarize(*s, true)
			summary = &done
			c.endLocked()
		}

	case ModeInterval:
		s.Remaining -= TickInterval
		if s.Remaining <= 0 {
			switch {
			case s.IsWorkPhase:
				s.IsWorkPhase = false
				s.Cadence = s.RestCadence
				s.Remaining = s.RestDuration
				phaseChanged = true
			case s.CurrentRound < s.TotalRounds:
				s.CurrentRound++
				s.IsWorkPhase = true
				s.Cadence = s.WorkCadence
				s.Remaining = s.WorkDuration
				phaseChanged = true
			default:
				done := summarize(*s, true)
				summary = &done
				c.endLocked()
			}
		}
	}

	snapshot := c.state
	c.mu.Unlock()

	if phaseChanged {
		c.logger.Printf("SessionController: %s phase, %s at %d rpm", snapshot.PhaseLabel(), snapshot.RoundLabel(), snapshot.Cadence)
	}
	if summary != nil {
		c.logger.Printf("SessionController: Session %s complete after %v", summary.SessionID, summary.Elapsed)
		c.summaryEvent.Notify(*summary)
	}
	c.stateEvent.Notify(snapshot)

	return snapshot.Running
}

// endLocked applies the terminal reset. MUST be called with mu held.
func (c *Controller) endLocked() {
	c.state.Running = false
	c.state.Paused = false
	c.state.Elapsed = 0
	c.state.Remaining = 0
}

func isEnded(s State) bool {
	return !s.Running && !s.Paused && s.Elapsed == 0 && s.Remaining == 0
}

func summarize(s State, completed bool) Summary {
	summary := Summary{
		SessionID: s.SessionID,
		Mode:      s.Mode,
		Elapsed:   s.Elapsed,
		Completed: completed,
	}
	if s.Mode == ModeInterval {
		summary.TotalRounds = s.TotalRounds
		if completed {
			summary.RoundsCompleted = s.TotalRounds
		} else {
			summary.RoundsCompleted = s.CurrentRound - 1
		}
	}
	return summary
}

func requirePositive(name string, v int) {
	if v <= 0 {
		panic(fmt.Sprintf("SessionController: %s must be positive, got %d", name, v))
	}
}

func requireTicks(name string, d time.Duration) time.Duration {
	whole := wholeTicks(d)
	if whole < TickInterval {
		panic(fmt.Sprintf("SessionController: %s must be at least %v, got %v", name, TickInterval, d))
	}
	return whole
}
