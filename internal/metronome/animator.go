package metronome

import (
	"sync"
	"time"
)

// Animator turns wall-clock time into a metronome phase.
// It runs on its own clock, independent of the session tick, and is
// re-anchored whenever the cadence or pause state changes so the phase
// never jumps.
type Animator struct {
	now func() time.Time

	mu          sync.Mutex
	anchor      time.Time
	anchorPhase float64
	cadence     int
	paused      bool
	started     bool
}

// NewAnimator creates an Animator reading time from now.
// A nil now uses time.Now.
func NewAnimator(now func() time.Time) *Animator {
	if now == nil {
		now = time.Now
	}
	return &Animator{now: now}
}

// Frame returns the pose for the current instant.
// A paused or non-positive cadence freezes the phase.
func (a *Animator) Frame(cadence int, paused bool) Pose {
	a.mu.Lock()
	defer a.mu.Unlock()

	t := a.now()
	if !a.started {
		a.started = true
		a.anchor = t
		a.cadence = cadence
		a.paused = paused
	}

	phase := a.phaseAt(t)
	if cadence != a.cadence || paused != a.paused {
		a.anchor = t
		a.anchorPhase = phase
		a.cadence = cadence
		a.paused = paused
	}

	return PoseAt(phase)
}

// Reset puts the animation back at the start of a cycle
func (a *Animator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.started = false
	a.anchorPhase = 0
}

// phaseAt must be called with mu held
func (a *Animator) phaseAt(t time.Time) float64 {
	if a.paused || a.cadence <= 0 {
		return a.anchorPhase
	}
	return a.anchorPhase + float64(t.Sub(a.anchor))/float64(BeatInterval(a.cadence))
}
