package session

import (
	"fmt"
	"time"
)

// TickInterval is the length of one session clock tick
const TickInterval = 1 * time.Second

// Mode represents the kind of workout a session runs
type Mode int

const (
	ModeNone     Mode = iota // Controller created but never started
	ModeFreeRide             // Open-ended ride, elapsed counts up
	ModeTimed                // Single countdown at one cadence
	ModeInterval             // Alternating work/rest rounds
)

func (m Mode) String() string {
	switch m {
	case ModeFreeRide:
		return "Free Ride"
	case ModeTimed:
		return "Timed Ride"
	case ModeInterval:
		return "Intervals"
	default:
		return "None"
	}
}

// State is a snapshot of the live session.
// Snapshots are values; mutating one never affects the controller.
type State struct {
	SessionID string // Assigned on every start, empty before the first one
	Mode      Mode
	Cadence   int // Target beats per minute

	Elapsed   time.Duration
	Remaining time.Duration // Time left in the ride (Timed) or current phase (Interval)

	Running bool
	Paused  bool // Only meaningful while Running

	// Interval fields (zero outside Interval mode)
	WorkCadence  int
	RestCadence  int
	WorkDuration time.Duration
	RestDuration time.Duration
	CurrentRound int // 1-indexed
	TotalRounds  int
	IsWorkPhase  bool
}

// PhaseLabel describes the current interval phase for display
func (s State) PhaseLabel() string {
	if s.Mode != ModeInterval {
		return ""
	}
	if s.IsWorkPhase {
		return "Work"
	}
	return "Rest"
}

// RoundLabel formats the round counter, e.g. "Round 2/3"
func (s State) RoundLabel() string {
	if s.Mode != ModeInterval || s.TotalRounds == 0 {
		return ""
	}
	return fmt.Sprintf("Round %d/%d", s.CurrentRound, s.TotalRounds)
}

// Summary describes a session that has just left the running state
type Summary struct {
	SessionID       string
	Mode            Mode
	Elapsed         time.Duration // Elapsed time before the reset
	RoundsCompleted int           // Interval mode only
	TotalRounds     int
	Completed       bool // True when the workout ran to its natural end
}

// CadenceLimits bounds live cadence adjustments
type CadenceLimits struct {
	Min int
	Max int
}

// DefaultCadenceLimits is the range used for free and timed rides
var DefaultCadenceLimits = CadenceLimits{Min: 40, Max: 200}

func (l CadenceLimits) clamp(cadence int) int {
	if cadence < l.Min {
		return l.Min
	}
	if cadence > l.Max {
		return l.Max
	}
	return cadence
}

// wholeTicks truncates d to a multiple of TickInterval
func wholeTicks(d time.Duration) time.Duration {
	return d.Truncate(TickInterval)
}
