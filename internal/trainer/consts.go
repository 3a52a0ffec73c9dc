package trainer

import (
	"fmt"
	"strings"

	"github.com/lowaak/tempo-master/internal/workouts"
)

// UIMode represents the current UI mode/screen
type UIMode int

const (
	UIModeMenu UIMode = iota // Workout selection
	UIModeRide               // Live metronome and session status
)

// UIModeInfo contains display information for a UI mode
type UIModeInfo struct {
	Mode        UIMode
	DisplayName string
	KeyBinding  rune // The number key to activate this mode
}

// AllUIModes defines all available UI modes in order
var AllUIModes = []UIModeInfo{
	{Mode: UIModeMenu, DisplayName: "Workouts", KeyBinding: '1'},
	{Mode: UIModeRide, DisplayName: "Ride", KeyBinding: '2'},
}

// GetUIModeByKey returns the mode for a given key binding
func GetUIModeByKey(key rune) (UIMode, bool) {
	for _, info := range AllUIModes {
		if info.KeyBinding == key {
			return info.Mode, true
		}
	}
	return 0, false
}

// GetUIModeInfo returns the info for a given mode
func GetUIModeInfo(mode UIMode) (UIModeInfo, bool) {
	for _, info := range AllUIModes {
		if info.Mode == mode {
			return info, true
		}
	}
	return UIModeInfo{}, false
}

// DisplayStyle selects how the metronome is drawn
type DisplayStyle int

const (
	DisplayStyleBall  DisplayStyle = iota // Bouncing ball
	DisplayStylePedal                     // Rotating pedal rod
)

func (s DisplayStyle) String() string {
	switch s {
	case DisplayStylePedal:
		return "pedal"
	default:
		return "ball"
	}
}

// ParseDisplayStyle converts a configuration value into a DisplayStyle
func ParseDisplayStyle(s string) (DisplayStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ball":
		return DisplayStyleBall, nil
	case "pedal":
		return DisplayStylePedal, nil
	default:
		return 0, fmt.Errorf("unknown display style %q", s)
	}
}

// MenuEntryKind identifies which session a menu entry starts
type MenuEntryKind int

const (
	MenuEntryFreeRide MenuEntryKind = iota
	MenuEntryTimedRide
	MenuEntryIntervals // Configured custom intervals
	MenuEntryWorkout   // Catalog workout
)

// MenuEntry is one selectable line of the workout menu
type MenuEntry struct {
	Kind   MenuEntryKind
	Title  string
	Detail string
	Plan   workouts.IntervalPlan // Set for MenuEntryIntervals and MenuEntryWorkout
}

// RideDefaults are the values used when starting a ride from the menu
type RideDefaults struct {
	Cadence     int // Free ride cadence
	CadenceStep int // Live +/- adjustment
	Timed       workouts.TimedPlan
	Intervals   workouts.IntervalPlan
}

// BuildMenu lists the fixed ride types followed by every catalog workout
func BuildMenu(defaults RideDefaults, catalog *workouts.Catalog) []MenuEntry {
	menu := []MenuEntry{
		{
			Kind:   MenuEntryFreeRide,
			Title:  "Just Ride",
			Detail: fmt.Sprintf("Free ride at %d rpm", defaults.Cadence),
		},
		{
			Kind:   MenuEntryTimedRide,
			Title:  "Timed Ride",
			Detail: fmt.Sprintf("%s at %d rpm", formatDuration(defaults.Timed.Duration), defaults.Timed.Cadence),
		},
		{
			Kind:   MenuEntryIntervals,
			Title:  "Intervals",
			Detail: describePlan(defaults.Intervals),
			Plan:   defaults.Intervals,
		},
	}

	if catalog == nil {
		return menu
	}
	for _, plan := range catalog.All() {
		menu = append(menu, MenuEntry{
			Kind:   MenuEntryWorkout,
			Title:  plan.Name,
			Detail: describePlan(plan),
			Plan:   plan,
		})
	}
	return menu
}

func describePlan(plan workouts.IntervalPlan) string {
	return fmt.Sprintf("%dx %s @ %d / %s @ %d rpm, %s",
		plan.Rounds,
		formatDuration(plan.WorkDuration), plan.WorkCadence,
		formatDuration(plan.RestDuration), plan.RestCadence,
		plan.TotalLabel())
}
