package metronome

import (
	"math"
	"time"
)

// Bounce cycle shape, measured in beats
const (
	CycleBeats   = 2.0 // One rise plus one fall
	riseBeats    = 1.0
	fallBeats    = 0.9
	squishStart  = 1.8
	squishBeats  = 0.2
	squishAmount = 0.3 // Horizontal stretch / vertical compression at impact
)

// Stage identifies the part of the bounce cycle a pose belongs to
type Stage int

const (
	StageRising Stage = iota
	StageFalling
	StageSquish
)

func (s Stage) String() string {
	switch s {
	case StageRising:
		return "rising"
	case StageFalling:
		return "falling"
	case StageSquish:
		return "squish"
	default:
		return "unknown"
	}
}

// Pose is the metronome's animation state at one instant
type Pose struct {
	Stage      Stage
	Height     float64 // 0 on the floor, 1 at the top of the bounce
	Squish     float64 // 0 round, 1 fully squished
	ScaleX     float64
	ScaleY     float64
	CrankAngle float64 // Pedal-rod angle in degrees, [0, 360)
	Beat       int     // Whole beats since the animation was anchored
}

// BeatInterval returns the time between beats at cadence beats per minute
func BeatInterval(cadence int) time.Duration {
	if cadence <= 0 {
		panic("metronome: cadence must be positive")
	}
	return time.Minute / time.Duration(cadence)
}

// PoseAt computes the pose at phase, measured in beats
func PoseAt(phase float64) Pose {
	if phase < 0 {
		phase = 0
	}
	cycle := math.Mod(phase, CycleBeats)

	pose := Pose{
		CrankAngle: math.Mod(phase, 1) * 360,
		Beat:       int(math.Floor(phase)),
	}

	switch {
	case cycle < riseBeats:
		// Decelerates on the way up while recovering from the last impact
		pose.Stage = StageRising
		pose.Height = easeOut(cycle / riseBeats)
		pose.Squish = 1 - easeOut(cycle/riseBeats)
	case cycle < squishStart:
		pose.Stage = StageFalling
		pose.Height = 1 - easeIn((cycle-riseBeats)/fallBeats)
	default:
		pose.Stage = StageSquish
		fall := (cycle - riseBeats) / fallBeats
		if fall < 1 {
			pose.Height = 1 - easeIn(fall)
		}
		pose.Squish = easeOut((cycle - squishStart) / squishBeats)
	}

	pose.ScaleX = 1 + squishAmount*pose.Squish
	pose.ScaleY = 1 - squishAmount*pose.Squish
	return pose
}

func easeOut(x float64) float64 {
	x = clamp01(x)
	return 1 - (1-x)*(1-x)
}

func easeIn(x float64) float64 {
	x = clamp01(x)
	return x * x
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
