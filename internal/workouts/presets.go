package workouts

import "time"

// Presets returns the built-in structured workouts
func Presets() []IntervalPlan {
	return []IntervalPlan{
		{
			Name:         "Tempo Blocks",
			Description:  "3x10 min at 85-90 RPM, 5 min easy between",
			Difficulty:   "Moderate",
			WorkCadence:  88,
			WorkDuration: 10 * time.Minute,
			RestCadence:  70,
			RestDuration: 5 * time.Minute,
			Rounds:       3,
		},
		{
			Name:         "Sweet Spot",
			Description:  "2x20 min at 88-93 RPM, 10 min recovery between",
			Difficulty:   "Hard",
			WorkCadence:  90,
			WorkDuration: 20 * time.Minute,
			RestCadence:  65,
			RestDuration: 10 * time.Minute,
			Rounds:       2,
		},
		{
			Name:         "Steady State",
			Description:  "3x15 min at 80-85 RPM, 5 min easy between",
			Difficulty:   "Moderate",
			WorkCadence:  83,
			WorkDuration: 15 * time.Minute,
			RestCadence:  68,
			RestDuration: 5 * time.Minute,
			Rounds:       3,
		},
	}
}
