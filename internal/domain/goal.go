package domain

import (
	"math"
	"time"
)

// GoalType classifies a fitness goal.
type GoalType string

const (
	GoalWeight    GoalType = "weight"
	GoalCardio    GoalType = "cardio"
	GoalStrength  GoalType = "strength"
	GoalTime      GoalType = "time"
	GoalFrequency GoalType = "frequency"
	GoalGeneral   GoalType = "general"
)

var goalUnits = map[GoalType]string{
	GoalWeight:    "lbs",
	GoalCardio:    "minutes",
	GoalStrength:  "reps",
	GoalTime:      "hours",
	GoalFrequency: "times",
	GoalGeneral:   "units",
}

// Valid reports whether t is a known goal type.
func (t GoalType) Valid() bool {
	_, ok := goalUnits[t]
	return ok
}

// DefaultUnit returns the unit suggested for the goal type.
func (t GoalType) DefaultUnit() string {
	return goalUnits[t]
}

// Goal is a member-defined target with a deadline.
type Goal struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        GoalType  `json:"type"`
	Target      float64   `json:"target"`
	Current     float64   `json:"current"`
	Unit        string    `json:"unit"`
	Deadline    time.Time `json:"deadline"`
	CreatedAt   time.Time `json:"created_at"`
}

// Completed reports whether the current value has reached the target.
func (g Goal) Completed() bool {
	return g.Current >= g.Target
}

// DaysLeft is the number of days until the deadline, rounded up.
func (g Goal) DaysLeft(now time.Time) int {
	return int(math.Ceil(g.Deadline.Sub(now).Hours() / 24))
}

// Progress is the completion percentage capped at 100.
func (g Goal) Progress() float64 {
	if g.Target <= 0 {
		return 0
	}
	return math.Min(g.Current/g.Target*100, 100)
}
