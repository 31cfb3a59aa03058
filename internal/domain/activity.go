package domain

import (
	"fmt"
	"time"
)

// IconKind is a presentation tag resolved to artwork by the client.
type IconKind string

const (
	IconActivity IconKind = "activity"
	IconTrophy   IconKind = "trophy"
	IconFlame    IconKind = "flame"
	IconTarget   IconKind = "target"
	IconDumbbell IconKind = "dumbbell"
	IconTimer    IconKind = "timer"
	IconCalendar IconKind = "calendar"
	IconStar     IconKind = "star"
	IconZap      IconKind = "zap"
	IconHeart    IconKind = "heart"
)

// Achievement is an unlockable badge.
type Achievement struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Icon        IconKind `json:"icon"`
	IsUnlocked  bool     `json:"is_unlocked"`
	EarnedDate  string   `json:"earned_date,omitempty"`
}

// Activity is an entry in the recent-activity feed.
type Activity struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	TimeLabel string    `json:"time"`
	Value     string    `json:"value,omitempty"`
	Icon      IconKind  `json:"icon"`
	CreatedAt time.Time `json:"created_at"`
}

// Cursor models the activity feed pagination token.
type Cursor struct {
	CreatedAt time.Time
	ID        string
}

// Workout is the in-progress workout record.
type Workout struct {
	Type      string    `json:"type"`
	StartTime time.Time `json:"start_time"`
}

// CaloriesPerMinute is the fixed burn rate used for finished workouts.
const CaloriesPerMinute = 8

// WorkoutResult summarises a finished workout.
type WorkoutResult struct {
	Type     string   `json:"type"`
	Minutes  int      `json:"minutes"`
	Calories int      `json:"calories"`
	Activity Activity `json:"activity"`
}

// Finish computes whole elapsed minutes and the derived calories.
func (w Workout) Finish(now time.Time) (minutes, calories int) {
	elapsed := now.Sub(w.StartTime)
	if elapsed < 0 {
		elapsed = 0
	}
	minutes = int(elapsed / time.Minute)
	return minutes, minutes * CaloriesPerMinute
}

// CaloriesLabel renders the feed value for a finished workout.
func CaloriesLabel(calories int) string {
	return fmt.Sprintf("+%d cal", calories)
}
