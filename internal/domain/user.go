// Package domain defines the GymFit entities shared by the store, the HTTP
// API and the event stream.
package domain

import "errors"

var (
	// ErrClassNotFound is returned when a class id is not in the schedule.
	ErrClassNotFound = errors.New("class not found")
	// ErrClassFull indicates a booking attempt on a class with no spots left.
	ErrClassFull = errors.New("class has no spots left")
	// ErrTrainerNotFound is returned when a trainer id is unknown.
	ErrTrainerNotFound = errors.New("trainer not found")
	// ErrEmptyMessage rejects blank chat messages.
	ErrEmptyMessage = errors.New("message text is required")
	// ErrAchievementNotFound is returned when an achievement id is unknown.
	ErrAchievementNotFound = errors.New("achievement not found")
	// ErrInvalidWorkout rejects a workout start without a type.
	ErrInvalidWorkout = errors.New("workout type is required")
)

// WeeklyGoal tracks completed sessions against the weekly target.
type WeeklyGoal struct {
	Completed int `json:"completed"`
	Target    int `json:"target"`
}

// UserStats holds the aggregate counters shown on the dashboard.
type UserStats struct {
	Workouts            int        `json:"workouts"`
	Calories            int        `json:"calories"`
	Badges              int        `json:"badges"`
	Streak              int        `json:"streak"`
	Rating              float64    `json:"rating"`
	ClassesAttended     int        `json:"classes_attended"`
	XP                  int        `json:"xp"`
	ChallengesCompleted int        `json:"challenges_completed"`
	WeeklyGoal          WeeklyGoal `json:"weekly_goal"`
}

// DailyChallenge is the featured challenge on the home screen.
type DailyChallenge struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Progress    int    `json:"progress"`
}

// User is the signed-in member.
type User struct {
	Name           string         `json:"name"`
	Email          string         `json:"email"`
	MemberSince    string         `json:"member_since"`
	Notifications  int            `json:"notifications"`
	Stats          UserStats      `json:"stats"`
	DailyChallenge DailyChallenge `json:"daily_challenge"`
}
