package mockdata

import (
	"time"

	"github.com/Zeyad-Azima/GymFit/internal/domain"
)

// seeded goals show the same days-left spread on every start.
// seeded goals keep their original days-left spread.
func Goals(now time.Time) []domain.Goal {
	day := 24 * time.Hour
	return []domain.Goal{
		{ID: "seed-goal-1", Title: "Lose Weight", Description: "Reach my target weight for summer", Type: domain.GoalWeight, Target: 15, Current: 8, Unit: "lbs", Deadline: now.Add(120 * day), CreatedAt: now.Add(-10 * day)},
		{ID: "seed-goal-2", Title: "Run 5K Under 25 Minutes", Description: "Improve my cardio endurance", Type: domain.GoalCardio, Target: 25, Current: 28, Unit: "minutes", Deadline: now.Add(75 * day), CreatedAt: now.Add(-15 * day)},
		{ID: "seed-goal-3", Title: "Workout Consistency", Description: "Maintain regular workout schedule", Type: domain.GoalFrequency, Target: 5, Current: 4, Unit: "times/week", Deadline: now.Add(350 * day), CreatedAt: now.Add(-24 * day)},
		{ID: "seed-goal-4", Title: "Bench Press 200lbs", Description: "Increase my maximum bench press", Type: domain.GoalStrength, Target: 200, Current: 165, Unit: "lbs", Deadline: now.Add(180 * day), CreatedAt: now.Add(-20 * day)},
	}
}

// CoachWorkouts returns the AI coach's recommended workouts.
func CoachWorkouts() []domain.CoachWorkout {
	return []domain.CoachWorkout{
		{
			ID:          1,
			Title:       "Morning Energy Boost",
			Subtitle:    "Perfect for your 7 AM schedule",
			Duration:    "25 min",
			Difficulty:  "Beginner",
			Calories:    180,
			Description: "A gentle morning routine to energize your day with light cardio and stretching.",
			Exercises:   []string{"Jumping Jacks", "Push-ups", "Squats", "Plank", "Mountain Climbers", "Cool Down Stretch"},
			Reason:      "Based on your morning availability and beginner fitness level",
		},
		{
			ID:          2,
			Title:       "Strength Builder Pro",
			Subtitle:    "Tailored for muscle growth",
			Duration:    "45 min",
			Difficulty:  "Intermediate",
			Calories:    320,
			Description: "Progressive strength training focused on your goal areas with proper rest periods.",
			Exercises:   []string{"Deadlifts", "Bench Press", "Squats", "Pull-ups", "Overhead Press", "Core Circuit"},
			Reason:      "Your progress shows readiness for intermediate strength training",
		},
		{
			ID:          3,
			Title:       "HIIT Fat Burner",
			Subtitle:    "Maximize calorie burn",
			Duration:    "30 min",
			Difficulty:  "Advanced",
			Calories:    400,
			Description: "High-intensity intervals designed to boost metabolism and burn maximum calories.",
			Exercises:   []string{"Burpees", "Sprint Intervals", "Jump Squats", "High Knees", "Battle Ropes", "Recovery Walk"},
			Reason:      "Perfect for your weight loss goals and current fitness level",
		},
	}
}

// CoachGreeting is the opening of the coach chat.
func CoachGreeting() []string {
	return []string{
		"Hi! I'm your AI fitness coach. I've analyzed your progress and created personalized workouts for you!",
		"Based on your goals and current fitness level, I recommend starting with the 'Morning Energy Boost' workout.",
	}
}

// BackupCodes is the initial set of account recovery codes.
func BackupCodes() []string {
	return []string{
		"A1B2-C3D4-E5F6",
		"G7H8-I9J0-K1L2",
		"M3N4-O5P6-Q7R8",
		"S9T0-U1V2-W3X4",
		"Y5Z6-A7B8-C9D0",
		"E1F2-G3H4-I5J6",
		"K7L8-M9N0-O1P2",
		"Q3R4-S5T6-U7V8",
	}
}
