// Package mockdata provides the seed records the app starts from. Every
// function returns fresh values, so callers own what they receive.
package mockdata

import (
	"time"

	"github.com/Zeyad-Azima/GymFit/internal/domain"
)

// Dataset bundles the records held by the application store.
type Dataset struct {
	User         domain.User
	Classes      []domain.Class
	Trainers     []domain.Trainer
	Messages     []domain.Message
	Achievements []domain.Achievement
	Activities   []domain.Activity
}

var seedTime = time.Date(2024, time.January, 20, 9, 0, 0, 0, time.UTC)

// Seed returns a new copy of the seed dataset.
func Seed() Dataset {
	return Dataset{
		User:         user(),
		Classes:      classes(),
		Trainers:     trainers(),
		Messages:     messages(),
		Achievements: achievements(),
		Activities:   activities(),
	}
}

func user() domain.User {
	return domain.User{
		Name:          "Alex Johnson",
		Email:         "alex.johnson@email.com",
		MemberSince:   "January 2023",
		Notifications: 3,
		Stats: domain.UserStats{
			Workouts:            127,
			Calories:            45280,
			Badges:              12,
			Streak:              7,
			Rating:              4.8,
			ClassesAttended:     48,
			XP:                  2450,
			ChallengesCompleted: 18,
			WeeklyGoal:          domain.WeeklyGoal{Completed: 4, Target: 5},
		},
		DailyChallenge: domain.DailyChallenge{
			Title:       "100 Push-ups Challenge",
			Description: "Complete 100 push-ups throughout the day",
			Progress:    65,
		},
	}
}

func classes() []domain.Class {
	return []domain.Class{
		{ID: 1, Title: "Morning HIIT Blast", Trainer: "Sarah Wilson", Type: domain.ClassTypeHIIT, Time: "7:00 AM", Duration: "45 min", Spots: 8, Rating: 4.9},
		{ID: 2, Title: "Power Yoga Flow", Trainer: "Mike Chen", Type: domain.ClassTypeYoga, Time: "9:30 AM", Duration: "60 min", Spots: 12, Rating: 4.8},
		{ID: 3, Title: "Strength & Conditioning", Trainer: "Emma Davis", Type: domain.ClassTypeStrength, Time: "12:00 PM", Duration: "50 min", Spots: 5, IsBooked: true, Rating: 4.7},
		{ID: 4, Title: "Cardio Kickboxing", Trainer: "James Rodriguez", Type: domain.ClassTypeCardio, Time: "6:00 PM", Duration: "45 min", Spots: 15, Rating: 4.9},
		{ID: 5, Title: "Evening Stretch", Trainer: "Mike Chen", Type: domain.ClassTypeYoga, Time: "8:00 PM", Duration: "30 min", Spots: 0, Rating: 4.6},
	}
}

func trainers() []domain.Trainer {
	return []domain.Trainer{
		{ID: 1, Name: "Sarah Wilson", Specialty: "HIIT & Cardio", Status: domain.TrainerOnline, LastMessage: "Great job on today's workout!", LastMessageAt: seedTime.Add(-2 * time.Hour), Unread: true},
		{ID: 2, Name: "Mike Chen", Specialty: "Yoga & Flexibility", Status: domain.TrainerOnline, LastMessage: "Remember to focus on your breathing", LastMessageAt: seedTime.Add(-5 * time.Hour)},
		{ID: 3, Name: "Emma Davis", Specialty: "Strength Training", Status: domain.TrainerOffline, LastMessage: "Let's increase the weight next session", LastMessageAt: seedTime.Add(-26 * time.Hour)},
	}
}

func messages() []domain.Message {
	return []domain.Message{
		{ID: "seed-msg-1", TrainerID: 1, Text: "Hi Alex! How are you feeling after yesterday's session?", Timestamp: seedTime.Add(-3 * time.Hour)},
		{ID: "seed-msg-2", TrainerID: 1, Text: "A bit sore, but in a good way!", IsUser: true, Timestamp: seedTime.Add(-150 * time.Minute)},
		{ID: "seed-msg-3", TrainerID: 1, Text: "Great job on today's workout!", Timestamp: seedTime.Add(-2 * time.Hour)},
		{ID: "seed-msg-4", TrainerID: 2, Text: "Remember to focus on your breathing", Timestamp: seedTime.Add(-5 * time.Hour)},
	}
}

func achievements() []domain.Achievement {
	return []domain.Achievement{
		{ID: 1, Title: "First Workout", Description: "Complete your first workout", Icon: domain.IconStar, IsUnlocked: true, EarnedDate: "Jan 15, 2023"},
		{ID: 2, Title: "Week Warrior", Description: "Work out 7 days in a row", Icon: domain.IconFlame, IsUnlocked: true, EarnedDate: "Feb 3, 2023"},
		{ID: 3, Title: "Century Club", Description: "Complete 100 workouts", Icon: domain.IconTrophy, IsUnlocked: true, EarnedDate: "Nov 20, 2023"},
		{ID: 4, Title: "Calorie Crusher", Description: "Burn 50,000 calories", Icon: domain.IconZap},
		{ID: 5, Title: "Class Regular", Description: "Attend 50 group classes", Icon: domain.IconCalendar},
		{ID: 6, Title: "Heart of Steel", Description: "Complete 30 cardio sessions", Icon: domain.IconHeart},
	}
}

func activities() []domain.Activity {
	return []domain.Activity{
		{ID: "seed-act-1", Type: "workout", Title: "Upper Body Strength", TimeLabel: "2 hours ago", Value: "+320 cal", Icon: domain.IconDumbbell, CreatedAt: seedTime.Add(-2 * time.Hour)},
		{ID: "seed-act-2", Type: "achievement", Title: "Week Warrior unlocked", TimeLabel: "Yesterday", Icon: domain.IconTrophy, CreatedAt: seedTime.Add(-24 * time.Hour)},
		{ID: "seed-act-3", Type: "class", Title: "Power Yoga Flow attended", TimeLabel: "2 days ago", Value: "60 min", Icon: domain.IconCalendar, CreatedAt: seedTime.Add(-48 * time.Hour)},
	}
}
