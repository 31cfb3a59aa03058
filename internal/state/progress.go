package state

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Zeyad-Azima/GymFit/internal/domain"
	"github.com/Zeyad-Azima/GymFit/internal/events"
	"github.com/Zeyad-Azima/GymFit/internal/observability"
)

// Achievements lists every badge.
func (s *Store) Achievements() []domain.Achievement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Achievement(nil), s.achievements...)
}

// UnlockedAchievements is the subset of badges already earned.
func (s *Store) UnlockedAchievements() []domain.Achievement {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Achievement, 0, len(s.achievements))
	for _, a := range s.achievements {
		if a.IsUnlocked {
			out = append(out, a)
		}
	}
	return out
}

// ViewAchievement marks an achievement as the one currently on screen.
func (s *Store) ViewAchievement(ctx context.Context, achievementID int64) (domain.Achievement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.achievements {
		if a.ID == achievementID {
			selected := a
			s.selected = &selected
			return a, nil
		}
	}
	return domain.Achievement{}, domain.ErrAchievementNotFound
}

// SelectedAchievement returns the achievement on screen, if any.
func (s *Store) SelectedAchievement() (domain.Achievement, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return domain.Achievement{}, false
	}
	return *s.selected, true
}

// CurrentWorkout returns the workout in progress, if any.
func (s *Store) CurrentWorkout() (domain.Workout, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.workout == nil {
		return domain.Workout{}, false
	}
	return *s.workout, true
}

// StartWorkout begins a workout of the given type. A workout already in
// progress is replaced.
func (s *Store) StartWorkout(ctx context.Context, workoutType string) (domain.Workout, error) {
	workoutType = strings.TrimSpace(workoutType)
	if workoutType == "" {
		return domain.Workout{}, domain.ErrInvalidWorkout
	}

	s.mu.Lock()
	workout := domain.Workout{Type: workoutType, StartTime: s.now()}
	s.workout = &workout
	s.mu.Unlock()

	observability.RecordAction("start_workout")
	s.publish(ctx, events.TypeWorkoutStarted, "workout", workoutType, events.WorkoutStarted{
		WorkoutType: workout.Type,
		StartedAt:   workout.StartTime,
	})
	return workout, nil
}

// EndWorkout finishes the workout in progress, records a feed entry and
// updates the member's stats. It reports false and changes nothing when no
// workout is running.
func (s *Store) EndWorkout(ctx context.Context) (domain.WorkoutResult, bool) {
	s.mu.Lock()
	if s.workout == nil {
		s.mu.Unlock()
		return domain.WorkoutResult{}, false
	}
	now := s.now()
	minutes, calories := s.workout.Finish(now)
	activity := domain.Activity{
		ID:        uuid.NewString(),
		Type:      "workout",
		Title:     s.workout.Type + " completed",
		TimeLabel: "Just now",
		Value:     domain.CaloriesLabel(calories),
		Icon:      domain.IconActivity,
		CreatedAt: now.UTC(),
	}
	s.activities = append([]domain.Activity{activity}, s.activities...)
	s.user.Stats.Workouts++
	s.user.Stats.Calories += calories
	s.user.Stats.XP += 25
	result := domain.WorkoutResult{
		Type:     s.workout.Type,
		Minutes:  minutes,
		Calories: calories,
		Activity: activity,
	}
	stats := s.user.Stats
	s.workout = nil
	s.mu.Unlock()

	observability.RecordAction("end_workout")
	observability.RecordWorkoutCompleted(now)
	s.logger.InfoContext(ctx, "workout completed",
		slog.String("type", result.Type),
		slog.Int("minutes", minutes),
		slog.Int("calories", calories),
	)
	s.publish(ctx, events.TypeWorkoutCompleted, "workout", activity.ID, events.WorkoutCompleted{
		WorkoutType: result.Type,
		Minutes:     minutes,
		Calories:    calories,
		ActivityID:  activity.ID,
		Workouts:    stats.Workouts,
		XP:          stats.XP,
	})
	return result, true
}

// Activities returns the feed newest first, starting after cursor. The
// returned cursor is nil when the page reaches the end of the feed.
func (s *Store) Activities(cursor *domain.Cursor, limit int) ([]domain.Activity, *domain.Cursor) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := 0
	if cursor != nil {
		start = len(s.activities)
		for i, a := range s.activities {
			if a.ID == cursor.ID {
				start = i + 1
				break
			}
			if a.CreatedAt.Before(cursor.CreatedAt) {
				start = i
				break
			}
		}
	}
	if limit <= 0 {
		limit = len(s.activities)
	}

	end := start + limit
	if end > len(s.activities) {
		end = len(s.activities)
	}
	page := append([]domain.Activity(nil), s.activities[start:end]...)

	var next *domain.Cursor
	if end < len(s.activities) && len(page) > 0 {
		last := page[len(page)-1]
		next = &domain.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}
	return page, next
}

// OpenSettings is a placeholder for the settings integration.
func (s *Store) OpenSettings(ctx context.Context, kind string) error {
	s.logger.DebugContext(ctx, "settings requested", slog.String("kind", kind))
	return nil
}

// SignOut is a placeholder for the session integration.
func (s *Store) SignOut(ctx context.Context) error {
	s.logger.DebugContext(ctx, "sign out requested")
	return nil
}

// WorkoutElapsed reports how long the current workout has been running.
func (s *Store) WorkoutElapsed() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.workout == nil {
		return 0
	}
	elapsed := s.now().Sub(s.workout.StartTime)
	if elapsed < 0 {
		return 0
	}
	return elapsed
}
