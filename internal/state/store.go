// Package state holds the single process-wide application store. Every
// screen-facing action mutates it under one lock, so all readers observe
// the same user, schedule and conversations.
package state

import (
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/Zeyad-Azima/GymFit/internal/domain"
	"github.com/Zeyad-Azima/GymFit/internal/events"
	"github.com/Zeyad-Azima/GymFit/internal/mockdata"
	"github.com/Zeyad-Azima/GymFit/internal/observability"
	"github.com/Zeyad-Azima/GymFit/internal/replies"
)

// DefaultReplyDelay is how long a trainer takes to answer.
const DefaultReplyDelay = 2 * time.Second

// Option configures optional behaviour for the Store.
type Option func(*Store)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithRand overrides how reply indexes are drawn. intn must return a value in [0, n).
func WithRand(intn func(n int) int) Option {
	return func(s *Store) {
		s.intn = intn
	}
}

// WithReplyDelay overrides the trainer reply delay.
func WithReplyDelay(delay time.Duration) Option {
	return func(s *Store) {
		s.replyDelay = delay
	}
}

// WithPublisher sets the sink for state-change events.
func WithPublisher(p events.Publisher) Option {
	return func(s *Store) {
		s.publisher = p
	}
}

// WithLogger overrides the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// Store is the in-memory application state seeded from mock data.
type Store struct {
	mu           sync.RWMutex
	user         domain.User
	classes      []domain.Class
	trainers     []domain.Trainer
	messages     []domain.Message
	achievements []domain.Achievement
	activities   []domain.Activity
	isDarkMode   bool
	selected     *domain.Achievement
	workout      *domain.Workout

	replies    *replies.Scheduler
	publisher  events.Publisher
	logger     *slog.Logger
	now        func() time.Time
	intn       func(n int) int
	replyDelay time.Duration
}

// New builds a Store from a fresh copy of the seed data.
func New(opts ...Option) *Store {
	seed := mockdata.Seed()
	s := &Store{
		user:         seed.User,
		classes:      seed.Classes,
		trainers:     seed.Trainers,
		messages:     seed.Messages,
		achievements: seed.Achievements,
		activities:   seed.Activities,
		isDarkMode:   true,
		replies:      replies.NewScheduler(),
		publisher:    events.NoopPublisher{},
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:          time.Now,
		intn:         rand.IntN,
		replyDelay:   DefaultReplyDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close cancels every pending trainer reply.
func (s *Store) Close() {
	s.replies.Close()
}

// Snapshot is a consistent copy of everything the dashboard renders.
type Snapshot struct {
	User                domain.User          `json:"user"`
	Classes             []domain.Class       `json:"classes"`
	Trainers            []domain.Trainer     `json:"trainers"`
	Achievements        []domain.Achievement `json:"achievements"`
	Activities          []domain.Activity    `json:"activities"`
	IsDarkMode          bool                 `json:"is_dark_mode"`
	SelectedAchievement *domain.Achievement  `json:"selected_achievement,omitempty"`
	WorkoutInProgress   bool                 `json:"workout_in_progress"`
	CurrentWorkout      *domain.Workout      `json:"current_workout,omitempty"`
}

// Snapshot copies the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		User:              s.user,
		Classes:           append([]domain.Class(nil), s.classes...),
		Trainers:          append([]domain.Trainer(nil), s.trainers...),
		Achievements:      append([]domain.Achievement(nil), s.achievements...),
		Activities:        append([]domain.Activity(nil), s.activities...),
		IsDarkMode:        s.isDarkMode,
		WorkoutInProgress: s.workout != nil,
	}
	if s.selected != nil {
		selected := *s.selected
		snap.SelectedAchievement = &selected
	}
	if s.workout != nil {
		workout := *s.workout
		snap.CurrentWorkout = &workout
	}
	return snap
}

// User returns the current member profile and stats.
func (s *Store) User() domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// UpdateProfile replaces the non-empty identity fields of the member.
func (s *Store) UpdateProfile(ctx context.Context, name, email string) domain.User {
	s.mu.Lock()
	if name != "" {
		s.user.Name = name
	}
	if email != "" {
		s.user.Email = email
	}
	user := s.user
	s.mu.Unlock()

	observability.RecordAction("update_profile")
	s.logger.InfoContext(ctx, "profile updated", slog.String("email", user.Email))
	return user
}

// IsDarkMode reports the colour scheme flag.
func (s *Store) IsDarkMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isDarkMode
}

// ToggleTheme flips the colour scheme flag and returns the new value.
func (s *Store) ToggleTheme(ctx context.Context) bool {
	s.mu.Lock()
	s.isDarkMode = !s.isDarkMode
	dark := s.isDarkMode
	s.mu.Unlock()

	observability.RecordAction("toggle_theme")
	s.publish(ctx, events.TypeThemeToggled, "theme", "user", events.ThemeToggled{IsDarkMode: dark})
	return dark
}

// CompleteChallenge awards the daily challenge XP. Repeated calls keep
// awarding XP; the app never marks the challenge as done.
func (s *Store) CompleteChallenge(ctx context.Context) domain.User {
	s.mu.Lock()
	s.user.Stats.XP += 50
	s.user.Stats.ChallengesCompleted++
	user := s.user
	s.mu.Unlock()

	observability.RecordAction("complete_challenge")
	s.publish(ctx, events.TypeChallengeCompleted, "user", user.Email, events.ChallengeCompleted{
		Title:               user.DailyChallenge.Title,
		XP:                  user.Stats.XP,
		ChallengesCompleted: user.Stats.ChallengesCompleted,
	})
	return user
}

func (s *Store) publish(ctx context.Context, eventType, aggregateType, aggregateID string, payload interface{}) {
	envelope, err := events.New(eventType, aggregateType, aggregateID, s.now(), payload)
	if err == nil {
		err = s.publisher.Publish(ctx, envelope)
	}
	if err != nil {
		observability.RecordPublishFailure(eventType)
		s.logger.WarnContext(ctx, "event publish failed",
			slog.String("event_type", eventType),
			slog.String("aggregate_id", aggregateID),
			slog.Any("error", err),
		)
	}
}
