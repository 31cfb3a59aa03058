// Package coach runs the AI coach screen: recommended workouts, a
// pausable workout session and the coach chat.
package coach

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Zeyad-Azima/GymFit/internal/domain"
	"github.com/Zeyad-Azima/GymFit/internal/mockdata"
	"github.com/Zeyad-Azima/GymFit/internal/observability"
	"github.com/Zeyad-Azima/GymFit/internal/replies"
)

// DefaultReplyDelay is how long the coach takes to answer.
const DefaultReplyDelay = 1500 * time.Millisecond

const chatKey = "coach"

var (
	// ErrWorkoutNotFound is returned for an unknown recommended workout.
	ErrWorkoutNotFound = errors.New("coach workout not found")
	// ErrEmptyMessage is returned when a chat message is blank.
	ErrEmptyMessage = errors.New("message is empty")
)

// WorkoutStore records workouts started from the coach.
type WorkoutStore interface {
	StartWorkout(ctx context.Context, workoutType string) (domain.Workout, error)
	EndWorkout(ctx context.Context) (domain.WorkoutResult, bool)
}

// ChatMessage is one line in the coach chat.
type ChatMessage struct {
	ID        string    `json:"id"`
	Text      string    `json:"message"`
	IsUser    bool      `json:"is_user"`
	Timestamp time.Time `json:"timestamp"`
}

// Session describes the selected workout and its timer.
type Session struct {
	WorkoutID      int64   `json:"workout_id,omitempty"`
	Title          string  `json:"title,omitempty"`
	Active         bool    `json:"active"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
}

// Option configures optional behaviour for the Coach.
type Option func(*Coach)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Coach) { c.now = now }
}

// WithRand overrides how reply indexes are drawn.
func WithRand(intn func(n int) int) Option {
	return func(c *Coach) { c.intn = intn }
}

// WithReplyDelay overrides the coach reply delay.
func WithReplyDelay(d time.Duration) Option {
	return func(c *Coach) { c.replyDelay = d }
}

// WithLogger overrides the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coach) { c.logger = logger }
}

// Coach holds the coach session and chat.
type Coach struct {
	store    WorkoutStore
	workouts []domain.CoachWorkout

	// toggleMu serialises Toggle and End so the store's active workout and
	// the selected one cannot diverge.
	toggleMu sync.Mutex

	mu          sync.Mutex
	selected    *domain.CoachWorkout
	active      bool
	startedAt   time.Time
	accumulated time.Duration
	chat        []ChatMessage

	replies    *replies.Scheduler
	replyDelay time.Duration
	now        func() time.Time
	intn       func(n int) int
	logger     *slog.Logger
}

// New constructs a Coach over store.
func New(store WorkoutStore, opts ...Option) *Coach {
	c := &Coach{
		store:      store,
		workouts:   mockdata.CoachWorkouts(),
		replies:    replies.NewScheduler(),
		replyDelay: DefaultReplyDelay,
		now:        time.Now,
		intn:       rand.IntN,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	for _, line := range mockdata.CoachGreeting() {
		c.chat = append(c.chat, ChatMessage{ID: uuid.NewString(), Text: line, Timestamp: c.now().UTC()})
	}
	return c
}

// Close cancels pending coach replies.
func (c *Coach) Close() {
	c.replies.Close()
}

// Workouts lists the recommended workouts.
func (c *Coach) Workouts() []domain.CoachWorkout {
	return append([]domain.CoachWorkout(nil), c.workouts...)
}

func (c *Coach) workout(id int64) (domain.CoachWorkout, bool) {
	for _, w := range c.workouts {
		if w.ID == id {
			return w, true
		}
	}
	return domain.CoachWorkout{}, false
}

// Toggle pauses or resumes the selected workout, or starts workoutID when
// a different one is chosen.
func (c *Coach) Toggle(ctx context.Context, workoutID int64) (Session, error) {
	w, ok := c.workout(workoutID)
	if !ok {
		return Session{}, ErrWorkoutNotFound
	}

	c.toggleMu.Lock()
	defer c.toggleMu.Unlock()

	c.mu.Lock()
	now := c.now()
	switch {
	case c.selected != nil && c.selected.ID == workoutID && c.active:
		c.accumulated += now.Sub(c.startedAt)
		c.active = false
		session := c.sessionLocked(now)
		c.mu.Unlock()
		observability.RecordAction("coach_pause")
		return session, nil
	case c.selected != nil && c.selected.ID == workoutID:
		c.startedAt = now
		c.active = true
		session := c.sessionLocked(now)
		c.mu.Unlock()
		observability.RecordAction("coach_resume")
		return session, nil
	}
	c.mu.Unlock()

	if _, err := c.store.StartWorkout(ctx, w.Title); err != nil {
		return Session{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	selected := w
	c.selected = &selected
	c.active = true
	c.startedAt = now
	c.accumulated = 0
	observability.RecordAction("coach_start")
	c.logger.InfoContext(ctx, "coach workout started", slog.Int64("workout_id", w.ID), slog.String("title", w.Title))
	return c.sessionLocked(now), nil
}

// End finishes the selected workout in the store and resets the session.
// It reports false when nothing is selected.
func (c *Coach) End(ctx context.Context) (domain.WorkoutResult, bool) {
	c.toggleMu.Lock()
	defer c.toggleMu.Unlock()

	c.mu.Lock()
	if c.selected == nil {
		c.mu.Unlock()
		return domain.WorkoutResult{}, false
	}
	c.selected = nil
	c.active = false
	c.accumulated = 0
	c.mu.Unlock()

	observability.RecordAction("coach_end")
	return c.store.EndWorkout(ctx)
}

// Elapsed is the active time of the current session, excluding pauses.
func (c *Coach) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elapsedLocked(c.now())
}

func (c *Coach) elapsedLocked(now time.Time) time.Duration {
	elapsed := c.accumulated
	if c.active {
		elapsed += now.Sub(c.startedAt)
	}
	return elapsed
}

// Session describes the current session.
func (c *Coach) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionLocked(c.now())
}

func (c *Coach) sessionLocked(now time.Time) Session {
	s := Session{Active: c.active, ElapsedSeconds: c.elapsedLocked(now).Seconds()}
	if c.selected != nil {
		s.WorkoutID = c.selected.ID
		s.Title = c.selected.Title
	}
	return s
}

// Chat returns the coach conversation.
func (c *Coach) Chat() []ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]ChatMessage(nil), c.chat...)
}

// Send appends a user message and schedules one coach reply.
func (c *Coach) Send(ctx context.Context, text string) (ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return ChatMessage{}, ErrEmptyMessage
	}

	c.mu.Lock()
	msg := ChatMessage{ID: uuid.NewString(), Text: text, IsUser: true, Timestamp: c.now().UTC()}
	c.chat = append(c.chat, msg)
	c.mu.Unlock()

	observability.RecordAction("coach_message")
	if err := c.replies.Schedule(chatKey, c.replyDelay, c.reply); err != nil {
		c.logger.WarnContext(ctx, "coach reply not scheduled", slog.Any("error", err))
	}
	return msg, nil
}

func (c *Coach) reply() {
	c.mu.Lock()
	c.chat = append(c.chat, ChatMessage{
		ID:        uuid.NewString(),
		Text:      domain.CoachReplies[c.intn(len(domain.CoachReplies))],
		Timestamp: c.now().UTC(),
	})
	c.mu.Unlock()
	observability.RecordReplyDelivered("coach")
}
