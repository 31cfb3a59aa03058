// Package events defines the event envelope and payloads emitted when the
// application state changes.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the store.
const (
	TypeClassBooked        = "class.booked"
	TypeClassUnbooked      = "class.unbooked"
	TypeChallengeCompleted = "challenge.completed"
	TypeMessageSent        = "message.sent"
	TypeMessageReplied     = "message.replied"
	TypeWorkoutStarted     = "workout.started"
	TypeWorkoutCompleted   = "workout.completed"
	TypeThemeToggled       = "theme.toggled"
)

// Envelope wraps a payload with routing metadata.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
}

// New builds an envelope for payload.
func New(eventType, aggregateType, aggregateID string, occurredAt time.Time, payload interface{}) (Envelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		OccurredAt:    occurredAt.UTC(),
		Payload:       body,
	}, nil
}

// Publisher delivers envelopes to a downstream sink.
type Publisher interface {
	Publish(ctx context.Context, envelope Envelope) error
}

// NoopPublisher discards events.
type NoopPublisher struct{}

// Publish performs no action.
func (NoopPublisher) Publish(context.Context, Envelope) error { return nil }

// ClassBooking is emitted when a class is booked or unbooked.
type ClassBooking struct {
	ClassID  int64  `json:"class_id"`
	Title    string `json:"title"`
	IsBooked bool   `json:"is_booked"`
	Spots    int    `json:"spots"`
}

// ChallengeCompleted is emitted for every daily challenge completion.
type ChallengeCompleted struct {
	Title               string `json:"title"`
	XP                  int    `json:"xp"`
	ChallengesCompleted int    `json:"challenges_completed"`
}

// ChatMessage is emitted for user messages and trainer replies.
type ChatMessage struct {
	MessageID string    `json:"message_id"`
	TrainerID int64     `json:"trainer_id"`
	IsUser    bool      `json:"is_user"`
	Text      string    `json:"message"`
	SentAt    time.Time `json:"sent_at"`
}

// WorkoutStarted is emitted when a workout begins.
type WorkoutStarted struct {
	WorkoutType string    `json:"workout_type"`
	StartedAt   time.Time `json:"started_at"`
}

// WorkoutCompleted is emitted when a workout ends.
type WorkoutCompleted struct {
	WorkoutType string `json:"workout_type"`
	Minutes     int    `json:"minutes"`
	Calories    int    `json:"calories"`
	ActivityID  string `json:"activity_id"`
	Workouts    int    `json:"workouts"`
	XP          int    `json:"xp"`
}

// ThemeToggled is emitted when the colour scheme flag flips.
type ThemeToggled struct {
	IsDarkMode bool `json:"is_dark_mode"`
}
