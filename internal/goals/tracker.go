// Package goals tracks member-defined fitness goals.
package goals

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Zeyad-Azima/GymFit/internal/domain"
	"github.com/Zeyad-Azima/GymFit/internal/mockdata"
)

var (
	// ErrGoalNotFound is returned when a goal id is unknown.
	ErrGoalNotFound = errors.New("goal not found")
	// ErrInvalidGoal wraps goal validation failures.
	ErrInvalidGoal = errors.New("invalid goal")
	// ErrInvalidFilter is returned for an unknown list filter.
	ErrInvalidFilter = errors.New("invalid goal filter")
)

// Filter selects a subset of goals.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
	FilterOverdue   Filter = "overdue"
)

// View is a goal with its derived fields.
type View struct {
	domain.Goal
	DaysLeft  int     `json:"days_left"`
	Completed bool    `json:"completed"`
	Progress  float64 `json:"progress"`
}

// Summary aggregates completion across every goal.
type Summary struct {
	Completed       int     `json:"completed"`
	Total           int     `json:"total"`
	OverallProgress float64 `json:"overall_progress"`
}

// AddInput captures a new goal.
type AddInput struct {
	Title       string
	Description string
	Type        domain.GoalType
	Target      float64
	Current     float64
	Unit        string
	Deadline    time.Time
}

// Tracker holds goals in memory.
type Tracker struct {
	mu    sync.RWMutex
	goals []domain.Goal
	now   func() time.Time
}

// NewTracker constructs a Tracker seeded with the starter goals.
func NewTracker(now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{goals: mockdata.Goals(now()), now: now}
}

// Add validates and stores a goal.
func (t *Tracker) Add(ctx context.Context, in AddInput) (View, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return View{}, invalid("title is required")
	}
	if in.Target <= 0 {
		return View{}, invalid("target must be > 0")
	}
	if in.Current < 0 {
		return View{}, invalid("current must be >= 0")
	}
	if in.Deadline.IsZero() {
		return View{}, invalid("deadline is required")
	}
	if in.Type == "" {
		in.Type = domain.GoalGeneral
	}
	if !in.Type.Valid() {
		return View{}, invalid("unknown goal type " + string(in.Type))
	}
	if strings.TrimSpace(in.Unit) == "" {
		in.Unit = in.Type.DefaultUnit()
	}

	now := t.now()
	goal := domain.Goal{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: strings.TrimSpace(in.Description),
		Type:        in.Type,
		Target:      in.Target,
		Current:     in.Current,
		Unit:        in.Unit,
		Deadline:    in.Deadline.UTC(),
		CreatedAt:   now.UTC(),
	}

	t.mu.Lock()
	t.goals = append(t.goals, goal)
	t.mu.Unlock()

	return toView(goal, now), nil
}

// UpdateProgress sets the current value of a goal.
func (t *Tracker) UpdateProgress(ctx context.Context, id string, current float64) (View, error) {
	if current < 0 {
		return View{}, invalid("current must be >= 0")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range t.goals {
		if t.goals[i].ID == id {
			t.goals[i].Current = current
			return toView(t.goals[i], t.now()), nil
		}
	}
	return View{}, ErrGoalNotFound
}

// Delete removes a goal.
func (t *Tracker) Delete(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range t.goals {
		if t.goals[i].ID == id {
			t.goals = append(t.goals[:i], t.goals[i+1:]...)
			return nil
		}
	}
	return ErrGoalNotFound
}

// List returns the goals matching filter in insertion order. An empty
// filter means all.
func (t *Tracker) List(ctx context.Context, filter Filter) ([]View, error) {
	if filter == "" {
		filter = FilterAll
	}
	switch filter {
	case FilterAll, FilterActive, FilterCompleted, FilterOverdue:
	default:
		return nil, ErrInvalidFilter
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	now := t.now()
	out := make([]View, 0, len(t.goals))
	for _, g := range t.goals {
		v := toView(g, now)
		if matches(v, filter) {
			out = append(out, v)
		}
	}
	return out, nil
}

func matches(v View, filter Filter) bool {
	switch filter {
	case FilterActive:
		return !v.Completed && v.DaysLeft > 0
	case FilterCompleted:
		return v.Completed
	case FilterOverdue:
		return v.DaysLeft < 0 && !v.Completed
	default:
		return true
	}
}

// Summary reports completed versus total goals.
func (t *Tracker) Summary(ctx context.Context) Summary {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s := Summary{Total: len(t.goals)}
	for _, g := range t.goals {
		if g.Completed() {
			s.Completed++
		}
	}
	if s.Total > 0 {
		s.OverallProgress = float64(s.Completed) / float64(s.Total) * 100
	}
	return s
}

func toView(g domain.Goal, now time.Time) View {
	return View{
		Goal:      g,
		DaysLeft:  g.DaysLeft(now),
		Completed: g.Completed(),
		Progress:  g.Progress(),
	}
}

func invalid(detail string) error {
	return &ValidationError{Detail: detail}
}

// ValidationError describes why a goal was rejected.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string {
	return "invalid goal: " + e.Detail
}

// Unwrap lets errors.Is match ErrInvalidGoal.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidGoal
}
