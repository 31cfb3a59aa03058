package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestToggleBookingRoundTrip(t *testing.T) {
	class := Class{ID: 1, Spots: 3}

	require.NoError(t, class.ToggleBooking())
	require.True(t, class.IsBooked)
	require.Equal(t, 2, class.Spots)

	require.NoError(t, class.ToggleBooking())
	require.False(t, class.IsBooked)
	require.Equal(t, 3, class.Spots)
}

// Booking a class with no spots left is refused on purpose. The mobile app
// let Spots go negative; the service keeps the count non-negative instead.
func TestToggleBookingRejectsFullClass(t *testing.T) {
	class := Class{ID: 1, Spots: 0}

	require.ErrorIs(t, class.ToggleBooking(), ErrClassFull)
	require.False(t, class.IsBooked)
	require.Zero(t, class.Spots)
}

func TestToggleBookingUnbooksFullClass(t *testing.T) {
	class := Class{ID: 1, Spots: 0, IsBooked: true}

	require.NoError(t, class.ToggleBooking())
	require.False(t, class.IsBooked)
	require.Equal(t, 1, class.Spots)
}

func TestWorkoutFinishUsesWholeMinutes(t *testing.T) {
	start := time.Date(2026, time.March, 2, 7, 0, 0, 0, time.UTC)
	w := Workout{Type: "HIIT", StartTime: start}

	minutes, calories := w.Finish(start.Add(12*time.Minute + 59*time.Second))
	require.Equal(t, 12, minutes)
	require.Equal(t, 96, calories)

	minutes, calories = w.Finish(start.Add(-time.Minute))
	require.Zero(t, minutes)
	require.Zero(t, calories)
}

func TestGoalDaysLeftAndCompletion(t *testing.T) {
	now := time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)
	g := Goal{Target: 10, Current: 4, Deadline: now.Add(36 * time.Hour)}

	require.Equal(t, 2, g.DaysLeft(now))
	require.False(t, g.Completed())
	require.InDelta(t, 40.0, g.Progress(), 0.001)

	g.Current = 12
	require.True(t, g.Completed())
	require.InDelta(t, 100.0, g.Progress(), 0.001)

	g.Deadline = now.Add(-50 * time.Hour)
	require.Equal(t, -2, g.DaysLeft(now))
}

func TestGoalTypeUnits(t *testing.T) {
	require.True(t, GoalCardio.Valid())
	require.Equal(t, "minutes", GoalCardio.DefaultUnit())
	require.False(t, GoalType("swimming").Valid())
}
