package replies

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestScheduleRunsOnce(t *testing.T) {
	s := NewScheduler()
	defer s.Close()

	var calls atomic.Int32
	require.NoError(t, s.Schedule("trainer:1", 5*time.Millisecond, func() { calls.Add(1) }))
	require.Equal(t, 1, s.Pending("trainer:1"))

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return s.Pending("trainer:1") == 0 }, time.Second, 5*time.Millisecond)
}

func TestCancelStopsOnlyMatchingKey(t *testing.T) {
	s := NewScheduler()
	defer s.Close()

	var cancelled, kept atomic.Int32
	require.NoError(t, s.Schedule("trainer:1", 50*time.Millisecond, func() { cancelled.Add(1) }))
	require.NoError(t, s.Schedule("trainer:1", 50*time.Millisecond, func() { cancelled.Add(1) }))
	require.NoError(t, s.Schedule("trainer:2", 10*time.Millisecond, func() { kept.Add(1) }))

	require.Equal(t, 2, s.Cancel("trainer:1"))
	require.Zero(t, s.Pending("trainer:1"))

	require.Eventually(t, func() bool { return kept.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(80 * time.Millisecond)
	require.Zero(t, cancelled.Load())
}

func TestCloseRejectsNewWork(t *testing.T) {
	s := NewScheduler()

	var calls atomic.Int32
	require.NoError(t, s.Schedule("coach", time.Hour, func() { calls.Add(1) }))
	s.Close()

	require.ErrorIs(t, s.Schedule("coach", time.Millisecond, func() { calls.Add(1) }), ErrClosed)
	require.Zero(t, s.Pending("coach"))
	require.Zero(t, calls.Load())
}
