// Package replies schedules delayed, cancellable tasks grouped by key. The
// chat features use it to deliver simulated replies after a pause.
package replies

import (
	"errors"
	"sync"
	"time"
)

// ErrClosed is returned when scheduling on a closed Scheduler.
var ErrClosed = errors.New("scheduler closed")

type task struct {
	id    uint64
	timer *time.Timer
}

// Scheduler runs each task once after its delay unless it is cancelled first.
type Scheduler struct {
	mu      sync.Mutex
	nextID  uint64
	pending map[string][]task
	closed  bool
	wg      sync.WaitGroup
}

// NewScheduler constructs an empty Scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{pending: make(map[string][]task)}
}

// Schedule registers fn to run after delay under key.
func (s *Scheduler) Schedule(key string, delay time.Duration, fn func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	s.nextID++
	id := s.nextID
	s.wg.Add(1)
	timer := time.AfterFunc(delay, func() {
		defer s.wg.Done()
		if !s.claim(key, id) {
			return
		}
		fn()
	})
	s.pending[key] = append(s.pending[key], task{id: id, timer: timer})
	return nil
}

// claim removes the task from the pending set. It reports false when the
// task was cancelled after its timer fired.
func (s *Scheduler) claim(key string, id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := s.pending[key]
	for i, t := range tasks {
		if t.id == id {
			s.pending[key] = append(tasks[:i], tasks[i+1:]...)
			if len(s.pending[key]) == 0 {
				delete(s.pending, key)
			}
			return true
		}
	}
	return false
}

// Cancel stops every pending task under key and returns how many were stopped.
func (s *Scheduler) Cancel(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelLocked(key)
}

func (s *Scheduler) cancelLocked(key string) int {
	tasks := s.pending[key]
	delete(s.pending, key)
	for _, t := range tasks {
		if t.timer.Stop() {
			s.wg.Done()
		}
	}
	return len(tasks)
}

// Pending reports the number of outstanding tasks under key.
func (s *Scheduler) Pending(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending[key])
}

// Close cancels all pending tasks, waits for running ones and rejects new work.
func (s *Scheduler) Close() {
	s.mu.Lock()
	s.closed = true
	for key := range s.pending {
		s.cancelLocked(key)
	}
	s.mu.Unlock()

	s.wg.Wait()
}
