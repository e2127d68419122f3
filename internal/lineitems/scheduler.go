package lineitems

import (
	"strings"
	"sync"
	"time"
)

// Scheduler runs delayed callbacks keyed by string. Scheduling under a key
// that already has a pending callback cancels the previous one, which gives
// per-(row, tax-type) debouncing when keys combine the two.
type Scheduler struct {
	mu      sync.Mutex
	pending map[string]*time.Timer
	stopped bool
}

// NewScheduler creates an empty Scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{pending: make(map[string]*time.Timer)}
}

// Schedule runs fn after delay, replacing any pending callback under key.
// A non-positive delay still goes through the timer so fn never runs on the
// caller's goroutine.
func (s *Scheduler) Schedule(key string, delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	if t, ok := s.pending[key]; ok {
		t.Stop()
	}
	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		s.mu.Lock()
		// A newer timer may have replaced this one between firing and
		// acquiring the lock; only the current owner of the key runs.
		if s.pending[key] != timer {
			s.mu.Unlock()
			return
		}
		delete(s.pending, key)
		s.mu.Unlock()
		fn()
	})
	s.pending[key] = timer
}

// Cancel stops any pending callback under key.
func (s *Scheduler) Cancel(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.pending[key]; ok {
		t.Stop()
		delete(s.pending, key)
	}
}

// CancelPrefix stops every pending callback whose key starts with prefix.
// Used when a row is deleted so none of its timers fire against a defunct row.
func (s *Scheduler) CancelPrefix(prefix string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, t := range s.pending {
		if strings.HasPrefix(key, prefix) {
			t.Stop()
			delete(s.pending, key)
		}
	}
}

// Stop cancels all pending callbacks and rejects further scheduling.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	for key, t := range s.pending {
		t.Stop()
		delete(s.pending, key)
	}
}

// PendingLen returns the number of callbacks currently scheduled.
func (s *Scheduler) PendingLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
