// Package timer provides the production host.Timer backed by the runtime
// clock. Every outstanding callback is tracked so Stop can cancel the lot,
// which keeps teardown free of stray goroutine wakeups.
package timer

import (
	"sync"
	"time"

	"github.com/dshills/keyburst/internal/host"
)

// Service schedules delayed callbacks with time.AfterFunc.
type Service struct {
	mu      sync.Mutex
	next    host.TimerHandle
	pending map[host.TimerHandle]*time.Timer
	stopped bool
}

// New creates a running service.
func New() *Service {
	return &Service{pending: make(map[host.TimerHandle]*time.Timer)}
}

// Schedule implements host.Timer. After Stop it returns host.NoTimer and
// schedules nothing.
func (s *Service) Schedule(delay time.Duration, fn func()) host.TimerHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return host.NoTimer
	}

	s.next++
	h := s.next
	s.pending[h] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		_, live := s.pending[h]
		delete(s.pending, h)
		s.mu.Unlock()
		// A Cancel that lost the race to AfterFunc already removed the
		// entry; the callback must not run in that case.
		if live {
			fn()
		}
	})
	return h
}

// Cancel implements host.Timer. Idempotent.
func (s *Service) Cancel(h host.TimerHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.pending[h]; ok {
		delete(s.pending, h)
		t.Stop()
	}
}

// Stop cancels every outstanding callback and rejects new ones.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	for h, t := range s.pending {
		delete(s.pending, h)
		t.Stop()
	}
}

// PendingCount returns the number of callbacks not yet fired or cancelled.
func (s *Service) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
