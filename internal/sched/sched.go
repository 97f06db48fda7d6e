// Package sched is a minimal delay+callback scheduler. The product simulates
// its asynchronous events (bot replies, deferred logout) with fixed delays;
// routing them through a clockwork clock lets tests advance a fake clock
// instead of sleeping.
package sched

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

type Scheduler struct {
	clock clockwork.Clock

	mu      sync.Mutex
	stop    chan struct{}
	stopped bool
	wg      sync.WaitGroup
}

func New(clock clockwork.Clock) *Scheduler {
	return &Scheduler{clock: clock, stop: make(chan struct{})}
}

// After runs fn once d has elapsed on the scheduler's clock. Tasks pending
// when Stop is called never fire.
func (s *Scheduler) After(d time.Duration, fn func()) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		select {
		case <-s.clock.After(d):
			fn()
		case <-s.stop:
		}
	}()
}

// Stop cancels pending tasks and waits for in-flight callbacks to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.stopped {
		s.stopped = true
		close(s.stop)
	}
	s.mu.Unlock()
	s.wg.Wait()
}
