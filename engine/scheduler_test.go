package engine

import (
	"sync"
	"time"
)

type manualTimer struct {
	delay   time.Duration
	f       func()
	stopped bool
}

type manualScheduler struct {
	m       sync.Mutex
	pending []*manualTimer
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.m.Lock()
	defer s.m.Unlock()

	t := &manualTimer{delay: d, f: f}
	s.pending = append(s.pending, t)

	return &manualTimerHandle{s: s, t: t}
}

type manualTimerHandle struct {
	s *manualScheduler
	t *manualTimer
}

func (h *manualTimerHandle) Stop() bool {
	h.s.m.Lock()
	defer h.s.m.Unlock()

	wasPending := !h.t.stopped
	h.t.stopped = true

	return wasPending
}

func (s *manualScheduler) live() []*manualTimer {
	s.m.Lock()
	defer s.m.Unlock()

	var live []*manualTimer

	for _, t := range s.pending {
		if !t.stopped {
			live = append(live, t)
		}
	}

	return live
}

// fire runs the oldest live timer on the calling goroutine and returns the
// delay it was scheduled with.
func (s *manualScheduler) fire() (time.Duration, bool) {
	s.m.Lock()

	var next *manualTimer

	for _, t := range s.pending {
		if !t.stopped {
			next = t
			break
		}
	}

	if next == nil {
		s.m.Unlock()
		return 0, false
	}

	next.stopped = true
	s.m.Unlock()

	next.f()

	return next.delay, true
}

var _ Scheduler = (*manualScheduler)(nil)
