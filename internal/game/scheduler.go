package game

import "time"

// Scheduler runs deferred callbacks against simulation time.
// It never runs on its own: the owner advances it once per tick.
type Scheduler struct {
	now   time.Duration
	seq   uint64
	tasks []*task
}

type task struct {
	at       time.Duration
	every    time.Duration // zero for one-shot
	fn       func()
	seq      uint64
	canceled bool
	done     bool
}

// Handle cancels a scheduled callback. The zero Handle is valid and inert.
type Handle struct {
	t *task
}

// Cancel stops the callback from firing again. Safe to call repeatedly.
func (h Handle) Cancel() {
	if h.t != nil {
		h.t.canceled = true
	}
}

// Pending reports whether the callback can still fire.
func (h Handle) Pending() bool {
	return h.t != nil && !h.t.canceled && !h.t.done
}

// NewScheduler creates a scheduler at time zero.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Now is the accumulated simulation time.
func (s *Scheduler) Now() time.Duration { return s.now }

// After runs fn once, d from now.
func (s *Scheduler) After(d time.Duration, fn func()) Handle {
	return s.add(d, 0, fn)
}

// Every runs fn every d until canceled. A non-positive period is clamped to 1ms.
func (s *Scheduler) Every(d time.Duration, fn func()) Handle {
	if d <= 0 {
		d = time.Millisecond
	}
	return s.add(d, d, fn)
}

func (s *Scheduler) add(d, every time.Duration, fn func()) Handle {
	if d < 0 {
		d = 0
	}
	s.seq++
	t := &task{at: s.now + d, every: every, fn: fn, seq: s.seq}
	s.tasks = append(s.tasks, t)
	return Handle{t: t}
}

// Advance moves time forward and fires everything that came due, earliest first.
// Callbacks may schedule or cancel other callbacks.
func (s *Scheduler) Advance(dt time.Duration) {
	if dt > 0 {
		s.now += dt
	}
	for {
		next := s.nextDue()
		if next == nil {
			break
		}
		if next.every > 0 {
			next.at += next.every
		} else {
			next.done = true
		}
		next.fn()
	}
	s.compact()
}

func (s *Scheduler) nextDue() *task {
	var best *task
	for _, t := range s.tasks {
		if t.canceled || t.done || t.at > s.now {
			continue
		}
		if best == nil || t.at < best.at || (t.at == best.at && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

func (s *Scheduler) compact() {
	live := s.tasks[:0]
	for _, t := range s.tasks {
		if !t.canceled && !t.done {
			live = append(live, t)
		}
	}
	for i := len(live); i < len(s.tasks); i++ {
		s.tasks[i] = nil
	}
	s.tasks = live
}

// Len returns the number of callbacks that can still fire.
func (s *Scheduler) Len() int {
	n := 0
	for _, t := range s.tasks {
		if !t.canceled && !t.done {
			n++
		}
	}
	return n
}

// CancelAll drops every pending callback.
func (s *Scheduler) CancelAll() {
	for _, t := range s.tasks {
		t.canceled = true
	}
	s.tasks = s.tasks[:0]
}
