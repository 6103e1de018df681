package seatrush

// Scheduler runs countdowns off the session's one-second tick instead of
// free-running timers, so cancellation is structural: stopping a timer
// removes its registration and nothing stale can fire after a new game
// starts. Verification challenges arm their timeouts here.
type Scheduler struct {
	nextID int
	timers map[int]*Timer
}

func NewScheduler() *Scheduler {
	return &Scheduler{timers: make(map[int]*Timer)}
}

// Timer is a registered countdown.
type Timer struct {
	id        int
	remaining int
	fn        func()
	sched     *Scheduler
}

// After registers fn to fire once after the given number of ticks.
func (s *Scheduler) After(ticks int, fn func()) *Timer {
	s.nextID++
	t := &Timer{id: s.nextID, remaining: ticks, fn: fn, sched: s}
	s.timers[t.id] = t
	return t
}

// Stop deregisters the timer. Safe to call after it fired.
func (t *Timer) Stop() {
	delete(t.sched.timers, t.id)
}

// Remaining reports ticks left before the timer fires.
func (t *Timer) Remaining() int { return t.remaining }

// Advance moves the scheduler forward n ticks, firing and deregistering any
// timer that reaches zero. Callbacks may register or stop timers; timers
// registered during a callback start counting on the next Advance.
func (s *Scheduler) Advance(n int) {
	for i := 0; i < n; i++ {
		due := make([]*Timer, 0, 1)
		for _, t := range s.timers {
			t.remaining--
			if t.remaining <= 0 {
				due = append(due, t)
			}
		}
		for _, t := range due {
			t.Stop()
			t.fn()
		}
	}
}

// Reset drops every registered timer.
func (s *Scheduler) Reset() {
	s.timers = make(map[int]*Timer)
}
