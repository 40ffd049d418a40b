package clock

import (
	"sort"
	"sync"
	"time"
)

// Manual is a Clock that only moves when Advance is called.
// Due callbacks run synchronously on the goroutine calling Advance, in deadline order.
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	seq    uint64
	timers []*manualTimer
}

type manualTimer struct {
	clock *Manual
	at    time.Time
	seq   uint64
	fn    func()
}

// NewManual returns a Manual clock set to start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the current manual time.
func (clock *Manual) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

// AfterFunc registers f to run once the clock has advanced by d.
func (clock *Manual) AfterFunc(d time.Duration, f func()) Timer {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.seq++
	timer := &manualTimer{clock: clock, at: clock.now.Add(d), seq: clock.seq, fn: f}
	clock.timers = append(clock.timers, timer)
	return timer
}

// Advance moves the clock forward by d, firing every callback that falls due.
func (clock *Manual) Advance(d time.Duration) {
	clock.mu.Lock()
	target := clock.now.Add(d)
	clock.mu.Unlock()

	for {
		clock.mu.Lock()
		next := clock.popDueLocked(target)
		if next == nil {
			clock.now = target
			clock.mu.Unlock()
			return
		}
		clock.now = next.at
		clock.mu.Unlock()
		next.fn()
	}
}

// Pending returns the number of registered callbacks that have not fired.
func (clock *Manual) Pending() int {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return len(clock.timers)
}

func (clock *Manual) popDueLocked(target time.Time) *manualTimer {
	if len(clock.timers) == 0 {
		return nil
	}
	sort.Slice(clock.timers, func(i, j int) bool {
		if clock.timers[i].at.Equal(clock.timers[j].at) {
			return clock.timers[i].seq < clock.timers[j].seq
		}
		return clock.timers[i].at.Before(clock.timers[j].at)
	})
	next := clock.timers[0]
	if next.at.After(target) {
		return nil
	}
	clock.timers = clock.timers[1:]
	return next
}

func (timer *manualTimer) Stop() bool {
	clock := timer.clock
	clock.mu.Lock()
	defer clock.mu.Unlock()
	for i, pending := range clock.timers {
		if pending == timer {
			clock.timers = append(clock.timers[:i], clock.timers[i+1:]...)
			return true
		}
	}
	return false
}
