// Package scheduler drives the periodic repaint of a running session.
package scheduler

import (
	"sync"
	"time"

	"timersync/internal/core/clock"
)

// Task is invoked on every tick with the generation that armed it.
type Task func(generation uint64)

// Scheduler runs a single repeating task at a fixed interval.
// Each Arm starts a new generation; Cancel and re-Arm invalidate ticks of older ones.
// The next tick is only scheduled after the current one returns, so ticks never overlap.
type Scheduler struct {
	mu         sync.Mutex
	clock      clock.Clock
	interval   time.Duration
	generation uint64
	armed      bool
	timer      clock.Timer
}

// New creates a scheduler. A non-positive interval falls back to two seconds.
func New(clk clock.Clock, interval time.Duration) *Scheduler {
	if clk == nil {
		clk = clock.System
	}
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Scheduler{clock: clk, interval: interval}
}

// Interval returns the tick cadence.
func (scheduler *Scheduler) Interval() time.Duration {
	return scheduler.interval
}

// Arm cancels any pending tick and schedules task to run every interval.
// It returns the new generation.
func (scheduler *Scheduler) Arm(task Task) uint64 {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	scheduler.stopTimerLocked()
	scheduler.generation++
	scheduler.armed = true
	scheduler.scheduleLocked(scheduler.generation, task)
	return scheduler.generation
}

// Cancel stops ticking. Ticks already in flight observe a stale generation.
func (scheduler *Scheduler) Cancel() {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	scheduler.stopTimerLocked()
	scheduler.generation++
	scheduler.armed = false
}

// Armed reports whether a task is scheduled.
func (scheduler *Scheduler) Armed() bool {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	return scheduler.armed
}

// Current reports whether generation is the live, armed generation.
func (scheduler *Scheduler) Current(generation uint64) bool {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	return scheduler.armed && scheduler.generation == generation
}

func (scheduler *Scheduler) scheduleLocked(generation uint64, task Task) {
	scheduler.timer = scheduler.clock.AfterFunc(scheduler.interval, func() {
		scheduler.fire(generation, task)
	})
}

func (scheduler *Scheduler) fire(generation uint64, task Task) {
	if !scheduler.Current(generation) {
		return
	}
	task(generation)

	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	if scheduler.armed && scheduler.generation == generation {
		scheduler.scheduleLocked(generation, task)
	}
}

func (scheduler *Scheduler) stopTimerLocked() {
	if scheduler.timer != nil {
		scheduler.timer.Stop()
		scheduler.timer = nil
	}
}
