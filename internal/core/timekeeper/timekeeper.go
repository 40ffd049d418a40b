package timekeeper

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"timersync/internal/core/clock"
	"timersync/internal/core/model"
	"timersync/internal/core/scheduler"
)

// Options contains the collaborators of a TimeKeeper. Nil fields get no-op defaults.
type Options struct {
	Clock     clock.Clock
	Surface   Surface
	Publisher Publisher
	Logger    *log.Logger
}

// TimeKeeper is the single owner of the session state.
// Every command and every scheduler tick runs inside one critical section,
// so commands apply in arrival order and ticks never observe a half-applied command.
type TimeKeeper struct {
	mu        sync.Mutex
	config    model.Config
	clock     clock.Clock
	scheduler *scheduler.Scheduler
	surface   Surface
	publisher Publisher
	logger    *log.Logger

	state     model.State
	sessionID string
	title     string
	mode      model.Mode
	// endTime is authoritative while running; frozen while paused.
	endTime time.Time
	frozen  time.Duration

	tickGeneration uint64
	grace          clock.Timer
	surfaceLive    bool
}

// New creates an idle TimeKeeper.
func New(config model.Config, options Options) *TimeKeeper {
	config = config.WithDefaults()
	if options.Clock == nil {
		options.Clock = clock.System
	}
	if options.Surface == nil {
		options.Surface = nopSurface{}
	}
	if options.Publisher == nil {
		options.Publisher = nopPublisher{}
	}
	if options.Logger == nil {
		options.Logger = log.Default()
	}

	return &TimeKeeper{
		config:    config,
		clock:     options.Clock,
		scheduler: scheduler.New(options.Clock, config.RefreshInterval),
		surface:   options.Surface,
		publisher: options.Publisher,
		logger:    options.Logger,
		state:     model.StateIdle,
		mode:      model.ModeFocus,
	}
}

// Snapshot returns the current session state.
func (keeper *TimeKeeper) Snapshot() model.Snapshot {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.snapshotLocked(keeper.clock.Now())
}

// Start begins a session counting down to endTime, replacing any existing one.
// An empty title gets the configured default; mode is normalized with model.ParseMode.
func (keeper *TimeKeeper) Start(endTime time.Time, title string, mode model.Mode) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()

	keeper.teardownLocked()

	if title == "" {
		title = keeper.config.DefaultTitle
	}
	keeper.sessionID = uuid.NewString()
	keeper.title = title
	keeper.mode = model.ParseMode(string(mode))
	keeper.endTime = endTime
	keeper.frozen = 0
	keeper.state = model.StateRunning
	keeper.tickGeneration = keeper.scheduler.Arm(keeper.tick)

	keeper.projectLocked()
	keeper.emitLocked(ActionStarted)
}

// Pause freezes the countdown at max(0, endTime-now).
func (keeper *TimeKeeper) Pause() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.pauseLocked(0, false)
}

// PauseAt freezes the countdown at remaining, as reported by the application.
func (keeper *TimeKeeper) PauseAt(remaining time.Duration) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.pauseLocked(remaining, true)
}

// Resume restarts the countdown from the frozen remaining duration.
func (keeper *TimeKeeper) Resume() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.resumeLocked(time.Time{}, false)
}

// ResumeUntil restarts the countdown towards an explicit end time.
func (keeper *TimeKeeper) ResumeUntil(endTime time.Time) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.resumeLocked(endTime, true)
}

// Skip halts ticking and asks the application to advance the sequence.
// Session state is left untouched; the application answers with Start or Stop.
func (keeper *TimeKeeper) Skip() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.scheduler.Cancel()
	keeper.tickGeneration = 0
	keeper.emitLocked(ActionSkipRequested)
}

// Stop ends the session from any state and removes the surface.
func (keeper *TimeKeeper) Stop() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.stopLocked()
}

// RequestToggle forwards a pause/resume request to the application without applying it.
func (keeper *TimeKeeper) RequestToggle() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.emitLocked(ActionToggleRequested)
}

// HandleButton applies an action tapped on a status surface.
func (keeper *TimeKeeper) HandleButton(button model.Button) {
	switch button {
	case model.ButtonPause:
		keeper.Pause()
	case model.ButtonResume:
		keeper.Resume()
	case model.ButtonToggle:
		keeper.RequestToggle()
	case model.ButtonSkip:
		keeper.Skip()
	case model.ButtonStop:
		keeper.Stop()
	default:
		keeper.logger.Printf("timekeeper: unknown surface button %q", button)
	}
}

func (keeper *TimeKeeper) pauseLocked(remaining time.Duration, explicit bool) {
	if remaining < 0 {
		remaining = 0
	}

	switch keeper.state {
	case model.StateRunning:
		if explicit {
			keeper.frozen = remaining
		} else {
			keeper.frozen = model.RemainingUntil(keeper.endTime, keeper.clock.Now())
		}
	case model.StatePaused:
		if explicit {
			keeper.frozen = remaining
		}
	default:
		keeper.logger.Printf("timekeeper: pause ignored in state %s", keeper.state)
		return
	}

	keeper.state = model.StatePaused
	keeper.scheduler.Cancel()
	keeper.projectLocked()
	keeper.emitLocked(ActionPaused)
}

func (keeper *TimeKeeper) resumeLocked(endTime time.Time, explicit bool) {
	switch keeper.state {
	case model.StatePaused:
		if explicit {
			keeper.endTime = endTime
		} else {
			keeper.endTime = keeper.clock.Now().Add(keeper.frozen)
		}
		keeper.frozen = 0
	case model.StateRunning:
		if explicit {
			keeper.endTime = endTime
		}
	default:
		keeper.logger.Printf("timekeeper: resume ignored in state %s", keeper.state)
		return
	}

	keeper.state = model.StateRunning
	keeper.tickGeneration = keeper.scheduler.Arm(keeper.tick)
	keeper.projectLocked()
	keeper.emitLocked(ActionResumed)
}

func (keeper *TimeKeeper) stopLocked() {
	remaining := keeper.snapshotLocked(keeper.clock.Now()).Remaining
	keeper.teardownLocked()
	keeper.state = model.StateIdle
	keeper.sessionID = ""
	keeper.frozen = 0
	keeper.publisher.Publish(Event{
		Action:          ActionStopped,
		RemainingMillis: remaining.Milliseconds(),
	})
}

// tick runs on the scheduler. It drops ticks armed by a session or run that is no longer current.
func (keeper *TimeKeeper) tick(generation uint64) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()

	if keeper.state != model.StateRunning || generation != keeper.tickGeneration || !keeper.scheduler.Current(generation) {
		return
	}

	now := keeper.clock.Now()
	if model.RemainingUntil(keeper.endTime, now) <= 0 {
		keeper.finishLocked(now)
		return
	}
	keeper.projectLocked()
}

func (keeper *TimeKeeper) finishLocked(now time.Time) {
	keeper.state = model.StateFinished
	keeper.scheduler.Cancel()

	if err := keeper.surface.Complete(keeper.snapshotLocked(now)); err != nil {
		keeper.logger.Printf("timekeeper: complete surface: %v", err)
	}
	keeper.surfaceLive = true

	sessionID := keeper.sessionID
	keeper.grace = keeper.clock.AfterFunc(keeper.config.GraceDelay, func() {
		keeper.expire(sessionID)
	})
}

func (keeper *TimeKeeper) expire(sessionID string) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.state != model.StateFinished || keeper.sessionID != sessionID {
		return
	}
	keeper.grace = nil
	keeper.stopLocked()
}

// teardownLocked releases everything owned by the current session.
func (keeper *TimeKeeper) teardownLocked() {
	keeper.scheduler.Cancel()
	if keeper.grace != nil {
		keeper.grace.Stop()
		keeper.grace = nil
	}
	if keeper.surfaceLive {
		if err := keeper.surface.Remove(); err != nil {
			keeper.logger.Printf("timekeeper: remove surface: %v", err)
		}
		keeper.surfaceLive = false
	}
}

func (keeper *TimeKeeper) projectLocked() {
	if err := keeper.surface.Project(keeper.snapshotLocked(keeper.clock.Now())); err != nil {
		keeper.logger.Printf("timekeeper: project surface: %v", err)
	}
	keeper.surfaceLive = true
}

func (keeper *TimeKeeper) emitLocked(action Action) {
	snapshot := keeper.snapshotLocked(keeper.clock.Now())
	keeper.publisher.Publish(Event{
		Action:          action,
		RemainingMillis: snapshot.Remaining.Milliseconds(),
		IsPaused:        snapshot.Paused,
	})
}

func (keeper *TimeKeeper) snapshotLocked(now time.Time) model.Snapshot {
	snapshot := model.Snapshot{
		SessionID: keeper.sessionID,
		State:     keeper.state,
		Mode:      keeper.mode,
		Title:     keeper.title,
		EndTime:   keeper.endTime,
		Paused:    keeper.state == model.StatePaused,
		At:        now,
	}
	switch keeper.state {
	case model.StatePaused:
		snapshot.Remaining = keeper.frozen
	case model.StateRunning:
		snapshot.Remaining = model.RemainingUntil(keeper.endTime, now)
	}
	return snapshot
}
