package model

import "time"

// Mode is the kind of interval being timed. It is fixed for a session's lifetime.
type Mode string

const (
	ModeFocus      Mode = "focus"
	ModeShortBreak Mode = "shortBreak"
	ModeLongBreak  Mode = "longBreak"
)

// ParseMode maps a wire value to a Mode. Unknown and empty values fall back to focus.
func ParseMode(value string) Mode {
	switch Mode(value) {
	case ModeShortBreak:
		return ModeShortBreak
	case ModeLongBreak:
		return ModeLongBreak
	default:
		return ModeFocus
	}
}

// IsBreak reports whether the mode is one of the break modes.
func (mode Mode) IsBreak() bool {
	return mode == ModeShortBreak || mode == ModeLongBreak
}

// State is the controller lifecycle state.
type State string

const (
	StateIdle     State = "idle"
	StateRunning  State = "running"
	StatePaused   State = "paused"
	StateFinished State = "finished"
)

// Button is an action affordance offered by a status surface.
type Button string

const (
	ButtonPause  Button = "pause"
	ButtonResume Button = "resume"
	ButtonToggle Button = "toggle"
	ButtonSkip   Button = "skip"
	ButtonStop   Button = "stop"
)

// Snapshot is a read-only copy of the session taken at At.
// Remaining is the frozen value while paused and max(0, EndTime-At) otherwise.
type Snapshot struct {
	SessionID string
	State     State
	Mode      Mode
	Title     string
	EndTime   time.Time
	Remaining time.Duration
	Paused    bool
	At        time.Time
}

// Active reports whether a session is running or paused.
func (snapshot Snapshot) Active() bool {
	return snapshot.State == StateRunning || snapshot.State == StatePaused
}

// RemainingUntil returns max(0, end-now).
func RemainingUntil(end, now time.Time) time.Duration {
	remaining := end.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}
