package timekeeper

import "timersync/internal/core/model"

// Action names the reason an Event was emitted.
type Action string

const (
	ActionStarted         Action = "started"
	ActionPaused          Action = "paused"
	ActionResumed         Action = "resumed"
	ActionStopped         Action = "stopped"
	ActionSkipRequested   Action = "skipRequested"
	ActionToggleRequested Action = "toggleRequested"
)

// Event is relayed to the hosting application after every command and surface action.
// It carries enough for the application to reconcile its own timer view.
type Event struct {
	Action          Action `json:"action"`
	RemainingMillis int64  `json:"remainingMillis"`
	IsPaused        bool   `json:"isPaused"`
}

// Surface receives projections of the session.
type Surface interface {
	Project(snapshot model.Snapshot) error
	Complete(snapshot model.Snapshot) error
	Remove() error
}

// Publisher relays events to the hosting application. Publish must not block.
type Publisher interface {
	Publish(event Event)
}

type nopSurface struct{}

func (nopSurface) Project(model.Snapshot) error  { return nil }
func (nopSurface) Complete(model.Snapshot) error { return nil }
func (nopSurface) Remove() error                 { return nil }

type nopPublisher struct{}

func (nopPublisher) Publish(Event) {}
