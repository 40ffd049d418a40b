// Package relay carries commands from the hosting application into the timer core
// and action events back out. Delivery is best effort in both directions.
package relay

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"timersync/internal/core/timekeeper"
)

var (
	// ErrNotAttached is reported when an event is published with no listener attached.
	ErrNotAttached = errors.New("no listener attached")
	// ErrDropped is reported when a listener's buffer is full.
	ErrDropped = errors.New("listener buffer full")
)

// Listener receives events. Deliver must not block and must not call back into the Hub.
type Listener interface {
	Deliver(event timekeeper.Event) error
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(event timekeeper.Event) error

// Deliver calls fn.
func (fn ListenerFunc) Deliver(event timekeeper.Event) error {
	return fn(event)
}

// Result is the outcome of delivering one event to one listener.
type Result struct {
	Listener int
	Err      error
}

// Hub holds the attached listeners. Listeners are registered explicitly and
// detached through the function returned by Attach, so nothing dangles after detach.
type Hub struct {
	mu        sync.Mutex
	listeners map[int]Listener
	order     []int
	nextID    int
	logger    *log.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{listeners: make(map[int]Listener), logger: logger}
}

// Attach registers listener and returns its detach function. Detach is idempotent.
func (hub *Hub) Attach(listener Listener) (detach func()) {
	hub.mu.Lock()
	hub.nextID++
	id := hub.nextID
	hub.listeners[id] = listener
	hub.order = append(hub.order, id)
	hub.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { hub.detach(id) })
	}
}

// Attached returns the number of attached listeners.
func (hub *Hub) Attached() int {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	return len(hub.listeners)
}

// Deliver attempts delivery to every listener and reports each outcome.
// With no listener attached it returns a single ErrNotAttached result.
func (hub *Hub) Deliver(event timekeeper.Event) []Result {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	if len(hub.order) == 0 {
		return []Result{{Err: ErrNotAttached}}
	}
	results := make([]Result, 0, len(hub.order))
	for _, id := range hub.order {
		results = append(results, Result{Listener: id, Err: safeDeliver(hub.listeners[id], event)})
	}
	return results
}

// Publish delivers event and logs failures. It never fails and never blocks on a listener.
func (hub *Hub) Publish(event timekeeper.Event) {
	for _, result := range hub.Deliver(event) {
		if result.Err != nil {
			hub.logger.Printf("relay: drop %s for listener %d: %v", event.Action, result.Listener, result.Err)
		}
	}
}

func (hub *Hub) detach(id int) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	delete(hub.listeners, id)
	for i, existing := range hub.order {
		if existing == id {
			hub.order = append(hub.order[:i], hub.order[i+1:]...)
			break
		}
	}
}

func safeDeliver(listener Listener, event timekeeper.Event) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("listener panic: %v", recovered)
		}
	}()
	return listener.Deliver(event)
}

// Subscription is a buffered channel listener.
type Subscription struct {
	events chan timekeeper.Event
	detach func()
	once   sync.Once
}

// Subscribe attaches a channel listener with the given buffer size.
func (hub *Hub) Subscribe(buffer int) *Subscription {
	if buffer <= 0 {
		buffer = 1
	}
	subscription := &Subscription{events: make(chan timekeeper.Event, buffer)}
	subscription.detach = hub.Attach(subscription)
	return subscription
}

// Events returns the receive side of the subscription. It is closed by Close.
func (subscription *Subscription) Events() <-chan timekeeper.Event {
	return subscription.events
}

// Deliver enqueues event or reports ErrDropped when the buffer is full.
func (subscription *Subscription) Deliver(event timekeeper.Event) error {
	select {
	case subscription.events <- event:
		return nil
	default:
		return ErrDropped
	}
}

// Close detaches the subscription and closes its channel.
func (subscription *Subscription) Close() {
	subscription.once.Do(func() {
		subscription.detach()
		close(subscription.events)
	})
}
