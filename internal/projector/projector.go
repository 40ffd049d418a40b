package projector

import (
	"errors"
	"sync"

	"timersync/internal/core/model"
)

// Backend displays surfaces on a platform. Show replaces the surface with the same ID in place.
type Backend interface {
	Show(surface Surface) error
	Remove(id int) error
}

// Permissioner is implemented by backends that must ask before displaying anything.
type Permissioner interface {
	EnsurePermission() error
}

// Noop is selected when the platform lacks a status surface. Every call succeeds.
type Noop struct{}

func (Noop) Show(Surface) error { return nil }
func (Noop) Remove(int) error   { return nil }

// Projector renders snapshots and forwards them to its backend.
type Projector struct {
	backend Backend
}

// New creates a projector. A nil backend degrades to Noop.
func New(backend Backend) *Projector {
	if backend == nil {
		backend = Noop{}
	}
	return &Projector{backend: backend}
}

// Project repaints the running or paused surface.
func (projector *Projector) Project(snapshot model.Snapshot) error {
	return projector.backend.Show(Render(snapshot))
}

// Complete replaces the surface with the completion surface.
func (projector *Projector) Complete(snapshot model.Snapshot) error {
	return projector.backend.Show(RenderFinished(snapshot))
}

// Remove takes the surface down.
func (projector *Projector) Remove() error {
	return projector.backend.Remove(SurfaceID)
}

// EnsurePermission asks the backend for display permission when it supports it.
func (projector *Projector) EnsurePermission() error {
	if permissioner, ok := projector.backend.(Permissioner); ok {
		return permissioner.EnsurePermission()
	}
	return nil
}

// Multi fans surfaces out to several backends, e.g. a banner and a live countdown.
type Multi struct {
	mu       sync.Mutex
	backends []Backend
}

// NewMulti combines backends; nil entries are skipped.
func NewMulti(backends ...Backend) *Multi {
	multi := &Multi{}
	for _, backend := range backends {
		if backend != nil {
			multi.backends = append(multi.backends, backend)
		}
	}
	return multi
}

func (multi *Multi) Show(surface Surface) error {
	multi.mu.Lock()
	defer multi.mu.Unlock()
	var errs []error
	for _, backend := range multi.backends {
		if err := backend.Show(surface); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (multi *Multi) Remove(id int) error {
	multi.mu.Lock()
	defer multi.mu.Unlock()
	var errs []error
	for _, backend := range multi.backends {
		if err := backend.Remove(id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (multi *Multi) EnsurePermission() error {
	var errs []error
	for _, backend := range multi.backends {
		if permissioner, ok := backend.(Permissioner); ok {
			if err := permissioner.EnsurePermission(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
