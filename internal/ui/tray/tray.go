package tray

import (
	"errors"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"timersync/internal/core/model"
	"timersync/internal/projector"
	"timersync/resources"
)

// ErrTrayUnsupported is returned when the fyne driver has no system tray.
var ErrTrayUnsupported = errors.New("system tray unsupported")

const (
	menuTitle  = "Timer"
	idleStatus = "No active timer"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnButton      func(model.Button)
	OnPreferences func()
	OnQuit        func()
}

// trayHost is the part of desktop.App the banner drives.
type trayHost interface {
	SetSystemTrayMenu(menu *fyne.Menu)
	SetSystemTrayIcon(icon fyne.Resource)
}

// Banner is the persistent status surface shown in the system tray menu.
// Pause/Resume and Stop are applied locally by the OnButton handler; Skip only
// relays a request.
type Banner struct {
	app       fyne.App
	host      trayHost
	callbacks Callbacks

	menu       *fyne.Menu
	statusItem *fyne.MenuItem
	toggleItem *fyne.MenuItem
	skipItem   *fyne.MenuItem
	stopItem   *fyne.MenuItem
	icon       iconKind

	mu    sync.Mutex
	state menuState
}

// New installs the tray menu. It fails with ErrTrayUnsupported on drivers without a tray.
func New(app fyne.App, callbacks Callbacks) (*Banner, error) {
	desktopApp, ok := app.(desktop.App)
	if !ok {
		return nil, ErrTrayUnsupported
	}
	return newBanner(app, desktopApp, callbacks), nil
}

func newBanner(app fyne.App, host trayHost, callbacks Callbacks) *Banner {
	banner := &Banner{
		app:       app,
		host:      host,
		callbacks: callbacks,
		state:     idleMenuState(),
	}

	banner.statusItem = fyne.NewMenuItem(idleStatus, nil)
	banner.statusItem.Disabled = true

	banner.toggleItem = fyne.NewMenuItem(projector.ButtonLabel(model.ButtonPause), func() {
		banner.press(banner.currentToggle())
	})
	banner.skipItem = fyne.NewMenuItem(projector.ButtonLabel(model.ButtonSkip), func() {
		banner.press(model.ButtonSkip)
	})
	banner.stopItem = fyne.NewMenuItem(projector.ButtonLabel(model.ButtonStop), func() {
		banner.press(model.ButtonStop)
	})

	preferences := fyne.NewMenuItem("Preferences", func() {
		if banner.callbacks.OnPreferences != nil {
			banner.callbacks.OnPreferences()
		}
	})
	quit := fyne.NewMenuItem("Quit", func() {
		if banner.callbacks.OnQuit != nil {
			banner.callbacks.OnQuit()
		}
	})

	banner.menu = fyne.NewMenu(menuTitle,
		banner.statusItem,
		fyne.NewMenuItemSeparator(),
		banner.toggleItem,
		banner.skipItem,
		banner.stopItem,
		fyne.NewMenuItemSeparator(),
		preferences,
		quit,
	)
	banner.updateItems(banner.state)
	host.SetSystemTrayMenu(banner.menu)
	banner.setIcon(banner.state.icon())
	return banner
}

// Show repaints the menu in place. The completion surface additionally posts one
// desktop notification; running repaints never alert.
func (banner *Banner) Show(surface projector.Surface) error {
	state := menuStateFor(surface)

	banner.mu.Lock()
	banner.state = state
	banner.mu.Unlock()

	notify := surface.Finished && !surface.Silent
	fyne.Do(func() {
		banner.apply(state)
		if notify {
			banner.app.SendNotification(fyne.NewNotification(surface.Title, surface.Text))
		}
	})
	return nil
}

// Remove resets the menu to the idle status.
func (banner *Banner) Remove(int) error {
	state := idleMenuState()

	banner.mu.Lock()
	banner.state = state
	banner.mu.Unlock()

	fyne.Do(func() {
		banner.apply(state)
	})
	return nil
}

// apply runs on the fyne goroutine. The menu and its items are never recreated.
func (banner *Banner) apply(state menuState) {
	banner.updateItems(state)
	banner.menu.Refresh()
	banner.setIcon(state.icon())
}

func (banner *Banner) updateItems(state menuState) {
	banner.statusItem.Label = state.Status
	banner.toggleItem.Label = projector.ButtonLabel(state.Toggle)
	banner.toggleItem.Disabled = !state.Active
	banner.skipItem.Disabled = !state.Active
	banner.stopItem.Disabled = !state.Active && !state.Finished
}

func (banner *Banner) setIcon(kind iconKind) {
	if kind == banner.icon {
		return
	}
	banner.icon = kind
	banner.host.SetSystemTrayIcon(kind.resource())
}

// currentToggle is read at tap time so a stale menu never resumes a running timer.
func (banner *Banner) currentToggle() model.Button {
	banner.mu.Lock()
	defer banner.mu.Unlock()
	return banner.state.Toggle
}

func (banner *Banner) press(button model.Button) {
	if banner.callbacks.OnButton != nil {
		banner.callbacks.OnButton(button)
	}
}

type iconKind string

const (
	iconIdle     iconKind = "idle"
	iconFocus    iconKind = "focus"
	iconBreak    iconKind = "break"
	iconPaused   iconKind = "paused"
	iconFinished iconKind = "finished"
)

func (kind iconKind) resource() fyne.Resource {
	switch kind {
	case iconFinished:
		return resources.StateIcon(model.ModeFocus, false, true, false)
	case iconPaused:
		return resources.StateIcon(model.ModeFocus, true, false, true)
	case iconBreak:
		return resources.StateIcon(model.ModeShortBreak, false, false, true)
	case iconFocus:
		return resources.StateIcon(model.ModeFocus, false, false, true)
	default:
		return resources.AppIcon()
	}
}
