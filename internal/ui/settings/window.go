package settings

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"timersync/internal/preferences"
)

var surfaceOptions = []string{
	string(preferences.SurfaceAuto),
	string(preferences.SurfaceTray),
	string(preferences.SurfaceActivity),
	string(preferences.SurfaceDesktop),
	string(preferences.SurfaceConsole),
	string(preferences.SurfaceNone),
}

// Window handles the settings UI. Saved values take effect on the next start.
type Window struct {
	window    fyne.Window
	settings  preferences.Settings
	onSave    func(preferences.Settings)
	title     *widget.Entry
	surface   *widget.Select
	port      *widget.Entry
	refresh   *widget.Entry
	grace     *widget.Entry
	buffer    *widget.Entry
	accessLog *widget.Check
}

// New creates a hidden settings window.
func New(app fyne.App, settings preferences.Settings, onSave func(preferences.Settings)) *Window {
	window := app.NewWindow("Timer Settings")

	prefs := &Window{
		window:    window,
		onSave:    onSave,
		title:     widget.NewEntry(),
		surface:   widget.NewSelect(surfaceOptions, nil),
		port:      widget.NewEntry(),
		refresh:   widget.NewEntry(),
		grace:     widget.NewEntry(),
		buffer:    widget.NewEntry(),
		accessLog: widget.NewCheck("Log relay requests", nil),
	}
	prefs.UpdateSettings(settings)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Timer", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Default title"), prefs.title),
		container.NewHBox(widget.NewLabel("Refresh every"), prefs.refresh, widget.NewLabel("ms")),
		container.NewHBox(widget.NewLabel("Dismiss finished after"), prefs.grace, widget.NewLabel("sec")),
		widget.NewLabelWithStyle("Surface", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.surface,
		widget.NewLabelWithStyle("Relay", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Port (0 = automatic)"), prefs.port),
		container.NewHBox(widget.NewLabel("Event buffer"), prefs.buffer),
		prefs.accessLog,
		widget.NewLabel("Changes apply after restart."),
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	cancelButton := widget.NewButton("Cancel", func() {
		window.Hide()
	})
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(420, 380))
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	return prefs
}

// Show displays the settings window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings preferences.Settings) {
	prefs.settings = settings
	prefs.title.SetText(settings.DefaultTitle)
	prefs.surface.SetSelected(string(settings.Surface))
	prefs.port.SetText(strconv.Itoa(settings.ListenPort))
	prefs.refresh.SetText(fmt.Sprintf("%d", settings.RefreshInterval.Milliseconds()))
	prefs.grace.SetText(fmt.Sprintf("%d", int(settings.GraceDelay.Seconds())))
	prefs.buffer.SetText(strconv.Itoa(settings.EventBuffer))
	prefs.accessLog.SetChecked(settings.AccessLog)
}

// Settings returns the values currently held by the window.
func (prefs *Window) Settings() preferences.Settings {
	return prefs.settings
}

func (prefs *Window) handleSave() {
	settings := prefs.settings

	if prefs.title.Text != "" {
		settings.DefaultTitle = prefs.title.Text
	}
	if kind, ok := preferences.ParseSurfaceKind(prefs.surface.Selected); ok {
		settings.Surface = kind
	}
	if port, err := strconv.Atoi(prefs.port.Text); err == nil && port >= 0 && port <= 65535 {
		settings.ListenPort = port
	}
	if millis, ok := parsePositiveInt(prefs.refresh.Text); ok && millis >= 250 {
		settings.RefreshInterval = time.Duration(millis) * time.Millisecond
	}
	if seconds, ok := parsePositiveInt(prefs.grace.Text); ok {
		settings.GraceDelay = time.Duration(seconds) * time.Second
	}
	if size, ok := parsePositiveInt(prefs.buffer.Text); ok {
		settings.EventBuffer = size
	}
	settings.AccessLog = prefs.accessLog.Checked

	prefs.settings = settings
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
