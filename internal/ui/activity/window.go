package activity

import (
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"timersync/internal/core/model"
	"timersync/internal/projector"
)

var (
	textColor   = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	pausedColor = color.NRGBA{R: 0xFF, G: 0xA5, B: 0x00, A: 255}
	background  = color.NRGBA{R: 0x1C, G: 0x1C, B: 0x1E, A: 235}
)

const (
	windowWidth  = float32(320)
	windowHeight = float32(120)
)

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

// Window is the live countdown surface. Its buttons never change local state:
// they relay toggle and skip requests to the application.
type Window struct {
	window        fyne.Window
	accentStrip   *canvas.Rectangle
	titleLabel    *canvas.Text
	subtitleLabel *canvas.Text
	timerLabel    *canvas.Text
	toggleButton  *widget.Button
	skipButton    *widget.Button

	mu      sync.Mutex
	visible bool
}

// New creates a hidden countdown window. onButton receives ButtonToggle and ButtonSkip.
func New(app fyne.App, onButton func(model.Button)) *Window {
	window := app.NewWindow("Timer")
	if driver, ok := app.Driver().(splashWindowDriver); ok {
		// Splash window is undecorated (no native frame/buttons).
		window = driver.CreateSplashWindow()
	}
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}
	window.SetPadded(false)

	accentStrip := canvas.NewRectangle(projector.AccentFocus)
	accentStrip.SetMinSize(fyne.NewSize(6, 0))

	titleLabel := canvas.NewText("", textColor)
	titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	titleLabel.TextSize = 17

	subtitleLabel := canvas.NewText("", textColor)
	subtitleLabel.TextSize = 13

	timerLabel := canvas.NewText("--:--", textColor)
	timerLabel.Alignment = fyne.TextAlignTrailing
	timerLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	timerLabel.TextSize = 28

	press := func(button model.Button) func() {
		return func() {
			if onButton != nil {
				onButton(button)
			}
		}
	}
	toggleButton := widget.NewButton(projector.ButtonLabel(model.ButtonToggle), press(model.ButtonToggle))
	skipButton := widget.NewButton(projector.ButtonLabel(model.ButtonSkip), press(model.ButtonSkip))

	text := container.NewVBox(titleLabel, subtitleLabel)
	buttons := container.NewHBox(toggleButton, skipButton)
	body := container.NewBorder(nil, buttons, nil, timerLabel, text)
	content := container.NewBorder(nil, nil, accentStrip, nil, container.NewPadded(body))
	window.SetContent(container.NewStack(canvas.NewRectangle(background), content))
	window.Resize(fyne.NewSize(windowWidth, windowHeight))

	return &Window{
		window:        window,
		accentStrip:   accentStrip,
		titleLabel:    titleLabel,
		subtitleLabel: subtitleLabel,
		timerLabel:    timerLabel,
		toggleButton:  toggleButton,
		skipButton:    skipButton,
	}
}

// Show repaints the countdown in place and reveals the window on first use.
func (activity *Window) Show(surface projector.Surface) error {
	activity.mu.Lock()
	reveal := !activity.visible
	activity.visible = true
	activity.mu.Unlock()

	fyne.Do(func() {
		activity.applyUnsafe(surface)
		if reveal {
			activity.window.CenterOnScreen()
			activity.window.Show()
		}
	})
	return nil
}

// Remove hides the window.
func (activity *Window) Remove(int) error {
	activity.mu.Lock()
	wasVisible := activity.visible
	activity.visible = false
	activity.mu.Unlock()

	if !wasVisible {
		return nil
	}
	fyne.Do(func() {
		activity.window.Hide()
	})
	return nil
}

func (activity *Window) applyUnsafe(surface projector.Surface) {
	activity.accentStrip.FillColor = surface.Accent
	activity.accentStrip.Refresh()

	activity.titleLabel.Text = surface.Title
	activity.titleLabel.Refresh()

	activity.subtitleLabel.Text = surface.SubText
	if surface.Finished {
		activity.subtitleLabel.Text = surface.Text
	}
	activity.subtitleLabel.Refresh()

	activity.timerLabel.Text = surface.Countdown
	activity.timerLabel.Color = timerColor(surface)
	activity.timerLabel.Refresh()

	if surface.Finished {
		activity.toggleButton.Hide()
		activity.skipButton.Hide()
		return
	}
	activity.toggleButton.Show()
	activity.skipButton.Show()
}

func timerColor(surface projector.Surface) color.Color {
	if surface.Paused {
		return pausedColor
	}
	if surface.Finished {
		return surface.Accent
	}
	return textColor
}
