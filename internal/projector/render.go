// Package projector turns controller snapshots into status surface descriptions
// and hands them to a platform backend.
package projector

import (
	"fmt"
	"image/color"
	"time"

	"timersync/internal/core/model"
)

// SurfaceID identifies the single status surface. It is updated in place, never recreated.
const SurfaceID = 1001

var (
	// AccentFocus is the coral accent of focus sessions (#E8533E).
	AccentFocus = color.NRGBA{R: 0xE8, G: 0x53, B: 0x3E, A: 0xFF}
	// AccentBreak is the green accent of short and long breaks (#3ECE8E).
	AccentBreak = color.NRGBA{R: 0x3E, G: 0xCE, B: 0x8E, A: 0xFF}
)

// Surface describes what a backend should display.
type Surface struct {
	ID        int
	Mode      model.Mode
	Title     string
	Text      string
	SubText   string
	Countdown string
	Remaining time.Duration
	Accent    color.NRGBA
	Paused    bool
	Finished  bool
	// Ongoing surfaces cannot be dismissed by the user.
	Ongoing bool
	// Silent surfaces repaint without alert, sound or vibration.
	Silent     bool
	AutoCancel bool
	Buttons    []model.Button
}

// Render describes a running or paused session.
func Render(snapshot model.Snapshot) Surface {
	countdown := FormatRemaining(snapshot.Remaining)
	text := "⏱️  " + countdown + " remaining"
	toggle := model.ButtonPause
	if snapshot.Paused {
		text = "⏸️  Paused — " + countdown + " remaining"
		toggle = model.ButtonResume
	}

	return Surface{
		ID:        SurfaceID,
		Mode:      snapshot.Mode,
		Title:     ModeIcon(snapshot.Mode) + "  " + snapshot.Title,
		Text:      text,
		SubText:   ModeSubText(snapshot.Mode),
		Countdown: countdown,
		Remaining: snapshot.Remaining,
		Accent:    Accent(snapshot.Mode),
		Paused:    snapshot.Paused,
		Ongoing:   true,
		Silent:    true,
		Buttons:   []model.Button{toggle, model.ButtonSkip, model.ButtonStop},
	}
}

// RenderFinished describes the dismissible completion surface.
func RenderFinished(snapshot model.Snapshot) Surface {
	return Surface{
		ID:         SurfaceID,
		Mode:       snapshot.Mode,
		Title:      "✅  " + snapshot.Title,
		Text:       "Timer finished! Well done.",
		SubText:    ModeSubText(snapshot.Mode),
		Countdown:  FormatRemaining(0),
		Accent:     Accent(snapshot.Mode),
		Finished:   true,
		AutoCancel: true,
	}
}

// FormatRemaining renders a duration as mm:ss, truncating partial seconds.
func FormatRemaining(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	seconds := int(remaining / time.Second)
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Accent returns the mode accent color.
func Accent(mode model.Mode) color.NRGBA {
	if mode.IsBreak() {
		return AccentBreak
	}
	return AccentFocus
}

// HexColor formats a color as #RRGGBB.
func HexColor(value color.NRGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", value.R, value.G, value.B)
}

// ModeIcon returns the emoji prefix for the surface title.
func ModeIcon(mode model.Mode) string {
	switch mode {
	case model.ModeShortBreak:
		return "☕"
	case model.ModeLongBreak:
		return "\U0001F33F"
	default:
		return "\U0001F3AF"
	}
}

// ModeSubText returns the line shown below the surface content.
func ModeSubText(mode model.Mode) string {
	switch mode {
	case model.ModeShortBreak:
		return "Short break"
	case model.ModeLongBreak:
		return "Long break"
	default:
		return "Stay focused"
	}
}

// ButtonLabel returns the caption of an action affordance.
func ButtonLabel(button model.Button) string {
	switch button {
	case model.ButtonPause:
		return "Pause"
	case model.ButtonResume:
		return "Resume"
	case model.ButtonToggle:
		return "Pause/Resume"
	case model.ButtonSkip:
		return "Skip"
	case model.ButtonStop:
		return "Stop"
	default:
		return string(button)
	}
}
