package tray

import (
	"timersync/internal/core/model"
	"timersync/internal/projector"
)

type menuState struct {
	Status   string
	Toggle   model.Button
	Mode     model.Mode
	Active   bool
	Paused   bool
	Finished bool
}

func idleMenuState() menuState {
	return menuState{
		Status: idleStatus,
		Toggle: model.ButtonPause,
		Mode:   model.ModeFocus,
	}
}

func menuStateFor(surface projector.Surface) menuState {
	state := menuState{
		Status:   surface.Title + " · " + surface.Text,
		Toggle:   model.ButtonPause,
		Mode:     surface.Mode,
		Paused:   surface.Paused,
		Finished: surface.Finished,
	}
	if surface.Finished {
		return state
	}

	state.Active = true
	for _, button := range surface.Buttons {
		if button == model.ButtonPause || button == model.ButtonResume {
			state.Toggle = button
		}
	}
	return state
}

func (state menuState) icon() iconKind {
	switch {
	case state.Finished:
		return iconFinished
	case !state.Active:
		return iconIdle
	case state.Paused:
		return iconPaused
	case state.Mode.IsBreak():
		return iconBreak
	default:
		return iconFocus
	}
}
