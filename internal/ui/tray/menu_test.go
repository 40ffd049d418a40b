package tray

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"timersync/internal/core/model"
	"timersync/internal/projector"
)

func TestMenuStateForRunningSurface(t *testing.T) {
	surface := projector.Render(model.Snapshot{
		State:     model.StateRunning,
		Mode:      model.ModeFocus,
		Title:     "Pomodoro",
		Remaining: 25 * time.Minute,
	})

	state := menuStateFor(surface)
	require.True(t, state.Active)
	require.False(t, state.Paused)
	require.Equal(t, model.ButtonPause, state.Toggle)
	require.Contains(t, state.Status, "Pomodoro")
	require.Contains(t, state.Status, "25:00 remaining")
}

func TestMenuStateForPausedSurfaceOffersResume(t *testing.T) {
	surface := projector.Render(model.Snapshot{
		State:     model.StatePaused,
		Mode:      model.ModeShortBreak,
		Title:     "Break",
		Remaining: 4*time.Minute + 30*time.Second,
		Paused:    true,
	})

	state := menuStateFor(surface)
	require.True(t, state.Active)
	require.True(t, state.Paused)
	require.Equal(t, model.ButtonResume, state.Toggle)
	require.Equal(t, model.ModeShortBreak, state.Mode)
}

func TestMenuStateForFinishedSurfaceIsInactive(t *testing.T) {
	state := menuStateFor(projector.RenderFinished(model.Snapshot{Title: "Pomodoro", Mode: model.ModeFocus}))
	require.False(t, state.Active)
	require.True(t, state.Finished)
	require.Contains(t, state.Status, "Timer finished")
}

func TestIdleMenuState(t *testing.T) {
	state := idleMenuState()
	require.False(t, state.Active)
	require.Equal(t, idleStatus, state.Status)
}
