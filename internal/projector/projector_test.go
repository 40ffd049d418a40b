package projector_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"timersync/internal/core/model"
	"timersync/internal/projector"
)

type recordingBackend struct {
	shown   []projector.Surface
	removed []int
	err     error
	asked   int
}

func (backend *recordingBackend) Show(surface projector.Surface) error {
	backend.shown = append(backend.shown, surface)
	return backend.err
}

func (backend *recordingBackend) Remove(id int) error {
	backend.removed = append(backend.removed, id)
	return backend.err
}

func (backend *recordingBackend) EnsurePermission() error {
	backend.asked++
	return nil
}

func TestFormatRemaining(t *testing.T) {
	cases := []struct {
		input time.Duration
		want  string
	}{
		{25 * time.Minute, "25:00"},
		{24*time.Minute + 58*time.Second, "24:58"},
		{59*time.Second + 999*time.Millisecond, "00:59"},
		{0, "00:00"},
		{-5 * time.Second, "00:00"},
		{125 * time.Minute, "125:00"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, projector.FormatRemaining(tc.input), "input %s", tc.input)
	}
}

func TestRenderRunningFocus(t *testing.T) {
	surface := projector.Render(model.Snapshot{
		State:     model.StateRunning,
		Mode:      model.ModeFocus,
		Title:     "Pomodoro",
		Remaining: 25 * time.Minute,
	})

	require.Equal(t, projector.SurfaceID, surface.ID)
	require.Equal(t, "\U0001F3AF  Pomodoro", surface.Title)
	require.Equal(t, "⏱️  25:00 remaining", surface.Text)
	require.Equal(t, "Stay focused", surface.SubText)
	require.Equal(t, "#E8533E", projector.HexColor(surface.Accent))
	require.True(t, surface.Ongoing)
	require.True(t, surface.Silent)
	require.False(t, surface.Finished)
	require.Equal(t, []model.Button{model.ButtonPause, model.ButtonSkip, model.ButtonStop}, surface.Buttons)
}

func TestRenderPausedBreak(t *testing.T) {
	surface := projector.Render(model.Snapshot{
		State:     model.StatePaused,
		Mode:      model.ModeShortBreak,
		Title:     "Break",
		Remaining: 20 * time.Minute,
		Paused:    true,
	})

	require.Equal(t, "⏸️  Paused — 20:00 remaining", surface.Text)
	require.Equal(t, "#3ECE8E", projector.HexColor(surface.Accent))
	require.Equal(t, "Short break", surface.SubText)
	require.Equal(t, model.ButtonResume, surface.Buttons[0])
	require.Len(t, surface.Buttons, 3)
}

func TestRenderFinished(t *testing.T) {
	surface := projector.RenderFinished(model.Snapshot{Mode: model.ModeLongBreak, Title: "Long"})

	require.Equal(t, "✅  Long", surface.Title)
	require.Equal(t, "Timer finished! Well done.", surface.Text)
	require.True(t, surface.Finished)
	require.True(t, surface.AutoCancel)
	require.False(t, surface.Ongoing)
	require.Empty(t, surface.Buttons)
	require.Equal(t, projector.AccentBreak, surface.Accent)
}

func TestProjectorForwardsToBackend(t *testing.T) {
	backend := &recordingBackend{}
	p := projector.New(backend)

	require.NoError(t, p.Project(model.Snapshot{Mode: model.ModeFocus, Title: "a", Remaining: time.Minute}))
	require.NoError(t, p.Complete(model.Snapshot{Mode: model.ModeFocus, Title: "a"}))
	require.NoError(t, p.Remove())
	require.NoError(t, p.EnsurePermission())

	require.Len(t, backend.shown, 2)
	require.False(t, backend.shown[0].Finished)
	require.True(t, backend.shown[1].Finished)
	require.Equal(t, []int{projector.SurfaceID}, backend.removed)
	require.Equal(t, 1, backend.asked)
}

func TestProjectorWithoutBackendSucceeds(t *testing.T) {
	p := projector.New(nil)
	require.NoError(t, p.Project(model.Snapshot{}))
	require.NoError(t, p.Complete(model.Snapshot{}))
	require.NoError(t, p.Remove())
	require.NoError(t, p.EnsurePermission())
}

func TestMultiJoinsErrors(t *testing.T) {
	healthy := &recordingBackend{}
	broken := &recordingBackend{err: errors.New("window gone")}
	multi := projector.NewMulti(healthy, nil, broken)

	err := multi.Show(projector.Surface{ID: projector.SurfaceID})
	require.ErrorContains(t, err, "window gone")
	require.Len(t, healthy.shown, 1)
	require.Len(t, broken.shown, 1)

	require.NoError(t, multi.EnsurePermission())
	require.Equal(t, 1, healthy.asked)
}

func TestConsoleWritesChangedLinesOnly(t *testing.T) {
	var out bytes.Buffer
	console := projector.NewConsole(&out)
	surface := projector.Render(model.Snapshot{Mode: model.ModeFocus, Title: "Pomodoro", Remaining: 25 * time.Minute})

	require.NoError(t, console.Show(surface))
	require.NoError(t, console.Show(surface))
	require.NoError(t, console.Remove(projector.SurfaceID))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], "25:00 remaining")
	require.Contains(t, lines[0], "Pomodoro")
	require.Contains(t, lines[0], "[Pause] [Skip] [Stop]")
	require.Equal(t, "[1001] removed", lines[1])
}
