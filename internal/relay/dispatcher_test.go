package relay_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"timersync/internal/core/model"
	"timersync/internal/relay"
)

type fakeController struct {
	calls []string
}

func (controller *fakeController) Start(endTime time.Time, title string, mode model.Mode) {
	controller.calls = append(controller.calls, fmt.Sprintf("start %d %q %s", endTime.UnixMilli(), title, mode))
}

func (controller *fakeController) Pause() {
	controller.calls = append(controller.calls, "pause")
}

func (controller *fakeController) PauseAt(remaining time.Duration) {
	controller.calls = append(controller.calls, fmt.Sprintf("pauseAt %s", remaining))
}

func (controller *fakeController) Resume() {
	controller.calls = append(controller.calls, "resume")
}

func (controller *fakeController) ResumeUntil(endTime time.Time) {
	controller.calls = append(controller.calls, fmt.Sprintf("resumeUntil %d", endTime.UnixMilli()))
}

func (controller *fakeController) Skip() {
	controller.calls = append(controller.calls, "skip")
}

func (controller *fakeController) Stop() {
	controller.calls = append(controller.calls, "stop")
}

func (controller *fakeController) Snapshot() model.Snapshot {
	return model.Snapshot{State: model.StateIdle}
}

func TestDispatchStart(t *testing.T) {
	controller := &fakeController{}
	dispatcher := relay.NewDispatcher(controller)

	require.NoError(t, dispatcher.Dispatch(relay.Command{
		Method: "startTimerNotification",
		Args:   map[string]any{"endTimeMillis": float64(1_700_000_000_000), "title": "Deep work", "mode": "longBreak"},
	}))
	require.NoError(t, dispatcher.Dispatch(relay.Command{Method: relay.CommandStart}))
	require.NoError(t, dispatcher.Dispatch(relay.Command{
		Method: relay.CommandStart,
		Args:   map[string]any{"endTimeMillis": "garbage", "title": 42, "mode": "nap"},
	}))

	require.Equal(t, []string{
		`start 1700000000000 "Deep work" longBreak`,
		`start 0 "" focus`,
		`start 0 "" focus`,
	}, controller.calls)
}

func TestDispatchPauseDefaults(t *testing.T) {
	controller := &fakeController{}
	dispatcher := relay.NewDispatcher(controller)

	require.NoError(t, dispatcher.Dispatch(relay.Command{Method: relay.CommandPause, Args: map[string]any{"remainingMillis": 1_200_000}}))
	require.NoError(t, dispatcher.Dispatch(relay.Command{Method: "pauseTimerNotification"}))
	require.NoError(t, dispatcher.Dispatch(relay.Command{Method: relay.CommandPause, Args: map[string]any{"remainingMillis": -1}}))

	require.Equal(t, []string{"pauseAt 20m0s", "pauseAt 0s", "pause"}, controller.calls)
}

func TestDispatchSaturatesHugeArguments(t *testing.T) {
	controller := &fakeController{}
	dispatcher := relay.NewDispatcher(controller)

	require.NoError(t, dispatcher.Dispatch(relay.Command{Method: relay.CommandPause, Args: map[string]any{"remainingMillis": json.Number("9223372036854775807")}}))
	require.NoError(t, dispatcher.Dispatch(relay.Command{Method: relay.CommandPause, Args: map[string]any{"remainingMillis": float64(1e30)}}))
	require.NoError(t, dispatcher.Dispatch(relay.Command{Method: relay.CommandPause, Args: map[string]any{"remainingMillis": json.Number("1e30")}}))
	require.NoError(t, dispatcher.Dispatch(relay.Command{Method: relay.CommandPause, Args: map[string]any{"remainingMillis": float64(-1e30)}}))

	longest := fmt.Sprintf("pauseAt %s", time.Duration(math.MaxInt64))
	require.Equal(t, []string{longest, longest, longest, "pause"}, controller.calls)
}

func TestDispatchResume(t *testing.T) {
	controller := &fakeController{}
	dispatcher := relay.NewDispatcher(controller)

	require.NoError(t, dispatcher.Dispatch(relay.Command{Method: relay.CommandResume}))
	require.NoError(t, dispatcher.Dispatch(relay.Command{Method: relay.CommandResume, Args: map[string]any{"endTimeMillis": 0}}))
	require.NoError(t, dispatcher.Dispatch(relay.Command{Method: "resumeTimerNotification", Args: map[string]any{"endTimeMillis": json.Number("1700000000000")}}))

	require.Equal(t, []string{"resume", "resume", "resumeUntil 1700000000000"}, controller.calls)
}

func TestDispatchSkipStopAndPermission(t *testing.T) {
	controller := &fakeController{}
	asked := 0
	dispatcher := relay.NewDispatcher(controller, relay.WithPermission(func() error {
		asked++
		return errors.New("denied")
	}))

	require.NoError(t, dispatcher.Dispatch(relay.Command{Method: relay.CommandSkip}))
	require.NoError(t, dispatcher.Dispatch(relay.Command{Method: "stopTimerNotification"}))
	require.NoError(t, dispatcher.Dispatch(relay.Command{Method: "requestNotificationPermission"}))

	require.Equal(t, []string{"skip", "stop"}, controller.calls)
	require.Equal(t, 1, asked)
}

func TestDispatchUnknownIsUnimplemented(t *testing.T) {
	controller := &fakeController{}
	dispatcher := relay.NewDispatcher(controller)

	err := dispatcher.Dispatch(relay.Command{Method: "rewind"})
	require.ErrorIs(t, err, relay.ErrUnimplemented)
	require.True(t, strings.Contains(err.Error(), "rewind"))
	require.Empty(t, controller.calls)
}
