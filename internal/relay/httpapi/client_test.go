package httpapi_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"timersync/internal/core/model"
	"timersync/internal/core/timekeeper"
	"timersync/internal/relay"
	"timersync/internal/relay/httpapi"
)

func TestClientSendAndSnapshot(t *testing.T) {
	h := newHarness(t)
	client := httpapi.NewClient(h.server.URL, nil)
	ctx := context.Background()

	end := h.clock.Now().Add(25 * time.Minute).UnixMilli()
	snapshot, err := client.Send(ctx, "start", map[string]any{"endTimeMillis": end, "title": "Pomodoro"})
	require.NoError(t, err)
	require.Equal(t, string(model.StateRunning), snapshot.State)
	require.Equal(t, int64(1_500_000), snapshot.RemainingMillis)

	snapshot, err = client.Send(ctx, "pause", map[string]any{"remainingMillis": 1_200_000})
	require.NoError(t, err)
	require.True(t, snapshot.IsPaused)

	fetched, err := client.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, snapshot, fetched)
}

func TestClientUnknownCommand(t *testing.T) {
	h := newHarness(t)
	client := httpapi.NewClient(h.server.URL, nil)

	_, err := client.Send(context.Background(), "rewind", nil)
	require.ErrorIs(t, err, relay.ErrUnimplemented)
}

func TestClientWatchStopsWithContext(t *testing.T) {
	h := newHarness(t)
	client := httpapi.NewClient(h.server.URL, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan timekeeper.Event, 4)
	done := make(chan error, 1)
	go func() {
		done <- client.Watch(ctx, func(event timekeeper.Event) { events <- event })
	}()
	require.Eventually(t, func() bool { return h.hub.Attached() == 1 }, time.Second, 10*time.Millisecond)

	h.keeper.Start(h.clock.Now().Add(time.Minute), "", model.ModeFocus)
	select {
	case event := <-events:
		require.Equal(t, timekeeper.ActionStarted, event.Action)
		require.Equal(t, int64(60_000), event.RemainingMillis)
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watch did not return after cancel")
	}
	require.Eventually(t, func() bool { return h.hub.Attached() == 0 }, time.Second, 10*time.Millisecond)
}
