package httpapi_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"timersync/internal/core/clock"
	"timersync/internal/core/model"
	"timersync/internal/core/timekeeper"
	"timersync/internal/relay"
	"timersync/internal/relay/httpapi"
)

type harness struct {
	clock  *clock.Manual
	keeper *timekeeper.TimeKeeper
	hub    *relay.Hub
	server *httptest.Server
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := log.New(io.Discard, "", 0)
	clk := clock.NewManual(time.UnixMilli(1_700_000_000_000))
	hub := relay.NewHub(logger)
	keeper := timekeeper.New(model.Config{}, timekeeper.Options{Clock: clk, Publisher: hub, Logger: logger})
	dispatcher := relay.NewDispatcher(keeper, relay.WithLogger(logger))
	server := httptest.NewServer(httpapi.NewRouter(dispatcher, hub, httpapi.Config{EventBuffer: 4}))
	t.Cleanup(server.Close)
	return &harness{clock: clk, keeper: keeper, hub: hub, server: server}
}

func (h *harness) post(t *testing.T, method, body string) (*http.Response, httpapi.SnapshotResponse) {
	t.Helper()
	resp, err := http.Post(h.server.URL+"/commands/"+method, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var snapshot httpapi.SnapshotResponse
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&snapshot))
	}
	return resp, snapshot
}

func TestPostStartReturnsSnapshot(t *testing.T) {
	h := newHarness(t)
	end := h.clock.Now().Add(25 * time.Minute).UnixMilli()

	resp, snapshot := h.post(t, "startTimerNotification",
		`{"endTimeMillis": `+jsonInt(end)+`, "title": "Pomodoro", "mode": "focus"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "running", snapshot.State)
	require.Equal(t, "Pomodoro", snapshot.Title)
	require.Equal(t, int64(1_500_000), snapshot.RemainingMillis)
	require.Equal(t, end, snapshot.EndTimeMillis)
	require.NotEmpty(t, snapshot.SessionID)
}

func TestPostMalformedBodyUsesDefaults(t *testing.T) {
	h := newHarness(t)
	h.keeper.Start(h.clock.Now().Add(time.Hour), "x", model.ModeFocus)

	resp, snapshot := h.post(t, "pause", `{not json`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, snapshot.IsPaused)
	require.Zero(t, snapshot.RemainingMillis)
}

func TestPostUnknownCommandIsNotImplemented(t *testing.T) {
	h := newHarness(t)

	resp, _ := h.post(t, "rewind", `{}`)
	require.Equal(t, http.StatusNotImplemented, resp.StatusCode)
}

func TestGetSnapshot(t *testing.T) {
	h := newHarness(t)
	h.keeper.Start(h.clock.Now().Add(time.Minute), "", model.ModeShortBreak)

	resp, err := http.Get(h.server.URL + "/snapshot")
	require.NoError(t, err)
	defer resp.Body.Close()

	var snapshot httpapi.SnapshotResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snapshot))
	require.Equal(t, "shortBreak", snapshot.Mode)
	require.Equal(t, model.DefaultTitle, snapshot.Title)
	require.Equal(t, int64(60_000), snapshot.RemainingMillis)
}

func TestEventStreamDeliversActions(t *testing.T) {
	h := newHarness(t)

	resp, err := http.Get(h.server.URL + "/events")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	require.Eventually(t, func() bool { return h.hub.Attached() == 1 }, time.Second, 10*time.Millisecond)

	h.keeper.Start(h.clock.Now().Add(2*time.Minute), "Pomodoro", model.ModeFocus)
	h.keeper.Pause()

	reader := bufio.NewReader(resp.Body)
	require.Equal(t, timekeeper.Event{Action: timekeeper.ActionStarted, RemainingMillis: 120_000}, readEvent(t, reader))
	require.Equal(t, timekeeper.Event{Action: timekeeper.ActionPaused, RemainingMillis: 120_000, IsPaused: true}, readEvent(t, reader))
}

func readEvent(t *testing.T, reader *bufio.Reader) timekeeper.Event {
	t.Helper()
	for {
		line, err := reader.ReadBytes('\n')
		require.NoError(t, err)
		line = bytes.TrimSpace(line)
		if !bytes.HasPrefix(line, []byte("data: ")) {
			continue
		}
		var event timekeeper.Event
		require.NoError(t, json.Unmarshal(bytes.TrimPrefix(line, []byte("data: ")), &event))
		return event
	}
}

func jsonInt(value int64) string {
	data, _ := json.Marshal(value)
	return string(data)
}
